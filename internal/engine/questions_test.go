package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrdering(t *testing.T) {
	for input, want := range map[string]Ordering{
		"":           OrderNewest,
		"Newest":     OrderNewest,
		"newest":     OrderNewest,
		"Active":     OrderActive,
		"ACTIVE":     OrderActive,
		"Unanswered": OrderUnanswered,
	} {
		got, err := ParseOrdering(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseOrdering("Trending")
	var ia *InvalidArgumentError
	assert.ErrorAs(t, err, &ia)
}

func TestRankKeyOrdering(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)

	assert.True(t, rankKey{at: t1, seq: 1}.ranksBefore(rankKey{at: t0, seq: 2}))
	assert.False(t, rankKey{at: t0, seq: 2}.ranksBefore(rankKey{at: t1, seq: 1}))

	// Equal timestamps fall back to sequence, descending.
	assert.True(t, rankKey{at: t0, seq: 5}.ranksBefore(rankKey{at: t0, seq: 4}))
	assert.False(t, rankKey{at: t0, seq: 4}.ranksBefore(rankKey{at: t0, seq: 5}))
}

func TestQuestionRankPromote(t *testing.T) {
	r := newQuestionRank()
	t0 := time.Unix(1000, 0)

	r.insert(1, rankKey{at: t0, seq: 1})
	r.insert(2, rankKey{at: t0, seq: 2})
	r.insert(3, rankKey{at: t0, seq: 3})

	assert.Equal(t, []uint{3, 2, 1}, r.list(OrderNewest))
	assert.Equal(t, []uint{3, 2, 1}, r.list(OrderActive))
	assert.Equal(t, []uint{3, 2, 1}, r.list(OrderUnanswered))

	// Question 1 receives an answer: front of Active, gone from Unanswered,
	// Newest untouched.
	r.promote(1, rankKey{at: t0, seq: 4})

	assert.Equal(t, []uint{3, 2, 1}, r.list(OrderNewest))
	assert.Equal(t, []uint{1, 3, 2}, r.list(OrderActive))
	assert.Equal(t, []uint{3, 2}, r.list(OrderUnanswered))

	// Promote is idempotent with regard to Unanswered.
	r.promote(1, rankKey{at: t0, seq: 5})
	assert.Equal(t, []uint{3, 2}, r.list(OrderUnanswered))
}

func TestInsertRankedKeepsDescendingOrder(t *testing.T) {
	keys := map[uint]rankKey{}
	t0 := time.Unix(1000, 0)

	var ids []uint
	for _, item := range []struct {
		id  uint
		key rankKey
	}{
		{1, rankKey{at: t0, seq: 1}},
		{3, rankKey{at: t0.Add(2 * time.Second), seq: 3}},
		{2, rankKey{at: t0.Add(time.Second), seq: 2}},
	} {
		keys[item.id] = item.key
		ids = insertRanked(ids, item.id, item.key, keys)
	}

	assert.Equal(t, []uint{3, 2, 1}, ids)
}
