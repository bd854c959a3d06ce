package engine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
	"github.com/ethannchen/nextqnaweb-sub001/internal/store"
)

func TestCastVoteToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.mustAsk(t, "Q1", "go")
	a := f.mustAnswer(t, q.ID, "alice")

	res, err := f.engine.CastVote(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, engine.VoteResult{Count: 1, Voted: true, Outcome: engine.VoteInserted}, res)

	res, err = f.engine.CastVote(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, engine.VoteResult{Count: 0, Voted: false, Outcome: engine.VoteRemoved}, res)
}

// After N toggles by one user the count differs from the start by N mod 2,
// and the vote state equals N mod 2 == 1.
func TestCastVoteToggleParity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.mustAsk(t, "Q1", "go")
	a := f.mustAnswer(t, q.ID, "alice")

	// Baseline of 3 votes from other users.
	for _, u := range []string{"u1", "u2", "u3"} {
		_, err := f.engine.CastVote(ctx, a.ID, u)
		require.NoError(t, err)
	}

	for n := 1; n <= 7; n++ {
		res, err := f.engine.CastVote(ctx, a.ID, "toggler")
		require.NoError(t, err)
		wantVoted := n%2 == 1
		wantCount := 3
		if wantVoted {
			wantCount = 4
		}
		assert.Equal(t, wantCount, res.Count, "after %d toggles", n)
		assert.Equal(t, wantVoted, res.Voted, "after %d toggles", n)
	}
}

func TestCastVoteRequiresLogin(t *testing.T) {
	f := newFixture(t)
	q := f.mustAsk(t, "Q1", "go")
	a := f.mustAnswer(t, q.ID, "alice")

	_, err := f.engine.CastVote(context.Background(), a.ID, "")
	var ae *engine.AuthRequiredError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "You need to log in first.", ae.Message)
}

func TestCastVoteUnknownAnswer(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CastVote(context.Background(), 42, "u1")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
}

// Concurrent votes by distinct users on one answer must all apply.
func TestCastVoteConcurrentDistinctUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.mustAsk(t, "Q1", "go")
	a := f.mustAnswer(t, q.ID, "alice")

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.engine.CastVote(ctx, a.ID, fmt.Sprintf("user-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	views, err := f.engine.ListAnswers(q.ID, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, voters, views[0].Votes)
}

// Concurrent toggles by the same user serialize: an even number of calls
// always nets out to the starting state, never a double-apply.
func TestCastVoteConcurrentSameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.mustAsk(t, "Q1", "go")
	a := f.mustAnswer(t, q.ID, "alice")

	const toggles = 20
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.CastVote(ctx, a.ID, "clicker")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	views, err := f.engine.ListAnswers(q.ID, "clicker")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 0, views[0].Votes)
	assert.False(t, views[0].UserHasVoted)
}

// conflictStore inserts votes that it then denies ever having, forcing the
// engine through its resync path until the retries run out.
type conflictStore struct {
	*store.Memory
}

func (s *conflictStore) InsertVote(ctx context.Context, v *models.Vote) error {
	if _, err := s.Memory.GetAnswer(ctx, v.AnswerID); err != nil {
		return err
	}
	return store.ErrDuplicate
}

func (s *conflictStore) ListVotesByAnswer(ctx context.Context, answerID uint) ([]models.Vote, error) {
	return nil, nil
}

func TestCastVoteSurfacesConflictAfterRetries(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	cs := &conflictStore{Memory: mem}
	e, err := engine.New(ctx, cs, engine.Options{})
	require.NoError(t, err)

	q, err := e.CreateQuestion(ctx, models.CreateQuestionRequest{Title: "t", Text: "b", Tags: []string{"go"}}, "")
	require.NoError(t, err)
	a, err := e.CreateAnswer(ctx, q.ID, models.CreateAnswerRequest{Text: "a"}, "")
	require.NoError(t, err)

	_, err = e.CastVote(ctx, a.ID, "u1")
	var ce *engine.ConflictError
	require.ErrorAs(t, err, &ce)
}
