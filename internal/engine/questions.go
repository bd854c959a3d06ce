package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

// Ordering selects one of the three total orders over the question set.
type Ordering string

const (
	OrderNewest     Ordering = "Newest"
	OrderActive     Ordering = "Active"
	OrderUnanswered Ordering = "Unanswered"
)

// ParseOrdering matches the ordering key case-insensitively. An empty key
// defaults to Newest; anything else fails with InvalidArgumentError.
func ParseOrdering(s string) (Ordering, error) {
	switch {
	case s == "" || strings.EqualFold(s, string(OrderNewest)):
		return OrderNewest, nil
	case strings.EqualFold(s, string(OrderActive)):
		return OrderActive, nil
	case strings.EqualFold(s, string(OrderUnanswered)):
		return OrderUnanswered, nil
	default:
		return "", &InvalidArgumentError{Message: fmt.Sprintf("Unknown ordering %q.", s)}
	}
}

// questionState is the engine's aggregate view of one question.
type questionState struct {
	q         models.Question
	tagIDs    []string
	answers   []uint
	activeAt  time.Time // creation time, or the newest answer's creation time
	activeSeq int64     // sequence of the event that set activeAt
}

// rankKey orders questions most-recent-first. Wall clocks collide within a
// test run, so equal timestamps fall back to the monotonic event sequence,
// descending.
type rankKey struct {
	at  time.Time
	seq int64
}

// ranksBefore reports whether k sorts ahead of other (closer to position 0).
func (k rankKey) ranksBefore(other rankKey) bool {
	if !k.at.Equal(other.at) {
		return k.at.After(other.at)
	}
	return k.seq > other.seq
}

// questionRank maintains the three orderings as explicit index structures so
// they cannot drift apart: every structural mutation updates all of them in
// one critical section under the engine's state lock.
//
// Newest keys are fixed at insertion; Active keys move forward whenever the
// question receives an answer. Vote toggles never touch any of this.
type questionRank struct {
	newestKeys map[uint]rankKey
	activeKeys map[uint]rankKey

	newest     []uint
	active     []uint
	unanswered []uint
}

func newQuestionRank() *questionRank {
	return &questionRank{
		newestKeys: make(map[uint]rankKey),
		activeKeys: make(map[uint]rankKey),
	}
}

func insertRanked(ids []uint, id uint, key rankKey, keys map[uint]rankKey) []uint {
	i := sort.Search(len(ids), func(i int) bool {
		return key.ranksBefore(keys[ids[i]])
	})
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func removeID(ids []uint, id uint) []uint {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// insert registers a brand-new question in all three orderings.
func (r *questionRank) insert(id uint, key rankKey) {
	r.newestKeys[id] = key
	r.activeKeys[id] = key
	r.newest = insertRanked(r.newest, id, key, r.newestKeys)
	r.active = insertRanked(r.active, id, key, r.activeKeys)
	r.unanswered = insertRanked(r.unanswered, id, key, r.newestKeys)
}

// promote moves a question forward in Active after it received an answer and
// drops it from Unanswered for good.
func (r *questionRank) promote(id uint, key rankKey) {
	r.active = removeID(r.active, id)
	r.activeKeys[id] = key
	r.active = insertRanked(r.active, id, key, r.activeKeys)
	r.unanswered = removeID(r.unanswered, id)
}

// list returns a copy of the requested ordering.
func (r *questionRank) list(ord Ordering) []uint {
	var src []uint
	switch ord {
	case OrderNewest:
		src = r.newest
	case OrderActive:
		src = r.active
	case OrderUnanswered:
		src = r.unanswered
	}
	out := make([]uint, len(src))
	copy(out, src)
	return out
}
