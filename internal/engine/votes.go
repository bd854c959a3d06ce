package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
	"github.com/ethannchen/nextqnaweb-sub001/internal/store"
)

// VoteOutcome tells which branch of the toggle applied.
type VoteOutcome int

const (
	VoteInserted VoteOutcome = iota
	VoteRemoved
)

func (o VoteOutcome) String() string {
	if o == VoteInserted {
		return "inserted"
	}
	return "removed"
}

// VoteResult is returned by CastVote: the answer's new count and whether the
// calling user holds a vote after the toggle.
type VoteResult struct {
	Count   int         `json:"count"`
	Voted   bool        `json:"user_has_voted"`
	Outcome VoteOutcome `json:"-"`
}

// voteBook is the in-memory vote aggregate: per answer, the set of users who
// have upvoted it. Count is always len of the set. Guarded by the engine's
// state lock.
type voteBook struct {
	byAnswer map[uint]map[string]struct{}
}

func newVoteBook() *voteBook {
	return &voteBook{byAnswer: make(map[uint]map[string]struct{})}
}

func (b *voteBook) has(answerID uint, userID string) bool {
	_, ok := b.byAnswer[answerID][userID]
	return ok
}

func (b *voteBook) add(answerID uint, userID string) {
	voters, ok := b.byAnswer[answerID]
	if !ok {
		voters = make(map[string]struct{})
		b.byAnswer[answerID] = voters
	}
	voters[userID] = struct{}{}
}

func (b *voteBook) remove(answerID uint, userID string) {
	delete(b.byAnswer[answerID], userID)
}

func (b *voteBook) count(answerID uint) int {
	return len(b.byAnswer[answerID])
}

// replace swaps an answer's voter set wholesale, used when resyncing from
// the store after a write race.
func (b *voteBook) replace(answerID uint, votes []models.Vote) {
	voters := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		voters[v.UserID] = struct{}{}
	}
	b.byAnswer[answerID] = voters
}

// CastVote toggles the (answer, user) vote: inserts it if absent, removes it
// if present. The per-answer lock serializes same-user double-clicks and
// linearizes distinct users so no update is lost. The store's unique index
// is the backstop; on a membership race the engine resyncs and retries a
// bounded number of times before giving up with ConflictError.
func (e *Engine) CastVote(ctx context.Context, answerID uint, userID string) (VoteResult, error) {
	if userID == "" {
		return VoteResult{}, errAuthRequired()
	}

	unlock := e.locks.Lock(answerLockKey(answerID))
	defer unlock()

	e.mu.RLock()
	_, known := e.answers[answerID]
	voted := e.votes.has(answerID, userID)
	e.mu.RUnlock()

	if !known {
		return VoteResult{}, &NotFoundError{Message: fmt.Sprintf("Answer %d not found.", answerID)}
	}

	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		if voted {
			err := e.store.DeleteVote(ctx, answerID, userID)
			switch {
			case err == nil:
				e.mu.Lock()
				e.votes.remove(answerID, userID)
				count := e.votes.count(answerID)
				e.mu.Unlock()
				return VoteResult{Count: count, Voted: false, Outcome: VoteRemoved}, nil
			case errors.Is(err, store.ErrNotFound):
				// Store disagrees; reload membership and retry.
				var rerr error
				voted, rerr = e.resyncVotes(ctx, answerID, userID)
				if rerr != nil {
					return VoteResult{}, rerr
				}
				continue
			default:
				return VoteResult{}, err
			}
		}

		vote := &models.Vote{AnswerID: answerID, UserID: userID, CreatedAt: e.clock.Now()}
		err := e.store.InsertVote(ctx, vote)
		switch {
		case err == nil:
			e.mu.Lock()
			e.votes.add(answerID, userID)
			count := e.votes.count(answerID)
			e.mu.Unlock()
			return VoteResult{Count: count, Voted: true, Outcome: VoteInserted}, nil
		case errors.Is(err, store.ErrDuplicate):
			var rerr error
			voted, rerr = e.resyncVotes(ctx, answerID, userID)
			if rerr != nil {
				return VoteResult{}, rerr
			}
			continue
		case errors.Is(err, store.ErrNotFound):
			return VoteResult{}, &NotFoundError{Message: fmt.Sprintf("Answer %d not found.", answerID)}
		default:
			return VoteResult{}, err
		}
	}

	return VoteResult{}, &ConflictError{Message: "Vote could not be applied due to concurrent updates."}
}

// resyncVotes reloads an answer's voter set from the store and reports
// whether userID currently holds a vote. Caller must hold the answer lock.
func (e *Engine) resyncVotes(ctx context.Context, answerID uint, userID string) (bool, error) {
	votes, err := e.store.ListVotesByAnswer(ctx, answerID)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	e.votes.replace(answerID, votes)
	voted := e.votes.has(answerID, userID)
	e.mu.Unlock()

	return voted, nil
}
