package engine

import (
	"sort"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

// AnswerTieBreak decides which of two answers with equal vote counts and
// equal creation timestamps comes first. Observed behavior never pins this
// down, so it is configurable; OldestFirst is the conservative default.
type AnswerTieBreak int

const (
	OldestFirst AnswerTieBreak = iota
	NewestFirst
)

// answerState is the engine's aggregate view of one answer.
type answerState struct {
	a        models.Answer
	comments []uint
}

// rankAnswers orders a question's answers by vote count descending, then
// creation time ascending (oldest of equally-voted answers first, flipped by
// the NewestFirst option), then answer ID as the final deterministic tie.
// Answer sets per question are small, so this recomputes on every read.
// Caller must hold the engine's state lock.
func (e *Engine) rankAnswers(ids []uint) []uint {
	out := make([]uint, len(ids))
	copy(out, ids)

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := e.answers[out[i]], e.answers[out[j]]
		ci, cj := e.votes.count(out[i]), e.votes.count(out[j])
		if ci != cj {
			return ci > cj
		}
		if !ai.a.CreatedAt.Equal(aj.a.CreatedAt) {
			if e.opts.TieBreak == NewestFirst {
				return ai.a.CreatedAt.After(aj.a.CreatedAt)
			}
			return ai.a.CreatedAt.Before(aj.a.CreatedAt)
		}
		if e.opts.TieBreak == NewestFirst {
			return out[i] > out[j]
		}
		return out[i] < out[j]
	})
	return out
}
