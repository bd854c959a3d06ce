package engine

import (
	"time"

	"github.com/samber/lo"
)

// Views are the aggregate read models handed to the HTTP layer: a question
// carries its resolved tag names, an answer carries its live vote count and
// the caller's vote state.

type QuestionView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Author      string    `json:"author,omitempty"`
	Tags        []string  `json:"tags"`
	AnswerCount int       `json:"answer_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type AnswerView struct {
	ID           uint      `json:"id"`
	QuestionID   uint      `json:"question_id"`
	Text         string    `json:"text"`
	Author       string    `json:"author,omitempty"`
	Votes        int       `json:"votes"`
	UserHasVoted bool      `json:"user_has_voted"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type TagView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// questionViewLocked builds the view for one question. Caller must hold the
// state lock.
func (e *Engine) questionViewLocked(qs *questionState) QuestionView {
	tags := lo.Map(qs.tagIDs, func(id string, _ int) string {
		if entry, ok := e.tags.tags[id]; ok {
			return entry.display
		}
		return id
	})
	return QuestionView{
		ID:          qs.q.ID,
		Title:       qs.q.Title,
		Text:        qs.q.Text,
		Author:      qs.q.Author,
		Tags:        tags,
		AnswerCount: len(qs.answers),
		CreatedAt:   qs.q.CreatedAt,
	}
}

// answerViewLocked builds the view for one answer as seen by userID (empty
// for anonymous readers). Caller must hold the state lock.
func (e *Engine) answerViewLocked(as *answerState, userID string) AnswerView {
	return AnswerView{
		ID:           as.a.ID,
		QuestionID:   as.a.QuestionID,
		Text:         as.a.Text,
		Author:       as.a.Author,
		Votes:        e.votes.count(as.a.ID),
		UserHasVoted: userID != "" && e.votes.has(as.a.ID, userID),
		CommentCount: len(as.comments),
		CreatedAt:    as.a.CreatedAt,
	}
}
