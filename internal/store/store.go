// Package store provides durable persistence for questions, answers, tags,
// votes and comments. It offers create/read/list primitives only; ordering
// and aggregation live in the engine.
package store

import (
	"context"
	"errors"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule,
	// e.g. a second vote for the same (answer, user) pair.
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	// CreateQuestion persists the question together with its resolved tags
	// and tag links as one atomic unit. Tags that already exist keep their
	// stored display name.
	CreateQuestion(ctx context.Context, q *models.Question, tags []models.Tag) error
	GetQuestion(ctx context.Context, id uint) (*models.Question, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)

	CreateAnswer(ctx context.Context, a *models.Answer) error
	GetAnswer(ctx context.Context, id uint) (*models.Answer, error)
	ListAnswers(ctx context.Context) ([]models.Answer, error)

	ListTags(ctx context.Context) ([]models.Tag, error)
	ListQuestionTags(ctx context.Context) ([]models.QuestionTag, error)

	// InsertVote fails with ErrDuplicate if the (answer, user) pair already
	// holds a vote. DeleteVote fails with ErrNotFound if it does not.
	InsertVote(ctx context.Context, v *models.Vote) error
	DeleteVote(ctx context.Context, answerID uint, userID string) error
	ListVotes(ctx context.Context) ([]models.Vote, error)
	ListVotesByAnswer(ctx context.Context, answerID uint) ([]models.Vote, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context) ([]models.Comment, error)
	ListCommentsByAnswer(ctx context.Context, answerID uint) ([]models.Comment, error)
}
