package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

// Gorm is the Postgres-backed Store. It expects a *gorm.DB opened with
// TranslateError enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey (see internal/database).
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (g *Gorm) CreateQuestion(ctx context.Context, q *models.Question, tags []models.Tag) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		for i := range tags {
			// Keep the stored display name if the tag already exists.
			if err := tx.Where(models.Tag{ID: tags[i].ID}).FirstOrCreate(&tags[i]).Error; err != nil {
				return err
			}
			link := models.QuestionTag{QuestionID: q.ID, TagID: tags[i].ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

func (g *Gorm) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	if err := g.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (g *Gorm) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) CreateAnswer(ctx context.Context, a *models.Answer) error {
	var q models.Question
	if err := g.db.WithContext(ctx).First(&q, a.QuestionID).Error; err != nil {
		return translate(err)
	}
	return translate(g.db.WithContext(ctx).Create(a).Error)
}

func (g *Gorm) GetAnswer(ctx context.Context, id uint) (*models.Answer, error) {
	var a models.Answer
	if err := g.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *Gorm) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	var out []models.Answer
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) ListTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) ListQuestionTags(ctx context.Context) ([]models.QuestionTag, error) {
	var out []models.QuestionTag
	err := g.db.WithContext(ctx).Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) InsertVote(ctx context.Context, v *models.Vote) error {
	var a models.Answer
	if err := g.db.WithContext(ctx).First(&a, v.AnswerID).Error; err != nil {
		return translate(err)
	}
	return translate(g.db.WithContext(ctx).Create(v).Error)
}

func (g *Gorm) DeleteVote(ctx context.Context, answerID uint, userID string) error {
	res := g.db.WithContext(ctx).
		Where("answer_id = ? AND user_id = ?", answerID, userID).
		Delete(&models.Vote{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ListVotes(ctx context.Context) ([]models.Vote, error) {
	var out []models.Vote
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) ListVotesByAnswer(ctx context.Context, answerID uint) ([]models.Vote, error) {
	var out []models.Vote
	err := g.db.WithContext(ctx).Where("answer_id = ?", answerID).Order("id").Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) CreateComment(ctx context.Context, c *models.Comment) error {
	var a models.Answer
	if err := g.db.WithContext(ctx).First(&a, c.AnswerID).Error; err != nil {
		return translate(err)
	}
	return translate(g.db.WithContext(ctx).Create(c).Error)
}

func (g *Gorm) ListComments(ctx context.Context) ([]models.Comment, error) {
	var out []models.Comment
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, translate(err)
}

func (g *Gorm) ListCommentsByAnswer(ctx context.Context, answerID uint) ([]models.Comment, error) {
	var out []models.Comment
	err := g.db.WithContext(ctx).Where("answer_id = ?", answerID).Order("id").Find(&out).Error
	return out, translate(err)
}
