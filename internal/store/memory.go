package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

// Memory is a map-backed Store used by tests and local development. All
// methods are safe for concurrent use.
type Memory struct {
	mu sync.Mutex

	nextQuestionID uint
	nextAnswerID   uint
	nextCommentID  uint
	nextVoteID     uint

	questions    map[uint]models.Question
	answers      map[uint]models.Answer
	tags         map[string]models.Tag
	questionTags []models.QuestionTag
	votes        map[uint]models.Vote // keyed by vote ID
	comments     map[uint]models.Comment
}

func NewMemory() *Memory {
	return &Memory{
		questions: make(map[uint]models.Question),
		answers:   make(map[uint]models.Answer),
		tags:      make(map[string]models.Tag),
		votes:     make(map[uint]models.Vote),
		comments:  make(map[uint]models.Comment),
	}
}

func (m *Memory) CreateQuestion(ctx context.Context, q *models.Question, tags []models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextQuestionID++
	q.ID = m.nextQuestionID
	m.questions[q.ID] = *q

	for _, t := range tags {
		if _, ok := m.tags[t.ID]; !ok {
			m.tags[t.ID] = t
		}
		m.questionTags = append(m.questionTags, models.QuestionTag{QuestionID: q.ID, TagID: t.ID})
	}
	return nil
}

func (m *Memory) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (m *Memory) ListQuestions(ctx context.Context) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateAnswer(ctx context.Context, a *models.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[a.QuestionID]; !ok {
		return ErrNotFound
	}
	m.nextAnswerID++
	a.ID = m.nextAnswerID
	m.answers[a.ID] = *a
	return nil
}

func (m *Memory) GetAnswer(ctx context.Context, id uint) (*models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.answers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *Memory) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Answer, 0, len(m.answers))
	for _, a := range m.answers {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListTags(ctx context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListQuestionTags(ctx context.Context) ([]models.QuestionTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.QuestionTag, len(m.questionTags))
	copy(out, m.questionTags)
	return out, nil
}

func (m *Memory) InsertVote(ctx context.Context, v *models.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.answers[v.AnswerID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.votes {
		if existing.AnswerID == v.AnswerID && existing.UserID == v.UserID {
			return ErrDuplicate
		}
	}
	m.nextVoteID++
	v.ID = m.nextVoteID
	m.votes[v.ID] = *v
	return nil
}

func (m *Memory) DeleteVote(ctx context.Context, answerID uint, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, v := range m.votes {
		if v.AnswerID == answerID && v.UserID == userID {
			delete(m.votes, id)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) ListVotes(ctx context.Context) ([]models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Vote, 0, len(m.votes))
	for _, v := range m.votes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListVotesByAnswer(ctx context.Context, answerID uint) ([]models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Vote
	for _, v := range m.votes {
		if v.AnswerID == answerID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateComment(ctx context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.answers[c.AnswerID]; !ok {
		return ErrNotFound
	}
	m.nextCommentID++
	c.ID = m.nextCommentID
	m.comments[c.ID] = *c
	return nil
}

func (m *Memory) ListComments(ctx context.Context) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListCommentsByAnswer(ctx context.Context, answerID uint) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Comment
	for _, c := range m.comments {
		if c.AnswerID == answerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
