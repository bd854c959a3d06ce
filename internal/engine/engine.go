// Package engine is the ranking and aggregation core of the Q&A forum: it
// owns the tag index, the vote aggregate and the three question orderings
// (Newest, Active, Unanswered), all derived from records in the Store.
//
// Writes serialize per entity through a keyed mutex, commit to the store
// first, then apply every derived-index update in one critical section, so a
// read always observes the result of a prefix of completed writes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
	"github.com/ethannchen/nextqnaweb-sub001/internal/store"
)

const maxCommentLength = 500

// maxWriteRetries bounds the retry loops taken when the store reports a
// uniqueness race on a write.
const maxWriteRetries = 3

// Options tunes engine behavior. The zero value is usable: real clock,
// oldest-first answer ties.
type Options struct {
	TieBreak AnswerTieBreak
	Clock    clockwork.Clock
}

type Engine struct {
	store store.Store
	clock clockwork.Clock
	opts  Options
	log   *logrus.Entry

	// locks serializes writes per question/answer.
	locks *keyedMutex

	// mu guards all derived state below.
	mu        sync.RWMutex
	seq       int64
	questions map[uint]*questionState
	answers   map[uint]*answerState
	tags      *tagIndex
	votes     *voteBook
	rank      *questionRank
}

// New builds an engine on top of st and hydrates every derived index from
// the stored records.
func New(ctx context.Context, st store.Store, opts Options) (*Engine, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	e := &Engine{
		store:     st,
		clock:     opts.Clock,
		opts:      opts,
		log:       logrus.WithField("component", "engine"),
		locks:     newKeyedMutex(),
		questions: make(map[uint]*questionState),
		answers:   make(map[uint]*answerState),
		tags:      newTagIndex(),
		votes:     newVoteBook(),
		rank:      newQuestionRank(),
	}
	if err := e.load(ctx); err != nil {
		return nil, fmt.Errorf("hydrating engine: %w", err)
	}
	return e, nil
}

func questionLockKey(id uint) string { return "question:" + strconv.FormatUint(uint64(id), 10) }
func answerLockKey(id uint) string   { return "answer:" + strconv.FormatUint(uint64(id), 10) }

// load rebuilds the in-memory aggregates from the store. Runs before the
// engine is shared, so no locking.
func (e *Engine) load(ctx context.Context) error {
	questions, err := e.store.ListQuestions(ctx)
	if err != nil {
		return err
	}
	for _, q := range questions {
		e.questions[q.ID] = &questionState{
			q:         q,
			activeAt:  q.CreatedAt,
			activeSeq: q.Seq,
		}
		if q.Seq > e.seq {
			e.seq = q.Seq
		}
	}

	tags, err := e.store.ListTags(ctx)
	if err != nil {
		return err
	}
	display := make(map[string]string, len(tags))
	for _, t := range tags {
		display[t.ID] = t.Name
		e.tags.ensure(t)
	}
	links, err := e.store.ListQuestionTags(ctx)
	if err != nil {
		return err
	}
	for _, link := range links {
		qs, ok := e.questions[link.QuestionID]
		if !ok {
			continue
		}
		qs.tagIDs = append(qs.tagIDs, link.TagID)
		e.tags.attach(link.QuestionID, []models.Tag{{ID: link.TagID, Name: display[link.TagID]}})
	}

	// Answers replay in ID order, which is creation order, so each one can
	// take the next event sequence for its question's Active position.
	answers, err := e.store.ListAnswers(ctx)
	if err != nil {
		return err
	}
	for _, a := range answers {
		e.answers[a.ID] = &answerState{a: a}
		qs, ok := e.questions[a.QuestionID]
		if !ok {
			continue
		}
		qs.answers = append(qs.answers, a.ID)
		e.seq++
		if !a.CreatedAt.Before(qs.activeAt) {
			qs.activeAt = a.CreatedAt
			qs.activeSeq = e.seq
		}
	}

	votes, err := e.store.ListVotes(ctx)
	if err != nil {
		return err
	}
	for _, v := range votes {
		e.votes.add(v.AnswerID, v.UserID)
	}

	comments, err := e.store.ListComments(ctx)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if as, ok := e.answers[c.AnswerID]; ok {
			as.comments = append(as.comments, c.ID)
		}
	}

	for id, qs := range e.questions {
		e.rank.newestKeys[id] = rankKey{at: qs.q.CreatedAt, seq: qs.q.Seq}
		e.rank.activeKeys[id] = rankKey{at: qs.activeAt, seq: qs.activeSeq}
		e.rank.newest = insertRanked(e.rank.newest, id, e.rank.newestKeys[id], e.rank.newestKeys)
		e.rank.active = insertRanked(e.rank.active, id, e.rank.activeKeys[id], e.rank.activeKeys)
		if len(qs.answers) == 0 {
			e.rank.unanswered = insertRanked(e.rank.unanswered, id, e.rank.newestKeys[id], e.rank.newestKeys)
		}
	}

	e.log.WithFields(logrus.Fields{
		"questions": len(e.questions),
		"answers":   len(e.answers),
		"votes":     len(votes),
	}).Info("engine hydrated")
	return nil
}

// CreateQuestion validates the request, resolves its tags (creating unseen
// ones), persists everything as one unit and registers the question in all
// three orderings. author may be empty for anonymous posting.
func (e *Engine) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest, author string) (QuestionView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return QuestionView{}, &ValidationError{Message: "Title cannot be empty."}
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return QuestionView{}, &ValidationError{Message: "Text cannot be empty."}
	}

	now := e.clock.Now()

	e.mu.RLock()
	tags, err := e.tags.resolve(req.Tags, now)
	e.mu.RUnlock()
	if err != nil {
		return QuestionView{}, err
	}

	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	q := &models.Question{Title: title, Text: text, Author: author, Seq: seq, CreatedAt: now}
	stored := false
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		q.ID = 0
		err := e.store.CreateQuestion(ctx, q, tags)
		if err == nil {
			stored = true
			break
		}
		if errors.Is(err, store.ErrDuplicate) {
			// Two requests raced on a brand-new tag; the loser retries now
			// that the tag row exists.
			continue
		}
		return QuestionView{}, err
	}
	if !stored {
		return QuestionView{}, &ConflictError{Message: "Question could not be created due to concurrent updates."}
	}

	e.mu.Lock()
	qs := &questionState{
		q:         *q,
		tagIDs:    lo.Map(tags, func(t models.Tag, _ int) string { return t.ID }),
		activeAt:  now,
		activeSeq: seq,
	}
	e.questions[q.ID] = qs
	e.tags.attach(q.ID, tags)
	e.rank.insert(q.ID, rankKey{at: now, seq: seq})
	view := e.questionViewLocked(qs)
	e.mu.Unlock()

	return view, nil
}

// CreateAnswer appends an answer to an existing question and moves the
// question to the front of Active and out of Unanswered.
func (e *Engine) CreateAnswer(ctx context.Context, questionID uint, req models.CreateAnswerRequest, author string) (AnswerView, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return AnswerView{}, &ValidationError{Message: "Text cannot be empty."}
	}

	unlock := e.locks.Lock(questionLockKey(questionID))
	defer unlock()

	e.mu.RLock()
	_, known := e.questions[questionID]
	e.mu.RUnlock()
	if !known {
		return AnswerView{}, &NotFoundError{Message: fmt.Sprintf("Question %d not found.", questionID)}
	}

	a := &models.Answer{QuestionID: questionID, Text: text, Author: author, CreatedAt: e.clock.Now()}
	if err := e.store.CreateAnswer(ctx, a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AnswerView{}, &NotFoundError{Message: fmt.Sprintf("Question %d not found.", questionID)}
		}
		return AnswerView{}, err
	}

	e.mu.Lock()
	as := &answerState{a: *a}
	e.answers[a.ID] = as
	qs := e.questions[questionID]
	qs.answers = append(qs.answers, a.ID)
	e.seq++
	qs.activeAt = a.CreatedAt
	qs.activeSeq = e.seq
	e.rank.promote(questionID, rankKey{at: qs.activeAt, seq: qs.activeSeq})
	view := e.answerViewLocked(as, author)
	e.mu.Unlock()

	return view, nil
}

// CreateComment attaches a comment to an answer. Commenting always requires
// an authenticated author.
func (e *Engine) CreateComment(ctx context.Context, answerID uint, req models.CreateCommentRequest, author string) (models.Comment, error) {
	if author == "" {
		return models.Comment{}, errAuthRequired()
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.Comment{}, &ValidationError{Message: "Comment cannot be empty."}
	}
	if len([]rune(text)) > maxCommentLength {
		return models.Comment{}, &ValidationError{Message: "Comment cannot exceed 500 characters."}
	}

	unlock := e.locks.Lock(answerLockKey(answerID))
	defer unlock()

	e.mu.RLock()
	_, known := e.answers[answerID]
	e.mu.RUnlock()
	if !known {
		return models.Comment{}, &NotFoundError{Message: fmt.Sprintf("Answer %d not found.", answerID)}
	}

	c := &models.Comment{AnswerID: answerID, Author: author, Text: text, CreatedAt: e.clock.Now()}
	if err := e.store.CreateComment(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Comment{}, &NotFoundError{Message: fmt.Sprintf("Answer %d not found.", answerID)}
		}
		return models.Comment{}, err
	}

	e.mu.Lock()
	e.answers[answerID].comments = append(e.answers[answerID].comments, c.ID)
	e.mu.Unlock()

	return *c, nil
}

// ListQuestions returns question views under the requested ordering,
// optionally restricted to one tag (matched case-insensitively).
func (e *Engine) ListQuestions(ordering, tagFilter string) ([]QuestionView, error) {
	ord, err := ParseOrdering(ordering)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.rank.list(ord)
	if tagFilter != "" {
		tagID := normalizeTag(tagFilter)
		ids = lo.Filter(ids, func(id uint, _ int) bool { return e.tags.has(tagID, id) })
	}

	return lo.Map(ids, func(id uint, _ int) QuestionView {
		return e.questionViewLocked(e.questions[id])
	}), nil
}

// ListAnswers returns a question's answers best-first: vote count
// descending, ties by creation time. userID (may be empty) marks which
// answers the caller has voted on.
func (e *Engine) ListAnswers(questionID uint, userID string) ([]AnswerView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	qs, ok := e.questions[questionID]
	if !ok {
		return nil, &NotFoundError{Message: fmt.Sprintf("Question %d not found.", questionID)}
	}

	ranked := e.rankAnswers(qs.answers)
	return lo.Map(ranked, func(id uint, _ int) AnswerView {
		return e.answerViewLocked(e.answers[id], userID)
	}), nil
}

// ListComments returns an answer's comments oldest-first.
func (e *Engine) ListComments(ctx context.Context, answerID uint) ([]models.Comment, error) {
	e.mu.RLock()
	_, known := e.answers[answerID]
	e.mu.RUnlock()
	if !known {
		return nil, &NotFoundError{Message: fmt.Sprintf("Answer %d not found.", answerID)}
	}
	return e.store.ListCommentsByAnswer(ctx, answerID)
}

// ListTags returns every tag with its live question count, sorted by name.
func (e *Engine) ListTags() []TagView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tags.all()
}
