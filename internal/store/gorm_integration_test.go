package store

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ethannchen/nextqnaweb-sub001/internal/database"
	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()

	// Container-backed tests are skipped in short mode.
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		os.Exit(1)
	}

	testDB, err = gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open gorm: %v\n", err)
		os.Exit(1)
	}
	if err := database.Migrate(testDB); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate postgres container: %v\n", err)
	}
	os.Exit(code)
}

func newGormStore(t *testing.T) *Gorm {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Each test starts from empty tables.
	for _, table := range []string{"votes", "comments", "question_tags", "answers", "tags", "questions"} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
	return NewGorm(testDB)
}

func TestGormCreateQuestionIsAtomic(t *testing.T) {
	g := newGormStore(t)
	ctx := context.Background()

	q := models.Question{Title: "t", Text: "b", Seq: 1, CreatedAt: time.Now().UTC()}
	tags := []models.Tag{
		{ID: "go", Name: "Go"},
		{ID: "testing", Name: "testing"},
	}
	require.NoError(t, g.CreateQuestion(ctx, &q, tags))
	require.NotZero(t, q.ID)

	got, err := g.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)

	links, err := g.ListQuestionTags(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	// Reusing a tag keeps its stored display name.
	q2 := models.Question{Title: "t2", Text: "b2", Seq: 2, CreatedAt: time.Now().UTC()}
	require.NoError(t, g.CreateQuestion(ctx, &q2, []models.Tag{{ID: "go", Name: "GO"}}))

	allTags, err := g.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, allTags, 2)
	assert.Equal(t, "Go", allTags[0].Name)
}

func TestGormVoteUniqueIndex(t *testing.T) {
	g := newGormStore(t)
	ctx := context.Background()

	q := models.Question{Title: "t", Text: "b", Seq: 1}
	require.NoError(t, g.CreateQuestion(ctx, &q, []models.Tag{{ID: "go", Name: "go"}}))
	a := models.Answer{QuestionID: q.ID, Text: "a"}
	require.NoError(t, g.CreateAnswer(ctx, &a))

	v := models.Vote{AnswerID: a.ID, UserID: "u1"}
	require.NoError(t, g.InsertVote(ctx, &v))

	dup := models.Vote{AnswerID: a.ID, UserID: "u1"}
	assert.ErrorIs(t, g.InsertVote(ctx, &dup), ErrDuplicate)

	require.NoError(t, g.DeleteVote(ctx, a.ID, "u1"))
	assert.ErrorIs(t, g.DeleteVote(ctx, a.ID, "u1"), ErrNotFound)
}

func TestGormNotFoundTranslation(t *testing.T) {
	g := newGormStore(t)
	ctx := context.Background()

	_, err := g.GetQuestion(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)

	a := models.Answer{QuestionID: 4242, Text: "a"}
	assert.ErrorIs(t, g.CreateAnswer(ctx, &a), ErrNotFound)

	c := models.Comment{AnswerID: 4242, Author: "bob", Text: "hi"}
	assert.ErrorIs(t, g.CreateComment(ctx, &c), ErrNotFound)
}

func TestGormListOrders(t *testing.T) {
	g := newGormStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		q := models.Question{Title: fmt.Sprintf("q%d", i), Text: "b", Seq: int64(i)}
		require.NoError(t, g.CreateQuestion(ctx, &q, []models.Tag{{ID: "go", Name: "go"}}))
	}

	questions, err := g.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.True(t, questions[0].ID < questions[1].ID && questions[1].ID < questions[2].ID)
}
