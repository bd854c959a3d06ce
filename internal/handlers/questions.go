package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

type QuestionHandler struct {
	engine *engine.Engine
}

func NewQuestionHandler(e *engine.Engine) *QuestionHandler {
	return &QuestionHandler{engine: e}
}

// GetQuestions returns all questions under ?order=Newest|Active|Unanswered,
// optionally filtered by ?tag=<name>.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	views, err := h.engine.ListQuestions(c.Query("order"), c.Query("tag"))
	if err != nil {
		respondError(c, err)
		return
	}

	// If no questions, return empty array not null
	if views == nil {
		views = []engine.QuestionView{}
	}
	c.JSON(http.StatusOK, views)
}

// CreateQuestion creates a new question. Anonymous posting is allowed.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	view, err := h.engine.CreateQuestion(c.Request.Context(), input, extractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}
