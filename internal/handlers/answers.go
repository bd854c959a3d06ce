package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

type AnswerHandler struct {
	engine *engine.Engine
}

func NewAnswerHandler(e *engine.Engine) *AnswerHandler {
	return &AnswerHandler{engine: e}
}

// GetAnswers returns a question's answers best-first. When the caller is
// authenticated, each answer carries their vote state.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	views, err := h.engine.ListAnswers(questionID, extractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if views == nil {
		views = []engine.AnswerView{}
	}
	c.JSON(http.StatusOK, views)
}

// CreateAnswer posts an answer to a question. Anonymous posting is allowed.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	view, err := h.engine.CreateAnswer(c.Request.Context(), questionID, input, extractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// VoteAnswer toggles the caller's upvote on an answer and returns the new
// count plus the caller's vote state.
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.engine.CastVote(c.Request.Context(), answerID, extractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
