package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
	"github.com/ethannchen/nextqnaweb-sub001/internal/models"
)

type CommentHandler struct {
	engine *engine.Engine
}

func NewCommentHandler(e *engine.Engine) *CommentHandler {
	return &CommentHandler{engine: e}
}

// GetComments returns all comments on an answer, oldest first.
func (h *CommentHandler) GetComments(c *gin.Context) {
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	comments, err := h.engine.ListComments(c.Request.Context(), answerID)
	if err != nil {
		respondError(c, err)
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment posts a comment on an answer. Commenting requires login.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.engine.CreateComment(c.Request.Context(), answerID, input, extractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}
