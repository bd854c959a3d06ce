package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
)

// Handler combines all handler types
type Handler struct {
	Question *QuestionHandler
	Answer   *AnswerHandler
	Comment  *CommentHandler
	Tag      *TagHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(e *engine.Engine) *Handler {
	return &Handler{
		Question: NewQuestionHandler(e),
		Answer:   NewAnswerHandler(e),
		Comment:  NewCommentHandler(e),
		Tag:      NewTagHandler(e),
	}
}

// extractUserID returns the authenticated user set by the Identity
// middleware, or empty for anonymous requests.
func extractUserID(c *gin.Context) string {
	raw, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	id, _ := raw.(string)
	return id
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps the engine's typed errors to HTTP status codes. Nothing
// unexpected leaks to the client.
func respondError(c *gin.Context, err error) {
	var (
		validation *engine.ValidationError
		invalidArg *engine.InvalidArgumentError
		authErr    *engine.AuthRequiredError
		notFound   *engine.NotFoundError
		conflict   *engine.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &invalidArg):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidArg.Message})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message})
	default:
		logrus.WithError(err).WithField("request_id", c.GetString("request_id")).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
