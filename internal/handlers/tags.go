package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
)

type TagHandler struct {
	engine *engine.Engine
}

func NewTagHandler(e *engine.Engine) *TagHandler {
	return &TagHandler{engine: e}
}

// GetTags returns every tag with its live question count.
func (h *TagHandler) GetTags(c *gin.Context) {
	tags := h.engine.ListTags()
	if tags == nil {
		tags = []engine.TagView{}
	}
	c.JSON(http.StatusOK, tags)
}
