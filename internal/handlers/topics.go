package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/util"
)

// ListTopics returns the global topic list
// GET /api/v1/topics
func (h *Handlers) ListTopics(c *gin.Context) {
	topics, err := h.topics.ListTopics(c.Request.Context())
	if err != nil {
		util.RespondInternalError(c)
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
