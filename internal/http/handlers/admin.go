package handlers

import (
	"net/http"

	"cmbs_reminder/internal/seed"

	"github.com/gin-gonic/gin"
)

// Bootstrap endpoints, JWT-guarded at the router. Not part of the stable
// production contract; they exist for demo and test seeding.

// Reset deletes all task records and rewinds the id counter.
func (h *Handler) Reset(c *gin.Context) {
	if err := h.Tasks.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// Seed resets tasks and loads the demo portfolio.
func (h *Handler) Seed(c *gin.Context) {
	if err := seed.Run(c.Request.Context(), h.Tasks, h.Refs); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "seeded"})
}
