package handlers

import (
	"net/http"

	"cmbs_reminder/internal/domain"

	"github.com/gin-gonic/gin"
)

// CheckRemindersRequest carries the evaluation date; empty means today.
type CheckRemindersRequest struct {
	CurrentDate string `json:"current_date"`
}

// CheckReminders runs one reminder cycle and returns the per-task
// outcomes. A store failure fails the whole request; the caller (or the
// background trigger) retries on its next invocation.
func (h *Handler) CheckReminders(c *gin.Context) {
	current := domain.Today()

	var req CheckRemindersRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
		if req.CurrentDate != "" {
			parsed, err := domain.ParseDate(req.CurrentDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "current_date must be YYYY-MM-DD"})
				return
			}
			current = parsed
		}
	}

	outcomes, err := h.Orchestrator.RunCycle(c.Request.Context(), current)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reminder cycle failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcomes)
}
