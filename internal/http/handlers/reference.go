package handlers

import (
	"net/http"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/store"

	"github.com/gin-gonic/gin"
)

// Reference-data endpoints. Properties and loans are read-mostly records
// the contextualizer resolves against; the store supports generic writes so
// they can be loaded and corrected over the API.

func (h *Handler) PutProperty(c *gin.Context) {
	var prop domain.PropertyContext
	if err := c.ShouldBindJSON(&prop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	prop.ID = c.Param("id")

	if err := h.Refs.PutProperty(c.Request.Context(), &prop); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (h *Handler) GetProperty(c *gin.Context) {
	prop, err := h.Refs.GetProperty(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (h *Handler) PutLoan(c *gin.Context) {
	var loan domain.LoanContext
	if err := c.ShouldBindJSON(&loan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	loan.ID = c.Param("id")

	if err := h.Refs.PutLoan(c.Request.Context(), &loan); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *Handler) GetLoan(c *gin.Context) {
	loan, err := h.Refs.GetLoan(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}
