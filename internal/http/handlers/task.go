package handlers

import (
	"net/http"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/repository"
	"cmbs_reminder/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest mirrors the task fields a caller may set. ID is only
// honored for bootstrap-style fixed tasks; normal creation leaves it empty
// and gets a server-assigned id.
type CreateTaskRequest struct {
	ID              string   `json:"task_id"`
	Description     string   `json:"description" binding:"required"`
	DueDate         string   `json:"due_date" binding:"required"`
	AssignedTo      string   `json:"assigned_to" binding:"required"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	PropertyID      string   `json:"property_id"`
	LoanID          string   `json:"loan_id"`
	TaskType        string   `json:"task_type"`
	Dependencies    []string `json:"dependencies"`
	LastUpdateDate  string   `json:"last_update_date"`
	LastUpdateNotes string   `json:"last_update_notes"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	due, err := domain.ParseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
		return
	}

	task := &domain.Task{
		ID:              req.ID,
		Description:     req.Description,
		DueDate:         due,
		AssignedTo:      req.AssignedTo,
		Status:          domain.Status(req.Status),
		Priority:        domain.Priority(req.Priority),
		PropertyID:      req.PropertyID,
		LoanID:          req.LoanID,
		TaskType:        req.TaskType,
		Dependencies:    req.Dependencies,
		LastUpdateNotes: req.LastUpdateNotes,
	}
	if req.Status != "" && !task.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	if req.Priority != "" && !task.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority"})
		return
	}
	if req.LastUpdateDate != "" {
		d, err := domain.ParseDate(req.LastUpdateDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "last_update_date must be YYYY-MM-DD"})
			return
		}
		task.LastUpdateDate = &d
	}

	created, err := h.Tasks.Create(c.Request.Context(), task)
	if err == repository.ErrTaskExists {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatusRequest sets a new status with optional notes.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	status := domain.Status(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	task, err := h.Tasks.UpdateStatus(c.Request.Context(), c.Param("id"), status, req.Notes)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}
