package handlers

import (
	"cmbs_reminder/internal/repository"
	"cmbs_reminder/internal/service"
	"cmbs_reminder/internal/store"
)

// Handler carries the dependencies shared by the API endpoints.
type Handler struct {
	Tasks        *repository.TaskRepository
	Refs         *repository.ReferenceRepository
	Orchestrator *service.Orchestrator
}

func NewHandler(records *store.Records, orchestrator *service.Orchestrator) *Handler {
	return &Handler{
		Tasks:        repository.NewTaskRepository(records),
		Refs:         repository.NewReferenceRepository(records),
		Orchestrator: orchestrator,
	}
}
