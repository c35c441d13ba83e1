// Package seed populates the store with the demo portfolio: two properties,
// two loans and three tasks (one overdue with completed dependency stubs,
// one due soon). Used for local runs and scenario tests only.
package seed

import (
	"context"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
	"cmbs_reminder/internal/repository"
)

// Run resets the task store and writes the demo records. Reference data is
// overwritten in place; tasks and the id counter start from scratch.
func Run(ctx context.Context, tasks *repository.TaskRepository, refs *repository.ReferenceRepository) error {
	if err := tasks.Reset(ctx); err != nil {
		return err
	}
	if err := seedReferences(ctx, refs); err != nil {
		return err
	}
	if err := seedTasks(ctx, tasks); err != nil {
		return err
	}
	logger.Info("demo data seeded")
	return nil
}

func seedReferences(ctx context.Context, refs *repository.ReferenceRepository) error {
	properties := []*domain.PropertyContext{
		{ID: "PROP-GRND", PropertyType: "Office", OccupancyRate: 0.85, SquareFootage: 150000},
		{ID: "PROP-RETAIL", PropertyType: "Retail", OccupancyRate: 0.92, SquareFootage: 80000},
	}
	for _, p := range properties {
		if err := refs.PutProperty(ctx, p); err != nil {
			return err
		}
	}

	loans := []*domain.LoanContext{
		{ID: "LOAN-GWR-001", LoanType: "CMBS", MaturityDate: domain.NewDate(2030, time.June, 30), DSCRCovenant: 1.25},
		{ID: "LOAN-RT-002", LoanType: "Bridge", MaturityDate: domain.NewDate(2027, time.January, 15), DSCRCovenant: 1.10},
	}
	for _, l := range loans {
		if err := refs.PutLoan(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func seedTasks(ctx context.Context, tasks *repository.TaskRepository) error {
	lastUpdate1 := domain.NewDate(2025, time.July, 10)
	lastUpdate2 := domain.NewDate(2025, time.July, 18)

	// Fixed-id dependency stubs go in first, with the counter advanced
	// past them so allocated ids cannot collide.
	stubs := []*domain.Task{
		{
			ID:          "TASK-0001",
			Description: "Verify Contact",
			DueDate:     domain.NewDate(2025, time.July, 1),
			AssignedTo:  "system@cmbs.com",
			Status:      domain.StatusCompleted,
		},
		{
			ID:          "TASK-0002",
			Description: "Previous Financials Uploaded",
			DueDate:     domain.NewDate(2025, time.July, 5),
			AssignedTo:  "system@cmbs.com",
			Status:      domain.StatusCompleted,
		},
	}
	for _, t := range stubs {
		if _, err := tasks.Create(ctx, t); err != nil {
			return err
		}
	}
	if err := tasks.AdvanceCounter(ctx, int64(len(stubs))); err != nil {
		return err
	}

	demo := []*domain.Task{
		{
			Description:     "Collect Q1 2025 Financial Statements",
			DueDate:         domain.NewDate(2025, time.July, 15),
			AssignedTo:      "alice.smith@cmbs.com",
			Priority:        domain.PriorityCritical,
			TaskType:        "Financial Statement Collection",
			PropertyID:      "PROP-GRND",
			LoanID:          "LOAN-GWR-001",
			LastUpdateDate:  &lastUpdate1,
			LastUpdateNotes: "Reached out to property manager for update. No response yet.",
			Dependencies:    []string{"TASK-0001", "TASK-0002"},
		},
		{
			Description:     "Q2 2025 Covenant Compliance Review",
			DueDate:         domain.NewDate(2025, time.July, 25),
			AssignedTo:      "bob.jones@cmbs.com",
			Priority:        domain.PriorityHigh,
			TaskType:        "Covenant Review",
			PropertyID:      "PROP-RETAIL",
			LoanID:          "LOAN-RT-002",
			LastUpdateDate:  &lastUpdate2,
			LastUpdateNotes: "Started data aggregation for review.",
		},
	}

	for _, t := range demo {
		if _, err := tasks.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
