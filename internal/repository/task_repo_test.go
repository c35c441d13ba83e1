package repository

import (
	"context"
	"testing"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/store"
)

func newTaskRepo() *TaskRepository {
	return NewTaskRepository(store.NewRecords(store.NewMemoryKV()))
}

func TestCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	lastUpdate := domain.NewDate(2025, time.July, 10)
	in := &domain.Task{
		Description:     "Collect Q1 2025 Financial Statements",
		DueDate:         domain.NewDate(2025, time.July, 15),
		AssignedTo:      "alice.smith@cmbs.com",
		Priority:        domain.PriorityCritical,
		TaskType:        "Financial Statement Collection",
		PropertyID:      "PROP-GRND",
		LoanID:          "LOAN-GWR-001",
		Dependencies:    []string{"TASK-0009"},
		LastUpdateDate:  &lastUpdate,
		LastUpdateNotes: "Reached out to property manager.",
	}

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "TASK-0001" {
		t.Fatalf("expected first allocated id TASK-0001, got %s", created.ID)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != in.Description || got.AssignedTo != in.AssignedTo {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.DueDate.Equal(in.DueDate) {
		t.Fatalf("due date mismatch: %s", got.DueDate)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("expected default Pending status, got %s", got.Status)
	}
	if got.Priority != domain.PriorityCritical {
		t.Fatalf("priority mismatch: %s", got.Priority)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0] != "TASK-0009" {
		t.Fatalf("dependencies mismatch: %v", got.Dependencies)
	}
	if got.LastUpdateDate == nil || !got.LastUpdateDate.Equal(lastUpdate) {
		t.Fatalf("last update date mismatch: %v", got.LastUpdateDate)
	}
	if got.LastReminderSent != nil {
		t.Fatalf("new task must have no reminder timestamp")
	}
}

func TestCreateAllocatesSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	for i, want := range []string{"TASK-0001", "TASK-0002", "TASK-0003"} {
		created, err := repo.Create(ctx, &domain.Task{
			Description: "task",
			DueDate:     domain.NewDate(2025, time.July, 15),
			AssignedTo:  "a@cmbs.com",
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if created.ID != want {
			t.Fatalf("expected %s, got %s", want, created.ID)
		}
	}
}

func TestCreateExplicitIDBypassesAllocation(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	created, err := repo.Create(ctx, &domain.Task{
		ID:          "TASK-0001",
		Description: "dependency stub",
		DueDate:     domain.NewDate(2025, time.July, 1),
		AssignedTo:  "system@cmbs.com",
		Status:      domain.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "TASK-0001" {
		t.Fatalf("explicit id must be used as-is, got %s", created.ID)
	}

	// counter untouched: next allocated id is still the first one
	next, err := repo.Create(ctx, &domain.Task{
		Description: "allocated",
		DueDate:     domain.NewDate(2025, time.July, 2),
		AssignedTo:  "a@cmbs.com",
	})
	if err != nil {
		t.Fatalf("create allocated: %v", err)
	}
	if next.ID != "TASK-0001" {
		t.Fatalf("expected counter to be unaffected by explicit ids, got %s", next.ID)
	}
}

func TestCreateExplicitIDCollisionRejected(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	stub := &domain.Task{
		ID:          "TASK-0001",
		Description: "stub",
		DueDate:     domain.NewDate(2025, time.July, 1),
		AssignedTo:  "system@cmbs.com",
	}
	if _, err := repo.Create(ctx, stub); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &domain.Task{
		ID:          "TASK-0001",
		Description: "duplicate",
		DueDate:     domain.NewDate(2025, time.July, 2),
		AssignedTo:  "a@cmbs.com",
	}
	if _, err := repo.Create(ctx, dup); err != ErrTaskExists {
		t.Fatalf("expected ErrTaskExists, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	created, err := repo.Create(ctx, &domain.Task{
		Description: "review",
		DueDate:     domain.NewDate(2025, time.July, 25),
		AssignedTo:  "bob@cmbs.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, created.ID, domain.StatusInProgress, "started aggregation")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Fatalf("expected In Progress, got %s", updated.Status)
	}
	if updated.LastUpdateNotes != "started aggregation" {
		t.Fatalf("notes mismatch: %q", updated.LastUpdateNotes)
	}
	if updated.LastUpdateDate == nil || !updated.LastUpdateDate.Equal(domain.Today()) {
		t.Fatalf("expected last update date stamped today, got %v", updated.LastUpdateDate)
	}
}

func TestUpdateStatusMissingTask(t *testing.T) {
	repo := newTaskRepo()

	if _, err := repo.UpdateStatus(context.Background(), "TASK-9999", domain.StatusCompleted, ""); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordReminderSent(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	created, err := repo.Create(ctx, &domain.Task{
		Description: "collect",
		DueDate:     domain.NewDate(2025, time.July, 15),
		AssignedTo:  "a@cmbs.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ts := time.Date(2025, time.July, 20, 9, 30, 0, 0, time.UTC)
	if err := repo.RecordReminderSent(ctx, created.ID, ts); err != nil {
		t.Fatalf("record reminder: %v", err)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastReminderSent == nil || !got.LastReminderSent.Equal(ts) {
		t.Fatalf("expected reminder timestamp %s, got %v", ts, got.LastReminderSent)
	}

	if err := repo.RecordReminderSent(ctx, "TASK-9999", ts); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}
}

func TestListStableOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	for _, id := range []string{"TASK-0003", "TASK-0001", "TASK-0002"} {
		if _, err := repo.Create(ctx, &domain.Task{
			ID:          id,
			Description: "t",
			DueDate:     domain.NewDate(2025, time.July, 1),
			AssignedTo:  "a@cmbs.com",
		}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{"TASK-0001", "TASK-0002", "TASK-0003"} {
		if tasks[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, tasks[i].ID)
		}
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo()

	if _, err := repo.Create(ctx, &domain.Task{
		Description: "t",
		DueDate:     domain.NewDate(2025, time.July, 1),
		AssignedTo:  "a@cmbs.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty store after reset, got %d tasks", len(tasks))
	}

	created, err := repo.Create(ctx, &domain.Task{
		Description: "fresh",
		DueDate:     domain.NewDate(2025, time.July, 1),
		AssignedTo:  "a@cmbs.com",
	})
	if err != nil {
		t.Fatalf("create after reset: %v", err)
	}
	if created.ID != "TASK-0001" {
		t.Fatalf("expected counter rewound to TASK-0001, got %s", created.ID)
	}
}
