package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
	"cmbs_reminder/internal/store"
)

const (
	taskType      = "task"
	nextTaskIDKey = "next_task_id"
)

// ErrTaskExists is returned when an explicit task id collides with a
// stored task. Ids are unique and immutable after creation.
var ErrTaskExists = errors.New("task id already exists")

// TaskRepository owns task persistence and task-id allocation.
type TaskRepository struct {
	records *store.Records
}

func NewTaskRepository(records *store.Records) *TaskRepository {
	return &TaskRepository{records: records}
}

// Create stores a new task. An empty ID is allocated from the atomic
// counter and formatted as TASK-%04d; a caller-supplied ID is used as-is.
// The explicit-id path exists for seeding fixed reference tasks
// (dependency stubs) and bypasses allocation entirely.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t.ID != "" {
		exists, err := r.records.KV().Exists(ctx, store.Key(taskType, t.ID))
		if err != nil {
			return nil, fmt.Errorf("check task id: %w", err)
		}
		if exists {
			return nil, ErrTaskExists
		}
	}
	if t.ID == "" {
		n, err := r.records.KV().Incr(ctx, nextTaskIDKey)
		if err != nil {
			return nil, fmt.Errorf("allocate task id: %w", err)
		}
		t.ID = fmt.Sprintf("TASK-%04d", n)
	}
	if t.Status == "" {
		t.Status = domain.StatusPending
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}

	if err := r.records.Set(ctx, taskType, t.ID, t); err != nil {
		return nil, err
	}
	logger.Info("task created", "task_id", t.ID, "description", t.Description)
	return t, nil
}

// Get returns the task or store.ErrNotFound.
func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.records.Get(ctx, taskType, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns every stored task, sorted by id so scan order is stable.
func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	keys, err := r.records.KV().Keys(ctx, store.Key(taskType, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	sort.Strings(keys)

	var tasks []*domain.Task
	for _, key := range keys {
		id := strings.TrimPrefix(key, taskType+":")
		t, err := r.Get(ctx, id)
		if err == store.ErrNotFound {
			// deleted between scan and read
			continue
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// UpdateStatus sets the task's status, stamps today's date and replaces the
// update notes. Fails with store.ErrNotFound when the task is absent.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, notes string) (*domain.Task, error) {
	today := domain.Today()
	patch := domain.TaskPatch{
		Status:          &status,
		LastUpdateDate:  &today,
		LastUpdateNotes: &notes,
	}
	if err := r.records.Merge(ctx, taskType, id, patch.Fields()); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// RecordReminderSent stamps the last-reminder-sent timestamp. Fails with
// store.ErrNotFound when the task is absent.
func (r *TaskRepository) RecordReminderSent(ctx context.Context, id string, ts time.Time) error {
	patch := domain.TaskPatch{LastReminderSent: &ts}
	return r.records.Merge(ctx, taskType, id, patch.Fields())
}

// AdvanceCounter moves the id counter so the next allocated id is to+1.
// Seeding uses it to keep allocation clear of fixed-id bootstrap tasks.
func (r *TaskRepository) AdvanceCounter(ctx context.Context, to int64) error {
	return r.records.KV().Set(ctx, nextTaskIDKey, strconv.FormatInt(to, 10))
}

// Reset deletes every task and rewinds the id counter. Demo/test seeding
// only; not part of the production contract.
func (r *TaskRepository) Reset(ctx context.Context) error {
	kv := r.records.KV()
	keys, err := kv.Keys(ctx, store.Key(taskType, "*"))
	if err != nil {
		return fmt.Errorf("scan tasks: %w", err)
	}
	if err := kv.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if err := kv.Set(ctx, nextTaskIDKey, "0"); err != nil {
		return fmt.Errorf("reset task counter: %w", err)
	}
	logger.Info("task store reset", "deleted", len(keys))
	return nil
}
