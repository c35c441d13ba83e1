package service

import (
	"context"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
	"cmbs_reminder/internal/repository"
	"cmbs_reminder/internal/store"
)

// SelectorConfig tunes reminder eligibility.
type SelectorConfig struct {
	// ReminderInterval is the repeat cadence for overdue tasks.
	ReminderInterval time.Duration
	// DueSoonThresholdDays is how many days ahead of the due date a task
	// becomes eligible for a single daily advance reminder.
	DueSoonThresholdDays int
}

func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		ReminderInterval:     24 * time.Hour,
		DueSoonThresholdDays: 7,
	}
}

// Selector decides which tasks require a reminder for a given date and
// resolves each selected task's dependency statuses.
type Selector struct {
	tasks *repository.TaskRepository
	cfg   SelectorConfig
}

func NewSelector(tasks *repository.TaskRepository, cfg SelectorConfig) *Selector {
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = 24 * time.Hour
	}
	if cfg.DueSoonThresholdDays <= 0 {
		cfg.DueSoonThresholdDays = 7
	}
	return &Selector{tasks: tasks, cfg: cfg}
}

// SelectDue scans all persisted tasks and returns those due for a reminder
// on current, in stable (task-id) order. Three mutually exclusive rules,
// checked in precedence order:
//
//  1. due today: at most one reminder per calendar day;
//  2. overdue: repeats every ReminderInterval, measured from the last
//     reminder timestamp to midnight of current;
//  3. due within (0, DueSoonThresholdDays] days: one per calendar day.
//
// Tasks further out than the threshold are never selected. A task that was
// never reminded fires immediately under whichever rule applies.
//
// Selected tasks get DependentTasksStatus filled in: the live status of
// every dependency id, or "Not Found" for ids with no stored task. The
// annotation is derived per call, never written back.
//
// Note the tasks are re-read on every call and written back later by the
// coordinator; a concurrent update in between is last-writer-wins, relying
// only on the store's per-key atomicity.
func (s *Selector) SelectDue(ctx context.Context, current domain.Date) ([]*domain.Task, error) {
	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	var due []*domain.Task
	for _, t := range all {
		if !t.Status.Remindable() {
			continue
		}
		if !s.eligible(t, current) {
			continue
		}
		deps, err := s.resolveDependencies(ctx, t)
		if err != nil {
			return nil, err
		}
		t.DependentTasksStatus = deps
		due = append(due, t)
	}

	logger.Info("reminder selection complete", "date", current.String(), "due", len(due))
	return due, nil
}

func (s *Selector) eligible(t *domain.Task, current domain.Date) bool {
	switch {
	case t.DueDate.Equal(current):
		return s.notRemindedToday(t, current)
	case t.DueDate.Before(current):
		if t.LastReminderSent == nil {
			return true
		}
		return current.Midnight().Sub(*t.LastReminderSent) >= s.cfg.ReminderInterval
	default:
		days := current.DaysUntil(t.DueDate)
		if days > s.cfg.DueSoonThresholdDays {
			return false
		}
		return s.notRemindedToday(t, current)
	}
}

func (s *Selector) notRemindedToday(t *domain.Task, current domain.Date) bool {
	return t.LastReminderSent == nil || domain.DateOf(*t.LastReminderSent).Before(current)
}

func (s *Selector) resolveDependencies(ctx context.Context, t *domain.Task) (map[string]string, error) {
	statuses := make(map[string]string)
	for _, depID := range t.Dependencies {
		dep, err := s.tasks.Get(ctx, depID)
		if err == store.ErrNotFound {
			statuses[depID] = domain.DepStatusNotFound
			continue
		}
		if err != nil {
			return nil, err
		}
		statuses[depID] = string(dep.Status)
	}
	return statuses, nil
}
