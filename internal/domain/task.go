package domain

import "time"

// Status is the lifecycle state of a task. Only Pending and In Progress
// tasks are ever considered for reminders.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOverdue    Status = "Overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Remindable reports whether tasks in this status may be selected for a
// reminder at all. Completed and Overdue-terminal tasks never re-fire.
func (s Status) Remindable() bool {
	return s == StatusPending || s == StatusInProgress
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// DepStatusNotFound is recorded in DependentTasksStatus for dependency ids
// that do not resolve to a stored task.
const DepStatusNotFound = "Not Found"

// Task is an asset-management work item tracked for reminders.
// The ID is assigned once at creation and never changes.
type Task struct {
	ID          string   `json:"task_id"`
	Description string   `json:"description"`
	DueDate     Date     `json:"due_date"`
	AssignedTo  string   `json:"assigned_to"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	// CMBS references, all optional.
	PropertyID string `json:"property_id,omitempty"`
	LoanID     string `json:"loan_id,omitempty"`
	TaskType   string `json:"task_type,omitempty"`

	// Dependencies holds ids of tasks whose completion state is context
	// for this task's reminder text. DependentTasksStatus is derived by
	// the selector per cycle and is never a persisted input.
	Dependencies         []string          `json:"dependencies,omitempty"`
	DependentTasksStatus map[string]string `json:"dependent_tasks_status,omitempty"`

	LastUpdateDate  *Date  `json:"last_update_date,omitempty"`
	LastUpdateNotes string `json:"last_update_notes,omitempty"`

	LastReminderSent *time.Time `json:"last_reminder_sent,omitempty"`
}

// TaskPatch is a partial task update. Nil fields are left untouched;
// applying a patch fails if the base task does not exist.
type TaskPatch struct {
	Status           *Status    `json:"status,omitempty"`
	LastUpdateDate   *Date      `json:"last_update_date,omitempty"`
	LastUpdateNotes  *string    `json:"last_update_notes,omitempty"`
	LastReminderSent *time.Time `json:"last_reminder_sent,omitempty"`
}

// Fields returns the patch as a field map for the record store's merge.
func (p TaskPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.LastUpdateDate != nil {
		fields["last_update_date"] = *p.LastUpdateDate
	}
	if p.LastUpdateNotes != nil {
		fields["last_update_notes"] = *p.LastUpdateNotes
	}
	if p.LastReminderSent != nil {
		fields["last_reminder_sent"] = *p.LastReminderSent
	}
	return fields
}
