package domain

// ReminderRequest describes one reminder-cycle invocation.
type ReminderRequest struct {
	CurrentDate Date `json:"current_date"`
}

// Outcome statuses for a single task within a cycle.
const (
	OutcomeSent       = "Reminder Sent"
	OutcomeSendFailed = "Failed to Send Reminder"
	OutcomeFailed     = "Failed"
)

// ReminderOutcome is the per-task result of a reminder cycle.
type ReminderOutcome struct {
	TaskID    string `json:"task_id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}
