package service

import (
	"context"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
	"cmbs_reminder/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RemindersSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Reminders successfully delivered",
	})
	RemindersFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_failed_total",
		Help: "Per-task reminder failures by stage",
	}, []string{"stage"})
	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reminder_cycle_duration_seconds",
		Help:    "Wall time of one reminder cycle",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(RemindersSent)
	prometheus.MustRegister(RemindersFailed)
	prometheus.MustRegister(CycleDuration)
}

// OutcomePublisher receives per-task outcomes as they happen. Implemented
// by the websocket hub; nil publishers are allowed.
type OutcomePublisher interface {
	Publish(outcome domain.ReminderOutcome)
}

// Orchestrator drives one reminder cycle: select due tasks, gather context,
// generate text, deliver, record the send. Each task is processed in
// isolation; one task's failure never aborts the rest of the cycle.
type Orchestrator struct {
	tasks          *repository.TaskRepository
	selector       *Selector
	contextualizer *Contextualizer
	generator      Generator
	notifier       Notifier
	publisher      OutcomePublisher

	now func() time.Time
}

func NewOrchestrator(
	tasks *repository.TaskRepository,
	selector *Selector,
	contextualizer *Contextualizer,
	generator Generator,
	notifier Notifier,
) *Orchestrator {
	return &Orchestrator{
		tasks:          tasks,
		selector:       selector,
		contextualizer: contextualizer,
		generator:      generator,
		notifier:       notifier,
		now:            time.Now,
	}
}

// SetPublisher attaches an outcome publisher (the websocket feed).
func (o *Orchestrator) SetPublisher(p OutcomePublisher) {
	o.publisher = p
}

// RunCycle evaluates reminders for current and returns the per-task
// outcomes in selection order. A store failure during selection is fatal to
// the whole cycle and propagates; generation and delivery failures are
// downgraded to Failed outcomes for their task only.
func (o *Orchestrator) RunCycle(ctx context.Context, current domain.Date) ([]domain.ReminderOutcome, error) {
	started := o.now()
	defer func() {
		CycleDuration.Observe(o.now().Sub(started).Seconds())
	}()

	logger.Info("reminder cycle started", "date", current.String())

	due, err := o.selector.SelectDue(ctx, current)
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.ReminderOutcome, 0, len(due))
	for _, task := range due {
		outcome := o.processTask(ctx, task)
		outcomes = append(outcomes, outcome)
		if o.publisher != nil {
			o.publisher.Publish(outcome)
		}
	}

	logger.Info("reminder cycle finished", "date", current.String(), "outcomes", len(outcomes))
	return outcomes, nil
}

func (o *Orchestrator) processTask(ctx context.Context, task *domain.Task) domain.ReminderOutcome {
	outcome := domain.ReminderOutcome{TaskID: task.ID, Recipient: task.AssignedTo}

	combined, err := o.contextualizer.Gather(ctx, *task)
	if err != nil {
		logger.Error("context gathering failed", "task_id", task.ID, "error", err)
		RemindersFailed.WithLabelValues("context").Inc()
		outcome.Subject = "Error"
		outcome.Status = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	subject, body, err := o.generator.Generate(ctx, combined)
	if err != nil {
		logger.Error("text generation failed", "task_id", task.ID, "error", err)
		RemindersFailed.WithLabelValues("generate").Inc()
		outcome.Subject = "Error"
		outcome.Status = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Subject = subject

	if !o.notifier.Send(ctx, task.AssignedTo, subject, body) {
		RemindersFailed.WithLabelValues("deliver").Inc()
		outcome.Status = domain.OutcomeSendFailed
		return outcome
	}

	if err := o.tasks.RecordReminderSent(ctx, task.ID, o.now()); err != nil {
		logger.Error("recording reminder timestamp failed", "task_id", task.ID, "error", err)
		RemindersFailed.WithLabelValues("record").Inc()
		outcome.Status = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	RemindersSent.Inc()
	outcome.Message = body
	outcome.Status = domain.OutcomeSent
	return outcome
}
