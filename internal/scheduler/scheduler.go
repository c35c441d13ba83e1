package scheduler

import (
	"context"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
)

// CycleRunner is the orchestrator surface the trigger needs.
type CycleRunner interface {
	RunCycle(ctx context.Context, current domain.Date) ([]domain.ReminderOutcome, error)
}

// Scheduler invokes a reminder cycle on a fixed period. If a cycle outlasts
// the period the next tick starts another one; the store's per-key
// atomicity is the only guard, and overlapping cycles are last-writer-wins
// on a task's reminder timestamp.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func New(runner CycleRunner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the trigger loop. One cycle runs immediately, then one per
// interval until Stop.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-ticker.C:
			go s.tick()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) tick() {
	outcomes, err := s.runner.RunCycle(context.Background(), domain.Today())
	if err != nil {
		// store errors are fatal for the cycle; the next tick retries
		logger.Error("scheduled reminder cycle failed", "error", err)
		return
	}
	logger.Info("scheduled reminder cycle done", "outcomes", len(outcomes))
}

// Stop ends the trigger loop. In-flight cycles are not cancelled.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
