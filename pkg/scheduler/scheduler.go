package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/robfig/cron/v3"

	"github.com/raystack/guardian/pkg/log"
)

// Task is one recurring job with its cron schedule.
type Task struct {
	Name    string
	CronTab string
	Func    func() error
}

// Scheduler fires registered tasks on their cron schedules. A panicking task
// is recovered and logged so one bad run can't take the process down.
type Scheduler struct {
	cron   *cron.Cron
	logger log.Logger
}

func New(logger log.Logger, tasks []*Task) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}

	for _, t := range tasks {
		if _, err := s.cron.AddFunc(t.CronTab, s.runner(t)); err != nil {
			return nil, fmt.Errorf("scheduling task %q: %w", t.Name, err)
		}
	}

	return s, nil
}

// Run starts the schedule
func (s *Scheduler) Run() {
	s.cron.Start()
}

// Stop halts the scheduler; running tasks finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runner(t *Task) func() {
	return func() {
		ctx := context.Background()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(ctx, "scheduled task panicked",
					"task", t.Name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := t.Func(); err != nil {
			s.logger.Error(ctx, "scheduled task failed", "task", t.Name, "error", err)
		}
	}
}
