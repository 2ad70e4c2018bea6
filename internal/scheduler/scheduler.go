// Package scheduler runs the periodic maintenance jobs: the expired session
// sweep and subscription expiry.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

type Job struct {
	Name string
	// Spec is a cron expression or a descriptor such as "@every 30s".
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	locker Locker
}

func New(locker Locker) *Scheduler {
	if locker == nil {
		locker = LocalLocker{}
	}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		locker: locker,
	}
}

func (s *Scheduler) Add(job Job) error {
	if job.Timeout <= 0 {
		job.Timeout = time.Minute
	}
	_, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		return err
	}
	logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or for ctx, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("scheduler stopped")
	case <-ctx.Done():
		logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
	defer cancel()

	// The lock outlives the job timeout so a slow run is never overlapped.
	unlock, ok := s.locker.TryLock(ctx, job.Name, job.Timeout+5*time.Second)
	if !ok {
		logger.Debug("job skipped, lock held elsewhere", "job", job.Name)
		return
	}
	defer unlock()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.WithError(err).Error("job failed", "job", job.Name)
		return
	}
	logger.Debug("job finished", "job", job.Name, "took", time.Since(start))
}
