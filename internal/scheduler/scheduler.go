// Package scheduler runs the pipeline workers as independent periodic
// loops.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-wallet-radar/internal/observability"
)

// DefaultRecoveryDelay is the pause after a failed tick before the
// loop resumes.
const DefaultRecoveryDelay = 60 * time.Second

// Runner is one worker tick.
type Runner interface {
	Tick(ctx context.Context) error
}

// Job binds a named runner to its period.
type Job struct {
	Name     string
	Runner   Runner
	Interval time.Duration
}

// Options configures a Scheduler.
type Options struct {
	Jobs   []Job
	Logger *zap.Logger

	// RecoveryDelay overrides the pause after a failed tick.
	RecoveryDelay time.Duration
}

// Scheduler supervises the worker loops. Each loop is guarded: a tick
// error is logged and the loop continues after the recovery delay. A
// tick that outruns its period simply delays the next one.
type Scheduler struct {
	jobs     []Job
	log      *zap.Logger
	recovery time.Duration
}

// New creates a Scheduler.
func New(opts Options) *Scheduler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	recovery := opts.RecoveryDelay
	if recovery == 0 {
		recovery = DefaultRecoveryDelay
	}
	return &Scheduler{jobs: opts.Jobs, log: log, recovery: recovery}
}

// Run blocks until the context is cancelled, then returns nil after
// every loop has stopped.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, job := range s.jobs {
		job := job
		g.Go(func() error {
			s.loop(gctx, job)
			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	s.log.Info("worker loop started",
		zap.String("worker", job.Name),
		zap.Duration("interval", job.Interval))

	for {
		if err := job.Runner.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				s.log.Info("worker loop stopped", zap.String("worker", job.Name))
				return
			}
			s.log.Error("worker tick failed",
				zap.String("worker", job.Name),
				zap.Error(err))
			if !sleep(ctx, s.recovery) {
				return
			}
			continue
		}
		observability.RecordTick(job.Name)

		if !sleep(ctx, job.Interval) {
			s.log.Info("worker loop stopped", zap.String("worker", job.Name))
			return
		}
	}
}

// sleep waits d or until cancellation; false means cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
