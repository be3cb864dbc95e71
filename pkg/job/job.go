// Package job runs functions periodically until the context is done.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fn       func(ctx context.Context) error
}

type Scheduler struct {
	jobs []job
	wg   sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds fn to run every interval. A non-zero timeout bounds each run.
// Disabled jobs are skipped so callers can register unconditionally from config.
func (s *Scheduler) Register(
	enabled bool,
	name string,
	interval, timeout time.Duration,
	fn func(ctx context.Context) error,
) *Scheduler {
	if !enabled {
		slog.Info("job disabled", "job", name)
		return s
	}

	s.jobs = append(s.jobs, job{
		name:     name,
		interval: interval,
		timeout:  timeout,
		fn:       fn,
	})

	return s
}

func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)

		go s.run(ctx, j)
	}
}

// Wait blocks until every started job has returned after ctx is done.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, j job) {
	defer s.wg.Done()

	l := slog.Default().With("job", j.name)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		start := time.Now()

		err := s.once(ctx, j)
		if err != nil {
			l.ErrorContext(ctx, "job failed", "error", err, "duration", time.Since(start))
		} else {
			l.DebugContext(ctx, "job done", "duration", time.Since(start))
		}

		select {
		case <-ctx.Done():
			l.Debug("context done")
			return

		case <-ticker.C:
		}
	}
}

func (s *Scheduler) once(ctx context.Context, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	if j.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	return j.fn(ctx)
}
