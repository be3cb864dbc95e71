package job_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/swish/pkg/job"
)

func TestScheduler(t *testing.T) {
	t.Parallel()

	var ok, failing, panicking, disabled atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())

	s := job.NewScheduler().
		Register(true, "ok", time.Millisecond, 0, func(context.Context) error {
			ok.Add(1)
			return nil
		}).
		Register(true, "failing", time.Millisecond, 0, func(context.Context) error {
			failing.Add(1)
			return errors.New("boom")
		}).
		Register(true, "panicking", time.Millisecond, 0, func(context.Context) error {
			panicking.Add(1)
			panic("boom")
		}).
		Register(false, "disabled", time.Millisecond, 0, func(context.Context) error {
			disabled.Add(1)
			return nil
		})

	s.Start(ctx)

	require.Eventually(t, func() bool {
		return ok.Load() > 2 && failing.Load() > 2 && panicking.Load() > 2
	}, time.Second, time.Millisecond)

	cancel()
	s.Wait()

	require.Zero(t, disabled.Load())
}

func TestScheduler_Timeout(t *testing.T) {
	t.Parallel()

	done := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := job.NewScheduler().Register(true, "slow", time.Hour, 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()

		return ctx.Err()
	})

	s.Start(ctx)

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled by its timeout")
	}

	cancel()
	s.Wait()
}
