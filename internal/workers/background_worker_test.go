package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickward/lettercheck/internal/assert"
	"github.com/patrickward/lettercheck/internal/workers"
)

func TestBackgroundWorker_PeriodicTask(t *testing.T) {
	t.Parallel()

	bw := workers.NewBackgroundWorker(context.Background())

	var runs atomic.Int32
	bw.AddPeriodicTask("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	assert.Equal(t, runs.Load(), int32(0))

	bw.Start()
	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	bw.Shutdown()

	assert.True(t, runs.Load() >= 3)
}

func TestBackgroundWorker_OneTimeTaskAfterStart(t *testing.T) {
	t.Parallel()

	bw := workers.NewBackgroundWorker(context.Background())
	bw.Start()

	done := make(chan struct{})
	bw.AddOneTimeTask("once", func(ctx context.Context) error {
		close(done)
		return errors.New("logged, not fatal")
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("one-time task did not run")
	}
	bw.Shutdown()
}

func TestBackgroundWorker_ShutdownCancelsContext(t *testing.T) {
	t.Parallel()

	bw := workers.NewBackgroundWorker(context.Background())

	var cancelled atomic.Bool
	bw.AddOneTimeTask("blocking", func(ctx context.Context) error {
		<-ctx.Done()
		cancelled.Store(true)
		return nil
	})
	bw.AddOneTimeTask("panics", func(ctx context.Context) error {
		panic("recovered")
	})

	bw.Start()
	bw.Shutdown()
	assert.True(t, cancelled.Load())
}
