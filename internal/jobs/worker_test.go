package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueRunsJob(t *testing.T) {
	w := NewWorker(2)

	done := make(chan struct{})
	w.Enqueue(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	w.Shutdown()
}

func TestWorker_ShutdownWaitsForAsyncJobs(t *testing.T) {
	w := NewWorker(1)

	var ran atomic.Bool
	started := make(chan struct{})
	w.EnqueueAsync(func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		ran.Store(true)
		return nil
	})

	<-started
	w.Shutdown()
	assert.True(t, ran.Load())
}

func TestWorker_TracksFailures(t *testing.T) {
	w := NewWorker(1)

	done := make(chan struct{})
	w.Enqueue(func(ctx context.Context) error {
		defer close(done)
		return errors.New("boom")
	})
	<-done
	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(1), stats.FailedJobs)
	assert.Equal(t, int64(1), stats.CompletedJobs)
}

func TestWorker_ScheduleEveryImmediateRunsAtStartup(t *testing.T) {
	w := NewWorker(1)

	var runs atomic.Int32
	w.ScheduleEveryImmediate(time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	require.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
	w.Shutdown()
}
