package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsRepeatedly(t *testing.T) {
	s := New(time.Millisecond, zerolog.Nop())

	var ok, failing atomic.Int32
	s.Add(Job{Name: "ok", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
		ok.Add(1)
		return nil
	}})
	s.Add(Job{Name: "failing", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
		failing.Add(1)
		return errors.New("boom")
	}})

	s.Start()
	require.Eventually(t, func() bool {
		return ok.Load() >= 3 && failing.Load() >= 3
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))

	stopped := ok.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, ok.Load())
}

func TestScheduler_StopBeforeStartupWait(t *testing.T) {
	s := New(time.Hour, zerolog.Nop())

	var runs atomic.Int32
	s.Add(Job{Name: "never", Interval: time.Hour, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})

	s.Start()
	require.NoError(t, s.Stop(context.Background()))
	assert.Zero(t, runs.Load())
}

func TestScheduler_StopWaitsForRunningJob(t *testing.T) {
	s := New(0, zerolog.Nop())

	started := make(chan struct{})
	var finished atomic.Bool
	s.Add(Job{Name: "slow", Interval: time.Hour, Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		finished.Store(true)
		return ctx.Err()
	}})

	s.Start()
	<-started
	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, finished.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NoError(t, New(0, zerolog.Nop()).Stop(context.Background()))
}
