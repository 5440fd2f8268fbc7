package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(context.Background())
	s.AddJob(Job{
		Name:     "poll",
		Interval: 20 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")
}

func TestScheduler_TimeoutBoundsRun(t *testing.T) {
	deadlineSeen := make(chan bool, 1)
	s := NewScheduler(context.Background())
	s.AddJob(Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			deadlineSeen <- ok
			<-ctx.Done()
			return ctx.Err()
		},
	})

	s.RunOnce(context.Background())
	assert.True(t, <-deadlineSeen)
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(context.Background())
	s.AddJob(Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestScheduler_AddAfterStartIgnored(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(context.Background())
	s.Start()
	s.AddJob(Job{Name: "late", Interval: time.Millisecond, Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(0), runs.Load())
}
