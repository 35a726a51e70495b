package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

func TestRunner_RunsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	job := Job{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) (int, error) {
			calls.Add(1)
			return 1, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(logger.NewNop(), job)
	r.Start(ctx)

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	r.Wait()
	stopped := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestRunner_ErrorsDoNotStopJob(t *testing.T) {
	var calls atomic.Int32
	job := Job{
		Name:     "sweep",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) (int, error) {
			calls.Add(1)
			return 0, errors.New("db down")
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRunner(logger.NewNop(), job)
	r.Start(ctx)

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestNewRunner_SkipsDisabledJobs(t *testing.T) {
	r := NewRunner(logger.NewNop(), Job{Name: "off", Run: func(context.Context) (int, error) { return 0, nil }})
	assert.Empty(t, r.jobs)
}
