package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Credence_Go/internal/testing/leaktest"
	"github.com/osse101/Credence_Go/internal/worker"
)

// countingJob signals on ran after each Process call
type countingJob struct {
	runs atomic.Int32
	ran  chan struct{}
}

func newCountingJob() *countingJob {
	return &countingJob{ran: make(chan struct{}, 16)}
}

func (j *countingJob) Process(context.Context) error {
	j.runs.Add(1)
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler_RunsJobEveryInterval(t *testing.T) {
	pool := worker.NewPool(1, 10, time.Second)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := newCountingJob()
	sched.Schedule("sweep", 10*time.Millisecond, job)

	timeout := time.After(time.Second)
	for seen := 0; seen < 2; seen++ {
		select {
		case <-job.ran:
		case <-timeout:
			t.Fatal("job did not run twice within a second")
		}
	}
	assert.GreaterOrEqual(t, job.runs.Load(), int32(2))
}

func TestScheduler_CountsTicksDroppedOnFullQueue(t *testing.T) {
	// Never started, so the single slot fills on the first tick
	pool := worker.NewPool(1, 1, 0)
	defer pool.Stop()

	sched := New(pool)
	sched.Schedule("sweep", 5*time.Millisecond, newCountingJob())

	require.Eventually(t, func() bool { return sched.Skipped("sweep") >= 2 }, time.Second, 5*time.Millisecond)
	sched.Stop()

	assert.Zero(t, sched.Skipped("other"))
}

func TestScheduler_DisabledIntervalStartsNothing(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	pool := worker.NewPool(1, 1, 0)
	sched := New(pool)
	job := newCountingJob()

	sched.Schedule("sweep", 0, job)
	sched.Schedule("sweep", -time.Second, job)
	sched.Stop()
	sched.Stop()

	assert.Zero(t, job.runs.Load())
	checker.Check(0)
}
