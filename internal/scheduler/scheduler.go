// Package scheduler feeds recurring jobs into the worker pool
package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/worker"
)

// Scheduler enqueues named jobs on fixed intervals until stopped
type Scheduler struct {
	pool *worker.Pool

	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu      sync.Mutex
	skipped map[string]int
}

// New returns a scheduler that submits to pool
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		pool:    pool,
		quit:    make(chan struct{}),
		skipped: make(map[string]int),
	}
}

// Schedule enqueues job every interval. A non-positive interval disables
// the job. A tick that finds the pool queue full is counted and dropped.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	if interval <= 0 {
		logger.Info(LogMsgJobDisabled, "job", name)
		return
	}
	logger.Info(LogMsgJobScheduled, "job", name, "interval", interval)

	s.wg.Add(1)
	go s.run(name, interval, job)
}

func (s *Scheduler) run(name string, interval time.Duration, job worker.Job) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			if s.pool.Enqueue(job) {
				continue
			}
			s.mu.Lock()
			s.skipped[name]++
			n := s.skipped[name]
			s.mu.Unlock()
			logger.Warn(LogMsgTickSkipped, "job", name, "skipped_total", n)
		}
	}
}

// Skipped reports how many ticks of name were dropped on a full queue
func (s *Scheduler) Skipped(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped[name]
}

// Stop halts every job and waits for the tickers to exit. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
