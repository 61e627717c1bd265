package bootstrap

import (
	"github.com/osse101/Credence_Go/internal/config"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/scheduler"
	"github.com/osse101/Credence_Go/internal/worker"
)

// StartSweep runs the periodic expiry sweep on its own worker pool. It
// returns nils when LIFECYCLE_SWEEP_INTERVAL is zero.
func StartSweep(cfg *config.Config, expirer worker.Expirer) (*worker.Pool, *scheduler.Scheduler) {
	if cfg.LifecycleSweepInterval <= 0 {
		return nil, nil
	}

	pool := worker.NewPool(cfg.SweepWorkers, SweepQueueSize, SweepJobTimeout)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(SweepJobName, cfg.LifecycleSweepInterval, worker.NewSweepJob(expirer))

	logger.Info(LogMsgSweepEnabled, "interval", cfg.LifecycleSweepInterval, "workers", cfg.SweepWorkers)
	return pool, sched
}
