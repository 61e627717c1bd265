package worker

import "time"

// DeadlineGrace is added to each deadline timer so the expiry check runs
// strictly after the resolve-by instant
const DeadlineGrace = 500 * time.Millisecond

const (
	deadlineWorkerName = "deadline worker"
	sweepJobName       = "lifecycle.sweep"
)

// ErrMsgSweepFailed wraps a failed expiry sweep
const ErrMsgSweepFailed = "expiry sweep failed: %w"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgQueueFull       = "Worker queue full, dropping job"
)

// ============================================================================
// Log Messages - Timed Workers
// ============================================================================

const (
	LogMsgWorkerShuttingDown     = "Worker shutting down"
	LogMsgWorkerShutdownComplete = "Worker shutdown complete"
	LogMsgWorkerShutdownTimeout  = "Worker shutdown timeout, some executions may still be running"
	LogMsgTimerCancelled         = "Cancelled pending execution"
	LogMsgStartupSweepFailed     = "Failed to expire overdue predictions on startup"
	LogMsgStartupSweepDone       = "Expired overdue predictions on startup"
	LogMsgSchedulingExpiry       = "Scheduling prediction expiry"
	LogMsgExpiryFailed           = "Failed to expire prediction"
	LogMsgExpiryChecked          = "Prediction expiry checked"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
