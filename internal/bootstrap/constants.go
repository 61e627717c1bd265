package bootstrap

import "time"

// File system permissions
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Log file rotation
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	LogFileRetentionCount  = 9
)

// Event system defaults used when configuration leaves a field zero
const (
	EventDefaultRetryDelay     = 2 * time.Second
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Sweep pool sizing
const (
	SweepJobName    = "expiry_sweep"
	SweepQueueSize  = 4
	SweepJobTimeout = 30 * time.Second
)

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting credence"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	LogMsgStoreOpened         = "Ledger store opened"
	LogMsgSweepEnabled        = "Background expiry sweep enabled"
	LogMsgReconcileClean      = "Startup reconciliation found every balance in step with its ledger"
	LogMsgReconcileUnbalanced = "Startup reconciliation found unbalanced accounts"
)

// Error messages for startup
const (
	ErrMsgFailedCreateLogsDir       = "failed to create logs directory"
	ErrMsgFailedOpenLogFile         = "failed to open log file"
	ErrMsgUnknownStorageDriver      = "unknown storage driver"
	ErrMsgFailedOpenStore           = "failed to open ledger store"
	ErrMsgFailedMigrate             = "failed to migrate ledger store"
	ErrMsgFailedReconcile           = "failed to reconcile balances"
	ErrMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	ErrMsgFailedCreatePublisher     = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics     = "failed to register metrics collector"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgNotificationsSubscribed    = "Notification dispatcher subscribed"
	LogMsgDeadlineWorkerSubscribed   = "Deadline worker subscribed"
	LogMsgEventStreamSubscribed      = "Event stream subscribed"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgClosingEventStream         = "Closing event stream clients..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgDeadlineWorkerFailed       = "Deadline worker shutdown failed"
	LogMsgServiceShutdownFailed      = "Service shutdown failed"

	ServiceNameCommitment = "commitment"
	ServiceNameResolution = "resolution"
	ServiceNameLifecycle  = "lifecycle"
)
