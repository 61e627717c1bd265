package config

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

// Defaults
const (
	DefaultPort               = 8080
	DefaultSQLitePath         = "credence.db"
	DefaultDBMaxConns         = 10
	DefaultInitialGrantCU     = 100
	DefaultMaxCommitmentCU    = 1000
	DefaultLifecycleCacheSize = 4096
	DefaultEventMaxRetries    = 3
	DefaultRateLimitRequests  = 1000
	DefaultSweepWorkers       = 2
	DefaultDeadLetterPath     = "logs/event_deadletter.jsonl"
	DefaultServiceName        = "credence"
	DefaultEnvironment        = "dev"
	DefaultVersion            = "dev"
)

// Error Messages
const (
	ErrMsgInvalidPort            = "invalid PORT value"
	ErrMsgInvalidStorageDriver   = "invalid STORAGE_DRIVER value"
	ErrMsgInvalidInitialGrant    = "INITIAL_GRANT_CU must not be negative"
	ErrMsgInvalidMaxCommitment   = "MAX_COMMITMENT_CU must be positive"
	ErrMsgInvalidLifecycleCache  = "LIFECYCLE_CACHE_SIZE must be positive"
	ErrMsgInvalidEventMaxRetries = "EVENT_MAX_RETRIES must not be negative"
	ErrMsgInvalidSweepInterval   = "LIFECYCLE_SWEEP_INTERVAL must not be negative"
	ErrMsgInvalidRateLimit       = "RATE_LIMIT_REQUESTS must be positive"
	ErrMsgInvalidSweepWorkers    = "SWEEP_WORKERS must be positive"
)

const insecureExampleDBPassword = "change_this_secure_password"
