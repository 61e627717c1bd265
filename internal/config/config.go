package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string // empty logs to stdout only
	Environment string
	Version     string
	ServiceName string

	StorageDriver     string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBSSLMode         string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	SQLitePath        string

	InitialGrantCU  int64
	MaxCommitmentCU int64

	LifecycleSweepInterval time.Duration // 0 disables the background sweep
	LifecycleCacheTTL      time.Duration
	LifecycleCacheSize     int

	EventMaxRetries int
	EventRetryDelay time.Duration
	DeadLetterPath  string

	AdminAPIKey       string // empty leaves /admin unmounted
	TrustedProxies    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	SweepWorkers      int

	ShutdownTimeout time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", ""),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),

		StorageDriver:     getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "credence"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		SQLitePath:        getEnv("SQLITE_PATH", DefaultSQLitePath),

		InitialGrantCU:  int64(getEnvAsInt("INITIAL_GRANT_CU", DefaultInitialGrantCU)),
		MaxCommitmentCU: int64(getEnvAsInt("MAX_COMMITMENT_CU", DefaultMaxCommitmentCU)),

		LifecycleSweepInterval: getEnvAsDuration("LIFECYCLE_SWEEP_INTERVAL", 0),
		LifecycleCacheTTL:      getEnvAsDuration("LIFECYCLE_CACHE_TTL", time.Minute),
		LifecycleCacheSize:     getEnvAsInt("LIFECYCLE_CACHE_SIZE", DefaultLifecycleCacheSize),

		EventMaxRetries: getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay: getEnvAsDuration("EVENT_RETRY_DELAY", 2*time.Second),
		DeadLetterPath:  getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		TrustedProxies:    getEnvAsList("TRUSTED_PROXIES"),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", DefaultRateLimitRequests),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", 5*time.Minute),
		SweepWorkers:      getEnvAsInt("SWEEP_WORKERS", DefaultSweepWorkers),

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverSQLite:
	default:
		return fmt.Errorf("%s: %q", ErrMsgInvalidStorageDriver, c.StorageDriver)
	}
	if c.InitialGrantCU < 0 {
		return fmt.Errorf("%s: %d", ErrMsgInvalidInitialGrant, c.InitialGrantCU)
	}
	if c.MaxCommitmentCU <= 0 {
		return fmt.Errorf("%s: %d", ErrMsgInvalidMaxCommitment, c.MaxCommitmentCU)
	}
	if c.LifecycleCacheSize <= 0 {
		return fmt.Errorf("%s: %d", ErrMsgInvalidLifecycleCache, c.LifecycleCacheSize)
	}
	if c.EventMaxRetries < 0 {
		return fmt.Errorf("%s: %d", ErrMsgInvalidEventMaxRetries, c.EventMaxRetries)
	}
	if c.LifecycleSweepInterval < 0 {
		return fmt.Errorf("%s: %s", ErrMsgInvalidSweepInterval, c.LifecycleSweepInterval)
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("%s: %d", ErrMsgInvalidRateLimit, c.RateLimitRequests)
	}
	if c.SweepWorkers <= 0 {
		return fmt.Errorf("%s: %d", ErrMsgInvalidSweepWorkers, c.SweepWorkers)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a time.Duration variable, falling back to the default when unset or invalid
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping blank entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsSQLite reports whether the embedded store is selected
func (c *Config) IsSQLite() bool {
	return c.StorageDriver == StorageDriverSQLite
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}
