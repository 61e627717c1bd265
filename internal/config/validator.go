package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the ENV_SCHEMA_VERSION this build reads
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be set for every storage driver
var RequiredEnvVars = []string{"ENV_SCHEMA_VERSION", "STORAGE_DRIVER"}

// RequiredPostgresEnvVars must also be set when STORAGE_DRIVER=postgres
var RequiredPostgresEnvVars = []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"}

// RequiredSQLiteEnvVars must also be set when STORAGE_DRIVER=sqlite
var RequiredSQLiteEnvVars = []string{"SQLITE_PATH"}

var driverEnvVars = map[string][]string{
	StorageDriverPostgres: RequiredPostgresEnvVars,
	StorageDriverSQLite:   RequiredSQLiteEnvVars,
	"":                    nil,
}

// envWarning flags a setting that works but is probably a mistake
type envWarning struct {
	applies func() bool
	message string
}

var envWarnings = []envWarning{
	{
		applies: func() bool {
			return os.Getenv("STORAGE_DRIVER") == StorageDriverPostgres && os.Getenv("DB_PASSWORD") == insecureExampleDBPassword
		},
		message: "DB_PASSWORD is still the example value; set a real password",
	},
	{
		applies: func() bool {
			return os.Getenv("STORAGE_DRIVER") == StorageDriverSQLite && os.Getenv("SQLITE_PATH") == ":memory:"
		},
		message: "SQLITE_PATH is :memory:; balances and commitments vanish on shutdown",
	},
	{
		applies: func() bool { return os.Getenv("ADMIN_API_KEY") == "" },
		message: "ADMIN_API_KEY is empty; /admin routes will not be mounted",
	},
}

// ValidateEnv checks the schema version and that the variables the chosen
// storage driver needs are present
func ValidateEnv() error {
	switch version := os.Getenv("ENV_SCHEMA_VERSION"); version {
	case ExpectedEnvSchemaVersion:
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set; add it to .env (expected %s)", ExpectedEnvSchemaVersion)
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s; compare .env with .env.example", ExpectedEnvSchemaVersion, version)
	}

	driver := os.Getenv("STORAGE_DRIVER")
	extra, ok := driverEnvVars[driver]
	if !ok {
		return fmt.Errorf("%s: %q", ErrMsgInvalidStorageDriver, driver)
	}

	var missing []string
	for _, key := range append(append([]string{}, RequiredEnvVars...), extra...) {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and, when it passes, lists the
// settings that look unintended
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}
	var warnings []string
	for _, w := range envWarnings {
		if w.applies() {
			warnings = append(warnings, w.message)
		}
	}
	return warnings, nil
}
