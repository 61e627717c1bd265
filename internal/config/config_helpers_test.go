package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CREDENCE_TEST_SET", "value")
	t.Setenv("CREDENCE_TEST_EMPTY", "")

	assert.Equal(t, "value", getEnv("CREDENCE_TEST_SET", "default"))
	assert.Equal(t, "default", getEnv("CREDENCE_TEST_UNSET", "default"))
	assert.Empty(t, getEnv("CREDENCE_TEST_EMPTY", "default"), "an explicitly empty variable wins over the default")
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", DefaultMaxCommitmentCU},
		{"positive", "250", 250},
		{"zero", "0", 0},
		{"negative", "-10", -10},
		{"not a number", "lots", DefaultMaxCommitmentCU},
		{"fractional", "12.5", DefaultMaxCommitmentCU},
		{"surrounding space", " 7 ", DefaultMaxCommitmentCU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_COMMITMENT_CU", tt.value)
			assert.Equal(t, tt.want, getEnvAsInt("MAX_COMMITMENT_CU", DefaultMaxCommitmentCU))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	const fallback = 5 * time.Minute
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", fallback},
		{"minutes", "15m", 15 * time.Minute},
		{"compound", "1h30m", 90 * time.Minute},
		{"zero disables", "0s", 0},
		{"bare number", "30", fallback},
		{"garbage", "soon", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LIFECYCLE_SWEEP_INTERVAL", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("LIFECYCLE_SWEEP_INTERVAL", fallback))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unset", "", nil},
		{"single", "10.0.0.1", []string{"10.0.0.1"}},
		{"trims and skips blanks", " 10.0.0.1, ,10.0.0.2 ,", []string{"10.0.0.1", "10.0.0.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CREDENCE_TEST_LIST", tt.value)
			assert.Equal(t, tt.want, getEnvAsList("CREDENCE_TEST_LIST"))
		})
	}
}

func TestConfig_IsSQLite(t *testing.T) {
	assert.True(t, (&Config{StorageDriver: StorageDriverSQLite}).IsSQLite())
	assert.False(t, (&Config{StorageDriver: StorageDriverPostgres}).IsSQLite())
}
