package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CLINICBOOK_CONFIG_FILE", "GRPC_ADDR", "GRPC_HOST", "GRPC_PORT", "HTTP_ADDR",
		"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "SHUTDOWN_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "0.0.0.0:50051", cfg.GRPCAddr())
	assert.Equal(t, 10*time.Second, cfg.GRPCRequestTimeout)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, "global", cfg.ConflictScope)
	assert.True(t, cfg.RejectInverted)
	assert.Equal(t, LockLocal, cfg.BookingLock)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLINICBOOK_DATABASE_DRIVER", "SQLite")
	t.Setenv("CLINICBOOK_BOOKING_CONFLICT_SCOPE", "participant")
	t.Setenv("CLINICBOOK_BOOKING_REJECT_INVERTED", "false")
	t.Setenv("CLINICBOOK_BOOKING_LOCK", "redis")
	t.Setenv("CLINICBOOK_RATELIMIT_RPS", "2.5")
	t.Setenv("CLINICBOOK_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "participant", cfg.ConflictScope)
	assert.False(t, cfg.RejectInverted)
	assert.Equal(t, LockRedis, cfg.BookingLock)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, "127.0.0.1", cfg.GRPCHost)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "clinicbook.yaml")
	body := "http:\n  addr: \":9090\"\nshutdown:\n  timeout: 3s\nbooking:\n  conflict_scope: participant\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "participant", cfg.ConflictScope)

	t.Setenv("CLINICBOOK_HTTP_ADDR", ":7070")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "CLINICBOOK_SHUTDOWN_TIMEOUT", val: "soon"},
		{name: "bad driver", key: "CLINICBOOK_DATABASE_DRIVER", val: "mysql"},
		{name: "bad lock", key: "CLINICBOOK_BOOKING_LOCK", val: "etcd"},
		{name: "bad port", key: "CLINICBOOK_GRPC_PORT", val: "70000"},
		{name: "negative rps", key: "CLINICBOOK_RATELIMIT_RPS", val: "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
