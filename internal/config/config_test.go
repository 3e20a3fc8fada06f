package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("AUDIT_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendBolt, cfg.Session.Backend)
	assert.Equal(t, BackendMemory, cfg.Audit.Backend)
	assert.Equal(t, uint64(42), cfg.Mock.Seed)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Contains(t, cfg.Database.URL, "postgres://")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("AUDIT_BACKEND", "postgres")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "250ms")
	t.Setenv("INCIDENTS_URL", "http://incidents.local/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, BackendPostgres, cfg.Audit.Backend)
	assert.Equal(t, 90*time.Second, cfg.Session.TTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Context.RequestTimeout)
	assert.Equal(t, "http://incidents.local/api", cfg.Incidents.URL)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "etcd")

	_, err := Load()
	assert.Error(t, err)
}
