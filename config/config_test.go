package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Address)
	assert.Equal(t, 30*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, ":9091", c.Observability.Address)
	assert.Equal(t, BackendMemory, c.Store.Backend)
	assert.Equal(t, time.Second, c.Store.LookupDelay)
	assert.Equal(t, "info", c.Log.Level)
	assert.Empty(t, c.Tracing.Endpoint)
	assert.Equal(t, "authtoken", c.Tracing.ServiceName)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("AUTHTOKEN_SERVER_ADDRESS", ":8080")
	t.Setenv("AUTHTOKEN_SERVER_READ_TIMEOUT", "2s")
	t.Setenv("AUTHTOKEN_STORE_BACKEND", "redis")
	t.Setenv("AUTHTOKEN_STORE_LOOKUP_DELAY", "10ms")
	t.Setenv("AUTHTOKEN_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("AUTHTOKEN_TRACING_ENDPOINT", "collector:4318")
	t.Setenv("AUTHTOKEN_TRACING_SERVICE_NAME", "auth")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Address)
	assert.Equal(t, 2*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, BackendRedis, c.Store.Backend)
	assert.Equal(t, 10*time.Millisecond, c.Store.LookupDelay)
	assert.Equal(t, "redis://cache:6379/1", c.Redis.URL)
	assert.Equal(t, "collector:4318", c.Tracing.Endpoint)
	assert.Equal(t, "auth", c.Tracing.ServiceName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "AUTHTOKEN_STORE_BACKEND", "postgres"},
		{"negative delay", "AUTHTOKEN_STORE_LOOKUP_DELAY", "-1s"},
		{"unparsable delay", "AUTHTOKEN_STORE_LOOKUP_DELAY", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_RedisURL(t *testing.T) {
	var c Config
	c.Server.Address = ":9090"
	c.Store.Backend = BackendRedis

	assert.ErrorContains(t, c.Validate(), "redis url")

	c.Redis.URL = "redis://localhost:6379/0"
	assert.NoError(t, c.Validate())
}
