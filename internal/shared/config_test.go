package shared

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "secret")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.AdminToken)
	assert.Equal(t, ":8085", cfg.Addr)
	assert.Equal(t, "./data/activity.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, int64(2<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestLoadServerConfigOverrides(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("ACTIVITY_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ACTIVITY_LOG_JSON", "true")
	t.Setenv("ACTIVITY_SHUTDOWN_TIMEOUT", "250ms")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
}

func TestLoadServerConfigRequiresAdminToken(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "")

	_, err := LoadServerConfig()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"), err.Error())
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("ACTIVITY_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("ADMIN_TOKEN", "tok")

	cfg, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.BaseURL)
	assert.Equal(t, "tok", cfg.AdminToken)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
}
