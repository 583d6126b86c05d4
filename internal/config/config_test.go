package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://localhost:8000/api
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval())
	assert.Contains(t, cfg.Refresh.Pages, "dashboard")
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.Zero(t, cfg.Backend.Timeout())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://backend.example.com/api")

	path := writeConfig(t, `
backend:
  base_url: ${BACKEND_URL}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.com/api", cfg.Backend.BaseURL)
}

func TestLoadRequiresBackendURL(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 9000
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoadAuthRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://localhost:8000/api
auth:
  enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: autoadmin
  environment: test
backend:
  base_url: http://localhost:8000/api
  timeout_seconds: 15
auth:
  enabled: true
  admin_email: admin@accessautoservices.co.uk
  admin_password: secret
refresh:
  enabled: true
  interval_seconds: 10
  pages: [dashboard, bookings]
redis:
  address: localhost:6379
monitoring:
  prometheus_enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Refresh.Interval())
	assert.Equal(t, []string{"dashboard", "bookings"}, cfg.Refresh.Pages)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
}
