package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Browser config
	assert.Equal(t, 16, cfg.Browser.MaxInFlight)
	assert.Equal(t, 30*time.Second, cfg.Browser.FetchTimeout)
	assert.Equal(t, 2048, cfg.Browser.PreviewChars)
	assert.Equal(t, "https", cfg.Browser.DefaultScheme)

	// Transport config
	assert.Contains(t, cfg.Transport.UserAgent, "ASTERIX/0.1")
	assert.Equal(t, 10, cfg.Transport.MaxRedirects)
	assert.Equal(t, int64(10*1024*1024), cfg.Transport.MaxBodyBytes)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                     "9000",
		"BROWSER_MAX_INFLIGHT":     "4",
		"BROWSER_FETCH_TIMEOUT":    "5s",
		"TRANSPORT_MAX_REDIRECTS":  "3",
		"TRANSPORT_RATE_LIMIT_RPS": "2.5",
		"LOG_LEVEL":                "debug",
		"LOG_DEV":                  "true",
		"RATE_LIMIT_ENABLED":       "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Browser.MaxInFlight)
	assert.Equal(t, 5*time.Second, cfg.Browser.FetchTimeout)
	assert.Equal(t, 3, cfg.Transport.MaxRedirects)
	assert.Equal(t, 2.5, cfg.Transport.RateLimitRPS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.RateLimit.Enabled)

	// Untouched values keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2048, cfg.Browser.PreviewChars)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero in-flight", key: "BROWSER_MAX_INFLIGHT", val: "0"},
		{name: "negative timeout", key: "BROWSER_FETCH_TIMEOUT", val: "-1s"},
		{name: "unparseable duration", key: "BROWSER_FETCH_TIMEOUT", val: "soon"},
		{name: "negative retries", key: "TRANSPORT_RETRY_MAX", val: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back instead of failing
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "asterix.yaml",
			content: `
server:
  port: "7000"
browser:
  max_inflight: 2
  fetch_timeout: 750ms
transport:
  retry_max: 0
  breaker_timeout: 1m
logging:
  development: true
`,
		},
		{
			name: "toml",
			file: "asterix.toml",
			content: `
[server]
port = "7000"

[browser]
max_inflight = 2
fetch_timeout = "750ms"

[transport]
retry_max = 0
breaker_timeout = "1m"

[logging]
development = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg := Default()
			require.NoError(t, ApplyFile(cfg, path))

			assert.Equal(t, "7000", cfg.Server.Port)
			assert.Equal(t, 2, cfg.Browser.MaxInFlight)
			assert.Equal(t, 750*time.Millisecond, cfg.Browser.FetchTimeout)
			assert.Equal(t, 0, cfg.Transport.RetryMax)
			assert.Equal(t, time.Minute, cfg.Transport.BreakerTimeout)
			assert.True(t, cfg.Logging.Development)

			// Keys absent from the file are left alone
			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 10, cfg.Transport.MaxRedirects)
		})
	}
}

func TestApplyFileErrors(t *testing.T) {
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "asterix.ini")
	require.NoError(t, os.WriteFile(unsupported, []byte("port=1"), 0o600))
	assert.Error(t, ApplyFile(Default(), unsupported))

	badDuration := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badDuration, []byte("browser:\n  fetch_timeout: later\n"), 0o600))
	assert.Error(t, ApplyFile(Default(), badDuration))

	assert.Error(t, ApplyFile(Default(), filepath.Join(dir, "missing.yaml")))
}

func TestLoadWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asterix.yml")
	require.NoError(t, os.WriteFile(path, []byte("browser:\n  preview_chars: 512\n"), 0o600))
	t.Setenv(FileEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Browser.PreviewChars)
}
