package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// FileEnvVar names the optional YAML/TOML overlay file
const FileEnvVar = "ASTERIX_CONFIG_FILE"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Transport TransportConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP front end configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// BrowserConfig holds navigation orchestrator configuration.
type BrowserConfig struct {
	MaxInFlight   int           `envconfig:"BROWSER_MAX_INFLIGHT" default:"16"`
	FetchTimeout  time.Duration `envconfig:"BROWSER_FETCH_TIMEOUT" default:"30s"`
	PreviewChars  int           `envconfig:"BROWSER_PREVIEW_CHARS" default:"2048"`
	DefaultScheme string        `envconfig:"BROWSER_DEFAULT_SCHEME" default:"https"`
}

// TransportConfig holds network client configuration.
type TransportConfig struct {
	UserAgent       string        `envconfig:"TRANSPORT_USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) ASTERIX/0.1 Safari/537.36"`
	MaxRedirects    int           `envconfig:"TRANSPORT_MAX_REDIRECTS" default:"10"`
	RetryMax        int           `envconfig:"TRANSPORT_RETRY_MAX" default:"1"`
	RetryWaitMin    time.Duration `envconfig:"TRANSPORT_RETRY_WAIT_MIN" default:"250ms"`
	RetryWaitMax    time.Duration `envconfig:"TRANSPORT_RETRY_WAIT_MAX" default:"2s"`
	MaxBodyBytes    int64         `envconfig:"TRANSPORT_MAX_BODY_BYTES" default:"10485760"`
	RateLimitRPS    float64       `envconfig:"TRANSPORT_RATE_LIMIT_RPS" default:"0"`
	BreakerFailures int           `envconfig:"TRANSPORT_BREAKER_FAILURES" default:"10"`
	BreakerTimeout  time.Duration `envconfig:"TRANSPORT_BREAKER_TIMEOUT" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds front end rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables, then applies the
// overlay file named by ASTERIX_CONFIG_FILE when set.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := ApplyFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Browser: BrowserConfig{
			MaxInFlight:   16,
			FetchTimeout:  30 * time.Second,
			PreviewChars:  2048,
			DefaultScheme: "https",
		},
		Transport: TransportConfig{
			UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) ASTERIX/0.1 Safari/537.36",
			MaxRedirects:    10,
			RetryMax:        1,
			RetryWaitMin:    250 * time.Millisecond,
			RetryWaitMax:    2 * time.Second,
			MaxBodyBytes:    10 * 1024 * 1024,
			RateLimitRPS:    0,
			BreakerFailures: 10,
			BreakerTimeout:  30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate rejects values the orchestrator cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Browser.MaxInFlight <= 0 {
		errs = append(errs, fmt.Errorf("BROWSER_MAX_INFLIGHT must be positive, got %d", c.Browser.MaxInFlight))
	}
	if c.Browser.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BROWSER_FETCH_TIMEOUT must be positive, got %s", c.Browser.FetchTimeout))
	}
	if c.Transport.MaxRedirects < 0 {
		errs = append(errs, fmt.Errorf("TRANSPORT_MAX_REDIRECTS must not be negative, got %d", c.Transport.MaxRedirects))
	}
	if c.Transport.RetryMax < 0 {
		errs = append(errs, fmt.Errorf("TRANSPORT_RETRY_MAX must not be negative, got %d", c.Transport.RetryMax))
	}
	if c.Transport.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("TRANSPORT_MAX_BODY_BYTES must be positive, got %d", c.Transport.MaxBodyBytes))
	}
	return errors.Join(errs...)
}
