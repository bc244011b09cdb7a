package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with optional fields; only keys present in the
// file override the loaded values.
type fileConfig struct {
	Server struct {
		Port *string `yaml:"port" toml:"port"`
		Host *string `yaml:"host" toml:"host"`
	} `yaml:"server" toml:"server"`
	Browser struct {
		MaxInFlight   *int    `yaml:"max_inflight" toml:"max_inflight"`
		FetchTimeout  *string `yaml:"fetch_timeout" toml:"fetch_timeout"`
		PreviewChars  *int    `yaml:"preview_chars" toml:"preview_chars"`
		DefaultScheme *string `yaml:"default_scheme" toml:"default_scheme"`
	} `yaml:"browser" toml:"browser"`
	Transport struct {
		UserAgent       *string  `yaml:"user_agent" toml:"user_agent"`
		MaxRedirects    *int     `yaml:"max_redirects" toml:"max_redirects"`
		RetryMax        *int     `yaml:"retry_max" toml:"retry_max"`
		RetryWaitMin    *string  `yaml:"retry_wait_min" toml:"retry_wait_min"`
		RetryWaitMax    *string  `yaml:"retry_wait_max" toml:"retry_wait_max"`
		MaxBodyBytes    *int64   `yaml:"max_body_bytes" toml:"max_body_bytes"`
		RateLimitRPS    *float64 `yaml:"rate_limit_rps" toml:"rate_limit_rps"`
		BreakerFailures *int     `yaml:"breaker_failures" toml:"breaker_failures"`
		BreakerTimeout  *string  `yaml:"breaker_timeout" toml:"breaker_timeout"`
	} `yaml:"transport" toml:"transport"`
	Logging struct {
		Level       *string `yaml:"level" toml:"level"`
		Development *bool   `yaml:"development" toml:"development"`
	} `yaml:"logging" toml:"logging"`
	RateLimit struct {
		RequestsPerSecond *int  `yaml:"rps" toml:"rps"`
		Burst             *int  `yaml:"burst" toml:"burst"`
		Enabled           *bool `yaml:"enabled" toml:"enabled"`
	} `yaml:"rate_limit" toml:"rate_limit"`
}

// ApplyFile overlays a YAML (.yaml, .yml) or TOML (.toml) file onto cfg.
func ApplyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) error {
	setString(&cfg.Server.Port, fc.Server.Port)
	setString(&cfg.Server.Host, fc.Server.Host)

	setInt(&cfg.Browser.MaxInFlight, fc.Browser.MaxInFlight)
	setInt(&cfg.Browser.PreviewChars, fc.Browser.PreviewChars)
	setString(&cfg.Browser.DefaultScheme, fc.Browser.DefaultScheme)

	setString(&cfg.Transport.UserAgent, fc.Transport.UserAgent)
	setInt(&cfg.Transport.MaxRedirects, fc.Transport.MaxRedirects)
	setInt(&cfg.Transport.RetryMax, fc.Transport.RetryMax)
	setInt(&cfg.Transport.BreakerFailures, fc.Transport.BreakerFailures)
	if fc.Transport.MaxBodyBytes != nil {
		cfg.Transport.MaxBodyBytes = *fc.Transport.MaxBodyBytes
	}
	if fc.Transport.RateLimitRPS != nil {
		cfg.Transport.RateLimitRPS = *fc.Transport.RateLimitRPS
	}

	setString(&cfg.Logging.Level, fc.Logging.Level)
	setBool(&cfg.Logging.Development, fc.Logging.Development)

	setInt(&cfg.RateLimit.RequestsPerSecond, fc.RateLimit.RequestsPerSecond)
	setInt(&cfg.RateLimit.Burst, fc.RateLimit.Burst)
	setBool(&cfg.RateLimit.Enabled, fc.RateLimit.Enabled)

	durations := []struct {
		name string
		dst  *time.Duration
		src  *string
	}{
		{"browser.fetch_timeout", &cfg.Browser.FetchTimeout, fc.Browser.FetchTimeout},
		{"transport.retry_wait_min", &cfg.Transport.RetryWaitMin, fc.Transport.RetryWaitMin},
		{"transport.retry_wait_max", &cfg.Transport.RetryWaitMax, fc.Transport.RetryWaitMax},
		{"transport.breaker_timeout", &cfg.Transport.BreakerTimeout, fc.Transport.BreakerTimeout},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
