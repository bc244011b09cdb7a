// Package config provides 12-factor configuration for the browser core.
//
// Configuration is loaded from environment variables with defaults. An
// optional YAML or TOML file named by ASTERIX_CONFIG_FILE is applied on top;
// only keys present in the file override.
//
// Configuration Sections:
//   - Server: HTTP front end settings (port, host)
//   - Browser: in-flight fetch cap, fetch timeout, preview length
//   - Transport: user agent, redirects, retries, body cap, breakers
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting of the front end
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	orch := navigation.New(pipeline, logger, navigation.Options{
//	    MaxInFlight:  cfg.Browser.MaxInFlight,
//	    FetchTimeout: cfg.Browser.FetchTimeout,
//	})
package config
