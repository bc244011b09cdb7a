// Package main runs the asterix browser core behind its REST and WebSocket
// front ends.
//
// Configuration comes from the environment (see internal/infrastructure/config),
// optionally overlaid by the YAML or TOML file named in ASTERIX_CONFIG_FILE.
// Flags override both.
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown, cancelling in-flight fetches
package main
