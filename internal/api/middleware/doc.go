// Package middleware holds the gin middleware shared by the browser's HTTP
// and WebSocket front ends: CORS and per-client or global rate limiting.
package middleware
