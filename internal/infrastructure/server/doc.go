// Package server wires the browser core to its network front ends.
//
// Middleware order: recovery, tracing, request metrics, CORS, then per-IP
// rate limiting when enabled. The REST routes come from api/http and the
// event stream is served at /stream.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logger, app.Options{})
//	if err != nil {
//	    return err
//	}
//	go srv.Run()
//	defer srv.Close(ctx)
package server
