// Package app assembles a browser core from configuration.
//
// Both front end binaries build their core here, so the HTTP server and the
// terminal shell share one wiring of transport, document pipeline,
// orchestrator and metrics.
//
// Example Usage:
//
//	core, err := app.New(cfg, logger, app.Options{})
//	if err != nil {
//	    return err
//	}
//	defer core.Close(ctx)
//	res, err := core.Runtime.Submit(ctx, types.OpenTab())
package app
