/*
Package tracing gives every front end request a trace id.

Trace context travels in the X-Trace-ID and X-Span-ID headers. Finished
spans are handed to a buffered collector that logs them through zap, so
request handling never waits on logging.

	tracer := tracing.New("asterix", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))
*/
package tracing
