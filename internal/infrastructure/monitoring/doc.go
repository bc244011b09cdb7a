/*
Package monitoring provides Prometheus metrics for the browser core and its
front ends.

# Metrics

- asterix_tabs_open: open tabs
- asterix_navigations_total{result}: accepted or rejected navigations
- asterix_fetches_inflight: running document fetches
- asterix_fetch_duration_seconds{status}: fetch latency by response status
- asterix_results_total{outcome}: applied, stale or gone fetch results
- asterix_panics_total: panics recovered in fetch tasks and command handlers

HTTP and WebSocket traffic is tracked as well.

# Usage

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	router.Use(monitoring.Middleware(metrics))

	timer := monitoring.NewTimer(metrics)
	// ... fetch ...
	timer.Stop("ok")

Expose them via the standard Prometheus endpoint:

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
