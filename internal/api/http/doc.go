/*
Package http exposes the browser core over REST with gin.

Routes:

	GET    /                    service banner
	GET    /health              tab count, metric snapshot, breaker states
	GET    /metrics             Prometheus exposition
	GET    /tabs                every open tab
	POST   /tabs                open a tab, optionally loading {"url": ...}
	GET    /tabs/:id            one tab
	DELETE /tabs/:id            close a tab
	POST   /tabs/:id/navigate   {"url": ...}
	POST   /tabs/:id/stop       cancel the tab's fetch
	POST   /tabs/:id/reload     load the tab's url again

Unknown tabs answer 404 and rejected urls 400. Navigation is asynchronous:
navigate and reload answer 202 with the loading snapshot, and the finished
page is read back with GET /tabs/:id or streamed over the WebSocket.
*/
package http
