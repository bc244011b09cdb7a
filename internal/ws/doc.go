// Package ws streams browser events over WebSocket and accepts tab commands
// on the same socket.
//
// Every connection gets a uuid connection id and its own event
// subscription, so it sees every event published after it connected, in
// order. Frames are JSON encoded with sonic.
//
// Message Types (Client → Server):
//   - open: open a tab, optional title
//   - close, stop, reload: act on tab_id
//   - navigate: point tab_id at url
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - welcome: connection id and the current tabs
//   - ack: command accepted, echoes request_id and tab_id
//   - error: command rejected, with an HTTP-style code
//   - event: a tab_opened, tab_updated or tab_closed event
//   - pong: ping reply
//
// Example Usage:
//
//	handler := ws.NewHandler(runtime, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
