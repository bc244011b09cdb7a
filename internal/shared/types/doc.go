// Package types provides the shared data model of the browser core.
//
// Core Types:
//   - TabID, Generation: tab identity and navigation ordering
//   - PageRequest, PageResponse: one fetch and its normalized outcome
//   - TabSnapshot: immutable copy of tab state handed to the UI
//
// Channel Types:
//   - Command, CommandResult: UI to core
//   - Event: core to UI (TabOpened, TabUpdated, TabClosed)
//
// Example Usage:
//
//	snap := types.TabSnapshot{ID: id.NewTabID()}
//	evt := types.TabOpened(snap)
package types
