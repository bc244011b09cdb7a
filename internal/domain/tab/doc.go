// Package tab keeps the per-tab state of the browser: the latest snapshot,
// the navigation generation and the cancel handle of the in-flight fetch.
package tab
