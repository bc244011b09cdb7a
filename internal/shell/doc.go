// Package shell is a terminal front end for the browser core, built on
// bubbletea and lipgloss.
//
// The screen has a tab strip, a url bar, a status line and a text preview
// of the active tab, cut at 2048 characters by default. Events from the
// core arrive through a subscription read by a tea.Cmd, so the view always
// reflects the latest published snapshots.
//
// Keys: enter navigates, ctrl+t opens a tab, ctrl+w closes it, tab cycles
// tabs, ctrl+r reloads, esc stops loading, ctrl+c quits.
package shell
