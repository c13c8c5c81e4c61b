// Package app provides the orchestration layer for the listkeeper application.
//
// # Overview
//
// This package wires together configuration, preferences, logging, the list
// managers and the UI. It is the composition root where all dependencies are
// initialized and connected.
//
// # Initialization
//
//  1. Load configuration from ~/.config/listkeeper/config.toml (or -config)
//  2. Load preferences (theme, last tab) from ~/.config/listkeeper/prefs.toml
//  3. Route the standard logger to the configured log file via tea.LogToFile
//  4. Build one liststate.Manager per tab: a remote.Client backs tabs whose
//     collection is configured, the others start from their seed records
//  5. Start the TUI and block until the user exits or the context cancels
//
// Remote tabs are fetched by the UI once it starts, so a server that is down
// shows up as a notification rather than a startup failure.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Load config, prefs, logging
//	└──────┬───────┘
//	       │
//	       ▼
//	┌──────────────┐      ┌──────────────┐
//	│ buildScreens │─────▶│ remote.Client│ (tabs with a collection)
//	└──────┬───────┘      └──────────────┘
//	       │
//	       ▼
//	┌──────────────┐
//	│   ui.Run()   │ Bubble Tea event loop
//	└──────────────┘
//
// # Error Handling
//
// Configuration errors and an unknown -tab value abort startup. Remote
// failures after startup never do; the managers report them to the UI.
package app
