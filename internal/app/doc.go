// Package app provides the orchestration layer for pocketspice.
//
// # Overview
//
// This package wires together configuration, logging, token storage, the
// recipe client, session handling, the listing store and the UI. Bootstrap is
// the composition root shared by the TUI and every CLI subcommand; Run adds
// the background poller and starts the TUI.
//
// # Architecture
//
//  1. Load config from ~/.config/pocketspice/config.toml plus POCKETSPICE_* env
//  2. Open the zerolog log file (and mirror to the console for CLI commands)
//  3. Open the token store (file backed, or in memory with Ephemeral)
//  4. Build the HTTP or mock recipe client from the config
//  5. Create the session.Manager and the shared state.Store
//  6. Restore the user from a persisted token, load the first page, start the
//     poller and run the TUI until the user quits or the context is cancelled
//
// # Components
//
//   - app.go: Options, Env, Bootstrap and Run
//   - poller.go: background goroutine that refreshes the current listing
//   - probe.go: reachability checks for the backend and its auth routes
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Bootstrap()           config, logger, keystore, API, session
//	       ├─────> Session.Initialize()  restore user from stored token
//	       ├─────> Store.Load()          first page of recipes
//	       ├─────> StartPoller()         periodic refresh
//	       └─────> ui.Run()              Bubble Tea program (blocks)
//
// # Error Handling
//
// Bootstrap failures (bad config, unwritable log or session file) are returned.
// A failed initial load or poll is logged and shown in the UI; the session
// survives it unless the backend answered 401.
package app
