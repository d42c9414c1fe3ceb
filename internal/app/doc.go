// Package app provides the orchestration layer for the reel application.
//
// # Overview
//
// This package wires together configuration, logging, the MovieVerse
// client, the session and the entity caches, then hands them to the UI. It
// is the composition root; nothing else constructs stores.
//
// # Architecture
//
//  1. Load config from ~/.config/reel/config.toml and REEL_* overrides
//  2. Open the JSON log file
//  3. Build the API client with its cookie jar, limiter and breaker
//  4. Create the session store and the two caches bound to their fetchers
//  5. Route 401/403 to session expiry and sign-out to cache clearing
//  6. Probe the session; when it is live, prefetch both caches
//  7. Start the TUI and block until the user exits or the context ends
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()            Read config and env
//	       ├─────> logging.Open()           JSON lines to the log file
//	       ├─────> movieverse.NewClient()   HTTP client
//	       ├─────> session.New()            Auth identity
//	       ├─────> state.NewBrowse()        Home lists cache
//	       ├─────> state.NewSwipeDeck()     Swipe queue cache
//	       ├─────> sess.Probe()             Restore cookie session
//	       ├─────> StartPrefetch()          Warm caches in background
//	       └─────> ui.Run()                 Start TUI (blocks)
//
// # Prefetch Behavior
//
// Prefetch makes one attempt per cache, not on a cadence; the caches have
// no expiry. A failed warm-up is logged and not retried. The view owns the
// error and its refresh key is the only retry. Because the caches coalesce
// in-flight fetches, the home view arriving during a prefetch waits on the
// same request instead of issuing another.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Log file cannot be opened
//   - Invalid backend URL
//
// Everything after startup is recoverable and surfaces in the UI.
package app
