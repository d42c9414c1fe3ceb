// Package config loads reel's configuration.
//
// # Overview
//
// reel reads an optional TOML file and then applies environment overrides.
// Every field has a default, so the client runs against a local backend
// without any configuration at all.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. The file given with -config, or ~/.config/reel/config.toml
//  3. REEL_* environment variables
//
// A missing file is not an error. Empty values in the file keep the default.
//
// # Default Values
//
//   - api_url: http://127.0.0.1:8000/
//   - request_timeout: 10s
//   - requests_per_second: 5
//   - log_file: ~/.local/state/reel/reel.log
//   - log_level: info
//
// # TOML Format
//
//	api_url = "https://movieverse.example.com/"
//	request_timeout = "15s"
//	requests_per_second = 5
//	log_file = "~/.local/state/reel/reel.log"
//	log_level = "debug"
//
// # Environment
//
//   - REEL_API_URL
//   - REEL_REQUEST_TIMEOUT (Go duration)
//   - REEL_RPS
//   - REEL_LOG_FILE
//   - REEL_LOG_LEVEL (trace, debug, info, warn, error, disabled)
//
// # Error Handling
//
// Load returns errors for unreadable files, malformed TOML, unparsable
// durations in the file or environment and unknown log levels.
package config
