// Package movieverse provides an HTTP client for the MovieVerse backend API.
//
// # Overview
//
// This package defines the client the terminal UI uses to talk to the
// MovieVerse service. It owns the session cookie jar, the anti-forgery token
// handshake, JSON serialization and the error taxonomy every caller relies on.
//
// # Architecture
//
//   - client.go: transport, request pacing, circuit breaker and status mapping
//   - auth.go: session, registration and password reset endpoints
//   - movies.go: trending, top picks, search, swipe deck, detail and mood
//   - watchlist.go: watchlist CRUD and ratings
//   - types.go: data structures mirroring the backend payloads
//   - errors.go: sentinels and APIError
//
// # Client Usage
//
//	client, err := movieverse.NewClient(movieverse.Options{BaseURL: "http://127.0.0.1:8000/"})
//	if err != nil {
//		return err
//	}
//	if err := client.CSRF(ctx); err != nil {
//		return err
//	}
//	user, err := client.Me(ctx)
//
// # Request Handling
//
// All requests:
//   - Wait on a token bucket limiter before they are sent
//   - Set Accept, User-Agent and a fresh X-Request-ID header
//   - Carry X-CSRFToken from the csrftoken cookie when the method mutates state
//   - Time out after 10 seconds unless configured otherwise
//   - Pass through a circuit breaker that opens after repeated network or 5xx failures
//
// # Error Handling
//
// Errors wrap one of three sentinels so callers can branch with errors.Is:
//
//   - ErrUnauthorized: 401 or 403
//   - ErrUnavailable: network failure, timeout, open breaker or 5xx
//   - ErrNotFound: 404
//
// Any other status surfaces as *APIError with the backend's message, and
// field-keyed validation objects decode into FieldErrors.
//
// A 401 or 403 on a protected endpoint also runs the hooks registered with
// OnUnauthorized. The session probe and login endpoints are exempt because
// rejection there is an expected answer.
//
// # Duplicates
//
// Adding a movie that is already on the watchlist is not an error:
// AddToWatchlist reports it through AddResult.AlreadyPresent.
package movieverse
