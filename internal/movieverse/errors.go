package movieverse

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized reports a 401 or 403 from the backend.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrUnavailable reports a backend that could not be reached: network
	// failures, timeouts, an open circuit breaker and 5xx responses.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNotFound reports a 404 from the backend.
	ErrNotFound = errors.New("not found")
)

const alreadyInWatchlistMessage = "Movie already in watchlist"

// APIError describes a non-2xx response.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Fields  FieldErrors
	kind    error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap exposes the sentinel classifying the status code.
func (e *APIError) Unwrap() error {
	return e.kind
}

// FieldErrors maps a form field to the messages the backend attached to it.
type FieldErrors map[string][]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(f[k], "; ")))
	}
	return strings.Join(parts, ", ")
}

// Field returns the first message recorded for name.
func (f FieldErrors) Field(name string) string {
	if msgs := f[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// IsAuthError reports whether err came from a 401 or 403.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsAlreadyInWatchlist reports whether err is the backend's duplicate add
// response. Callers treat it as success.
func IsAlreadyInWatchlist(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(apiErr.Message), alreadyInWatchlistMessage)
}

// UserMessage renders err for display in a view.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrUnavailable):
		return "Could not reach the MovieVerse server."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
