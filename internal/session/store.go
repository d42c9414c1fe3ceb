package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/movieverse"
)

// Backend is the subset of the MovieVerse client the session needs.
type Backend interface {
	CSRF(ctx context.Context) error
	Me(ctx context.Context) (movieverse.User, error)
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, req movieverse.RegisterRequest) error
	UsernameAvailable(ctx context.Context, name string) (bool, error)
	ForgotPassword(ctx context.Context, username string) error
	VerifyOTP(ctx context.Context, username, otp string) error
	ResetPassword(ctx context.Context, username, password string) error
	Email(ctx context.Context, username string) (string, error)
}

// Reason says why a signed-in user was cleared.
type Reason int

const (
	// ReasonLogout is an explicit logout or a failed re-login.
	ReasonLogout Reason = iota
	// ReasonExpired is a 401 or 403 from a protected endpoint.
	ReasonExpired
)

func (r Reason) String() string {
	if r == ReasonExpired {
		return "expired"
	}
	return "logout"
}

// ErrNotLoggedIn is returned by operations that need a current user.
var ErrNotLoggedIn = errors.New("not logged in")

// Snapshot is a consistent view of the session.
type Snapshot struct {
	User      *movieverse.User
	Loading   bool
	LastError error
}

// LoggedIn is derived from User so the two can never disagree.
func (s Snapshot) LoggedIn() bool {
	return s.User != nil
}

// Username returns the current username or "".
func (s Snapshot) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// Store holds the authenticated identity.
type Store struct {
	backend Backend
	log     zerolog.Logger

	mu        sync.RWMutex
	user      *movieverse.User
	loading   bool
	lastErr   error
	listeners []func(Reason)
}

// New returns a Store in the loading state. Call Probe once at startup.
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     logger.With().Str("component", "session").Logger(),
		loading: true,
	}
}

// Snapshot returns a copy of the session.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Loading: s.loading, LastError: s.lastErr}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// LoggedIn reports whether a user is set.
func (s *Store) LoggedIn() bool {
	return s.Snapshot().LoggedIn()
}

// Username returns the current username or "".
func (s *Store) Username() string {
	return s.Snapshot().Username()
}

// OnSignOut registers fn to run after a signed-in user is cleared. It does
// not run when the session was already signed out.
func (s *Store) OnSignOut(fn func(Reason)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// OnExpire registers fn to run when a protected call expires the session.
func (s *Store) OnExpire(fn func()) {
	if fn == nil {
		return
	}
	s.OnSignOut(func(r Reason) {
		if r == ReasonExpired {
			fn()
		}
	})
}

// Probe asks the backend who the session cookie belongs to. Any failure
// leaves the session signed out. Loading is false afterwards.
func (s *Store) Probe(ctx context.Context) bool {
	user, err := s.fetchUser(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.user = nil
		if movieverse.IsAuthError(err) {
			s.lastErr = nil
		} else {
			s.lastErr = err
		}
	} else {
		s.user = &user
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		if movieverse.IsAuthError(err) {
			s.log.Info().Msg("no active session")
		} else {
			s.log.Warn().Err(err).Msg("session probe failed")
		}
		return false
	}
	s.log.Info().Str("user", user.Username).Msg("session restored")
	return true
}

func (s *Store) fetchUser(ctx context.Context) (movieverse.User, error) {
	if err := s.backend.CSRF(ctx); err != nil {
		return movieverse.User{}, err
	}
	return s.backend.Me(ctx)
}

// Login fetches a fresh CSRF token, submits credentials and re-reads the
// user. It never returns an error; the failure is kept in LastError.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	username = strings.TrimSpace(username)
	err := s.login(ctx, username, password)
	if err != nil {
		s.log.Warn().Err(err).Str("user", username).Msg("login failed")
		s.clear(ReasonLogout, err)
		return false
	}
	return true
}

func (s *Store) login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	if err := s.backend.CSRF(ctx); err != nil {
		return err
	}
	if err := s.backend.Login(ctx, username, password); err != nil {
		return err
	}
	user, err := s.backend.Me(ctx)
	if err != nil {
		return fmt.Errorf("login accepted but session missing: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.loading = false
	s.lastErr = nil
	s.mu.Unlock()
	s.log.Info().Str("user", user.Username).Msg("logged in")
	return nil
}

// Logout ends the session. The user is cleared even when the backend call
// fails.
func (s *Store) Logout(ctx context.Context) {
	err := s.backend.CSRF(ctx)
	if err == nil {
		err = s.backend.Logout(ctx)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("backend logout failed")
	}
	s.clear(ReasonLogout, nil)
}

// Expire treats the session as logged out after a 401 or 403.
func (s *Store) Expire() {
	if s.clear(ReasonExpired, movieverse.ErrUnauthorized) {
		s.log.Warn().Msg("session expired")
	}
}

// clear drops the user and notifies listeners when one was set.
func (s *Store) clear(reason Reason, cause error) bool {
	s.mu.Lock()
	wasSignedIn := s.user != nil
	s.user = nil
	s.loading = false
	s.lastErr = cause
	listeners := append([]func(Reason){}, s.listeners...)
	s.mu.Unlock()

	if !wasSignedIn {
		return false
	}
	for _, fn := range listeners {
		fn(reason)
	}
	return true
}

// Register creates an account. It does not sign in.
func (s *Store) Register(ctx context.Context, req movieverse.RegisterRequest) error {
	if err := s.backend.CSRF(ctx); err != nil {
		return err
	}
	return s.backend.Register(ctx, req)
}

// UsernameAvailable asks the backend whether name is free.
func (s *Store) UsernameAvailable(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	return s.backend.UsernameAvailable(ctx, name)
}

// ForgotPassword starts the reset flow for username.
func (s *Store) ForgotPassword(ctx context.Context, username string) error {
	if err := s.backend.CSRF(ctx); err != nil {
		return err
	}
	return s.backend.ForgotPassword(ctx, strings.TrimSpace(username))
}

// VerifyOTP checks the mailed code.
func (s *Store) VerifyOTP(ctx context.Context, username, otp string) error {
	return s.backend.VerifyOTP(ctx, strings.TrimSpace(username), otp)
}

// ResetPassword sets a new password once the code is verified.
func (s *Store) ResetPassword(ctx context.Context, username, password string) error {
	return s.backend.ResetPassword(ctx, strings.TrimSpace(username), password)
}

// Email returns the signed-in user's address.
func (s *Store) Email(ctx context.Context) (string, error) {
	name := s.Username()
	if name == "" {
		return "", ErrNotLoggedIn
	}
	return s.backend.Email(ctx, name)
}
