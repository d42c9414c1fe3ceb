package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/movieverse"
)

type fakeBackend struct {
	mu        sync.Mutex
	meUser    movieverse.User
	meErr     error
	loginErr  error
	logoutErr error
	calls     []string
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) CSRF(context.Context) error {
	f.record("csrf")
	return nil
}

func (f *fakeBackend) Me(context.Context) (movieverse.User, error) {
	f.record("me")
	return f.meUser, f.meErr
}

func (f *fakeBackend) Login(context.Context, string, string) error {
	f.record("login")
	return f.loginErr
}

func (f *fakeBackend) Logout(context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeBackend) Register(context.Context, movieverse.RegisterRequest) error { return nil }

func (f *fakeBackend) UsernameAvailable(context.Context, string) (bool, error) { return true, nil }

func (f *fakeBackend) ForgotPassword(context.Context, string) error { return nil }

func (f *fakeBackend) VerifyOTP(context.Context, string, string) error { return nil }

func (f *fakeBackend) ResetPassword(context.Context, string, string) error { return nil }

func (f *fakeBackend) Email(_ context.Context, username string) (string, error) {
	return username + "@example.com", nil
}

func TestProbe_ClearsLoadingOnEveryOutcome(t *testing.T) {
	tests := []struct {
		name      string
		meErr     error
		wantError bool
	}{
		{name: "success"},
		{name: "unauthenticated", meErr: movieverse.ErrUnauthorized},
		{name: "network", meErr: movieverse.ErrUnavailable, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{meUser: movieverse.User{ID: 1, Username: "ana"}, meErr: tt.meErr}
			s := New(backend, zerolog.Nop())
			if !s.Snapshot().Loading {
				t.Fatal("new store should be loading")
			}
			got := s.Probe(context.Background())
			snap := s.Snapshot()
			if snap.Loading {
				t.Fatal("Loading still true after probe")
			}
			if got != (tt.meErr == nil) || snap.LoggedIn() != got {
				t.Fatalf("Probe = %v, LoggedIn = %v", got, snap.LoggedIn())
			}
			if (snap.LastError != nil) != tt.wantError {
				t.Fatalf("LastError = %v, wantError %v", snap.LastError, tt.wantError)
			}
			if backend.calls[0] != "csrf" || backend.calls[1] != "me" {
				t.Fatalf("calls = %v, want csrf then me", backend.calls)
			}
		})
	}
}

func TestLogin_FetchesFreshTokenAndReprobes(t *testing.T) {
	backend := &fakeBackend{meUser: movieverse.User{ID: 3, Username: "ana"}}
	s := New(backend, zerolog.Nop())

	if !s.Login(context.Background(), " ana ", "pw") {
		t.Fatalf("Login failed: %v", s.Snapshot().LastError)
	}
	want := []string{"csrf", "login", "me"}
	if len(backend.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", backend.calls, want)
	}
	for i := range want {
		if backend.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", backend.calls, want)
		}
	}
	if s.Username() != "ana" || s.Snapshot().Loading {
		t.Fatalf("snapshot = %#v", s.Snapshot())
	}
}

func TestLogin_FailureNeverPanicsAndClearsUser(t *testing.T) {
	backend := &fakeBackend{meUser: movieverse.User{ID: 3, Username: "ana"}}
	s := New(backend, zerolog.Nop())
	s.Probe(context.Background())

	var reasons []Reason
	s.OnSignOut(func(r Reason) { reasons = append(reasons, r) })

	backend.loginErr = &movieverse.APIError{Status: http.StatusBadRequest, Message: "Invalid credentials!"}
	if s.Login(context.Background(), "ana", "wrong") {
		t.Fatal("Login should fail")
	}
	snap := s.Snapshot()
	if snap.LoggedIn() || snap.User != nil {
		t.Fatal("user should be cleared after failed login")
	}
	if movieverse.UserMessage(snap.LastError) != "Invalid credentials!" {
		t.Fatalf("LastError = %v", snap.LastError)
	}
	if len(reasons) != 1 || reasons[0] != ReasonLogout {
		t.Fatalf("reasons = %v", reasons)
	}

	if s.Login(context.Background(), "", "") {
		t.Fatal("empty credentials should fail")
	}
}

func TestLogout_ClearsUserEvenWhenBackendFails(t *testing.T) {
	backend := &fakeBackend{meUser: movieverse.User{ID: 3, Username: "ana"}, logoutErr: movieverse.ErrUnavailable}
	s := New(backend, zerolog.Nop())
	s.Probe(context.Background())

	expired := 0
	s.OnExpire(func() { expired++ })
	s.Logout(context.Background())

	if s.LoggedIn() {
		t.Fatal("user should be cleared")
	}
	if expired != 0 {
		t.Fatal("logout must not fire expiry listeners")
	}
}

func TestExpire_FiresOnlyOnTransition(t *testing.T) {
	backend := &fakeBackend{meUser: movieverse.User{ID: 3, Username: "ana"}}
	s := New(backend, zerolog.Nop())
	s.Probe(context.Background())

	expired := 0
	s.OnExpire(func() { expired++ })
	s.Expire()
	s.Expire()
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if !movieverse.IsAuthError(s.Snapshot().LastError) {
		t.Fatalf("LastError = %v, want auth error", s.Snapshot().LastError)
	}
}

func TestEmail_RequiresUser(t *testing.T) {
	backend := &fakeBackend{meUser: movieverse.User{ID: 3, Username: "ana"}}
	s := New(backend, zerolog.Nop())
	if _, err := s.Email(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Email error = %v, want ErrNotLoggedIn", err)
	}
	s.Probe(context.Background())
	email, err := s.Email(context.Background())
	if err != nil || email != "ana@example.com" {
		t.Fatalf("Email = %q, %v", email, err)
	}
}

func TestSnapshot_LoggedInNeverDisagreesWithUser(t *testing.T) {
	backend := &fakeBackend{meUser: movieverse.User{ID: 3, Username: "ana"}}
	s := New(backend, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			s.Login(ctx, "ana", "pw")
			s.Expire()
		}
	}()
	var bad atomic.Int32
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			snap := s.Snapshot()
			if snap.LoggedIn() != (snap.User != nil) || (snap.User != nil && snap.Username() != "ana") {
				bad.Add(1)
			}
		}
	}()
	wg.Wait()
	if bad.Load() != 0 {
		t.Fatalf("observed %d inconsistent snapshots", bad.Load())
	}
}

func TestExpire_WiredToClientOnForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/csrf/":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		case "/api/auth/me/":
			_ = json.NewEncoder(w).Encode(movieverse.User{ID: 1, Username: "ana"})
		default:
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
		}
	}))
	t.Cleanup(server.Close)

	client, err := movieverse.NewClient(movieverse.Options{BaseURL: server.URL, RequestsPerSecond: 1000})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	s := New(client, zerolog.Nop())
	client.OnUnauthorized(s.Expire)

	redirected := make(chan struct{}, 1)
	s.OnExpire(func() { redirected <- struct{}{} })

	ctx := context.Background()
	if !s.Probe(ctx) {
		t.Fatal("probe failed")
	}
	if _, err := client.Watchlist(ctx, "ana"); !movieverse.IsAuthError(err) {
		t.Fatalf("Watchlist error = %v, want auth error", err)
	}
	if s.LoggedIn() {
		t.Fatal("user should be nil after 403")
	}
	select {
	case <-redirected:
	default:
		t.Fatal("expiry listener did not fire")
	}
}
