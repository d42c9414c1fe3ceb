package movieverse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(Options{BaseURL: server.URL, RequestsPerSecond: 1000, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c, server
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("default url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("movies.example.com:8000/prefix?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if got := u.String(); got != "http://movies.example.com:8000/prefix/" {
		t.Fatalf("url not normalized: %q", got)
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatal("expected error for url without host")
	}
}

func TestClient_SendsCSRFTokenOnlyOnMutatingRequests(t *testing.T) {
	t.Parallel()

	var loginToken, meToken, requestID, userAgent string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]string{"message": "CSRF cookie set"})
	})
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		loginToken = r.Header.Get("X-CSRFToken")
		requestID = r.Header.Get("X-Request-ID")
		userAgent = r.Header.Get("User-Agent")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["password"] != "pw" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid credentials!"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
	})
	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		meToken = r.Header.Get("X-CSRFToken")
		writeJSON(w, http.StatusOK, User{ID: 7, Username: "ana"})
	})
	c, _ := newTestClient(t, mux)
	ctx := testContext(t)

	if err := c.CSRF(ctx); err != nil {
		t.Fatalf("CSRF returned error: %v", err)
	}
	if got := c.CSRFToken(); got != "tok-1" {
		t.Fatalf("CSRFToken = %q, want tok-1", got)
	}
	if err := c.Login(ctx, "ana", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	user, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.Username != "ana" || user.ID != 7 {
		t.Fatalf("Me = %#v", user)
	}
	if loginToken != "tok-1" {
		t.Fatalf("login X-CSRFToken = %q, want tok-1", loginToken)
	}
	if meToken != "" {
		t.Fatalf("GET carried X-CSRFToken %q", meToken)
	}
	if requestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if userAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", userAgent, defaultUserAgent)
	}
}

func TestClient_ClassifiesStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    any
		want    error
		message string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, body: map[string]string{"detail": "Authentication credentials were not provided."}, want: ErrUnauthorized, message: "Authentication credentials were not provided."},
		{name: "not found", status: http.StatusNotFound, want: ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: map[string]string{"error": "boom"}, want: ErrUnavailable, message: "boom"},
		{name: "bad request", status: http.StatusBadRequest, body: map[string]string{"error": "Username is required"}, message: "Username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			_, err := c.Trending(testContext(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("error %v does not wrap %v", err, tt.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not an APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.message {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.message)
			}
		})
	}
}

func TestClient_UnauthorizedHookSkipsSessionProbe(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "nope"})
	}))
	var fired atomic.Int32
	c.OnUnauthorized(func() { fired.Add(1) })
	ctx := testContext(t)

	if _, err := c.Me(ctx); !IsAuthError(err) {
		t.Fatalf("Me error = %v, want auth error", err)
	}
	if fired.Load() != 0 {
		t.Fatalf("hook fired %d times for probe, want 0", fired.Load())
	}

	if _, err := c.Watchlist(ctx, "ana"); !IsAuthError(err) {
		t.Fatalf("Watchlist error = %v, want auth error", err)
	}
	if fired.Load() != 1 {
		t.Fatalf("hook fired %d times, want 1", fired.Load())
	}
}

func TestClient_NetworkFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := NewClient(Options{BaseURL: base, RequestsPerSecond: 1000})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Trending(testContext(t))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if UserMessage(err) != "Could not reach the MovieVerse server." {
		t.Fatalf("UserMessage = %q", UserMessage(err))
	}
}

func TestClient_TimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL, RequestsPerSecond: 1000, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.TinderMovies(testContext(t))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusBadGateway, nil)
	}))
	ctx := testContext(t)
	for i := 0; i < breakerTrips+2; i++ {
		if _, err := c.Trending(ctx); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: error = %v, want ErrUnavailable", i, err)
		}
	}
	if got := hits.Load(); got != breakerTrips {
		t.Fatalf("server hits = %d, want %d", got, breakerTrips)
	}
}

func TestAddToWatchlist_DuplicateIsSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/watchlist/add/" {
			http.NotFound(w, r)
			return
		}
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "movie_id": 4, "title": "Heat"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Movie already in watchlist"})
	}))
	ctx := testContext(t)

	first, err := c.AddToWatchlist(ctx, "ana", 4)
	if err != nil {
		t.Fatalf("first add returned error: %v", err)
	}
	if first.AlreadyPresent || first.Entry.ID != 11 || first.Entry.MovieID != 4 {
		t.Fatalf("first add = %#v", first)
	}

	second, err := c.AddToWatchlist(ctx, "ana", 4)
	if err != nil {
		t.Fatalf("second add returned error: %v", err)
	}
	if !second.AlreadyPresent {
		t.Fatalf("second add = %#v, want AlreadyPresent", second)
	}
}

func TestSearch_EscapesQueryAndTreats404AsEmpty(t *testing.T) {
	t.Parallel()

	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		if r.URL.Path == "/api/searchMovie/nothing/" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No movies found"})
			return
		}
		writeJSON(w, http.StatusOK, []MovieSummary{{ID: 1, Title: "AC/DC Live"}})
	}))
	ctx := testContext(t)

	movies, err := c.Search(ctx, "ac/dc live")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("Search returned %d movies, want 1", len(movies))
	}
	if gotPath != "/api/searchMovie/ac%2Fdc%20live/" {
		t.Fatalf("path = %q", gotPath)
	}

	movies, err = c.Search(ctx, "nothing")
	if err != nil || movies != nil {
		t.Fatalf("Search(nothing) = %v, %v; want nil, nil", movies, err)
	}
}

func TestRating_RescalesAndRate_Rounds(t *testing.T) {
	t.Parallel()

	var posted map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/getRatings/ana/9/":
			writeJSON(w, http.StatusOK, map[string]float64{"rating": 1.75})
		case "/api/addRatings/":
			_ = json.NewDecoder(r.Body).Decode(&posted)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Rating added successfully"})
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := testContext(t)

	got, err := c.Rating(ctx, "ana", 9)
	if err != nil {
		t.Fatalf("Rating returned error: %v", err)
	}
	if got != 3.5 {
		t.Fatalf("Rating = %v, want 3.5", got)
	}

	if err := c.Rate(ctx, "ana", 9, 4.3); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if posted["rating"] != 4.5 || posted["movie_id"] != float64(9) {
		t.Fatalf("posted = %#v", posted)
	}
	if err := c.Rate(ctx, "ana", 9, 6); err == nil {
		t.Fatal("expected range error")
	}
}

func TestRegister_ValidatesLocallyAndSurfacesFieldErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
	}))
	ctx := testContext(t)

	err := c.Register(ctx, RegisterRequest{Username: "an", Email: "bad", Password: "short"})
	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("error = %v, want FieldErrors", err)
	}
	for _, name := range []string{"username", "email", "password"} {
		if fields.Field(name) == "" {
			t.Fatalf("missing local error for %s: %v", name, fields)
		}
	}
	if calls.Load() != 0 {
		t.Fatal("invalid form reached the backend")
	}

	err = c.Register(ctx, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "longenough"})
	if !errors.As(err, &fields) {
		t.Fatalf("error = %v, want FieldErrors", err)
	}
	if got := fields.Field("username"); got != "A user with that username already exists." {
		t.Fatalf("username error = %q", got)
	}
}
