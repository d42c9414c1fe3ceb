package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/session"
	"github.com/five82/reel/internal/state"
)

func TestWire_ExpiryClearsCaches(t *testing.T) {
	var expired atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "username": "ana"})
	})
	mux.HandleFunc("/api/Trending/", func(w http.ResponseWriter, r *http.Request) {
		if expired.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "title": "Heat"}})
	})
	mux.HandleFunc("/api/recommendations/from-ratings/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"recommendations": []map[string]any{{"id": 2, "title": "Alien"}}})
	})
	mux.HandleFunc("/api/TinderMovies/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 3, "title": "Up"}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := movieverse.NewClient(movieverse.Options{BaseURL: server.URL, RequestsPerSecond: 1000, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	sess := session.New(client, zerolog.Nop())
	browse := state.NewBrowse(state.BrowseFrom(client, sess.Username))
	deck := state.NewSwipeDeck(state.DeckFrom(client))
	wire(client, sess, browse, deck)

	ctx := context.Background()
	if !sess.Probe(ctx) {
		t.Fatal("Probe returned false")
	}
	if err := browse.Ensure(ctx); err != nil {
		t.Fatalf("browse.Ensure returned error: %v", err)
	}
	if err := deck.Ensure(ctx); err != nil {
		t.Fatalf("deck.Ensure returned error: %v", err)
	}

	expired.Store(true)
	// The 401 clears the cache mid-fetch, so the refresh reports ErrStale.
	if err := browse.Refresh(ctx); !errors.Is(err, state.ErrStale) {
		t.Fatalf("Refresh err = %v, want ErrStale", err)
	}
	if sess.LoggedIn() {
		t.Fatal("session should be expired")
	}
	if browse.Phase() != state.PhaseEmpty || deck.Phase() != state.PhaseEmpty {
		t.Fatalf("phases after expiry = %v/%v, want empty/empty", browse.Phase(), deck.Phase())
	}
}
