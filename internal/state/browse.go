package state

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/reel/internal/movieverse"
)

// ErrNoUser is the partial-data failure raised when top picks cannot be
// requested because no username is available. It is not an auth failure.
var ErrNoUser = errors.New("no user for personalized picks")

// BrowseData is one successful home fetch.
type BrowseData struct {
	Trending []movieverse.MovieSummary
	TopPicks []movieverse.MovieSummary
	// Notice carries the backend's fallback explanation for top picks.
	Notice string
}

// BrowseFetcher loads the home lists.
type BrowseFetcher func(ctx context.Context) (BrowseData, error)

// BrowseSnapshot is a copy of the browse cache.
type BrowseSnapshot struct {
	Trending  []movieverse.MovieSummary
	TopPicks  []movieverse.MovieSummary
	Notice    string
	Populated bool
	Phase     Phase
	LastError error
}

// Fresh reports whether consumers may render without fetching.
func (s BrowseSnapshot) Fresh() bool {
	return s.Populated && (len(s.Trending) > 0 || len(s.TopPicks) > 0)
}

// Browse caches the trending and top picks lists for the session.
type Browse struct {
	fetch  BrowseFetcher
	flight flight

	mu        sync.RWMutex
	trending  []movieverse.MovieSummary
	topPicks  []movieverse.MovieSummary
	notice    string
	populated bool
	fetching  bool
	lastErr   error
	gen       uint64
}

// NewBrowse returns an empty cache that loads through fetch.
func NewBrowse(fetch BrowseFetcher) *Browse {
	return &Browse{fetch: fetch}
}

func summaryKey(m movieverse.MovieSummary) movieverse.ID { return m.ID }

// Trending returns the cached trending list.
func (b *Browse) Trending() []movieverse.MovieSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clone(b.trending)
}

// TopPicks returns the cached personalized list.
func (b *Browse) TopPicks() []movieverse.MovieSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clone(b.topPicks)
}

// SetTrending replaces the trending list and marks the cache populated.
func (b *Browse) SetTrending(items []movieverse.MovieSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trending = Dedup(items, summaryKey)
	b.populated = true
}

// SetTopPicks replaces the top picks list and marks the cache populated.
func (b *Browse) SetTopPicks(items []movieverse.MovieSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topPicks = Dedup(items, summaryKey)
	b.populated = true
}

// Populated reports whether any successful population happened since the
// last Clear.
func (b *Browse) Populated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.populated
}

// Fresh reports whether the cache can be rendered without a fetch.
func (b *Browse) Fresh() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.freshLocked()
}

func (b *Browse) freshLocked() bool {
	return b.populated && (len(b.trending) > 0 || len(b.topPicks) > 0)
}

// Clear empties both lists. An in-flight fetch started before Clear will
// not write.
func (b *Browse) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trending = nil
	b.topPicks = nil
	b.notice = ""
	b.populated = false
	b.fetching = false
	b.lastErr = nil
	b.gen++
}

// Snapshot returns a copy of the cache.
func (b *Browse) Snapshot() BrowseSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BrowseSnapshot{
		Trending:  clone(b.trending),
		TopPicks:  clone(b.topPicks),
		Notice:    b.notice,
		Populated: b.populated,
		Phase:     b.phaseLocked(),
		LastError: b.lastErr,
	}
}

// Phase returns the fetch lifecycle state.
func (b *Browse) Phase() Phase {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.phaseLocked()
}

func (b *Browse) phaseLocked() Phase {
	switch {
	case b.fetching:
		return PhaseFetching
	case b.populated:
		return PhaseReady
	case b.lastErr != nil:
		return PhaseFailed
	}
	return PhaseEmpty
}

// Ensure fetches unless the cache is fresh. Concurrent callers share one
// fetch. A caller whose ctx ends stops waiting; the fetch still completes
// and populates the cache.
func (b *Browse) Ensure(ctx context.Context) error {
	if b.Fresh() {
		return nil
	}
	return b.load(ctx, false)
}

// Refresh fetches regardless of freshness.
func (b *Browse) Refresh(ctx context.Context) error {
	return b.load(ctx, true)
}

// load runs the fetch through the flight. Unless force is set, freshness
// is checked again inside the flight since an earlier flight may have
// filled the cache after the caller looked.
func (b *Browse) load(ctx context.Context, force bool) error {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()

	return b.flight.run(ctx, gen, force, func(ctx context.Context) error {
		b.mu.Lock()
		if b.gen != gen {
			b.mu.Unlock()
			return ErrStale
		}
		if !force && b.freshLocked() {
			b.mu.Unlock()
			return nil
		}
		b.fetching = true
		b.mu.Unlock()

		data, err := b.fetch(ctx)

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen != gen {
			return ErrStale
		}
		b.fetching = false
		if err != nil {
			b.lastErr = err
			return err
		}
		b.trending = Dedup(data.Trending, summaryKey)
		b.topPicks = Dedup(data.TopPicks, summaryKey)
		b.notice = data.Notice
		b.populated = true
		b.lastErr = nil
		return nil
	})
}
