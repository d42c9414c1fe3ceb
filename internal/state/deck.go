package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/five82/reel/internal/movieverse"
)

var (
	// ErrCursorOutOfRange is returned by Advance for i < 0 or i > len.
	ErrCursorOutOfRange = errors.New("deck cursor out of range")
	// ErrNoCard is returned by Swipe when there is no current card.
	ErrNoCard = errors.New("no card to swipe")
)

// Direction of a swipe.
type Direction int

const (
	SwipeLeft Direction = iota
	SwipeRight
)

func (d Direction) String() string {
	if d == SwipeRight {
		return "right"
	}
	return "left"
}

// DeckFetcher loads a fresh batch of swipe candidates.
type DeckFetcher func(ctx context.Context) ([]movieverse.DeckMovie, error)

// LikeFunc records a right swipe, usually as a watchlist add.
type LikeFunc func(ctx context.Context, movie movieverse.DeckMovie) error

// DeckSnapshot is a copy of the swipe deck.
type DeckSnapshot struct {
	Items     []movieverse.DeckMovie
	Cursor    int
	Populated bool
	Phase     Phase
	LastError error
}

// Current returns the card at the cursor.
func (s DeckSnapshot) Current() (movieverse.DeckMovie, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return movieverse.DeckMovie{}, false
	}
	return s.Items[s.Cursor], true
}

// Remaining counts cards from the cursor to the end.
func (s DeckSnapshot) Remaining() int {
	if s.Cursor >= len(s.Items) {
		return 0
	}
	return len(s.Items) - s.Cursor
}

// SwipeResult reports one consumption event.
type SwipeResult struct {
	Movie     movieverse.DeckMovie
	Direction Direction
	// LikeErr is the like callback's failure. The cursor advances anyway.
	LikeErr error
	// Exhausted is true when this swipe consumed the last card.
	Exhausted bool
}

// SwipeDeck caches the swipe queue and the position within it.
type SwipeDeck struct {
	fetch  DeckFetcher
	flight flight

	mu        sync.RWMutex
	items     []movieverse.DeckMovie
	cursor    int
	populated bool
	fetching  bool
	lastErr   error
	gen       uint64
}

// NewSwipeDeck returns an empty deck that loads through fetch.
func NewSwipeDeck(fetch DeckFetcher) *SwipeDeck {
	return &SwipeDeck{fetch: fetch}
}

func deckKey(m movieverse.DeckMovie) movieverse.ID { return m.ID }

// Deck returns the queue and cursor.
func (d *SwipeDeck) Deck() DeckSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DeckSnapshot{
		Items:     clone(d.items),
		Cursor:    d.cursor,
		Populated: d.populated,
		Phase:     d.phaseLocked(),
		LastError: d.lastErr,
	}
}

// SetDeck replaces the queue. The cursor is kept when still in range and
// clamped to the new length otherwise.
func (d *SwipeDeck) SetDeck(items []movieverse.DeckMovie) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = Dedup(items, deckKey)
	if d.cursor > len(d.items) {
		d.cursor = len(d.items)
	}
	d.populated = true
}

// Advance moves the cursor to i, where 0 <= i <= len.
func (d *SwipeDeck) Advance(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i > len(d.items) {
		return fmt.Errorf("advance to %d of %d: %w", i, len(d.items), ErrCursorOutOfRange)
	}
	d.cursor = i
	return nil
}

// Clear empties the queue and resets the cursor.
func (d *SwipeDeck) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = nil
	d.cursor = 0
	d.populated = false
	d.fetching = false
	d.lastErr = nil
	d.gen++
}

// Phase returns the deck lifecycle state.
func (d *SwipeDeck) Phase() Phase {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.phaseLocked()
}

func (d *SwipeDeck) phaseLocked() Phase {
	switch {
	case d.fetching:
		return PhaseFetching
	case d.populated && len(d.items) > 0 && d.cursor == len(d.items):
		return PhaseExhausted
	case d.populated:
		return PhaseReady
	case d.lastErr != nil:
		return PhaseFailed
	}
	return PhaseEmpty
}

// Ensure fetches unless the deck already holds cards.
func (d *SwipeDeck) Ensure(ctx context.Context) error {
	d.mu.RLock()
	fresh := d.freshLocked()
	d.mu.RUnlock()
	if fresh {
		return nil
	}
	return d.load(ctx, false)
}

func (d *SwipeDeck) freshLocked() bool {
	return d.populated && len(d.items) > 0
}

// Refill fetches a new batch and resets the cursor to 0. Concurrent refills
// share one fetch.
func (d *SwipeDeck) Refill(ctx context.Context) error {
	return d.load(ctx, true)
}

func (d *SwipeDeck) load(ctx context.Context, force bool) error {
	d.mu.Lock()
	gen := d.gen
	d.mu.Unlock()

	return d.flight.run(ctx, gen, force, func(ctx context.Context) error {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return ErrStale
		}
		if !force && d.freshLocked() {
			d.mu.Unlock()
			return nil
		}
		d.fetching = true
		d.mu.Unlock()

		items, err := d.fetch(ctx)

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen != gen {
			return ErrStale
		}
		d.fetching = false
		if err != nil {
			d.lastErr = err
			return err
		}
		d.items = Dedup(items, deckKey)
		d.cursor = 0
		d.populated = true
		d.lastErr = nil
		return nil
	})
}

// Swipe consumes the current card. A right swipe runs like first; its
// failure is reported but does not hold the cursor back. A duplicate
// watchlist add counts as success.
func (d *SwipeDeck) Swipe(ctx context.Context, dir Direction, like LikeFunc) (SwipeResult, error) {
	snap := d.Deck()
	movie, ok := snap.Current()
	if !ok {
		return SwipeResult{}, ErrNoCard
	}

	result := SwipeResult{Movie: movie, Direction: dir}
	if dir == SwipeRight && like != nil {
		if err := like(ctx, movie); err != nil && !movieverse.IsAlreadyInWatchlist(err) {
			result.LikeErr = err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	// The deck may have been refilled or cleared while like ran.
	if d.cursor != snap.Cursor || d.cursor >= len(d.items) || d.items[d.cursor].ID != movie.ID {
		return result, nil
	}
	d.cursor++
	result.Exhausted = d.cursor == len(d.items)
	return result, nil
}
