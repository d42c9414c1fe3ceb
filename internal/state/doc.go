// Package state provides the session-lifetime entity caches for reel.
//
// # Overview
//
// Two caches survive navigation between views so that returning to a page
// renders from memory instead of refetching:
//
//   - Browse: the trending and top picks lists shown on the home view
//   - SwipeDeck: the swipe candidate queue and the cursor into it
//
// Both are constructed once in app.Run with the fetch function they load
// through, and handed to the UI by pointer.
//
// # Fetch Lifecycle
//
// Each cache moves through explicit phases:
//
//	EMPTY ──Ensure──→ FETCHING ──ok──→ READY
//	                     │
//	                     └──err──→ FAILED ──Ensure──→ FETCHING
//
// The deck adds EXHAUSTED when the cursor equals the queue length:
//
//	READY(cursor) ──Swipe…──→ EXHAUSTED ──Refill──→ FETCHING ──→ READY(0)
//
// Ensure is a no-op once a cache holds data. Only Clear empties it; there is
// no time-based expiry.
//
// # In-Flight Coalescing
//
// Concurrent Ensure or Refill calls on the same cache share a single fetch
// through singleflight. The shared fetch runs on a context detached from the
// callers, so a view that is left before the response arrives stops waiting
// but the cache is still populated:
//
//	err := browse.Ensure(ctx) // ctx canceled: returns ctx.Err()
//	                          // fetch keeps running and writes on success
//
// Clear bumps a generation counter. A fetch that started before Clear
// returns ErrStale and discards its data instead of repopulating a cache that
// belongs to a signed-out user.
//
// # Deduplication
//
// Every population passes through Dedup keyed by movie ID. The first
// occurrence wins and arrival order is kept:
//
//	ids [1 2 2 3 1] → [1 2 3]
//
// # Concurrency Model
//
// Caches use a readers-writer lock held only while copying. Snapshots
// return cloned slices, so a view may keep one across renders without
// racing later writes. No lock is held during network I/O.
//
// # Cursor Bound
//
// The deck cursor always satisfies 0 <= cursor <= len(items). Advance
// rejects anything else with ErrCursorOutOfRange, and SetDeck clamps the
// cursor when the new queue is shorter.
package state
