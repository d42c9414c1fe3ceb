package state

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Phase is the fetch lifecycle of a cache.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseFetching
	PhaseReady
	PhaseFailed
	// PhaseExhausted is a deck whose cursor reached its length.
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseFetching:
		return "fetching"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	case PhaseExhausted:
		return "exhausted"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// ErrStale is returned when a cache was cleared while its fetch was in
// flight. The fetched data is discarded.
var ErrStale = errors.New("cache cleared during fetch")

// flight coalesces concurrent fetches of one cache generation into a single
// call. Forced and fetch-once loads use separate keys so a forced load never
// joins a fetch-once call that found the cache already filled. The shared call runs detached from any caller's context so a caller
// that stops waiting does not abort the write.
type flight struct {
	group singleflight.Group
}

func (f *flight) run(ctx context.Context, gen uint64, force bool, fn func(context.Context) error) error {
	detached := context.WithoutCancel(ctx)
	key := strconv.FormatUint(gen, 10)
	if force {
		key += "/force"
	}
	ch := f.group.DoChan(key, func() (any, error) {
		return nil, fn(detached)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dedup drops items whose key was already seen, keeping the first
// occurrence and the original order.
func Dedup[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

func clone[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
