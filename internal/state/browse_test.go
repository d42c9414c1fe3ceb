package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/reel/internal/movieverse"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBrowseEnsure_FetchesOnce(t *testing.T) {
	var calls atomic.Int32
	b := NewBrowse(func(context.Context) (BrowseData, error) {
		calls.Add(1)
		return BrowseData{Trending: summaries(1, 2), TopPicks: summaries(3)}, nil
	})
	ctx := context.Background()

	if b.Phase() != PhaseEmpty {
		t.Fatalf("phase = %v, want empty", b.Phase())
	}
	// Two sequential mounts of the home view.
	for i := 0; i < 2; i++ {
		if err := b.Ensure(ctx); err != nil {
			t.Fatalf("Ensure #%d returned error: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("fetch calls = %d, want 1", calls.Load())
	}
	snap := b.Snapshot()
	if !snap.Fresh() || snap.Phase != PhaseReady {
		t.Fatalf("snapshot = %#v", snap)
	}

	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("fetch calls after Refresh = %d, want 2", calls.Load())
	}
}

func TestBrowseEnsure_EmptyResultIsNotFresh(t *testing.T) {
	var calls atomic.Int32
	b := NewBrowse(func(context.Context) (BrowseData, error) {
		calls.Add(1)
		return BrowseData{}, nil
	})
	_ = b.Ensure(context.Background())
	_ = b.Ensure(context.Background())
	if !b.Populated() || b.Fresh() {
		t.Fatalf("Populated = %v, Fresh = %v", b.Populated(), b.Fresh())
	}
	if calls.Load() != 2 {
		t.Fatalf("fetch calls = %d, want 2", calls.Load())
	}
}

func TestBrowseEnsure_CoalescesConcurrentCallers(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	b := NewBrowse(func(context.Context) (BrowseData, error) {
		calls.Add(1)
		<-release
		return BrowseData{Trending: summaries(1)}, nil
	})

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- b.Ensure(context.Background())
		}()
	}
	waitFor(t, func() bool { return b.Phase() == PhaseFetching })
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Ensure returned error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("fetch calls = %d, want 1", calls.Load())
	}
}

func TestBrowseEnsure_DepartedCallerStillPopulates(t *testing.T) {
	release := make(chan struct{})
	var fetchCtxErr error
	b := NewBrowse(func(ctx context.Context) (BrowseData, error) {
		<-release
		fetchCtxErr = ctx.Err()
		return BrowseData{Trending: summaries(7)}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Ensure(ctx) }()
	waitFor(t, func() bool { return b.Phase() == PhaseFetching })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Ensure error = %v, want context.Canceled", err)
	}
	close(release)
	waitFor(t, b.Fresh)
	if fetchCtxErr != nil {
		t.Fatalf("fetch saw canceled context: %v", fetchCtxErr)
	}
	if got := ids(b.Trending()); len(got) != 1 || got[0] != 7 {
		t.Fatalf("trending = %v", got)
	}
}

func TestBrowseClear_DiscardsInFlightFetch(t *testing.T) {
	release := make(chan struct{})
	b := NewBrowse(func(context.Context) (BrowseData, error) {
		<-release
		return BrowseData{Trending: summaries(1)}, nil
	})
	done := make(chan error, 1)
	go func() { done <- b.Ensure(context.Background()) }()
	waitFor(t, func() bool { return b.Phase() == PhaseFetching })

	b.Clear()
	close(release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("Ensure error = %v, want ErrStale", err)
	}
	if b.Populated() || len(b.Trending()) != 0 {
		t.Fatal("cleared cache was repopulated by a stale fetch")
	}
	if b.Phase() != PhaseEmpty {
		t.Fatalf("phase = %v, want empty", b.Phase())
	}
}

func TestBrowseEnsure_FailureIsRetryable(t *testing.T) {
	var calls atomic.Int32
	b := NewBrowse(func(context.Context) (BrowseData, error) {
		if calls.Add(1) == 1 {
			return BrowseData{}, ErrNoUser
		}
		return BrowseData{Trending: summaries(1), Notice: "random picks"}, nil
	})
	ctx := context.Background()

	if err := b.Ensure(ctx); !errors.Is(err, ErrNoUser) {
		t.Fatalf("Ensure error = %v, want ErrNoUser", err)
	}
	if movieverse.IsAuthError(b.Snapshot().LastError) {
		t.Fatal("partial-data failure must not look like an auth failure")
	}
	if b.Phase() != PhaseFailed || b.Populated() {
		t.Fatalf("phase = %v populated = %v", b.Phase(), b.Populated())
	}
	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	snap := b.Snapshot()
	if snap.Phase != PhaseReady || snap.Notice != "random picks" || snap.LastError != nil {
		t.Fatalf("snapshot = %#v", snap)
	}
}

func TestBrowseSnapshot_IsIndependentCopy(t *testing.T) {
	b := NewBrowse(nil)
	b.SetTrending(summaries(1, 2))
	snap := b.Snapshot()
	snap.Trending[0].ID = 999
	if b.Trending()[0].ID != 1 {
		t.Fatal("Snapshot should clone slices")
	}
}

func TestBrowseLoad_RechecksFreshnessInsideFlight(t *testing.T) {
	var calls atomic.Int32
	b := NewBrowse(func(context.Context) (BrowseData, error) {
		calls.Add(1)
		return BrowseData{Trending: summaries(1)}, nil
	})
	ctx := context.Background()
	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}

	// A caller that saw the cache empty before the first flight landed
	// reaches the flight only after it finished.
	if err := b.load(ctx, false); err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}

	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("fetch calls after Refresh = %d, want 2", got)
	}
}
