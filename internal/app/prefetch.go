package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/state"
)

// warmFunc fills one cache, typically Browse.Ensure or SwipeDeck.Ensure.
type warmFunc func(ctx context.Context) error

// StartPrefetch warms each cache once in the background so the first views
// render from memory. Fetches coalesce with any the UI starts, so a view
// that arrives mid-fetch gets the same result. A failure is not retried;
// the view shows it and the user retries with refresh. It returns
// immediately.
func StartPrefetch(ctx context.Context, log zerolog.Logger, warm ...warmFunc) {
	for i, fn := range warm {
		go prefetch(ctx, log.With().Int("cache", i).Logger(), fn)
	}
}

// prefetch makes a single attempt and logs the outcome.
func prefetch(ctx context.Context, log zerolog.Logger, fn warmFunc) error {
	err := fn(ctx)
	switch {
	case err == nil:
		log.Debug().Msg("cache warmed")
	case expected(err):
		log.Debug().Err(err).Msg("prefetch skipped")
	default:
		log.Warn().Err(err).Msg("prefetch failed")
	}
	return err
}

// expected reports errors that are part of normal operation rather than a
// backend problem.
func expected(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, state.ErrStale) ||
		errors.Is(err, state.ErrNoUser) ||
		movieverse.IsAuthError(err)
}
