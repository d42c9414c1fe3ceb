package state

import (
	"context"
	"strings"

	"github.com/five82/reel/internal/movieverse"
)

// BrowseSource is the part of the API client the home lists load from.
type BrowseSource interface {
	Trending(ctx context.Context) ([]movieverse.MovieSummary, error)
	TopPicks(ctx context.Context, username string) (movieverse.TopPicksResponse, error)
}

// DeckSource is the part of the API client the swipe deck loads from.
type DeckSource interface {
	TinderMovies(ctx context.Context) ([]movieverse.DeckMovie, error)
}

var (
	_ BrowseSource = (*movieverse.Client)(nil)
	_ DeckSource   = (*movieverse.Client)(nil)
)

// BrowseFrom fetches trending and then the top picks of the user named by
// username at call time. Trending is required; without a user the
// personalized half fails with ErrNoUser.
func BrowseFrom(src BrowseSource, username func() string) BrowseFetcher {
	return func(ctx context.Context) (BrowseData, error) {
		trending, err := src.Trending(ctx)
		if err != nil {
			return BrowseData{}, err
		}
		name := strings.TrimSpace(username())
		if name == "" {
			return BrowseData{}, ErrNoUser
		}
		picks, err := src.TopPicks(ctx, name)
		if err != nil {
			return BrowseData{}, err
		}
		notice := picks.Info
		if notice == "" {
			notice = picks.Error
		}
		return BrowseData{Trending: trending, TopPicks: picks.Recommendations, Notice: notice}, nil
	}
}

// DeckFrom fetches swipe candidates from src.
func DeckFrom(src DeckSource) DeckFetcher {
	return src.TinderMovies
}
