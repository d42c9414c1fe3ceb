package movieverse

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
)

const (
	pathWatchlist       = "api/watchlist/"
	pathWatchlistAdd    = "api/watchlist/add/"
	pathWatchlistRemove = "api/watchlist/remove/"
	pathGetRatings      = "api/getRatings/"
	pathAddRatings      = "api/addRatings/"
)

type watchlistBody struct {
	Username string `json:"username"`
	MovieID  ID     `json:"movie_id,omitempty"`
}

// Watchlist returns username's saved movies.
func (c *Client) Watchlist(ctx context.Context, username string) ([]WatchlistEntry, error) {
	var entries []WatchlistEntry
	if err := c.post(ctx, pathWatchlist, watchlistBody{Username: username}, &entries); err != nil {
		return nil, fmt.Errorf("fetch watchlist: %w", err)
	}
	return entries, nil
}

// AddToWatchlist saves movieID for username. A movie that is already saved
// is reported through AlreadyPresent, not as an error.
func (c *Client) AddToWatchlist(ctx context.Context, username string, movieID ID) (AddResult, error) {
	var entry WatchlistEntry
	err := c.post(ctx, pathWatchlistAdd, watchlistBody{Username: username, MovieID: movieID}, &entry)
	if IsAlreadyInWatchlist(err) {
		return AddResult{Entry: WatchlistEntry{MovieID: movieID}, AlreadyPresent: true}, nil
	}
	if err != nil {
		return AddResult{}, fmt.Errorf("add movie %s to watchlist: %w", movieID, err)
	}
	if strings.EqualFold(strings.TrimSpace(entry.Message), alreadyInWatchlistMessage) {
		return AddResult{Entry: WatchlistEntry{MovieID: movieID}, AlreadyPresent: true}, nil
	}
	if entry.MovieID == 0 {
		entry.MovieID = movieID
	}
	return AddResult{Entry: entry}, nil
}

// RemoveFromWatchlist deletes the entry with entryID. entryID is the
// watchlist row, not the movie.
func (c *Client) RemoveFromWatchlist(ctx context.Context, username string, entryID ID) error {
	rel := segment(pathWatchlistRemove, entryID.String())
	if err := c.do(ctx, call{method: http.MethodPost, rel: rel, body: watchlistBody{Username: username}}, nil); err != nil {
		return fmt.Errorf("remove watchlist entry %s: %w", entryID, err)
	}
	return nil
}

// Rating returns username's rating of movieID on the 0-5 display scale.
// Zero means unrated.
func (c *Client) Rating(ctx context.Context, username string, movieID ID) (float64, error) {
	var resp struct {
		Rating float64 `json:"rating"`
	}
	rel := &url.URL{
		Path:    pathGetRatings + username + "/" + movieID.String() + "/",
		RawPath: pathGetRatings + url.PathEscape(username) + "/" + movieID.String() + "/",
	}
	if err := c.do(ctx, call{method: http.MethodGet, rel: rel}, &resp); err != nil {
		return 0, fmt.Errorf("fetch rating for movie %s: %w", movieID, err)
	}
	return DisplayRating(resp.Rating), nil
}

// Rate stores a 0-5 rating. Values are rounded to the nearest half star.
func (c *Client) Rate(ctx context.Context, username string, movieID ID, rating float64) error {
	if rating < 0 || rating > MaxRating {
		return fmt.Errorf("rating %.1f out of range 0-%.0f", rating, MaxRating)
	}
	body := struct {
		Username string  `json:"username"`
		MovieID  ID      `json:"movie_id"`
		Rating   float64 `json:"rating"`
	}{username, movieID, math.Round(rating*2) / 2}
	if err := c.post(ctx, pathAddRatings, body, nil); err != nil {
		return fmt.Errorf("rate movie %s: %w", movieID, err)
	}
	return nil
}
