package movieverse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	pathTrending    = "api/Trending/"
	pathFromRatings = "api/recommendations/from-ratings/"
	pathSearch      = "api/searchMovie/"
	pathTinder      = "api/TinderMovies/"
	pathMovieInfo   = "api/fetchMovieInfo/"
	pathPoster      = "api/getMoviePoster/"
	pathMood        = "ai/recommend/"
)

// segment builds prefix + escaped(value) + "/".
func segment(prefix, value string) *url.URL {
	return &url.URL{
		Path:    prefix + value + "/",
		RawPath: prefix + url.PathEscape(value) + "/",
	}
}

// Trending returns the current trending list.
func (c *Client) Trending(ctx context.Context) ([]MovieSummary, error) {
	var movies []MovieSummary
	if err := c.get(ctx, pathTrending, nil, &movies); err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	return movies, nil
}

// TopPicks returns recommendations derived from username's ratings. The
// backend falls back to random picks and says so in Info or Error.
func (c *Client) TopPicks(ctx context.Context, username string) (TopPicksResponse, error) {
	var resp TopPicksResponse
	if err := c.get(ctx, pathFromRatings, url.Values{"username": {username}}, &resp); err != nil {
		return TopPicksResponse{}, fmt.Errorf("fetch top picks: %w", err)
	}
	return resp, nil
}

// Search finds movies by title. No match is an empty result, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	var movies []MovieSummary
	err := c.do(ctx, call{method: http.MethodGet, rel: segment(pathSearch, query)}, &movies)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return movies, nil
}

// TinderMovies returns a fresh batch of swipe candidates.
func (c *Client) TinderMovies(ctx context.Context) ([]DeckMovie, error) {
	var movies []DeckMovie
	if err := c.get(ctx, pathTinder, nil, &movies); err != nil {
		return nil, fmt.Errorf("fetch swipe deck: %w", err)
	}
	return movies, nil
}

// MovieInfo returns the full record for id.
func (c *Client) MovieInfo(ctx context.Context, id ID) (Movie, error) {
	var movie Movie
	if err := c.do(ctx, call{method: http.MethodGet, rel: segment(pathMovieInfo, id.String())}, &movie); err != nil {
		return Movie{}, fmt.Errorf("fetch movie %s: %w", id, err)
	}
	return movie, nil
}

// Poster looks up a poster by title and returns an absolute URL.
func (c *Client) Poster(ctx context.Context, title string) (string, error) {
	var resp struct {
		PosterURL string `json:"poster_url"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, rel: segment(pathPoster, strings.TrimSpace(title))}, &resp); err != nil {
		return "", fmt.Errorf("fetch poster %q: %w", title, err)
	}
	return ResolvePoster(resp.PosterURL), nil
}

// Mood maps free text to a genre and its recommendations.
func (c *Client) Mood(ctx context.Context, mood string) (MoodResult, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return MoodResult{}, fmt.Errorf("mood is required")
	}
	var result MoodResult
	if err := c.post(ctx, pathMood, map[string]string{"mood": mood}, &result); err != nil {
		return MoodResult{}, fmt.Errorf("recommend for mood: %w", err)
	}
	return result, nil
}
