package movieverse

import (
	"bytes"
	"html"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
)

const (
	posterBaseURL = "https://image.tmdb.org/t/p/original/"
	releaseLayout = "2006-01-02"
)

// ID is a backend identifier. The backend emits numbers for local records and
// strings for some TMDB fallbacks, so both decode.
type ID int64

// UnmarshalJSON accepts 42 and "42".
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*id = ID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Genres holds genre labels. The generic serializer returns primary keys,
// the hand-written views return names; both decode to strings.
type Genres []string

// UnmarshalJSON accepts ["Drama"] and [18].
func (g *Genres) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Genres, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || bytes.Equal(item, []byte("null")) {
			continue
		}
		if item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return err
			}
			out = append(out, s)
			continue
		}
		out = append(out, string(item))
	}
	*g = out
	return nil
}

// User is the identity returned by /api/auth/me/.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

// MovieSummary is the list shape used by trending, top picks, search and
// mood recommendations.
type MovieSummary struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	PosterURL   string `json:"poster_url"`
	Description string `json:"description"`
	Genres      Genres `json:"genres"`
}

// Poster returns an absolute poster URL.
func (m MovieSummary) Poster() string {
	return ResolvePoster(m.PosterURL)
}

// Movie is the full record from /api/fetchMovieInfo/{id}/.
type Movie struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Info        string  `json:"movie_info"`
	Director    string  `json:"director"`
	Star1       string  `json:"star1"`
	Star2       string  `json:"star2"`
	PosterURL   string  `json:"poster_url"`
	ReleaseDate string  `json:"release_date"`
	IMDbRating  float64 `json:"imdb_rating"`
	OurRating   float64 `json:"our_rating"`
	Genres      Genres  `json:"genres"`
}

// Stars returns the non-empty leading actors.
func (m Movie) Stars() []string {
	var out []string
	for _, s := range []string{m.Star1, m.Star2} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Year returns the release year or 0 when unknown.
func (m Movie) Year() int {
	t, err := time.Parse(releaseLayout, strings.TrimSpace(m.ReleaseDate))
	if err != nil {
		return 0
	}
	return t.Year()
}

// DeckMovie is a swipe-deck candidate from /api/TinderMovies/.
type DeckMovie struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Year        int     `json:"year"`
	Genre       string  `json:"genre"`
	Director    string  `json:"director"`
	Description string  `json:"description"`
	IMDbRating  float64 `json:"imdb_rating"`
	PosterURL   string  `json:"poster_url"`
	CreatedAt   string  `json:"created_at"`
}

// WatchlistEntry is one row of a user's watchlist. ID identifies the entry,
// MovieID the movie.
type WatchlistEntry struct {
	ID          ID     `json:"id"`
	MovieID     ID     `json:"movie_id"`
	Title       string `json:"title"`
	AddedOn     string `json:"added_on"`
	Description string `json:"description"`
	PosterURL   string `json:"poster_url"`
	Genres      Genres `json:"genres"`
	Message     string `json:"message,omitempty"`
}

// AddResult reports the outcome of a watchlist add.
type AddResult struct {
	Entry          WatchlistEntry
	AlreadyPresent bool
}

// MoodResult is the /ai/recommend/ response.
type MoodResult struct {
	Genre           string         `json:"genre"`
	Recommendations []MovieSummary `json:"recommendations"`
}

// TopPicksResponse is the ratings-based recommendation payload. Info and
// Error are set when the backend fell back to random picks.
type TopPicksResponse struct {
	Info            string         `json:"info"`
	Error           string         `json:"error"`
	Recommendations []MovieSummary `json:"recommendations"`
}

// RegisterRequest is the signup form body.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// MaxRating is the top of the display scale.
const MaxRating = 5.0

// DisplayRating converts the backend's 0-2.5 rating to the 0-5 display scale.
func DisplayRating(backend float64) float64 {
	r := backend * 2
	if r < 0 {
		return 0
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// ResolvePoster prefixes relative TMDB paths with the image CDN.
func ResolvePoster(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return posterBaseURL + strings.TrimPrefix(path, "/")
}

var textPolicy = bluemonday.StrictPolicy()

// PlainText strips markup from backend-provided prose.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
