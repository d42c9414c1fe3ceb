package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/logtail"
	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/session"
	"github.com/five82/reel/internal/state"
)

const (
	logRefreshInterval = 2 * time.Second
	logTailLines       = 400
)

// Messages. Fetch results carry the mount they were issued from; a result
// for a view that has since been left is dropped after the store took it.

type sessionExpiredMsg struct{}

type loginMsg struct {
	ok       bool
	username string
	err      error
}

type logoutMsg struct{}

type registerMsg struct {
	username string
	err      error
}

type availabilityMsg struct {
	username  string
	available bool
	err       error
}

type resetStepMsg struct {
	step int
	err  error
}

type browseMsg struct {
	mount int
	err   error
}

type deckMsg struct {
	mount  int
	refill bool
	err    error
}

type swipeMsg struct {
	result state.SwipeResult
	err    error
}

type searchMsg struct {
	mount  int
	query  string
	movies []movieverse.MovieSummary
	err    error
}

type moodMsg struct {
	mount  int
	mood   string
	result movieverse.MoodResult
	err    error
}

type watchlistMsg struct {
	mount   int
	entries []movieverse.WatchlistEntry
	err     error
}

type removeMsg struct {
	title string
	err   error
}

type detailMsg struct {
	id    movieverse.ID
	movie movieverse.Movie
	err   error
}

type ratingMsg struct {
	id     movieverse.ID
	rating float64
	err    error
}

type rateMsg struct {
	id     movieverse.ID
	rating float64
	err    error
}

type addMsg struct {
	id     movieverse.ID
	result movieverse.AddResult
	err    error
}

type emailMsg struct {
	mount int
	email string
	err   error
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

type logTickMsg time.Time

// Commands

func loginCmd(ctx context.Context, sess *session.Store, username, password string) tea.Cmd {
	return func() tea.Msg {
		ok := sess.Login(ctx, username, password)
		return loginMsg{ok: ok, username: username, err: sess.Snapshot().LastError}
	}
}

func logoutCmd(ctx context.Context, sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		sess.Logout(ctx)
		return logoutMsg{}
	}
}

func registerCmd(ctx context.Context, sess *session.Store, req movieverse.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		return registerMsg{username: req.Username, err: sess.Register(ctx, req)}
	}
}

func availabilityCmd(ctx context.Context, sess *session.Store, username string) tea.Cmd {
	return func() tea.Msg {
		ok, err := sess.UsernameAvailable(ctx, username)
		return availabilityMsg{username: username, available: ok, err: err}
	}
}

func resetStepCmd(step int, run func() error) tea.Cmd {
	return func() tea.Msg {
		return resetStepMsg{step: step, err: run()}
	}
}

func ensureBrowseCmd(ctx context.Context, browse *state.Browse, mount int, force bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if force {
			err = browse.Refresh(ctx)
		} else {
			err = browse.Ensure(ctx)
		}
		return browseMsg{mount: mount, err: err}
	}
}

func ensureDeckCmd(ctx context.Context, deck *state.SwipeDeck, mount int, refill bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if refill {
			err = deck.Refill(ctx)
		} else {
			err = deck.Ensure(ctx)
		}
		return deckMsg{mount: mount, refill: refill, err: err}
	}
}

func swipeCmd(ctx context.Context, deck *state.SwipeDeck, dir state.Direction, like state.LikeFunc) tea.Cmd {
	return func() tea.Msg {
		res, err := deck.Swipe(ctx, dir, like)
		return swipeMsg{result: res, err: err}
	}
}

func searchCmd(ctx context.Context, client *movieverse.Client, mount int, query string) tea.Cmd {
	return func() tea.Msg {
		movies, err := client.Search(ctx, query)
		return searchMsg{mount: mount, query: query, movies: movies, err: err}
	}
}

func moodCmd(ctx context.Context, client *movieverse.Client, mount int, mood string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Mood(ctx, mood)
		return moodMsg{mount: mount, mood: mood, result: res, err: err}
	}
}

func watchlistCmd(ctx context.Context, client *movieverse.Client, mount int, username string) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.Watchlist(ctx, username)
		return watchlistMsg{mount: mount, entries: entries, err: err}
	}
}

func removeCmd(ctx context.Context, client *movieverse.Client, username string, entry movieverse.WatchlistEntry) tea.Cmd {
	return func() tea.Msg {
		err := client.RemoveFromWatchlist(ctx, username, entry.ID)
		return removeMsg{title: entry.Title, err: err}
	}
}

func detailCmd(ctx context.Context, client *movieverse.Client, id movieverse.ID) tea.Cmd {
	return func() tea.Msg {
		movie, err := client.MovieInfo(ctx, id)
		return detailMsg{id: id, movie: movie, err: err}
	}
}

func ratingCmd(ctx context.Context, client *movieverse.Client, username string, id movieverse.ID) tea.Cmd {
	return func() tea.Msg {
		rating, err := client.Rating(ctx, username, id)
		return ratingMsg{id: id, rating: rating, err: err}
	}
}

func rateCmd(ctx context.Context, client *movieverse.Client, username string, id movieverse.ID, rating float64) tea.Cmd {
	return func() tea.Msg {
		err := client.Rate(ctx, username, id, rating)
		return rateMsg{id: id, rating: rating, err: err}
	}
}

func addCmd(ctx context.Context, client *movieverse.Client, username string, id movieverse.ID) tea.Cmd {
	return func() tea.Msg {
		res, err := client.AddToWatchlist(ctx, username, id)
		return addMsg{id: id, result: res, err: err}
	}
}

func emailCmd(ctx context.Context, sess *session.Store, mount int) tea.Cmd {
	return func() tea.Msg {
		email, err := sess.Email(ctx)
		return emailMsg{mount: mount, email: email, err: err}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logsMsg{entries: logtail.ParseLines(lines), err: err}
	}
}

func logTickCmd() tea.Cmd {
	return tea.Tick(logRefreshInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}
