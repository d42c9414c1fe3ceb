package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/nav"
)

type detailState struct {
	id      movieverse.ID
	movie   *movieverse.Movie
	loading bool
	err     error

	rating float64 // 0-5, 0 is unrated
	saving bool
	adding bool
	note   string
	bad    bool
}

// enterDetail loads the movie and the user's rating together. Returning to
// the movie already shown keeps it.
func (m *Model) enterDetail(id movieverse.ID) tea.Cmd {
	d := &m.detail
	if id == d.id && d.movie != nil {
		return nil
	}
	*d = detailState{id: id, loading: true}
	username := m.username()
	return tea.Batch(
		detailCmd(m.ctx, m.client, id),
		ratingCmd(m.ctx, m.client, username, id),
	)
}

func (m *Model) onDetail(msg detailMsg) {
	d := &m.detail
	if msg.id != d.id {
		return
	}
	d.loading = false
	d.err = viewError(msg.err)
	if msg.err == nil {
		movie := msg.movie
		d.movie = &movie
	}
}

func (m *Model) onRating(msg ratingMsg) {
	if msg.id != m.detail.id || msg.err != nil {
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Str("movie", msg.id.String()).Msg("rating fetch failed")
		}
		return
	}
	m.detail.rating = msg.rating
}

func (m *Model) onRate(msg rateMsg) {
	d := &m.detail
	if msg.id != d.id {
		return
	}
	d.saving = false
	if msg.err != nil {
		if !movieverse.IsAuthError(msg.err) {
			d.note, d.bad = "Rating not saved: "+movieverse.UserMessage(msg.err), true
		}
		return
	}
	d.rating = msg.rating
	d.note, d.bad = "Rated "+formatRating(msg.rating)+" of 5.", false
}

func (m *Model) onAdd(msg addMsg) {
	d := &m.detail
	if msg.id != d.id {
		return
	}
	d.adding = false
	switch {
	case msg.err != nil && movieverse.IsAuthError(msg.err):
	case msg.err != nil:
		d.note, d.bad = "Could not add: "+movieverse.UserMessage(msg.err), true
	case msg.result.AlreadyPresent:
		d.note, d.bad = "Already in your watchlist.", false
	default:
		d.note, d.bad = "Added to your watchlist.", false
	}
}

func (m *Model) detailKey(msg tea.KeyMsg) tea.Cmd {
	d := &m.detail
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	case key.Matches(msg, m.keys.Refresh):
		id := d.id
		d.movie = nil
		return m.enterDetail(id)
	}
	if d.movie == nil {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.AddWatchlist):
		if d.adding {
			return nil
		}
		d.adding = true
		d.note = ""
		return addCmd(m.ctx, m.client, m.username(), d.id)
	case key.Matches(msg, m.keys.Rate):
		n, err := strconv.Atoi(msg.String())
		if err != nil {
			return nil
		}
		return m.rate(float64(n))
	case key.Matches(msg, m.keys.RateUp):
		return m.rate(d.rating + 0.5)
	case key.Matches(msg, m.keys.RateDown):
		return m.rate(d.rating - 0.5)
	}
	return nil
}

func (m *Model) rate(rating float64) tea.Cmd {
	d := &m.detail
	rating = math.Max(0, math.Min(movieverse.MaxRating, rating))
	if d.saving || rating == d.rating {
		return nil
	}
	d.saving = true
	d.note = ""
	return rateCmd(m.ctx, m.client, m.username(), d.id, rating)
}

// backLabel names where esc leads from the detail view.
func (m Model) backLabel() string {
	switch m.origin.(type) {
	case nav.FromHome:
		return "Home"
	case nav.FromSearch:
		return "Results"
	case nav.FromWatchlist:
		return "Watchlist"
	case nav.FromTinder:
		return "Deck"
	case nav.FromMoodResults:
		return "Mood picks"
	}
	return "Back"
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	d := m.detail

	if d.movie == nil {
		return m.renderStatus(d.loading, d.err, "Movie not available.", 0)
	}
	mv := d.movie

	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return bg.FillLine(bg.Render(padRight(label, 10), styles.MutedText)+bg.Render(truncate(value, width-10), styles.Text), width)
	}

	var lines []string
	add := func(s string) {
		if s != "" {
			lines = append(lines, s)
		}
	}

	year := ""
	if y := mv.Year(); y > 0 {
		year = strconv.Itoa(y)
	}
	add(row("Released", joinNonEmpty("  ", year, mv.ReleaseDate)))
	add(row("Genres", strings.Join(mv.Genres, ", ")))
	add(row("Director", mv.Director))
	add(row("Starring", strings.Join(mv.Stars(), ", ")))
	if mv.IMDbRating > 0 {
		add(row("IMDb", fmt.Sprintf("%.1f", mv.IMDbRating)))
	}
	if mv.OurRating > 0 {
		add(row("Community", fmt.Sprintf("%.1f / 10", mv.OurRating)))
	}
	add(row("Poster", truncateMiddle(movieverse.ResolvePoster(mv.PosterURL), width-10)))

	yours := "not rated"
	if d.rating > 0 {
		yours = formatRating(d.rating) + " / 5"
	}
	lines = append(lines, bg.FillLine(
		bg.Render(padRight("You", 10), styles.MutedText)+
			bg.Render(starBar(d.rating), styles.WarningText)+bg.Spaces(2)+
			bg.Render(yours, styles.FaintText), width))

	if info := movieverse.PlainText(mv.Info); info != "" {
		lines = append(lines, bg.FillLine("", width))
		lines = append(lines, styles.Text.Width(width).Render(info))
	}

	switch {
	case d.adding:
		lines = append(lines, bg.FillLine("", width), bg.FillLine(bg.Render("Adding...", styles.WarningText), width))
	case d.saving:
		lines = append(lines, bg.FillLine("", width), bg.FillLine(bg.Render("Saving rating...", styles.WarningText), width))
	case d.note != "":
		style := styles.SuccessText
		if d.bad {
			style = styles.DangerText
		}
		lines = append(lines, bg.FillLine("", width), bg.FillLine(bg.Render(d.note, style), width))
	}
	return strings.Join(lines, "\n")
}
