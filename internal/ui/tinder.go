package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/nav"
	"github.com/five82/reel/internal/state"
)

type tinderState struct {
	loading  bool
	swiping  bool
	err      error
	feedback string
	bad      bool
	liked    int
	skipped  int
}

func (m *Model) enterTinder(payload nav.Payload) tea.Cmd {
	t := &m.tinder
	t.err = nil
	t.swiping = false
	if m.deck == nil {
		return nil
	}
	if p, ok := payload.(nav.RestoreDeck); ok {
		if err := m.deck.Advance(p.Cursor); err != nil {
			m.log.Debug().Err(err).Int("cursor", p.Cursor).Msg("deck cursor not restored")
		}
	}
	switch m.deck.Phase() {
	case state.PhaseExhausted:
		t.loading = true
		return ensureDeckCmd(m.ctx, m.deck, m.mount, true)
	case state.PhaseReady:
		if _, ok := m.deck.Deck().Current(); ok {
			t.loading = false
			return nil
		}
	}
	t.loading = true
	return ensureDeckCmd(m.ctx, m.deck, m.mount, false)
}

func (m *Model) onDeck(msg deckMsg) tea.Cmd {
	if msg.mount != m.mount || m.router.Current().Route != nav.RouteTinder {
		return nil
	}
	t := &m.tinder
	t.loading = false
	if errors.Is(msg.err, state.ErrStale) {
		return nil
	}
	t.err = viewError(msg.err)
	if msg.err == nil && msg.refill {
		t.feedback = "Fresh cards dealt."
		t.bad = false
	}
	return nil
}

// likeFunc adds a right-swiped card to the signed-in user's watchlist.
func (m *Model) likeFunc() state.LikeFunc {
	client, username := m.client, m.username()
	return func(ctx context.Context, movie movieverse.DeckMovie) error {
		_, err := client.AddToWatchlist(ctx, username, movie.ID)
		return err
	}
}

func (m *Model) tinderKey(msg tea.KeyMsg) tea.Cmd {
	t := &m.tinder
	switch {
	case key.Matches(msg, m.keys.SwipeLeft), key.Matches(msg, m.keys.SwipeRight):
		if t.swiping || t.loading {
			return nil
		}
		if _, ok := m.deck.Deck().Current(); !ok {
			return nil
		}
		dir := state.SwipeLeft
		if key.Matches(msg, m.keys.SwipeRight) {
			dir = state.SwipeRight
		}
		t.swiping = true
		return swipeCmd(m.ctx, m.deck, dir, m.likeFunc())
	case key.Matches(msg, m.keys.Refresh):
		if t.loading {
			return nil
		}
		t.loading = true
		t.err = nil
		return ensureDeckCmd(m.ctx, m.deck, m.mount, true)
	case key.Matches(msg, m.keys.Confirm):
		snap := m.deck.Deck()
		card, ok := snap.Current()
		if !ok {
			return nil
		}
		return m.navigate(nav.RouteDetail, nav.Params{MovieID: card.ID}, nav.FromTinder{Offset: 0, Cursor: snap.Cursor})
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	}
	return nil
}

func (m *Model) onSwipe(msg swipeMsg) tea.Cmd {
	t := &m.tinder
	t.swiping = false
	if msg.err != nil {
		if !errors.Is(msg.err, state.ErrNoCard) {
			t.err = viewError(msg.err)
		}
		return nil
	}
	res := msg.result
	title := movieverse.PlainText(res.Movie.Title)
	switch {
	case res.LikeErr != nil && movieverse.IsAuthError(res.LikeErr):
		// The expiry redirect takes over.
	case res.LikeErr != nil:
		t.feedback = "Could not save " + title + ": " + movieverse.UserMessage(res.LikeErr)
		t.bad = true
	case res.Direction == state.SwipeRight:
		t.liked++
		t.feedback = "♥ " + title + " added to your watchlist"
		t.bad = false
	default:
		t.skipped++
		t.feedback = "Skipped " + title
		t.bad = false
	}
	if res.Exhausted && m.router.Current().Route == nav.RouteTinder {
		t.loading = true
		return ensureDeckCmd(m.ctx, m.deck, m.mount, true)
	}
	return nil
}

func (m Model) renderTinder() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	t := m.tinder

	var snap state.DeckSnapshot
	if m.deck != nil {
		snap = m.deck.Deck()
	}
	card, ok := snap.Current()

	var lines []string
	phase := bg.Render(" "+snap.Phase.String()+" ", styles.BadgeStyle(snap.Phase.String()))
	counts := fmt.Sprintf("%d left  ♥ %d  ✗ %d", snap.Remaining(), t.liked, t.skipped)
	lines = append(lines, bg.FillLine(phase+bg.Spaces(2)+bg.Render(counts, styles.MutedText), width))
	lines = append(lines, bg.FillLine("", width))

	switch {
	case t.loading && !ok:
		lines = append(lines, bg.FillLine(bg.Render(m.spinner.View()+" Dealing cards...", styles.WarningText), width))
	case t.err != nil && !ok:
		lines = append(lines, m.renderStatus(false, t.err, "", 0))
	case !ok:
		lines = append(lines, bg.FillLine(bg.Render("No cards right now. Press r to reload.", styles.MutedText), width))
	default:
		lines = append(lines, m.renderCard(card, width))
	}

	if t.feedback != "" {
		style := styles.SuccessText
		if t.bad {
			style = styles.DangerText
		}
		lines = append(lines, bg.FillLine("", width), bg.FillLine(bg.Render(truncate(t.feedback, width), style), width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCard(card movieverse.DeckMovie, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	cardWidth := min(width-2, 64)

	title := movieverse.PlainText(card.Title)
	if card.Year > 0 {
		title += fmt.Sprintf(" (%d)", card.Year)
	}
	var body []string
	body = append(body, styles.Text.Bold(true).Render(title))
	if meta := joinNonEmpty("  ·  ", card.Genre, card.Director); meta != "" {
		body = append(body, styles.MutedText.Render(meta))
	}
	if card.IMDbRating > 0 {
		body = append(body, styles.WarningText.Render(fmt.Sprintf("IMDb %.1f", card.IMDbRating)))
	}
	if desc := movieverse.PlainText(card.Description); desc != "" {
		body = append(body, "", styles.Text.Width(cardWidth-4).Render(desc))
	}
	body = append(body, "",
		styles.DangerText.Render("← h skip")+styles.MutedText.Render("      ")+styles.SuccessText.Render("like l →"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(0, 1).
		Width(cardWidth).
		Render(strings.Join(body, "\n"))
}
