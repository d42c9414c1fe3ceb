package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/nav"
)

type watchlistState struct {
	entries []movieverse.WatchlistEntry
	list    movieList
	loading bool
	err     error
	done    bool
}

// enterWatchlist always refetches. The watchlist changes from detail and
// the swipe deck, so a cached copy would be stale on return.
func (m *Model) enterWatchlist() tea.Cmd {
	w := &m.watch
	w.loading = true
	w.err = nil
	return watchlistCmd(m.ctx, m.client, m.mount, m.username())
}

func (m *Model) onWatchlist(msg watchlistMsg) {
	w := &m.watch
	if msg.mount != m.mount {
		return
	}
	w.loading = false
	w.err = viewError(msg.err)
	if msg.err != nil {
		return
	}
	w.done = true
	w.entries = msg.entries
	items := make([]listItem, 0, len(msg.entries))
	for _, e := range msg.entries {
		items = append(items, listItem{
			id:    e.MovieID,
			title: movieverse.PlainText(e.Title),
			meta:  joinNonEmpty("  ", strings.Join(e.Genres, ", "), addedOn(e.AddedOn)),
		})
	}
	w.list.SetItems(items)
	m.applyRestore(&w.list)
}

func addedOn(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func (m *Model) watchlistKey(msg tea.KeyMsg) tea.Cmd {
	w := &m.watch
	switch {
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.enterWatchlist()
		m.restorer.Arm(nav.Restore{Offset: w.list.Offset()})
		return cmd
	case key.Matches(msg, m.keys.Confirm):
		item, ok := w.list.Selected()
		if !ok {
			return nil
		}
		return m.navigate(nav.RouteDetail, nav.Params{MovieID: item.id}, nav.FromWatchlist{Offset: w.list.Offset()})
	case key.Matches(msg, m.keys.Remove):
		i := w.list.Offset()
		if i < 0 || i >= len(w.entries) {
			return nil
		}
		entry := w.entries[i]
		ctx, client, username := m.ctx, m.client, m.username()
		m.modal = confirmModal{
			title: "Remove from watchlist",
			body:  "Remove " + movieverse.PlainText(entry.Title) + "?",
			onYes: func() tea.Cmd { return removeCmd(ctx, client, username, entry) },
		}
		return nil
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	}
	m.listKey(&w.list, msg)
	return nil
}

func (m *Model) onRemove(msg removeMsg) tea.Cmd {
	title := movieverse.PlainText(msg.title)
	if msg.err != nil {
		if !movieverse.IsAuthError(msg.err) {
			m.setFlash("Could not remove "+title+": "+movieverse.UserMessage(msg.err), true)
		}
		return nil
	}
	m.setFlash("Removed "+title+".", false)
	if m.router.Current().Route != nav.RouteWatchlist {
		return nil
	}
	offset := m.watch.list.Offset()
	cmd := m.enterWatchlist()
	m.restorer.Arm(nav.Restore{Offset: offset})
	return cmd
}

func (m Model) renderWatchlist() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	w := m.watch

	empty := ""
	if w.done {
		empty = "Your watchlist is empty. Swipe right on a movie or press a on its page."
	}
	var lines []string
	if status := m.renderStatus(w.loading, w.err, empty, w.list.Len()); status != "" {
		lines = append(lines, status)
	}
	if w.list.Len() > 0 {
		lines = append(lines, w.list.View(styles, bg, width, true))
	}
	return strings.Join(lines, "\n")
}
