package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/nav"
	"github.com/five82/reel/internal/state"
)

type homeState struct {
	list    movieList
	loading bool
	err     error
	notice  string

	// Quick mood prompt.
	typing bool
	mood   textinput.Model
}

func newHomeState() homeState {
	return homeState{mood: newInput("how are you feeling?", 60)}
}

func (m *Model) enterHome() tea.Cmd {
	m.home.typing = false
	m.home.mood.Blur()
	m.home.err = nil
	if m.browse == nil {
		return nil
	}
	if snap := m.browse.Snapshot(); snap.Fresh() {
		m.home.loading = false
		m.applyBrowse(snap)
		return nil
	}
	m.home.loading = true
	return ensureBrowseCmd(m.ctx, m.browse, m.mount, false)
}

func (m *Model) refreshHome() tea.Cmd {
	m.home.loading = true
	m.home.err = nil
	return ensureBrowseCmd(m.ctx, m.browse, m.mount, true)
}

func (m *Model) onBrowse(msg browseMsg) {
	if msg.mount != m.mount || m.router.Current().Route != nav.RouteHome {
		return
	}
	m.home.loading = false
	snap := m.browse.Snapshot()
	m.applyBrowse(snap)
	if errors.Is(msg.err, state.ErrStale) {
		return
	}
	if !snap.Fresh() {
		m.home.err = viewError(msg.err)
	}
}

// applyBrowse lays out both sections from the cache.
func (m *Model) applyBrowse(snap state.BrowseSnapshot) {
	items := summaryItems("Trending", snap.Trending)
	items = append(items, summaryItems("Top picks for you", snap.TopPicks)...)
	m.home.list.SetItems(items)
	m.home.notice = snap.Notice
	m.applyRestore(&m.home.list)
}

func (m *Model) homeKey(msg tea.KeyMsg) tea.Cmd {
	if m.home.typing {
		return m.quickMoodKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.QuickMood):
		m.home.typing = true
		m.home.mood.SetValue("")
		m.home.mood.Focus()
		return nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refreshHome()
	case key.Matches(msg, m.keys.Confirm):
		item, ok := m.home.list.Selected()
		if !ok {
			return nil
		}
		return m.navigate(nav.RouteDetail, nav.Params{MovieID: item.id}, nav.FromHome{Offset: m.home.list.Offset()})
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	}
	m.listKey(&m.home.list, msg)
	return nil
}

func (m *Model) quickMoodKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.home.typing = false
		m.home.mood.Blur()
		return nil
	case tea.KeyEnter:
		mood := strings.TrimSpace(m.home.mood.Value())
		if mood == "" {
			return nil
		}
		m.home.typing = false
		m.home.mood.Blur()
		return m.navigate(nav.RouteMoodResults, nav.Params{Mood: mood}, nav.FromHomeToMood{Offset: m.home.list.Offset()})
	}
	var cmd tea.Cmd
	m.home.mood, cmd = m.home.mood.Update(msg)
	return cmd
}

// listKey applies the shared cursor bindings. It reports whether msg moved
// the cursor.
func (m *Model) listKey(l *movieList, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		l.Move(-1)
	case key.Matches(msg, m.keys.Down):
		l.Move(1)
	case key.Matches(msg, m.keys.Top):
		l.Select(0)
	case key.Matches(msg, m.keys.Bottom):
		l.Select(l.Len() - 1)
	case key.Matches(msg, m.keys.PageUp):
		l.Move(-l.page())
	case key.Matches(msg, m.keys.PageDown):
		l.Move(l.page())
	default:
		return false
	}
	return true
}

func (m Model) renderHome() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()

	var lines []string
	if m.home.typing {
		in := m.home.mood
		in.Width = min(width-12, 48)
		lines = append(lines, bg.FillLine(bg.Render("Mood: ", styles.AccentText)+styles.SurfaceAlt.Render(in.View()), width))
	}
	if m.home.notice != "" {
		lines = append(lines, bg.FillLine(bg.Render(truncate(m.home.notice, width), styles.InfoText), width))
	}
	if status := m.renderStatus(m.home.loading, m.home.err, "Nothing to show yet. Press r to refresh.", m.home.list.Len()); status != "" {
		lines = append(lines, status)
	}
	if m.home.list.Len() > 0 {
		lines = append(lines, m.home.list.View(styles, bg, width, !m.home.typing))
	}
	return strings.Join(lines, "\n")
}

// errorText is the one-line description of a view error.
func errorText(err error) string {
	if errors.Is(err, state.ErrNoUser) {
		return "Log in to see your picks."
	}
	return movieverse.UserMessage(err)
}
