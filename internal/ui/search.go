package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/nav"
)

type searchState struct {
	input   textinput.Model
	typing  bool
	query   string
	list    movieList
	loading bool
	err     error
	done    bool // results for query have arrived
	recent  int  // next recent term tab fills in
}

func newSearchState() searchState {
	return searchState{input: newInput("title, genre or director", 100)}
}

// enterSearch shows results for query, reusing the last ones when the query
// is unchanged.
func (m *Model) enterSearch(query string) tea.Cmd {
	s := &m.search
	s.err = nil
	if query == "" {
		s.query = ""
		s.done = false
		s.loading = false
		s.list.Reset()
		s.input.SetValue("")
		s.recent = 0
		s.typing = true
		s.input.Focus()
		return nil
	}
	s.typing = false
	s.input.Blur()
	s.input.SetValue(query)
	if query == s.query && s.done {
		m.applyRestore(&s.list)
		return nil
	}
	return m.runSearch(query)
}

func (m *Model) runSearch(query string) tea.Cmd {
	s := &m.search
	s.query = query
	s.done = false
	s.loading = true
	s.list.Reset()
	return searchCmd(m.ctx, m.client, m.mount, query)
}

func (m *Model) onSearch(msg searchMsg) {
	s := &m.search
	if msg.mount != m.mount || msg.query != s.query {
		return
	}
	s.loading = false
	s.done = msg.err == nil
	s.err = viewError(msg.err)
	s.list.SetItems(summaryItems("", msg.movies))
	m.applyRestore(&s.list)
}

func (m *Model) searchKey(msg tea.KeyMsg) tea.Cmd {
	s := &m.search
	if s.typing {
		switch msg.Type {
		case tea.KeyEsc:
			if s.query == "" {
				return m.goBack()
			}
			s.typing = false
			s.input.Blur()
			s.input.SetValue(s.query)
			return nil
		case tea.KeyTab:
			if recent := m.prefs.RecentSearches; len(recent) > 0 {
				s.input.SetValue(recent[s.recent%len(recent)])
				s.input.CursorEnd()
				s.recent++
			}
			return nil
		case tea.KeyEnter:
			query := strings.TrimSpace(s.input.Value())
			if query == "" {
				return nil
			}
			if m.prefs.Remember(query) {
				m.savePrefs()
			}
			s.recent = 0
			s.typing = false
			s.input.Blur()
			m.router.Replace(nav.RouteSearch, nav.Params{Query: query}, nil)
			m.mount++
			return m.runSearch(query)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		s.typing = true
		s.input.Focus()
		s.input.CursorEnd()
		return nil
	case key.Matches(msg, m.keys.Refresh):
		if s.query != "" {
			return m.runSearch(s.query)
		}
		return nil
	case key.Matches(msg, m.keys.Confirm):
		item, ok := s.list.Selected()
		if !ok {
			return nil
		}
		return m.navigate(nav.RouteDetail, nav.Params{MovieID: item.id}, nav.FromSearch{Offset: s.list.Offset(), Term: s.query})
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	}
	m.listKey(&s.list, msg)
	return nil
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	s := m.search

	in := s.input
	in.Width = min(width-12, 60)
	label := styles.MutedText
	if s.typing {
		label = styles.AccentText.Bold(true)
	}
	lines := []string{
		bg.FillLine(bg.Render("Find: ", label)+styles.SurfaceAlt.Render(in.View()), width),
		bg.FillLine("", width),
	}

	if s.typing && len(m.prefs.RecentSearches) > 0 {
		recent := "Recent (tab): " + strings.Join(m.prefs.RecentSearches, " · ")
		lines = append(lines, bg.FillLine(bg.Render(truncate(recent, width-2), styles.MutedText), width), bg.FillLine("", width))
	}

	empty := ""
	if s.done {
		empty = "No movies match \"" + s.query + "\"."
	}
	if status := m.renderStatus(s.loading, s.err, empty, s.list.Len()); status != "" {
		lines = append(lines, status)
	}
	if s.list.Len() > 0 {
		lines = append(lines, s.list.View(styles, bg, width, !s.typing))
	}
	return strings.Join(lines, "\n")
}
