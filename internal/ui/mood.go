package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/nav"
)

var moodPresets = []string{
	"happy", "sad", "romantic", "adventurous", "scared",
	"nostalgic", "thoughtful", "energetic", "relaxed", "curious",
}

type moodState struct {
	input textinput.Model
	list  movieList
}

func newMoodState() moodState {
	s := moodState{input: newInput("describe your mood, or pick one below", 60)}
	items := make([]listItem, 0, len(moodPresets))
	for _, p := range moodPresets {
		items = append(items, listItem{title: p})
	}
	s.list.SetItems(items)
	return s
}

func (m *Model) enterMood() tea.Cmd {
	m.mood.input.Focus()
	m.applyRestore(&m.mood.list)
	return nil
}

func (m *Model) moodKey(msg tea.KeyMsg) tea.Cmd {
	s := &m.mood
	switch msg.Type {
	case tea.KeyEsc:
		return m.goBack()
	case tea.KeyUp:
		s.list.Move(-1)
		return nil
	case tea.KeyDown:
		s.list.Move(1)
		return nil
	case tea.KeyEnter:
		mood := strings.TrimSpace(s.input.Value())
		if mood == "" {
			if item, ok := s.list.Selected(); ok {
				mood = item.title
			}
		}
		if mood == "" {
			return nil
		}
		return m.navigate(nav.RouteMoodResults, nav.Params{Mood: mood}, nav.FromMoodPage{Offset: s.list.Offset()})
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (m Model) renderMood() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()

	in := m.mood.input
	in.Width = min(width-12, 60)
	lines := []string{
		bg.FillLine(bg.Render("Mood: ", styles.AccentText.Bold(true))+styles.SurfaceAlt.Render(in.View()), width),
		bg.FillLine("", width),
		bg.FillLine(bg.Render("Or pick one:", styles.MutedText), width),
		m.mood.list.View(styles, bg, width, strings.TrimSpace(m.mood.input.Value()) == ""),
	}
	return strings.Join(lines, "\n")
}

// Mood results

type resultsState struct {
	mood    string
	genre   string
	list    movieList
	loading bool
	err     error
	done    bool
}

func (m *Model) enterMoodResults(mood string) tea.Cmd {
	r := &m.results
	r.err = nil
	if mood == r.mood && r.done {
		m.applyRestore(&r.list)
		return nil
	}
	return m.runMood(mood)
}

func (m *Model) runMood(mood string) tea.Cmd {
	r := &m.results
	r.mood = mood
	r.genre = ""
	r.done = false
	r.loading = true
	r.err = nil
	r.list.Reset()
	return moodCmd(m.ctx, m.client, m.mount, mood)
}

func (m *Model) onMood(msg moodMsg) {
	r := &m.results
	if msg.mount != m.mount || msg.mood != r.mood {
		return
	}
	r.loading = false
	r.done = msg.err == nil
	r.err = viewError(msg.err)
	r.genre = msg.result.Genre
	r.list.SetItems(summaryItems("", msg.result.Recommendations))
	m.applyRestore(&r.list)
}

func (m *Model) resultsKey(msg tea.KeyMsg) tea.Cmd {
	r := &m.results
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.runMood(r.mood)
	case key.Matches(msg, m.keys.Confirm):
		item, ok := r.list.Selected()
		if !ok {
			return nil
		}
		// The results entry is replaced; its entry payload rides along so
		// the detail back action can rebuild it.
		m.router.Replace(nav.RouteDetail, nav.Params{MovieID: item.id}, nav.FromMoodResults{
			Offset: r.list.Offset(),
			Mood:   r.mood,
			Entry:  nav.EntryOf(m.router.Peek()),
		})
		return m.enter()
	case key.Matches(msg, m.keys.Back):
		if target, ok := nav.BackTarget(nav.EntryOf(m.router.Peek())); ok {
			m.router.Return(target)
			return m.enter()
		}
		return m.goBack()
	}
	m.listKey(&r.list, msg)
	return nil
}

func (m Model) renderResults() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	r := m.results

	var lines []string
	if r.genre != "" {
		lines = append(lines, bg.FillLine(bg.Render("Matched genre: ", styles.MutedText)+bg.Render(r.genre, styles.AccentText), width))
	}
	empty := ""
	if r.done {
		empty = "No picks for that mood. Try another."
	}
	if status := m.renderStatus(r.loading, r.err, empty, r.list.Len()); status != "" {
		lines = append(lines, status)
	}
	if r.list.Len() > 0 {
		lines = append(lines, r.list.View(styles, bg, width, true))
	}
	return strings.Join(lines, "\n")
}
