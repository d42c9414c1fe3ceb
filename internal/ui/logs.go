package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/logtail"
	"github.com/five82/reel/internal/nav"
)

// logState holds the client log view.
type logState struct {
	entries  []logtail.Entry
	err      error
	follow   bool
	ticking  bool
	viewport viewport.Model
}

func newLogState() logState {
	return logState{follow: true, viewport: viewport.New(0, 0)}
}

func (m *Model) resizeLogs() {
	m.logs.viewport.Width = m.contentWidth()
	m.logs.viewport.Height = max(m.height-5, 1)
	m.refreshLogView()
}

func (m *Model) enterLogs() tea.Cmd {
	cmds := []tea.Cmd{readLogsCmd(m.logFile)}
	if m.animate && !m.logs.ticking {
		m.logs.ticking = true
		cmds = append(cmds, logTickCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) onLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = msg.entries
	}
	m.refreshLogView()
}

// onLogTick rereads the file while the view is open, and stops otherwise.
func (m *Model) onLogTick() tea.Cmd {
	if m.router.Current().Route != nav.RouteLogs {
		m.logs.ticking = false
		return nil
	}
	return tea.Batch(readLogsCmd(m.logFile), logTickCmd())
}

func (m *Model) refreshLogView() {
	m.logs.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logs.viewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m *Model) logsKey(msg tea.KeyMsg) tea.Cmd {
	vp := &m.logs.viewport
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			vp.GotoBottom()
		}
	case key.Matches(msg, m.keys.Up):
		m.logs.follow = false
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.logs.follow = false
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logs.follow = true
		vp.GotoBottom()
	case key.Matches(msg, m.keys.Refresh):
		return readLogsCmd(m.logFile)
	}
	return nil
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()

	switch {
	case m.logFile == "":
		return bg.FillLine(bg.Render("Logging to a file is off. Set log_file in the config to enable it.", styles.MutedText), width)
	case m.logs.err != nil:
		return bg.FillLine(bg.Render("Could not read "+m.logFile+": "+m.logs.err.Error(), styles.DangerText), width)
	case len(m.logs.entries) == 0:
		return bg.FillLine(bg.Render("No log entries yet.", styles.MutedText), width)
	}

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, bg.FillLine(m.renderLogLine(e, width), width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLogLine(e logtail.Entry, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	if e.Raw != "" {
		return bg.Render(truncate(e.Raw, width), styles.FaintText)
	}
	line := truncate(logtail.Format(e), width)
	label := logtail.LevelLabel(e.Level)
	if head, rest, ok := strings.Cut(line, " "+label+" "); ok {
		return bg.Render(head, styles.FaintText) + bg.Space() +
			bg.Render(label, styles.LevelStyle(e.Level)) + bg.Space() +
			bg.Render(rest, styles.Text)
	}
	return bg.Render(line, styles.Text)
}

func (m Model) renderLogs() string {
	return m.logs.viewport.View()
}
