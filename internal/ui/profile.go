package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type profileState struct {
	email   string
	loading bool
	err     error
}

func (m *Model) enterProfile() tea.Cmd {
	p := &m.profile
	p.err = nil
	if p.email != "" {
		return nil
	}
	p.loading = true
	return emailCmd(m.ctx, m.session, m.mount)
}

func (m *Model) onEmail(msg emailMsg) {
	if msg.mount != m.mount {
		return
	}
	p := &m.profile
	p.loading = false
	p.err = viewError(msg.err)
	p.email = msg.email
}

func (m *Model) profileKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Logout):
		ctx, sess := m.ctx, m.session
		m.modal = confirmModal{
			title: "Log out",
			body:  "Sign out of " + m.username() + "?",
			onYes: func() tea.Cmd { return logoutCmd(ctx, sess) },
		}
		return nil
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	}
	return nil
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	p := m.profile

	row := func(label, value string) string {
		return bg.FillLine(bg.Render(padRight(label, 12), styles.MutedText)+bg.Render(truncateMiddle(value, width-12), styles.Text), width)
	}
	badge := func(label, phase string) string {
		return bg.FillLine(bg.Render(padRight(label, 12), styles.MutedText)+bg.Render(" "+phase+" ", styles.BadgeStyle(phase)), width)
	}

	email := p.email
	switch {
	case p.loading:
		email = "loading..."
	case p.err != nil:
		email = errorText(p.err)
	}

	lines := []string{
		row("Username", m.username()),
		row("Email", email),
		bg.FillLine("", width),
	}
	if m.browse != nil {
		lines = append(lines, badge("Home lists", m.browse.Phase().String()))
	}
	if m.deck != nil {
		lines = append(lines, badge("Swipe deck", m.deck.Phase().String()))
	}
	lines = append(lines, bg.FillLine("", width))
	if m.client != nil {
		lines = append(lines, row("Server", m.client.BaseURL()))
	}
	if m.logFile != "" {
		lines = append(lines, row("Log file", m.logFile))
	}
	lines = append(lines, row("Theme", m.theme.Name))
	return strings.Join(lines, "\n")
}
