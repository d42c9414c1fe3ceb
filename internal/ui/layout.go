package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/nav"
)

var routeTitles = map[nav.Route]string{
	nav.RouteLogin:          "Log in",
	nav.RouteRegister:       "Create account",
	nav.RouteForgotPassword: "Reset password",
	nav.RouteHome:           "Home",
	nav.RouteSearch:         "Search",
	nav.RouteMood:           "Mood",
	nav.RouteMoodResults:    "Mood picks",
	nav.RouteTinder:         "Swipe",
	nav.RouteWatchlist:      "Watchlist",
	nav.RouteProfile:        "Profile",
	nav.RouteDetail:         "Movie",
	nav.RouteLogs:           "Client log",
}

// renderMain renders header, command bar and the active view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBox(m.viewTitle(), m.renderContent(), m.width, m.height-2))
	return b.String()
}

func (m Model) renderContent() string {
	switch m.router.Current().Route {
	case nav.RouteLogin:
		return m.renderLogin()
	case nav.RouteRegister:
		return m.renderRegister()
	case nav.RouteForgotPassword:
		return m.renderForgot()
	case nav.RouteHome:
		return m.renderHome()
	case nav.RouteSearch:
		return m.renderSearch()
	case nav.RouteMood:
		return m.renderMood()
	case nav.RouteMoodResults:
		return m.renderResults()
	case nav.RouteTinder:
		return m.renderTinder()
	case nav.RouteWatchlist:
		return m.renderWatchlist()
	case nav.RouteDetail:
		return m.renderDetail()
	case nav.RouteProfile:
		return m.renderProfile()
	case nav.RouteLogs:
		return m.renderLogs()
	}
	return ""
}

func (m Model) viewTitle() string {
	cur := m.router.Current()
	title := routeTitles[cur.Route]
	switch cur.Route {
	case nav.RouteSearch:
		if m.search.query != "" {
			title += ": " + m.search.query
		}
	case nav.RouteMoodResults:
		title += ": " + cur.Params.Mood
	case nav.RouteDetail:
		if m.detail.movie != nil {
			title = m.detail.movie.Title
		}
	}
	return title
}

// renderHeader renders the logo, the signed-in user and any flash message.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("reel", styles.Logo)}
	if name := m.username(); name != "" {
		parts = append(parts, bg.Render("@"+name, styles.AccentText))
	} else if m.session != nil && m.session.Snapshot().Loading {
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	} else {
		parts = append(parts, bg.Render("signed out", styles.MutedText))
	}
	if m.busy() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.InfoText))
	}
	if m.flash != "" {
		style := styles.SuccessText
		if m.flashBad {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.flash, max(m.width-30, 10)), style))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

type hint struct{ key, desc string }

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var hints []hint
	switch m.router.Current().Route {
	case nav.RouteLogin:
		hints = []hint{{"tab", "Next"}, {"enter", "Log in"}, {"ctrl+n", "Sign up"}, {"ctrl+f", "Forgot"}}
	case nav.RouteRegister:
		hints = []hint{{"tab", "Next"}, {"ctrl+k", "Check name"}, {"enter", "Create"}, {"esc", "Back"}}
	case nav.RouteForgotPassword:
		hints = []hint{{"enter", "Continue"}, {"esc", "Back"}}
	case nav.RouteHome:
		if m.home.typing {
			hints = []hint{{"enter", "Find picks"}, {"esc", "Cancel"}}
		} else {
			hints = []hint{{"enter", "Open"}, {"/", "Search"}, {"m/M", "Mood"}, {"t", "Swipe"}, {"w", "Watchlist"}, {"p", "Profile"}, {"r", "Refresh"}}
		}
	case nav.RouteSearch:
		if m.search.typing {
			hints = []hint{{"enter", "Search"}, {"esc", "Done"}}
		} else {
			hints = []hint{{"enter", "Open"}, {"/", "Edit"}, {"esc", "Back"}}
		}
	case nav.RouteMood:
		hints = []hint{{"up/down", "Pick"}, {"enter", "Recommend"}, {"esc", "Back"}}
	case nav.RouteMoodResults:
		hints = []hint{{"enter", "Open"}, {"r", "Retry"}, {"esc", "Back"}}
	case nav.RouteTinder:
		hints = []hint{{"h", "Skip"}, {"l", "Like"}, {"enter", "Details"}, {"r", "Reload"}, {"esc", "Back"}}
	case nav.RouteWatchlist:
		hints = []hint{{"enter", "Open"}, {"d", "Remove"}, {"r", "Refresh"}, {"esc", "Back"}}
	case nav.RouteDetail:
		hints = []hint{{"a", "Watchlist"}, {"0-5", "Rate"}, {"+/-", "Adjust"}, {"esc", m.backLabel()}}
	case nav.RouteProfile:
		hints = []hint{{"X", "Log out"}, {"T", "Theme"}, {"esc", "Back"}}
	case nav.RouteLogs:
		follow := "Pause"
		if !m.logs.follow {
			follow = "Follow"
		}
		hints = []hint{{"Space", follow}, {"j/k", "Scroll"}, {"esc", "Back"}}
	}
	if !m.typing() {
		hints = append(hints, hint{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		segments = append(segments, bg.Render(h.key, styles.AccentText)+colon+bg.Render(h.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderBox draws content inside a rounded border with the title on the
// first row.
func (m Model) renderBox(title, content string, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	inner := max(width-2, 1)

	body := bg.FillLine(bg.Render(title, styles.Text.Bold(true)), inner)
	if content != "" {
		body += "\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Width(inner).
		Height(max(height-2, 1)).
		MaxHeight(max(height, 3)).
		Render(body)
}

// renderStatus renders the shared loading, error and empty lines.
func (m Model) renderStatus(loading bool, err error, empty string, count int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	switch {
	case loading && count == 0:
		return bg.FillLine(bg.Render(m.spinner.View()+" Loading...", styles.WarningText), width)
	case err != nil:
		return bg.FillLine(bg.Render(errorText(err), styles.DangerText), width) + "\n" +
			bg.FillLine(bg.Render("Press r to retry.", styles.FaintText), width)
	case count == 0 && empty != "":
		return bg.FillLine(bg.Render(empty, styles.MutedText), width)
	}
	return ""
}
