package ui

import (
	"strings"

	"github.com/five82/reel/internal/movieverse"
)

// listItem is one selectable row. Section starts a new titled group.
type listItem struct {
	id      movieverse.ID
	title   string
	meta    string
	section string
}

// movieList is a cursor over rows with a scrolling window. The cursor is
// the offset recorded when leaving a view and restored on return.
type movieList struct {
	items  []listItem
	cursor int
	top    int
	height int
}

func (l *movieList) SetItems(items []listItem) {
	l.items = items
	l.clamp()
}

func (l *movieList) Len() int {
	return len(l.items)
}

func (l *movieList) Reset() {
	l.items = nil
	l.cursor = 0
	l.top = 0
}

// Offset is the selected row.
func (l *movieList) Offset() int {
	return l.cursor
}

func (l *movieList) Selected() (listItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return listItem{}, false
	}
	return l.items[l.cursor], true
}

func (l *movieList) Move(delta int) {
	l.Select(l.cursor + delta)
}

// Select moves the cursor to i, clamped, and scrolls it into view.
func (l *movieList) Select(i int) {
	l.cursor = i
	l.clamp()
}

func (l *movieList) SetHeight(h int) {
	l.height = h
	l.clamp()
}

func (l *movieList) page() int {
	if l.height <= 1 {
		return 1
	}
	return l.height - 1
}

func (l *movieList) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.height <= 0 {
		l.top = 0
		return
	}
	if l.cursor < l.top {
		l.top = l.cursor
	}
	if l.cursor >= l.top+l.height {
		l.top = l.cursor - l.height + 1
	}
	if l.top < 0 {
		l.top = 0
	}
}

// View renders the visible window.
func (l movieList) View(styles Styles, bg BgStyle, width int, focused bool) string {
	if len(l.items) == 0 {
		return ""
	}
	end := len(l.items)
	if l.height > 0 && l.top+l.height < end {
		end = l.top + l.height
	}

	var b strings.Builder
	for i := l.top; i < end; i++ {
		item := l.items[i]
		if item.section != "" && (i == l.top || l.items[i-1].section != item.section) {
			b.WriteString(bg.FillLine(bg.Render(item.section, styles.AccentText.Bold(true)), width))
			b.WriteString("\n")
		}
		titleWidth := width - 4
		if item.meta != "" {
			titleWidth = width * 3 / 5
		}
		line := padRight(truncate(item.title, titleWidth), titleWidth)
		if i == l.cursor && focused {
			row := styles.Selected.Render("▸ " + line)
			if item.meta != "" {
				row += styles.Selected.Render(" " + truncate(item.meta, width-titleWidth-4))
			}
			b.WriteString(bg.FillLine(row, width))
		} else {
			row := bg.Render("  ", styles.Text) + bg.Render(line, styles.Text)
			if item.meta != "" {
				row += bg.Space() + bg.Render(truncate(item.meta, width-titleWidth-4), styles.FaintText)
			}
			b.WriteString(bg.FillLine(row, width))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func summaryItems(section string, movies []movieverse.MovieSummary) []listItem {
	items := make([]listItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, listItem{
			id:      m.ID,
			title:   movieverse.PlainText(m.Title),
			meta:    strings.Join(m.Genres, ", "),
			section: section,
		})
	}
	return items
}
