package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/movieverse"
)

// newInput returns a text input with a steady cursor.
func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

type formField struct {
	name  string // matches the backend's field error keys
	label string
	input textinput.Model
	note  string
}

// form is a vertical stack of inputs with per-field errors.
type form struct {
	fields []formField
	focus  int
	errs   movieverse.FieldErrors
	err    string
	busy   bool
}

func newForm(fields ...formField) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

func field(name, label, placeholder string, password bool) formField {
	ti := newInput(placeholder, 150)
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return formField{name: name, label: label, input: ti}
}

func (f *form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	for idx := range f.fields {
		if idx == f.focus {
			f.fields[idx].input.Focus()
		} else {
			f.fields[idx].input.Blur()
		}
	}
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

func (f *form) value(name string) string {
	for _, fl := range f.fields {
		if fl.name == name {
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

// raw returns the untrimmed value, used for passwords.
func (f *form) raw(name string) string {
	for _, fl := range f.fields {
		if fl.name == name {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) set(name, value string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(value)
		}
	}
}

func (f *form) setNote(name, note string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].note = note
		}
	}
}

func (f *form) focused() string {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return ""
	}
	return f.fields[f.focus].name
}

func (f *form) clearErrors() {
	f.errs = nil
	f.err = ""
}

// fail records err, splitting out field errors when present.
func (f *form) fail(err error) {
	f.busy = false
	f.errs = nil
	f.err = ""
	if err == nil {
		return
	}
	if fe, ok := fieldErrors(err); ok {
		f.errs = fe
		if general := fe.Field("non_field_errors"); general != "" {
			f.err = general
		}
		return
	}
	f.err = movieverse.UserMessage(err)
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f form) View(styles Styles, bg BgStyle, width int) string {
	var b strings.Builder
	inputWidth := min(width-4, 48)
	for i, fl := range f.fields {
		label := styles.MutedText
		if i == f.focus {
			label = styles.AccentText.Bold(true)
		}
		b.WriteString(bg.FillLine(bg.Render(fl.label, label), width))
		b.WriteString("\n")

		in := fl.input
		in.Width = inputWidth
		box := styles.SurfaceAlt.Width(inputWidth + 2).Padding(0, 1).Render(in.View())
		b.WriteString(bg.FillLine(box, width))
		b.WriteString("\n")

		if msg := f.errs.Field(fl.name); msg != "" {
			b.WriteString(bg.FillLine(bg.Render(msg, styles.DangerText), width))
			b.WriteString("\n")
		} else if fl.note != "" {
			b.WriteString(bg.FillLine(bg.Render(fl.note, styles.FaintText), width))
			b.WriteString("\n")
		}
		b.WriteString(bg.FillLine("", width))
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString(bg.FillLine(bg.Render(f.err, styles.DangerText), width))
		b.WriteString("\n")
	}
	if f.busy {
		b.WriteString(bg.FillLine(bg.Render("Working...", styles.WarningText), width))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func fieldErrors(err error) (movieverse.FieldErrors, bool) {
	var fe movieverse.FieldErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		return fe, true
	}
	return nil, false
}
