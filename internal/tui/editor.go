package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/view"
)

// field binds one input row to a value of the draft D
type field[D any] struct {
	label   string
	get     func(d *D) string
	set     func(d *D, value string)
	options []display.Option
}

func textField[D any](label string, get func(*D) string, set func(*D, string)) field[D] {
	return field[D]{label: label, get: get, set: set}
}

func selectField[D any](label string, options []display.Option, get func(*D) string, set func(*D, string)) field[D] {
	return field[D]{label: label, get: get, set: set, options: options}
}

// promptField edits the i-th value of an action prompt
func promptField(i int, label string, options []display.Option) field[[]string] {
	return field[[]string]{
		label:   label,
		get:     func(v *[]string) string { return (*v)[i] },
		set:     func(v *[]string, s string) { (*v)[i] = s },
		options: options,
	}
}

// editor renders fields as text inputs and selects and copies their values
// into a draft on apply
type editor[D any] struct {
	fields  []field[D]
	inputs  []textinput.Model
	selects []*view.Select
	focus   int
}

func newEditor[D any](fields []field[D]) *editor[D] {
	e := &editor[D]{
		fields:  fields,
		inputs:  make([]textinput.Model, len(fields)),
		selects: make([]*view.Select, len(fields)),
	}
	for i := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500
		in.Width = 48
		e.inputs[i] = in
	}
	return e
}

// load fills the inputs from d and focuses the first row
func (e *editor[D]) load(d D) tea.Cmd {
	for i, f := range e.fields {
		value := f.get(&d)
		if len(f.options) > 0 {
			e.selects[i] = view.NewSelect(f.options, value, nil)
			continue
		}
		e.selects[i] = nil
		e.inputs[i].SetValue(value)
		e.inputs[i].CursorEnd()
	}
	return e.setFocus(0)
}

// apply writes the input values into d
func (e *editor[D]) apply(d *D) {
	for i, f := range e.fields {
		if e.selects[i] != nil {
			f.set(d, e.selects[i].Value())
		} else {
			f.set(d, e.inputs[i].Value())
		}
	}
}

func (e *editor[D]) last() bool {
	return e.focus == len(e.fields)-1
}

func (e *editor[D]) setFocus(i int) tea.Cmd {
	if len(e.fields) == 0 {
		return nil
	}
	e.focus = (i + len(e.fields)) % len(e.fields)
	var cmd tea.Cmd
	for j := range e.inputs {
		if j == e.focus && e.selects[j] == nil {
			cmd = e.inputs[j].Focus()
		} else {
			e.inputs[j].Blur()
		}
	}
	return cmd
}

func (e *editor[D]) update(msg tea.Msg) tea.Cmd {
	if len(e.fields) == 0 {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return e.setFocus(e.focus + 1)
		case "shift+tab", "up":
			return e.setFocus(e.focus - 1)
		}
		if s := e.selects[e.focus]; s != nil {
			switch key.String() {
			case "left":
				s.Prev()
			case "right", " ":
				s.Next()
			}
			return nil
		}
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return cmd
}

func (e *editor[D]) view() string {
	var b strings.Builder
	for i, f := range e.fields {
		label := labelStyle.Render(f.label)
		if i == e.focus {
			label = focusLabel.Render(f.label)
		}
		b.WriteString(label)
		if s := e.selects[i]; s != nil {
			text := "‹ " + s.Label() + " ›"
			if i == e.focus {
				text = focusStyle.Render(text)
			}
			b.WriteString(text)
		} else {
			b.WriteString(e.inputs[i].View())
		}
		b.WriteString("\n")
	}
	return b.String()
}
