// Package view holds the screen state of the terminal client: list views,
// create/edit forms, detail dialogs and the small controlled primitives they
// are built from. Nothing here draws; internal/tui renders this state.
package view

import (
	"context"
	"net/url"
	"sync"

	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/display"
)

// Lister is a collection endpoint that can be listed
type Lister[T any] interface {
	List(ctx context.Context, s *client.Session, query url.Values) (*client.Page[T], error)
}

// Getter fetches a single record
type Getter[T any] interface {
	Get(ctx context.Context, s *client.Session, id int64) (*T, error)
}

// Submitter stores new and edited records
type Submitter[T any] interface {
	Create(ctx context.Context, s *client.Session, draft interface{}) (*T, error)
	Update(ctx context.Context, s *client.Session, id int64, draft interface{}) (*T, error)
}

// Deleter removes a record
type Deleter interface {
	Delete(ctx context.Context, s *client.Session, id int64) error
}

// Refresher is the owner of a form or action that refetches after a mutation
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Dialog is a visibility flag shared by forms, detail views and confirmations
type Dialog struct {
	mu      sync.Mutex
	visible bool
}

func (d *Dialog) Show() {
	d.mu.Lock()
	d.visible = true
	d.mu.Unlock()
}

func (d *Dialog) Hide() {
	d.mu.Lock()
	d.visible = false
	d.mu.Unlock()
}

func (d *Dialog) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Option is one entry of a Select. An empty Value stands for "any".
type Option = display.Option

// Select is a controlled single choice. OnChange runs only when the value
// actually changes.
type Select struct {
	options  []Option
	selected int
	onChange func(value string)
}

// NewSelect creates a select positioned on value, or on the first option
// when value is not among the options.
func NewSelect(options []Option, value string, onChange func(value string)) *Select {
	s := &Select{options: options, onChange: onChange}
	if i := s.index(value); i >= 0 {
		s.selected = i
	}
	return s
}

func (s *Select) index(value string) int {
	for i, o := range s.options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

func (s *Select) Options() []Option {
	return s.options
}

// Value returns the selected value, "" for an empty select
func (s *Select) Value() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.selected].Value
}

func (s *Select) Label() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.selected].Label
}

// SetValue selects value. Unknown values are rejected.
func (s *Select) SetValue(value string) bool {
	i := s.index(value)
	if i < 0 {
		return false
	}
	s.move(i)
	return true
}

// Next selects the following option, wrapping around
func (s *Select) Next() {
	if len(s.options) > 0 {
		s.move((s.selected + 1) % len(s.options))
	}
}

// Prev selects the preceding option, wrapping around
func (s *Select) Prev() {
	if len(s.options) > 0 {
		s.move((s.selected + len(s.options) - 1) % len(s.options))
	}
}

func (s *Select) move(i int) {
	if i == s.selected {
		return
	}
	s.selected = i
	if s.onChange != nil {
		s.onChange(s.options[i].Value)
	}
}
