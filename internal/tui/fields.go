package tui

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/export"
	"github.com/glanzwerk/crm/internal/view"
)

// Field constructors bind an input row to a pointer into the draft.

func text[D any](label string, p func(*D) *string) field[D] {
	return textField(label,
		func(d *D) string { return *p(d) },
		func(d *D, v string) { *p(d) = strings.TrimSpace(v) })
}

func choice[D any, E ~string](label string, opts []display.Option, p func(*D) *E) field[D] {
	return selectField(label, opts,
		func(d *D) string { return string(*p(d)) },
		func(d *D, v string) { *p(d) = E(v) })
}

func idField[D any](label string, p func(*D) **int64) field[D] {
	return textField(label,
		func(d *D) string { return view.FormatID(*p(d)) },
		func(d *D, v string) { *p(d) = view.ParseID(v) })
}

func floatField[D any](label string, p func(*D) **float64) field[D] {
	return textField(label,
		func(d *D) string { return view.FormatFloat(*p(d)) },
		func(d *D, v string) { *p(d) = view.ParseFloat(v) })
}

func intField[D any](label string, p func(*D) **int) field[D] {
	return textField(label,
		func(d *D) string { return view.FormatInt(*p(d)) },
		func(d *D, v string) { *p(d) = view.ParseInt(v) })
}

var yesNoOptions = []display.Option{{Value: "true", Label: "Ja"}, {Value: "false", Label: "Nein"}}

func boolField[D any](label string, p func(*D) *bool) field[D] {
	return selectField(label, yesNoOptions,
		func(d *D) string { return boolValue(*p(d)) },
		func(d *D, v string) { *p(d) = v == "true" })
}

// optionalBool treats an unset value as true
func optionalBool[D any](label string, p func(*D) **bool) field[D] {
	return selectField(label, yesNoOptions,
		func(d *D) string {
			if b := *p(d); b != nil {
				return boolValue(*b)
			}
			return "true"
		},
		func(d *D, v string) {
			b := v == "true"
			*p(d) = &b
		})
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func yesNo(b bool) string {
	if b {
		return "Ja"
	}
	return "Nein"
}

func options[E ~string](kind display.Kind, values ...E) []display.Option {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return display.Options(kind, s...)
}

func orNA(s string) string {
	if s == "" {
		return display.NotAvailable
	}
	return s
}

// address renders "Street 1, 12345 City" and skips missing parts
func address(street, number, postalCode, city string) string {
	line1 := strings.TrimSpace(street + " " + number)
	line2 := strings.TrimSpace(postalCode + " " + city)
	switch {
	case line1 == "" && line2 == "":
		return display.NotAvailable
	case line1 == "":
		return line2
	case line2 == "":
		return line1
	}
	return line1 + ", " + line2
}

// lineItemFields edit the first line item of a quote or invoice. The item is
// created on first write so an untouched draft keeps its items as they are.
func lineItemFields[D any](items func(*D) *[]domain.LineItemRequest) []field[D] {
	peek := func(d *D) *domain.LineItemRequest {
		list := items(d)
		if len(*list) == 0 {
			return nil
		}
		return &(*list)[0]
	}
	first := func(d *D) *domain.LineItemRequest {
		list := items(d)
		if len(*list) == 0 {
			*list = append(*list, domain.LineItemRequest{})
		}
		return &(*list)[0]
	}
	return []field[D]{
		textField("Position",
			func(d *D) string {
				if it := peek(d); it != nil {
					return it.Description
				}
				return ""
			},
			func(d *D, v string) { first(d).Description = strings.TrimSpace(v) }),
		textField("Menge",
			func(d *D) string {
				if it := peek(d); it != nil {
					return view.FormatFloat(it.Quantity)
				}
				return ""
			},
			func(d *D, v string) { first(d).Quantity = view.ParseFloat(v) }),
		textField("Einheit",
			func(d *D) string {
				if it := peek(d); it != nil {
					return it.Unit
				}
				return ""
			},
			func(d *D, v string) { first(d).Unit = strings.TrimSpace(v) }),
		textField("Einzelpreis",
			func(d *D) string {
				if it := peek(d); it != nil {
					return view.FormatFloat(it.UnitPrice)
				}
				return ""
			},
			func(d *D, v string) { first(d).UnitPrice = view.ParseFloat(v) }),
	}
}

// dropBlankItem removes a first line item that has neither a description nor a price
func dropBlankItem(items *[]domain.LineItemRequest) {
	if len(*items) == 0 {
		return
	}
	if it := (*items)[0]; it.Description == "" && it.UnitPrice == nil {
		*items = (*items)[1:]
	}
}

// exportAction downloads the workbook of resource into the working directory
func exportAction[T any](resource string) action[T] {
	return action[T]{
		key:   "X",
		label: "Export",
		run: func(ctx context.Context, app *App, _ *T, _ []string) (string, error) {
			name := export.Filename(resource, time.Now())
			f, err := os.Create(name)
			if err != nil {
				return "", err
			}
			if err := app.client.Export(ctx, app.session, resource, f); err != nil {
				f.Close()
				os.Remove(name)
				return "", err
			}
			if err := f.Close(); err != nil {
				return "", err
			}
			return "Exportiert nach " + name, nil
		},
	}
}
