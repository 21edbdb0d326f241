package view

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/glanzwerk/crm/internal/client"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Entity names a record type in user-facing messages, in the genitive
// ("des Kunden") as the alert texts need it.
type Entity string

const (
	EntityCustomer      Entity = "des Kunden"
	EntityOrder         Entity = "des Auftrags"
	EntityQuote         Entity = "des Angebots"
	EntityInvoice       Entity = "der Rechnung"
	EntityCommunication Entity = "der Kommunikation"
	EntityInventoryItem Entity = "des Inventarartikels"
	EntityQualityCheck  Entity = "der Qualitätsprüfung"
	EntityTimeEntry     Entity = "des Zeiteintrags"
)

// CreateFailed is the alert shown when storing a new record fails
func (e Entity) CreateFailed() string {
	return "Fehler beim Erstellen " + string(e)
}

// UpdateFailed is the alert shown when storing an edited record fails
func (e Entity) UpdateFailed() string {
	return "Fehler beim Aktualisieren " + string(e)
}

// DeleteFailed is the alert shown when a confirmed delete fails
func (e Entity) DeleteFailed() string {
	return "Fehler beim Löschen " + string(e)
}

// ValidationError lists the draft fields that failed their constraints,
// keyed by JSON name. A draft with validation errors is never sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid " + strings.Join(keys, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func validateDraft(draft interface{}) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// Form collects a draft of type D and stores it as a T. Without an edit id
// it creates with POST, after OpenEdit it updates with PUT.
type Form[D any, T any] struct {
	mu       sync.Mutex
	target   Submitter[T]
	session  *client.Session
	owner    Refresher
	entity   Entity
	defaults func() D
	alert    func(message string)
	logger   *zap.Logger

	dialog Dialog
	draft  D
	editID int64
}

// NewForm creates a closed form seeded from defaults. alert is called with
// the fixed failure message whenever the server rejects a submit.
func NewForm[D any, T any](
	target Submitter[T],
	session *client.Session,
	owner Refresher,
	entity Entity,
	defaults func() D,
	alert func(message string),
	logger *zap.Logger,
) *Form[D, T] {
	return &Form[D, T]{
		target:   target,
		session:  session,
		owner:    owner,
		entity:   entity,
		defaults: defaults,
		alert:    alert,
		logger:   logger,
		draft:    defaults(),
	}
}

// Open shows the form for a new record, keeping any draft left from a
// failed submit
func (f *Form[D, T]) Open() {
	f.mu.Lock()
	if f.editID != 0 {
		f.editID = 0
		f.draft = f.defaults()
	}
	f.mu.Unlock()
	f.dialog.Show()
}

// OpenEdit shows the form seeded from an existing record
func (f *Form[D, T]) OpenEdit(id int64, draft D) {
	f.mu.Lock()
	f.editID = id
	f.draft = draft
	f.mu.Unlock()
	f.dialog.Show()
}

// Close hides the form. The draft survives for the next Open.
func (f *Form[D, T]) Close() {
	f.dialog.Hide()
}

func (f *Form[D, T]) Visible() bool {
	return f.dialog.Visible()
}

// Editing reports whether the form updates an existing record
func (f *Form[D, T]) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editID != 0
}

// Draft returns a copy of the current draft
func (f *Form[D, T]) Draft() D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Edit applies fn to the draft in place
func (f *Form[D, T]) Edit(fn func(d *D)) {
	f.mu.Lock()
	fn(&f.draft)
	f.mu.Unlock()
}

// Submit validates and sends the draft. On success the draft is reset, the
// form closes and the owner refreshes once. On a server or transport
// failure exactly one alert is raised and the draft stays for a retry.
func (f *Form[D, T]) Submit(ctx context.Context) (*T, error) {
	f.mu.Lock()
	draft := f.draft
	id := f.editID
	f.mu.Unlock()

	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	var (
		saved *T
		err   error
	)
	if id != 0 {
		saved, err = f.target.Update(ctx, f.session, id, &draft)
	} else {
		saved, err = f.target.Create(ctx, f.session, &draft)
	}
	if err != nil {
		message := f.entity.CreateFailed()
		if id != 0 {
			message = f.entity.UpdateFailed()
		}
		f.logger.Error(message, zap.Int64("id", id), zap.Error(err))
		if f.alert != nil {
			f.alert(message)
		}
		return nil, fmt.Errorf("%s: %w", message, err)
	}

	f.mu.Lock()
	f.draft = f.defaults()
	f.editID = 0
	f.mu.Unlock()
	f.dialog.Hide()

	if f.owner != nil {
		_ = f.owner.Refresh(ctx)
	}
	return saved, nil
}
