package view

import (
	"context"
	"sync"

	"github.com/glanzwerk/crm/internal/client"
	"go.uber.org/zap"
)

// DetailDialog shows one fully loaded record
type DetailDialog[T any] struct {
	mu      sync.Mutex
	source  Getter[T]
	session *client.Session
	logger  *zap.Logger

	dialog Dialog
	id     int64
	record *T
}

func NewDetailDialog[T any](source Getter[T], session *client.Session, logger *zap.Logger) *DetailDialog[T] {
	return &DetailDialog[T]{source: source, session: session, logger: logger}
}

// Open loads the record and shows it. A failed load leaves the dialog
// closed and is only logged.
func (d *DetailDialog[T]) Open(ctx context.Context, id int64) error {
	record, err := d.source.Get(ctx, d.session, id)
	if err != nil {
		d.logger.Error("failed to load record", zap.Int64("id", id), zap.Error(err))
		return err
	}

	d.mu.Lock()
	d.id = id
	d.record = record
	d.mu.Unlock()
	d.dialog.Show()
	return nil
}

// Close hides the dialog and drops the record
func (d *DetailDialog[T]) Close() {
	d.dialog.Hide()
	d.mu.Lock()
	d.id = 0
	d.record = nil
	d.mu.Unlock()
}

func (d *DetailDialog[T]) Visible() bool {
	return d.dialog.Visible()
}

// Record returns the loaded record and its id, nil when closed
func (d *DetailDialog[T]) Record() (int64, *T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id, d.record
}

// EditRecord moves from the detail dialog to form, seeding the draft from
// the shown record with toDraft. It reports false when nothing is shown.
func EditRecord[D any, T any](d *DetailDialog[T], form *Form[D, T], toDraft func(*T) D) bool {
	id, record := d.Record()
	if record == nil {
		return false
	}
	d.Close()
	form.OpenEdit(id, toDraft(record))
	return true
}
