package view

import (
	"context"
	"errors"
	"sync"

	"github.com/glanzwerk/crm/internal/client"
	"go.uber.org/zap"
)

// ErrNothingPending is returned by Confirm without a preceding Request
var ErrNothingPending = errors.New("no delete pending")

// DeleteAction asks for confirmation before deleting and then refreshes the
// owning list. There is no undo.
type DeleteAction struct {
	mu      sync.Mutex
	target  Deleter
	session *client.Session
	owner   Refresher
	entity  Entity
	alert   func(message string)
	logger  *zap.Logger

	confirm Dialog
	pending int64
}

func NewDeleteAction(target Deleter, session *client.Session, owner Refresher, entity Entity, alert func(string), logger *zap.Logger) *DeleteAction {
	return &DeleteAction{
		target:  target,
		session: session,
		owner:   owner,
		entity:  entity,
		alert:   alert,
		logger:  logger,
	}
}

// Request opens the confirmation for id
func (a *DeleteAction) Request(id int64) {
	a.mu.Lock()
	a.pending = id
	a.mu.Unlock()
	a.confirm.Show()
}

// Pending returns the id awaiting confirmation, 0 when none
func (a *DeleteAction) Pending() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

func (a *DeleteAction) Confirming() bool {
	return a.confirm.Visible()
}

// Cancel closes the confirmation without deleting
func (a *DeleteAction) Cancel() {
	a.mu.Lock()
	a.pending = 0
	a.mu.Unlock()
	a.confirm.Hide()
}

// Confirm deletes the pending record and refreshes the owner
func (a *DeleteAction) Confirm(ctx context.Context) error {
	a.mu.Lock()
	id := a.pending
	a.pending = 0
	a.mu.Unlock()
	a.confirm.Hide()

	if id == 0 {
		return ErrNothingPending
	}
	if err := a.target.Delete(ctx, a.session, id); err != nil {
		message := a.entity.DeleteFailed()
		a.logger.Error(message, zap.Int64("id", id), zap.Error(err))
		if a.alert != nil {
			a.alert(message)
		}
		return err
	}
	a.logger.Info("record deleted", zap.Int64("id", id))
	if a.owner != nil {
		_ = a.owner.Refresh(ctx)
	}
	return nil
}
