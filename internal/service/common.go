package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"gorm.io/gorm"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// ChangePublisher receives an event after every successful mutation
type ChangePublisher interface {
	Publish(event domain.ChangeEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.ChangeEvent) {}

// NopPublisher discards change events
var NopPublisher ChangePublisher = nopPublisher{}

func publisherOrNop(p ChangePublisher) ChangePublisher {
	if p == nil {
		return NopPublisher
	}
	return p
}

// Clock returns the current time. Services take one so tests can fix "now".
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return c
}

// startOfDay truncates t to midnight UTC
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}
	return &t, nil
}

// parseTimestamp parses an optional RFC 3339 value and normalizes it to UTC
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp %q", ErrInvalidInput, s)
	}
	t = t.UTC()
	return &t, nil
}

// notFound maps gorm's missing-record error to the resource sentinel
func notFound(err error, sentinel error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// pagination builds the envelope fields of one page
func pagination(total int64, page repository.Page) domain.Pagination {
	page = page.Normalize()
	return domain.NewPagination(total, page.Page, page.PerPage)
}

func valueOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// referenceChecker validates customer_id and order_id references
type referenceChecker struct {
	customers *repository.CustomerRepository
	orders    *repository.OrderRepository
}

func (c referenceChecker) check(ctx context.Context, customerID, orderID *int64) error {
	if customerID != nil && c.customers != nil {
		ok, err := c.customers.Exists(ctx, *customerID)
		if err != nil {
			return fmt.Errorf("failed to check customer: %w", err)
		}
		if !ok {
			return ErrUnknownCustomer
		}
	}
	if orderID != nil && c.orders != nil {
		ok, err := c.orders.Exists(ctx, *orderID)
		if err != nil {
			return fmt.Errorf("failed to check order: %w", err)
		}
		if !ok {
			return ErrUnknownOrder
		}
	}
	return nil
}
