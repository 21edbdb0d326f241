package view

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"github.com/glanzwerk/crm/internal/client"
	"go.uber.org/zap"
)

// DefaultPageSize is the per_page sent with every list request
const DefaultPageSize = 50

// ListView is the state of one entity list: the records of the latest
// successful fetch, the active filters and whether a fetch is running.
//
// Every Refresh takes a sequence number. Only the response of the most
// recently dispatched request may replace the records, so a slow earlier
// response never overwrites a newer one.
type ListView[T any] struct {
	mu      sync.Mutex
	source  Lister[T]
	session *client.Session
	logger  *zap.Logger

	perPage int
	filters map[string]string
	items   []T
	total   int64
	loading bool
	seq     uint64
	err     error
}

// NewListView creates a list over source. perPage <= 0 means DefaultPageSize.
func NewListView[T any](source Lister[T], session *client.Session, perPage int, logger *zap.Logger) *ListView[T] {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &ListView[T]{
		source:  source,
		session: session,
		logger:  logger,
		perPage: perPage,
		filters: make(map[string]string),
	}
}

// Query builds the list query: non-empty filters plus per_page
func (v *ListView[T]) Query() url.Values {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query()
}

func (v *ListView[T]) query() url.Values {
	q := url.Values{}
	for key, value := range v.filters {
		if value != "" {
			q.Set(key, value)
		}
	}
	q.Set("per_page", strconv.Itoa(v.perPage))
	return q
}

// Refresh fetches the first page with the current filters. On failure the
// previous records stay in place and the error is logged and returned; it
// is never shown as an alert.
func (v *ListView[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.seq++
	token := v.seq
	v.loading = true
	query := v.query()
	v.mu.Unlock()

	page, err := v.source.List(ctx, v.session, query)

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq {
		v.logger.Debug("discarding stale list response", zap.Uint64("token", token), zap.Uint64("latest", v.seq))
		return nil
	}
	v.loading = false
	if err != nil {
		v.err = err
		v.logger.Error("failed to load list", zap.String("query", query.Encode()), zap.Error(err))
		return err
	}
	v.err = nil
	v.items = page.Items
	v.total = page.Total
	return nil
}

// SetFilter changes one filter and refreshes. Setting the current value
// again is a no-op.
func (v *ListView[T]) SetFilter(ctx context.Context, key, value string) error {
	v.mu.Lock()
	if v.filters[key] == value {
		v.mu.Unlock()
		return nil
	}
	if value == "" {
		delete(v.filters, key)
	} else {
		v.filters[key] = value
	}
	v.mu.Unlock()

	return v.Refresh(ctx)
}

func (v *ListView[T]) Filter(key string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters[key]
}

// Filters returns the non-empty filter keys in order
func (v *ListView[T]) Filters() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, 0, len(v.filters))
	for k := range v.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns a copy of the current records
func (v *ListView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// Total is the server-side count of matching records
func (v *ListView[T]) Total() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.total
}

func (v *ListView[T]) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err is the error of the latest fetch, nil after a success
func (v *ListView[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
