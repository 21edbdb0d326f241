package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/glanzwerk/crm/internal/domain"
)

// Page is one decoded list response
type Page[T any] struct {
	Items []T
	domain.Pagination
}

// Resource is the typed client of one collection endpoint, e.g. /api/customers
type Resource[T any] struct {
	c         *Client
	path      string
	listField string
}

// NewResource binds a collection path. listField names the array inside the
// list envelope; bare array responses are accepted as well.
func NewResource[T any](c *Client, path, listField string) *Resource[T] {
	return &Resource[T]{c: c, path: path, listField: listField}
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// List fetches the first page matching query
func (r *Resource[T]) List(ctx context.Context, s *Session, query url.Values) (*Page[T], error) {
	if !s.valid() {
		return nil, ErrNoSession
	}
	data, err := r.c.send(ctx, s.Token, http.MethodGet, r.path, query, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodeList[T](data, r.listField)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrMalformedResponse, r.path, err)
	}
	return page, nil
}

// Get fetches one record
func (r *Resource[T]) Get(ctx context.Context, s *Session, id int64) (*T, error) {
	var out T
	if err := r.c.do(ctx, s, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts draft and returns the stored record
func (r *Resource[T]) Create(ctx context.Context, s *Session, draft interface{}) (*T, error) {
	var out T
	if err := r.c.do(ctx, s, http.MethodPost, r.path, nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the record with draft
func (r *Resource[T]) Update(ctx context.Context, s *Session, id int64, draft interface{}) (*T, error) {
	var out T
	if err := r.c.do(ctx, s, http.MethodPut, r.itemPath(id), nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the record
func (r *Resource[T]) Delete(ctx context.Context, s *Session, id int64) error {
	return r.c.do(ctx, s, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

// decodeList accepts {"<field>": [...], "total": ...} and a bare [...]
func decodeList[T any](data []byte, field string) (*Page[T], error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	page := &Page[T]{}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &page.Items); err != nil {
			return nil, err
		}
		page.Total = int64(len(page.Items))
		page.Page = 1
		page.PerPage = len(page.Items)
		page.Pages = 1
		return page, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[field]
	if !ok {
		return nil, fmt.Errorf("missing %q field", field)
	}
	if err := json.Unmarshal(raw, &page.Items); err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}
	if err := json.Unmarshal(data, &page.Pagination); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
