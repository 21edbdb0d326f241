package repository

import (
	"context"
	"strings"

	"github.com/glanzwerk/crm/internal/auth"
	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a list request does not ask for a size
	DefaultPageSize = 50
	// MaxPageSize is the maximum allowed page size for paginated queries
	MaxPageSize = 200
)

// Page selects one page of a list query
type Page struct {
	Page    int
	PerPage int
}

// Normalize clamps the page to valid values
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPageSize
	}
	if p.PerPage > MaxPageSize {
		p.PerPage = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string // API field name
	Order SortOrder
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the ORDER BY clause from a whitelist of sortable
// fields. Unknown fields fall back to defaultClause.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultClause string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		return defaultClause
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}
	// id breaks ties so paging is stable
	return column + " " + order + ", id " + order
}

// paginate counts the filtered query and loads one page of it
func paginate[T any](query *gorm.DB, page Page, order string, preload ...string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []T
	q := query.Offset(page.Offset()).Limit(page.PerPage).Order(order)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ApplyCustomerScope limits a query to the customer of a portal session.
// Staff sessions and internal calls are not filtered.
func ApplyCustomerScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyCustomerScopeWithColumn(ctx, query, "customer_id")
}

// ApplyCustomerScopeWithColumn applies the customer scope to a specific column,
// e.g. "id" on the customers table
func ApplyCustomerScopeWithColumn(ctx context.Context, query *gorm.DB, column string) *gorm.DB {
	if customerID := auth.CustomerScopeFromContext(ctx); customerID != nil {
		return query.Where(column+" = ?", *customerID)
	}
	return query
}

// likePattern turns a search term into a case-insensitive LIKE pattern
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
