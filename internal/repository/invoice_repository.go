package repository

import (
	"context"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// InvoiceFilters narrows an invoice list. Zero values are ignored.
type InvoiceFilters struct {
	Status     domain.InvoiceStatus
	CustomerID *int64
	OrderID    *int64
	Search     string
}

var invoiceSortFields = map[string]string{
	"created_at":     "created_at",
	"invoice_date":   "invoice_date",
	"due_date":       "due_date",
	"invoice_number": "invoice_number",
	"total_amount":   "total_amount",
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice together with its items
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id)
	query = ApplyCustomerScope(ctx, query)
	if err := query.First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update saves the invoice header and replaces all of its items
func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Customer", "Items").Save(invoice).Error; err != nil {
			return err
		}
		for i := range invoice.Items {
			invoice.Items[i].ID = 0
			invoice.Items[i].InvoiceID = invoice.ID
		}
		if len(invoice.Items) > 0 {
			return tx.Create(&invoice.Items).Error
		}
		return nil
	})
}

// UpdateFields applies a partial update to one invoice
func (r *InvoiceRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("id = ?", id).Updates(updates).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Invoice{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *InvoiceRepository) List(ctx context.Context, filters InvoiceFilters, page Page, sort SortConfig) ([]domain.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Invoice{})
	query = ApplyCustomerScope(ctx, query)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
	}
	if filters.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", likePattern(filters.Search))
	}

	order := BuildOrderClause(sort, invoiceSortFields, "created_at DESC, id DESC")
	return paginate[domain.Invoice](query, page, order, "Customer", "Items")
}

// MarkOverdue flips sent invoices whose due date lies before day to overdue
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, day time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", domain.InvoiceStatusSent, day).
		Update("status", domain.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}

// InvoiceSummary is the slice of an invoice needed for statistics
type InvoiceSummary struct {
	Status      domain.InvoiceStatus
	InvoiceDate time.Time
	TotalAmount float64
}

// Summaries returns status, date and amount of every invoice
func (r *InvoiceRepository) Summaries(ctx context.Context) ([]InvoiceSummary, error) {
	var rows []InvoiceSummary
	query := r.db.WithContext(ctx).Model(&domain.Invoice{})
	query = ApplyCustomerScope(ctx, query)
	err := query.Select("status, invoice_date, total_amount").Scan(&rows).Error
	return rows, err
}

// All returns every invoice for exports, oldest first
func (r *InvoiceRepository) All(ctx context.Context) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).Preload("Customer").Order("id ASC").Find(&invoices).Error
	return invoices, err
}
