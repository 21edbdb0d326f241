package repository

import (
	"context"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// QuoteFilters narrows a quote list. Zero values are ignored.
type QuoteFilters struct {
	Status      domain.QuoteStatus
	ServiceType domain.ServiceType
	CustomerID  *int64
	Search      string
}

var quoteSortFields = map[string]string{
	"created_at":   "created_at",
	"valid_until":  "valid_until",
	"quote_number": "quote_number",
	"total_amount": "total_amount",
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create inserts the quote together with its items
func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	var quote domain.Quote
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", itemsBySortOrder).
		Where("id = ?", id)
	query = ApplyCustomerScope(ctx, query)
	if err := query.First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

// Update saves the quote header and replaces all of its items
func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Customer", "Items").Save(quote).Error; err != nil {
			return err
		}
		for i := range quote.Items {
			quote.Items[i].ID = 0
			quote.Items[i].QuoteID = quote.ID
		}
		if len(quote.Items) > 0 {
			return tx.Create(&quote.Items).Error
		}
		return nil
	})
}

// UpdateFields applies a partial update to one quote
func (r *QuoteRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Quote{}).Where("id = ?", id).Updates(updates).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Quote{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *QuoteRepository) List(ctx context.Context, filters QuoteFilters, page Page, sort SortConfig) ([]domain.Quote, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	query = ApplyCustomerScope(ctx, query)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ServiceType != "" {
		query = query.Where("service_type = ?", filters.ServiceType)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(quote_number) LIKE ?", p, p)
	}

	order := BuildOrderClause(sort, quoteSortFields, "created_at DESC, id DESC")
	return paginate[domain.Quote](query, page, order, "Customer", "Items")
}

// ExpireBefore marks draft and sent quotes whose validity ended before day as expired
func (r *QuoteRepository) ExpireBefore(ctx context.Context, day time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Where("status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			[]domain.QuoteStatus{domain.QuoteStatusDraft, domain.QuoteStatusSent}, day).
		Update("status", domain.QuoteStatusExpired)
	return result.RowsAffected, result.Error
}

// QuoteTemplateRepository reads and seeds quote templates
type QuoteTemplateRepository struct {
	db *gorm.DB
}

func NewQuoteTemplateRepository(db *gorm.DB) *QuoteTemplateRepository {
	return &QuoteTemplateRepository{db: db}
}

func itemsBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// ListActive returns active templates ordered by name
func (r *QuoteTemplateRepository) ListActive(ctx context.Context, serviceType domain.ServiceType) ([]domain.QuoteTemplate, error) {
	var templates []domain.QuoteTemplate
	query := r.db.WithContext(ctx).
		Preload("Items", itemsBySortOrder).
		Where("is_active = ?", true)
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	err := query.Order("name ASC").Find(&templates).Error
	return templates, err
}

func (r *QuoteTemplateRepository) GetByID(ctx context.Context, id int64) (*domain.QuoteTemplate, error) {
	var template domain.QuoteTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", itemsBySortOrder).
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Upsert creates the template, or replaces the template with the same name
// including its items
func (r *QuoteTemplateRepository) Upsert(ctx context.Context, template *domain.QuoteTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.QuoteTemplate
		err := tx.Where("name = ?", template.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(template).Error
		}
		if err != nil {
			return err
		}

		template.ID = existing.ID
		template.CreatedAt = existing.CreatedAt
		if err := tx.Where("template_id = ?", existing.ID).Delete(&domain.QuoteTemplateItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").Save(template).Error; err != nil {
			return err
		}
		for i := range template.Items {
			template.Items[i].ID = 0
			template.Items[i].TemplateID = template.ID
		}
		if len(template.Items) > 0 {
			return tx.Create(&template.Items).Error
		}
		return nil
	})
}
