package repository

import (
	"context"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// CommunicationFilters narrows the communication log. Zero values are ignored.
type CommunicationFilters struct {
	Type        domain.CommunicationType
	Status      domain.CommunicationStatus
	CustomerID  *int64
	IsImportant *bool
	Search      string
}

var communicationSortFields = map[string]string{
	"created_at":         "created_at",
	"communication_date": "communication_date",
	"follow_up_date":     "follow_up_date",
}

type CommunicationRepository struct {
	db *gorm.DB
}

func NewCommunicationRepository(db *gorm.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

func (r *CommunicationRepository) Create(ctx context.Context, c *domain.Communication) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(c).Error
}

func (r *CommunicationRepository) GetByID(ctx context.Context, id int64) (*domain.Communication, error) {
	var c domain.Communication
	query := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id)
	query = ApplyCustomerScope(ctx, query)
	if err := query.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommunicationRepository) Update(ctx context.Context, c *domain.Communication) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(c).Error
}

func (r *CommunicationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Communication{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *CommunicationRepository) List(ctx context.Context, filters CommunicationFilters, page Page, sort SortConfig) ([]domain.Communication, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Communication{})
	query = ApplyCustomerScope(ctx, query)

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.IsImportant != nil {
		query = query.Where("is_important = ?", *filters.IsImportant)
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(subject) LIKE ? OR LOWER(content) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(tags) LIKE ?", p, p, p, p)
	}

	order := BuildOrderClause(sort, communicationSortFields, "created_at DESC, id DESC")
	return paginate[domain.Communication](query, page, order, "Customer")
}
