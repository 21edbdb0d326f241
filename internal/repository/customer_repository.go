package repository

import (
	"context"
	"strings"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// CustomerFilters narrows a customer list. Zero values are ignored.
type CustomerFilters struct {
	Search       string
	CustomerType domain.CustomerType
	IsActive     *bool
}

var customerSortFields = map[string]string{
	"created_at":      "created_at",
	"last_name":       "last_name",
	"customer_number": "customer_number",
	"city":            "city",
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyCustomerScopeWithColumn(ctx, query, "id")
	if err := query.First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByEmail matches case-insensitively and ignores the session scope
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, "LOWER(email) = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// EmailTaken reports whether another customer than excludeID uses email
func (r *CustomerRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error
	return count > 0, err
}

// Exists reports whether a customer with id exists
func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Deactivate is the soft delete of a customer
func (r *CustomerRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("id = ?", id).
		Update("is_active", false)
	return result.RowsAffected > 0, result.Error
}

// SetPortalPassword stores the hash of the customer's portal password
func (r *CustomerRepository) SetPortalPassword(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("id = ?", id).
		Update("portal_password_hash", hash).Error
}

func (r *CustomerRepository) List(ctx context.Context, filters CustomerFilters, page Page, sort SortConfig) ([]domain.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Customer{})
	query = ApplyCustomerScopeWithColumn(ctx, query, "id")

	if filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(customer_number) LIKE ?",
			p, p, p, p, p,
		)
	}
	if filters.CustomerType != "" {
		query = query.Where("customer_type = ?", filters.CustomerType)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	order := BuildOrderClause(sort, customerSortFields, "created_at DESC, id DESC")
	return paginate[domain.Customer](query, page, order)
}

// CountActive counts customers that are not soft deleted
func (r *CustomerRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// All returns every customer for exports, oldest first
func (r *CustomerRepository) All(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error
	return customers, err
}
