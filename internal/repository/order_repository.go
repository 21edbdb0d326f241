package repository

import (
	"context"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// OrderFilters narrows an order list. Zero values are ignored.
type OrderFilters struct {
	Status      domain.OrderStatus
	ServiceType domain.ServiceType
	Priority    domain.Priority
	CustomerID  *int64
	Search      string
}

var orderSortFields = map[string]string{
	"created_at":     "created_at",
	"scheduled_date": "scheduled_date",
	"order_number":   "order_number",
	"priority":       "priority",
	"status":         "status",
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	query := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id)
	query = ApplyCustomerScope(ctx, query)
	if err := query.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Exists reports whether an order with id exists and is visible to the caller
func (r *OrderRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id)
	err := ApplyCustomerScope(ctx, query).Count(&count).Error
	return count > 0, err
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(order).Error
}

// UpdateStatus sets the status and, for completed orders, completed_at
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *OrderRepository) List(ctx context.Context, filters OrderFilters, page Page, sort SortConfig) ([]domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Order{})
	query = ApplyCustomerScope(ctx, query)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ServiceType != "" {
		query = query.Where("service_type = ?", filters.ServiceType)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(order_number) LIKE ? OR LOWER(service_city) LIKE ?", p, p, p)
	}

	order := BuildOrderClause(sort, orderSortFields, "created_at DESC, id DESC")
	return paginate[domain.Order](query, page, order, "Customer")
}

// CountByStatus returns the number of orders per status
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	var rows []struct {
		Status domain.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountScheduledBetween counts orders scheduled in [from, to)
func (r *OrderRepository) CountScheduledBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to).
		Count(&count).Error
	return count, err
}

// All returns every order for exports, oldest first
func (r *OrderRepository) All(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Preload("Customer").Order("id ASC").Find(&orders).Error
	return orders, err
}
