package repository

import (
	"context"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// TimeEntryFilters narrows the time entry list. Zero values are ignored.
type TimeEntryFilters struct {
	Status       domain.TimeEntryStatus
	UserID       *int64
	ActivityType domain.ActivityType
	CustomerID   *int64
	From         *time.Time
	To           *time.Time
}

var timeEntrySortFields = map[string]string{
	"created_at": "created_at",
	"start_time": "start_time",
	"duration":   "duration",
}

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(entry).Error
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	err := r.db.WithContext(ctx).Preload("Customer").First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	return r.db.WithContext(ctx).Omit("Customer").Save(entry).Error
}

// Stop completes the entry only while it is still running. It reports false
// when the entry was already stopped or does not exist.
func (r *TimeEntryRepository) Stop(ctx context.Context, id int64, end time.Time, duration float64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.TimeEntry{}).
		Where("id = ? AND status = ? AND end_time IS NULL", id, domain.TimeEntryActive).
		Updates(map[string]interface{}{
			"end_time": end,
			"duration": duration,
			"status":   domain.TimeEntryCompleted,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.TimeEntry{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *TimeEntryRepository) filtered(ctx context.Context, filters TimeEntryFilters) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.TimeEntry{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.ActivityType != "" {
		query = query.Where("activity_type = ?", filters.ActivityType)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.From != nil {
		query = query.Where("start_time >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("start_time < ?", *filters.To)
	}
	return query
}

func (r *TimeEntryRepository) List(ctx context.Context, filters TimeEntryFilters, page Page, sort SortConfig) ([]domain.TimeEntry, int64, error) {
	order := BuildOrderClause(sort, timeEntrySortFields, "created_at DESC, id DESC")
	return paginate[domain.TimeEntry](r.filtered(ctx, filters), page, order, "Customer")
}

// Find returns all entries matching filters ordered by start time
func (r *TimeEntryRepository) Find(ctx context.Context, filters TimeEntryFilters) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	err := r.filtered(ctx, filters).Preload("Customer").Order("start_time ASC, id ASC").Find(&entries).Error
	return entries, err
}

// Recent returns the newest entries
func (r *TimeEntryRepository) Recent(ctx context.Context, limit int) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	err := r.db.WithContext(ctx).Preload("Customer").Order("start_time DESC, id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// CountActive counts running timers
func (r *TimeEntryRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TimeEntry{}).
		Where("status = ? AND end_time IS NULL", domain.TimeEntryActive).
		Count(&count).Error
	return count, err
}
