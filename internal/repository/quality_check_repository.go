package repository

import (
	"context"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
)

// QualityCheckFilters narrows the inspection list. Zero values are ignored.
type QualityCheckFilters struct {
	Status     domain.QualityStatus
	CheckType  string
	CustomerID *int64
	OrderID    *int64
}

var qualityCheckSortFields = map[string]string{
	"created_at":    "created_at",
	"check_date":    "check_date",
	"overall_score": "overall_score",
}

type QualityCheckRepository struct {
	db *gorm.DB
}

func NewQualityCheckRepository(db *gorm.DB) *QualityCheckRepository {
	return &QualityCheckRepository{db: db}
}

func (r *QualityCheckRepository) Create(ctx context.Context, check *domain.QualityCheck) error {
	return r.db.WithContext(ctx).Omit("Customer", "Photos").Create(check).Error
}

func (r *QualityCheckRepository) GetByID(ctx context.Context, id int64) (*domain.QualityCheck, error) {
	var check domain.QualityCheck
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id)
	query = ApplyCustomerScope(ctx, query)
	if err := query.First(&check).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

func (r *QualityCheckRepository) Update(ctx context.Context, check *domain.QualityCheck) error {
	return r.db.WithContext(ctx).Omit("Customer", "Photos").Save(check).Error
}

// UpdateStatus changes only the status of a check
func (r *QualityCheckRepository) UpdateStatus(ctx context.Context, id int64, status domain.QualityStatus) error {
	return r.db.WithContext(ctx).Model(&domain.QualityCheck{}).Where("id = ?", id).Update("status", status).Error
}

// Delete removes the check and its photo records and returns the storage
// paths of the removed photos
func (r *QualityCheckRepository) Delete(ctx context.Context, id int64) (bool, []string, error) {
	var affected int64
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.QualityPhoto{}).Where("quality_check_id = ?", id).Pluck("storage_path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("quality_check_id = ?", id).Delete(&domain.QualityPhoto{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.QualityCheck{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, paths, err
}

func (r *QualityCheckRepository) List(ctx context.Context, filters QualityCheckFilters, page Page, sort SortConfig) ([]domain.QualityCheck, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.QualityCheck{})
	query = ApplyCustomerScope(ctx, query)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CheckType != "" {
		query = query.Where("check_type = ?", filters.CheckType)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
	}

	order := BuildOrderClause(sort, qualityCheckSortFields, "created_at DESC, id DESC")
	return paginate[domain.QualityCheck](query, page, order, "Customer")
}

// All returns every check, newest first, for statistics
func (r *QualityCheckRepository) All(ctx context.Context) ([]domain.QualityCheck, error) {
	var checks []domain.QualityCheck
	err := r.db.WithContext(ctx).Preload("Customer").Order("check_date DESC, id DESC").Find(&checks).Error
	return checks, err
}

func (r *QualityCheckRepository) AddPhoto(ctx context.Context, photo *domain.QualityPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *QualityCheckRepository) GetPhoto(ctx context.Context, checkID, photoID int64) (*domain.QualityPhoto, error) {
	var photo domain.QualityPhoto
	err := r.db.WithContext(ctx).
		First(&photo, "id = ? AND quality_check_id = ?", photoID, checkID).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
