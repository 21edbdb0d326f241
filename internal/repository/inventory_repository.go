package repository

import (
	"context"

	"github.com/glanzwerk/crm/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilters narrows the inventory list. Zero values are ignored.
type InventoryFilters struct {
	Category string
	Status   domain.InventoryStatus
	LowStock bool
	Search   string
}

// TransactionFilters narrows the stock movement list
type TransactionFilters struct {
	ItemID          *int64
	TransactionType domain.TransactionType
}

var inventorySortFields = map[string]string{
	"name":       "name",
	"quantity":   "quantity",
	"category":   "category",
	"created_at": "created_at",
}

// StockMutation computes the movement for an item locked by Adjust. It may
// return an error to abort without writing anything.
type StockMutation func(item *domain.InventoryItem) (*domain.InventoryTransaction, error)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the item and its movement history
func (r *InventoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&domain.InventoryTransaction{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.InventoryItem{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *InventoryRepository) List(ctx context.Context, filters InventoryFilters, page Page, sort SortConfig) ([]domain.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.InventoryItem{})

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.LowStock {
		query = query.Where("quantity <= reorder_point")
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(supplier) LIKE ?", p, p, p)
	}

	order := BuildOrderClause(sort, inventorySortFields, "name ASC, id ASC")
	return paginate[domain.InventoryItem](query, page, order)
}

// Adjust locks the item, applies mutate and stores the new quantity together
// with the transaction it returns
func (r *InventoryRepository) Adjust(ctx context.Context, id int64, mutate StockMutation) (*domain.InventoryItem, *domain.InventoryTransaction, error) {
	var item domain.InventoryItem
	var movement *domain.InventoryTransaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
			return err
		}

		var err error
		movement, err = mutate(&item)
		if err != nil {
			return err
		}
		movement.ItemID = item.ID

		if err := tx.Model(&item).Update("quantity", movement.QuantityAfter).Error; err != nil {
			return err
		}
		item.Quantity = movement.QuantityAfter
		return tx.Omit("Item").Create(movement).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &item, movement, nil
}

// RecentTransactions returns the newest movements, optionally for one item
func (r *InventoryRepository) RecentTransactions(ctx context.Context, itemID *int64, limit int) ([]domain.InventoryTransaction, error) {
	var txs []domain.InventoryTransaction
	query := r.db.WithContext(ctx).Preload("Item")
	if itemID != nil {
		query = query.Where("item_id = ?", *itemID)
	}
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&txs).Error
	return txs, err
}

func (r *InventoryRepository) ListTransactions(ctx context.Context, filters TransactionFilters, page Page) ([]domain.InventoryTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.InventoryTransaction{})
	if filters.ItemID != nil {
		query = query.Where("item_id = ?", *filters.ItemID)
	}
	if filters.TransactionType != "" {
		query = query.Where("transaction_type = ?", filters.TransactionType)
	}
	return paginate[domain.InventoryTransaction](query, page, "created_at DESC, id DESC", "Item")
}

// All returns every item for statistics and exports
func (r *InventoryRepository) All(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
