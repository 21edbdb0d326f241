package service

import (
	"context"
	"fmt"

	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	"go.uber.org/zap"
)

const (
	changeTypeInventory = "inventory"

	detailTransactionLimit     = 10
	statisticsTransactionLimit = 5
)

type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	catalog       *seed.Catalog
	events        ChangePublisher
	logger        *zap.Logger
}

func NewInventoryService(
	inventoryRepo *repository.InventoryRepository,
	catalog *seed.Catalog,
	events ChangePublisher,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		catalog:       catalog,
		events:        publisherOrNop(events),
		logger:        logger,
	}
}

// ApplyStockChange computes the movement of one adjustment. "in" adds the
// magnitude, "out" subtracts it and fails rather than going below zero,
// "adjustment" sets the quantity to the given absolute value.
func ApplyStockChange(current int, transactionType domain.TransactionType, change int) (int, error) {
	magnitude := change
	if magnitude < 0 {
		magnitude = -magnitude
	}

	switch transactionType {
	case domain.TransactionIn:
		return current + magnitude, nil
	case domain.TransactionOut:
		if magnitude > current {
			return current, ErrInsufficientStock
		}
		return current - magnitude, nil
	case domain.TransactionAdjustment:
		if change < 0 {
			return current, fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
		}
		return change, nil
	default:
		return current, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, transactionType)
	}
}

func (s *InventoryService) applyRequest(item *domain.InventoryItem, req *domain.InventoryItemRequest) error {
	if req.Category != "" && !s.catalog.HasCategory(req.Category) {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, req.Category)
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Category = req.Category
	item.SKU = req.SKU
	item.Quantity = derefOr(req.Quantity, item.Quantity)
	item.Unit = valueOr(req.Unit, "Stück")
	item.UnitPrice = derefOr(req.UnitPrice, item.UnitPrice)
	item.ReorderPoint = derefOr(req.ReorderPoint, item.ReorderPoint)
	item.Supplier = req.Supplier
	item.Location = req.Location
	item.Status = valueOr(req.Status, domain.InventoryStatusActive)
	return nil
}

func (s *InventoryService) Create(ctx context.Context, req *domain.InventoryItemRequest) (*domain.InventoryItemDTO, error) {
	item := &domain.InventoryItem{}
	if err := s.applyRequest(item, req); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	s.logger.Info("inventory item created", zap.Int64("item_id", item.ID), zap.String("name", item.Name))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInventory, Action: domain.ChangeCreated, ID: item.ID})
	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

// GetByID returns the item with its ten most recent stock movements
func (s *InventoryService) GetByID(ctx context.Context, id int64) (*domain.InventoryItemDTO, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInventoryNotFound, "get inventory item")
	}

	txs, err := s.inventoryRepo.RecentTransactions(ctx, &id, detailTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	dto := mapper.ToInventoryItemDTO(item)
	dto.RecentTransactions = make([]domain.InventoryTransactionDTO, len(txs))
	for i := range txs {
		dto.RecentTransactions[i] = mapper.ToInventoryTransactionDTO(&txs[i])
	}
	return &dto, nil
}

func (s *InventoryService) Update(ctx context.Context, id int64, req *domain.InventoryItemRequest) (*domain.InventoryItemDTO, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInventoryNotFound, "get inventory item")
	}
	if err := s.applyRequest(item, req); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeInventory, Action: domain.ChangeUpdated, ID: id})
	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	found, err := s.inventoryRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if !found {
		return ErrInventoryNotFound
	}
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInventory, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *InventoryService) List(ctx context.Context, filters repository.InventoryFilters, page repository.Page, sort repository.SortConfig) (*domain.InventoryListResponse, error) {
	items, total, err := s.inventoryRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	dtos := make([]domain.InventoryItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToInventoryItemDTO(&items[i])
	}
	return &domain.InventoryListResponse{InventoryItems: dtos, Pagination: pagination(total, page)}, nil
}

// Adjust applies a stock movement and records it in the transaction history
func (s *InventoryService) Adjust(ctx context.Context, id int64, req *domain.StockAdjustmentRequest) (*domain.InventoryTransactionDTO, error) {
	change := derefOr(req.QuantityChange, 0)
	createdBy := actorName(ctx)

	item, movement, err := s.inventoryRepo.Adjust(ctx, id, func(item *domain.InventoryItem) (*domain.InventoryTransaction, error) {
		after, err := ApplyStockChange(item.Quantity, req.TransactionType, change)
		if err != nil {
			return nil, err
		}
		return &domain.InventoryTransaction{
			TransactionType: req.TransactionType,
			QuantityChange:  after - item.Quantity,
			QuantityBefore:  item.Quantity,
			QuantityAfter:   after,
			Notes:           req.Notes,
			CreatedBy:       createdBy,
		}, nil
	})
	if err != nil {
		return nil, notFound(err, ErrInventoryNotFound, "adjust stock")
	}

	s.logger.Info("stock adjusted",
		zap.Int64("item_id", id),
		zap.String("transaction_type", string(req.TransactionType)),
		zap.Int("quantity_before", movement.QuantityBefore),
		zap.Int("quantity_after", movement.QuantityAfter))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInventory, Action: domain.ChangeUpdated, ID: id})

	movement.Item = item
	dto := mapper.ToInventoryTransactionDTO(movement)
	return &dto, nil
}

func (s *InventoryService) ListTransactions(ctx context.Context, filters repository.TransactionFilters, page repository.Page) (*domain.InventoryTransactionListResponse, error) {
	txs, total, err := s.inventoryRepo.ListTransactions(ctx, filters, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	dtos := make([]domain.InventoryTransactionDTO, len(txs))
	for i := range txs {
		dtos[i] = mapper.ToInventoryTransactionDTO(&txs[i])
	}
	return &domain.InventoryTransactionListResponse{Transactions: dtos, Pagination: pagination(total, page)}, nil
}

func (s *InventoryService) Categories() *domain.CategoriesResponse {
	categories := make([]string, len(s.catalog.InventoryCategories))
	copy(categories, s.catalog.InventoryCategories)
	return &domain.CategoriesResponse{Categories: categories}
}

// Statistics summarizes stock levels, stock value and the latest movements
func (s *InventoryService) Statistics(ctx context.Context) (*domain.InventoryStatisticsDTO, error) {
	items, err := s.inventoryRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	stats := &domain.InventoryStatisticsDTO{
		TotalItems:     int64(len(items)),
		CategoryCounts: make(map[string]int64),
	}
	lines := make([]domain.PricedLine, 0, len(items))
	for _, item := range items {
		if item.Status == domain.InventoryStatusActive {
			stats.ActiveItems++
		}
		switch display.StockLevel(item.Quantity, item.ReorderPoint) {
		case display.StockOut:
			stats.OutOfStockItems++
		case display.StockLow:
			stats.LowStockItems++
		}
		if item.Category != "" {
			stats.CategoryCounts[item.Category]++
		}
		if item.Quantity > 0 {
			lines = append(lines, domain.PricedLine{Quantity: float64(item.Quantity), UnitPrice: item.UnitPrice})
		}
	}
	stats.TotalValue = domain.ComputeTotals(lines, 0).Subtotal

	txs, err := s.inventoryRepo.RecentTransactions(ctx, nil, statisticsTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	stats.RecentTransactions = make([]domain.InventoryTransactionDTO, len(txs))
	for i := range txs {
		stats.RecentTransactions[i] = mapper.ToInventoryTransactionDTO(&txs[i])
	}
	return stats, nil
}
