package service_test

import (
	"context"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStockChange(t *testing.T) {
	tests := []struct {
		name    string
		current int
		txType  domain.TransactionType
		change  int
		want    int
		wantErr error
	}{
		{"in adds", 10, domain.TransactionIn, 5, 15, nil},
		{"in uses magnitude", 10, domain.TransactionIn, -5, 15, nil},
		{"out subtracts", 10, domain.TransactionOut, 4, 6, nil},
		{"out uses magnitude", 10, domain.TransactionOut, -4, 6, nil},
		{"out to zero", 10, domain.TransactionOut, 10, 0, nil},
		{"out below zero", 3, domain.TransactionOut, 4, 3, service.ErrInsufficientStock},
		{"adjustment sets absolute", 10, domain.TransactionAdjustment, 2, 2, nil},
		{"adjustment to zero", 10, domain.TransactionAdjustment, 0, 0, nil},
		{"negative adjustment", 10, domain.TransactionAdjustment, -1, 10, service.ErrInvalidInput},
		{"unknown type", 10, domain.TransactionType("loss"), 1, 10, service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ApplyStockChange(tt.current, tt.txType, tt.change)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func inventoryRequest(name, category string, quantity, reorderPoint int, unitPrice float64) *domain.InventoryItemRequest {
	return &domain.InventoryItemRequest{
		Name:         name,
		Category:     category,
		Quantity:     &quantity,
		ReorderPoint: &reorderPoint,
		UnitPrice:    &unitPrice,
	}
}

func TestInventoryService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.inventory.Create(ctx, inventoryRequest("Glasreiniger 1L", "Reinigungsmittel", 12, 5, 3.49))
	require.NoError(t, err)
	assert.Equal(t, "Stück", item.Unit)
	assert.Equal(t, domain.InventoryStatusActive, item.Status)
	assert.Equal(t, "available", item.StockLevel)
	assert.Equal(t, 41.88, item.TotalValue)

	_, err = f.inventory.Create(ctx, inventoryRequest("Mopp", "Gartenmöbel", 1, 0, 1))
	assert.ErrorIs(t, err, service.ErrInvalidCategory)
}

func TestInventoryService_Adjust(t *testing.T) {
	f := newFixture(t)
	ctx := staffContext(7, "Lena Wagner")
	item, err := f.inventory.Create(ctx, inventoryRequest("Müllbeutel 120L", "Verbrauchsmaterial", 10, 3, 0.2))
	require.NoError(t, err)

	movement, err := f.inventory.Adjust(ctx, item.ID, &domain.StockAdjustmentRequest{
		TransactionType: domain.TransactionOut,
		QuantityChange:  ptr(8),
		Notes:           "Objekt Lindenstraße",
	})
	require.NoError(t, err)
	assert.Equal(t, -8, movement.QuantityChange)
	assert.Equal(t, 10, movement.QuantityBefore)
	assert.Equal(t, 2, movement.QuantityAfter)
	assert.Equal(t, "Lena Wagner", movement.CreatedBy)
	assert.Equal(t, "Müllbeutel 120L", movement.ItemName)

	_, err = f.inventory.Adjust(ctx, item.ID, &domain.StockAdjustmentRequest{
		TransactionType: domain.TransactionOut,
		QuantityChange:  ptr(3),
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	_, err = f.inventory.Adjust(ctx, 999, &domain.StockAdjustmentRequest{
		TransactionType: domain.TransactionIn,
		QuantityChange:  ptr(1),
	})
	assert.ErrorIs(t, err, service.ErrInventoryNotFound)

	detail, err := f.inventory.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Quantity, "a rejected movement leaves stock unchanged")
	assert.Equal(t, "low_stock", detail.StockLevel)
	require.Len(t, detail.RecentTransactions, 1)
	assert.Equal(t, domain.TransactionOut, detail.RecentTransactions[0].TransactionType)
}

func TestInventoryService_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inventory.Create(ctx, inventoryRequest("Glasreiniger 1L", "Reinigungsmittel", 12, 5, 3.49))
	require.NoError(t, err)
	low, err := f.inventory.Create(ctx, inventoryRequest("Allzweckreiniger", "Reinigungsmittel", 2, 5, 4.10))
	require.NoError(t, err)
	empty := inventoryRequest("Handschuhe M", "Schutzausrüstung", 0, 10, 0.35)
	empty.Status = domain.InventoryStatusInactive
	_, err = f.inventory.Create(ctx, empty)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err := f.inventory.Adjust(ctx, low.ID, &domain.StockAdjustmentRequest{
			TransactionType: domain.TransactionIn,
			QuantityChange:  ptr(1),
		})
		require.NoError(t, err)
	}

	stats, err := f.inventory.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalItems)
	assert.Equal(t, int64(2), stats.ActiveItems)
	assert.Equal(t, int64(0), stats.LowStockItems)
	assert.Equal(t, int64(1), stats.OutOfStockItems)
	// 12 × 3.49 + 8 × 4.10
	assert.Equal(t, 74.68, stats.TotalValue)
	assert.Equal(t, map[string]int64{"Reinigungsmittel": 2, "Schutzausrüstung": 1}, stats.CategoryCounts)
	require.Len(t, stats.RecentTransactions, 5)
	assert.Equal(t, 8, stats.RecentTransactions[0].QuantityAfter)
}

func TestInventoryService_Categories(t *testing.T) {
	f := newFixture(t)

	categories := f.inventory.Categories()
	assert.Len(t, categories.Categories, 7)
	assert.Contains(t, categories.Categories, "Maschinen")
}
