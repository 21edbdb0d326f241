package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_Adjust(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInventoryRepository(db)
	ctx := context.Background()

	item := &domain.InventoryItem{Name: "Glasreiniger", Category: "Reinigungsmittel", Quantity: 10, Unit: "Flasche", ReorderPoint: 3}
	require.NoError(t, repo.Create(ctx, item))

	updated, movement, err := repo.Adjust(ctx, item.ID, func(it *domain.InventoryItem) (*domain.InventoryTransaction, error) {
		return &domain.InventoryTransaction{
			TransactionType: domain.TransactionOut,
			QuantityChange:  -4,
			QuantityBefore:  it.Quantity,
			QuantityAfter:   it.Quantity - 4,
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
	assert.Equal(t, item.ID, movement.ItemID)
	assert.NotZero(t, movement.ID)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Quantity)

	t.Run("mutation error writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		_, _, err := repo.Adjust(ctx, item.ID, func(*domain.InventoryItem) (*domain.InventoryTransaction, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		txs, err := repo.RecentTransactions(ctx, &item.ID, 10)
		require.NoError(t, err)
		assert.Len(t, txs, 1)
	})
}

func TestInventoryRepository_ListLowStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInventoryRepository(db)
	ctx := context.Background()

	for _, it := range []domain.InventoryItem{
		{Name: "Besen", Quantity: 2, ReorderPoint: 5, Unit: "Stück"},
		{Name: "Mopp", Quantity: 0, ReorderPoint: 0, Unit: "Stück"},
		{Name: "Eimer", Quantity: 20, ReorderPoint: 5, Unit: "Stück"},
	} {
		it := it
		require.NoError(t, repo.Create(ctx, &it))
	}

	rows, total, err := repo.List(ctx, repository.InventoryFilters{LowStock: true}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Besen", rows[0].Name, "inventory is sorted by name")
}
