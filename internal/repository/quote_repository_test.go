package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRepository_UpdateReplacesItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, "Eva", "Braun", "eva@example.com")

	quote := &domain.Quote{
		QuoteNumber: "AN-2025-001",
		CustomerID:  customer.ID,
		Title:       "Unterhaltsreinigung",
		TaxRate:     19,
		Status:      domain.QuoteStatusDraft,
		Items: []domain.QuoteItem{
			{Description: "Büro", Quantity: 1, Unit: "Stück", UnitPrice: 10, TotalPrice: 10},
			{Description: "Fenster", Quantity: 2, Unit: "m²", UnitPrice: 3, TotalPrice: 6, SortOrder: 1},
		},
	}
	require.NoError(t, repo.Create(ctx, quote))

	quote.Items = []domain.QuoteItem{
		{Description: "Treppenhaus", Quantity: 3, Unit: "Etage", UnitPrice: 25, TotalPrice: 75},
	}
	require.NoError(t, repo.Update(ctx, quote))

	stored, err := repo.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Treppenhaus", stored.Items[0].Description)
	require.NotNil(t, stored.Customer)
	assert.Equal(t, "eva@example.com", stored.Customer.Email)

	var orphans int64
	require.NoError(t, db.Model(&domain.QuoteItem{}).Count(&orphans).Error)
	assert.Equal(t, int64(1), orphans)
}

func TestQuoteRepository_ExpireBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, "Finn", "Vogel", "finn@example.com")

	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	past := today.AddDate(0, 0, -1)
	future := today.AddDate(0, 0, 10)

	quotes := []*domain.Quote{
		{QuoteNumber: "AN-1", Status: domain.QuoteStatusDraft, ValidUntil: &past},
		{QuoteNumber: "AN-2", Status: domain.QuoteStatusSent, ValidUntil: &past},
		{QuoteNumber: "AN-3", Status: domain.QuoteStatusAccepted, ValidUntil: &past},
		{QuoteNumber: "AN-4", Status: domain.QuoteStatusSent, ValidUntil: &future},
		{QuoteNumber: "AN-5", Status: domain.QuoteStatusDraft},
	}
	for _, q := range quotes {
		q.CustomerID = customer.ID
		q.Title = q.QuoteNumber
		q.TaxRate = 19
		require.NoError(t, repo.Create(ctx, q))
	}

	n, err := repo.ExpireBefore(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, _, err := repo.List(ctx, repository.QuoteFilters{Status: domain.QuoteStatusExpired}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	var numbers []string
	for _, q := range rows {
		numbers = append(numbers, q.QuoteNumber)
	}
	assert.ElementsMatch(t, []string{"AN-1", "AN-2"}, numbers)
}
