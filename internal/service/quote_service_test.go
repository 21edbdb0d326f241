package service_test

import (
	"context"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteRequest(customerID int64, validUntil string) *domain.QuoteRequest {
	return &domain.QuoteRequest{
		CustomerID: &customerID,
		Title:      "Angebot Treppenhausreinigung",
		ValidUntil: validUntil,
		Items: []domain.LineItemRequest{
			{Description: "Treppenhaus wischen", Quantity: ptr(4.0), Unit: "Etage", UnitPrice: ptr(12.5)},
			{Description: "Fenster Treppenhaus", Quantity: ptr(1.5), UnitPrice: ptr(33.33)},
			{Description: "Grundreinigung", Quantity: ptr(1.0), UnitPrice: ptr(120.0), IsOptional: true},
		},
	}
}

func TestQuoteService_Create_ComputesTotals(t *testing.T) {
	f := newFixture(t)
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	quote, err := f.quotes.Create(context.Background(), quoteRequest(customer.ID, ""))
	require.NoError(t, err)

	assert.Equal(t, "AN-2025-001", quote.QuoteNumber)
	assert.Equal(t, domain.QuoteStatusDraft, quote.Status)
	assert.Equal(t, "2025-04-11", quote.ValidUntil)
	assert.Equal(t, 19.0, quote.TaxRate)

	// 4 × 12.50 + 1.5 × 33.33 (49.995 → 50.00); the optional line is not billed
	assert.Equal(t, 100.0, quote.Subtotal)
	assert.Equal(t, 19.0, quote.TaxAmount)
	assert.Equal(t, 119.0, quote.TotalAmount)

	require.Len(t, quote.Items, 3)
	assert.Equal(t, "Etage", quote.Items[0].Unit)
	assert.Equal(t, "Stück", quote.Items[1].Unit)
	assert.Equal(t, 50.0, quote.Items[1].TotalPrice)
	assert.True(t, quote.Items[2].IsOptional)
	assert.Equal(t, 120.0, quote.Items[2].TotalPrice)
}

func TestQuoteService_Update_ReplacesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	quote, err := f.quotes.Create(ctx, quoteRequest(customer.ID, "2025-05-01"))
	require.NoError(t, err)

	req := quoteRequest(customer.ID, "")
	req.TaxRate = ptr(7.0)
	req.Items = req.Items[:1]

	updated, err := f.quotes.Update(ctx, quote.ID, req)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "2025-05-01", updated.ValidUntil, "an omitted valid_until keeps the stored date")
	assert.Equal(t, 50.0, updated.Subtotal)
	assert.Equal(t, 3.5, updated.TaxAmount)
	assert.Equal(t, 53.5, updated.TotalAmount)
}

func TestQuoteService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	quote, err := f.quotes.Create(ctx, quoteRequest(customer.ID, ""))
	require.NoError(t, err)

	sent, err := f.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusSent)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusSent, sent.Status)
	assert.Equal(t, "2025-03-12T10:30:00Z", sent.SentAt)
	assert.Empty(t, sent.AcceptedAt)

	accepted, err := f.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12T10:30:00Z", accepted.AcceptedAt)

	_, err = f.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatus("paid"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	_, err = f.quotes.UpdateStatus(ctx, 999, domain.QuoteStatusSent)
	assert.ErrorIs(t, err, service.ErrQuoteNotFound)
}

func TestQuoteService_Templates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.quotes.ListTemplates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all.Templates, 3)
	assert.Equal(t, int64(3), all.Total)

	garden, err := f.quotes.ListTemplates(ctx, domain.ServiceGardenMaintenance)
	require.NoError(t, err)
	require.Len(t, garden.Templates, 1)
	assert.Equal(t, "Standard Gartenpflege", garden.Templates[0].Name)
	assert.Len(t, garden.Templates[0].Items, 7)

	_, err = f.quotes.GetTemplate(ctx, 999)
	assert.ErrorIs(t, err, service.ErrTemplateNotFound)
}

func TestQuoteService_GenerateFromTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	garden, err := f.quotes.ListTemplates(ctx, domain.ServiceGardenMaintenance)
	require.NoError(t, err)
	template := garden.Templates[0]

	quote, err := f.quotes.GenerateFromTemplate(ctx, template.ID, &domain.GenerateQuoteRequest{
		CustomerID:  &customer.ID,
		ServiceCity: "Potsdam",
	})
	require.NoError(t, err)

	assert.Equal(t, "AN-2025-001", quote.QuoteNumber)
	assert.Equal(t, "Angebot für Gartenpflege", quote.Title)
	assert.Equal(t, domain.ServiceGardenMaintenance, quote.ServiceType)
	assert.Equal(t, "Potsdam", quote.ServiceCity)
	assert.Equal(t, "2025-04-11", quote.ValidUntil)
	assert.Equal(t, template.DefaultTerms, quote.TermsConditions)
	require.Len(t, quote.Items, 7)
	assert.Equal(t, "Rasenmähen", quote.Items[0].Description)

	// the two optional lines (Baumschnitt, Düngen) are not billed
	assert.Equal(t, 22.4, quote.Subtotal)
	assert.Equal(t, 4.26, quote.TaxAmount)
	assert.Equal(t, 26.66, quote.TotalAmount)

	titled, err := f.quotes.GenerateFromTemplate(ctx, template.ID, &domain.GenerateQuoteRequest{
		CustomerID: &customer.ID,
		Title:      "Gartenpflege Sommer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gartenpflege Sommer", titled.Title)

	_, err = f.quotes.GenerateFromTemplate(ctx, 999, &domain.GenerateQuoteRequest{CustomerID: &customer.ID})
	assert.ErrorIs(t, err, service.ErrTemplateNotFound)

	_, err = f.quotes.GenerateFromTemplate(ctx, template.ID, &domain.GenerateQuoteRequest{CustomerID: ptr(int64(999))})
	assert.ErrorIs(t, err, service.ErrUnknownCustomer)
}

func TestQuoteService_ExpireOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	stale, err := f.quotes.Create(ctx, quoteRequest(customer.ID, "2025-03-01"))
	require.NoError(t, err)
	sentStale, err := f.quotes.Create(ctx, quoteRequest(customer.ID, "2025-03-11"))
	require.NoError(t, err)
	_, err = f.quotes.UpdateStatus(ctx, sentStale.ID, domain.QuoteStatusSent)
	require.NoError(t, err)
	accepted, err := f.quotes.Create(ctx, quoteRequest(customer.ID, "2025-03-01"))
	require.NoError(t, err)
	_, err = f.quotes.UpdateStatus(ctx, accepted.ID, domain.QuoteStatusAccepted)
	require.NoError(t, err)
	today, err := f.quotes.Create(ctx, quoteRequest(customer.ID, "2025-03-12"))
	require.NoError(t, err)

	count, err := f.quotes.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, domain.ChangeEvent{Type: "quote", Action: domain.ChangeUpdated}, f.events.last())

	for id, want := range map[int64]domain.QuoteStatus{
		stale.ID:     domain.QuoteStatusExpired,
		sentStale.ID: domain.QuoteStatusExpired,
		accepted.ID:  domain.QuoteStatusAccepted,
		today.ID:     domain.QuoteStatusDraft,
	} {
		got, err := f.quotes.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "quote %d", id)
	}
}
