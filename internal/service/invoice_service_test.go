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

func invoiceRequest(customerID int64, invoiceDate string, amount float64) *domain.InvoiceRequest {
	return &domain.InvoiceRequest{
		CustomerID:  &customerID,
		InvoiceDate: invoiceDate,
		Items: []domain.LineItemRequest{
			{Description: "Unterhaltsreinigung März", Quantity: ptr(1.0), UnitPrice: ptr(amount)},
		},
	}
}

func TestInvoiceService_Create_Defaults(t *testing.T) {
	f := newFixture(t)
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	invoice, err := f.invoices.Create(context.Background(), invoiceRequest(customer.ID, "", 250))
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-001", invoice.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, domain.PaymentBankTransfer, invoice.PaymentMethod)
	assert.Equal(t, "2025-03-12", invoice.InvoiceDate)
	assert.Equal(t, "2025-03-26", invoice.DueDate)
	assert.Equal(t, 250.0, invoice.Subtotal)
	assert.Equal(t, 47.5, invoice.TaxAmount)
	assert.Equal(t, 297.5, invoice.TotalAmount)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Stk", invoice.Items[0].Unit)
}

func TestInvoiceService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	req := invoiceRequest(customer.ID, "2025-03-10", 100)
	req.DueDate = "2025-03-01"
	_, err := f.invoices.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	req = invoiceRequest(customer.ID, "", 100)
	req.OrderID = ptr(int64(42))
	_, err = f.invoices.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrUnknownOrder)

	_, err = f.invoices.Create(ctx, invoiceRequest(999, "", 100))
	assert.ErrorIs(t, err, service.ErrUnknownCustomer)
}

func TestInvoiceService_Send(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	invoice, err := f.invoices.Create(ctx, invoiceRequest(customer.ID, "", 100))
	require.NoError(t, err)

	sent, err := f.invoices.Send(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, sent.Status)
	assert.Equal(t, "2025-03-12T10:30:00Z", sent.SentAt)

	_, err = f.invoices.Send(ctx, invoice.ID)
	assert.ErrorIs(t, err, service.ErrInvoiceNotDraft)

	_, err = f.invoices.Send(ctx, 999)
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

func TestInvoiceService_UpdateStatus_Paid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	invoice, err := f.invoices.Create(ctx, invoiceRequest(customer.ID, "", 100))
	require.NoError(t, err)

	paid, err := f.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, "2025-03-12", paid.PaymentDate)

	_, err = f.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatus("refunded"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	// due 2025-02-15
	late, err := f.invoices.Create(ctx, invoiceRequest(customer.ID, "2025-02-01", 100))
	require.NoError(t, err)
	_, err = f.invoices.Send(ctx, late.ID)
	require.NoError(t, err)

	// due today
	current, err := f.invoices.Create(ctx, invoiceRequest(customer.ID, "2025-02-26", 100))
	require.NoError(t, err)
	_, err = f.invoices.Send(ctx, current.ID)
	require.NoError(t, err)

	draft, err := f.invoices.Create(ctx, invoiceRequest(customer.ID, "2025-01-01", 100))
	require.NoError(t, err)

	count, err := f.invoices.MarkOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := f.invoices.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, got.Status)

	got, err = f.invoices.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, got.Status)

	got, err = f.invoices.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusDraft, got.Status)

	count, err = f.invoices.MarkOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInvoiceService_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	create := func(date string, amount float64) int64 {
		invoice, err := f.invoices.Create(ctx, invoiceRequest(customer.ID, date, amount))
		require.NoError(t, err)
		return invoice.ID
	}
	create("2025-01-10", 100)         // 119.00
	paid := create("2025-03-05", 0.1) // 0.12
	sent := create("2025-03-06", 10)  // 11.90
	create("2024-12-31", 1000)        // previous year

	_, err := f.invoices.UpdateStatus(ctx, paid, domain.InvoiceStatusPaid)
	require.NoError(t, err)
	_, err = f.invoices.UpdateStatus(ctx, sent, domain.InvoiceStatusOverdue)
	require.NoError(t, err)

	stats, err := f.invoices.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"draft": 2, "paid": 1, "overdue": 1}, stats.StatusCounts)
	assert.Equal(t, map[string]float64{"draft": 1309, "paid": 0.12, "overdue": 11.9}, stats.AmountByStatus)
	assert.Equal(t, int64(1), stats.OverdueInvoices)

	require.Len(t, stats.MonthlyTotals, 12)
	assert.Equal(t, domain.MonthlyAmountDTO{Month: 1, Total: 119, Count: 1}, stats.MonthlyTotals[0])
	assert.Equal(t, domain.MonthlyAmountDTO{Month: 2}, stats.MonthlyTotals[1])
	assert.Equal(t, domain.MonthlyAmountDTO{Month: 3, Total: 12.02, Count: 2}, stats.MonthlyTotals[2])
	assert.Equal(t, domain.MonthlyAmountDTO{Month: 12}, stats.MonthlyTotals[11])
}
