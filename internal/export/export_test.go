package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/export"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteXLSX(&buf, export.Table{
		Sheet:   "Inventar",
		Headers: []string{"Artikel", "Bestand", "Einzelpreis"},
		Rows: [][]interface{}{
			{"Glasreiniger", 12, 3.49},
			{"Mopp", 0, 12.5},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventar"}, f.GetSheetList())
	rows, err := f.GetRows("Inventar")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Artikel", "Bestand", "Einzelpreis"},
		{"Glasreiniger", "12", "3.49"},
		{"Mopp", "0", "12.5"},
	}, rows)
}

func TestExporter_Table(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, "Anna", "Schmidt", "anna@example.com")

	invoiceDate := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&domain.Invoice{
		InvoiceNumber: "INV-2025-001",
		CustomerID:    customer.ID,
		InvoiceDate:   invoiceDate,
		Subtotal:      100,
		TaxRate:       19,
		TaxAmount:     19,
		TotalAmount:   119,
		Status:        domain.InvoiceStatusSent,
		PaymentMethod: domain.PaymentBankTransfer,
	}).Error)

	exporter := export.NewExporter(
		repository.NewCustomerRepository(db),
		repository.NewOrderRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewInventoryRepository(db),
		repository.NewTimeEntryRepository(db),
		zap.NewNop(),
	)

	assert.Equal(t, []string{"customers", "inventory", "invoices", "orders", "time-entries"}, exporter.Resources())

	customers, err := exporter.Table(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, customers.Rows, 1)
	assert.Equal(t, "Anna", customers.Rows[0][1])
	assert.Equal(t, "Ja", customers.Rows[0][11])

	invoices, err := exporter.Table(ctx, "invoices")
	require.NoError(t, err)
	require.Len(t, invoices.Rows, 1)
	assert.Equal(t, "INV-2025-001", invoices.Rows[0][0])
	assert.Equal(t, "Anna Schmidt", invoices.Rows[0][1])
	assert.Equal(t, "12.03.2025", invoices.Rows[0][2])
	assert.Equal(t, 119.0, invoices.Rows[0][7])
	assert.Len(t, invoices.Rows[0], len(invoices.Headers))

	empty, err := exporter.Table(ctx, "time-entries")
	require.NoError(t, err)
	assert.Empty(t, empty.Rows)

	_, err = exporter.Table(ctx, "users")
	assert.ErrorIs(t, err, export.ErrUnknownResource)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "orders-2025-03-12.xlsx", export.Filename("orders", time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)))
}
