package display_test

import (
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/display"
	"github.com/stretchr/testify/assert"
)

func TestStockLevel(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		reorderPoint int
		expected     display.Stock
	}{
		{"empty shelf", 0, 5, display.StockOut},
		{"negative quantity", -3, 5, display.StockOut},
		{"empty shelf wins over zero reorder point", 0, 0, display.StockOut},
		{"empty shelf wins over negative reorder point", 0, -1, display.StockOut},
		{"at reorder point", 5, 5, display.StockLow},
		{"below reorder point", 2, 5, display.StockLow},
		{"above reorder point", 6, 5, display.StockAvailable},
		{"positive with zero reorder point", 1, 0, display.StockAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, display.StockLevel(tt.quantity, tt.reorderPoint))
		})
	}
}

func TestStockBadge(t *testing.T) {
	assert.Equal(t, "Ausverkauft", display.StockBadge(0, 10).Label)
	assert.Equal(t, "Niedriger Bestand", display.StockBadge(3, 10).Label)
	assert.Equal(t, "Verfügbar", display.StockBadge(11, 10).Label)
}

func TestScoreBucket(t *testing.T) {
	tests := []struct {
		score    float64
		expected display.Bucket
	}{
		{100, display.BucketExcellent},
		{90, display.BucketExcellent},
		{89.99, display.BucketGood},
		{75, display.BucketGood},
		{74.5, display.BucketAcceptable},
		{60, display.BucketAcceptable},
		{59.9, display.BucketPoor},
		{0, display.BucketPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, display.ScoreBucket(tt.score), "score %v", tt.score)
	}
}

func TestScoreBadge(t *testing.T) {
	b := display.ScoreBadge(85)
	assert.Equal(t, "85%", b.Label)
	assert.Equal(t, display.ColorBlue, b.Color)

	assert.Equal(t, display.ColorRed, display.ScoreBadge(12.5).Color)
}

func TestStatusBadge(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		b := display.StatusBadge(display.KindInvoiceStatus, "overdue")
		assert.Equal(t, "Überfällig", b.Label)
		assert.Equal(t, display.VariantDestructive, b.Variant)
	})

	t.Run("same value differs per kind", func(t *testing.T) {
		assert.Equal(t, "Versendet", display.Label(display.KindQuoteStatus, "sent"))
		assert.Equal(t, "Gesendet", display.Label(display.KindInvoiceStatus, "sent"))
	})

	t.Run("unknown value falls back to raw outline gray", func(t *testing.T) {
		b := display.StatusBadge(display.KindOrderStatus, "archived")
		assert.Equal(t, display.Badge{Label: "archived", Variant: display.VariantOutline, Color: display.ColorGray}, b)
	})

	t.Run("unknown kind falls back as well", func(t *testing.T) {
		b := display.StatusBadge(display.Kind("nope"), "pending")
		assert.Equal(t, "pending", b.Label)
		assert.Equal(t, display.ColorGray, b.Color)
	})
}

func TestOptions(t *testing.T) {
	opts := display.Options(display.KindServiceType, "building_cleaning", "winter_service")
	assert.Equal(t, []display.Option{
		{Value: "building_cleaning", Label: "Gebäudereinigung"},
		{Value: "winter_service", Label: "Winterdienst"},
	}, opts)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1.234,50 €", display.FormatCurrency(1234.5))
	assert.Equal(t, "0,00 €", display.FormatCurrency(0))
	assert.Equal(t, display.NotAvailable, display.FormatCurrencyPtr(nil))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05.03.2024", display.FormatDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "05.03.2024", display.FormatDateString("2024-03-05"))
	assert.Equal(t, display.NotAvailable, display.FormatDateString(""))
	assert.Equal(t, "garbage", display.FormatDateString("garbage"))
}

func TestOrderNumberSuffix(t *testing.T) {
	assert.Equal(t, "007", display.OrderNumberSuffix("ORD-2024-007"))
	assert.Equal(t, "LEGACY", display.OrderNumberSuffix("LEGACY"))
	assert.Equal(t, "A-B", display.OrderNumberSuffix("A-B"))
}
