package domain_test

import (
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []domain.PricedLine
		taxRate  float64
		expected domain.Totals
	}{
		{
			name:     "no lines",
			taxRate:  19,
			expected: domain.Totals{},
		},
		{
			name: "standard rate rounds tax to cents",
			lines: []domain.PricedLine{
				{Quantity: 2, UnitPrice: 12.50},
				{Quantity: 3, UnitPrice: 0.15},
			},
			taxRate:  19,
			expected: domain.Totals{Subtotal: 25.45, TaxAmount: 4.84, TotalAmount: 30.29},
		},
		{
			name: "optional lines are excluded",
			lines: []domain.PricedLine{
				{Quantity: 100, UnitPrice: 2.50},
				{Quantity: 10, UnitPrice: 4.50, IsOptional: true},
			},
			taxRate:  19,
			expected: domain.Totals{Subtotal: 250, TaxAmount: 47.5, TotalAmount: 297.5},
		},
		{
			name: "decimal arithmetic avoids float drift",
			lines: []domain.PricedLine{
				{Quantity: 3, UnitPrice: 0.1},
			},
			taxRate:  0,
			expected: domain.Totals{Subtotal: 0.3, TaxAmount: 0, TotalAmount: 0.3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ComputeTotals(tt.lines, tt.taxRate))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 37.5, domain.LineTotal(1.5, 25))
	assert.Equal(t, 0.45, domain.LineTotal(3, 0.15))
}

func TestNewPagination(t *testing.T) {
	p := domain.NewPagination(101, 2, 50)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, int64(101), p.Total)

	assert.Equal(t, 0, domain.NewPagination(0, 1, 50).Pages)
}
