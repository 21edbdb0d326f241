package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the German standard VAT rate in percent
const DefaultTaxRate = 19.0

// Totals are the computed amounts of a quote or invoice
type Totals struct {
	Subtotal    float64
	TaxAmount   float64
	TotalAmount float64
}

// PricedLine is one line that contributes to a document total
type PricedLine struct {
	Quantity   float64
	UnitPrice  float64
	IsOptional bool
}

// LineTotal returns quantity × unit price rounded to cents
func LineTotal(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(unitPrice)).
		Round(2).
		InexactFloat64()
}

// ComputeTotals sums the non-optional lines and applies the tax rate (percent).
// All arithmetic is decimal; results are rounded half away from zero to 2 places.
func ComputeTotals(lines []PricedLine, taxRate float64) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.IsOptional {
			continue
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(l.Quantity).Mul(decimal.NewFromFloat(l.UnitPrice)).Round(2))
	}
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Div(decimal.NewFromInt(100)).Round(2)
	return Totals{
		Subtotal:    subtotal.Round(2).InexactFloat64(),
		TaxAmount:   tax.InexactFloat64(),
		TotalAmount: subtotal.Add(tax).Round(2).InexactFloat64(),
	}
}

// RoundHours rounds a duration in hours to two places
func RoundHours(hours float64) float64 {
	return decimal.NewFromFloat(hours).Round(2).InexactFloat64()
}
