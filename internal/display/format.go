package display

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var german = message.NewPrinter(language.German)

// NotAvailable is shown in place of a missing value
const NotAvailable = "N/A"

// FormatCurrency renders an amount in euros the German way, e.g. "1.234,50 €"
func FormatCurrency(amount float64) string {
	return german.Sprintf("%.2f €", amount)
}

// FormatCurrencyPtr renders nil as NotAvailable
func FormatCurrencyPtr(amount *float64) string {
	if amount == nil {
		return NotAvailable
	}
	return FormatCurrency(*amount)
}

// FormatHours renders a duration in hours, e.g. "1,50 h"
func FormatHours(hours float64) string {
	return german.Sprintf("%.2f h", hours)
}

// FormatDate renders a calendar date as DD.MM.YYYY
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateString accepts the API's date (YYYY-MM-DD) or timestamp (RFC 3339)
// representation. Empty input renders NotAvailable; unparseable input is returned as is.
func FormatDateString(s string) string {
	if s == "" {
		return NotAvailable
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return FormatDate(t)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FormatDate(t.Local())
	}
	return s
}

// FormatClock renders the time of day of an RFC 3339 timestamp as HH:MM
func FormatClock(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("15:04")
}

// OrderNumberSuffix returns the running number of an order number such as
// ORD-2024-007 ("007"). Numbers without three segments are returned whole.
func OrderNumberSuffix(orderNumber string) string {
	parts := strings.Split(orderNumber, "-")
	if len(parts) < 3 {
		return orderNumber
	}
	return parts[2]
}
