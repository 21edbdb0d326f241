package view

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat reads a numeric form input. Empty, non-numeric, NaN and
// infinite input yields nil, which encodes as JSON null. A decimal comma is
// accepted, optionally with dots grouping the thousands ("1.234,50").
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s, ok := decimalComma(s)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// decimalComma rewrites "1.234,5" to "1234.5". Input without a comma is
// returned as is; a comma followed by a dot ("1,000.5") is rejected.
func decimalComma(s string) (string, bool) {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return s, true
	}
	whole, frac := s[:i], s[i+1:]
	if strings.ContainsAny(frac, ".,") || strings.Contains(whole, ",") {
		return "", false
	}
	if strings.Contains(whole, ".") {
		groups := strings.Split(strings.TrimLeft(whole, "+-"), ".")
		for j, g := range groups {
			if len(g) != 3 && (j > 0 || len(g) == 0 || len(g) > 3) {
				return "", false
			}
		}
		whole = strings.ReplaceAll(whole, ".", "")
	}
	return whole + "." + frac, true
}

// ParseInt reads an integer form input; anything else yields nil
func ParseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseID reads a record reference; zero and negative values yield nil
func ParseID(s string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// FormatFloat renders an optional number back into a form input
func FormatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func FormatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func FormatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
