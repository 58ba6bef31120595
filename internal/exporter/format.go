package exporter

import (
	"strconv"
	"strings"
)

// formatFloat formats a quantity with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatList(values []string) string {
	return strings.Join(values, "; ")
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

// cellValue turns values this package formatted as numbers back into
// numbers so spreadsheet cells stay numeric. Other text, including
// zero-padded codes, stays a string.
func cellValue(s string) interface{} {
	if i, err := strconv.Atoi(s); err == nil && strconv.Itoa(i) == s {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && formatFloat(f) == s {
		return f
	}
	return s
}
