// Package security guards user-entered text on its way into the row store.
//
// Live sheets interpret a cell that starts with a formula trigger, so a
// product name such as "=IMPORTXML(...)" would run as a formula in the
// shared workbook. CellGuard neutralizes those values and strips control
// characters before rows are written.
package security

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"indentdesk/internal/sheets"
)

// ThreatType names a problem found in a cell value
type ThreatType string

const (
	ThreatFormulaInjection  ThreatType = "formula_injection"
	ThreatControlCharacters ThreatType = "control_characters"
	ThreatMalformedInput    ThreatType = "malformed_input"
)

// formulaTriggers start a formula (or a DDE payload) in common spreadsheets
const formulaTriggers = "=+-@\t\r"

// quotePrefix forces a spreadsheet to treat the rest of the cell as text
const quotePrefix = "'"

// Result is the outcome of sanitizing one value
type Result struct {
	Value   string
	Threats []ThreatType
}

// Changed reports whether sanitizing altered the value
func (r Result) Changed() bool {
	return len(r.Threats) > 0
}

// CellGuard sanitizes cell text before it is written
type CellGuard struct {
	logger *slog.Logger
}

// NewCellGuard creates a cell guard
func NewCellGuard(logger *slog.Logger) *CellGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &CellGuard{logger: logger.With(slog.String("component", "cell_guard"))}
}

// Sanitize cleans a single value. Numbers, including negative ones, and a
// lone trigger character such as a "-" placeholder pass through untouched.
func (g *CellGuard) Sanitize(value string) Result {
	var threats []ThreatType

	if !utf8.ValidString(value) {
		value = strings.ToValidUTF8(value, "")
		threats = append(threats, ThreatMalformedInput)
	}

	if cleaned := removeControlCharacters(value); cleaned != value {
		value = cleaned
		threats = append(threats, ThreatControlCharacters)
	}

	if isFormula(value) {
		value = quotePrefix + value
		threats = append(threats, ThreatFormulaInjection)
	}

	return Result{Value: value, Threats: threats}
}

// SanitizeRows cleans every string cell of rows in place and logs each
// value it had to change
func (g *CellGuard) SanitizeRows(ctx context.Context, sheet string, rows []sheets.Row) {
	for i, row := range rows {
		for column, v := range row {
			s, ok := v.(string)
			if !ok {
				continue
			}
			res := g.Sanitize(s)
			if !res.Changed() {
				continue
			}
			row[column] = res.Value

			threats := make([]string, len(res.Threats))
			for j, t := range res.Threats {
				threats[j] = string(t)
			}
			g.logger.WarnContext(ctx, "suspicious cell value sanitized",
				slog.String("sheet", sheet),
				slog.Int("row", i+1),
				slog.String("column", column),
				slog.String("threats", strings.Join(threats, ",")),
			)
		}
	}
}

func isFormula(value string) bool {
	if len(value) < 2 || !strings.ContainsRune(formulaTriggers, rune(value[0])) {
		return false
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return false
	}
	return true
}

// removeControlCharacters drops non-printable runes, keeping tabs and
// line breaks
func removeControlCharacters(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
