package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"indentdesk/pkg/contracts/domain"
)

// utf8BOM helps Excel recognise UTF-8 CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV rendering
type CSVOptions struct {
	BOMPrefix bool
}

// WriteCSV renders the dashboard as one CSV document. Sections are
// separated by a blank record and introduced by a single-cell title record.
func WriteCSV(w io.Writer, d domain.Dashboard, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	for i, section := range Sections(d) {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return fmt.Errorf("failed to write separator: %w", err)
			}
		}
		if err := writer.Write([]string{section.Title}); err != nil {
			return fmt.Errorf("failed to write %s title: %w", section.Title, err)
		}
		if err := writer.Write(section.Headers); err != nil {
			return fmt.Errorf("failed to write %s headers: %w", section.Title, err)
		}
		for j, record := range section.Rows {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write %s record %d: %w", section.Title, j, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
