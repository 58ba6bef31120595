package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"indentdesk/pkg/contracts/domain"
)

// WriteXLSX renders the dashboard as a workbook with one worksheet per
// section
func WriteXLSX(w io.Writer, d domain.Dashboard) error {
	f, err := buildWorkbook(d)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(d domain.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, section := range Sections(d) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", section.Title); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %s: %w", section.Title, err)
			}
		} else if _, err := f.NewSheet(section.Title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", section.Title, err)
		}

		if err := writeSection(f, section, bold); err != nil {
			f.Close()
			return nil, err
		}
	}

	summary, err := f.GetSheetIndex("Summary")
	if err == nil && summary >= 0 {
		f.SetActiveSheet(summary)
	}
	return f, nil
}

func writeSection(f *excelize.File, section Section, headerStyle int) error {
	if err := f.SetSheetRow(section.Title, "A1", &section.Headers); err != nil {
		return fmt.Errorf("failed to write %s headers: %w", section.Title, err)
	}

	last, err := excelize.CoordinatesToCellName(len(section.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(section.Title, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s headers: %w", section.Title, err)
	}

	for i, record := range section.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(section.Title, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", section.Title, i+1, err)
		}
	}
	return nil
}
