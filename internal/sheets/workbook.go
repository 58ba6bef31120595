package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"indentdesk/pkg/contracts/domain"
)

// ErrRowNotFound is returned when an update or delete matches no row
var ErrRowNotFound = errors.New("no matching row")

// Workbook is a local XLSX file with one worksheet per sheet name. It
// serves offline work and tests with the same layout as the live
// spreadsheet: a header row, then one row per record.
type Workbook struct {
	mu        sync.RWMutex
	path      string
	uploadDir string
	logger    *slog.Logger
}

// OpenWorkbook opens path, creating an empty workbook with every sheet if
// the file does not exist yet
func OpenWorkbook(path string, logger *slog.Logger) (*Workbook, error) {
	w := &Workbook{
		path:      path,
		uploadDir: filepath.Join(filepath.Dir(path), "uploads"),
		logger:    logger.With(slog.String("component", "workbook"), slog.String("path", path)),
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := w.create(); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}
	return w, nil
}

func (w *Workbook) create() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range domain.AllSheets {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("workbook created")
	return nil
}

// Fetch reads the rows of a sheet
func (w *Workbook) Fetch(_ context.Context, sheet string) ([]Row, error) {
	if err := ValidateSheet(sheet); err != nil {
		return nil, err
	}

	grid, err := w.readGrid(sheet)
	if err != nil {
		return nil, err
	}
	return dropBlankTimestamps(rowsFromGrid(grid)), nil
}

// FetchMaster reads the MASTER sheet column by column
func (w *Workbook) FetchMaster(_ context.Context) (domain.MasterOptions, error) {
	grid, err := w.readGrid(domain.SheetMaster)
	if err != nil {
		return domain.MasterOptions{}, err
	}
	return BuildMaster(columnsFromGrid(grid)), nil
}

func (w *Workbook) readGrid(sheet string) ([][]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return [][]string{}, nil
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return grid, nil
}

// Insert appends rows below the last used row. Keys without a column get a
// new header cell.
func (w *Workbook) Insert(_ context.Context, sheet string, rows []Row) error {
	if err := ValidateSheet(sheet); err != nil {
		return err
	}
	return w.mutate(sheet, func(f *excelize.File, grid [][]string, columns map[string]int) error {
		next := len(grid) + 1
		if next < 2 {
			next = 2
		}
		for i, row := range rows {
			if err := setCells(f, sheet, next+i, columns, row); err != nil {
				return err
			}
		}
		return nil
	}, rows)
}

// Update merges each row into the existing row it matches
func (w *Workbook) Update(_ context.Context, sheet string, rows []Row) error {
	if err := ValidateSheet(sheet); err != nil {
		return err
	}
	return w.mutate(sheet, func(f *excelize.File, grid [][]string, columns map[string]int) error {
		for _, row := range rows {
			matches := matchRows(grid, columns, row)
			if len(matches) == 0 {
				return fmt.Errorf("%w in %s for %s", ErrRowNotFound, sheet, describeRow(row))
			}
			for _, sheetRow := range matches {
				if err := setCells(f, sheet, sheetRow, columns, row); err != nil {
					return err
				}
			}
		}
		return nil
	}, rows)
}

// Delete removes every row matching one of rows
func (w *Workbook) Delete(_ context.Context, sheet string, rows []Row) error {
	if err := ValidateSheet(sheet); err != nil {
		return err
	}
	return w.mutate(sheet, func(f *excelize.File, grid [][]string, columns map[string]int) error {
		targets := make(map[int]struct{})
		for _, row := range rows {
			matches := matchRows(grid, columns, row)
			if len(matches) == 0 {
				return fmt.Errorf("%w in %s for %s", ErrRowNotFound, sheet, describeRow(row))
			}
			for _, m := range matches {
				targets[m] = struct{}{}
			}
		}

		ordered := make([]int, 0, len(targets))
		for r := range targets {
			ordered = append(ordered, r)
		}
		// Remove bottom-up so earlier row numbers stay valid
		sort.Sort(sort.Reverse(sort.IntSlice(ordered)))
		for _, r := range ordered {
			if err := f.RemoveRow(sheet, r); err != nil {
				return fmt.Errorf("failed to remove row %d: %w", r, err)
			}
		}
		return nil
	}, nil)
}

// Upload copies the file next to the workbook and returns a file URL.
// There is no mailer offline, so email uploads are only logged.
func (w *Workbook) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if err := os.MkdirAll(w.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + "-" + filepath.Base(req.FileName)
	target := filepath.Join(w.uploadDir, name)
	if err := os.WriteFile(target, req.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}

	if req.UploadType == UploadTypeEmail {
		w.logger.WarnContext(ctx, "email delivery is not available for workbook uploads",
			slog.String("email", req.Email),
			slog.String("file", name),
		)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

type mutation func(f *excelize.File, grid [][]string, columns map[string]int) error

// mutate opens the workbook, ensures the sheet and the header columns for
// newKeys exist, applies fn and saves
func (w *Workbook) mutate(sheet string, fn mutation, newKeys []Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", sheet, err)
	}

	columns, err := ensureColumns(f, sheet, grid, newKeys)
	if err != nil {
		return err
	}

	if err := fn(f, grid, columns); err != nil {
		return err
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ensureColumns maps row keys to 1-based column numbers, appending header
// cells for keys not present yet
func ensureColumns(f *excelize.File, sheet string, grid [][]string, rows []Row) (map[string]int, error) {
	columns := make(map[string]int)
	var headers []string
	if len(grid) > 0 {
		headers = grid[0]
	}
	for i, header := range headers {
		if key := HeaderKey(header); key != "" {
			columns[key] = i + 1
		}
	}

	missing := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			if _, ok := columns[key]; !ok && key != "rowIndex" {
				missing[key] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(missing))
	for key := range missing {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	next := len(headers) + 1
	for _, key := range keys {
		cell, err := excelize.CoordinatesToCellName(next, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, key); err != nil {
			return nil, fmt.Errorf("failed to write header %s: %w", key, err)
		}
		columns[key] = next
		next++
	}
	return columns, nil
}

func setCells(f *excelize.File, sheet string, sheetRow int, columns map[string]int, row Row) error {
	for key, value := range row {
		col, ok := columns[key]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col, sheetRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", cell, err)
		}
	}
	return nil
}

// matchRows finds the 1-based sheet rows a write targets: the rowIndex
// when one is given, otherwise every row with the same indent number (and
// product name when present)
func matchRows(grid [][]string, columns map[string]int, row Row) []int {
	if idx := int(toFloat(row["rowIndex"])); idx > 0 {
		if idx < len(grid) {
			return []int{idx + 1}
		}
		return nil
	}

	number := cellString(row["indentNumber"])
	if number == "" {
		return nil
	}
	product := cellString(row["productName"])

	var matches []int
	for r := 1; r < len(grid); r++ {
		if cellAt(grid[r], columns["indentNumber"]) != number {
			continue
		}
		if product != "" && cellAt(grid[r], columns["productName"]) != product {
			continue
		}
		matches = append(matches, r+1)
	}
	return matches
}

func cellAt(cells []string, col int) string {
	if col <= 0 || col > len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1])
}

func describeRow(row Row) string {
	if idx, ok := row["rowIndex"]; ok {
		return fmt.Sprintf("rowIndex %v", idx)
	}
	return fmt.Sprintf("indentNumber %q", cellString(row["indentNumber"]))
}

func toFloat(v interface{}) float64 {
	return domain.ParseNumber(cellString(v)).Float()
}
