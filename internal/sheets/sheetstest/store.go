// Package sheetstest provides an in-memory sheets.Store for tests
package sheetstest

import (
	"context"
	"fmt"
	"sync"

	"indentdesk/internal/sheets"
	"indentdesk/pkg/contracts/domain"
)

// Call records one store invocation
type Call struct {
	Op    string
	Sheet string
	Rows  []sheets.Row
}

// Store keeps sheet rows in memory. Writes follow the same matching rules
// as the workbook backend: rowIndex when set, otherwise indentNumber and
// the optional productName.
type Store struct {
	mu      sync.Mutex
	rows    map[string][]sheets.Row
	master  domain.MasterOptions
	errs    map[string]error
	calls   []Call
	uploads []sheets.UploadRequest
	// FileURL is returned by Upload
	FileURL string
}

// New returns an empty store
func New() *Store {
	return &Store{
		rows:    make(map[string][]sheets.Row),
		errs:    make(map[string]error),
		FileURL: "https://drive.example.com/file/1",
	}
}

// Seed replaces the rows of a sheet. rowIndex is assigned from position.
func (s *Store) Seed(sheet string, rows ...sheets.Row) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]sheets.Row, 0, len(rows))
	for _, row := range rows {
		copied = append(copied, clone(row))
	}
	s.rows[sheet] = copied
	s.reindex(sheet)
	return s
}

// SeedRecords encodes typed records and seeds them
func SeedRecords[T any](s *Store, sheet string, records ...T) *Store {
	rows, err := sheets.Encode(records)
	if err != nil {
		panic(fmt.Sprintf("sheetstest: encode %s: %v", sheet, err))
	}
	for _, row := range rows {
		delete(row, "rowIndex")
	}
	return s.Seed(sheet, rows...)
}

// SetMaster sets the options FetchMaster returns
func (s *Store) SetMaster(opts domain.MasterOptions) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = opts
	return s
}

// FailOn makes op ("fetch", "insert", "update", "delete", "master",
// "upload") fail with err. A nil err clears the failure.
func (s *Store) FailOn(op string, err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
	} else {
		s.errs[op] = err
	}
	return s
}

// Calls returns the recorded invocations
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsFor returns the recorded invocations of op
func (s *Store) CallsFor(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Uploads returns every upload request received
func (s *Store) Uploads() []sheets.UploadRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.UploadRequest(nil), s.uploads...)
}

// Rows returns a copy of a sheet's rows
func (s *Store) Rows(sheet string) []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.Row, 0, len(s.rows[sheet]))
	for _, row := range s.rows[sheet] {
		out = append(out, clone(row))
	}
	return out
}

func (s *Store) Fetch(_ context.Context, sheet string) ([]sheets.Row, error) {
	if err := s.begin("fetch", sheet, nil); err != nil {
		return nil, err
	}
	return s.Rows(sheet), nil
}

func (s *Store) FetchMaster(_ context.Context) (domain.MasterOptions, error) {
	if err := s.begin("master", domain.SheetMaster, nil); err != nil {
		return domain.MasterOptions{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master, nil
}

func (s *Store) Insert(_ context.Context, sheet string, rows []sheets.Row) error {
	if err := s.begin("insert", sheet, rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.rows[sheet] = append(s.rows[sheet], clone(row))
	}
	s.reindex(sheet)
	return nil
}

func (s *Store) Update(_ context.Context, sheet string, rows []sheets.Row) error {
	if err := s.begin("update", sheet, rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		matches := s.match(sheet, row)
		if len(matches) == 0 {
			return fmt.Errorf("%w in %s", sheets.ErrRowNotFound, sheet)
		}
		for _, i := range matches {
			for k, v := range row {
				if k != "rowIndex" {
					s.rows[sheet][i][k] = v
				}
			}
		}
	}
	return nil
}

func (s *Store) Delete(_ context.Context, sheet string, rows []sheets.Row) error {
	if err := s.begin("delete", sheet, rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[int]bool)
	for _, row := range rows {
		for _, i := range s.match(sheet, row) {
			drop[i] = true
		}
	}
	kept := s.rows[sheet][:0]
	for i, row := range s.rows[sheet] {
		if !drop[i] {
			kept = append(kept, row)
		}
	}
	s.rows[sheet] = kept
	s.reindex(sheet)
	return nil
}

func (s *Store) Upload(_ context.Context, req sheets.UploadRequest) (string, error) {
	if err := s.begin("upload", "", nil); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, req)
	return s.FileURL, nil
}

func (s *Store) begin(op, sheet string, rows []sheets.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]sheets.Row, 0, len(rows))
	for _, row := range rows {
		copied = append(copied, clone(row))
	}
	s.calls = append(s.calls, Call{Op: op, Sheet: sheet, Rows: copied})
	if err := s.errs[op]; err != nil {
		return err
	}
	if sheet != "" {
		return sheets.ValidateSheet(sheet)
	}
	return nil
}

func (s *Store) match(sheet string, row sheets.Row) []int {
	if idx := rowIndex(row["rowIndex"]); idx > 0 {
		if idx <= len(s.rows[sheet]) {
			return []int{idx - 1}
		}
		return nil
	}

	number := fmt.Sprint(row["indentNumber"])
	if row["indentNumber"] == nil || number == "" {
		return nil
	}
	product, hasProduct := row["productName"]

	var matches []int
	for i, existing := range s.rows[sheet] {
		if fmt.Sprint(existing["indentNumber"]) != number {
			continue
		}
		if hasProduct && product != "" && fmt.Sprint(existing["productName"]) != fmt.Sprint(product) {
			continue
		}
		matches = append(matches, i)
	}
	return matches
}

func (s *Store) reindex(sheet string) {
	for i, row := range s.rows[sheet] {
		row["rowIndex"] = i + 1
	}
}

func rowIndex(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case domain.Number:
		return int(n)
	case string:
		return int(domain.ParseNumber(n))
	default:
		return 0
	}
}

func clone(row sheets.Row) sheets.Row {
	out := make(sheets.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

var _ sheets.Store = (*Store)(nil)
