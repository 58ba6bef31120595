// Package sheets is the row store behind every screen: the spreadsheet
// tabs INDENT, RECEIVED, MASTER, USER, PO MASTER and INVENTORY, reached
// through the Apps Script proxy, the Google Sheets API or a local XLSX
// workbook.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"indentdesk/internal/config"
	"indentdesk/pkg/contracts/domain"
)

var (
	// ErrRemoteFailure is returned when the store answers {success:false}
	// or a non-2xx status
	ErrRemoteFailure = errors.New("remote store request failed")

	// ErrUnknownSheet is returned for sheet names outside domain.AllSheets
	ErrUnknownSheet = errors.New("unknown sheet")

	// ErrReadOnly is returned by backends that cannot write
	ErrReadOnly = errors.New("store backend is read-only")
)

// Row is one spreadsheet row keyed by camelCase column name
type Row map[string]interface{}

// Upload types understood by the Apps Script proxy
const (
	UploadTypeUpload = "upload"
	UploadTypeEmail  = "email"
)

// UploadRequest stores a file in the configured folder and optionally
// mails it
type UploadRequest struct {
	FileName     string
	MimeType     string
	Data         []byte
	FolderID     string
	UploadType   string
	Email        string
	EmailSubject string
	EmailBody    string
}

// Store reads and writes sheet rows
type Store interface {
	Fetch(ctx context.Context, sheet string) ([]Row, error)
	Insert(ctx context.Context, sheet string, rows []Row) error
	Update(ctx context.Context, sheet string, rows []Row) error
	Delete(ctx context.Context, sheet string, rows []Row) error
	FetchMaster(ctx context.Context) (domain.MasterOptions, error)
	Upload(ctx context.Context, req UploadRequest) (string, error)
}

// ValidateSheet rejects sheet names the store does not serve
func ValidateSheet(sheet string) error {
	for _, name := range domain.AllSheets {
		if name == sheet {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
}

// New builds the backend selected by cfg.Backend
func New(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendAppScript:
		return NewAppScriptClient(cfg.AppScriptURL, cfg.Timeout, logger), nil
	case config.BackendSheets:
		return NewGoogleStore(ctx, cfg.SpreadsheetID, cfg.CredentialsFile, logger)
	case config.BackendWorkbook:
		return OpenWorkbook(cfg.WorkbookPath, logger)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// dropBlankTimestamps removes rows whose timestamp column exists but is
// empty. The sheets keep formula-prefilled rows below the data that carry
// no submission yet.
func dropBlankTimestamps(rows []Row) []Row {
	kept := rows[:0]
	for _, row := range rows {
		if ts, ok := row["timestamp"]; ok && isBlank(ts) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func isBlank(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
