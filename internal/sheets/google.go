package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"indentdesk/pkg/contracts/domain"
)

// GoogleStore reads the spreadsheet directly through the Sheets API with a
// service account. The first row of every tab is the header row. It is a
// read-only backend: the Apps Script owns write-side formulas and
// timestamps, so writes go through it.
type GoogleStore struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

// NewGoogleStore creates a Sheets API backend from a service account
// credentials file
func NewGoogleStore(ctx context.Context, spreadsheetID, credentialsFile string, logger *slog.Logger) (*GoogleStore, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("credentials file %s is empty", credentialsFile)
	}

	return NewGoogleStoreWithOptions(ctx, spreadsheetID, logger,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
}

// NewGoogleStoreWithOptions creates the backend with explicit client
// options, e.g. an endpoint override in tests
func NewGoogleStoreWithOptions(ctx context.Context, spreadsheetID string, logger *slog.Logger, opts ...option.ClientOption) (*GoogleStore, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger.With(slog.String("component", "google_sheets")),
	}, nil
}

// Fetch reads a tab and keys each row by its camelCase header
func (g *GoogleStore) Fetch(ctx context.Context, sheet string) ([]Row, error) {
	if err := ValidateSheet(sheet); err != nil {
		return nil, err
	}

	grid, err := g.grid(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return dropBlankTimestamps(rowsFromGrid(grid)), nil
}

// FetchMaster reads the MASTER tab column by column
func (g *GoogleStore) FetchMaster(ctx context.Context) (domain.MasterOptions, error) {
	grid, err := g.grid(ctx, domain.SheetMaster)
	if err != nil {
		return domain.MasterOptions{}, err
	}
	return BuildMaster(columnsFromGrid(grid)), nil
}

func (g *GoogleStore) grid(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrRemoteFailure, sheet, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellString(v)
		}
		grid = append(grid, cells)
	}

	g.logger.DebugContext(ctx, "sheet read", slog.String("sheet", sheet), slog.Int("rows", len(grid)))
	return grid, nil
}

// Insert is not supported by the Sheets API backend
func (g *GoogleStore) Insert(context.Context, string, []Row) error { return ErrReadOnly }

// Update is not supported by the Sheets API backend
func (g *GoogleStore) Update(context.Context, string, []Row) error { return ErrReadOnly }

// Delete is not supported by the Sheets API backend
func (g *GoogleStore) Delete(context.Context, string, []Row) error { return ErrReadOnly }

// Upload is not supported by the Sheets API backend
func (g *GoogleStore) Upload(context.Context, UploadRequest) (string, error) { return "", ErrReadOnly }
