package sheets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"indentdesk/pkg/contracts/domain"
)

const (
	defaultMaxRetries = 2
	defaultRetryDelay = 500 * time.Millisecond
	maxResponseBody   = 32 << 20
)

// AppScriptClient talks to the Apps Script web app that fronts the
// spreadsheet. Reads are GET ?sheetName=...; writes and uploads are
// multipart form POSTs. Every response is {success, message, ...}.
type AppScriptClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// scriptResponse covers every payload the script returns
type scriptResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Rows    []Row                      `json:"rows"`
	Options map[string]json.RawMessage `json:"options"`
	FileURL string                     `json:"fileUrl"`
}

// NewAppScriptClient creates a client for the web app at endpoint
func NewAppScriptClient(endpoint string, timeout time.Duration, logger *slog.Logger) *AppScriptClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = 10 * time.Second
	transport.MaxIdleConns = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &AppScriptClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger:     logger.With(slog.String("component", "appscript_client")),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// Fetch returns the rows of a tabular sheet
func (c *AppScriptClient) Fetch(ctx context.Context, sheet string) ([]Row, error) {
	if err := ValidateSheet(sheet); err != nil {
		return nil, err
	}
	if sheet == domain.SheetMaster {
		return nil, fmt.Errorf("%w: %s is column oriented, use FetchMaster", ErrUnknownSheet, sheet)
	}

	resp, err := c.getWithRetry(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if resp.Rows == nil {
		return []Row{}, nil
	}
	return dropBlankTimestamps(resp.Rows), nil
}

// FetchMaster returns the aggregated MASTER reference data
func (c *AppScriptClient) FetchMaster(ctx context.Context) (domain.MasterOptions, error) {
	resp, err := c.getWithRetry(ctx, domain.SheetMaster)
	if err != nil {
		return domain.MasterOptions{}, err
	}
	return BuildMaster(ParseMasterColumns(resp.Options)), nil
}

// Insert appends rows to a sheet
func (c *AppScriptClient) Insert(ctx context.Context, sheet string, rows []Row) error {
	return c.write(ctx, "insert", sheet, rows)
}

// Update overwrites existing rows, matched by the script on their keys
func (c *AppScriptClient) Update(ctx context.Context, sheet string, rows []Row) error {
	return c.write(ctx, "update", sheet, rows)
}

// Delete removes rows
func (c *AppScriptClient) Delete(ctx context.Context, sheet string, rows []Row) error {
	return c.write(ctx, "delete", sheet, rows)
}

// Upload stores a file in the Drive folder and returns its URL
func (c *AppScriptClient) Upload(ctx context.Context, req UploadRequest) (string, error) {
	uploadType := req.UploadType
	if uploadType == "" {
		uploadType = UploadTypeUpload
	}

	fields := map[string]string{
		"action":     "upload",
		"fileName":   req.FileName,
		"mimeType":   req.MimeType,
		"fileData":   base64.StdEncoding.EncodeToString(req.Data),
		"folderId":   req.FolderID,
		"uploadType": uploadType,
	}
	if uploadType == UploadTypeEmail {
		fields["email"] = req.Email
		fields["emailSubject"] = req.EmailSubject
		fields["emailBody"] = req.EmailBody
	}

	resp, err := c.post(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", req.FileName, err)
	}
	return resp.FileURL, nil
}

func (c *AppScriptClient) write(ctx context.Context, action, sheet string, rows []Row) error {
	if err := ValidateSheet(sheet); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	start := time.Now()
	_, err = c.post(ctx, map[string]string{
		"action":    action,
		"sheetName": sheet,
		"rows":      string(payload),
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, sheet, err)
	}

	c.logger.InfoContext(ctx, "sheet rows written",
		slog.String("action", action),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// getWithRetry retries transport failures and 5xx answers with
// exponential backoff. Reads are idempotent; writes are never retried.
func (c *AppScriptClient) getWithRetry(ctx context.Context, sheet string) (*scriptResponse, error) {
	var lastErr error
	backoff := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WarnContext(ctx, "retrying sheet fetch",
				slog.String("sheet", sheet),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		resp, err := c.get(ctx, sheet)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
	}

	return nil, fmt.Errorf("fetch %s: %w", sheet, lastErr)
}

func (c *AppScriptClient) get(ctx context.Context, sheet string) (*scriptResponse, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid app script url: %w", err)
	}
	q := u.Query()
	q.Set("sheetName", sheet)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.do(req)
	c.logger.DebugContext(ctx, "sheet fetched",
		slog.String("sheet", sheet),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("ok", err == nil),
	)
	return resp, err
}

func (c *AppScriptClient) post(ctx context.Context, fields map[string]string) (*scriptResponse, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *AppScriptClient) do(req *http.Request) (*scriptResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200] + "... (truncated)"
		}
		statusErr := fmt.Errorf("%w: HTTP %d: %s", ErrRemoteFailure, resp.StatusCode, snippet)
		if resp.StatusCode >= 500 {
			return nil, &transportError{err: statusErr}
		}
		return nil, statusErr
	}

	var parsed scriptResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrRemoteFailure, err)
	}
	if !parsed.Success {
		message := parsed.Message
		if message == "" {
			message = "script reported failure"
		}
		return nil, fmt.Errorf("%w: %s", ErrRemoteFailure, message)
	}
	return &parsed, nil
}

// transportError marks failures worth retrying
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *transportError
	return errors.As(err, &te)
}
