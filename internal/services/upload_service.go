package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"indentdesk/internal/sheets"
	api "indentdesk/pkg/contracts/api/v1"
)

// MaxUploadBytes caps a decoded attachment
const MaxUploadBytes = 10 << 20

// UploadService stores attachments through the row store
type UploadService struct {
	store    sheets.Store
	folderID string
	logger   *slog.Logger
}

// NewUploadService creates an upload service writing into folderID
func NewUploadService(store sheets.Store, folderID string, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{store: store, folderID: folderID, logger: logger.With(slog.String("service", "uploads"))}
}

// Upload stores the file and returns its URL. Email uploads also mail the
// file to req.Email.
func (s *UploadService) Upload(ctx context.Context, req api.UploadRequest, by string) (api.UploadResponse, error) {
	data, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("%w: file data is not base64", ErrInvalidInput)
	}
	if len(data) == 0 {
		return api.UploadResponse{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if len(data) > MaxUploadBytes {
		return api.UploadResponse{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, MaxUploadBytes)
	}

	uploadType := req.UploadType
	if uploadType == "" {
		uploadType = sheets.UploadTypeUpload
	}

	url, err := s.store.Upload(ctx, sheets.UploadRequest{
		FileName:     req.FileName,
		MimeType:     req.MimeType,
		Data:         data,
		FolderID:     s.folderID,
		UploadType:   uploadType,
		Email:        req.Email,
		EmailSubject: req.EmailSubject,
		EmailBody:    req.EmailBody,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "upload failed", slog.String("file", req.FileName), slog.String("error", err.Error()))
		return api.UploadResponse{}, fmt.Errorf("%w: upload: %w", ErrStoreUnavailable, err)
	}

	s.logger.InfoContext(ctx, "file uploaded",
		slog.String("file", req.FileName),
		slog.Int("bytes", len(data)),
		slog.String("type", uploadType),
		slog.String("by", by),
	)
	return api.UploadResponse{FileURL: url}, nil
}
