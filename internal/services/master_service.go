package services

import (
	"context"
	"fmt"
	"log/slog"

	"indentdesk/pkg/contracts/domain"
)

// MasterService serves the MASTER reference data the indent and PO forms
// pick from
type MasterService struct {
	reader *SheetReader
	logger *slog.Logger
}

// NewMasterService creates a master data service
func NewMasterService(reader *SheetReader, logger *slog.Logger) *MasterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MasterService{reader: reader, logger: logger.With(slog.String("service", "master"))}
}

// Options returns the MASTER options
func (s *MasterService) Options(ctx context.Context) (domain.MasterOptions, error) {
	opts, err := s.reader.Master(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "master fetch failed", slog.String("error", err.Error()))
		return domain.MasterOptions{}, err
	}
	return opts, nil
}

// Vendor looks up a registered vendor by name
func (s *MasterService) Vendor(ctx context.Context, name string) (domain.Vendor, error) {
	opts, err := s.Options(ctx)
	if err != nil {
		return domain.Vendor{}, err
	}
	v, ok := opts.FindVendor(name)
	if !ok {
		return domain.Vendor{}, fmt.Errorf("%w: vendor %q", ErrNotFound, name)
	}
	return v, nil
}
