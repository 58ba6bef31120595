package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"indentdesk/internal/files"
	"indentdesk/pkg/contracts/domain"
)

// snapshotPattern matches every file SnapshotName produces
const snapshotPattern = "indent_report_????_??_??.xlsx"

// SnapshotWriter stores dated XLSX copies of the dashboard report
type SnapshotWriter struct {
	dir       string
	retain    int
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewSnapshotWriter writes snapshots under dir, creating it on demand, and
// keeps the newest retain of them (retain <= 0 keeps all)
func NewSnapshotWriter(dir string, retain int, logger *slog.Logger) *SnapshotWriter {
	return &SnapshotWriter{
		dir:       dir,
		retain:    retain,
		discovery: files.NewDiscovery(dir),
		logger:    logger.With(slog.String("component", "exporter.snapshot")),
	}
}

// SnapshotName is the file name used for the snapshot of day
func SnapshotName(day time.Time) string {
	return fmt.Sprintf("indent_report_%s.xlsx", day.Format("2006_01_02"))
}

// Write saves the dashboard as the snapshot for day, replacing an earlier
// snapshot of the same day, and returns the file path
func (s *SnapshotWriter) Write(d domain.Dashboard, day time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(s.dir, SnapshotName(day))
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteXLSX(tmp, d); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	s.logger.Info("report snapshot written",
		slog.String("path", path),
		slog.Int("top_products", len(d.Report.TopProducts)),
		slog.Int("top_vendors", len(d.Report.TopVendors)))

	// a failed prune leaves extra files behind but the snapshot stands
	if err := s.prune(); err != nil {
		s.logger.Warn("snapshot pruning failed", slog.String("error", err.Error()))
	}
	return path, nil
}

// List returns the stored snapshots, oldest day first
func (s *SnapshotWriter) List() ([]files.FileInfo, error) {
	found, err := s.discovery.Find(snapshotPattern)
	if err != nil {
		return nil, err
	}
	files.SortByName(found)
	return found, nil
}

func (s *SnapshotWriter) prune() error {
	if s.retain <= 0 {
		return nil
	}
	found, err := s.List()
	if err != nil {
		return err
	}
	removed, err := files.Prune(found, s.retain)
	for _, f := range removed {
		s.logger.Info("old report snapshot removed", slog.String("path", f.Path))
	}
	return err
}
