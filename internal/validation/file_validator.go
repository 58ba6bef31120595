// Package validation checks the files and directories named in the
// configuration before the application starts using them.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"indentdesk/internal/config"
)

// FileValidator provides file validation shared by the server and the CLI
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateStore checks the local paths the store backend depends on.
// Remote-only backends have nothing to check.
func (v *FileValidator) ValidateStore(cfg config.StoreConfig) error {
	switch cfg.Backend {
	case config.BackendWorkbook:
		return v.ValidateWorkbook(cfg.WorkbookPath)
	case config.BackendSheets:
		return v.ValidateFile(cfg.CredentialsFile)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks the local workbook path. A workbook that does not
// exist yet is fine as long as its directory is writable, since it is
// created on first open.
func (v *FileValidator) ValidateWorkbook(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		v.logger.Error("Workbook is not an .xlsx file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("workbook %s must be an .xlsx file (extension: %s)", path, ext)
	}

	// Excel lock files look like workbooks but are not
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Error("Workbook path is an Excel lock file",
			slog.String("file", path))
		return fmt.Errorf("workbook %s is a temporary Excel file", path)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return v.ValidateOutputDirectory(filepath.Dir(path))
	}
	return v.ValidateFile(path)
}
