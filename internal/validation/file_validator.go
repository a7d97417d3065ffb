package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"brewcli/internal/config"
	"brewcli/internal/errors"
)

// FileValidator checks pipeline inputs and output locations before any stage
// runs. Problems found here abort the run before an artifact is touched.
type FileValidator struct {
	logger        *slog.Logger
	maxFileSizeMB int64
}

// NewFileValidator creates a file validator with the configured workbook
// size cap. A non-positive cap falls back to the default.
func NewFileValidator(logger *slog.Logger, maxFileSizeMB int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = config.DefaultMaxFileSizeMB
	}
	return &FileValidator{
		logger:        logger,
		maxFileSizeMB: maxFileSizeMB,
	}
}

// ValidateFile checks that a path exists, is a regular file, and is readable.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return errors.NewInputError("input file does not exist", err).
			WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewInputError("failed to stat input file", err).
			WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return errors.NewInputError("input path is a directory, not a file", nil).
			WithContext("path", path)
	}

	// Check for read permission by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewInputError("input file is not readable", err).
			WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks that the raw sales workbook is usable: a readable
// .xlsx file, not an Office lock file, and inside the size cap.
func (v *FileValidator) ValidateWorkbook(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		v.logger.Error("Input file is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewInputError("input file is not an Excel workbook", nil).
			WithContext("path", path).
			WithContext("extension", ext)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Input file is a temporary Excel lock file",
			slog.String("file", path))
		return errors.NewInputError("input file is a temporary Excel lock file", nil).
			WithContext("path", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.NewInputError("failed to stat input file", err).
			WithContext("path", path)
	}
	maxBytes := v.maxFileSizeMB * 1024 * 1024
	if info.Size() > maxBytes {
		v.logger.Error("Workbook exceeds the size cap",
			slog.String("file", path),
			slog.Int64("size_bytes", info.Size()),
			slog.Int64("max_bytes", maxBytes))
		return errors.NewInputError("workbook exceeds the size cap", nil).
			WithContext("path", path).
			WithContext("size_bytes", info.Size()).
			WithContext("max_mb", v.maxFileSizeMB)
	}

	v.logger.Info("Workbook validated",
		slog.String("file", path),
		slog.Int64("size_bytes", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists, creating it if
// needed, and verifies it is writable by creating a probe file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewPersistError("failed to create output directory", err).
			WithContext("directory", dir)
	}

	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewPersistError("output directory is not writable", err).
			WithContext("directory", dir)
	}
	file.Close()
	os.Remove(probe)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
