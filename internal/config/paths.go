package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	CleanedDir    string
	ReportsDir    string
	LogsDir       string

	// Well-known files
	RawWorkbook    string
	CleanedCSV     string
	CleaningLog    string
	AnalysisReport string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	// Get the directory containing the executable
	exeDir := filepath.Dir(exe)

	// All paths are relative to the executable directory
	// Directory structure:
	// dist/
	//   ├── data/
	//   │   ├── raw/          (Excel workbook exported from the POS)
	//   │   ├── cleaned/      (Cleaned CSV and cleaning log)
	//   │   └── reports/      (Generated analysis reports)
	//   └── logs/             (Application logs)

	dataDir := filepath.Join(exeDir, "data")
	rawDir := filepath.Join(dataDir, "raw")
	cleanedDir := filepath.Join(dataDir, "cleaned")
	reportsDir := filepath.Join(dataDir, "reports")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		RawDir:        rawDir,
		CleanedDir:    cleanedDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		// Well-known files
		RawWorkbook:    filepath.Join(rawDir, RawWorkbookName),
		CleanedCSV:     filepath.Join(cleanedDir, CleanedCSVName),
		CleaningLog:    filepath.Join(cleanedDir, CleaningLogName),
		AnalysisReport: filepath.Join(reportsDir, AnalysisReportName),
	}

	return paths, nil
}

// NewPaths builds a Paths rooted at baseDir instead of the executable
// directory. Intended for tests and for explicit directory overrides.
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	rawDir := filepath.Join(dataDir, "raw")
	cleanedDir := filepath.Join(dataDir, "cleaned")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		RawDir:        rawDir,
		CleanedDir:    cleanedDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(baseDir, "logs"),

		RawWorkbook:    filepath.Join(rawDir, RawWorkbookName),
		CleanedCSV:     filepath.Join(cleanedDir, CleanedCSVName),
		CleaningLog:    filepath.Join(cleanedDir, CleaningLogName),
		AnalysisReport: filepath.Join(reportsDir, AnalysisReportName),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.CleanedDir,
		p.ReportsDir,
		p.LogsDir,
	}

	// Log directory creation
	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		// Log successful directory creation
		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetRawPath returns the path for a file in the raw data directory
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// GetCleanedPath returns the path for a file in the cleaned data directory
func (p *Paths) GetCleanedPath(filename string) string {
	return filepath.Join(p.CleanedDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("cleaned", p.CleanedDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("raw_workbook", p.RawWorkbook),
			slog.String("cleaned_csv", p.CleanedCSV),
			slog.String("cleaning_log", p.CleaningLog),
			slog.String("analysis_report", p.AnalysisReport),
		))
}

// ValidateRequiredFiles checks if critical input files exist and returns detailed error information
func (p *Paths) ValidateRequiredFiles() error {
	requiredFiles := map[string]string{
		"Raw workbook": p.RawWorkbook,
	}

	var missingFiles []string
	for name, path := range requiredFiles {
		if !FileExists(path) {
			missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", name, path))
		}
	}

	if len(missingFiles) > 0 {
		return fmt.Errorf("required files missing: %s", strings.Join(missingFiles, ", "))
	}

	return nil
}
