package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// structValidator checks struct tags on loaded configuration.
var structValidator = validator.New()

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Costs    CostModel      `yaml:"costs" envconfig:"COSTS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// InputConfig contains raw workbook loading configuration
type InputConfig struct {
	WorkbookName  string `yaml:"workbook_name" envconfig:"WORKBOOK_NAME" validate:"required"`
	SheetName     string `yaml:"sheet_name" envconfig:"SHEET_NAME" validate:"required"`
	MaxFileSizeMB int64  `yaml:"max_file_size_mb" envconfig:"MAX_FILE_SIZE_MB" validate:"gt=0"`
}

// CleaningConfig contains the row filtering bounds applied during cleaning
type CleaningConfig struct {
	MinUnitPrice float64 `yaml:"min_unit_price" envconfig:"MIN_UNIT_PRICE" validate:"gt=0"`
	MaxUnitPrice float64 `yaml:"max_unit_price" envconfig:"MAX_UNIT_PRICE" validate:"gtfield=MinUnitPrice"`
}

// CostRule maps one product category to its estimated cost ratio
type CostRule struct {
	Category string  `yaml:"category" validate:"required"`
	Ratio    float64 `yaml:"ratio" validate:"gte=0,lte=1"`
}

// CostModel is the enumerated cost ratio table used by the cost estimator.
// Every category not covered by a rule uses DefaultRatio.
type CostModel struct {
	Rules        []CostRule `yaml:"rules" validate:"dive"`
	DefaultRatio float64    `yaml:"default_ratio" envconfig:"DEFAULT_RATIO" validate:"gte=0,lte=1"`
}

// RatioFor returns the cost ratio for a product category.
// Unknown categories fall back to the model's default ratio.
func (m CostModel) RatioFor(category string) float64 {
	for _, rule := range m.Rules {
		if rule.Category == category {
			return rule.Ratio
		}
	}
	return m.DefaultRatio
}

// HasRule reports whether the model carries an explicit rule for a category.
func (m CostModel) HasRule(category string) bool {
	for _, rule := range m.Rules {
		if rule.Category == category {
			return true
		}
	}
	return false
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence (environment wins).
// An empty configFile argument triggers discovery in the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file not accessible: %w", err)
		}
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("BREW", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg.
// Keys absent from the file keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	return nil
}

// resolvePaths sets up the executable directory for relative path resolution
func (c *Config) resolvePaths() error {
	// Use centralized paths system to get all paths
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	// Update config with resolved paths from centralized system
	if c.Paths.ExecutableDir == "" {
		c.Paths.ExecutableDir = paths.ExecutableDir
	}

	return nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	if filepath.IsAbs(c.Paths.DataDir) {
		return c.Paths.DataDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.DataDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	if filepath.IsAbs(c.Paths.LogsDir) {
		return c.Paths.LogsDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.LogsDir)
}

// validate normalizes and validates the configuration
func (c *Config) validate() error {
	// Logging is always structured JSON with at least file output
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = DefaultLogOutput
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	// Cost rules must not repeat a category, the first match would
	// silently shadow the rest
	seen := make(map[string]bool, len(c.Costs.Rules))
	for _, rule := range c.Costs.Rules {
		if seen[rule.Category] {
			return fmt.Errorf("duplicate cost rule for category %q", rule.Category)
		}
		seen[rule.Category] = true
	}

	if err := structValidator.Struct(c); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		details := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			details = append(details, formatValidationError(fieldErr))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(details, "; "))
	}

	return nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults and env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			WorkbookName:  RawWorkbookName,
			SheetName:     DefaultSheetName,
			MaxFileSizeMB: DefaultMaxFileSizeMB,
		},
		Cleaning: CleaningConfig{
			MinUnitPrice: DefaultMinUnitPrice,
			MaxUnitPrice: DefaultMaxUnitPrice,
		},
		Costs: DefaultCostModel(),
		Logging: LoggingConfig{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			Output:      DefaultLogOutput,
			FilePath:    DefaultLogFile,
			Development: false,
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
	}
}

// DefaultCostModel returns the built-in cost ratio table
func DefaultCostModel() CostModel {
	rules := make([]CostRule, len(defaultCostRules))
	copy(rules, defaultCostRules)
	return CostModel{
		Rules:        rules,
		DefaultRatio: DefaultCostRatio,
	}
}
