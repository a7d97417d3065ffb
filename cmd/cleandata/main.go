package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"brewcli/internal/config"
	"brewcli/internal/files"
	"brewcli/internal/infrastructure"
	"brewcli/internal/pipeline"
)

func main() {
	input := flag.String("input", "", "path to the raw sales workbook (defaults to data/raw/coffee_shop_sales.xlsx)")
	sheet := flag.String("sheet", "", "name of the transactions sheet (defaults to the configured sheet)")
	configFile := flag.String("config", "", "path to a YAML config file (defaults to standard locations)")
	outputDir := flag.String("output-dir", "", "base directory for data artifacts (defaults to the executable directory)")
	logLevel := flag.String("log-level", "", "log level override: debug, info, warn or error")
	flag.Parse()

	// Optional .env with BREW_* overrides, loaded before config
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	// Initialize paths first to get default directories
	var paths *config.Paths
	if *outputDir != "" {
		paths = config.NewPaths(*outputDir)
	} else {
		var err error
		paths, err = config.GetPaths()
		if err != nil {
			slog.Error("Failed to initialize paths", "error", err)
			os.Exit(1)
		}
	}

	// Ensure all required directories exist
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("cleandata.log")
	}

	// Command-line flags override file and environment values
	if *sheet != "" {
		cfg.Input.SheetName = *sheet
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	// Log all resolved paths at startup for debugging
	paths.LogPathResolution()

	ctx := infrastructure.EnsureRunID(context.Background())
	ctx, cancel := context.WithTimeout(ctx, config.DefaultPipelineTimeout)
	defer cancel()

	workbook := *input
	if workbook == "" {
		workbook = paths.RawWorkbook
		if _, err := os.Stat(workbook); os.IsNotExist(err) {
			// Fall back to the newest export dropped into data/raw
			discovery := files.NewDiscovery(paths.DataDir)
			latest, ok, findErr := discovery.LatestWorkbook("raw")
			if findErr != nil || !ok {
				logger.ErrorContext(ctx, "no workbook found in raw directory",
					slog.String("raw_dir", paths.RawDir))
				fmt.Println(config.ErrWorkbookMissing)
				os.Exit(1)
			}
			workbook = latest.Path
			logger.InfoContext(ctx, "using newest workbook in raw directory",
				slog.String("workbook", workbook))
		}
	}

	logger.InfoContext(ctx, "starting data cleaning",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("workbook", workbook),
		slog.String("sheet", cfg.Input.SheetName),
		slog.String("data_dir", paths.DataDir))

	fmt.Println("BrewPulse Data Cleaning")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Cleaning started at: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	pipe := pipeline.New(logger, cfg, paths, os.Stdout)
	result, err := pipe.RunCleaning(ctx, workbook)
	if err != nil {
		logger.ErrorContext(ctx, "cleaning failed", slog.String("error", err.Error()))
		fmt.Printf("\nCleaning failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%s (%.2fs)\n", config.MsgCleaningComplete, result.Duration.Seconds())
	fmt.Println("Outputs:")
	for _, artifact := range result.Artifacts {
		fmt.Printf("  %s\n", artifact)
	}

	logger.InfoContext(ctx, "cleaning run finished",
		slog.Int("rows_kept", result.Cleaning.FinalRows),
		slog.Int("rows_removed", result.Cleaning.RowsRemoved()),
		slog.Duration("duration", result.Duration))
}
