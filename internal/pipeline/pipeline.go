// Package pipeline wires the BrewPulse stages into one sequential run:
// validate, load, clean, enrich, analyze, persist. Each stage receives the
// previous stage's output as an immutable value; there is no shared results
// cache and no lazy recompute. Artifacts are written only after every
// producing stage has succeeded, so a failed run leaves nothing behind.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"brewcli/internal/analytics"
	"brewcli/internal/config"
	"brewcli/internal/dataprocessing"
	"brewcli/internal/errors"
	"brewcli/internal/report"
	"brewcli/internal/validation"
)

// Result summarizes one completed run.
type Result struct {
	Cleaning  dataprocessing.CleaningStats
	Analysis  *analytics.AnalysisResults
	Insights  analytics.Insights
	Artifacts []string
	Duration  time.Duration
}

// Pipeline owns every stage component and runs them strictly in order.
type Pipeline struct {
	logger   *slog.Logger
	paths    *config.Paths
	progress io.Writer

	validator *validation.FileValidator
	loader    *dataprocessing.Loader
	cleaner   *dataprocessing.Cleaner
	estimator *dataprocessing.CostEstimator
	dataset   *dataprocessing.DatasetWriter
	analyzer  *analytics.Analyzer
	engine    *analytics.InsightEngine
	reporter  *report.Writer
}

// New assembles a pipeline from configuration. Stage progress lines go to
// progress; pass nil to silence them.
func New(logger *slog.Logger, cfg *config.Config, paths *config.Paths, progress io.Writer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Pipeline{
		logger:    logger,
		paths:     paths,
		progress:  progress,
		validator: validation.NewFileValidator(logger, cfg.Input.MaxFileSizeMB),
		loader:    dataprocessing.NewLoader(logger, cfg.Input),
		cleaner:   dataprocessing.NewCleaner(logger, cfg.Cleaning),
		estimator: dataprocessing.NewCostEstimator(logger, cfg.Costs),
		dataset:   dataprocessing.NewDatasetWriter(logger, paths),
		analyzer:  analytics.NewAnalyzer(logger),
		engine:    analytics.NewInsightEngine(logger),
		reporter:  report.NewWriter(logger, paths),
	}
}

// Run executes the full pipeline against the given workbook and writes the
// cleaned dataset, the cleaning log, and the analysis report.
func (p *Pipeline) Run(ctx context.Context, workbookPath string) (*Result, error) {
	start := time.Now()
	p.logger.InfoContext(ctx, "starting pipeline run",
		slog.String("workbook", workbookPath))

	enriched, cleaning, err := p.prepare(ctx, workbookPath)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.progress, "Analyzing sales...\n")
	analysis, err := p.analyzer.Analyze(ctx, enriched)
	if err != nil {
		return nil, withStage(err, "analyze")
	}
	insights := p.engine.Generate(ctx, analysis)

	fmt.Fprintf(p.progress, "Writing artifacts...\n")
	if err := p.dataset.SaveCleanedCSV(ctx, enriched); err != nil {
		return nil, withStage(err, "persist")
	}
	if err := p.dataset.SaveCleaningLog(ctx, cleaning); err != nil {
		return nil, withStage(err, "persist")
	}
	if err := p.reporter.WriteAnalysisReport(ctx, analysis, insights); err != nil {
		return nil, withStage(err, "report")
	}

	result := &Result{
		Cleaning: cleaning,
		Analysis: analysis,
		Insights: insights,
		Artifacts: []string{
			p.paths.CleanedCSV,
			p.paths.CleaningLog,
			p.paths.AnalysisReport,
		},
		Duration: time.Since(start),
	}

	p.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("transactions", cleaning.FinalRows),
		slog.Int("artifacts", len(result.Artifacts)),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// RunCleaning executes the data preparation stages only and writes the
// cleaned dataset and the cleaning log. Cost enrichment still runs because
// the cleaned dataset carries the estimated cost columns.
func (p *Pipeline) RunCleaning(ctx context.Context, workbookPath string) (*Result, error) {
	start := time.Now()
	p.logger.InfoContext(ctx, "starting cleaning run",
		slog.String("workbook", workbookPath))

	enriched, cleaning, err := p.prepare(ctx, workbookPath)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.progress, "Writing artifacts...\n")
	if err := p.dataset.SaveCleanedCSV(ctx, enriched); err != nil {
		return nil, withStage(err, "persist")
	}
	if err := p.dataset.SaveCleaningLog(ctx, cleaning); err != nil {
		return nil, withStage(err, "persist")
	}

	result := &Result{
		Cleaning: cleaning,
		Artifacts: []string{
			p.paths.CleanedCSV,
			p.paths.CleaningLog,
		},
		Duration: time.Since(start),
	}

	p.logger.InfoContext(ctx, "cleaning run completed",
		slog.Int("rows_kept", cleaning.FinalRows),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// prepare runs the shared front half of both run modes: validate, load,
// clean, enrich.
func (p *Pipeline) prepare(ctx context.Context, workbookPath string) ([]dataprocessing.Transaction, dataprocessing.CleaningStats, error) {
	var none dataprocessing.CleaningStats

	if err := p.validator.ValidateWorkbook(workbookPath); err != nil {
		return nil, none, withStage(err, "validate")
	}

	fmt.Fprintf(p.progress, "Loading workbook: %s\n", workbookPath)
	records, err := p.loader.LoadWorkbook(ctx, workbookPath)
	if err != nil {
		return nil, none, withStage(err, "load")
	}
	fmt.Fprintf(p.progress, "Loaded %d raw rows\n", len(records))

	fmt.Fprintf(p.progress, "Cleaning data...\n")
	cleaned, err := p.cleaner.Clean(ctx, records)
	if err != nil {
		return nil, none, withStage(err, "clean")
	}
	fmt.Fprintf(p.progress, "Cleaned data: %d rows kept, %d removed (%.2f%% retention)\n",
		cleaned.Stats.FinalRows, cleaned.Stats.RowsRemoved(), cleaned.Stats.RetentionRate())
	if len(cleaned.Transactions) == 0 {
		return nil, none, withStage(errors.NewInputError(config.ErrNoUsableRows, nil), "clean")
	}

	fmt.Fprintf(p.progress, "Estimating costs...\n")
	enriched := p.estimator.Enrich(ctx, cleaned.Transactions)

	return enriched, cleaned.Stats, nil
}

// withStage tags a fatal error with the stage that raised it. Errors that
// already carry a stage keep it.
func withStage(err error, stage string) error {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		return err
	}
	if _, exists := appErr.Context["stage"]; exists {
		return appErr
	}
	return appErr.WithContext("stage", stage)
}
