package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"brewcli/internal/config"
	"brewcli/internal/errors"
	"brewcli/internal/exporter"
)

// DatasetWriter persists the cleaning artifacts: the cleaned dataset CSV and
// the plain-text cleaning log.
type DatasetWriter struct {
	logger *slog.Logger
	paths  *config.Paths
	csv    *exporter.CSVWriter
}

// NewDatasetWriter creates a writer for the configured artifact paths.
func NewDatasetWriter(logger *slog.Logger, paths *config.Paths) *DatasetWriter {
	if logger == nil {
		logger = slog.Default()
	}

	return &DatasetWriter{
		logger: logger,
		paths:  paths,
		csv:    exporter.NewCSVWriter(paths),
	}
}

// SaveCleanedCSV writes the cleaned, enriched transactions to the well-known
// cleaned dataset path. The file carries a header row and no index column.
func (w *DatasetWriter) SaveCleanedCSV(ctx context.Context, transactions []Transaction) error {
	path := w.paths.CleanedCSV
	w.logger.InfoContext(ctx, "writing cleaned dataset",
		slog.String("path", path),
		slog.Int("transaction_count", len(transactions)))

	stream, err := w.csv.CreateStreamWriter(path, CleanedCSVHeader)
	if err != nil {
		return errors.NewPersistError("failed to create cleaned dataset file", err).
			WithContext("path", path)
	}

	for _, txn := range transactions {
		if err := stream.WriteRecord(cleanedCSVRow(txn)); err != nil {
			stream.Close()
			return errors.NewPersistError("failed to write cleaned dataset row", err).
				WithContext("path", path).
				WithContext("transaction_id", txn.TransactionID)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewPersistError("failed to finalize cleaned dataset file", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "cleaned dataset saved",
		slog.String("path", path))

	return nil
}

// cleanedCSVRow renders one transaction in CleanedCSVHeader column order.
func cleanedCSVRow(txn Transaction) []string {
	return []string{
		txn.TransactionID,
		txn.Date.Format("2006-01-02"),
		txn.TimeString(),
		strconv.FormatFloat(txn.Quantity, 'f', -1, 64),
		fmt.Sprintf("%.2f", txn.UnitPrice),
		txn.StoreLocation,
		txn.ProductCategory,
		txn.ProductDetail,
		fmt.Sprintf("%.2f", txn.Revenue),
		txn.DateTime.Format("2006-01-02 15:04:05"),
		strconv.Itoa(txn.Year),
		strconv.Itoa(txn.Month),
		txn.DayOfWeek,
		strconv.Itoa(txn.Hour),
		strconv.FormatBool(txn.IsWeekend),
		strconv.FormatFloat(txn.CostRatio, 'f', -1, 64),
		fmt.Sprintf("%.2f", txn.EstimatedCost),
		fmt.Sprintf("%.2f", txn.EstimatedProfit),
		fmt.Sprintf("%.4f", txn.ProfitMargin),
	}
}

// SaveCleaningLog writes the plain-text cleaning log to the well-known
// cleaning log path.
func (w *DatasetWriter) SaveCleaningLog(ctx context.Context, stats CleaningStats) error {
	path := w.paths.CleaningLog
	w.logger.InfoContext(ctx, "writing cleaning log",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewPersistError("failed to create directory for cleaning log", err).
			WithContext("path", path)
	}

	content := renderCleaningLog(stats, time.Now())

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.NewPersistError("failed to write cleaning log", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "cleaning log saved",
		slog.String("path", path))

	return nil
}

// renderCleaningLog formats the cleaning log content.
func renderCleaningLog(stats CleaningStats, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintln(&b, "DATA CLEANING LOG")
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "Original rows: %d\n", stats.OriginalRows)
	fmt.Fprintf(&b, "Final rows: %d\n", stats.FinalRows)
	fmt.Fprintf(&b, "Rows removed: %d\n", stats.RowsRemoved())
	fmt.Fprintf(&b, "Retention rate: %.2f%%\n", stats.RetentionRate())

	fmt.Fprintln(&b, "\nRemoved by reason:")
	fmt.Fprintf(&b, "  Invalid date: %d\n", stats.RemovedInvalidDate)
	fmt.Fprintf(&b, "  Non-positive or invalid quantity: %d\n", stats.RemovedBadQuantity)
	fmt.Fprintf(&b, "  Unit price out of range: %d\n", stats.RemovedPriceOutRange)
	fmt.Fprintf(&b, "  Missing store or product: %d\n", stats.RemovedMissingFields)
	fmt.Fprintf(&b, "  Duplicate rows: %d\n", stats.RemovedDuplicates)

	fmt.Fprintf(&b, "\nRows kept without a parseable time: %d\n", stats.UnparsableTimes)

	return b.String()
}
