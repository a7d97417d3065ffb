package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewcli/internal/config"
)

func newTestDatasetWriter(t *testing.T) (*DatasetWriter, *config.Paths) {
	t.Helper()

	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	return NewDatasetWriter(slog.Default(), paths), paths
}

func TestDatasetWriter_SaveCleanedCSV(t *testing.T) {
	ctx := context.Background()
	writer, paths := newTestDatasetWriter(t)

	date := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		{
			TransactionID:   "1",
			Date:            date,
			DateTime:        date.Add(7*time.Hour + 6*time.Minute + 11*time.Second),
			HasTime:         true,
			Quantity:        2,
			UnitPrice:       3.50,
			StoreLocation:   "Astoria",
			ProductCategory: "Coffee",
			ProductDetail:   "Brazilian Organic",
			Revenue:         7.00,
			Year:            2023,
			Month:           6,
			DayOfWeek:       "Thursday",
			Hour:            7,
			IsWeekend:       false,
			CostRatio:       0.35,
			EstimatedCost:   2.45,
			EstimatedProfit: 4.55,
			ProfitMargin:    0.65,
		},
		{
			TransactionID:   "2",
			Date:            date,
			DateTime:        date,
			HasTime:         false,
			Quantity:        1.5,
			UnitPrice:       4.25,
			StoreLocation:   "Hell's Kitchen",
			ProductCategory: "Bakery",
			ProductDetail:   "Croissant",
			Revenue:         6.375,
			Year:            2023,
			Month:           6,
			DayOfWeek:       "Thursday",
			Hour:            0,
			IsWeekend:       false,
			CostRatio:       0.60,
			EstimatedCost:   3.825,
			EstimatedProfit: 2.55,
			ProfitMargin:    0.40,
		},
	}

	err := writer.SaveCleanedCSV(ctx, transactions)
	require.NoError(t, err)

	content, err := os.ReadFile(paths.CleanedCSV)
	require.NoError(t, err)

	// Artifact is plain UTF-8 without a BOM
	assert.False(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	reader := csv.NewReader(bytes.NewReader(content))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, CleanedCSVHeader, rows[0])

	assert.Equal(t, []string{
		"1", "2023-06-15", "07:06:11", "2", "3.50",
		"Astoria", "Coffee", "Brazilian Organic",
		"7.00", "2023-06-15 07:06:11", "2023", "6", "Thursday", "7", "false",
		"0.35", "2.45", "4.55", "0.6500",
	}, rows[1])

	// A row without a parseable time keeps an empty time column and a
	// midnight datetime
	assert.Equal(t, []string{
		"2", "2023-06-15", "", "1.5", "4.25",
		"Hell's Kitchen", "Bakery", "Croissant",
		"6.38", "2023-06-15 00:00:00", "2023", "6", "Thursday", "0", "false",
		"0.6", "3.83", "2.55", "0.4000",
	}, rows[2])
}

func TestDatasetWriter_SaveCleanedCSV_Empty(t *testing.T) {
	ctx := context.Background()
	writer, paths := newTestDatasetWriter(t)

	err := writer.SaveCleanedCSV(ctx, []Transaction{})
	require.NoError(t, err)

	content, err := os.ReadFile(paths.CleanedCSV)
	require.NoError(t, err)

	// Header only
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Join(CleanedCSVHeader, ","), lines[0])
}

func TestDatasetWriter_SaveCleaningLog(t *testing.T) {
	ctx := context.Background()
	writer, paths := newTestDatasetWriter(t)

	stats := CleaningStats{
		OriginalRows:         149456,
		FinalRows:            149116,
		RemovedInvalidDate:   12,
		RemovedBadQuantity:   85,
		RemovedPriceOutRange: 203,
		RemovedMissingFields: 17,
		RemovedDuplicates:    23,
		UnparsableTimes:      4,
	}

	err := writer.SaveCleaningLog(ctx, stats)
	require.NoError(t, err)

	content, err := os.ReadFile(paths.CleaningLog)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "DATA CLEANING LOG")
	assert.Contains(t, text, strings.Repeat("=", 50))
	assert.Contains(t, text, "Original rows: 149456")
	assert.Contains(t, text, "Final rows: 149116")
	assert.Contains(t, text, "Rows removed: 340")
	assert.Contains(t, text, "Retention rate: 99.77%")
	assert.Contains(t, text, "Invalid date: 12")
	assert.Contains(t, text, "Non-positive or invalid quantity: 85")
	assert.Contains(t, text, "Unit price out of range: 203")
	assert.Contains(t, text, "Missing store or product: 17")
	assert.Contains(t, text, "Duplicate rows: 23")
	assert.Contains(t, text, "Rows kept without a parseable time: 4")
}

func TestRenderCleaningLog(t *testing.T) {
	stats := CleaningStats{
		OriginalRows:         10,
		FinalRows:            5,
		RemovedInvalidDate:   1,
		RemovedBadQuantity:   1,
		RemovedPriceOutRange: 1,
		RemovedMissingFields: 1,
		RemovedDuplicates:    1,
		UnparsableTimes:      2,
	}
	generatedAt := time.Date(2023, 7, 1, 10, 30, 0, 0, time.UTC)

	got := renderCleaningLog(stats, generatedAt)

	want := strings.Join([]string{
		"DATA CLEANING LOG",
		strings.Repeat("=", 50),
		"Generated: 2023-07-01 10:30:00",
		"",
		"Original rows: 10",
		"Final rows: 5",
		"Rows removed: 5",
		"Retention rate: 50.00%",
		"",
		"Removed by reason:",
		"  Invalid date: 1",
		"  Non-positive or invalid quantity: 1",
		"  Unit price out of range: 1",
		"  Missing store or product: 1",
		"  Duplicate rows: 1",
		"",
		"Rows kept without a parseable time: 2",
		"",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestCleanedCSVRow_Formats(t *testing.T) {
	date := time.Date(2023, 6, 17, 0, 0, 0, 0, time.UTC)
	txn := Transaction{
		TransactionID:   "42",
		Date:            date,
		DateTime:        date.Add(14 * time.Hour),
		HasTime:         true,
		Quantity:        3,
		UnitPrice:       2.00,
		StoreLocation:   "Lower Manhattan",
		ProductCategory: "Tea",
		ProductDetail:   "Earl Grey Rg",
		Revenue:         6.00,
		Year:            2023,
		Month:           6,
		DayOfWeek:       "Saturday",
		Hour:            14,
		IsWeekend:       true,
		CostRatio:       0.30,
		EstimatedCost:   1.80,
		EstimatedProfit: 4.20,
		ProfitMargin:    0.70,
	}

	row := cleanedCSVRow(txn)
	require.Len(t, row, len(CleanedCSVHeader))

	assert.Equal(t, "42", row[0])
	assert.Equal(t, "2023-06-17", row[1])
	assert.Equal(t, "14:00:00", row[2])
	assert.Equal(t, "3", row[3])
	assert.Equal(t, "2.00", row[4])
	assert.Equal(t, "6.00", row[8])
	assert.Equal(t, "2023-06-17 14:00:00", row[9])
	assert.Equal(t, "true", row[14])
	assert.Equal(t, "0.3", row[15])
	assert.Equal(t, "0.7000", row[18])
}
