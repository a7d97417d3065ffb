package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"brewcli/internal/config"
	"brewcli/internal/dataprocessing"
	"brewcli/internal/errors"
	"brewcli/internal/shared/testutil"
)

var fixtureHeader = []interface{}{
	"transaction_id", "transaction_date", "transaction_time", "transaction_qty",
	"unit_price", "store_location", "product_category", "product_detail",
}

// writeWorkbook builds a minimal xlsx fixture on the default sheet name.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), config.DefaultSheetName)

	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(config.DefaultSheetName, cell, val))
		}
	}

	filePath := filepath.Join(t.TempDir(), "coffee_shop_sales.xlsx")
	require.NoError(t, f.SaveAs(filePath))
	return filePath
}

// salesRows holds three clean transactions across two stores plus three rows
// that each trip a different cleaning step.
func salesRows() [][]interface{} {
	return [][]interface{}{
		fixtureHeader,
		{"1", "2023-06-15", "07:06:11", "2", "3.50", "Astoria", "Coffee", "Brazilian Organic"},
		{"2", "2023-06-15", "08:15:00", "1", "4.25", "Astoria", "Bakery", "Croissant"},
		{"3", "2023-06-16", "09:30:21", "2", "2.50", "Hell's Kitchen", "Tea", "Earl Grey"},
		{"4", "2023-06-16", "10:00:05", "0", "3.00", "Astoria", "Coffee", "Espresso"},
		{"5", "not-a-date", "11:45:00", "1", "3.00", "Astoria", "Coffee", "Espresso"},
		{"6", "2023-06-17", "12:05:00", "1", "20.00", "Astoria", "Coffee", "Espresso"},
	}
}

func newTestPipeline(t *testing.T, progress io.Writer) (*Pipeline, *config.Paths) {
	t.Helper()

	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	return New(slog.Default(), config.Default(), paths, progress), paths
}

func TestNew_NilCollaborators(t *testing.T) {
	paths := config.NewPaths(t.TempDir())

	pipe := New(nil, config.Default(), paths, nil)

	require.NotNil(t, pipe)
}

func TestPipeline_Run(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	var progress bytes.Buffer
	pipe, paths := newTestPipeline(t, &progress)

	result, err := pipe.Run(context.Background(), workbook)

	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 6, result.Cleaning.OriginalRows)
	assert.Equal(t, 3, result.Cleaning.FinalRows)
	assert.Equal(t, 3, result.Cleaning.RowsRemoved())
	assert.Equal(t, 1, result.Cleaning.RemovedInvalidDate)
	assert.Equal(t, 1, result.Cleaning.RemovedBadQuantity)
	assert.Equal(t, 1, result.Cleaning.RemovedPriceOutRange)

	require.NotNil(t, result.Analysis)
	assert.Equal(t, 3, result.Analysis.Financial.TotalTransactions)
	assert.InDelta(t, 16.25, result.Analysis.Financial.TotalRevenue, 0.0001)
	assert.InDelta(t, 0.600, result.Analysis.Financial.OverallMargin, 0.0001)

	assert.Equal(t, []string{paths.CleanedCSV, paths.CleaningLog, paths.AnalysisReport}, result.Artifacts)
	assert.Positive(t, result.Duration)

	assert.FileExists(t, paths.CleanedCSV)
	assert.FileExists(t, paths.CleaningLog)
	assert.FileExists(t, paths.AnalysisReport)
}

func TestPipeline_Run_CleanedDataset(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	pipe, paths := newTestPipeline(t, nil)

	_, err := pipe.Run(context.Background(), workbook)
	require.NoError(t, err)

	f, err := os.Open(paths.CleanedCSV)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, dataprocessing.CleanedCSVHeader, records[0])

	// Kept rows preserve workbook order
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "2", records[2][0])
	assert.Equal(t, "3", records[3][0])
}

func TestPipeline_Run_CleaningLog(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	pipe, paths := newTestPipeline(t, nil)

	_, err := pipe.Run(context.Background(), workbook)
	require.NoError(t, err)

	content, err := os.ReadFile(paths.CleaningLog)
	require.NoError(t, err)
	log := string(content)

	assert.Contains(t, log, "DATA CLEANING LOG")
	assert.Contains(t, log, "Original rows: 6")
	assert.Contains(t, log, "Final rows: 3")
	assert.Contains(t, log, "Retention rate: 50.00%")
	assert.Contains(t, log, "Invalid date: 1")
	assert.Contains(t, log, "Non-positive or invalid quantity: 1")
	assert.Contains(t, log, "Unit price out of range: 1")
}

func TestPipeline_Run_Report(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	pipe, paths := newTestPipeline(t, nil)

	result, err := pipe.Run(context.Background(), workbook)
	require.NoError(t, err)

	content, err := os.ReadFile(paths.AnalysisReport)
	require.NoError(t, err)
	rep := string(content)

	assert.True(t, strings.HasPrefix(rep, "COFFEE SHOP SALES ANALYSIS\n"))
	assert.Contains(t, rep, "Analysis Period: 2023-06-15 to 2023-06-16")
	assert.Contains(t, rep, "Total Revenue: $16.25")
	assert.Contains(t, rep, "Overall Profit Margin: 60.0%")
	assert.Contains(t, rep, "Strong profitability with >50% profit margin")
	assert.Contains(t, rep, "Best performing store: Astoria")
	assert.NotContains(t, rep, "RECOMMENDATIONS")

	assert.Len(t, result.Insights.KeyInsights, 5)
	assert.Empty(t, result.Insights.Recommendations)
}

func TestPipeline_Run_ProgressLines(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	var progress bytes.Buffer
	pipe, _ := newTestPipeline(t, &progress)

	_, err := pipe.Run(context.Background(), workbook)
	require.NoError(t, err)

	out := progress.String()
	assert.Contains(t, out, "Loading workbook: "+workbook)
	assert.Contains(t, out, "Loaded 6 raw rows")
	assert.Contains(t, out, "Cleaning data...")
	assert.Contains(t, out, "Cleaned data: 3 rows kept, 3 removed (50.00% retention)")
	assert.Contains(t, out, "Estimating costs...")
	assert.Contains(t, out, "Analyzing sales...")
	assert.Contains(t, out, "Writing artifacts...")
}

func TestPipeline_Run_Logging(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	logger, logs := testutil.NewCaptureLogger(t)
	pipe := New(logger, config.Default(), paths, nil)

	_, err := pipe.Run(context.Background(), workbook)
	require.NoError(t, err)

	assert.True(t, logs.ContainsMessage("starting pipeline run"))
	assert.True(t, logs.ContainsMessage("data cleaning completed"))
	assert.True(t, logs.ContainsMessage("pipeline run completed"))
	assert.True(t, logs.ContainsAttr("transactions", int64(3)))
}

func TestPipeline_RunCleaning(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	pipe, paths := newTestPipeline(t, nil)

	result, err := pipe.RunCleaning(context.Background(), workbook)

	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.Cleaning.FinalRows)
	assert.Nil(t, result.Analysis)
	assert.Empty(t, result.Insights.KeyInsights)
	assert.Equal(t, []string{paths.CleanedCSV, paths.CleaningLog}, result.Artifacts)

	assert.FileExists(t, paths.CleanedCSV)
	assert.FileExists(t, paths.CleaningLog)
	assert.NoFileExists(t, paths.AnalysisReport)
}

func TestPipeline_Run_MissingWorkbook(t *testing.T) {
	pipe, paths := newTestPipeline(t, nil)

	result, err := pipe.Run(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrTypeInput))
	assert.Equal(t, "validate", errors.Stage(err))

	assert.NoFileExists(t, paths.CleanedCSV)
	assert.NoFileExists(t, paths.CleaningLog)
	assert.NoFileExists(t, paths.AnalysisReport)
}

func TestPipeline_Run_AllRowsRemoved(t *testing.T) {
	rows := [][]interface{}{
		fixtureHeader,
		{"1", "2023-06-15", "07:00:00", "0", "3.50", "Astoria", "Coffee", "Espresso"},
		{"2", "not-a-date", "08:00:00", "1", "3.50", "Astoria", "Coffee", "Espresso"},
	}
	workbook := writeWorkbook(t, rows)
	var progress bytes.Buffer
	pipe, paths := newTestPipeline(t, &progress)

	result, err := pipe.Run(context.Background(), workbook)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrTypeInput))
	assert.Equal(t, "clean", errors.Stage(err))
	assert.ErrorContains(t, err, "All rows were removed during cleaning")

	assert.Contains(t, progress.String(), "Cleaned data: 0 rows kept")
	assert.NoFileExists(t, paths.CleanedCSV)
	assert.NoFileExists(t, paths.AnalysisReport)
}

func TestPipeline_Run_ContextCancelled(t *testing.T) {
	workbook := writeWorkbook(t, salesRows())
	pipe, paths := newTestPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := pipe.Run(ctx, workbook)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, paths.AnalysisReport)
}
