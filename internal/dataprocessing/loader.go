package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"brewcli/internal/config"
	"brewcli/internal/errors"
)

// Loader reads the raw Transactions sheet from the POS Excel export and
// produces untyped RawRecord rows for the cleaner.
type Loader struct {
	logger    *slog.Logger
	sheetName string
}

// NewLoader creates a workbook loader for the configured sheet.
func NewLoader(logger *slog.Logger, cfg config.InputConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = config.DefaultSheetName
	}

	return &Loader{
		logger:    logger,
		sheetName: sheetName,
	}
}

// LoadWorkbook opens the Excel file and extracts every data row from the
// transactions sheet. The header row is located dynamically and matched
// case-insensitively; a workbook missing any required column is rejected.
func (l *Loader) LoadWorkbook(ctx context.Context, filePath string) ([]RawRecord, error) {
	l.logger.InfoContext(ctx, "loading raw workbook",
		slog.String("path", filePath),
		slog.String("sheet", l.sheetName))

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewInputError("failed to open workbook", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	rows, err := f.GetRows(l.sheetName)
	if err != nil {
		return nil, errors.NewInputError("transactions sheet not found in workbook", err).
			WithContext("sheet", l.sheetName).
			WithContext("available_sheets", strings.Join(f.GetSheetList(), ", "))
	}

	if len(rows) == 0 {
		return nil, errors.NewInputError("transactions sheet is empty", nil).
			WithContext("sheet", l.sheetName)
	}

	headerRow, columnMap := l.findHeader(rows)
	if headerRow == -1 {
		return nil, errors.NewInputError("could not find header row in transactions sheet", nil).
			WithContext("sheet", l.sheetName)
	}

	// Verify we found all required columns
	var missing []string
	for _, col := range RequiredColumns {
		if _, exists := columnMap[col]; !exists {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewInputError("workbook is missing required columns", nil).
			WithContext("missing_columns", strings.Join(missing, ", "))
	}

	l.logger.DebugContext(ctx, "header row located",
		slog.Int("row", headerRow+1),
		slog.Int("columns", len(columnMap)))

	// Helper to safely read a mapped cell from the current row
	getCell := func(row []string, colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	records := make([]RawRecord, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		// Skip fully empty rows
		isEmpty := true
		for _, colIndex := range columnMap {
			if colIndex < len(row) && strings.TrimSpace(row[colIndex]) != "" {
				isEmpty = false
				break
			}
		}
		if isEmpty {
			continue
		}

		records = append(records, RawRecord{
			Row:             i + 1,
			TransactionID:   getCell(row, ColTransactionID),
			TransactionDate: getCell(row, ColTransactionDate),
			TransactionTime: getCell(row, ColTransactionTime),
			Quantity:        getCell(row, ColQuantity),
			UnitPrice:       getCell(row, ColUnitPrice),
			StoreLocation:   getCell(row, ColStoreLocation),
			ProductCategory: getCell(row, ColProductCategory),
			ProductDetail:   getCell(row, ColProductDetail),
		})
	}

	l.logger.InfoContext(ctx, "raw workbook loaded",
		slog.Int("total_rows", len(rows)),
		slog.Int("records", len(records)))

	return records, nil
}

// findHeader scans for the row containing the required column names and maps
// column positions dynamically. Matching is case-insensitive so exports with
// "Transaction_ID" style headers still load.
func (l *Loader) findHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}

		columnMap := make(map[string]int, len(RequiredColumns))
		for j, header := range row {
			name := strings.ToLower(strings.TrimSpace(header))
			for _, col := range RequiredColumns {
				if name == col {
					columnMap[col] = j
					break
				}
			}
		}

		// A header row must at least identify the transaction columns
		if _, hasID := columnMap[ColTransactionID]; hasID {
			if _, hasDate := columnMap[ColTransactionDate]; hasDate {
				return i, columnMap
			}
		}
	}

	return -1, nil
}
