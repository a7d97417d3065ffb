package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"brewcli/internal/config"
)

// dateLayouts are the date formats accepted for transaction_date, tried in
// order. Values that match none of these fall back to Excel serial numbers.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"2-Jan-06",
	"02-Jan-2006",
	"January 2, 2006",
}

// Cleaner validates and filters raw rows into canonical Transaction records.
// Row-level problems never abort the run; bad rows are dropped and counted.
type Cleaner struct {
	logger       *slog.Logger
	minUnitPrice float64
	maxUnitPrice float64
}

// NewCleaner creates a cleaner with the configured price bounds.
func NewCleaner(logger *slog.Logger, cfg config.CleaningConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}

	minPrice := cfg.MinUnitPrice
	if minPrice <= 0 {
		minPrice = config.DefaultMinUnitPrice
	}
	maxPrice := cfg.MaxUnitPrice
	if maxPrice <= minPrice {
		maxPrice = config.DefaultMaxUnitPrice
	}

	return &Cleaner{
		logger:       logger,
		minUnitPrice: minPrice,
		maxUnitPrice: maxPrice,
	}
}

// workingRow carries a raw record through the cleaning steps together with
// the values parsed so far.
type workingRow struct {
	raw       RawRecord
	date      time.Time
	clock     time.Duration
	hasTime   bool
	quantity  float64
	unitPrice float64
}

// Clean runs the full cleaning sequence over the raw rows. Each step filters
// the survivors of the previous one, so the step order determines the exact
// retained count:
//
//  1. parse dates, dropping rows without a parseable transaction_date
//  2. parse times strictly as HH:MM:SS, keeping rows whose time is unusable
//  3. parse quantities, dropping rows that are missing or not positive
//  4. parse unit prices, dropping rows outside the configured price band
//  5. drop rows with a missing store location or product detail
//  6. derive revenue, the combined datetime, and the calendar features
//  7. drop exact duplicate rows, keeping the first occurrence
func (c *Cleaner) Clean(ctx context.Context, records []RawRecord) (*CleaningResult, error) {
	c.logger.InfoContext(ctx, "cleaning raw records",
		slog.Int("record_count", len(records)))

	stats := CleaningStats{OriginalRows: len(records)}

	// Dates and times
	parsed := make([]workingRow, 0, len(records))
	for _, rec := range records {
		date, ok := parseDate(rec.TransactionDate)
		if !ok {
			stats.RemovedInvalidDate++
			continue
		}

		clock, hasTime := parseClock(rec.TransactionTime)

		parsed = append(parsed, workingRow{
			raw:     rec,
			date:    date,
			clock:   clock,
			hasTime: hasTime,
		})
	}
	c.logger.DebugContext(ctx, "date parsing complete",
		slog.Int("kept", len(parsed)),
		slog.Int("removed", stats.RemovedInvalidDate))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Quantities must be numeric and strictly positive
	kept := parsed[:0]
	for _, row := range parsed {
		qty, err := strconv.ParseFloat(row.raw.Quantity, 64)
		if err != nil || qty <= 0 {
			stats.RemovedBadQuantity++
			continue
		}
		row.quantity = qty
		kept = append(kept, row)
	}
	parsed = kept

	// Unit prices must be numeric and inside the configured band
	kept = parsed[:0]
	for _, row := range parsed {
		price, err := strconv.ParseFloat(row.raw.UnitPrice, 64)
		if err != nil || price < c.minUnitPrice || price > c.maxUnitPrice {
			stats.RemovedPriceOutRange++
			continue
		}
		row.unitPrice = price
		kept = append(kept, row)
	}
	parsed = kept

	// Store and product fields must be present
	kept = parsed[:0]
	for _, row := range parsed {
		if strings.TrimSpace(row.raw.StoreLocation) == "" || strings.TrimSpace(row.raw.ProductDetail) == "" {
			stats.RemovedMissingFields++
			continue
		}
		kept = append(kept, row)
	}
	parsed = kept

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Derive calculated fields and drop exact duplicates, keeping the first
	// occurrence. Rows without a parseable time combine as midnight.
	type dupKey struct {
		id       string
		date     time.Time
		clock    time.Duration
		hasTime  bool
		qty      float64
		price    float64
		store    string
		category string
		detail   string
	}

	seen := make(map[dupKey]bool, len(parsed))
	transactions := make([]Transaction, 0, len(parsed))
	for _, row := range parsed {
		key := dupKey{
			id:       row.raw.TransactionID,
			date:     row.date,
			clock:    row.clock,
			hasTime:  row.hasTime,
			qty:      row.quantity,
			price:    row.unitPrice,
			store:    row.raw.StoreLocation,
			category: row.raw.ProductCategory,
			detail:   row.raw.ProductDetail,
		}
		if seen[key] {
			stats.RemovedDuplicates++
			continue
		}
		seen[key] = true

		dateTime := row.date.Add(row.clock)
		weekday := row.date.Weekday()

		if !row.hasTime {
			stats.UnparsableTimes++
		}

		transactions = append(transactions, Transaction{
			TransactionID:   row.raw.TransactionID,
			Date:            row.date,
			DateTime:        dateTime,
			HasTime:         row.hasTime,
			Quantity:        row.quantity,
			UnitPrice:       row.unitPrice,
			StoreLocation:   row.raw.StoreLocation,
			ProductCategory: row.raw.ProductCategory,
			ProductDetail:   row.raw.ProductDetail,

			Revenue:   row.quantity * row.unitPrice,
			Year:      row.date.Year(),
			Month:     int(row.date.Month()),
			DayOfWeek: weekday.String(),
			Hour:      dateTime.Hour(),
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
		})
	}

	stats.FinalRows = len(transactions)

	c.logger.InfoContext(ctx, "data cleaning completed",
		slog.Int("original_rows", stats.OriginalRows),
		slog.Int("final_rows", stats.FinalRows),
		slog.Int("rows_removed", stats.RowsRemoved()),
		slog.Float64("retention_rate", stats.RetentionRate()))

	return &CleaningResult{
		Transactions: transactions,
		Stats:        stats,
	}, nil
}

// parseDate parses a transaction_date cell. Known layouts are tried first,
// then numeric values are treated as Excel serial dates. The result is
// truncated to the calendar date.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// parseClock parses a transaction_time cell against the strict HH:MM:SS
// pattern and returns the offset from midnight. Anything else is reported
// as "no time" without dropping the row.
func parseClock(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return 0, false
	}

	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, true
}
