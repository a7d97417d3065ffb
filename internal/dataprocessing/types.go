package dataprocessing

import "time"

// Raw table column names as they appear in the Transactions sheet header.
// Matching is case-insensitive and whitespace-trimmed.
const (
	ColTransactionID   = "transaction_id"
	ColTransactionDate = "transaction_date"
	ColTransactionTime = "transaction_time"
	ColQuantity        = "transaction_qty"
	ColUnitPrice       = "unit_price"
	ColStoreLocation   = "store_location"
	ColProductCategory = "product_category"
	ColProductDetail   = "product_detail"
)

// RequiredColumns lists every column the cleaner needs. A workbook missing
// any of these is rejected before a single row is processed.
var RequiredColumns = []string{
	ColTransactionID,
	ColTransactionDate,
	ColTransactionTime,
	ColQuantity,
	ColUnitPrice,
	ColStoreLocation,
	ColProductCategory,
	ColProductDetail,
}

// RawRecord is a single untyped row read from the Transactions sheet.
// All values are kept as strings until the cleaner parses them.
type RawRecord struct {
	Row             int // 1-based sheet row number, for diagnostics
	TransactionID   string
	TransactionDate string
	TransactionTime string
	Quantity        string
	UnitPrice       string
	StoreLocation   string
	ProductCategory string
	ProductDetail   string
}

// Transaction is one cleaned and enriched sales transaction. Instances are
// immutable once built; enrichment produces new values rather than mutating
// earlier stage output.
type Transaction struct {
	TransactionID   string
	Date            time.Time
	DateTime        time.Time
	HasTime         bool
	Quantity        float64
	UnitPrice       float64
	StoreLocation   string
	ProductCategory string
	ProductDetail   string

	// Derived during cleaning
	Revenue   float64
	Year      int
	Month     int
	DayOfWeek string
	Hour      int
	IsWeekend bool

	// Derived during cost estimation
	CostRatio       float64
	EstimatedCost   float64
	EstimatedProfit float64
	ProfitMargin    float64
}

// TimeString renders the time-of-day column value. Rows whose time failed to
// parse keep an empty time while still carrying a midnight DateTime.
func (t Transaction) TimeString() string {
	if !t.HasTime {
		return ""
	}
	return t.DateTime.Format("15:04:05")
}

// CleaningStats tracks what the cleaner removed and why.
type CleaningStats struct {
	OriginalRows int
	FinalRows    int

	RemovedInvalidDate   int
	RemovedBadQuantity   int
	RemovedPriceOutRange int
	RemovedMissingFields int
	RemovedDuplicates    int

	// Rows kept despite an unparsable time value
	UnparsableTimes int
}

// RowsRemoved returns the total number of rows dropped during cleaning.
func (s CleaningStats) RowsRemoved() int {
	return s.OriginalRows - s.FinalRows
}

// RetentionRate returns the percentage of rows that survived cleaning.
// An empty input yields 0 rather than dividing by zero.
func (s CleaningStats) RetentionRate() float64 {
	if s.OriginalRows == 0 {
		return 0
	}
	return float64(s.FinalRows) / float64(s.OriginalRows) * 100
}

// CleaningResult bundles the cleaned transactions with the cleaning stats.
type CleaningResult struct {
	Transactions []Transaction
	Stats        CleaningStats
}

// CleanedCSVHeader is the column order of the cleaned dataset artifact.
var CleanedCSVHeader = []string{
	"transaction_id",
	"transaction_date",
	"transaction_time",
	"transaction_qty",
	"unit_price",
	"store_location",
	"product_category",
	"product_detail",
	"revenue",
	"datetime",
	"year",
	"month",
	"day_of_week",
	"hour",
	"is_weekend",
	"estimated_cost_ratio",
	"estimated_cost",
	"estimated_profit",
	"profit_margin",
}
