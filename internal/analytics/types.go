package analytics

import "time"

// FinancialSummary captures the whole-dataset financial picture.
type FinancialSummary struct {
	TotalRevenue         float64
	TotalCost            float64
	TotalProfit          float64
	OverallMargin        float64
	TotalTransactions    int
	AvgTransactionValue  float64
	AvgTransactionProfit float64
	PeriodDays           int
	FirstDate            time.Time
	LastDate             time.Time
}

// ProductMetrics aggregates the sales of a single product.
type ProductMetrics struct {
	Name             string
	Revenue          float64
	Cost             float64
	Profit           float64
	Quantity         float64
	Transactions     int
	Margin           float64
	AvgProfitPerUnit float64
}

// ProductSummary ranks every product by estimated profit. TopPerformers and
// BottomPerformers are slices of Rankings, so with fewer than fifteen
// products the two lists may overlap.
type ProductSummary struct {
	Rankings           []ProductMetrics
	TopPerformers      []ProductMetrics
	BottomPerformers   []ProductMetrics
	TotalProducts      int
	ProfitableProducts int
}

// CategoryMetrics aggregates the sales of a single product category.
type CategoryMetrics struct {
	Name           string
	Revenue        float64
	Cost           float64
	Profit         float64
	Quantity       float64
	Transactions   int
	Margin         float64
	RevenueShare   float64
	UniqueProducts int
}

// CategorySummary ranks categories by revenue, highest first.
type CategorySummary struct {
	Rankings []CategoryMetrics
}

// StoreMetrics aggregates the sales of a single store location.
type StoreMetrics struct {
	Name                string
	Revenue             float64
	Cost                float64
	Profit              float64
	Quantity            float64
	Transactions        int
	Margin              float64
	AvgTransactionValue float64
	UniqueProducts      int
}

// StoreSummary ranks stores by revenue, highest first.
type StoreSummary struct {
	Rankings []StoreMetrics
}

// MonthlySummary holds summed performance for one calendar month.
type MonthlySummary struct {
	Year         int
	Month        int
	Revenue      float64
	Profit       float64
	Transactions int
	Margin       float64
}

// DailySummary holds mean per-transaction performance for one weekday.
type DailySummary struct {
	Day          string
	AvgRevenue   float64
	AvgProfit    float64
	Transactions int
}

// HourlySummary holds mean per-transaction performance for one hour of day.
type HourlySummary struct {
	Hour         int
	AvgRevenue   float64
	AvgProfit    float64
	Transactions int
}

// TemporalSummary bundles the three time views. MonthlyTrends is ordered by
// year then month, DailyPatterns by weekday name, HourlyPatterns by hour.
// Peaks are the highest-revenue row of each view; on a tie the row that
// sorts first wins.
type TemporalSummary struct {
	MonthlyTrends  []MonthlySummary
	DailyPatterns  []DailySummary
	HourlyPatterns []HourlySummary
	PeakMonth      int
	PeakDay        string
	PeakHour       int
}

// AnalysisResults bundles every dimension summary produced by one run.
type AnalysisResults struct {
	Financial  FinancialSummary
	Products   ProductSummary
	Categories CategorySummary
	Stores     StoreSummary
	Temporal   TemporalSummary
}

// Insights holds the qualitative findings derived from AnalysisResults.
// KeyInsights is non-empty for any non-trivial dataset; Recommendations may
// be empty when nothing needs attention.
type Insights struct {
	KeyInsights     []string
	Recommendations []string
}
