package analytics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"brewcli/internal/config"
	"brewcli/internal/dataprocessing"
	"brewcli/internal/errors"
)

// Analyzer aggregates enriched transactions into the dimension summaries
// consumed by the insight engine and the report writer.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger falls back to slog.Default().
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze builds the financial, product, category, store and temporal
// summaries for the given transactions. The input is never modified and row
// order does not affect the result. Sums are accumulated at full precision;
// rounding happens once, when each summary row is built: monetary values to
// two decimals, margins and shares to three.
func (a *Analyzer) Analyze(ctx context.Context, txns []dataprocessing.Transaction) (*AnalysisResults, error) {
	start := time.Now()

	if len(txns) == 0 {
		return nil, errors.NewSequenceError("analyze", "no transactions to analyze")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "starting sales analysis",
		slog.Int("transactions", len(txns)))

	results := &AnalysisResults{
		Financial:  a.summarizeFinancial(txns),
		Products:   a.summarizeProducts(txns),
		Categories: a.summarizeCategories(txns),
		Stores:     a.summarizeStores(txns),
		Temporal:   a.summarizeTemporal(txns),
	}

	a.logger.InfoContext(ctx, "sales analysis completed",
		slog.Int("products", results.Products.TotalProducts),
		slog.Int("categories", len(results.Categories.Rankings)),
		slog.Int("stores", len(results.Stores.Rankings)),
		slog.Float64("total_revenue", results.Financial.TotalRevenue),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}

// groupTotals holds full-precision sums for one group of transactions.
type groupTotals struct {
	revenue      float64
	cost         float64
	profit       float64
	quantity     float64
	transactions int
	products     map[string]bool
}

func sumGroup(txns []dataprocessing.Transaction) groupTotals {
	totals := groupTotals{products: make(map[string]bool)}
	for _, t := range txns {
		totals.revenue += t.Revenue
		totals.cost += t.EstimatedCost
		totals.profit += t.EstimatedProfit
		totals.quantity += t.Quantity
		totals.transactions++
		totals.products[t.ProductDetail] = true
	}
	return totals
}

func (a *Analyzer) summarizeFinancial(txns []dataprocessing.Transaction) FinancialSummary {
	totals := sumGroup(txns)
	first, last := dateRange(txns)

	margin := 0.0
	if totals.revenue > 0 {
		margin = totals.profit / totals.revenue
	}
	count := float64(totals.transactions)

	return FinancialSummary{
		TotalRevenue:         round2(totals.revenue),
		TotalCost:            round2(totals.cost),
		TotalProfit:          round2(totals.profit),
		OverallMargin:        round3(margin),
		TotalTransactions:    totals.transactions,
		AvgTransactionValue:  round2(totals.revenue / count),
		AvgTransactionProfit: round2(totals.profit / count),
		PeriodDays:           int(last.Sub(first).Hours()/24) + 1,
		FirstDate:            first,
		LastDate:             last,
	}
}

func (a *Analyzer) summarizeProducts(txns []dataprocessing.Transaction) ProductSummary {
	groups := make(map[string][]dataprocessing.Transaction)
	for _, t := range txns {
		groups[t.ProductDetail] = append(groups[t.ProductDetail], t)
	}

	rankings := make([]ProductMetrics, 0, len(groups))
	profitable := 0
	for name, group := range groups {
		totals := sumGroup(group)
		margin := 0.0
		if totals.revenue > 0 {
			margin = totals.profit / totals.revenue
		}
		perUnit := 0.0
		if totals.quantity > 0 {
			perUnit = totals.profit / totals.quantity
		}
		if totals.profit > 0 {
			profitable++
		}
		rankings = append(rankings, ProductMetrics{
			Name:             name,
			Revenue:          round2(totals.revenue),
			Cost:             round2(totals.cost),
			Profit:           round2(totals.profit),
			Quantity:         totals.quantity,
			Transactions:     totals.transactions,
			Margin:           round3(margin),
			AvgProfitPerUnit: round2(perUnit),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Profit != rankings[j].Profit {
			return rankings[i].Profit > rankings[j].Profit
		}
		return rankings[i].Name < rankings[j].Name
	})

	return ProductSummary{
		Rankings:           rankings,
		TopPerformers:      takeRanked(rankings, config.TopProductsCount, true),
		BottomPerformers:   takeRanked(rankings, config.BottomProductsCount, false),
		TotalProducts:      len(rankings),
		ProfitableProducts: profitable,
	}
}

func (a *Analyzer) summarizeCategories(txns []dataprocessing.Transaction) CategorySummary {
	groups := make(map[string][]dataprocessing.Transaction)
	var totalRevenue float64
	for _, t := range txns {
		groups[t.ProductCategory] = append(groups[t.ProductCategory], t)
		totalRevenue += t.Revenue
	}

	rankings := make([]CategoryMetrics, 0, len(groups))
	for name, group := range groups {
		totals := sumGroup(group)
		margin := 0.0
		if totals.revenue > 0 {
			margin = totals.profit / totals.revenue
		}
		share := 0.0
		if totalRevenue > 0 {
			share = totals.revenue / totalRevenue
		}
		rankings = append(rankings, CategoryMetrics{
			Name:           name,
			Revenue:        round2(totals.revenue),
			Cost:           round2(totals.cost),
			Profit:         round2(totals.profit),
			Quantity:       totals.quantity,
			Transactions:   totals.transactions,
			Margin:         round3(margin),
			RevenueShare:   round3(share),
			UniqueProducts: len(totals.products),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Revenue != rankings[j].Revenue {
			return rankings[i].Revenue > rankings[j].Revenue
		}
		return rankings[i].Name < rankings[j].Name
	})

	return CategorySummary{Rankings: rankings}
}

func (a *Analyzer) summarizeStores(txns []dataprocessing.Transaction) StoreSummary {
	groups := make(map[string][]dataprocessing.Transaction)
	for _, t := range txns {
		groups[t.StoreLocation] = append(groups[t.StoreLocation], t)
	}

	rankings := make([]StoreMetrics, 0, len(groups))
	for name, group := range groups {
		totals := sumGroup(group)
		margin := 0.0
		if totals.revenue > 0 {
			margin = totals.profit / totals.revenue
		}
		rankings = append(rankings, StoreMetrics{
			Name:                name,
			Revenue:             round2(totals.revenue),
			Cost:                round2(totals.cost),
			Profit:              round2(totals.profit),
			Quantity:            totals.quantity,
			Transactions:        totals.transactions,
			Margin:              round3(margin),
			AvgTransactionValue: round2(totals.revenue / float64(totals.transactions)),
			UniqueProducts:      len(totals.products),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Revenue != rankings[j].Revenue {
			return rankings[i].Revenue > rankings[j].Revenue
		}
		return rankings[i].Name < rankings[j].Name
	})

	return StoreSummary{Rankings: rankings}
}

func (a *Analyzer) summarizeTemporal(txns []dataprocessing.Transaction) TemporalSummary {
	type monthKey struct {
		year  int
		month int
	}

	months := make(map[monthKey][]dataprocessing.Transaction)
	days := make(map[string][]dataprocessing.Transaction)
	hours := make(map[int][]dataprocessing.Transaction)
	for _, t := range txns {
		key := monthKey{t.Year, t.Month}
		months[key] = append(months[key], t)
		days[t.DayOfWeek] = append(days[t.DayOfWeek], t)
		hours[t.Hour] = append(hours[t.Hour], t)
	}

	trends := make([]MonthlySummary, 0, len(months))
	for key, group := range months {
		totals := sumGroup(group)
		margin := 0.0
		if totals.revenue > 0 {
			margin = totals.profit / totals.revenue
		}
		trends = append(trends, MonthlySummary{
			Year:         key.year,
			Month:        key.month,
			Revenue:      round2(totals.revenue),
			Profit:       round2(totals.profit),
			Transactions: totals.transactions,
			Margin:       round3(margin),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Year != trends[j].Year {
			return trends[i].Year < trends[j].Year
		}
		return trends[i].Month < trends[j].Month
	})

	daily := make([]DailySummary, 0, len(days))
	for name, group := range days {
		totals := sumGroup(group)
		count := float64(totals.transactions)
		daily = append(daily, DailySummary{
			Day:          name,
			AvgRevenue:   round2(totals.revenue / count),
			AvgProfit:    round2(totals.profit / count),
			Transactions: totals.transactions,
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Day < daily[j].Day })

	hourly := make([]HourlySummary, 0, len(hours))
	for hour, group := range hours {
		totals := sumGroup(group)
		count := float64(totals.transactions)
		hourly = append(hourly, HourlySummary{
			Hour:         hour,
			AvgRevenue:   round2(totals.revenue / count),
			AvgProfit:    round2(totals.profit / count),
			Transactions: totals.transactions,
		})
	}
	sort.Slice(hourly, func(i, j int) bool { return hourly[i].Hour < hourly[j].Hour })

	summary := TemporalSummary{
		MonthlyTrends:  trends,
		DailyPatterns:  daily,
		HourlyPatterns: hourly,
	}

	// Peak rows carry the highest revenue in each view. Strict comparison
	// keeps the first row on a tie, matching each view's sort order.
	var bestMonth float64
	for i, row := range trends {
		if i == 0 || row.Revenue > bestMonth {
			bestMonth = row.Revenue
			summary.PeakMonth = row.Month
		}
	}
	var bestDay float64
	for i, row := range daily {
		if i == 0 || row.AvgRevenue > bestDay {
			bestDay = row.AvgRevenue
			summary.PeakDay = row.Day
		}
	}
	var bestHour float64
	for i, row := range hourly {
		if i == 0 || row.AvgRevenue > bestHour {
			bestHour = row.AvgRevenue
			summary.PeakHour = row.Hour
		}
	}

	return summary
}

// dateRange returns the earliest and latest transaction dates.
func dateRange(txns []dataprocessing.Transaction) (time.Time, time.Time) {
	first, last := txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	return first, last
}

// takeRanked slices the first or last n entries off an already-sorted
// ranking without copying.
func takeRanked(sorted []ProductMetrics, n int, fromTop bool) []ProductMetrics {
	if n > len(sorted) {
		n = len(sorted)
	}
	if fromTop {
		return sorted[:n]
	}
	return sorted[len(sorted)-n:]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
