// Package analytics aggregates cleaned, cost-enriched transactions into the
// dimension summaries behind the BrewPulse analysis report and derives
// qualitative insights from them.
//
// # Core Components
//
//   - types.go: summary record structures for every dimension
//   - analyzer.go: Analyzer, grouping transactions by product, category,
//     store, and time and ranking the resulting rows
//   - insights.go: InsightEngine, a fixed ordered rule set producing the
//     insight and recommendation lists
//
// # Determinism
//
// Analyze is a pure function of the transaction set: shuffling the input
// rows yields identical results. All sums accumulate at full float64
// precision and are rounded exactly once when a summary row is built
// (monetary values to two decimals, margins and shares to three). Rankings
// break ties on the group name so equal-revenue or equal-profit rows always
// order the same way.
//
// # Usage
//
//	analyzer := analytics.NewAnalyzer(logger)
//	results, err := analyzer.Analyze(ctx, transactions)
//	if err != nil {
//	    return err
//	}
//	insights := analytics.NewInsightEngine(logger).Generate(ctx, results)
package analytics
