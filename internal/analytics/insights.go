package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brewcli/internal/config"
)

// Margin tiers for the profitability insight.
const (
	strongMarginThreshold  = 0.5
	healthyMarginThreshold = 0.3
	topProfitGenerators    = 3
)

// InsightEngine turns analysis results into short qualitative statements
// and, where something needs attention, recommendations.
type InsightEngine struct {
	logger *slog.Logger
}

// NewInsightEngine creates an InsightEngine. A nil logger falls back to
// slog.Default().
func NewInsightEngine(logger *slog.Logger) *InsightEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightEngine{logger: logger}
}

// Generate evaluates a fixed rule set against the analysis results. The
// rules run in a fixed order so repeated runs over the same dataset produce
// identical insight lists.
func (e *InsightEngine) Generate(ctx context.Context, results *AnalysisResults) Insights {
	var insights Insights
	if results == nil {
		e.logger.WarnContext(ctx, "insight generation skipped, no analysis results")
		return insights
	}

	// Overall margin health.
	margin := results.Financial.OverallMargin
	switch {
	case margin > strongMarginThreshold:
		insights.KeyInsights = append(insights.KeyInsights,
			"Strong profitability with >50% profit margin")
	case margin > healthyMarginThreshold:
		insights.KeyInsights = append(insights.KeyInsights,
			"Healthy profitability with moderate margins")
	default:
		insights.KeyInsights = append(insights.KeyInsights,
			"Profitability needs improvement")
		insights.Recommendations = append(insights.Recommendations,
			"Review pricing strategy and cost optimization")
	}

	// Leading profit generators by product ranking.
	if len(results.Products.Rankings) > 0 {
		top := results.Products.Rankings
		if len(top) > topProfitGenerators {
			top = top[:topProfitGenerators]
		}
		names := make([]string, 0, len(top))
		for _, product := range top {
			names = append(names, product.Name)
		}
		insights.KeyInsights = append(insights.KeyInsights,
			fmt.Sprintf("Top %d profit generators: %s",
				topProfitGenerators, strings.Join(names, ", ")))
	}

	// Products whose margin falls below the review threshold.
	lowMargin := 0
	for _, product := range results.Products.Rankings {
		if product.Margin < config.LowMarginThreshold {
			lowMargin++
		}
	}
	if lowMargin > 0 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("Review %d products with <%.0f%% profit margin",
				lowMargin, config.LowMarginThreshold*100))
	}

	// Category and store leaders. Both summaries rank by revenue; the
	// category line still reads "Most profitable".
	if len(results.Categories.Rankings) > 0 {
		insights.KeyInsights = append(insights.KeyInsights,
			fmt.Sprintf("Most profitable category: %s", results.Categories.Rankings[0].Name))
	}
	if len(results.Stores.Rankings) > 1 {
		insights.KeyInsights = append(insights.KeyInsights,
			fmt.Sprintf("Best performing store: %s", results.Stores.Rankings[0].Name))
	}

	// Peak trading pattern across the three temporal views.
	if len(results.Temporal.MonthlyTrends) > 0 {
		insights.KeyInsights = append(insights.KeyInsights,
			fmt.Sprintf("Peak performance: Month %d, %ss, %d:00",
				results.Temporal.PeakMonth, results.Temporal.PeakDay, results.Temporal.PeakHour))
	}

	e.logger.InfoContext(ctx, "insights generated",
		slog.Int("insights", len(insights.KeyInsights)),
		slog.Int("recommendations", len(insights.Recommendations)))

	return insights
}
