package dataprocessing

import (
	"context"
	"log/slog"

	"brewcli/internal/config"
)

// CostEstimator enriches cleaned transactions with estimated cost and profit
// fields using the configured category to ratio table.
type CostEstimator struct {
	logger *slog.Logger
	costs  config.CostModel
}

// NewCostEstimator creates an estimator backed by the given cost model.
// An empty model falls back to the built-in ratio table.
func NewCostEstimator(logger *slog.Logger, costs config.CostModel) *CostEstimator {
	if logger == nil {
		logger = slog.Default()
	}

	if len(costs.Rules) == 0 && costs.DefaultRatio == 0 {
		costs = config.DefaultCostModel()
	}

	return &CostEstimator{
		logger: logger,
		costs:  costs,
	}
}

// Enrich returns a new transaction set with cost and profit fields filled in.
// The input set is never mutated. Margin resolves to 0 when revenue is 0 so
// degenerate rows stay representable instead of producing a NaN.
func (e *CostEstimator) Enrich(ctx context.Context, transactions []Transaction) []Transaction {
	e.logger.InfoContext(ctx, "estimating costs",
		slog.Int("transaction_count", len(transactions)),
		slog.Int("rule_count", len(e.costs.Rules)),
		slog.Float64("default_ratio", e.costs.DefaultRatio))

	enriched := make([]Transaction, len(transactions))
	seen := make(map[string]bool)
	for i, txn := range transactions {
		ratio := e.costs.RatioFor(txn.ProductCategory)
		if !seen[txn.ProductCategory] {
			seen[txn.ProductCategory] = true
			if !e.costs.HasRule(txn.ProductCategory) {
				e.logger.DebugContext(ctx, "category missing from cost model, default ratio applied",
					slog.String("category", txn.ProductCategory),
					slog.Float64("ratio", ratio))
			}
		}

		txn.CostRatio = ratio
		txn.EstimatedCost = txn.Revenue * ratio
		txn.EstimatedProfit = txn.Revenue - txn.EstimatedCost
		if txn.Revenue != 0 {
			txn.ProfitMargin = txn.EstimatedProfit / txn.Revenue
		} else {
			txn.ProfitMargin = 0
		}

		enriched[i] = txn
	}

	e.logger.InfoContext(ctx, "cost estimation completed",
		slog.Int("transaction_count", len(enriched)))

	return enriched
}
