package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewcli/internal/config"
	"brewcli/internal/shared/testutil"
)

func TestNewCostEstimator(t *testing.T) {
	t.Run("empty model falls back to built-in table", func(t *testing.T) {
		estimator := NewCostEstimator(slog.Default(), config.CostModel{})

		assert.NotNil(t, estimator)
		assert.Equal(t, 0.35, estimator.costs.RatioFor("Coffee"))
		assert.Equal(t, config.DefaultCostRatio, estimator.costs.DefaultRatio)
	})

	t.Run("configured model is kept", func(t *testing.T) {
		model := config.CostModel{
			Rules:        []config.CostRule{{Category: "Coffee", Ratio: 0.10}},
			DefaultRatio: 0.25,
		}
		estimator := NewCostEstimator(slog.Default(), model)

		assert.Equal(t, 0.10, estimator.costs.RatioFor("Coffee"))
		assert.Equal(t, 0.25, estimator.costs.RatioFor("Unknown"))
	})

	t.Run("nil logger uses default", func(t *testing.T) {
		estimator := NewCostEstimator(nil, config.DefaultCostModel())
		assert.NotNil(t, estimator.logger)
	})
}

func TestCostEstimator_Enrich(t *testing.T) {
	ctx := context.Background()
	estimator := NewCostEstimator(slog.Default(), config.DefaultCostModel())

	t.Run("coffee transaction", func(t *testing.T) {
		transactions := []Transaction{
			{
				TransactionID:   "1",
				Quantity:        2,
				UnitPrice:       3.50,
				Revenue:         7.00,
				ProductCategory: "Coffee",
			},
		}

		enriched := estimator.Enrich(ctx, transactions)
		require.Len(t, enriched, 1)

		txn := enriched[0]
		assert.Equal(t, 0.35, txn.CostRatio)
		assert.InDelta(t, 2.45, txn.EstimatedCost, 0.0001)
		assert.InDelta(t, 4.55, txn.EstimatedProfit, 0.0001)
		assert.InDelta(t, 0.65, txn.ProfitMargin, 0.0001)
	})

	t.Run("unlisted category uses default ratio", func(t *testing.T) {
		transactions := []Transaction{
			{
				TransactionID:   "2",
				Revenue:         10.00,
				ProductCategory: "Packaged Chocolate",
			},
		}

		enriched := estimator.Enrich(ctx, transactions)
		require.Len(t, enriched, 1)

		txn := enriched[0]
		assert.Equal(t, config.DefaultCostRatio, txn.CostRatio)
		assert.InDelta(t, 5.00, txn.EstimatedCost, 0.0001)
		assert.InDelta(t, 5.00, txn.EstimatedProfit, 0.0001)
		assert.InDelta(t, 0.50, txn.ProfitMargin, 0.0001)
	})

	t.Run("bakery transaction", func(t *testing.T) {
		transactions := []Transaction{
			{
				TransactionID:   "3",
				Revenue:         4.00,
				ProductCategory: "Bakery",
			},
		}

		enriched := estimator.Enrich(ctx, transactions)
		require.Len(t, enriched, 1)

		txn := enriched[0]
		assert.Equal(t, 0.60, txn.CostRatio)
		assert.InDelta(t, 2.40, txn.EstimatedCost, 0.0001)
		assert.InDelta(t, 1.60, txn.EstimatedProfit, 0.0001)
		assert.InDelta(t, 0.40, txn.ProfitMargin, 0.0001)
	})

	t.Run("zero revenue yields zero margin", func(t *testing.T) {
		transactions := []Transaction{
			{
				TransactionID:   "4",
				Revenue:         0,
				ProductCategory: "Coffee",
			},
		}

		enriched := estimator.Enrich(ctx, transactions)
		require.Len(t, enriched, 1)

		txn := enriched[0]
		assert.Equal(t, 0.0, txn.EstimatedCost)
		assert.Equal(t, 0.0, txn.EstimatedProfit)
		assert.Equal(t, 0.0, txn.ProfitMargin)
	})

	t.Run("empty input", func(t *testing.T) {
		enriched := estimator.Enrich(ctx, []Transaction{})
		assert.Empty(t, enriched)
	})

	t.Run("input set is not mutated", func(t *testing.T) {
		transactions := []Transaction{
			{
				TransactionID:   "5",
				Revenue:         7.00,
				ProductCategory: "Coffee",
			},
		}

		enriched := estimator.Enrich(ctx, transactions)

		assert.Equal(t, 0.0, transactions[0].CostRatio)
		assert.Equal(t, 0.0, transactions[0].EstimatedCost)
		assert.NotEqual(t, 0.0, enriched[0].EstimatedCost)
	})
}

func TestCostEstimator_Enrich_UnknownCategoryLogging(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger(t)
	estimator := NewCostEstimator(logger, config.DefaultCostModel())

	transactions := []Transaction{
		{TransactionID: "1", Revenue: 5.00, ProductCategory: "Coffee"},
		{TransactionID: "2", Revenue: 5.00, ProductCategory: "Packaged Chocolate"},
		{TransactionID: "3", Revenue: 5.00, ProductCategory: "Packaged Chocolate"},
		{TransactionID: "4", Revenue: 5.00, ProductCategory: "Loose Tea"},
	}

	estimator.Enrich(context.Background(), transactions)

	var fallbacks []testutil.LogRecord
	for _, rec := range logs.ByLevel(slog.LevelDebug) {
		if rec.Message == "category missing from cost model, default ratio applied" {
			fallbacks = append(fallbacks, rec)
		}
	}

	// One line per distinct unknown category, none for covered ones
	require.Len(t, fallbacks, 2)
	assert.Equal(t, "Packaged Chocolate", fallbacks[0].Attrs["category"])
	assert.Equal(t, "Loose Tea", fallbacks[1].Attrs["category"])
	assert.Equal(t, config.DefaultCostRatio, fallbacks[0].Attrs["ratio"])
}
