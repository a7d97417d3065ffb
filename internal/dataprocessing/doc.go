// Package dataprocessing provides the data preparation stages of the BrewPulse
// pipeline. It consolidates workbook loading, cleaning, cost estimation, and
// cleaned-dataset persistence into a cohesive package that handles the data
// lifecycle from Excel ingestion to the analysis-ready transaction set.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Loader: reads the raw sales workbook and extracts transaction records
// 2. Cleaner: applies the ordered validation and derivation steps
// 3. CostEstimator: enriches transactions with category-based cost figures
// 4. DatasetWriter: persists the cleaned CSV and the cleaning log
//
// # Usage
//
// Loading and cleaning:
//
//	loader := dataprocessing.NewLoader(logger, cfg.Input)
//	records, err := loader.LoadWorkbook(ctx, paths.RawWorkbook)
//	if err != nil {
//	    return err
//	}
//
//	cleaner := dataprocessing.NewCleaner(logger, cfg.Cleaning)
//	result, err := cleaner.Clean(ctx, records)
//
// Cost enrichment and persistence:
//
//	estimator := dataprocessing.NewCostEstimator(logger, cfg.Costs)
//	enriched := estimator.Enrich(ctx, result.Transactions)
//
//	writer := dataprocessing.NewDatasetWriter(logger, paths)
//	err = writer.SaveCleanedCSV(ctx, enriched)
//	err = writer.SaveCleaningLog(ctx, result.Stats)
//
// # Data Flow
//
// The typical flow through this package:
//
//	Workbook → Loader → RawRecords → Cleaner → Transactions → CostEstimator → Enriched Transactions
//
// # Error Handling
//
// Errors carry typed context from the errors package:
//
//	- Loading errors include the file path, sheet name, and missing columns
//	- Persistence errors include the output path and offending transaction
//	- Row-level cleaning problems are not errors; they are counted removals
//	  reported in CleaningStats
package dataprocessing
