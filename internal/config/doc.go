// Package config provides centralized configuration management for the BrewPulse system.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BREW_* for namespacing:
//
//	BREW_INPUT_SHEET_NAME=Transactions
//	BREW_CLEANING_MAX_UNIT_PRICE=15.00
//	BREW_COSTS_DEFAULT_RATIO=0.50
//	BREW_LOGGING_LEVEL=info
//
// # Cost Model
//
// The cost estimator reads its per-category ratios from the Costs section.
// The built-in table covers the standard coffee shop categories and every
// unknown category falls back to the configured default ratio:
//
//	ratio := cfg.Costs.RatioFor("Coffee")
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	cleanedPath := paths.GetCleanedPath("coffee_shop_sales_cleaned.csv")
//	reportPath := paths.GetReportPath("coffee_shop_analysis_report.txt")
//
// # Validation
//
// All configuration is validated at load time to ensure:
//
//	- Required fields are present
//	- Values are within acceptable ranges
//	- Price bounds are ordered
//	- Cost ratios stay between 0 and 1
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
