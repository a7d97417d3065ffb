package config

import "time"

// Application constants - all hardcoded values for the BrewPulse system
const (
	// Application Info
	AppName    = "BrewPulse"
	AppVersion = "1.0.0"

	// Input Workbook Constants
	RawWorkbookName  = "coffee_shop_sales.xlsx"
	DefaultSheetName = "Transactions"

	// Artifact file names (written under data/cleaned and data/reports)
	CleanedCSVName     = "coffee_shop_sales_cleaned.csv"
	CleaningLogName    = "data_cleaning_log.txt"
	AnalysisReportName = "coffee_shop_analysis_report.txt"

	// File Paths (relative to executable)
	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	// Cleaning Bounds
	DefaultMinUnitPrice = 0.01
	DefaultMaxUnitPrice = 15.00

	// Cost Estimation
	DefaultCostRatio = 0.50

	// Input Limits
	DefaultMaxFileSizeMB = 100

	// Operation Timeouts
	DefaultPipelineTimeout = 15 * time.Minute

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "both"
	DefaultLogFile   = "logs/brewpulse.log"

	// Report Formatting
	TopProductsCount    = 10
	BottomProductsCount = 5
	LowMarginThreshold  = 0.2

	// Error Messages
	ErrWorkbookMissing = "Raw sales workbook not found. Place the Excel export under data/raw before running."
	ErrNoUsableRows    = "All rows were removed during cleaning. Check the raw data quality."

	// Success Messages
	MsgCleaningComplete = "Data cleaning completed successfully."
	MsgAnalysisComplete = "Analysis completed successfully."
)

// Default cost ratios by product category. Categories not listed here fall
// back to DefaultCostRatio via CostModel.RatioFor.
var defaultCostRules = []CostRule{
	{Category: "Coffee", Ratio: 0.35},
	{Category: "Tea", Ratio: 0.30},
	{Category: "Drinking Chocolate", Ratio: 0.40},
	{Category: "Frappé", Ratio: 0.45},
	{Category: "Smoothies", Ratio: 0.50},
	{Category: "Bakery", Ratio: 0.60},
	{Category: "Branded", Ratio: 0.70},
	{Category: "Flavours", Ratio: 0.25},
}
