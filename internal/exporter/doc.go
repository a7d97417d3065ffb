// Package exporter provides CSV export functionality for BrewPulse.
//
// CSVWriter is the core component. It supports batch writes with optional
// headers, append mode, an optional UTF-8 BOM for Excel compatibility, and
// streaming writes for large datasets via StreamWriter.
//
// Relative output paths are resolved against the configured directory tree:
// paths prefixed with "cleaned/" land in the cleaned data directory, paths
// prefixed with "raw/" in the raw data directory, and everything else in the
// reports directory. Absolute paths are used as-is.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//
//	// Batch write a report
//	err := writer.WriteSimpleCSV("category_summary.csv", headers, records)
//
//	// Stream a large dataset row by row
//	stream, err := writer.CreateStreamWriter("cleaned/dataset.csv", headers)
//	for _, record := range records {
//		if err := stream.WriteRecord(record); err != nil {
//			return err
//		}
//	}
//	err = stream.Close()
package exporter
