// Package files discovers raw workbook exports on disk.
//
// The BrewPulse binaries accept an explicit workbook path; when none is
// given and the well-known export name is absent, the newest .xlsx in the
// raw data directory is used instead. Discovery is rooted at a base
// directory so relative locations resolve the same way regardless of the
// process working directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//
//	latest, ok, err := discovery.LatestWorkbook("raw")
//	if err == nil && ok {
//	    workbook = latest.Path
//	}
package files
