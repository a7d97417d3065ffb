// Package shared holds utilities used across the BrewPulse codebase that
// belong to no specific domain layer.
//
// The testutil subpackage provides log capture helpers for tests that
// assert on structured log output. Nothing under shared may contain
// business logic or depend on other internal packages.
package shared
