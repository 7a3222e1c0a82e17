// Package ciutil detects CI environments and resolves the database URL used
// by integration tests.
//
// Integration tests skip locally when no database is configured but fail in
// CI, where a missing database means the pipeline is misconfigured.
package ciutil
