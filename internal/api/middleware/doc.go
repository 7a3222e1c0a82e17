// Package middleware provides HTTP middleware for request tracing and
// Prometheus instrumentation.
package middleware
