// Package analysis implements the forest inventory analysis engine: tree
// volume, stand-level per-acre metrics, sampling statistics across plots,
// diameter distributions and year-by-year growth projections.
//
// Every calculator is a pure function of a read-only ForestInventory (or a
// StandMetrics snapshot) and returns freshly allocated results. Nothing is
// cached between calls, so all calculators may run concurrently over the same
// inventory. The Service type bundles the calculators with default parameters.
package analysis
