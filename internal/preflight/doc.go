// Package preflight provides readiness checks for the tools and filesystem
// paths a peaksite build depends on.
//
// The doctor command prints every result. The build and serve commands run
// RunAll first and stop before touching any file when a check fails.
package preflight
