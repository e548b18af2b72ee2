// Package logging assembles structured slog loggers and formatting helpers used
// across peaksite commands.
//
// It owns the console/JSON handlers, picks a format for the attached terminal,
// tees every record into the persistent build log, and exposes context-aware
// helpers so build steps automatically tag lines with the build ID and step
// name. A no-op logger is provided for tests and wiring code that cannot fail.
package logging
