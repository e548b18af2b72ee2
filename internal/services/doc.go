// Package services defines shared utilities consumed by the build steps and
// the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp build IDs, step names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (missing input, broken tool, bad configuration).
//   - A thin command runner abstraction that makes external tool execution
//     testable.
//
// Use these helpers when wiring new build logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
