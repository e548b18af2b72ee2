// Package main hosts the peaksite CLI entrypoint and command graph.
//
// The Cobra command tree wraps the build pipeline (build, serve, optimize),
// the content-hash helpers (hash, assets, inspect) and setup tooling
// (doctor, config). Configuration resolution, logger construction and the
// external tool runner live in commandContext so subcommands only wire
// flags to internal packages.
package main
