package preflight

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"peaksite/internal/config"
	"peaksite/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks and the required-tool check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckFile("Entry point", cfg.Paths.Entrypoint))
	results = append(results, CheckDirectoryReadable("Audio sources", cfg.Audio.SourceDir))
	if featured := strings.TrimSpace(cfg.Audio.Featured); featured != "" {
		results = append(results, CheckFile("Featured track", filepath.Join(cfg.Audio.SourceDir, featured)))
	}
	results = append(results, CheckOptionalDirectory("Raw images", cfg.Images.RawDir))
	results = append(results, CheckWritableTarget("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckWritableTarget("Optimized images", cfg.Images.OptimizedDir))
	results = append(results, CheckWritableTarget("State directory", cfg.Paths.StateDir))
	results = append(results, checkTools(CheckSystemDeps(ctx, cfg)))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func checkTools(statuses []deps.Status) Result {
	const name = "External tools"
	missing := deps.Missing(statuses)
	if len(missing) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d tools available", countAvailable(statuses))}
	}
	names := make([]string, 0, len(missing))
	for _, m := range missing {
		names = append(names, m.Command)
	}
	return Result{Name: name, Detail: "missing: " + strings.Join(names, ", ")}
}

func countAvailable(statuses []deps.Status) int {
	n := 0
	for _, s := range statuses {
		if s.Available {
			n++
		}
	}
	return n
}
