// Package deps reports whether the external tools a build shells out to are
// installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"peaksite/internal/config"
)

// Requirement defines an external dependency peaksite relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs print a one-line version when run; empty skips the check.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// Requirements lists the tools cfg needs. The Go toolchain is only required
// when the waveform UI is compiled to wasm.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Compresses source audio to WebM",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "audiowaveform",
			Command:     cfg.Tools.Audiowaveform,
			Description: "Generates waveform peak data",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "Bundler",
			Command:     cfg.Tools.Bundler,
			Description: "Bundles and minifies the site",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "Go",
			Command:     cfg.Tools.Go,
			Description: "Compiles the waveform UI to wasm",
			Optional:    !cfg.UI.WasmEnabled,
			VersionArgs: []string{"version"},
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}
