package deps

import (
	"context"
	"strings"
	"time"

	"peaksite/internal/services"
)

const versionCheckTimeout = 5 * time.Second

// DetectVersions fills Version for each available status by running the
// matching requirement's version command. Failures are recorded in
// Detail and never make a tool unavailable.
func DetectVersions(ctx context.Context, runner services.Runner, requirements []Requirement, statuses []Status) {
	byName := make(map[string]Requirement, len(requirements))
	for _, req := range requirements {
		byName[req.Name] = req
	}
	for i := range statuses {
		status := &statuses[i]
		req, ok := byName[status.Name]
		if !ok || !status.Available || len(req.VersionArgs) == 0 {
			continue
		}
		checkCtx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
		out, err := runner.Run(checkCtx, services.Command{Name: status.Path, Args: req.VersionArgs})
		cancel()
		if err != nil {
			status.Detail = "version check failed"
			continue
		}
		status.Version = firstLine(string(out))
	}
}

func firstLine(out string) string {
	out = strings.TrimSpace(out)
	if idx := strings.IndexByte(out, '\n'); idx >= 0 {
		out = out[:idx]
	}
	return strings.TrimSpace(out)
}
