package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"peaksite/internal/deps"
	"peaksite/internal/preflight"
	"peaksite/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if ctx.configExists {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no peaksite.toml found)")
			}

			requirements := deps.Requirements(cfg)
			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			deps.DetectVersions(cmd.Context(), newRunner(), requirements, statuses)
			toolRows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				switch {
				case !s.Available && s.Optional:
					state = "optional"
				case !s.Available:
					state = "missing"
				}
				detail := s.Path
				if detail == "" {
					detail = s.Detail
				}
				toolRows = append(toolRows, []string{s.Name, s.Command, state, s.Version, detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "State", "Version", "Path"}, toolRows, nil))

			results := preflight.RunAll(cmd.Context(), cfg)
			results = append(results, preflight.CheckBind("Server bind", cfg.Server.Bind))
			checkRows := make([][]string, 0, len(results))
			for _, r := range results {
				state := "pass"
				if !r.Passed {
					state = "FAIL"
				}
				checkRows = append(checkRows, []string{r.Name, state, r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Result", "Detail"}, checkRows, nil))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "doctor", "", fmt.Sprintf("%d of %d checks failed", len(failed), len(results)), nil)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
