package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"peaksite/internal/build"
	"peaksite/internal/config"
	"peaksite/internal/ledger"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Optimize media, write the asset manifest and bundle the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runBuild(cmd, ctx, skipPreflight)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip tool and directory checks before building")
	return cmd
}

func runBuild(cmd *cobra.Command, ctx *commandContext, skipPreflight bool) (*build.Report, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	if !skipPreflight {
		if err := runPreflight(cmd, cfg); err != nil {
			return nil, err
		}
	}

	var report *build.Report
	err = ctx.withLedger(logger, func(store *ledger.Store) error {
		var runErr error
		report, runErr = buildOnce(cmd.Context(), cfg, logger, store)
		return runErr
	})
	return report, err
}

func buildOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger, store *ledger.Store) (*build.Report, error) {
	opts := []build.Option{
		build.WithRunner(newRunner()),
		build.WithEncoder(newEncoder()),
	}
	if store != nil {
		opts = append(opts, build.WithLedger(store))
	}
	return build.New(cfg, logger, opts...).Run(ctx)
}

func printReport(out io.Writer, report *build.Report) {
	if report == nil {
		return
	}
	fmt.Fprintf(out, "Build %s complete in %s\n", report.BuildID, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Images: %s\n", report.Images)

	generated := 0
	for _, art := range report.Manifest.Audio {
		generated += art.Generated()
	}
	fmt.Fprintf(out, "Audio: %d sources, %d files generated\n", len(report.Manifest.Audio), generated)
	if featured := report.Manifest.Featured; featured != nil {
		fmt.Fprintf(out, "Featured: %s -> %s, %s\n", featured.Source, featured.Audio, featured.Waveform)
	}
	if wasm := report.Manifest.Wasm; wasm != nil {
		fmt.Fprintf(out, "Waveform UI: %s\n", wasm.Module)
	}
}
