package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"peaksite/internal/devserver"
	"peaksite/internal/logging"
	"peaksite/internal/peaks"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		bind          string
		skipBuild     bool
		skipPreflight bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and serve the output directory locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			out := cmd.OutOrStdout()
			if !skipBuild {
				report, err := runBuild(cmd, ctx, skipPreflight)
				if err != nil {
					return err
				}
				printReport(out, report)
			}

			cache := peaks.NewCache(peaks.DefaultLoader(&http.Client{Timeout: 30 * time.Second}))
			server := devserver.New(cfg, cache, logger)
			url, err := server.Start(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Serving %s at %s\n", cfg.Paths.OutputDir, url)

			<-cmd.Context().Done()
			server.Stop()
			logger.Info("dev server stopped", logging.Int("cached_waveforms", cache.Len()))
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to server.bind)")
	cmd.Flags().BoolVar(&skipBuild, "no-build", false, "Serve the existing output without building first")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip tool and directory checks before building")
	return cmd
}
