package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"peaksite/internal/audioopt"
	"peaksite/internal/imageopt"
	"peaksite/internal/services"
)

func newOptimizeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run a single optimization step without bundling",
	}
	cmd.AddCommand(newOptimizeImagesCommand(ctx))
	cmd.AddCommand(newOptimizeSoundsCommand(ctx))
	return cmd
}

func newOptimizeImagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Convert raw images to resized WebP",
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
			result, err := imageopt.New(cfg, newEncoder(), logger).Run(cmd.Context())
			out := cmd.OutOrStdout()
			for _, img := range result.Images {
				fmt.Fprintf(out, "%s -> %s%s\n", img.Source, img.Output, writtenSuffix(img.Written))
			}
			fmt.Fprintf(out, "Images: %s\n", result)
			return err
		},
	}
}

func newOptimizeSoundsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sounds [FILE...]",
		Short: "Compress recordings and generate waveform peaks",
		Long: "Compress recordings to WebM and generate JSON and binary waveform peaks.\n" +
			"Without arguments every file in audio.source_dir matching audio.patterns is processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			optimizer := audioopt.New(cfg, newRunner(), logger)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				results, err := optimizer.OptimizeAll(cmd.Context(), cfg.Audio.SourceDir, cfg.Audio.Patterns)
				printArtifacts(out, results)
				return err
			}

			if err := os.MkdirAll(optimizer.OutputDir, 0o755); err != nil {
				return services.Wrap(services.ErrConfiguration, "audio", "mkdir", optimizer.OutputDir, err)
			}
			results := make([]audioopt.Artifacts, 0, len(args))
			for _, source := range args {
				art, err := optimizer.Process(cmd.Context(), source)
				if err != nil {
					printArtifacts(out, results)
					return err
				}
				results = append(results, art)
			}
			printArtifacts(out, results)
			return nil
		},
	}
}

func printArtifacts(out io.Writer, results []audioopt.Artifacts) {
	for _, art := range results {
		fmt.Fprintf(out, "%s [%s]\n", art.Source, art.Hash)
		written := make(map[string]bool, len(art.Written))
		for _, name := range art.Written {
			written[name] = true
		}
		for _, name := range []string{art.Audio, art.Waveform, art.Dat} {
			fmt.Fprintf(out, "  %s%s\n", name, writtenSuffix(written[name]))
		}
	}
}

func writtenSuffix(written bool) string {
	if written {
		return " (generated)"
	}
	return " (cached)"
}
