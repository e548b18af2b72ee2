package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"peaksite/internal/assets"
	"peaksite/internal/audioopt"
	"peaksite/internal/ledger"
	"peaksite/internal/logging"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List derived files in the output directory",
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

			entries, err := assets.Scan(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			current, err := currentHashes(cfg.Audio.SourceDir, cfg.Audio.Patterns)
			if err != nil {
				return err
			}
			orphans := assets.Orphans(entries, current)
			orphaned := make(map[string]bool, len(orphans))
			for _, o := range orphans {
				orphaned[o.Name.String()] = true
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No derived files in %s\n", cfg.Paths.OutputDir)
				return nil
			}

			return ctx.withLedger(logger, func(store *ledger.Store) error {
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					name := entry.Name.String()
					state := "current"
					if orphaned[name] {
						state = "orphan"
					}
					rows = append(rows, []string{
						name,
						assetKind(entry.Name.Ext),
						entry.Name.Hash,
						humanize.IBytes(uint64(entry.Size)),
						firstSeen(cmd, store, name),
						state,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Kind", "Hash", "Size", "First Seen", "State"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d files, %d orphaned\n", len(entries), len(orphans))

				if !prune || len(orphans) == 0 {
					return nil
				}
				var errs []error
				removed := 0
				for _, o := range orphans {
					path := filepath.Join(cfg.Paths.OutputDir, o.Name.String())
					if err := os.Remove(path); err != nil {
						errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
						continue
					}
					removed++
				}
				logger.Info("pruned orphaned assets", logging.Int("removed", removed))
				fmt.Fprintf(out, "Removed %s\n", pluralFiles(removed))
				return errors.Join(errs...)
			})
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete derived files whose source changed or disappeared")
	return cmd
}

// currentHashes maps each source base name to the hash of its present content.
func currentHashes(dir string, patterns []string) (map[string]string, error) {
	sources, err := audioopt.Sources(dir, patterns)
	if err != nil {
		return nil, err
	}
	current := make(map[string]string, len(sources))
	for _, source := range sources {
		hash, err := assets.HashFile(source)
		if err != nil {
			return nil, err
		}
		current[assets.BaseName(source)] = hash
	}
	return current, nil
}

func firstSeen(cmd *cobra.Command, store *ledger.Store, name string) string {
	if store == nil {
		return ""
	}
	at, ok, err := store.FirstSeen(cmd.Context(), name)
	if err != nil || !ok {
		return ""
	}
	return at.Local().Format(time.DateTime)
}

func assetKind(ext string) string {
	switch strings.ToLower(ext) {
	case "webm":
		return ledger.KindAudio
	case "json":
		return ledger.KindWaveform
	case "dat":
		return ledger.KindDat
	default:
		return ext
	}
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return strconv.Itoa(n) + " files"
}
