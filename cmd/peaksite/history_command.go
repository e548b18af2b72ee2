package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"peaksite/internal/ledger"
	"peaksite/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [BUILD_ID]",
		Short: "Show recorded builds, or the assets of one build",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLedger(logger, func(store *ledger.Store) error {
				if store == nil {
					return services.Wrap(services.ErrConfiguration, "history", "open", "build ledger unavailable", nil)
				}
				if len(args) == 1 {
					return showBuild(cmd, store, args[0])
				}
				return listBuilds(cmd, store, limit)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of builds to show")
	return cmd
}

func listBuilds(cmd *cobra.Command, store *ledger.Store, limit int) error {
	builds, err := store.RecentBuilds(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(builds) == 0 {
		fmt.Fprintln(out, "No builds recorded")
		return nil
	}
	rows := make([][]string, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, []string{
			b.ID,
			b.StartedAt.Local().Format(time.DateTime),
			b.Status,
			formatBuildDuration(b),
			strconv.Itoa(b.Assets),
			b.Error,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Build", "Started", "Status", "Duration", "Assets", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

func showBuild(cmd *cobra.Command, store *ledger.Store, id string) error {
	b, err := store.GetBuild(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrBuildNotFound) {
			return services.Wrap(services.ErrNotFound, "history", "lookup", id, err)
		}
		return err
	}
	items, err := store.AssetsForBuild(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Build %s: %s (%s)\n", b.ID, b.Status, formatBuildDuration(b))
	if b.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", b.Error)
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.Kind, a.Source, a.Output, yesNo(a.Generated)})
	}
	fmt.Fprintln(out, renderTable([]string{"Kind", "Source", "Output", "Generated"}, rows, nil))
	return nil
}

func formatBuildDuration(b ledger.Build) string {
	if b.FinishedAt.IsZero() {
		return "running"
	}
	return b.Duration().Round(time.Millisecond).String()
}
