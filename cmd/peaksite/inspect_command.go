package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"peaksite/internal/peaks"
	"peaksite/internal/services"
)

func newInspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "inspect FILE|URL...",
		Short:       "Decode waveform peak files and print their header and range",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := peaks.NewCache(peaks.DefaultLoader(&http.Client{Timeout: 30 * time.Second}))

			type inspected struct {
				Source  string        `json:"source"`
				Summary peaks.Summary `json:"summary"`
			}
			results := make([]inspected, 0, len(args))
			for _, source := range args {
				data, err := cache.Get(cmd.Context(), source)
				if err != nil {
					if errors.Is(err, peaks.ErrFormat) {
						return services.Wrap(services.ErrValidation, "inspect", "decode", source, err)
					}
					return services.Wrap(services.ErrNotFound, "inspect", "load", source, err)
				}
				results = append(results, inspected{Source: source, Summary: data.Summarize()})
			}

			if asJSON {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				s := r.Summary
				rows = append(rows, []string{
					r.Source,
					strconv.Itoa(s.Version),
					strconv.Itoa(s.Channels),
					strconv.Itoa(s.Bits),
					strconv.Itoa(s.SampleRate),
					strconv.Itoa(s.SamplesPerPixel),
					strconv.Itoa(s.Length),
					fmt.Sprintf("%.2fs", s.DurationSeconds),
					fmt.Sprintf("%d..%d", s.Min, s.Max),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Source", "Version", "Channels", "Bits", "Rate", "Samples/px", "Length", "Duration", "Range"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON")
	return cmd
}
