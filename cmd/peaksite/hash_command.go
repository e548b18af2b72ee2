package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"peaksite/internal/assets"
	"peaksite/internal/services"
)

func newHashCommand() *cobra.Command {
	var ext string

	cmd := &cobra.Command{
		Use:         "hash FILE...",
		Short:       "Print the content hash used in derived file names",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			for _, path := range args {
				hash, err := assets.HashFile(path)
				if err != nil {
					return services.Wrap(services.ErrNotFound, "hash", "read", path, err)
				}
				if ext != "" {
					fmt.Fprintf(out, "%s  %s\n", assets.DerivedName(path, hash, ext), path)
					continue
				}
				fmt.Fprintf(out, "%s  %s\n", hash, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ext, "ext", "", "Print the derived file name for this extension instead of the bare hash")
	return cmd
}
