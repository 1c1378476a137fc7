package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/dispatch"
)

func newCompareCmd() *cobra.Command {
	var filePatterns, ignorePatterns []string

	cmd := &cobra.Command{
		Use:   "compare <source_path> <target_path>",
		Short: "Compare two directory trees and print the change summary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("comparing"),
				progressbar.OptionSpinnerType(14),
			)
			defer bar.Finish()

			d := newDispatcher()
			res, err := runCompare(cmd.Context(), d, args[0], args[1], filePatterns, ignorePatterns)
			if err != nil {
				return err
			}

			color.New(color.FgGreen, color.Bold).Printf("comparison %s\n", res.ComparisonID)
			printStats(res.Summary)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&filePatterns, "include", nil, "allow-list glob patterns")
	cmd.Flags().StringSliceVar(&ignorePatterns, "exclude", nil, "deny-list glob patterns")
	return cmd
}

func runCompare(ctx context.Context, d *dispatch.Dispatcher, source, target string, include, exclude []string) (*dispatch.CompareLocationsResult, error) {
	return d.CompareLocations(ctx, dispatch.CompareLocationsRequest{
		SourcePath:     source,
		TargetPath:     target,
		FilePatterns:   include,
		IgnorePatterns: exclude,
	})
}

func printStats(stats core.Stats) {
	order := []core.ChangeType{core.ChangeModified, core.ChangeAdded, core.ChangeDeleted, core.ChangeRenamed, core.ChangeMoved, core.ChangeUnchanged}
	for _, ct := range order {
		fmt.Printf("  %-10s %d\n", ct, stats.Counts[ct])
	}
	fmt.Printf("  %-10s %d\n", "total", stats.Total)
}
