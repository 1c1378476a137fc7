package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	var filePatterns, ignorePatterns []string

	cmd := &cobra.Command{
		Use:   "summary <source_path> <target_path>",
		Short: "Compare and print only the aggregate change counts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newDispatcher()
			res, err := runCompare(cmd.Context(), d, args[0], args[1], filePatterns, ignorePatterns)
			if err != nil {
				return err
			}

			ctx, err := d.GetComparisonSummary(res.ComparisonID)
			if err != nil {
				return err
			}

			fmt.Printf("comparison %s\n", ctx.ID)
			fmt.Printf("source: %s\n", ctx.SourceRoot)
			fmt.Printf("target: %s\n", ctx.TargetRoot)
			fmt.Printf("at:     %s\n", ctx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			printStats(ctx.Stats)
			if len(ctx.Warnings) > 0 {
				fmt.Printf("warnings: %d\n", len(ctx.Warnings))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&filePatterns, "include", nil, "allow-list glob patterns")
	cmd.Flags().StringSliceVar(&ignorePatterns, "exclude", nil, "deny-list glob patterns")
	return cmd
}
