package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/dispatch"
)

func newListCmd() *cobra.Command {
	var filePatterns, ignorePatterns, changeTypes []string
	var limit int
	var minMagnitude float64

	cmd := &cobra.Command{
		Use:   "list <source_path> <target_path>",
		Short: "Compare and list changed functions in ranked order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newDispatcher()
			res, err := runCompare(cmd.Context(), d, args[0], args[1], filePatterns, ignorePatterns)
			if err != nil {
				return err
			}

			changes, err := d.ListChangedFunctions(dispatch.ListChangedFunctionsRequest{
				ComparisonID: res.ComparisonID,
				Limit:        limit,
				ChangeTypes:  parseChangeTypes(changeTypes),
				MinMagnitude: minMagnitude,
			})
			if err != nil {
				return err
			}

			for _, fc := range changes {
				printChange(fc)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&filePatterns, "include", nil, "allow-list glob patterns")
	cmd.Flags().StringSliceVar(&ignorePatterns, "exclude", nil, "deny-list glob patterns")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum entries to return")
	cmd.Flags().StringSliceVar(&changeTypes, "type", nil, "filter by change type (added, deleted, modified, renamed, moved, unchanged)")
	cmd.Flags().Float64Var(&minMagnitude, "min-magnitude", 0, "minimum magnitude to include")
	return cmd
}

func parseChangeTypes(raw []string) []core.ChangeType {
	if len(raw) == 0 {
		return nil
	}
	out := make([]core.ChangeType, len(raw))
	for i, r := range raw {
		out[i] = core.ChangeType(strings.ToLower(r))
	}
	return out
}

func changeColor(ct core.ChangeType) *color.Color {
	switch ct {
	case core.ChangeAdded:
		return color.New(color.FgGreen)
	case core.ChangeDeleted:
		return color.New(color.FgRed)
	case core.ChangeModified:
		return color.New(color.FgYellow)
	case core.ChangeRenamed, core.ChangeMoved:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

func printChange(fc core.FunctionChange) {
	c := changeColor(fc.ChangeType)
	c.Printf("%-10s", fc.ChangeType)
	fmt.Printf(" %-30s mag=%.2f sim=%.2f  %s\n", fc.Name, fc.Magnitude, fc.Similarity, fc.Summary)
}
