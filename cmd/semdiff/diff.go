package main

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/semdiff/internal/dispatch"
)

func newDiffCmd() *cobra.Command {
	var filePatterns, ignorePatterns []string
	var includeContent bool

	cmd := &cobra.Command{
		Use:   "diff <source_path> <target_path> <function_name>",
		Short: "Show the unified diff of one function between two trees",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newDispatcher()
			res, err := runCompare(cmd.Context(), d, args[0], args[1], filePatterns, ignorePatterns)
			if err != nil {
				return err
			}

			fc, err := d.GetFunctionDiff(dispatch.GetFunctionDiffRequest{
				ComparisonID:   res.ComparisonID,
				FunctionName:   args[2],
				IncludeContent: includeContent,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s (similarity %.3f, magnitude %.3f)\n", fc.Name, fc.ChangeType, fc.Similarity, fc.Magnitude)
			if !includeContent {
				return nil
			}
			text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(fc.SourceBody),
				B:        difflib.SplitLines(fc.TargetBody),
				FromFile: "source",
				ToFile:   "target",
				Context:  3,
			})
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&filePatterns, "include", nil, "allow-list glob patterns")
	cmd.Flags().StringSliceVar(&ignorePatterns, "exclude", nil, "deny-list glob patterns")
	cmd.Flags().BoolVar(&includeContent, "content", true, "include function bodies in the diff")
	return cmd
}
