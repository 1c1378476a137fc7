// Command semdiff is a CLI demonstration surface over the core diff
// engine: it drives compare_locations, list_changed_functions,
// get_function_diff and get_comparison_summary from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oxhq/semdiff/internal/applog"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "semdiff",
		Short: "Structural, function-level diff engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				applog.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newSummaryCmd())
	return cmd
}
