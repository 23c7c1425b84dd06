package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/hdfslash/pkg/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <scan-id>",
	Short: "Print the executive summary for a stored scan",
	Long: `Distills a stored scan into the numbers a capacity review cares about:
current spend, the top savings opportunities, cluster health, risk, and
the projected bill after optimization.

Example:
  hdfslash summary scan-8819c2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		eng, err := buildEngine(ctx)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		rep, err := eng.Summarize(ctx, args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("Error: scan %q is not in the store. Run 'hdfslash scan' first.\n", args[0])
			} else {
				fmt.Printf("Error building summary: %v\n", err)
			}
			os.Exit(1)
		}

		renderSummary(rep)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
