package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/hdfslash/pkg/engine"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/store"
	"github.com/DrSkyle/hdfslash/pkg/tui"
)

var optimizeInteractive bool

var optimizeCmd = &cobra.Command{
	Use:   "optimize <scan-id>",
	Short: "Turn a scan into a costed optimization plan",
	Long: `Builds recommendations for a stored scan, filters them through the
policy rules, and persists the resulting plan with its savings math.

With --interactive the proposed plan opens in a picker where individual
actions can be toggled off before anything is saved.

Example:
  hdfslash optimize scan-8819c2
  hdfslash optimize scan-8819c2 --interactive`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var opts []engine.Option
		if optimizeInteractive {
			opts = append(opts, engine.WithPlanReviewer(func(p *plan.Plan) (*plan.Plan, error) {
				return tui.RunPicker(p)
			}))
		}

		eng, err := buildEngine(ctx, opts...)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		env, err := eng.Optimize(ctx, args[0])
		if err != nil {
			switch {
			case errors.Is(err, tui.ErrReviewAborted):
				fmt.Println("Review abandoned. No plan was saved.")
			case errors.Is(err, store.ErrNotFound):
				fmt.Printf("Error: scan %q is not in the store. Run 'hdfslash scan' first.\n", args[0])
			default:
				fmt.Printf("Error running optimization: %v\n", err)
			}
			os.Exit(1)
		}

		renderOptimization(env)
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().BoolVarP(&optimizeInteractive, "interactive", "i", false, "Review the plan in a picker before it is saved")
}
