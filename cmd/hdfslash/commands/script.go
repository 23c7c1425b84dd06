package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/hdfslash/pkg/store"
)

var scriptOut string

var scriptCmd = &cobra.Command{
	Use:   "script <plan-id>",
	Short: "Render executable shell scripts for a stored plan",
	Long: `Renders the hdfs-cli scripts that carry out a stored plan: the
optimization script itself, a monitoring script for afterwards, and a
rollback script keyed to the same run.

The optimization script honors DRY_RUN=true, which logs every command
without executing it. Preview first, then run for real.

Example:
  hdfslash script plan-4f0a11
  DRY_RUN=true ./hdfslash-out/optimization.sh
  hdfslash script plan-4f0a11 --out ./ops/2026-08`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		eng, err := buildEngine(ctx)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		set, err := eng.Scripts(ctx, args[0], scriptOut)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("Error: plan %q is not in the store. Run 'hdfslash optimize' first.\n", args[0])
			} else {
				fmt.Printf("Error rendering scripts: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("\n[SUCCESS] Scripts rendered for plan %s:\n", args[0])
		for _, path := range set.Paths() {
			fmt.Printf("  %s\n", path)
		}
		fmt.Println("\nRun with DRY_RUN=true first. The scripts delete data.")
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().StringVar(&scriptOut, "out", "hdfslash-out", "Directory for the rendered scripts")
}
