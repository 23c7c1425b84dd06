package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DrSkyle/hdfslash/pkg/engine"
	"github.com/DrSkyle/hdfslash/pkg/scan"
	"github.com/DrSkyle/hdfslash/pkg/tui"
)

var scanProgress bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Walk the HDFS namespace and grade its storage waste",
	Long: `Walks the configured HDFS paths through WebHDFS, classifies every file
(cold, small, empty, orphaned, over-replicated, duplicate candidate), and
prices the waste. The report is persisted so later commands can reference
it by scan id.

Example:
  hdfslash scan --mock
  hdfslash scan --namenode nn1.prod --path /data --path /warehouse
  hdfslash scan --strict --json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		eng, err := buildEngine(ctx)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		rep, err := runScan(ctx, cancel, eng)
		if err != nil {
			if errors.Is(err, engine.ErrPartialResult) {
				fmt.Printf("Error: %v\n", err)
				fmt.Println("Some scopes failed and --strict is set. Nothing was ranked.")
				os.Exit(1)
			}
			fmt.Printf("Error running scan: %v\n", err)
			os.Exit(1)
		}

		renderScanReport(rep)

		// Partial results are still persisted and rendered, but CI callers
		// get a distinct exit code so they can tell complete from degraded.
		if rep.Partial {
			fmt.Printf("\n[WARN] %d scope(s) failed to list. Results are partial.\n", len(rep.FailedScopes))
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&cfg.MockMode, "mock", false, "Scan a built-in demo fleet instead of a live cluster")
	scanCmd.Flags().BoolVar(&cfg.StrictMode, "strict", false, "Fail the scan when any scope cannot be listed")
	scanCmd.Flags().StringSliceVar(&cfg.Scan.Paths, "path", cfg.Scan.Paths, "HDFS root(s) to walk (repeatable)")
	scanCmd.Flags().IntVar(&cfg.Scan.Depth, "depth", cfg.Scan.Depth, "Directory depth for the hot-spot rollup")
	scanCmd.Flags().IntVar(&cfg.MaxConcurrency, "max-workers", 0, "Limit listing concurrency (default: auto)")
	scanCmd.Flags().BoolVar(&scanProgress, "progress", false, "Show a live progress display while walking")
}

// runScan executes the scan either headless or behind the live progress
// display. The display polls the worker pool; the scan itself runs in a
// goroutine and posts its result back into the program.
func runScan(ctx context.Context, cancel context.CancelFunc, eng *engine.Engine) (*scan.Report, error) {
	if !scanProgress {
		return eng.Scan(ctx)
	}

	p := tea.NewProgram(tui.NewProgress(eng.Swarm))
	go func() {
		r, scanErr := eng.Scan(ctx)
		p.Send(tui.ScanDone(r, scanErr))
	}()

	final, runErr := p.Run()
	if runErr != nil {
		return nil, fmt.Errorf("progress display failed: %w", runErr)
	}

	prog, ok := final.(tui.Progress)
	if !ok {
		return nil, fmt.Errorf("unexpected progress model %T", final)
	}
	if prog.Aborted() {
		cancel()
		return nil, errors.New("scan aborted")
	}
	return prog.Report()
}
