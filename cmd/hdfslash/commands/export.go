package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/hdfslash/pkg/engine"
	"github.com/DrSkyle/hdfslash/pkg/store"
)

var (
	exportFormat string
	exportPath   string
	exportUpload string
)

var exportCmd = &cobra.Command{
	Use:   "export <scan-id>",
	Short: "Export a stored scan (CSV, JSON, HTML)",
	Long: `Writes the findings of a stored scan to disk. CSV lists every finding
as a row, JSON carries the full machine-readable report, and HTML renders
the self-contained dashboard.

Default output directory: ./hdfslash-out/

Example:
  hdfslash export scan-8819c2 --format csv
  hdfslash export scan-8819c2 --format html --out ./reports/q3.html
  hdfslash export scan-8819c2 --upload s3://audit-bucket/hdfs/2026-08`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		eng, err := buildEngine(ctx)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		path := exportPath
		if path == "" {
			path = defaultExportPath(exportFormat)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				fmt.Printf("Error creating output directory: %v\n", err)
				os.Exit(1)
			}
		}

		if err := eng.Export(ctx, args[0], exportFormat, path); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("Error: scan %q is not in the store. Run 'hdfslash scan' first.\n", args[0])
			} else {
				fmt.Printf("Error exporting: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Println("\n[SUCCESS] Export Complete.")
		fmt.Printf("   %s: %s\n", formatLabel(exportFormat), path)

		if exportUpload != "" {
			fmt.Printf("\nUploading %s to %s ...\n", filepath.Dir(path), exportUpload)
			if err := eng.UploadArtifacts(ctx, filepath.Dir(path), exportUpload); err != nil {
				fmt.Printf("[WARN] Upload failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("[SUCCESS] Artifacts uploaded.")
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", engine.FormatCSV, "Export format (csv, json, html)")
	exportCmd.Flags().StringVar(&exportPath, "out", "", "Output file (default under ./hdfslash-out/)")
	exportCmd.Flags().StringVar(&exportUpload, "upload", "", "Mirror the output directory to s3://bucket/prefix")
}

func defaultExportPath(format string) string {
	switch format {
	case engine.FormatJSON:
		return filepath.Join("hdfslash-out", "waste_report.json")
	case engine.FormatHTML:
		return filepath.Join("hdfslash-out", "dashboard.html")
	default:
		return filepath.Join("hdfslash-out", "waste_report.csv")
	}
}

func formatLabel(format string) string {
	switch format {
	case engine.FormatJSON:
		return "JSON"
	case engine.FormatHTML:
		return "HTML"
	default:
		return "CSV"
	}
}
