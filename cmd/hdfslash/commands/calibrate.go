package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/hdfslash/pkg/cloud"
)

var calibrateProfile string

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Refresh tier rates from the AWS Pricing API",
	Long: `Queries the AWS Pricing API for current S3 Standard, Glacier Instant
Retrieval, and Glacier Deep Archive rates and adopts them as the standard,
cold, and archive tier prices. Calibrated rates are cached locally, so
later runs price against them without touching the network.

Requires working AWS credentials. The scan itself never does.

Example:
  hdfslash calibrate
  hdfslash calibrate --region eu-west-1 --profile billing`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		// Preflight the credentials before the engine spins up. A dead
		// profile should fail here with a useful hint, not mid-query.
		cl, err := cloud.NewClient(ctx, cfg.Region, calibrateProfile, cfg.Verbose)
		if err != nil {
			fmt.Printf("Failed to create AWS client: %v\n", err)
			os.Exit(1)
		}
		identity, err := cl.VerifyIdentity(ctx)
		if err != nil {
			fmt.Printf("Failed to verify identity: %v\n", err)
			if profiles, perr := cloud.ListProfiles(); perr == nil && len(profiles) > 0 {
				fmt.Printf("Available profiles: %s\n", strings.Join(profiles, ", "))
			}
			os.Exit(1)
		}
		fmt.Printf("Connected to AWS Account: %s\n", identity)

		eng, err := buildEngine(ctx)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		before := eng.Rates()
		fmt.Printf("Calibrating storage rates for %s (this may take a moment)...\n", cfg.Region)
		after, err := eng.CalibrateRates(ctx)
		if err != nil {
			fmt.Printf("Error calibrating rates: %v\n", err)
			os.Exit(1)
		}

		renderRates(before, after)
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.Flags().StringVar(&calibrateProfile, "profile", "", "AWS profile for the pricing query")
}
