package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DrSkyle/hdfslash/pkg/cloud"
	"github.com/DrSkyle/hdfslash/pkg/config"
	"github.com/DrSkyle/hdfslash/pkg/engine"
	"github.com/DrSkyle/hdfslash/pkg/engine/advisor"
	"github.com/DrSkyle/hdfslash/pkg/store"
	"github.com/DrSkyle/hdfslash/pkg/version"
)

var (
	cfgFile string
	cfg     = engine.DefaultConfig()
	stoCfg  = config.DefaultStoreConfig()
)

var rootCmd = &cobra.Command{
	Use:   "hdfslash",
	Short: "The HDFS Storage Cost Accountant",
	Long: `HDFSlash - Storage Analysis for Hadoop Clusters

Scan. Optimize. Slash.`,
	Version: version.Current,
	// Run: nil (Forces help output).
	Run: nil,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent Flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.hdfslash.yaml)")
	rootCmd.PersistentFlags().StringVar(&cfg.Cluster.Host, "namenode", cfg.Cluster.Host, "NameNode hostname")
	rootCmd.PersistentFlags().IntVar(&cfg.Cluster.WebPort, "web-port", cfg.Cluster.WebPort, "NameNode WebHDFS port")
	rootCmd.PersistentFlags().StringVar(&cfg.Cluster.User, "hdfs-user", cfg.Cluster.User, "WebHDFS user.name identity")
	rootCmd.PersistentFlags().StringVar(&stoCfg.Dir, "data-dir", stoCfg.Dir, "Local result store directory")
	rootCmd.PersistentFlags().StringVar(&stoCfg.Bucket, "s3", "", "S3 bucket for the result store (overrides --data-dir)")
	rootCmd.PersistentFlags().StringVar(&cfg.Region, "region", cfg.Region, "AWS region for pricing, uploads, and the S3 store")
	rootCmd.PersistentFlags().StringVar(&cfg.RulesFile, "rules", "", "Policy rules file (YAML)")
	rootCmd.PersistentFlags().StringVar(&cfg.HistoryURL, "history", "", "Growth ledger target (s3://bucket/key, default local)")
	rootCmd.PersistentFlags().BoolVar(&cfg.JsonLogs, "json", false, "Structured JSON logs on stdout")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderFutureGlassHelp(cmd)
	})
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".hdfslash.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("HDFSLASH")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return
	}

	// Config file fills whatever the command line left alone. Threshold
	// sections have no flags, so they unmarshal unconditionally.
	flags := rootCmd.PersistentFlags()
	fill := func(flag, key string, set func()) {
		if !flags.Changed(flag) && viper.IsSet(key) {
			set()
		}
	}
	fill("namenode", "cluster.host", func() { cfg.Cluster.Host = viper.GetString("cluster.host") })
	fill("web-port", "cluster.web_port", func() { cfg.Cluster.WebPort = viper.GetInt("cluster.web_port") })
	fill("hdfs-user", "cluster.user", func() { cfg.Cluster.User = viper.GetString("cluster.user") })
	fill("region", "region", func() { cfg.Region = viper.GetString("region") })
	fill("rules", "rules_file", func() { cfg.RulesFile = viper.GetString("rules_file") })
	fill("history", "history_url", func() { cfg.HistoryURL = viper.GetString("history_url") })
	fill("data-dir", "store.dir", func() { stoCfg.Dir = viper.GetString("store.dir") })
	fill("s3", "store.bucket", func() { stoCfg.Bucket = viper.GetString("store.bucket") })

	viper.UnmarshalKey("analysis", &cfg.Analysis)
	viper.UnmarshalKey("plan", &cfg.Plan)
	viper.UnmarshalKey("advisor", &cfg.Advisor)
	viper.UnmarshalKey("rates", &cfg.Rates)
}

// buildEngine assembles the engine from flags and config. Every command
// goes through here so store, advisor, and logging wiring stay uniform.
func buildEngine(ctx context.Context, opts ...engine.Option) (*engine.Engine, error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	if cfg.JsonLogs {
		level = slog.LevelInfo
	}
	logger := engine.NewLogger(cfg.JsonLogs, level)
	cfg.Logger = logger

	base := []engine.Option{engine.WithConfig(cfg)}

	st, err := buildStore(ctx)
	if err != nil {
		return nil, err
	}
	if st != nil {
		base = append(base, engine.WithStore(st))
	}

	// A configured key upgrades the advisor from the deterministic
	// fallback to the model-backed path.
	if cfg.Advisor.APIKey != "" || os.Getenv("GEMINI_API_KEY") != "" {
		gen, err := advisor.NewGeminiClient(ctx, cfg.Advisor)
		if err != nil {
			logger.Warn("Advisor unavailable, using fallback analysis", "error", err)
		} else {
			base = append(base, engine.WithAdvisor(advisor.New(gen, logger)))
		}
	}

	return engine.New(ctx, append(base, opts...)...)
}

// buildStore resolves the blob backend. Nil means the engine default
// (local store under ~/.hdfslash/store).
func buildStore(ctx context.Context) (*store.Store, error) {
	if stoCfg.Bucket != "" {
		cl, err := cloud.NewClient(ctx, cfg.Region, "", cfg.Verbose)
		if err != nil {
			return nil, fmt.Errorf("failed to reach AWS for the S3 store: %w", err)
		}
		return store.New(store.NewS3Store(cl.ConfigForRegion(cfg.Region), stoCfg.Bucket)), nil
	}
	if stoCfg.Dir == "" || stoCfg.Dir == config.DefaultStoreConfig().Dir {
		return nil, nil // engine default covers the stock directory
	}
	return store.New(store.NewLocalStore(expandHome(stoCfg.Dir))), nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func renderFutureGlassHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("HDFSLASH %s [Future-Glass]", version.Current)))
	fmt.Println("The Storage Cost Accountant for Hadoop.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	fmt.Println("")

	fmt.Println(titleStyle.Render("EXAMPLES"))
	fmt.Println("  hdfslash scan --mock                     # Demo fleet, no cluster needed")
	fmt.Println("  hdfslash scan --namenode nn1 --path /data")
	fmt.Println("  hdfslash optimize <scan-id> --interactive")
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
