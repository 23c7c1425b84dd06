// Package engine wires the scan, analysis, advisory, and planning stages
// into the operations the CLI exposes. It owns the logger, the tracer,
// the worker pool, and the persistence clients; the stage packages stay
// free of that plumbing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/DrSkyle/hdfslash/pkg/config"
	"github.com/DrSkyle/hdfslash/pkg/engine/advisor"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/history"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/engine/policy"
	"github.com/DrSkyle/hdfslash/pkg/engine/pricing"
	"github.com/DrSkyle/hdfslash/pkg/engine/swarm"
	"github.com/DrSkyle/hdfslash/pkg/hdfs"
	"github.com/DrSkyle/hdfslash/pkg/store"
	"github.com/DrSkyle/hdfslash/pkg/telemetry"
	"github.com/DrSkyle/hdfslash/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPartialResult indicates the scan completed but some roots were skipped
// due to NameNode errors.
var ErrPartialResult = errors.New("scan completed with partial results")

// Config holds engine settings.
type Config struct {
	Cluster  config.ClusterConfig
	Analysis config.AnalysisConfig
	Scan     config.ScanConfig
	Plan     config.PlanConfig
	Advisor  config.AdvisorConfig
	Rates    costs.StorageCosts

	MockMode       bool
	Verbose        bool
	MaxConcurrency int
	JsonLogs       bool
	RulesFile      string
	HistoryURL     string // "s3://bucket/key" or empty for the local ledger
	Region         string // AWS region for pricing and uploads

	// StrictMode promotes partial scan results to a hard failure.
	StrictMode bool

	// Telemetry config.
	OtelEndpoint  string
	SkipTelemetry bool // Set true if embedding in an app that already has OTEL

	// Dependencies.
	Logger   *slog.Logger
	CacheDir string
}

// DefaultConfig returns engine defaults built from the package-level
// config constructors.
func DefaultConfig() Config {
	return Config{
		Cluster:  config.DefaultClusterConfig(),
		Analysis: config.DefaultAnalysisConfig(),
		Scan:     config.DefaultScanConfig(),
		Plan:     config.DefaultPlanConfig(),
		Advisor:  config.DefaultAdvisorConfig(),
		Rates:    costs.DefaultStorageCosts(),
		Region:   config.DefaultRegion,
	}
}

// Engine is the runtime core.
type Engine struct {
	// Core components.
	Swarm  *swarm.Engine
	Logger *slog.Logger
	Tracer trace.Tracer

	// Immutable config.
	config Config

	// External dependencies.
	Store   *store.Store
	History *history.Client
	Advisor *advisor.Advisor
	Pricing *pricing.Client

	// Derived stages.
	analyzer *analyzer.Engine
	calc     *costs.Calculator
	planner  *plan.Builder
	policy   *policy.Engine
	source   hdfs.Source
	reviewer func(*plan.Plan) (*plan.Plan, error)
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	// Safe defaults.
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: redactSensitiveData,
	})
	e := &Engine{
		Swarm:  swarm.NewEngine(func(err error) bool { return errors.Is(err, hdfs.ErrThrottled) }),
		Logger: slog.New(handler),
		Tracer: otel.Tracer("hdfslash/engine"),
		config: DefaultConfig(),
	}

	// Apply options.
	for _, opt := range opts {
		opt(e)
	}

	slog.SetDefault(e.Logger)

	if e.config.MaxConcurrency > 0 {
		e.Swarm.SetMaxWorkers(e.config.MaxConcurrency)
	}

	// Initialize telemetry.
	if !e.config.SkipTelemetry {
		if _, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.OtelEndpoint); err != nil {
			e.Logger.Warn("Telemetry init failed", "error", err)
		}
	}

	// Derived stages come from the final config.
	e.analyzer = analyzer.NewDefaultEngine(e.config.Analysis)
	e.calc = costs.NewCalculator(e.config.Rates, e.Logger)
	e.planner = plan.NewBuilder(e.config.Plan)

	if e.Store == nil {
		root, err := defaultStoreDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve store directory: %w", err)
		}
		e.Store = store.New(store.NewLocalStore(root))
	}

	if e.History == nil {
		if strings.HasPrefix(e.config.HistoryURL, "s3://") {
			backend, err := history.NewS3Backend(e.config.HistoryURL)
			if err != nil {
				e.Logger.Warn("Shared ledger unavailable, falling back to local", "error", err)
				e.History = history.NewClient(nil)
			} else {
				e.History = history.NewClient(backend)
			}
		} else {
			e.History = history.NewClient(nil)
		}
	}

	// With no generator configured the advisor answers from the
	// deterministic fallback.
	if e.Advisor == nil {
		e.Advisor = advisor.New(nil, e.Logger)
	}

	if e.config.RulesFile != "" {
		pol, err := policy.NewFromFile(e.config.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load policy rules: %w", err)
		}
		e.policy = pol
		e.Logger.Info("Policy rules loaded", "rules_file", e.config.RulesFile)
	}

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
	}
}

// WithConcurrency caps the swarm worker window.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.config.MaxConcurrency = n
		}
	}
}

// WithStore sets the result store.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.Store = s
	}
}

// WithHistory sets the growth ledger client.
func WithHistory(h *history.Client) Option {
	return func(e *Engine) {
		e.History = h
	}
}

// WithAdvisor sets the recommendation advisor.
func WithAdvisor(a *advisor.Advisor) Option {
	return func(e *Engine) {
		e.Advisor = a
	}
}

// WithPricing sets the tier-rate calibration client.
func WithPricing(p *pricing.Client) Option {
	return func(e *Engine) {
		e.Pricing = p
	}
}

// WithSource overrides the metadata source. Scan uses it in place of the
// WebHDFS client or the mock cluster.
func WithSource(s hdfs.Source) Option {
	return func(e *Engine) {
		e.source = s
	}
}

// WithPlanReviewer installs a review step between plan construction and
// persistence. The reviewer may return a trimmed plan; an error aborts
// the run and nothing is saved. The interactive picker hooks in here.
func WithPlanReviewer(fn func(*plan.Plan) (*plan.Plan, error)) Option {
	return func(e *Engine) {
		e.reviewer = fn
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
		}
	}
}

// Rates returns the unit rates the engine currently prices against.
func (e *Engine) Rates() costs.StorageCosts {
	return e.calc.Rates()
}

// NewLogger builds a redacted slog logger. JSON goes to stdout for
// container collection; text goes to stderr so it never interleaves
// with rendered command output.
func NewLogger(json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSensitiveData,
	}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// defaultStoreDir resolves the local store root under the user's state
// directory.
func defaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hdfslash", "store"), nil
}

// recoverPanic handles failures.
func (e *Engine) recoverPanic(ctx context.Context) {
	if r := recover(); r != nil {
		tr := otel.Tracer("hdfslash/engine")
		// Use independent context.
		_, span := tr.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		// Log to stdout, container friendly. No os.Exit here so library
		// callers keep control of the error state.
		e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))
	}
}

// redactSensitiveData scrubs sensitive keys from logs.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"password": true, "access_key": true, "token": true,
		"secret": true, "api_key": true, "private_key": true,
		"auth_token": true, "refresh_token": true, "certificate": true,
		"credential": true, "ssh_key": true, "connection_string": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}
