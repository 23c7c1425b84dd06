package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/history"
	"github.com/DrSkyle/hdfslash/pkg/engine/scanner"
	"github.com/DrSkyle/hdfslash/pkg/hdfs"
	"github.com/DrSkyle/hdfslash/pkg/scan"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Scan walks the configured roots, classifies every file it finds, and
// persists the resulting report. The report is stored even when the scan
// fails so the failure stays visible in listings. With StrictMode set a
// partial scan returns ErrPartialResult after the report is persisted.
func (e *Engine) Scan(ctx context.Context) (*scan.Report, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Scan")
	defer span.End()

	// Crash safety.
	defer e.recoverPanic(ctx)

	started := time.Now()
	rep := &scan.Report{
		ScanID:       uuid.NewString(),
		Status:       scan.StatusFailed,
		ScanStarted:  started,
		ScannedPaths: append([]string(nil), e.config.Scan.Paths...),
		ScanDepth:    e.config.Scan.Depth,
	}
	span.SetAttributes(attribute.String("scan.id", rep.ScanID))

	source := e.source
	switch {
	case source != nil:
		// Injected source wins, used by tests and embedders.
	case e.config.MockMode:
		source = hdfs.NewMockSource(started)
		e.seedMockLedger()
	default:
		source = hdfs.NewClient(e.config.Cluster, e.Logger)
	}

	e.Logger.Info("Starting scan",
		"scan_id", rep.ScanID,
		"cluster", e.clusterName(),
		"paths", strings.Join(rep.ScannedPaths, ","),
		"depth", rep.ScanDepth,
		"mock", e.config.MockMode,
	)

	cat := catalog.New()
	reg := scanner.NewRegistry()
	for _, root := range rep.ScannedPaths {
		reg.Register(scanner.NewWalkScanner(source, root, rep.ScanDepth))
	}
	reg.Register(scanner.NewMetricsScanner(source))

	e.Swarm.Start(ctx)
	defer e.Swarm.Stop()

	var scanWg sync.WaitGroup
	reg.RunAll(ctx, cat, e.Swarm, &scanWg, e.clusterName())
	scanWg.Wait()
	cat.CloseAndWait()

	files := cat.Files()
	meta := cat.Metadata()
	rep.Partial = meta.Partial
	rep.FailedScopes = meta.FailedScopes

	// Nothing listed and every scope failed means the cluster was never
	// reachable. Persist the failure so it lists alongside good scans.
	if len(files) == 0 && meta.Partial {
		rep.ScanCompleted = time.Now()
		rep.Error = fmt.Sprintf("Scan failed: %s", meta.FailedScopes[0].Error)
		e.persistScan(ctx, rep)
		return rep, fmt.Errorf("scan %s found no files: %s", rep.ScanID, meta.FailedScopes[0].Error)
	}

	res, err := e.analyzer.RunAt(ctx, files, started)
	if err != nil {
		rep.ScanCompleted = time.Now()
		rep.Error = fmt.Sprintf("Scan failed: %v", err)
		e.persistScan(ctx, rep)
		return rep, err
	}

	rep.Status = scan.StatusCompleted
	rep.ScanCompleted = time.Now()
	rep.TotalFiles = len(files)
	rep.TotalSizeBytes = cat.TotalSize()
	rep.TotalSizeGB = float64(rep.TotalSizeBytes) / (1 << 30)
	rep.SetResult(res)
	rep.ClusterMetrics = cat.Metrics()
	if rep.TotalFiles == 0 {
		rep.Message = "No files found in specified paths"
	} else {
		rep.Message = fmt.Sprintf("Successfully scanned %d files", rep.TotalFiles)
	}

	if err := e.Store.PutScan(ctx, rep); err != nil {
		return rep, fmt.Errorf("failed to persist scan %s: %w", rep.ScanID, err)
	}

	e.recordTrend(rep, res)

	span.SetAttributes(
		attribute.Int("scan.files", rep.TotalFiles),
		attribute.Float64("scan.size_gb", rep.TotalSizeGB),
	)

	if meta.Partial {
		span.SetAttributes(
			attribute.Bool("scan.partial", true),
			attribute.Int("scan.failed_scopes", len(meta.FailedScopes)),
		)
		for _, failure := range meta.FailedScopes {
			e.Logger.Warn("Scope skipped", "scope", failure.Scope, "error", failure.Error)
		}
		if e.config.StrictMode {
			e.Logger.Error("Strict mode: failing on partial scan results", "scan_id", rep.ScanID)
			return rep, ErrPartialResult
		}
		e.Logger.Warn("Scan finished with partial results",
			"scan_id", rep.ScanID, "failed_scopes", len(meta.FailedScopes))
	}

	e.Logger.Info("Scan complete",
		"scan_id", rep.ScanID,
		"files", rep.TotalFiles,
		"size_gb", fmt.Sprintf("%.2f", rep.TotalSizeGB),
		"duration", rep.ScanCompleted.Sub(rep.ScanStarted).Round(time.Millisecond).String(),
	)
	return rep, nil
}

func (e *Engine) clusterName() string {
	if e.config.MockMode {
		return "mock"
	}
	return fmt.Sprintf("%s:%d", e.config.Cluster.Host, e.config.Cluster.WebPort)
}

// persistScan stores a failed report. Persistence errors are logged, not
// returned; the caller already carries the scan failure.
func (e *Engine) persistScan(ctx context.Context, rep *scan.Report) {
	if err := e.Store.PutScan(ctx, rep); err != nil {
		e.Logger.Error("Failed to persist scan", "scan_id", rep.ScanID, "error", err)
	}
}

// seedMockLedger fills an empty ledger with the demo growth series so a
// first --mock run already shows a trend.
func (e *Engine) seedMockLedger() {
	window, err := e.History.LoadWindow(1)
	if err != nil || len(window) > 0 {
		return
	}
	if err := history.SeedMockData(e.History); err != nil {
		e.Logger.Warn("Failed to seed demo ledger", "error", err)
	}
}

// recordTrend appends the scan to the growth ledger and surfaces any
// anomaly the recent window shows. Ledger failures never fail the scan.
func (e *Engine) recordTrend(rep *scan.Report, res *analyzer.Result) {
	u := costs.Usage{TotalFiles: rep.TotalFiles, TotalSizeGB: rep.TotalSizeGB}
	var potential float64
	for _, s := range e.calc.OptimizationSavings(u, res, allCategories) {
		potential += s.Savings
	}

	snap := history.Snapshot{
		Timestamp:               rep.ScanStarted.Unix(),
		TotalFiles:              rep.TotalFiles,
		TotalSizeGB:             rep.TotalSizeGB,
		WasteBytes:              res.Waste.TotalWasteBytes,
		PotentialMonthlySavings: potential,
		CategoryCounts: map[string]int{
			"cold_data":       len(res.Cold),
			"small_files":     res.Efficiency.SmallFilesCount,
			"empty_files":     res.Efficiency.EmptyFilesCount,
			"orphaned":        len(res.Orphaned),
			"over_replicated": res.Efficiency.OverReplicatedCount,
			"duplicates":      len(res.Duplicates),
		},
	}
	if err := e.History.Append(snap); err != nil {
		e.Logger.Warn("Failed to append ledger snapshot", "error", err)
		return
	}

	window, err := e.History.LoadWindow(12)
	if err != nil {
		return
	}
	trend := history.Derivative(window)
	if len(trend.Alerts) == 0 {
		return
	}

	if e.config.JsonLogs {
		for _, alert := range trend.Alerts {
			e.Logger.Warn("Growth anomaly",
				"alert", alert,
				"savings_velocity", trend.SavingsVelocity,
				"growth_gb_per_hour", trend.GrowthGBPerHour,
				"pattern", trend.Pattern,
			)
		}
		return
	}

	fmt.Println("\n[ GROWTH ANOMALY DETECTED ]")
	for _, alert := range trend.Alerts {
		fmt.Printf(" %s\n", alert)
	}
	fmt.Printf(" Savings velocity: %+.2f $/mo per hour\n", trend.SavingsVelocity)
	fmt.Printf(" Data growth:      %+.2f GB per hour (%s)\n", trend.GrowthGBPerHour, trend.Pattern)
	fmt.Println("-----------------------------------------------------------------")
}
