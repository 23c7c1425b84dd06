package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/engine/pricing"
	"github.com/DrSkyle/hdfslash/pkg/engine/report"
	"github.com/DrSkyle/hdfslash/pkg/engine/script"
	"github.com/DrSkyle/hdfslash/pkg/engine/summary"
	"github.com/DrSkyle/hdfslash/pkg/optimize"
	"go.opentelemetry.io/otel/attribute"
)

// Summarize builds the executive summary of a stored scan.
func (e *Engine) Summarize(ctx context.Context, scanID string) (*summary.Report, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Summarize")
	defer span.End()
	span.SetAttributes(attribute.String("scan.id", scanID))

	rep, err := e.Store.GetScan(ctx, scanID)
	if err != nil {
		return nil, err
	}
	return summary.NewBuilder(e.calc).Build(rep, time.Now())
}

// ScriptSet names the files one script run renders.
type ScriptSet struct {
	Optimization string
	Monitoring   string
	Rollback     string
}

// Paths lists the rendered files in execution order.
func (s *ScriptSet) Paths() []string {
	return []string{s.Optimization, s.Monitoring, s.Rollback}
}

// Scripts renders the optimization, monitoring, and rollback scripts for
// a stored plan into outputDir.
func (e *Engine) Scripts(ctx context.Context, planID, outputDir string) (*ScriptSet, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Scripts")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", planID))

	p, err := e.Store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()
	set := &ScriptSet{
		Optimization: filepath.Join(outputDir, "optimization.sh"),
		Monitoring:   filepath.Join(outputDir, "monitoring.sh"),
		Rollback:     filepath.Join(outputDir, "rollback.sh"),
	}
	if err := script.WriteOptimization(set.Optimization, p, now); err != nil {
		return nil, fmt.Errorf("failed to render optimization script: %w", err)
	}
	if err := script.WriteMonitoring(set.Monitoring); err != nil {
		return nil, fmt.Errorf("failed to render monitoring script: %w", err)
	}
	if err := script.WriteRollback(set.Rollback, p.PlanID, now); err != nil {
		return nil, fmt.Errorf("failed to render rollback script: %w", err)
	}

	e.Logger.Info("Scripts rendered", "plan_id", p.PlanID, "dir", outputDir)
	return set, nil
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Export writes the findings of a stored scan to path in the given
// format. The HTML dashboard picks up the scan's latest completed
// optimization when one exists.
func (e *Engine) Export(ctx context.Context, scanID, format, path string) error {
	ctx, span := e.Tracer.Start(ctx, "Engine.Export")
	defer span.End()
	span.SetAttributes(
		attribute.String("scan.id", scanID),
		attribute.String("export.format", format),
	)

	rep, err := e.Store.GetScan(ctx, scanID)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		err = report.GenerateCSV(rep, e.calc.Rates(), path)
	case FormatJSON:
		err = report.GenerateJSON(rep, e.calc.Rates(), path)
	case FormatHTML:
		err = report.GenerateDashboard(rep, e.latestPlan(ctx, scanID), e.calc.Rates(), path)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to export scan %s: %w", scanID, err)
	}

	e.Logger.Info("Export written", "scan_id", scanID, "format", format, "path", path)
	return nil
}

// latestPlan finds the newest completed optimization for the scan so the
// dashboard can show its plan card. A scan without runs is fine.
func (e *Engine) latestPlan(ctx context.Context, scanID string) *plan.Plan {
	entries, err := e.Store.ListOptimizations(ctx)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.ScanID != scanID || entry.Status != optimize.StatusCompleted {
			continue
		}
		env, err := e.Store.GetOptimization(ctx, entry.OptimizationID)
		if err != nil {
			continue
		}
		return env.Plan
	}
	return nil
}

// CalibrateRates refreshes the standard, cold, and archive tier rates
// from the AWS Pricing API and reloads the calculator. On failure the
// current rates stay in effect and come back with the error.
func (e *Engine) CalibrateRates(ctx context.Context) (costs.StorageCosts, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Calibrate")
	defer span.End()

	if e.Pricing == nil {
		client, err := pricing.NewClient(ctx, e.Logger, e.config.CacheDir, e.config.Region)
		if err != nil {
			return e.calc.Rates(), fmt.Errorf("failed to initialize pricing client: %w", err)
		}
		e.Pricing = client
	}

	rates, err := e.Pricing.Calibrate(ctx, e.calc.Rates())
	if err != nil {
		return e.calc.Rates(), err
	}
	e.calc = costs.NewCalculator(rates, e.Logger)
	return rates, nil
}
