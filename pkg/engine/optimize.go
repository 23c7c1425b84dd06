package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/advisor"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/optimize"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// allCategories lists every savings category the calculator prices.
var allCategories = []string{
	advisor.CategoryColdData,
	advisor.CategorySmallFiles,
	advisor.CategoryReplication,
	advisor.CategoryCleanup,
	advisor.CategoryCompression,
}

// Optimize turns a completed scan into an optimization run: advisor
// recommendations, policy filtering, a concrete plan, and the priced
// outcome, all persisted under one envelope. Failed runs are persisted
// too so they list alongside completed ones.
func (e *Engine) Optimize(ctx context.Context, scanID string) (*optimize.Optimization, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Optimize")
	defer span.End()

	// Crash safety.
	defer e.recoverPanic(ctx)

	rep, err := e.Store.GetScan(ctx, scanID)
	if err != nil {
		return nil, err
	}

	env := &optimize.Optimization{
		OptimizationID: uuid.NewString(),
		ScanID:         scanID,
		Status:         optimize.StatusFailed,
		CreatedAt:      time.Now(),
	}
	span.SetAttributes(
		attribute.String("optimization.id", env.OptimizationID),
		attribute.String("scan.id", scanID),
	)

	if err := rep.Ready(); err != nil {
		env.Error = err.Error()
		e.persistOptimization(ctx, env)
		return env, err
	}

	u := costs.Usage{TotalFiles: rep.TotalFiles, TotalSizeGB: rep.TotalSizeGB}

	// Current costs describe the cluster as it stands, before policy
	// carves out protected files.
	cur := e.calc.CurrentCosts(u, rep.EfficiencyAnalysis.SmallFilesCount)
	env.CurrentCosts = &cur

	res := rep.Result()
	if excluded := e.applyPolicy(res, env.CreatedAt); excluded > 0 {
		e.Logger.Info("Policy exclusions applied",
			"optimization_id", env.OptimizationID, "files_excluded", excluded)
	}

	analysis, err := e.Advisor.Analyze(ctx, res)
	if err != nil {
		env.Error = err.Error()
		e.persistOptimization(ctx, env)
		return env, err
	}
	env.LLMAnalysis = analysis

	p := e.planner.Build(res, analysis.Recommendations, env.CreatedAt)
	if e.reviewer != nil {
		reviewed, err := e.reviewer(p)
		if err != nil {
			env.Error = err.Error()
			e.persistOptimization(ctx, env)
			return env, err
		}
		p = reviewed
	}
	env.Plan = p

	// Savings follow the kept plan, so a trimmed category never counts.
	cats := make([]string, 0, len(p.Optimizations))
	for _, opt := range p.Optimizations {
		cats = append(cats, opt.Category)
	}
	env.Savings = e.calc.OptimizationSavings(u, res, cats)
	costRep := e.calc.BuildReport(u, res, cats)
	env.CostReport = &costRep
	sum := optimize.NewRunSummary(env.Savings)
	env.Summary = &sum
	env.Status = optimize.StatusCompleted

	if err := e.Store.PutPlan(ctx, p); err != nil {
		return env, fmt.Errorf("failed to persist plan %s: %w", p.PlanID, err)
	}
	if err := e.Store.PutOptimization(ctx, env); err != nil {
		return env, fmt.Errorf("failed to persist optimization %s: %w", env.OptimizationID, err)
	}

	e.Logger.Info("Optimization complete",
		"optimization_id", env.OptimizationID,
		"plan_id", p.PlanID,
		"actions", len(p.Optimizations),
		"monthly_savings", fmt.Sprintf("%.2f", sum.TotalMonthlySavings),
		"source", analysis.Source,
	)
	return env, nil
}

// applyPolicy drops operator-protected files from the analysis so no plan
// action or script line ever touches them. Duplicate candidates never
// become actions and stay unfiltered. Returns the number of exclusions.
func (e *Engine) applyPolicy(res *analyzer.Result, now time.Time) int {
	if e.policy == nil {
		return 0
	}
	excluded := 0

	res.Cold = filterProtected(e, now, res.Cold, &excluded,
		func(f analyzer.ColdFile) catalog.FileRecord { return f.FileRecord })
	res.Orphaned = filterProtected(e, now, res.Orphaned, &excluded,
		func(f analyzer.OrphanedFile) catalog.FileRecord { return f.FileRecord })

	res.Efficiency.SmallFiles = filterProtected(e, now, res.Efficiency.SmallFiles, &excluded,
		func(f analyzer.SmallFile) catalog.FileRecord { return f.FileRecord })
	res.Efficiency.SmallFilesCount = len(res.Efficiency.SmallFiles)

	res.Efficiency.EmptyFiles = filterProtected(e, now, res.Efficiency.EmptyFiles, &excluded,
		func(f analyzer.EmptyFile) catalog.FileRecord { return f.FileRecord })
	res.Efficiency.EmptyFilesCount = len(res.Efficiency.EmptyFiles)

	res.Efficiency.InefficientReplication = filterProtected(e, now, res.Efficiency.InefficientReplication, &excluded,
		func(f analyzer.OverReplicatedFile) catalog.FileRecord { return f.FileRecord })
	res.Efficiency.OverReplicatedCount = len(res.Efficiency.InefficientReplication)

	return excluded
}

// filterProtected keeps the findings whose file no enabled rule matches.
// The kept slice is freshly allocated; stored reports share backing
// arrays with the result and must stay intact.
func filterProtected[T any](e *Engine, now time.Time, list []T, excluded *int, record func(T) catalog.FileRecord) []T {
	var kept []T
	for _, f := range list {
		rec := record(f)
		if rule, ok := e.policy.ExcludedFile(rec, now); ok {
			e.Logger.Debug("File excluded by policy", "path", rec.Path, "rule", rule)
			*excluded++
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// persistOptimization stores a failed envelope. Persistence errors are
// logged, not returned; the caller already carries the run failure.
func (e *Engine) persistOptimization(ctx context.Context, env *optimize.Optimization) {
	if err := e.Store.PutOptimization(ctx, env); err != nil {
		e.Logger.Error("Failed to persist optimization",
			"optimization_id", env.OptimizationID, "error", err)
	}
}
