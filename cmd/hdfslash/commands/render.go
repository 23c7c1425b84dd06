package commands

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/summary"
	"github.com/DrSkyle/hdfslash/pkg/optimize"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

// Styles for the rendered reports. Headers share the help accent, the
// ticker wraps headline savings figures.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99"))

	tickerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

const rule = "-------------------------------------------------------------"

func header(s string) string {
	return headerStyle.Render(fmt.Sprintf("[ %s ]", s))
}

func renderScanReport(rep *scan.Report) {
	duration := rep.ScanCompleted.Sub(rep.ScanStarted).Round(time.Millisecond)

	fmt.Printf("\n%s  %s\n", header("SCAN COMPLETE"), rep.ScanID)
	fmt.Printf("Walked %s to depth %d in %s\n", strings.Join(rep.ScannedPaths, ", "), rep.ScanDepth, duration)
	fmt.Printf("Files: %d   Size: %.2f GB\n", rep.TotalFiles, rep.TotalSizeGB)

	fmt.Printf("\n%s\n", header("FINDINGS"))
	fmt.Println(rule)
	fmt.Printf("  %-22s %6d files   %10.2f GB\n", "Cold data", len(rep.ColdData), rep.ColdSizeGB())
	fmt.Printf("  %-22s %6d files   %9.1f%% of namespace\n", "Small files", len(rep.SmallFiles), rep.EfficiencyAnalysis.SmallFilesPercentage)
	fmt.Printf("  %-22s %6d files\n", "Empty files", len(rep.EmptyFiles))
	fmt.Printf("  %-22s %6d files   %10.2f GB\n", "Orphaned", len(rep.OrphanedFiles), rep.OrphanedSizeGB())
	fmt.Printf("  %-22s %6d files   %9.1f%% of namespace\n", "Over-replicated", len(rep.OverReplicatedFiles), rep.EfficiencyAnalysis.OverReplicatedPercentage)
	fmt.Printf("  %-22s %6d files\n", "Duplicate candidates", len(rep.DuplicateCandidates))
	fmt.Println(rule)

	w := rep.WasteAnalysis
	fmt.Printf("\n%s %s\n", header("WASTE"),
		tickerStyle.Render(fmt.Sprintf("%.2f GB reclaimable (%.1f%% of footprint)", float64(w.TotalWasteBytes)/(1<<30), w.WastePercentage)))

	if fs := rep.ClusterMetrics.Filesystem; fs.CapacityTotal > 0 {
		fmt.Printf("\n%s\n", header("CLUSTER"))
		fmt.Printf("Capacity: %.1f / %.1f GB (%.1f%% used)\n",
			float64(fs.CapacityUsed)/(1<<30), float64(fs.CapacityTotal)/(1<<30), rep.ClusterMetrics.UtilizationPercent())
		if fs.UnderReplicatedBlocks > 0 || fs.CorruptBlocks > 0 {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Blocks: %d under-replicated, %d corrupt", fs.UnderReplicatedBlocks, fs.CorruptBlocks)))
		}
	}

	if len(rep.Priorities) > 0 {
		fmt.Printf("\n%s\n", header("PRIORITIES"))
		for i, p := range rep.Priorities {
			fmt.Printf("  %d. [%s] %s\n", i+1, strings.ToUpper(p.Priority), p.Description)
			fmt.Println(dimStyle.Render(fmt.Sprintf("     %d files, ~%.1f GB recoverable", p.AffectedFiles, p.PotentialSavingsGB)))
		}
	}

	fmt.Printf("\nNext: hdfslash optimize %s\n", rep.ScanID)
}

func renderOptimization(env *optimize.Optimization) {
	fmt.Printf("\n%s  %s\n", header("OPTIMIZATION COMPLETE"), env.OptimizationID)
	fmt.Printf("Scan: %s\n", env.ScanID)
	if env.LLMAnalysis != nil {
		fmt.Printf("Analysis: %s (confidence %.0f%%)\n", env.LLMAnalysis.Source, env.LLMAnalysis.ConfidenceScore*100)
		if env.LLMAnalysis.AnalysisSummary != "" {
			fmt.Println(dimStyle.Render(env.LLMAnalysis.AnalysisSummary))
		}
	}

	if env.CurrentCosts != nil {
		fmt.Printf("\n%s\n", header("CURRENT SPEND"))
		fmt.Printf("Storage: $%.2f   Metadata: $%.2f   Small-file overhead: $%.2f\n",
			env.CurrentCosts.StorageCost, env.CurrentCosts.MetadataCost, env.CurrentCosts.SmallFileOverhead)
		fmt.Printf("Total: $%.2f/mo ($%.2f/yr)\n", env.CurrentCosts.TotalMonthlyCost, env.CurrentCosts.TotalAnnualCost)
	}

	if env.Plan != nil {
		fmt.Printf("\n%s  %s\n", header("PLAN"), env.Plan.PlanID)
		fmt.Println(rule)
		for i, opt := range env.Plan.Optimizations {
			fmt.Printf("%d. %s\n", i+1, opt.Title)
			fmt.Println(dimStyle.Render(fmt.Sprintf("   %s effort, %s, %.2f GB affected", opt.ImplementationComplexity, opt.Timeline, opt.AffectedDataGB)))
			fmt.Printf("   Saves $%.2f/mo\n", opt.EstimatedMonthlySavings)
		}
		fmt.Println(rule)
	}

	if env.Summary != nil {
		seg := fmt.Sprintf("SAVINGS: $%.2f/mo ($%.2f/yr)", env.Summary.TotalMonthlySavings, env.Summary.TotalAnnualSavings)
		fmt.Printf("\n%s\n", tickerStyle.Render(seg))
		fmt.Printf("Affected data: %.2f GB   Implementation: $%.2f   Payback: %s\n",
			env.Summary.AffectedDataGB, env.Summary.TotalImplementationCost, formatMonths(env.Summary.ROIMonths))
	}

	if env.Plan != nil {
		fmt.Printf("\nNext: hdfslash script %s\n", env.Plan.PlanID)
	}
}

func renderSummary(rep *summary.Report) {
	fmt.Printf("\n%s  %s\n", header("EXECUTIVE SUMMARY"), rep.ScanID)
	fmt.Printf("Namespace: %d files, %.2f GB (%.3f TB)\n",
		rep.ScanInfo.TotalFiles, rep.ScanInfo.TotalSizeGB, rep.ScanInfo.TotalSizeTB)
	fmt.Printf("Current bill: $%.2f/mo ($%.2f/yr, $%.4f per GB)\n",
		rep.CurrentCosts.TotalMonthlyCost, rep.CurrentCosts.TotalAnnualCost, rep.CurrentCosts.CostPerGB)

	fmt.Printf("\n%s\n", header("OPPORTUNITIES"))
	fmt.Println(rule)
	printOpportunity("Cold data migration", rep.Opportunities.ColdDataMigration)
	printOpportunity("Small file merge", rep.Opportunities.SmallFileConsolidation)
	printOpportunity("Replication tuning", rep.Opportunities.ReplicationOptimization)
	printOpportunity("Duplicate removal", rep.Opportunities.DuplicateRemoval)
	fc := rep.Opportunities.FileCleanup
	fmt.Printf("  %-22s %6d files   $%8.2f/mo   [%s]\n",
		"File cleanup", fc.OrphanedFiles+fc.EmptyFiles, fc.PotentialMonthlySavings, strings.ToUpper(fc.Priority))
	fmt.Println(rule)

	fmt.Printf("\n%s\n", header("EFFICIENCY"))
	fmt.Printf("Score: %.0f/100   Avg file: %.1f MB   Small files: %.1f%%   Over-replicated: %.1f%%\n",
		rep.Efficiency.EfficiencyScore, rep.Efficiency.AverageFileSizeMB,
		rep.Efficiency.SmallFilesPercentage, rep.Efficiency.OverReplicatedPercentage)
	if rec := rep.Efficiency.StorageUtilization.Recommendation; rec != "" {
		fmt.Println(dimStyle.Render(rec))
	}

	if rep.ClusterHealth.CapacityTotalGB > 0 {
		fmt.Printf("\n%s\n", header("CLUSTER HEALTH"))
		fmt.Printf("Status: %s   Capacity: %.1f / %.1f GB (%.1f%%)\n",
			rep.ClusterHealth.HealthStatus, rep.ClusterHealth.CapacityUsedGB,
			rep.ClusterHealth.CapacityTotalGB, rep.ClusterHealth.CapacityUtilizationPercent)
		if rep.ClusterHealth.UnderReplicatedBlocks > 0 || rep.ClusterHealth.CorruptBlocks > 0 {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Blocks: %d under-replicated, %d corrupt",
				rep.ClusterHealth.UnderReplicatedBlocks, rep.ClusterHealth.CorruptBlocks)))
		}
	}

	fmt.Printf("\n%s  %s\n", header("RISK"), strings.ToUpper(rep.RiskAssessment.RiskLevel))
	for _, r := range rep.RiskAssessment.Risks {
		fmt.Printf("  [%s] %s\n", strings.ToUpper(r.Severity), r.Description)
	}

	if len(rep.Recommendations.Recommendations) > 0 {
		fmt.Printf("\n%s\n", header("RECOMMENDED ACTIONS"))
		for _, entry := range rep.Recommendations.Recommendations {
			fmt.Printf("  %d. %s ($%.2f/mo, %s)\n",
				entry.Priority, entry.Action, entry.EstimatedMonthlySavings, entry.Timeline)
		}
	}

	if len(rep.Projected.SavingsByCategory) > 0 {
		fmt.Printf("\n%s\n", header("SAVINGS BY CATEGORY"))
		for _, cat := range sortedCategories(rep.Projected.SavingsByCategory) {
			fmt.Printf("  %-22s $%8.2f/mo\n",
				strings.ReplaceAll(cat, "_", " "), rep.Projected.SavingsByCategory[cat])
		}
	}

	fmt.Printf("\n%s\n", tickerStyle.Render(fmt.Sprintf(
		"PROJECTED: $%.2f/mo -> $%.2f/mo  (save %.1f%%, payback %s, confidence %s)",
		rep.Projected.CurrentMonthlyCost, rep.Projected.OptimizedMonthlyCost,
		rep.Projected.SavingsPercentage, rep.Projected.PaybackPeriod, rep.Projected.ConfidenceLevel)))
}

func printOpportunity(label string, o summary.Opportunity) {
	fmt.Printf("  %-22s %6d files   $%8.2f/mo   [%s]\n",
		label, o.FileCount, o.PotentialMonthlySavings, strings.ToUpper(o.Priority))
}

func renderRates(before, after costs.StorageCosts) {
	fmt.Printf("\n%s\n", header("CALIBRATED RATES"))
	fmt.Println(rule)
	printRate("Standard ($/GB/mo)", before.StandardPerGB, after.StandardPerGB)
	printRate("Cold ($/GB/mo)", before.ColdPerGB, after.ColdPerGB)
	printRate("Archive ($/GB/mo)", before.ArchivePerGB, after.ArchivePerGB)
	fmt.Println(rule)
	fmt.Println("Later scans price against the calibrated rates automatically.")
}

func printRate(label string, before, after float64) {
	marker := ""
	if before != after {
		marker = "  (was $%.5f)"
		marker = fmt.Sprintf(marker, before)
	}
	fmt.Printf("  %-20s $%.5f%s\n", label, after, marker)
}

// formatMonths renders a payback duration, tolerating the no-payback case.
func formatMonths(m costs.Months) string {
	v := float64(m)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f months", v)
}

// sortedCategories keeps savings-by-category output stable across runs.
func sortedCategories(byCategory map[string]float64) []string {
	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
