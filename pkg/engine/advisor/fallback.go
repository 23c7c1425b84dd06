package advisor

import "fmt"

// Fallback builds the heuristic analysis used when no model is configured
// or the model path fails. Same shape as a model reply, so downstream
// consumers never branch on the source.
func Fallback(f Findings) *Analysis {
	coldSavingsGB := f.ColdSizeGB * 0.5
	currentCost := f.TotalSizeGB * 0.04 * 3
	optimizedCost := currentCost - coldSavingsGB*0.04*2

	var recs []Recommendation
	if f.ColdCount > 0 {
		recs = append(recs, Recommendation{
			Title:                    "Cold Data Migration",
			Description:              fmt.Sprintf("Move %d cold data files to cheaper storage tier", f.ColdCount),
			Category:                 CategoryColdData,
			Impact:                   "high",
			EstimatedSavingsPercent:  50,
			EstimatedSavingsGB:       coldSavingsGB,
			ImplementationComplexity: "medium",
			Timeline:                 "1-2 weeks",
			Steps: []string{
				"Identify cold data files",
				"Set cold storage policy",
				"Migrate files to cold tier",
				"Monitor storage costs",
			},
		})
	}
	if f.SmallCount > 0 {
		recs = append(recs, Recommendation{
			Title:                    "Small File Consolidation",
			Description:              fmt.Sprintf("Consolidate %d small files to reduce metadata overhead", f.SmallCount),
			Category:                 CategorySmallFiles,
			Impact:                   "medium",
			EstimatedSavingsPercent:  20,
			EstimatedSavingsGB:       float64(f.SmallCount) * 0.001,
			ImplementationComplexity: "high",
			Timeline:                 "1 month",
			Steps: []string{
				"Identify small file directories",
				"Create consolidation plan",
				"Merge small files",
				"Update processing scripts",
			},
		})
	}
	if f.OrphanedCount > 0 {
		recs = append(recs, Recommendation{
			Title:                    "Orphaned File Cleanup",
			Description:              fmt.Sprintf("Remove %d orphaned temporary files", f.OrphanedCount),
			Category:                 CategoryCleanup,
			Impact:                   "low",
			EstimatedSavingsPercent:  10,
			EstimatedSavingsGB:       f.OrphanedSizeGB,
			ImplementationComplexity: "low",
			Timeline:                 "immediate",
			Steps: []string{
				"Verify files are safe to delete",
				"Create cleanup script",
				"Execute cleanup",
				"Monitor for issues",
			},
		})
	}

	return &Analysis{
		AnalysisSummary: "Automated analysis identified several optimization opportunities based on scan results.",
		Recommendations: recs,
		CostCalculations: CostCalculations{
			CurrentMonthlyCost:   currentCost,
			OptimizedMonthlyCost: optimizedCost,
			MonthlySavings:       currentCost - optimizedCost,
			AnnualSavings:        (currentCost - optimizedCost) * 12,
		},
		RiskAssessment: RiskAssessment{
			DataLossRisk:      "low",
			PerformanceImpact: "positive",
			DowntimeRequired:  "minimal",
		},
		MonitoringRecommendations: []string{
			"Storage utilization metrics",
			"File access patterns",
			"Storage cost tracking",
		},
		ConfidenceScore: 0.7,
		Source:          SourceFallback,
	}
}
