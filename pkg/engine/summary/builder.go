package summary

import (
	"fmt"
	"math"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

// Flat per-category rates behind the headline opportunity figures. The
// cost report prices categories properly; the summary keeps round numbers
// so the executive view stays stable across rate card changes.
const (
	coldSavingsPerGB        = 0.03
	smallFileSavingsEach    = 0.001
	cleanupSavingsPerGB     = 0.04 * 3
	replicationSavingsPerGB = 0.04
	duplicateSavingsPerGB   = 0.02
)

const bytesPerGB = 1 << 30

// Builder assembles summary reports from completed scans.
type Builder struct {
	calc *costs.Calculator
}

func NewBuilder(calc *costs.Calculator) *Builder {
	if calc == nil {
		calc = costs.NewCalculator(costs.DefaultStorageCosts(), nil)
	}
	return &Builder{calc: calc}
}

// Build condenses the scan into the summary envelope. The scan must have
// completed.
func (b *Builder) Build(rep *scan.Report, now time.Time) (*Report, error) {
	if err := rep.Ready(); err != nil {
		return nil, err
	}

	usage := costs.Usage{TotalFiles: rep.TotalFiles, TotalSizeGB: rep.TotalSizeGB}
	current := b.calc.CurrentCosts(usage, len(rep.SmallFiles))

	opps := buildOpportunities(rep)
	eff := buildEfficiency(rep)
	health := buildHealth(rep)

	return &Report{
		ScanID:      rep.ScanID,
		GeneratedAt: now,
		Status:      scan.StatusCompleted,
		ScanInfo: ScanInfo{
			ScanCompleted: rep.ScanCompleted,
			ScannedPaths:  rep.ScannedPaths,
			ScanDepth:     rep.ScanDepth,
			TotalFiles:    rep.TotalFiles,
			TotalSizeGB:   rep.TotalSizeGB,
			TotalSizeTB:   rep.TotalSizeGB / 1024,
		},
		CurrentCosts:    current,
		Opportunities:   opps,
		Efficiency:      eff,
		WasteAnalysis:   rep.WasteAnalysis,
		ClusterHealth:   health,
		RiskAssessment:  assessRisks(health, eff),
		Recommendations: buildRecommendations(opps),
		Projected:       projectSavings(current, opps),
	}, nil
}

func buildOpportunities(rep *scan.Report) Opportunities {
	coldGB := rep.ColdSizeGB()
	orphanedGB := rep.OrphanedSizeGB()

	var smallGB, overRepGB, dupGB float64
	for _, f := range rep.SmallFiles {
		smallGB += f.SizeGB()
	}
	for _, f := range rep.OverReplicatedFiles {
		overRepGB += f.SizeGB()
	}
	for _, f := range rep.DuplicateCandidates {
		dupGB += f.SizeGB()
	}

	coldPriority := "medium"
	if coldGB > 100 {
		coldPriority = "high"
	}
	smallPriority := "medium"
	if len(rep.SmallFiles) > 10000 {
		smallPriority = "high"
	}

	return Opportunities{
		ColdDataMigration: Opportunity{
			FileCount:               len(rep.ColdData),
			SizeGB:                  coldGB,
			PotentialMonthlySavings: coldGB * coldSavingsPerGB,
			Priority:                coldPriority,
		},
		SmallFileConsolidation: Opportunity{
			FileCount:               len(rep.SmallFiles),
			SizeGB:                  smallGB,
			PotentialMonthlySavings: float64(len(rep.SmallFiles)) * smallFileSavingsEach,
			Priority:                smallPriority,
		},
		FileCleanup: CleanupOpportunity{
			OrphanedFiles:           len(rep.OrphanedFiles),
			EmptyFiles:              len(rep.EmptyFiles),
			SizeGB:                  orphanedGB,
			PotentialMonthlySavings: orphanedGB * cleanupSavingsPerGB,
			Priority:                "medium",
		},
		ReplicationOptimization: Opportunity{
			FileCount:               len(rep.OverReplicatedFiles),
			SizeGB:                  overRepGB,
			PotentialMonthlySavings: overRepGB * replicationSavingsPerGB,
			Priority:                "low",
		},
		DuplicateRemoval: Opportunity{
			FileCount:               len(rep.DuplicateCandidates),
			SizeGB:                  dupGB,
			PotentialMonthlySavings: dupGB * duplicateSavingsPerGB,
			Priority:                "low",
		},
	}
}

func buildEfficiency(rep *scan.Report) EfficiencyMetrics {
	var avgMB float64
	if rep.TotalFiles > 0 {
		avgMB = rep.TotalSizeGB * 1024 / float64(rep.TotalFiles)
	}

	// Score out of 100, docked for small files (capped at 50 points) and
	// over-replication (capped at 30).
	smallPenalty := math.Min(rep.EfficiencyAnalysis.SmallFilesPercentage, 50)
	overPenalty := math.Min(rep.EfficiencyAnalysis.OverReplicatedPercentage, 30)
	score := math.Max(0, 100-smallPenalty-overPenalty)

	return EfficiencyMetrics{
		AverageFileSizeMB:        avgMB,
		EfficiencyScore:          score,
		SmallFilesPercentage:     rep.EfficiencyAnalysis.SmallFilesPercentage,
		OverReplicatedPercentage: rep.EfficiencyAnalysis.OverReplicatedPercentage,
		EmptyFilesCount:          rep.EfficiencyAnalysis.EmptyFilesCount,
		StorageUtilization: StorageUtilization{
			OptimalRange:   "64MB - 1GB per file",
			CurrentAverage: fmt.Sprintf("%.1fMB", avgMB),
			Recommendation: fileSizeRecommendation(avgMB),
		},
	}
}

func fileSizeRecommendation(avgMB float64) string {
	switch {
	case avgMB < 1:
		return "Consider consolidating small files"
	case avgMB < 64:
		return "File sizes are below optimal range"
	case avgMB <= 1024:
		return "File sizes are in optimal range"
	default:
		return "Consider splitting large files"
	}
}

func buildHealth(rep *scan.Report) ClusterHealth {
	fs := rep.ClusterMetrics.Filesystem
	util := rep.ClusterMetrics.UtilizationPercent()

	status := "critical"
	switch {
	case util < 70:
		status = "healthy"
	case util < 85:
		status = "warning"
	}

	return ClusterHealth{
		HealthStatus:               status,
		CapacityUtilizationPercent: util,
		CapacityTotalGB:            float64(fs.CapacityTotal) / bytesPerGB,
		CapacityUsedGB:             float64(fs.CapacityUsed) / bytesPerGB,
		CapacityRemainingGB:        float64(fs.CapacityRemaining) / bytesPerGB,
		UnderReplicatedBlocks:      fs.UnderReplicatedBlocks,
		CorruptBlocks:              fs.CorruptBlocks,
		FilesTotal:                 fs.FilesTotal,
		BlocksTotal:                fs.BlocksTotal,
	}
}

var severityScores = map[string]int{
	"critical": 10,
	"high":     5,
	"medium":   2,
	"low":      1,
}

func assessRisks(health ClusterHealth, eff EfficiencyMetrics) RiskAssessment {
	risks := make([]Risk, 0, 4)

	if health.CapacityUtilizationPercent > 85 {
		risks = append(risks, Risk{
			Type:           "high_utilization",
			Severity:       "critical",
			Description:    "Cluster utilization is critically high",
			Recommendation: "Immediate cleanup or capacity expansion required",
		})
	}
	if eff.SmallFilesPercentage > 50 {
		risks = append(risks, Risk{
			Type:           "small_files",
			Severity:       "high",
			Description:    "High percentage of small files causing metadata overhead",
			Recommendation: "Implement file consolidation strategy",
		})
	}
	if health.CorruptBlocks > 0 {
		risks = append(risks, Risk{
			Type:           "data_corruption",
			Severity:       "critical",
			Description:    fmt.Sprintf("%d corrupt blocks detected", health.CorruptBlocks),
			Recommendation: "Immediate data recovery required",
		})
	}
	if health.UnderReplicatedBlocks > 0 {
		risks = append(risks, Risk{
			Type:           "under_replication",
			Severity:       "medium",
			Description:    fmt.Sprintf("%d under-replicated blocks", health.UnderReplicatedBlocks),
			Recommendation: "Check cluster health and replication settings",
		})
	}

	score := 0
	recs := make([]string, 0, len(risks))
	for _, r := range risks {
		score += severityScores[r.Severity]
		recs = append(recs, r.Recommendation)
	}

	level := "low"
	switch {
	case score >= 10:
		level = "critical"
	case score >= 5:
		level = "high"
	case score >= 2:
		level = "medium"
	}

	return RiskAssessment{
		OverallRiskScore: score,
		RiskLevel:        level,
		Risks:            risks,
		Recommendations:  recs,
	}
}

func buildRecommendations(opps Opportunities) RecommendationsSummary {
	recs := make([]RecommendationEntry, 0, 3)

	if opps.ColdDataMigration.PotentialMonthlySavings > 100 {
		recs = append(recs, RecommendationEntry{
			Priority:                1,
			Action:                  "Cold Data Migration",
			Description:             fmt.Sprintf("Migrate %d files to cold storage", opps.ColdDataMigration.FileCount),
			EstimatedMonthlySavings: opps.ColdDataMigration.PotentialMonthlySavings,
			Timeline:                "1-2 weeks",
		})
	}
	if opps.SmallFileConsolidation.FileCount > 5000 {
		recs = append(recs, RecommendationEntry{
			Priority:                2,
			Action:                  "Small File Consolidation",
			Description:             fmt.Sprintf("Consolidate %d small files", opps.SmallFileConsolidation.FileCount),
			EstimatedMonthlySavings: opps.SmallFileConsolidation.PotentialMonthlySavings,
			Timeline:                "2-4 weeks",
		})
	}
	if opps.FileCleanup.PotentialMonthlySavings > 50 {
		recs = append(recs, RecommendationEntry{
			Priority:                3,
			Action:                  "File Cleanup",
			Description:             fmt.Sprintf("Remove %d orphaned and %d empty files", opps.FileCleanup.OrphanedFiles, opps.FileCleanup.EmptyFiles),
			EstimatedMonthlySavings: opps.FileCleanup.PotentialMonthlySavings,
			Timeline:                "Immediate",
		})
	}

	var total float64
	for _, r := range recs {
		total += r.EstimatedMonthlySavings
	}

	return RecommendationsSummary{
		TotalRecommendations:         len(recs),
		Recommendations:              recs,
		EstimatedTotalMonthlySavings: total,
		EstimatedTotalAnnualSavings:  total * 12,
	}
}

func projectSavings(current costs.CurrentCosts, opps Opportunities) ProjectedSavings {
	byCategory := map[string]float64{
		"cold_data":   opps.ColdDataMigration.PotentialMonthlySavings,
		"small_files": opps.SmallFileConsolidation.PotentialMonthlySavings,
		"cleanup":     opps.FileCleanup.PotentialMonthlySavings,
		"replication": opps.ReplicationOptimization.PotentialMonthlySavings,
		"duplicates":  opps.DuplicateRemoval.PotentialMonthlySavings,
	}

	var total float64
	for _, v := range byCategory {
		total += v
	}

	var pct float64
	if current.TotalMonthlyCost > 0 {
		pct = total / current.TotalMonthlyCost * 100
	}

	confidence := "low"
	switch {
	case pct > 20:
		confidence = "high"
	case pct > 10:
		confidence = "medium"
	}

	return ProjectedSavings{
		CurrentMonthlyCost:      current.TotalMonthlyCost,
		ProjectedMonthlySavings: total,
		ProjectedAnnualSavings:  total * 12,
		SavingsPercentage:       pct,
		OptimizedMonthlyCost:    current.TotalMonthlyCost - total,
		SavingsByCategory:       byCategory,
		PaybackPeriod:           "immediate",
		ConfidenceLevel:         confidence,
	}
}
