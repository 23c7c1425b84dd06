// Package summary condenses a completed scan into the executive view:
// current costs, per-category opportunities, cluster health, risks, and
// projected savings.
package summary

import (
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
)

// ScanInfo restates the scan's own headline numbers.
type ScanInfo struct {
	ScanCompleted time.Time `json:"scan_completed"`
	ScannedPaths  []string  `json:"scanned_paths"`
	ScanDepth     int       `json:"scan_depth"`
	TotalFiles    int       `json:"total_files"`
	TotalSizeGB   float64   `json:"total_size_gb"`
	TotalSizeTB   float64   `json:"total_size_tb"`
}

// Opportunity sizes one optimization category.
type Opportunity struct {
	FileCount               int     `json:"file_count"`
	SizeGB                  float64 `json:"size_gb"`
	PotentialMonthlySavings float64 `json:"potential_monthly_savings"`
	Priority                string  `json:"priority"`
}

// CleanupOpportunity covers orphaned and empty files together.
type CleanupOpportunity struct {
	OrphanedFiles           int     `json:"orphaned_files"`
	EmptyFiles              int     `json:"empty_files"`
	SizeGB                  float64 `json:"size_gb"`
	PotentialMonthlySavings float64 `json:"potential_monthly_savings"`
	Priority                string  `json:"priority"`
}

// Opportunities groups every category the advisor can act on.
type Opportunities struct {
	ColdDataMigration       Opportunity        `json:"cold_data_migration"`
	SmallFileConsolidation  Opportunity        `json:"small_file_consolidation"`
	FileCleanup             CleanupOpportunity `json:"file_cleanup"`
	ReplicationOptimization Opportunity        `json:"replication_optimization"`
	DuplicateRemoval        Opportunity        `json:"duplicate_removal"`
}

// StorageUtilization frames the average file size against the sweet spot
// for HDFS block sizes.
type StorageUtilization struct {
	OptimalRange   string `json:"optimal_range"`
	CurrentAverage string `json:"current_average"`
	Recommendation string `json:"recommendation"`
}

// EfficiencyMetrics scores how well the cluster uses its storage.
type EfficiencyMetrics struct {
	AverageFileSizeMB        float64            `json:"average_file_size_mb"`
	EfficiencyScore          float64            `json:"efficiency_score"`
	SmallFilesPercentage     float64            `json:"small_files_percentage"`
	OverReplicatedPercentage float64            `json:"over_replicated_percentage"`
	EmptyFilesCount          int                `json:"empty_files_count"`
	StorageUtilization       StorageUtilization `json:"storage_utilization"`
}

// ClusterHealth reads the NameNode counters into a status band.
type ClusterHealth struct {
	HealthStatus               string  `json:"health_status"`
	CapacityUtilizationPercent float64 `json:"capacity_utilization_percent"`
	CapacityTotalGB            float64 `json:"capacity_total_gb"`
	CapacityUsedGB             float64 `json:"capacity_used_gb"`
	CapacityRemainingGB        float64 `json:"capacity_remaining_gb"`
	UnderReplicatedBlocks      int64   `json:"under_replicated_blocks"`
	CorruptBlocks              int64   `json:"corrupt_blocks"`
	FilesTotal                 int64   `json:"files_total"`
	BlocksTotal                int64   `json:"blocks_total"`
}

// Risk is one flagged condition with its remedy.
type Risk struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// RiskAssessment aggregates flagged risks into an overall level.
type RiskAssessment struct {
	OverallRiskScore int      `json:"overall_risk_score"`
	RiskLevel        string   `json:"risk_level"`
	Risks            []Risk   `json:"risks"`
	Recommendations  []string `json:"recommendations"`
}

// RecommendationEntry is one prioritized action item.
type RecommendationEntry struct {
	Priority                int     `json:"priority"`
	Action                  string  `json:"action"`
	Description             string  `json:"description"`
	EstimatedMonthlySavings float64 `json:"estimated_monthly_savings"`
	Timeline                string  `json:"timeline"`
}

// RecommendationsSummary lists the actions worth leading with.
type RecommendationsSummary struct {
	TotalRecommendations         int                   `json:"total_recommendations"`
	Recommendations              []RecommendationEntry `json:"recommendations"`
	EstimatedTotalMonthlySavings float64               `json:"estimated_total_monthly_savings"`
	EstimatedTotalAnnualSavings  float64               `json:"estimated_total_annual_savings"`
}

// ProjectedSavings rolls every category into the bottom line.
type ProjectedSavings struct {
	CurrentMonthlyCost      float64            `json:"current_monthly_cost"`
	ProjectedMonthlySavings float64            `json:"projected_monthly_savings"`
	ProjectedAnnualSavings  float64            `json:"projected_annual_savings"`
	SavingsPercentage       float64            `json:"savings_percentage"`
	OptimizedMonthlyCost    float64            `json:"optimized_monthly_cost"`
	SavingsByCategory       map[string]float64 `json:"savings_by_category"`
	PaybackPeriod           string             `json:"payback_period"`
	ConfidenceLevel         string             `json:"confidence_level"`
}

// Report is the full summary envelope for one scan.
type Report struct {
	ScanID      string    `json:"scan_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Status      string    `json:"status"`

	ScanInfo        ScanInfo               `json:"scan_info"`
	CurrentCosts    costs.CurrentCosts     `json:"current_costs"`
	Opportunities   Opportunities          `json:"optimization_opportunities"`
	Efficiency      EfficiencyMetrics      `json:"efficiency_metrics"`
	WasteAnalysis   analyzer.WasteReport   `json:"waste_analysis"`
	ClusterHealth   ClusterHealth          `json:"cluster_health"`
	RiskAssessment  RiskAssessment         `json:"risk_assessment"`
	Recommendations RecommendationsSummary `json:"recommendations_summary"`
	Projected       ProjectedSavings       `json:"projected_savings"`
}
