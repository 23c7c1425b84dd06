package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

var summaryNow = time.Date(2025, 11, 20, 13, 0, 0, 0, time.UTC)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

func recOf(path string, size int64) catalog.FileRecord {
	return catalog.FileRecord{Path: path, Size: size, Replication: 3, BlockSize: 128 << 20}
}

func smallFileList(n int) []analyzer.SmallFile {
	out := make([]analyzer.SmallFile, n)
	for i := range out {
		out[i] = analyzer.SmallFile{
			FileRecord:       recOf(fmt.Sprintf("/data/events/part-%05d", i), 1<<20),
			Classification:   "small_file",
			EfficiencyImpact: "medium",
			SizeMB:           1,
		}
	}
	return out
}

// completedScan covers every category: 150 GB cold, 3 small files, 2
// empty, one 10 GB orphan, one 20 GB over-replicated file, and 50 GB of
// duplicate candidates on a cluster running at 90% capacity.
func completedScan() *scan.Report {
	return &scan.Report{
		ScanID:         "1f6cf3a2-7be1-4b4a-a1af-52fc0e30e7a1",
		Status:         scan.StatusCompleted,
		ScanStarted:    summaryNow.Add(-2 * time.Minute),
		ScanCompleted:  summaryNow.Add(-time.Minute),
		ScannedPaths:   []string{"/data", "/tmp"},
		ScanDepth:      3,
		TotalFiles:     1000,
		TotalSizeBytes: 500 << 30,
		TotalSizeGB:    500,
		ColdData: []analyzer.ColdFile{
			{FileRecord: recOf("/data/archive/q1.parquet", 100<<30), Classification: "cold", DaysSinceAccess: 300, ColdScore: 1},
			{FileRecord: recOf("/data/archive/q2.parquet", 50<<30), Classification: "cold", DaysSinceAccess: 250, ColdScore: 1},
		},
		DuplicateCandidates: []analyzer.DuplicateFile{
			{FileRecord: recOf("/data/dumps/a.bin", 25<<30), Classification: "potential_duplicate", GroupSize: 2, Filename: "a.bin", DuplicateScore: 0.2},
			{FileRecord: recOf("/data/dumps/b.bin", 25<<30), Classification: "potential_duplicate", GroupSize: 2, Filename: "b.bin", DuplicateScore: 0.2},
		},
		SmallFiles: smallFileList(3),
		EmptyFiles: []analyzer.EmptyFile{
			{FileRecord: recOf("/data/flags/_SUCCESS", 0), Classification: "empty_file", EfficiencyImpact: "medium"},
			{FileRecord: recOf("/data/flags/_DONE", 0), Classification: "empty_file", EfficiencyImpact: "medium"},
		},
		OrphanedFiles: []analyzer.OrphanedFile{
			{FileRecord: recOf("/tmp/etl/stage.tmp", 10<<30), Classification: "orphaned_temp", AgeDays: 45, CleanupPriority: "high", TempPattern: "/tmp/"},
		},
		OverReplicatedFiles: []analyzer.OverReplicatedFile{
			{FileRecord: recOf("/data/ledger/master.db", 20<<30), CurrentReplication: 6, SuggestedReplication: 3, ExcessReplicas: 3},
		},
		EfficiencyAnalysis: scan.EfficiencyAnalysis{
			SmallFilesCount:          3,
			SmallFilesPercentage:     60,
			EmptyFilesCount:          2,
			OverReplicatedCount:      1,
			OverReplicatedPercentage: 10,
		},
		WasteAnalysis: analyzer.WasteReport{
			TotalSizeBytes:  500 << 30,
			TotalSizeGB:     500,
			TotalWasteBytes: 60 << 30,
			WastePercentage: 12,
		},
		ClusterMetrics: catalog.ClusterMetrics{
			Filesystem: catalog.FilesystemMetrics{
				CapacityTotal:         1000 << 30,
				CapacityUsed:          900 << 30,
				CapacityRemaining:     100 << 30,
				FilesTotal:            1000,
				BlocksTotal:           5000,
				UnderReplicatedBlocks: 5,
				CorruptBlocks:         3,
			},
		},
	}
}

// metricsOnlyScan builds a completed scan whose only signal is the
// cluster utilization.
func metricsOnlyScan(usedGiB, totalGiB int64) *scan.Report {
	return &scan.Report{
		ScanID: "metrics-only",
		Status: scan.StatusCompleted,
		ClusterMetrics: catalog.ClusterMetrics{
			Filesystem: catalog.FilesystemMetrics{
				CapacityTotal: totalGiB << 30,
				CapacityUsed:  usedGiB << 30,
			},
		},
	}
}

func TestBuildRejectsNotCompletedScan(t *testing.T) {
	// 1. Setup.
	rep := completedScan()
	rep.Status = scan.StatusFailed

	// 2. Run.
	sum, err := NewBuilder(nil).Build(rep, summaryNow)

	// 3. Assertions.
	if !errors.Is(err, scan.ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
	if sum != nil {
		t.Errorf("expected nil summary on error, got %+v", sum)
	}
}

func TestBuildScanInfo(t *testing.T) {
	// 1. Setup and run.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 2. Assertions.
	if sum.Status != scan.StatusCompleted {
		t.Errorf("expected status completed, got %q", sum.Status)
	}
	if !sum.GeneratedAt.Equal(summaryNow) {
		t.Errorf("expected generated_at %v, got %v", summaryNow, sum.GeneratedAt)
	}
	info := sum.ScanInfo
	if info.TotalFiles != 1000 {
		t.Errorf("expected 1000 files, got %d", info.TotalFiles)
	}
	approx(t, "total_size_gb", info.TotalSizeGB, 500)
	approx(t, "total_size_tb", info.TotalSizeTB, 500.0/1024)
	if info.ScanDepth != 3 || len(info.ScannedPaths) != 2 {
		t.Errorf("expected depth 3 over 2 paths, got depth %d paths %v", info.ScanDepth, info.ScannedPaths)
	}
}

func TestBuildCurrentCosts(t *testing.T) {
	// 1. Setup and run. The small file overhead prices the hoisted list,
	// not the counter.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 2. Assertions. 500 GB at $0.04 over 3 replicas plus metadata,
	// small file overhead, and network estimate.
	approx(t, "storage_cost", sum.CurrentCosts.StorageCost, 60)
	approx(t, "metadata_cost", sum.CurrentCosts.MetadataCost, 0.1)
	approx(t, "small_file_overhead", sum.CurrentCosts.SmallFileOverhead, 0.003)
	approx(t, "network_cost", sum.CurrentCosts.NetworkCost, 2.5)
	approx(t, "total_monthly_cost", sum.CurrentCosts.TotalMonthlyCost, 62.603)
}

func TestOpportunitiesPerCategory(t *testing.T) {
	// 1. Setup and run.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	opps := sum.Opportunities

	// 2. Assertions.
	if opps.ColdDataMigration.FileCount != 2 || opps.ColdDataMigration.Priority != "high" {
		t.Errorf("unexpected cold opportunity: %+v", opps.ColdDataMigration)
	}
	approx(t, "cold size_gb", opps.ColdDataMigration.SizeGB, 150)
	approx(t, "cold savings", opps.ColdDataMigration.PotentialMonthlySavings, 4.5)

	if opps.SmallFileConsolidation.FileCount != 3 || opps.SmallFileConsolidation.Priority != "medium" {
		t.Errorf("unexpected small file opportunity: %+v", opps.SmallFileConsolidation)
	}
	approx(t, "small savings", opps.SmallFileConsolidation.PotentialMonthlySavings, 0.003)
	approx(t, "small size_gb", opps.SmallFileConsolidation.SizeGB, 3.0/1024)

	if opps.FileCleanup.OrphanedFiles != 1 || opps.FileCleanup.EmptyFiles != 2 || opps.FileCleanup.Priority != "medium" {
		t.Errorf("unexpected cleanup opportunity: %+v", opps.FileCleanup)
	}
	approx(t, "cleanup size_gb", opps.FileCleanup.SizeGB, 10)
	approx(t, "cleanup savings", opps.FileCleanup.PotentialMonthlySavings, 1.2)

	if opps.ReplicationOptimization.FileCount != 1 || opps.ReplicationOptimization.Priority != "low" {
		t.Errorf("unexpected replication opportunity: %+v", opps.ReplicationOptimization)
	}
	approx(t, "replication savings", opps.ReplicationOptimization.PotentialMonthlySavings, 0.8)

	if opps.DuplicateRemoval.FileCount != 2 || opps.DuplicateRemoval.Priority != "low" {
		t.Errorf("unexpected duplicate opportunity: %+v", opps.DuplicateRemoval)
	}
	approx(t, "duplicate size_gb", opps.DuplicateRemoval.SizeGB, 50)
	approx(t, "duplicate savings", opps.DuplicateRemoval.PotentialMonthlySavings, 1)
}

func TestOpportunityPriorityBandsAreStrict(t *testing.T) {
	// 1. Setup. Exactly 100 GB of cold data and exactly 10000 small
	// files sit on the boundary and must stay medium.
	rep := &scan.Report{
		ScanID: "boundary",
		Status: scan.StatusCompleted,
		ColdData: []analyzer.ColdFile{
			{FileRecord: recOf("/data/archive/boundary.parquet", 100<<30), Classification: "cold", DaysSinceAccess: 200, ColdScore: 1},
		},
		SmallFiles: smallFileList(10000),
	}

	// 2. Run.
	sum, err := NewBuilder(nil).Build(rep, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 3. Assertions.
	if sum.Opportunities.ColdDataMigration.Priority != "medium" {
		t.Errorf("100 GB cold should stay medium, got %q", sum.Opportunities.ColdDataMigration.Priority)
	}
	if sum.Opportunities.SmallFileConsolidation.Priority != "medium" {
		t.Errorf("10000 small files should stay medium, got %q", sum.Opportunities.SmallFileConsolidation.Priority)
	}

	// 4. One step past the boundary flips both to high.
	rep.ColdData = append(rep.ColdData, analyzer.ColdFile{
		FileRecord: recOf("/data/archive/extra.parquet", 1<<30), Classification: "cold", DaysSinceAccess: 200, ColdScore: 1,
	})
	rep.SmallFiles = smallFileList(10001)
	sum, err = NewBuilder(nil).Build(rep, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if sum.Opportunities.ColdDataMigration.Priority != "high" {
		t.Errorf("101 GB cold should be high, got %q", sum.Opportunities.ColdDataMigration.Priority)
	}
	if sum.Opportunities.SmallFileConsolidation.Priority != "high" {
		t.Errorf("10001 small files should be high, got %q", sum.Opportunities.SmallFileConsolidation.Priority)
	}
}

func TestEfficiencyMetrics(t *testing.T) {
	// 1. Setup and run. 500 GB over 1000 files averages 512 MB.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	eff := sum.Efficiency

	// 2. Assertions. The small file penalty caps at 50 points, so 60%
	// small files and 10% over-replication score 100-50-10.
	approx(t, "average_file_size_mb", eff.AverageFileSizeMB, 512)
	approx(t, "efficiency_score", eff.EfficiencyScore, 40)
	if eff.EmptyFilesCount != 2 {
		t.Errorf("expected 2 empty files, got %d", eff.EmptyFilesCount)
	}
	if eff.StorageUtilization.CurrentAverage != "512.0MB" {
		t.Errorf("expected current average 512.0MB, got %q", eff.StorageUtilization.CurrentAverage)
	}
	if eff.StorageUtilization.OptimalRange != "64MB - 1GB per file" {
		t.Errorf("unexpected optimal range %q", eff.StorageUtilization.OptimalRange)
	}
	if eff.StorageUtilization.Recommendation != "File sizes are in optimal range" {
		t.Errorf("unexpected recommendation %q", eff.StorageUtilization.Recommendation)
	}
}

func TestEfficiencyPenaltiesAreCapped(t *testing.T) {
	// 1. Setup. Extreme percentages must not push the score below 20.
	rep := completedScan()
	rep.EfficiencyAnalysis.SmallFilesPercentage = 95
	rep.EfficiencyAnalysis.OverReplicatedPercentage = 80

	// 2. Run.
	sum, err := NewBuilder(nil).Build(rep, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 3. Assertions.
	approx(t, "efficiency_score", sum.Efficiency.EfficiencyScore, 20)
}

func TestEfficiencyEmptyCluster(t *testing.T) {
	// 1. Setup.
	rep := &scan.Report{ScanID: "empty", Status: scan.StatusCompleted}

	// 2. Run.
	sum, err := NewBuilder(nil).Build(rep, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 3. Assertions. No division by zero and a perfect score.
	approx(t, "average_file_size_mb", sum.Efficiency.AverageFileSizeMB, 0)
	approx(t, "efficiency_score", sum.Efficiency.EfficiencyScore, 100)
	if sum.Efficiency.StorageUtilization.Recommendation != "Consider consolidating small files" {
		t.Errorf("unexpected recommendation %q", sum.Efficiency.StorageUtilization.Recommendation)
	}
}

func TestFileSizeRecommendationBands(t *testing.T) {
	// 1. Setup.
	cases := []struct {
		avgMB float64
		want  string
	}{
		{0.5, "Consider consolidating small files"},
		{1, "File sizes are below optimal range"},
		{63.9, "File sizes are below optimal range"},
		{64, "File sizes are in optimal range"},
		{1024, "File sizes are in optimal range"},
		{1025, "Consider splitting large files"},
	}

	// 2. Run and assert.
	for _, tc := range cases {
		if got := fileSizeRecommendation(tc.avgMB); got != tc.want {
			t.Errorf("fileSizeRecommendation(%v): expected %q, got %q", tc.avgMB, tc.want, got)
		}
	}
}

func TestClusterHealthBands(t *testing.T) {
	// 1. Setup.
	cases := []struct {
		usedGiB int64
		want    string
	}{
		{500, "healthy"},
		{699, "healthy"},
		{700, "warning"},
		{849, "warning"},
		{850, "critical"},
		{900, "critical"},
	}

	// 2. Run and assert.
	for _, tc := range cases {
		sum, err := NewBuilder(nil).Build(metricsOnlyScan(tc.usedGiB, 1000), summaryNow)
		if err != nil {
			t.Fatalf("build summary at %d GiB used: %v", tc.usedGiB, err)
		}
		if sum.ClusterHealth.HealthStatus != tc.want {
			t.Errorf("%d of 1000 GiB used: expected %q, got %q", tc.usedGiB, tc.want, sum.ClusterHealth.HealthStatus)
		}
	}
}

func TestClusterHealthCapacityFigures(t *testing.T) {
	// 1. Setup and run.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	health := sum.ClusterHealth

	// 2. Assertions.
	approx(t, "capacity_utilization_percent", health.CapacityUtilizationPercent, 90)
	approx(t, "capacity_total_gb", health.CapacityTotalGB, 1000)
	approx(t, "capacity_used_gb", health.CapacityUsedGB, 900)
	approx(t, "capacity_remaining_gb", health.CapacityRemainingGB, 100)
	if health.UnderReplicatedBlocks != 5 || health.CorruptBlocks != 3 {
		t.Errorf("unexpected block counters: %+v", health)
	}
	if health.FilesTotal != 1000 || health.BlocksTotal != 5000 {
		t.Errorf("unexpected totals: %+v", health)
	}
}

func TestRiskAssessmentFlagsEveryCondition(t *testing.T) {
	// 1. Setup and run. The fixture trips all four checks: 90%
	// utilization, 60% small files, 3 corrupt and 5 under-replicated
	// blocks.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	ra := sum.RiskAssessment

	// 2. Assertions. Scores 10+5+10+2 put the cluster at critical.
	if ra.OverallRiskScore != 27 {
		t.Errorf("expected risk score 27, got %d", ra.OverallRiskScore)
	}
	if ra.RiskLevel != "critical" {
		t.Errorf("expected critical risk level, got %q", ra.RiskLevel)
	}
	if len(ra.Risks) != 4 {
		t.Fatalf("expected 4 risks, got %d: %+v", len(ra.Risks), ra.Risks)
	}
	wantTypes := []string{"high_utilization", "small_files", "data_corruption", "under_replication"}
	for i, want := range wantTypes {
		if ra.Risks[i].Type != want {
			t.Errorf("risk %d: expected type %q, got %q", i, want, ra.Risks[i].Type)
		}
	}
	if ra.Risks[2].Description != "3 corrupt blocks detected" {
		t.Errorf("unexpected corruption description %q", ra.Risks[2].Description)
	}
	if ra.Risks[3].Description != "5 under-replicated blocks" {
		t.Errorf("unexpected under-replication description %q", ra.Risks[3].Description)
	}
	if len(ra.Recommendations) != 4 || ra.Recommendations[0] != "Immediate cleanup or capacity expansion required" {
		t.Errorf("unexpected recommendations: %v", ra.Recommendations)
	}
}

func TestRiskLevelBands(t *testing.T) {
	// 1. Setup. Each report trips exactly one check.
	underRep := metricsOnlyScan(100, 1000)
	underRep.ClusterMetrics.Filesystem.UnderReplicatedBlocks = 1

	smallHeavy := metricsOnlyScan(100, 1000)
	smallHeavy.EfficiencyAnalysis.SmallFilesPercentage = 60

	corrupt := metricsOnlyScan(100, 1000)
	corrupt.ClusterMetrics.Filesystem.CorruptBlocks = 1

	cases := []struct {
		name string
		rep  *scan.Report
		want string
	}{
		{"no risks", metricsOnlyScan(100, 1000), "low"},
		{"one medium risk", underRep, "medium"},
		{"one high risk", smallHeavy, "high"},
		{"one critical risk", corrupt, "critical"},
	}

	// 2. Run and assert.
	for _, tc := range cases {
		sum, err := NewBuilder(nil).Build(tc.rep, summaryNow)
		if err != nil {
			t.Fatalf("%s: build summary: %v", tc.name, err)
		}
		if sum.RiskAssessment.RiskLevel != tc.want {
			t.Errorf("%s: expected level %q, got %q", tc.name, tc.want, sum.RiskAssessment.RiskLevel)
		}
	}
}

func TestRiskAssessmentEmptyStaysSerializable(t *testing.T) {
	// 1. Setup and run.
	sum, err := NewBuilder(nil).Build(metricsOnlyScan(100, 1000), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 2. Assertions. A healthy cluster reports an empty list, not null.
	if len(sum.RiskAssessment.Risks) != 0 {
		t.Errorf("expected no risks, got %+v", sum.RiskAssessment.Risks)
	}
	raw, err := json.Marshal(sum.RiskAssessment)
	if err != nil {
		t.Fatalf("marshal risk assessment: %v", err)
	}
	if !strings.Contains(string(raw), `"risks":[]`) {
		t.Errorf("expected empty risks array in JSON, got %s", raw)
	}
}

func TestRecommendationsBelowThresholdsStayEmpty(t *testing.T) {
	// 1. Setup and run. The base fixture's savings sit under every
	// trigger: $4.50 cold, 3 small files, $1.20 cleanup.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}

	// 2. Assertions.
	if sum.Recommendations.TotalRecommendations != 0 {
		t.Errorf("expected no recommendations, got %+v", sum.Recommendations.Recommendations)
	}
	approx(t, "estimated_total_monthly_savings", sum.Recommendations.EstimatedTotalMonthlySavings, 0)
}

func TestRecommendationsOverThresholds(t *testing.T) {
	// 1. Setup. 4000 GB cold ($120), 6000 small files, and 500 GB
	// orphaned ($60) trip all three triggers.
	rep := completedScan()
	rep.ColdData = []analyzer.ColdFile{
		{FileRecord: recOf("/data/archive/huge.parquet", 4000<<30), Classification: "cold", DaysSinceAccess: 400, ColdScore: 1},
	}
	rep.SmallFiles = smallFileList(6000)
	rep.OrphanedFiles = []analyzer.OrphanedFile{
		{FileRecord: recOf("/tmp/etl/giant.tmp", 500<<30), Classification: "orphaned_temp", AgeDays: 120, CleanupPriority: "critical", TempPattern: "/tmp/"},
	}

	// 2. Run.
	sum, err := NewBuilder(nil).Build(rep, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	recs := sum.Recommendations

	// 3. Assertions.
	if recs.TotalRecommendations != 3 {
		t.Fatalf("expected 3 recommendations, got %d", recs.TotalRecommendations)
	}
	if recs.Recommendations[0].Priority != 1 || recs.Recommendations[0].Action != "Cold Data Migration" {
		t.Errorf("unexpected first recommendation: %+v", recs.Recommendations[0])
	}
	if recs.Recommendations[0].Description != "Migrate 1 files to cold storage" {
		t.Errorf("unexpected cold description %q", recs.Recommendations[0].Description)
	}
	if recs.Recommendations[1].Action != "Small File Consolidation" || recs.Recommendations[1].Timeline != "2-4 weeks" {
		t.Errorf("unexpected second recommendation: %+v", recs.Recommendations[1])
	}
	if recs.Recommendations[2].Description != "Remove 1 orphaned and 2 empty files" {
		t.Errorf("unexpected cleanup description %q", recs.Recommendations[2].Description)
	}
	if recs.Recommendations[2].Timeline != "Immediate" {
		t.Errorf("expected immediate cleanup timeline, got %q", recs.Recommendations[2].Timeline)
	}
	approx(t, "estimated_total_monthly_savings", recs.EstimatedTotalMonthlySavings, 120+6+60)
	approx(t, "estimated_total_annual_savings", recs.EstimatedTotalAnnualSavings, (120+6+60)*12)
}

func TestProjectedSavings(t *testing.T) {
	// 1. Setup and run.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	proj := sum.Projected

	// 2. Assertions. Category savings sum to $7.503 against $62.603 of
	// monthly spend, just under 12%.
	approx(t, "cold_data", proj.SavingsByCategory["cold_data"], 4.5)
	approx(t, "small_files", proj.SavingsByCategory["small_files"], 0.003)
	approx(t, "cleanup", proj.SavingsByCategory["cleanup"], 1.2)
	approx(t, "replication", proj.SavingsByCategory["replication"], 0.8)
	approx(t, "duplicates", proj.SavingsByCategory["duplicates"], 1)
	approx(t, "projected_monthly_savings", proj.ProjectedMonthlySavings, 7.503)
	approx(t, "projected_annual_savings", proj.ProjectedAnnualSavings, 7.503*12)
	approx(t, "current_monthly_cost", proj.CurrentMonthlyCost, 62.603)
	approx(t, "optimized_monthly_cost", proj.OptimizedMonthlyCost, 62.603-7.503)
	approx(t, "savings_percentage", proj.SavingsPercentage, 7.503/62.603*100)
	if proj.PaybackPeriod != "immediate" {
		t.Errorf("expected immediate payback, got %q", proj.PaybackPeriod)
	}
	if proj.ConfidenceLevel != "medium" {
		t.Errorf("expected medium confidence at ~12%%, got %q", proj.ConfidenceLevel)
	}
}

func TestProjectedConfidenceBands(t *testing.T) {
	// 1. Setup. 100 GB total with 100 GB cold pushes savings over 20% of
	// spend; an empty cluster has nothing to save.
	hot := &scan.Report{
		ScanID:      "confident",
		Status:      scan.StatusCompleted,
		TotalFiles:  10,
		TotalSizeGB: 100,
		ColdData: []analyzer.ColdFile{
			{FileRecord: recOf("/data/archive/all.parquet", 100<<30), Classification: "cold", DaysSinceAccess: 400, ColdScore: 1},
		},
	}
	empty := &scan.Report{ScanID: "idle", Status: scan.StatusCompleted}

	// 2. Run and assert.
	sum, err := NewBuilder(nil).Build(hot, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	if sum.Projected.ConfidenceLevel != "high" {
		t.Errorf("expected high confidence, got %q (pct %v)", sum.Projected.ConfidenceLevel, sum.Projected.SavingsPercentage)
	}

	sum, err = NewBuilder(nil).Build(empty, summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	approx(t, "savings_percentage", sum.Projected.SavingsPercentage, 0)
	if sum.Projected.ConfidenceLevel != "low" {
		t.Errorf("expected low confidence on empty cluster, got %q", sum.Projected.ConfidenceLevel)
	}
}

func TestReportJSONKeys(t *testing.T) {
	// 1. Setup and run.
	sum, err := NewBuilder(nil).Build(completedScan(), summaryNow)
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	body := string(raw)

	// 2. Assertions.
	for _, key := range []string{
		`"scan_id"`, `"generated_at"`, `"status"`, `"scan_info"`,
		`"total_size_tb"`, `"current_costs"`, `"optimization_opportunities"`,
		`"cold_data_migration"`, `"small_file_consolidation"`, `"file_cleanup"`,
		`"replication_optimization"`, `"duplicate_removal"`,
		`"efficiency_metrics"`, `"storage_utilization"`, `"waste_analysis"`,
		`"cluster_health"`, `"risk_assessment"`, `"recommendations_summary"`,
		`"projected_savings"`, `"savings_by_category"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("summary JSON missing key %s", key)
		}
	}
}
