package scan

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
)

func sampleResult() *analyzer.Result {
	cold := catalog.FileRecord{Path: "/data/archive/2023.parquet", Size: 4 << 30, Replication: 3}
	small := catalog.FileRecord{Path: "/data/events/part-0001", Size: 256 << 10, Replication: 3}
	empty := catalog.FileRecord{Path: "/data/flags/_SUCCESS", Size: 0, Replication: 3}
	orphan := catalog.FileRecord{Path: "/tmp/etl/stage.tmp", Size: 1 << 30, Replication: 3}
	overRep := catalog.FileRecord{Path: "/data/ledger/master.db", Size: 5 << 30, Replication: 6}

	return &analyzer.Result{
		Cold: []analyzer.ColdFile{
			{FileRecord: cold, Classification: "cold", DaysSinceAccess: 300, ColdScore: 1.0},
		},
		Duplicates: []analyzer.DuplicateFile{
			{FileRecord: cold, Classification: "potential_duplicate", GroupSize: 2, Filename: "2023.parquet", DuplicateScore: 0.2},
		},
		Efficiency: analyzer.EfficiencyReport{
			TotalFiles: 5,
			SmallFiles: []analyzer.SmallFile{
				{FileRecord: small, Classification: "small_file", EfficiencyImpact: "high", SizeMB: small.SizeMB()},
			},
			SmallFilesCount:      1,
			SmallFilesPercentage: 20,
			EmptyFiles: []analyzer.EmptyFile{
				{FileRecord: empty, Classification: "empty_file", EfficiencyImpact: "medium"},
			},
			EmptyFilesCount: 1,
			InefficientReplication: []analyzer.OverReplicatedFile{
				{FileRecord: overRep, CurrentReplication: 6, SuggestedReplication: 3, ExcessReplicas: 3},
			},
			OverReplicatedCount:      1,
			OverReplicatedPercentage: 20,
			Summary: analyzer.EfficiencySummary{
				CriticalIssues:     2,
				ModerateIssues:     0,
				StorageWasteFactor: 0.3,
			},
		},
		Orphaned: []analyzer.OrphanedFile{
			{FileRecord: orphan, Classification: "orphaned_temp", AgeDays: 45, CleanupPriority: "high", TempPattern: "/tmp/"},
		},
		Directories: analyzer.DirectoryReport{
			DirectoryStats:   map[string]*analyzer.DirectoryStats{"/data/events": {FileCount: 1, SmallFiles: 1}},
			TotalDirectories: 1,
		},
		Waste: analyzer.WasteReport{
			TotalSizeBytes:        11 << 30,
			TotalSizeGB:           11,
			ReplicationWasteBytes: 15 << 30,
			TotalWasteBytes:       15 << 30,
			WastePercentage:       136.4,
		},
		Priorities: []analyzer.Priority{
			{Type: "cold_data_migration", Priority: "high", Impact: "high", AffectedFiles: 1},
		},
	}
}

func sampleReport() *Report {
	rep := &Report{
		ScanID:         "b7f9d1f0-3a52-4c2e-9f01-0f2a8f6f1b11",
		Status:         StatusCompleted,
		Message:        "Successfully scanned 5 files",
		ScanStarted:    time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC),
		ScanCompleted:  time.Date(2025, 11, 20, 12, 0, 42, 0, time.UTC),
		ScannedPaths:   []string{"/data", "/tmp"},
		ScanDepth:      3,
		TotalFiles:     5,
		TotalSizeBytes: 11 << 30,
		TotalSizeGB:    11,
		ClusterMetrics: catalog.ClusterMetrics{
			Filesystem: catalog.FilesystemMetrics{
				CapacityTotal:         100 << 30,
				CapacityUsed:          40 << 30,
				CapacityRemaining:     60 << 30,
				FilesTotal:            5,
				BlocksTotal:           90,
				UnderReplicatedBlocks: 2,
				CorruptBlocks:         1,
			},
		},
	}
	rep.SetResult(sampleResult())
	return rep
}

func TestSetResultHoistsAnalyzerOutput(t *testing.T) {
	// 1. Setup.
	rep := sampleReport()

	// 2. Assertions. The per-category lists sit at the top level of the
	// envelope and the efficiency section keeps only the counters.
	if len(rep.ColdData) != 1 || rep.ColdData[0].Path != "/data/archive/2023.parquet" {
		t.Errorf("expected one hoisted cold file, got %+v", rep.ColdData)
	}
	if len(rep.SmallFiles) != 1 || rep.SmallFiles[0].Path != "/data/events/part-0001" {
		t.Errorf("expected one hoisted small file, got %+v", rep.SmallFiles)
	}
	if len(rep.EmptyFiles) != 1 {
		t.Errorf("expected one hoisted empty file, got %d", len(rep.EmptyFiles))
	}
	if len(rep.OverReplicatedFiles) != 1 || rep.OverReplicatedFiles[0].ExcessReplicas != 3 {
		t.Errorf("expected one hoisted over-replicated file, got %+v", rep.OverReplicatedFiles)
	}
	if len(rep.OrphanedFiles) != 1 || rep.OrphanedFiles[0].TempPattern != "/tmp/" {
		t.Errorf("expected one hoisted orphaned file, got %+v", rep.OrphanedFiles)
	}
	if rep.EfficiencyAnalysis.SmallFilesCount != 1 {
		t.Errorf("expected small_files_count 1, got %d", rep.EfficiencyAnalysis.SmallFilesCount)
	}
	if rep.EfficiencyAnalysis.SmallFilesPercentage != 20 {
		t.Errorf("expected small_files_percentage 20, got %v", rep.EfficiencyAnalysis.SmallFilesPercentage)
	}
	if rep.EfficiencyAnalysis.Summary.CriticalIssues != 2 {
		t.Errorf("expected 2 critical issues, got %d", rep.EfficiencyAnalysis.Summary.CriticalIssues)
	}
	if len(rep.Priorities) != 1 || rep.Priorities[0].Type != "cold_data_migration" {
		t.Errorf("expected hoisted priorities, got %+v", rep.Priorities)
	}
}

func TestResultRebuildsAnalyzerView(t *testing.T) {
	// 1. Setup. Store and reload the report so the rebuild runs against
	// what a consumer would actually see.
	raw, err := json.Marshal(sampleReport())
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	var loaded Report
	if err := json.Unmarshal(raw, &loaded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}

	// 2. Run.
	res := loaded.Result()

	// 3. Assertions. The rebuilt view must match what SetResult consumed.
	want := sampleResult()
	gotJSON, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal rebuilt result: %v", err)
	}
	wantJSON, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal original result: %v", err)
	}
	if string(gotJSON) != string(wantJSON) {
		t.Errorf("rebuilt result diverged from original:\n got %s\nwant %s", gotJSON, wantJSON)
	}
	if res.Efficiency.TotalFiles != 5 {
		t.Errorf("expected total files 5 carried from envelope, got %d", res.Efficiency.TotalFiles)
	}
}

func TestReportJSONKeys(t *testing.T) {
	// 1. Setup.
	raw, err := json.Marshal(sampleReport())
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	body := string(raw)

	// 2. Assertions. Downstream tooling keys off these names.
	for _, key := range []string{
		`"scan_id"`, `"status"`, `"scanned_paths"`, `"scan_depth"`,
		`"total_files"`, `"total_size_bytes"`, `"total_size_gb"`,
		`"cold_data"`, `"duplicate_candidates"`, `"small_files"`,
		`"empty_files"`, `"orphaned_files"`, `"over_replicated_files"`,
		`"efficiency_analysis"`, `"directory_analysis"`, `"waste_analysis"`,
		`"optimization_priorities"`, `"cluster_metrics"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("report JSON missing key %s", key)
		}
	}
	if strings.Contains(body, `"partial"`) {
		t.Errorf("clean scan should omit the partial flag, got %s", body)
	}
}

func TestToListEntry(t *testing.T) {
	// 1. Setup.
	rep := sampleReport()

	// 2. Run.
	entry := rep.ToListEntry()

	// 3. Assertions.
	if entry.ScanID != rep.ScanID {
		t.Errorf("expected scan id %q, got %q", rep.ScanID, entry.ScanID)
	}
	if entry.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, entry.Status)
	}
	if entry.TotalFiles != 5 || entry.TotalSizeGB != 11 {
		t.Errorf("expected totals (5, 11), got (%d, %v)", entry.TotalFiles, entry.TotalSizeGB)
	}
	if len(entry.ScannedPaths) != 2 {
		t.Errorf("expected 2 scanned paths, got %v", entry.ScannedPaths)
	}
}

func TestToCondensed(t *testing.T) {
	// 1. Setup.
	rep := sampleReport()

	// 2. Run.
	sum := rep.ToCondensed()

	// 3. Assertions.
	counts := sum.OptimizationOpportunities
	if counts.ColdDataFiles != 1 || counts.SmallFiles != 1 || counts.EmptyFiles != 1 {
		t.Errorf("unexpected opportunity counts: %+v", counts)
	}
	if counts.OrphanedFiles != 1 || counts.OverReplicatedFiles != 1 || counts.DuplicateCandidates != 1 {
		t.Errorf("unexpected opportunity counts: %+v", counts)
	}
	if sum.PotentialSavings.WasteGB != 15 {
		t.Errorf("expected 15 GB of waste, got %v", sum.PotentialSavings.WasteGB)
	}
	if sum.PotentialSavings.WastePercentage != 136.4 {
		t.Errorf("expected waste percentage 136.4, got %v", sum.PotentialSavings.WastePercentage)
	}
	if sum.ClusterHealth.CapacityUsedGB != 40 || sum.ClusterHealth.CapacityTotalGB != 100 {
		t.Errorf("unexpected capacity figures: %+v", sum.ClusterHealth)
	}
	if sum.ClusterHealth.UnderReplicatedBlocks != 2 || sum.ClusterHealth.CorruptBlocks != 1 {
		t.Errorf("unexpected block health: %+v", sum.ClusterHealth)
	}
}

func TestSizeTotalsByCategory(t *testing.T) {
	// 1. Setup.
	rep := sampleReport()

	// 2. Assertions.
	if got := rep.ColdSizeGB(); got != 4 {
		t.Errorf("expected 4 GB cold, got %v", got)
	}
	if got := rep.OrphanedSizeGB(); got != 1 {
		t.Errorf("expected 1 GB orphaned, got %v", got)
	}
}
