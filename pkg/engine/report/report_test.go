package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

const gib = int64(1) << 30

func record(path string, size int64, repl int) catalog.FileRecord {
	return catalog.FileRecord{Path: path, Size: size, Replication: repl}
}

// exportScan holds one finding of every category with sizes chosen so
// every row's dollar figures are distinct. Changing it breaks the CSV
// golden, regenerate with go test -update.
func exportScan() *scan.Report {
	rep := &scan.Report{
		ScanID:     "scan-export-0001",
		Status:     scan.StatusCompleted,
		TotalFiles: 7,
		ColdData: []analyzer.ColdFile{
			{FileRecord: record("/data/archive/logs_2023.parquet", 4*gib, 3), DaysSinceAccess: 200},
		},
		DuplicateCandidates: []analyzer.DuplicateFile{
			{FileRecord: record("/data/staging/copy.csv", 2*gib, 3), GroupSize: 2},
		},
		SmallFiles: []analyzer.SmallFile{
			{FileRecord: record("/data/events/part-0001.avro", 256*1024, 3)},
		},
		EmptyFiles: []analyzer.EmptyFile{
			{FileRecord: record("/data/out/_SUCCESS", 0, 3)},
		},
		OrphanedFiles: []analyzer.OrphanedFile{
			{FileRecord: record("/tmp/etl/stage.tmp", gib, 3), AgeDays: 120.4, CleanupPriority: "critical"},
			{FileRecord: record("/data/scratch/run.bak", gib/2, 3), AgeDays: 35, CleanupPriority: "medium"},
		},
		OverReplicatedFiles: []analyzer.OverReplicatedFile{
			{FileRecord: record("/data/ledger/master.db", 5*gib, 6), CurrentReplication: 6, SuggestedReplication: 3},
		},
	}
	rep.ClusterMetrics.Filesystem = catalog.FilesystemMetrics{
		CapacityTotal:     100 * gib,
		CapacityUsed:      40 * gib,
		CapacityRemaining: 60 * gib,
	}
	return rep
}

func TestExtractItemsSortedBySavings(t *testing.T) {
	// 1. Setup
	rep := exportScan()

	// 2. Run
	items := extractItems(rep, costs.DefaultStorageCosts())

	// 3. Assertions
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}

	wantOrder := []struct {
		path   string
		action string
	}{
		{"/data/ledger/master.db", "SETREP"},
		{"/data/archive/logs_2023.parquet", "MIGRATE"},
		{"/data/staging/copy.csv", "REVIEW"},
		{"/tmp/etl/stage.tmp", "DELETE"},
		{"/data/scratch/run.bak", "REVIEW"},
		{"/data/events/part-0001.avro", "CONSOLIDATE"},
		{"/data/out/_SUCCESS", "DELETE"},
	}
	for i, want := range wantOrder {
		if items[i].Path != want.path {
			t.Errorf("item %d: expected path %s, got %s", i, want.path, items[i].Path)
		}
		if items[i].Action != want.action {
			t.Errorf("item %d: expected action %s, got %s", i, want.action, items[i].Action)
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i].EstimatedSavings > items[i-1].EstimatedSavings {
			t.Errorf("items not sorted by savings at index %d", i)
		}
	}
}

func TestExtractItemsRowEconomics(t *testing.T) {
	// 1. Setup
	rep := exportScan()

	// 2. Run
	items := extractItems(rep, costs.DefaultStorageCosts())

	byPath := make(map[string]ExportItem, len(items))
	for _, item := range items {
		byPath[item.Path] = item
	}

	// 3. Assertions
	approx := func(got, want float64) bool {
		diff := got - want
		return diff < 1e-9 && diff > -1e-9
	}

	// Over-replicated: 5GB at 6x standard, setrep to 3 halves it.
	overRep := byPath["/data/ledger/master.db"]
	if !approx(overRep.MonthlyCost, 1.2) || !approx(overRep.EstimatedSavings, 0.6) {
		t.Errorf("over-replicated economics wrong: cost=%f savings=%f", overRep.MonthlyCost, overRep.EstimatedSavings)
	}
	if overRep.Replication != 6 {
		t.Errorf("expected replication 6, got %d", overRep.Replication)
	}

	// Cold: 4GB at 3x standard against the 1.5x cold tier.
	cold := byPath["/data/archive/logs_2023.parquet"]
	if !approx(cold.MonthlyCost, 0.48) || !approx(cold.EstimatedSavings, 0.42) {
		t.Errorf("cold economics wrong: cost=%f savings=%f", cold.MonthlyCost, cold.EstimatedSavings)
	}
	if cold.AgeDays != 200 {
		t.Errorf("expected age 200, got %f", cold.AgeDays)
	}

	// Small file: savings is the fixed metadata surcharge recovery.
	small := byPath["/data/events/part-0001.avro"]
	if !approx(small.EstimatedSavings, 0.009) {
		t.Errorf("small file savings wrong: %f", small.EstimatedSavings)
	}

	// Orphaned: deletion recovers storage plus metadata.
	orphan := byPath["/tmp/etl/stage.tmp"]
	if !approx(orphan.MonthlyCost, 0.1201) || orphan.MonthlyCost != orphan.EstimatedSavings {
		t.Errorf("orphan economics wrong: cost=%f savings=%f", orphan.MonthlyCost, orphan.EstimatedSavings)
	}
}

func TestGenerateCSVGolden(t *testing.T) {
	// 1. Setup
	rep := exportScan()
	path := filepath.Join(t.TempDir(), "findings.csv")

	// 2. Run
	if err := GenerateCSV(rep, costs.DefaultStorageCosts(), path); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}

	// 3. Assertions
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	g := goldie.New(t)
	g.Assert(t, "findings_export", data)
}

func TestGenerateJSONRoundTrip(t *testing.T) {
	// 1. Setup
	rep := exportScan()
	path := filepath.Join(t.TempDir(), "findings.json")

	// 2. Run
	if err := GenerateJSON(rep, costs.DefaultStorageCosts(), path); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	// 3. Assertions
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var items []ExportItem
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}
	if items[0].Path != "/data/ledger/master.db" || items[0].Category != "replication" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestExportRejectsNotCompletedScan(t *testing.T) {
	// 1. Setup
	rep := &scan.Report{ScanID: "scan-x", Status: scan.StatusFailed}
	dir := t.TempDir()

	// 2. Run + 3. Assertions
	if err := GenerateCSV(rep, costs.DefaultStorageCosts(), filepath.Join(dir, "f.csv")); !errors.Is(err, scan.ErrNotCompleted) {
		t.Errorf("GenerateCSV: expected ErrNotCompleted, got %v", err)
	}
	if err := GenerateJSON(rep, costs.DefaultStorageCosts(), filepath.Join(dir, "f.json")); !errors.Is(err, scan.ErrNotCompleted) {
		t.Errorf("GenerateJSON: expected ErrNotCompleted, got %v", err)
	}
	if err := GenerateDashboard(rep, nil, costs.DefaultStorageCosts(), filepath.Join(dir, "f.html")); !errors.Is(err, scan.ErrNotCompleted) {
		t.Errorf("GenerateDashboard: expected ErrNotCompleted, got %v", err)
	}
}

func TestGenerateDashboardContent(t *testing.T) {
	// 1. Setup
	rep := exportScan()
	p := &plan.Plan{
		PlanID:                      "plan-dash-0001",
		TotalMonthlySavings:         12.5,
		TotalAnnualSavings:          150,
		AffectedDataGB:              100,
		EstimatedImplementationTime: "1-2 weeks",
		Optimizations: []plan.Optimization{
			{Category: "cold_data", Files: []plan.FileAction{{Path: "/data/archive/logs_2023.parquet"}}},
		},
	}
	path := filepath.Join(t.TempDir(), "dashboard.html")

	// 2. Run
	if err := GenerateDashboard(rep, p, costs.DefaultStorageCosts(), path); err != nil {
		t.Fatalf("GenerateDashboard failed: %v", err)
	}

	// 3. Assertions
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	checks := []string{
		"HDFS<span>LASH</span>_AUDIT",
		"window.REPORT_DATA = [",
		`"path":"/data/ledger/master.db"`,
		"40.0%",
		"plan-dash-0001",
		"$12.50",
		"1-2 weeks",
		"Cluster Capacity",
		"3yr Spend @ 20% Growth",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Errorf("dashboard missing %q", check)
		}
	}
}

func TestGenerateDashboardWithoutPlan(t *testing.T) {
	// 1. Setup
	rep := exportScan()
	path := filepath.Join(t.TempDir(), "dashboard.html")

	// 2. Run
	if err := GenerateDashboard(rep, nil, costs.DefaultStorageCosts(), path); err != nil {
		t.Fatalf("GenerateDashboard failed: %v", err)
	}

	// 3. Assertions
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Optimization Plan") {
		t.Error("plan card rendered without a plan")
	}
}

func TestGenerateDashboardEscapesHostilePaths(t *testing.T) {
	// 1. Setup
	rep := exportScan()
	payload := `/data/x"];</script><script>alert(1)</script>`
	rep.OrphanedFiles = append(rep.OrphanedFiles, analyzer.OrphanedFile{
		FileRecord:      record(payload, gib, 3),
		AgeDays:         40,
		CleanupPriority: "high",
	})
	path := filepath.Join(t.TempDir(), "dashboard.html")

	// 2. Run
	if err := GenerateDashboard(rep, nil, costs.DefaultStorageCosts(), path); err != nil {
		t.Fatalf("GenerateDashboard failed: %v", err)
	}

	// 3. Assertions
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	// json.Marshal escapes angle brackets, so the payload must never
	// appear as a closing script tag inside the data blob.
	if strings.Contains(content, "</script><script>alert(1)</script>\"") {
		t.Fatal("hostile path broke out of the JSON data blob")
	}
	if !strings.Contains(content, `</script>`) {
		t.Error("expected HTML-safe JSON escaping of the hostile path")
	}
}
