package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/optimize"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

func sampleScan(id string, started time.Time) *scan.Report {
	return &scan.Report{
		ScanID:        id,
		Status:        scan.StatusCompleted,
		ScanStarted:   started,
		ScanCompleted: started.Add(2 * time.Minute),
		ScannedPaths:  []string{"/data", "/user"},
		TotalFiles:    1200,
		TotalSizeGB:   48.5,
	}
}

func TestScanRoundTrip(t *testing.T) {
	// 1. Setup
	ctx := context.Background()
	st := New(NewMemoryStore())
	started := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	// 2. Run
	if err := st.PutScan(ctx, sampleScan("scan-0001", started)); err != nil {
		t.Fatalf("PutScan failed: %v", err)
	}
	got, err := st.GetScan(ctx, "scan-0001")
	if err != nil {
		t.Fatalf("GetScan failed: %v", err)
	}

	// 3. Assertions
	if got.ScanID != "scan-0001" {
		t.Errorf("Expected scan-0001, got %s", got.ScanID)
	}
	if got.TotalFiles != 1200 {
		t.Errorf("Expected 1200 files, got %d", got.TotalFiles)
	}
	if !got.ScanStarted.Equal(started) {
		t.Errorf("ScanStarted did not survive the round trip: %v", got.ScanStarted)
	}
	if len(got.ScannedPaths) != 2 || got.ScannedPaths[0] != "/data" {
		t.Errorf("ScannedPaths did not survive the round trip: %v", got.ScannedPaths)
	}
}

func TestGetScanNotFound(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryStore())

	_, err := st.GetScan(ctx, "scan-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPutScanRejectsEmptyID(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryStore())

	if err := st.PutScan(ctx, &scan.Report{}); err == nil {
		t.Error("Expected error storing a scan without an ID")
	}
}

func TestListScansNewestFirst(t *testing.T) {
	// 1. Setup: three scans out of order, one of them failed.
	ctx := context.Background()
	st := New(NewMemoryStore())
	base := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	old := sampleScan("scan-old", base.Add(-48*time.Hour))
	mid := sampleScan("scan-mid", base.Add(-24*time.Hour))
	mid.Status = scan.StatusFailed
	mid.Error = "namenode unreachable"
	recent := sampleScan("scan-new", base)

	for _, rep := range []*scan.Report{mid, recent, old} {
		if err := st.PutScan(ctx, rep); err != nil {
			t.Fatalf("PutScan failed: %v", err)
		}
	}

	// 2. Run
	entries, err := st.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}

	// 3. Assertions: newest first, failed scans included.
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	order := []string{"scan-new", "scan-mid", "scan-old"}
	for i, want := range order {
		if entries[i].ScanID != want {
			t.Errorf("Entry %d: expected %s, got %s", i, want, entries[i].ScanID)
		}
	}
	if entries[1].Status != scan.StatusFailed {
		t.Errorf("Failed scan should keep its status in listings, got %s", entries[1].Status)
	}
}

func TestListScansSkipsCorruptObjects(t *testing.T) {
	// 1. Setup: one good scan and one unparseable blob under the prefix.
	ctx := context.Background()
	blobs := NewMemoryStore()
	st := New(blobs)

	if err := st.PutScan(ctx, sampleScan("scan-good", time.Now())); err != nil {
		t.Fatalf("PutScan failed: %v", err)
	}
	if err := blobs.Put(ctx, "scans/broken.json", []byte("{not json")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// 2. Run
	entries, err := st.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}

	// 3. Assertions
	if len(entries) != 1 || entries[0].ScanID != "scan-good" {
		t.Errorf("Expected only the good scan to list, got %+v", entries)
	}
}

func TestDeleteScanIdempotent(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryStore())

	if err := st.PutScan(ctx, sampleScan("scan-0002", time.Now())); err != nil {
		t.Fatalf("PutScan failed: %v", err)
	}

	if err := st.DeleteScan(ctx, "scan-0002"); err != nil {
		t.Fatalf("DeleteScan failed: %v", err)
	}
	if err := st.DeleteScan(ctx, "scan-0002"); err != nil {
		t.Errorf("Deleting an already-deleted scan should succeed, got %v", err)
	}

	if _, err := st.GetScan(ctx, "scan-0002"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestPlanRoundTrip(t *testing.T) {
	// 1. Setup
	ctx := context.Background()
	st := New(NewMemoryStore())
	p := &plan.Plan{
		PlanID:                      "plan-0001",
		TotalMonthlySavings:         42.5,
		TotalAnnualSavings:          510,
		AffectedDataGB:              320,
		CreatedAt:                   time.Date(2025, 11, 20, 13, 0, 0, 0, time.UTC),
		EstimatedImplementationTime: "1 month",
		Optimizations: []plan.Optimization{
			{Category: "cold_data", Title: "Migrate cold data to COLD storage policy"},
		},
	}

	// 2. Run
	if err := st.PutPlan(ctx, p); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}
	got, err := st.GetPlan(ctx, "plan-0001")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}

	// 3. Assertions
	if got.TotalMonthlySavings != 42.5 {
		t.Errorf("Expected 42.5 monthly savings, got %f", got.TotalMonthlySavings)
	}
	if len(got.Optimizations) != 1 || got.Optimizations[0].Category != "cold_data" {
		t.Errorf("Optimizations did not survive the round trip: %+v", got.Optimizations)
	}
}

func TestOptimizationListingNewestFirst(t *testing.T) {
	// 1. Setup: a completed run and a younger failed run.
	ctx := context.Background()
	st := New(NewMemoryStore())
	base := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)

	done := &optimize.Optimization{
		OptimizationID: "opt-done",
		ScanID:         "scan-0001",
		Status:         optimize.StatusCompleted,
		CreatedAt:      base,
		Summary: &optimize.RunSummary{
			TotalMonthlySavings: 99.5,
			TotalAnnualSavings:  1194,
			AffectedDataGB:      250,
		},
	}
	failed := &optimize.Optimization{
		OptimizationID: "opt-failed",
		ScanID:         "scan-0002",
		Status:         optimize.StatusFailed,
		Error:          "advisor unavailable",
		CreatedAt:      base.Add(time.Hour),
	}
	for _, o := range []*optimize.Optimization{done, failed} {
		if err := st.PutOptimization(ctx, o); err != nil {
			t.Fatalf("PutOptimization failed: %v", err)
		}
	}

	// 2. Run
	entries, err := st.ListOptimizations(ctx)
	if err != nil {
		t.Fatalf("ListOptimizations failed: %v", err)
	}

	// 3. Assertions: the failed run is newer, lists first, with zero savings.
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].OptimizationID != "opt-failed" {
		t.Errorf("Expected the newest run first, got %s", entries[0].OptimizationID)
	}
	if entries[0].TotalMonthlySavings != 0 {
		t.Errorf("Failed run should list zero savings, got %f", entries[0].TotalMonthlySavings)
	}
	if entries[1].TotalMonthlySavings != 99.5 {
		t.Errorf("Expected 99.5 monthly savings, got %f", entries[1].TotalMonthlySavings)
	}

	got, err := st.GetOptimization(ctx, "opt-failed")
	if err != nil {
		t.Fatalf("GetOptimization failed: %v", err)
	}
	if got.Error != "advisor unavailable" {
		t.Errorf("Failure envelope should survive storage, got %q", got.Error)
	}
}

func TestLocalStoreBackend(t *testing.T) {
	// 1. Setup: a real directory, exercised through the typed store.
	ctx := context.Background()
	st := New(NewLocalStore(t.TempDir()))
	started := time.Date(2025, 11, 22, 8, 0, 0, 0, time.UTC)

	// 2. Run
	if err := st.PutScan(ctx, sampleScan("scan-disk", started)); err != nil {
		t.Fatalf("PutScan failed: %v", err)
	}
	got, err := st.GetScan(ctx, "scan-disk")
	if err != nil {
		t.Fatalf("GetScan failed: %v", err)
	}

	// 3. Assertions
	if got.TotalSizeGB != 48.5 {
		t.Errorf("Expected 48.5 GB, got %f", got.TotalSizeGB)
	}

	if _, err := st.GetScan(ctx, "scan-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from local backend, got %v", err)
	}

	if err := st.DeleteScan(ctx, "scan-missing"); err != nil {
		t.Errorf("Deleting a missing key on disk should succeed, got %v", err)
	}

	entries, err := st.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ScanID != "scan-disk" {
		t.Errorf("Expected one listed scan, got %+v", entries)
	}
}

func TestLocalStoreListEmptyPrefix(t *testing.T) {
	ctx := context.Background()
	blobs := NewLocalStore(t.TempDir())

	keys, err := blobs.List(ctx, "scans/")
	if err != nil {
		t.Fatalf("List on an empty store failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Expected no keys, got %v", keys)
	}
}

func TestPrefixesDoNotCollide(t *testing.T) {
	// Scans, plans, and optimizations share one backend but must list
	// independently.
	ctx := context.Background()
	st := New(NewMemoryStore())

	if err := st.PutScan(ctx, sampleScan("shared-id", time.Now())); err != nil {
		t.Fatalf("PutScan failed: %v", err)
	}
	if err := st.PutPlan(ctx, &plan.Plan{PlanID: "shared-id"}); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}
	if err := st.PutOptimization(ctx, &optimize.Optimization{
		OptimizationID: "shared-id",
		Status:         optimize.StatusCompleted,
		CreatedAt:      time.Now(),
	}); err != nil {
		t.Fatalf("PutOptimization failed: %v", err)
	}

	scans, err := st.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	opts, err := st.ListOptimizations(ctx)
	if err != nil {
		t.Fatalf("ListOptimizations failed: %v", err)
	}
	if len(scans) != 1 || len(opts) != 1 {
		t.Errorf("Expected 1 scan and 1 optimization, got %d and %d", len(scans), len(opts))
	}
}
