package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/config"
)

// clusterFixture mirrors a small production tree: healthy warehouse data,
// a cold archive, a small-file hotspot, empties, over-replicated ledgers,
// stale temp files, and a duplicate pair.
func clusterFixture() []catalog.FileRecord {
	files := []catalog.FileRecord{
		rec("/warehouse/sales.parquet", 2<<30, 3, 5, 30),
		rec("/warehouse/orders.parquet", 3<<30, 3, 2, 30),
		rec("/archive/2023/q1.orc", 4<<30, 3, 300, 300),
		rec("/archive/2023/q2.orc", 4<<30, 3, 250, 250),
		rec("/critical/ledger.db", 5<<30, 6, 1, 1),
		rec("/landing/ready.flag", 0, 3, 1, 1),
		rec("/tmp/etl/stage_4821.tmp", 1<<30, 3, 45, 45),
		rec("/backup/dump_mon.sql", 1<<30, 3, 3, 3),
		rec("/backup/dump_tue.sql", 1<<30, 3, 2, 2),
	}
	for i := 0; i < 15; i++ {
		files = append(files, rec(fmt.Sprintf("/events/hourly/part-%05d.json", i), 256<<10, 3, 1, 1))
	}
	return files
}

func TestEngineRunProducesFullResult(t *testing.T) {
	// 1. Setup
	eng := NewDefaultEngine(config.DefaultAnalysisConfig())
	files := clusterFixture()

	// 2. Run
	res, err := eng.RunAt(context.Background(), files, testNow)
	if err != nil {
		t.Fatalf("engine run failed: %v", err)
	}

	// 3. Assertions across every classifier output
	if len(res.Cold) != 2 {
		t.Errorf("expected 2 cold files, got %d", len(res.Cold))
	}
	if len(res.Duplicates) < 2 {
		t.Errorf("expected duplicate pair flagged, got %d", len(res.Duplicates))
	}
	if res.Efficiency.EmptyFilesCount != 1 {
		t.Errorf("expected 1 empty file, got %d", res.Efficiency.EmptyFilesCount)
	}
	if res.Efficiency.OverReplicatedCount != 1 {
		t.Errorf("expected 1 over-replicated file, got %d", res.Efficiency.OverReplicatedCount)
	}
	if len(res.Orphaned) != 1 || res.Orphaned[0].Path != "/tmp/etl/stage_4821.tmp" {
		t.Errorf("expected the stale temp file flagged, got %+v", res.Orphaned)
	}
	if res.Directories.ConsolidationCandidates != 1 {
		t.Errorf("expected /events/hourly flagged, got %d candidates", res.Directories.ConsolidationCandidates)
	}
	if res.Waste.ReplicationWasteBytes != 15<<30 {
		t.Errorf("expected 15GiB replication waste, got %d", res.Waste.ReplicationWasteBytes)
	}
	if len(res.Priorities) != 4 {
		t.Fatalf("expected all 4 priority categories, got %d", len(res.Priorities))
	}
	if res.Priorities[0].Type != "cold_data_migration" {
		t.Errorf("expected cold migration ranked first, got %s", res.Priorities[0].Type)
	}
}

func TestEngineRunIsDeterministic(t *testing.T) {
	eng := NewDefaultEngine(config.DefaultAnalysisConfig())
	files := clusterFixture()

	first, err := eng.RunAt(context.Background(), files, testNow)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := eng.RunAt(context.Background(), files, testNow)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(a) != string(b) {
		t.Error("expected identical results across runs with a fixed clock")
	}
}

type failingClassifier struct{ err error }

func (f *failingClassifier) Name() string { return "Failing" }

func (f *failingClassifier) Classify(context.Context, Input, *Result) (*Stats, error) {
	return nil, f.err
}

func TestEngineRunPropagatesClassifierError(t *testing.T) {
	eng := NewEngine()
	sentinel := errors.New("listing truncated")
	eng.Register(&ColdDataClassifier{ThresholdDays: 180})
	eng.Register(&failingClassifier{err: sentinel})

	res, err := eng.RunAt(context.Background(), clusterFixture(), testNow)
	if err == nil {
		t.Fatal("expected an error from the failing classifier")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if res != nil {
		t.Error("expected nil result on classifier failure")
	}
}

func TestEngineEmptySnapshot(t *testing.T) {
	eng := NewDefaultEngine(config.DefaultAnalysisConfig())

	res, err := eng.RunAt(context.Background(), nil, testNow)
	if err != nil {
		t.Fatalf("engine run failed: %v", err)
	}
	if len(res.Priorities) != 0 {
		t.Errorf("expected no priorities for an empty cluster, got %d", len(res.Priorities))
	}
	if res.Efficiency.TotalFiles != 0 {
		t.Errorf("expected 0 total files, got %d", res.Efficiency.TotalFiles)
	}
}
