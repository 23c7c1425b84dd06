package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

var policyNow = time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

func protectedFile(path, owner string, size int64, ageDays int) catalog.FileRecord {
	accessed := policyNow.Add(-time.Duration(ageDays) * 24 * time.Hour)
	return catalog.FileRecord{
		Path:        path,
		Size:        size,
		Replication: 3,
		AccessTime:  accessed.UnixMilli(),
		Owner:       owner,
	}
}

func TestEngineExcludesMatchingFiles(t *testing.T) {
	// 1. Setup
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	rules := []Rule{
		{Name: "protect-critical", Expression: "path.startsWith('/data/critical')", Enabled: true},
		{Name: "keep-hbase", Expression: "owner == 'hbase'", Enabled: true},
	}
	if err := engine.Compile(rules); err != nil {
		t.Fatalf("Compilation failed: %v", err)
	}

	// 2. Run + 3. Assertions
	if name, ok := engine.ExcludedFile(protectedFile("/data/critical/ledger.db", "etl", 1024, 10), policyNow); !ok || name != "protect-critical" {
		t.Errorf("Expected protect-critical to match, got %q %v", name, ok)
	}
	if name, ok := engine.ExcludedFile(protectedFile("/hbase/data/t1", "hbase", 1024, 10), policyNow); !ok || name != "keep-hbase" {
		t.Errorf("Expected keep-hbase to match, got %q %v", name, ok)
	}
	if name, ok := engine.ExcludedFile(protectedFile("/tmp/scratch.dat", "etl", 1024, 10), policyNow); ok {
		t.Errorf("Expected no match for an unprotected file, got %q", name)
	}
}

func TestCompileErrorNamesRule(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	err = engine.Compile([]Rule{
		{Name: "bad-rule", Expression: "path ==", Enabled: true},
	})
	if err == nil {
		t.Fatal("Expected a compilation error")
	}
	if !strings.Contains(err.Error(), "bad-rule") {
		t.Errorf("Compile error should name the rule, got: %v", err)
	}
}

func TestDisabledRulesSkipped(t *testing.T) {
	// A broken rule stays harmless while disabled, and a disabled
	// matching rule excludes nothing.
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	rules := []Rule{
		{Name: "broken-draft", Expression: "path ==", Enabled: false},
		{Name: "match-everything", Expression: "size >= 0", Enabled: false},
	}
	if err := engine.Compile(rules); err != nil {
		t.Fatalf("Disabled rules should not compile, got: %v", err)
	}

	if name, ok := engine.ExcludedFile(protectedFile("/data/a", "etl", 1024, 10), policyNow); ok {
		t.Errorf("Disabled rule should not exclude, got %q", name)
	}
}

func TestSizeAndAgeAttributes(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	rules := []Rule{
		{Name: "big-recent", Expression: "size > 1073741824 && age_days < 30.0", Enabled: true},
		{Name: "high-replication", Expression: "replication >= 5", Enabled: true},
	}
	if err := engine.Compile(rules); err != nil {
		t.Fatalf("Compilation failed: %v", err)
	}

	big := protectedFile("/data/hot/events.parquet", "etl", 2<<30, 5)
	if name, ok := engine.ExcludedFile(big, policyNow); !ok || name != "big-recent" {
		t.Errorf("Expected big-recent to match, got %q %v", name, ok)
	}

	old := protectedFile("/data/hot/events_old.parquet", "etl", 2<<30, 200)
	if _, ok := engine.ExcludedFile(old, policyNow); ok {
		t.Error("An old file should not match big-recent")
	}

	replicated := protectedFile("/data/refs/dict.bin", "etl", 1024, 400)
	replicated.Replication = 6
	if name, ok := engine.ExcludedFile(replicated, policyNow); !ok || name != "high-replication" {
		t.Errorf("Expected high-replication to match, got %q %v", name, ok)
	}
}

func TestEvaluateReturnsAllMatchesInOrder(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	rules := []Rule{
		{Name: "first", Expression: "owner == 'hbase'", Enabled: true},
		{Name: "second", Expression: "path.contains('/hbase/')", Enabled: true},
	}
	if err := engine.Compile(rules); err != nil {
		t.Fatalf("Compilation failed: %v", err)
	}

	matches := engine.Evaluate(Variables(protectedFile("/hbase/data/t1", "hbase", 1024, 10), policyNow))
	if len(matches) != 2 || matches[0] != "first" || matches[1] != "second" {
		t.Errorf("Expected [first second], got %v", matches)
	}
}

func TestLoadRulesFromYAML(t *testing.T) {
	// 1. Setup
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - name: protect-critical
    expression: "path.startsWith('/data/critical')"
    enabled: true
  - name: drafts-off
    expression: "owner == 'etl'"
    enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// 2. Run
	rules, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 3. Assertions
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(rules))
	}
	if rules[0].Name != "protect-critical" || !rules[0].Enabled {
		t.Errorf("First rule parsed wrong: %+v", rules[0])
	}
	if rules[1].Enabled {
		t.Errorf("Second rule should be disabled: %+v", rules[1])
	}

	// End to end through NewFromFile.
	engine, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile failed: %v", err)
	}
	if name, ok := engine.ExcludedFile(protectedFile("/data/critical/x", "etl", 1, 1), policyNow); !ok || name != "protect-critical" {
		t.Errorf("Expected protect-critical via loaded rules, got %q %v", name, ok)
	}
	if _, ok := engine.ExcludedFile(protectedFile("/data/other/x", "etl", 1, 1), policyNow); ok {
		t.Error("Disabled rule should not exclude after load")
	}
}

func TestLoadMissingRulesFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing rules file")
	}
}
