// Package scan defines the persisted scan report, the envelope every
// downstream operation (optimize, summary, script, export) reads from.
package scan

import (
	"errors"
	"fmt"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
)

// Report status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ErrNotCompleted marks a scan that downstream operations cannot consume.
var ErrNotCompleted = errors.New("scan is not completed")

// Ready reports whether optimize, summary, and script runs may use the scan.
func (r *Report) Ready() error {
	if r.Status != StatusCompleted {
		return fmt.Errorf("scan %s has status %q: %w", r.ScanID, r.Status, ErrNotCompleted)
	}
	return nil
}

// EfficiencyAnalysis carries the layout counters. The small, empty, and
// over-replicated file lists live at the top of the Report instead.
type EfficiencyAnalysis struct {
	SmallFilesCount          int                        `json:"small_files_count"`
	SmallFilesPercentage     float64                    `json:"small_files_percentage"`
	EmptyFilesCount          int                        `json:"empty_files_count"`
	OverReplicatedCount      int                        `json:"over_replicated_count"`
	OverReplicatedPercentage float64                    `json:"over_replicated_percentage"`
	Summary                  analyzer.EfficiencySummary `json:"efficiency_summary"`
}

// Report is one scan's full output. It round-trips through the store, so
// every consumer works the same whether the scan just ran or was loaded.
type Report struct {
	ScanID        string    `json:"scan_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	Error         string    `json:"error,omitempty"`
	ScanStarted   time.Time `json:"scan_started"`
	ScanCompleted time.Time `json:"scan_completed"`
	ScannedPaths  []string  `json:"scanned_paths"`
	ScanDepth     int       `json:"scan_depth"`

	TotalFiles     int     `json:"total_files"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	TotalSizeGB    float64 `json:"total_size_gb"`

	ColdData            []analyzer.ColdFile           `json:"cold_data"`
	DuplicateCandidates []analyzer.DuplicateFile      `json:"duplicate_candidates"`
	SmallFiles          []analyzer.SmallFile          `json:"small_files"`
	EmptyFiles          []analyzer.EmptyFile          `json:"empty_files"`
	OrphanedFiles       []analyzer.OrphanedFile       `json:"orphaned_files"`
	OverReplicatedFiles []analyzer.OverReplicatedFile `json:"over_replicated_files"`

	EfficiencyAnalysis EfficiencyAnalysis       `json:"efficiency_analysis"`
	DirectoryAnalysis  analyzer.DirectoryReport `json:"directory_analysis"`
	WasteAnalysis      analyzer.WasteReport     `json:"waste_analysis"`
	Priorities         []analyzer.Priority      `json:"optimization_priorities"`

	ClusterMetrics catalog.ClusterMetrics `json:"cluster_metrics"`

	Partial      bool                 `json:"partial,omitempty"`
	FailedScopes []catalog.ScopeError `json:"failed_scopes,omitempty"`
}

// SetResult hoists analyzer output into the envelope.
func (r *Report) SetResult(res *analyzer.Result) {
	r.ColdData = res.Cold
	r.DuplicateCandidates = res.Duplicates
	r.SmallFiles = res.Efficiency.SmallFiles
	r.EmptyFiles = res.Efficiency.EmptyFiles
	r.OverReplicatedFiles = res.Efficiency.InefficientReplication
	r.EfficiencyAnalysis = EfficiencyAnalysis{
		SmallFilesCount:          res.Efficiency.SmallFilesCount,
		SmallFilesPercentage:     res.Efficiency.SmallFilesPercentage,
		EmptyFilesCount:          res.Efficiency.EmptyFilesCount,
		OverReplicatedCount:      res.Efficiency.OverReplicatedCount,
		OverReplicatedPercentage: res.Efficiency.OverReplicatedPercentage,
		Summary:                  res.Efficiency.Summary,
	}
	r.OrphanedFiles = res.Orphaned
	r.DirectoryAnalysis = res.Directories
	r.WasteAnalysis = res.Waste
	r.Priorities = res.Priorities
}

// Result rebuilds the analyzer view from a stored envelope. The slices
// are shared, not copied.
func (r *Report) Result() *analyzer.Result {
	return &analyzer.Result{
		Cold:       r.ColdData,
		Duplicates: r.DuplicateCandidates,
		Efficiency: analyzer.EfficiencyReport{
			TotalFiles:               r.TotalFiles,
			SmallFiles:               r.SmallFiles,
			SmallFilesCount:          r.EfficiencyAnalysis.SmallFilesCount,
			SmallFilesPercentage:     r.EfficiencyAnalysis.SmallFilesPercentage,
			EmptyFiles:               r.EmptyFiles,
			EmptyFilesCount:          r.EfficiencyAnalysis.EmptyFilesCount,
			InefficientReplication:   r.OverReplicatedFiles,
			OverReplicatedCount:      r.EfficiencyAnalysis.OverReplicatedCount,
			OverReplicatedPercentage: r.EfficiencyAnalysis.OverReplicatedPercentage,
			Summary:                  r.EfficiencyAnalysis.Summary,
		},
		Orphaned:    r.OrphanedFiles,
		Directories: r.DirectoryAnalysis,
		Waste:       r.WasteAnalysis,
		Priorities:  r.Priorities,
	}
}

// ColdSizeGB totals the cold bytes.
func (r *Report) ColdSizeGB() float64 {
	var gb float64
	for _, f := range r.ColdData {
		gb += f.SizeGB()
	}
	return gb
}

// OrphanedSizeGB totals the orphaned bytes.
func (r *Report) OrphanedSizeGB() float64 {
	var gb float64
	for _, f := range r.OrphanedFiles {
		gb += f.SizeGB()
	}
	return gb
}

// ListEntry is the projection returned when listing stored scans.
type ListEntry struct {
	ScanID        string    `json:"scan_id"`
	Status        string    `json:"status"`
	ScanStarted   time.Time `json:"scan_started"`
	ScanCompleted time.Time `json:"scan_completed"`
	TotalFiles    int       `json:"total_files"`
	TotalSizeGB   float64   `json:"total_size_gb"`
	ScannedPaths  []string  `json:"scanned_paths"`
}

// ToListEntry projects the report for listings.
func (r *Report) ToListEntry() ListEntry {
	return ListEntry{
		ScanID:        r.ScanID,
		Status:        r.Status,
		ScanStarted:   r.ScanStarted,
		ScanCompleted: r.ScanCompleted,
		TotalFiles:    r.TotalFiles,
		TotalSizeGB:   r.TotalSizeGB,
		ScannedPaths:  r.ScannedPaths,
	}
}

// OpportunityCounts tallies findings per category.
type OpportunityCounts struct {
	ColdDataFiles       int `json:"cold_data_files"`
	SmallFiles          int `json:"small_files"`
	EmptyFiles          int `json:"empty_files"`
	OrphanedFiles       int `json:"orphaned_files"`
	OverReplicatedFiles int `json:"over_replicated_files"`
	DuplicateCandidates int `json:"duplicate_candidates"`
}

// PotentialSavings is the waste headline of the condensed view.
type PotentialSavings struct {
	WastePercentage float64 `json:"waste_percentage"`
	WasteGB         float64 `json:"waste_gb"`
}

// HealthCounters is the cluster view of the condensed summary.
type HealthCounters struct {
	CapacityUsedGB        float64 `json:"capacity_used_gb"`
	CapacityTotalGB       float64 `json:"capacity_total_gb"`
	UnderReplicatedBlocks int64   `json:"under_replicated_blocks"`
	CorruptBlocks         int64   `json:"corrupt_blocks"`
}

// Condensed is the short per-scan summary projection.
type Condensed struct {
	ScanID                    string            `json:"scan_id"`
	Status                    string            `json:"status"`
	TotalFiles                int               `json:"total_files"`
	TotalSizeGB               float64           `json:"total_size_gb"`
	OptimizationOpportunities OpportunityCounts `json:"optimization_opportunities"`
	PotentialSavings          PotentialSavings  `json:"potential_savings"`
	ClusterHealth             HealthCounters    `json:"cluster_health"`
}

// ToCondensed projects the report into the short summary.
func (r *Report) ToCondensed() Condensed {
	return Condensed{
		ScanID:      r.ScanID,
		Status:      r.Status,
		TotalFiles:  r.TotalFiles,
		TotalSizeGB: r.TotalSizeGB,
		OptimizationOpportunities: OpportunityCounts{
			ColdDataFiles:       len(r.ColdData),
			SmallFiles:          len(r.SmallFiles),
			EmptyFiles:          len(r.EmptyFiles),
			OrphanedFiles:       len(r.OrphanedFiles),
			OverReplicatedFiles: len(r.OverReplicatedFiles),
			DuplicateCandidates: len(r.DuplicateCandidates),
		},
		PotentialSavings: PotentialSavings{
			WastePercentage: r.WasteAnalysis.WastePercentage,
			WasteGB:         float64(r.WasteAnalysis.TotalWasteBytes) / (1 << 30),
		},
		ClusterHealth: HealthCounters{
			CapacityUsedGB:        float64(r.ClusterMetrics.Filesystem.CapacityUsed) / (1 << 30),
			CapacityTotalGB:       float64(r.ClusterMetrics.Filesystem.CapacityTotal) / (1 << 30),
			UnderReplicatedBlocks: r.ClusterMetrics.Filesystem.UnderReplicatedBlocks,
			CorruptBlocks:         r.ClusterMetrics.Filesystem.CorruptBlocks,
		},
	}
}
