// Package analyzer classifies scanned file metadata into cost findings:
// cold data, duplicate candidates, layout inefficiencies, orphaned temp
// files, directory hotspots, and raw storage waste.
package analyzer

import (
	"context"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// Input is the shared material every classifier works from. Now is sampled
// once per run so age cutoffs agree across classifiers.
type Input struct {
	Files []catalog.FileRecord
	Now   time.Time
}

// Stats captures per-classifier findings for telemetry.
type Stats struct {
	ItemsFound   int
	BytesFlagged int64
}

// Classifier is one independent analysis pass. Each implementation writes
// only its own field of Result, which keeps the parallel fan-out race-free.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, in Input, res *Result) (*Stats, error)
}

// Result aggregates all classifier outputs for one scan.
type Result struct {
	Cold        []ColdFile       `json:"cold_data"`
	Duplicates  []DuplicateFile  `json:"duplicate_candidates"`
	Efficiency  EfficiencyReport `json:"efficiency_analysis"`
	Orphaned    []OrphanedFile   `json:"orphaned_files"`
	Directories DirectoryReport  `json:"directory_analysis"`
	Waste       WasteReport      `json:"waste_analysis"`
	Priorities  []Priority       `json:"optimization_priorities"`
}

// ColdFile is a file whose last access predates the cold threshold.
type ColdFile struct {
	catalog.FileRecord
	Classification  string  `json:"classification"`
	DaysSinceAccess float64 `json:"days_since_access"`
	ColdScore       float64 `json:"cold_score"`
}

// DuplicateFile is a member of a size-collision group.
type DuplicateFile struct {
	catalog.FileRecord
	Classification string  `json:"classification"`
	GroupSize      int     `json:"group_size"`
	Filename       string  `json:"filename"`
	DuplicateScore float64 `json:"duplicate_score"`
}

// EmptyFile is a zero-byte file.
type EmptyFile struct {
	catalog.FileRecord
	Classification   string `json:"classification"`
	EfficiencyImpact string `json:"efficiency_impact"`
}

// SmallFile is a non-empty file under the small-file threshold.
type SmallFile struct {
	catalog.FileRecord
	Classification   string  `json:"classification"`
	EfficiencyImpact string  `json:"efficiency_impact"`
	SizeMB           float64 `json:"size_mb"`
}

// OverReplicatedFile carries more replicas than the target factor.
type OverReplicatedFile struct {
	catalog.FileRecord
	Classification       string `json:"classification"`
	CurrentReplication   int    `json:"current_replication"`
	SuggestedReplication int    `json:"suggested_replication"`
	ExcessReplicas       int    `json:"excess_replicas"`
}

// EfficiencySummary rolls the layout findings into issue counts.
type EfficiencySummary struct {
	CriticalIssues     int     `json:"critical_issues"`
	ModerateIssues     int     `json:"moderate_issues"`
	StorageWasteFactor float64 `json:"storage_waste_factor"`
}

// EfficiencyReport is the layout analysis output.
type EfficiencyReport struct {
	TotalFiles               int                  `json:"total_files"`
	SmallFiles               []SmallFile          `json:"small_files"`
	SmallFilesCount          int                  `json:"small_files_count"`
	SmallFilesPercentage     float64              `json:"small_files_percentage"`
	EmptyFiles               []EmptyFile          `json:"empty_files"`
	EmptyFilesCount          int                  `json:"empty_files_count"`
	InefficientReplication   []OverReplicatedFile `json:"inefficient_replication"`
	OverReplicatedCount      int                  `json:"over_replicated_count"`
	OverReplicatedPercentage float64              `json:"over_replicated_percentage"`
	Summary                  EfficiencySummary    `json:"efficiency_summary"`
}

// OrphanedFile is an aged temp-pattern file.
type OrphanedFile struct {
	catalog.FileRecord
	Classification  string  `json:"classification"`
	AgeDays         float64 `json:"age_days"`
	CleanupPriority string  `json:"cleanup_priority"`
	TempPattern     string  `json:"temp_pattern"`
}

// DirectoryStats accumulates per-directory layout counters. The small-file
// counter here includes empty files, unlike the efficiency report.
type DirectoryStats struct {
	FileCount      int     `json:"file_count"`
	TotalSize      int64   `json:"total_size"`
	SmallFiles     int     `json:"small_files"`
	LargeFiles     int     `json:"large_files"`
	AvgFileSize    float64 `json:"avg_file_size"`
	SmallFileRatio float64 `json:"small_file_ratio"`
}

// ProblematicDirectory flags a consolidation candidate.
type ProblematicDirectory struct {
	Directory             string  `json:"directory"`
	Issue                 string  `json:"issue"`
	SmallFileRatio        float64 `json:"small_file_ratio"`
	FileCount             int     `json:"file_count"`
	TotalSizeMB           float64 `json:"total_size_mb"`
	OptimizationPotential string  `json:"optimization_potential"`
}

// DirectoryReport is the directory structure analysis output.
type DirectoryReport struct {
	DirectoryStats          map[string]*DirectoryStats `json:"directory_stats"`
	ProblematicDirectories  []ProblematicDirectory     `json:"problematic_directories"`
	TotalDirectories        int                        `json:"total_directories"`
	ConsolidationCandidates int                        `json:"consolidation_candidates"`
}

// WasteReport quantifies recoverable bytes.
type WasteReport struct {
	TotalSizeBytes         int64   `json:"total_size_bytes"`
	TotalSizeGB            float64 `json:"total_size_gb"`
	ReplicationWasteBytes  int64   `json:"replication_waste_bytes"`
	ReplicationWasteGB     float64 `json:"replication_waste_gb"`
	EmptyFileWasteBytes    int64   `json:"empty_file_waste_bytes"`
	SmallFileOverheadBytes int64   `json:"small_file_overhead_bytes"`
	TotalWasteBytes        int64   `json:"total_waste_bytes"`
	WastePercentage        float64 `json:"waste_percentage"`
}

// Priority is one entry of the ranked optimization worklist.
type Priority struct {
	Type               string  `json:"type"`
	Priority           string  `json:"priority"`
	Impact             string  `json:"impact"`
	AffectedFiles      int     `json:"affected_files"`
	PotentialSavingsGB float64 `json:"potential_savings_gb"`
	Description        string  `json:"description"`
}
