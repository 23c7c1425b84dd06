package config

// AnalysisConfig defines thresholds for the metadata classifiers.
type AnalysisConfig struct {
	// ColdThresholdDays is the access-time age beyond which a file is cold.
	ColdThresholdDays int `mapstructure:"cold_threshold_days"`
	// OrphanAgeDays is the minimum age before a temp-pattern file counts as orphaned.
	OrphanAgeDays int `mapstructure:"orphan_age_days"`
	// SmallFileBytes is the size under which a non-empty file is small.
	SmallFileBytes int64 `mapstructure:"small_file_bytes"`
	// TargetReplication is the factor above which replication is excessive.
	TargetReplication int `mapstructure:"target_replication"`
}

// ScanConfig defines traversal settings for cluster scans.
type ScanConfig struct {
	// Paths are the HDFS roots to walk.
	Paths []string `mapstructure:"paths"`
	// Depth bounds directory recursion.
	Depth int `mapstructure:"depth"`
	// BatchSize is the number of file records ingested per flush.
	BatchSize int `mapstructure:"batch_size"`
	// Concurrency is the number of parallel listing workers.
	Concurrency int `mapstructure:"concurrency"`
}

// PlanConfig defines selection thresholds for the optimization planner.
type PlanConfig struct {
	// ColdMigrationMinAgeDays filters which cold files are migrated.
	ColdMigrationMinAgeDays int `mapstructure:"cold_migration_min_age_days"`
	// MinSmallFilesPerDir is the count at which a directory is consolidated.
	MinSmallFilesPerDir int `mapstructure:"min_small_files_per_dir"`
}

// DefaultAnalysisConfig returns the thresholds the classifiers were tuned for.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		ColdThresholdDays: 180,
		OrphanAgeDays:     7,
		SmallFileBytes:    64 * 1024 * 1024,
		TargetReplication: 3,
	}
}

// DefaultScanConfig returns traversal defaults.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Paths:       []string{"/"},
		Depth:       3,
		BatchSize:   1000,
		Concurrency: 8,
	}
}

// DefaultPlanConfig returns planner defaults.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		ColdMigrationMinAgeDays: 90,
		MinSmallFilesPerDir:     10,
	}
}
