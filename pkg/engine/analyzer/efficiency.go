package analyzer

import (
	"context"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

const tinyFileBytes = 1 << 20

// Efficiency inspects file layout against the HDFS block model. Empty and
// small files each inflate NameNode metadata per byte stored; extra replicas
// inflate raw usage. The empty and small buckets are exclusive, the
// replication check applies to every file regardless of size.
func Efficiency(files []catalog.FileRecord, smallFileBytes int64, targetReplication int) EfficiencyReport {
	rep := EfficiencyReport{TotalFiles: len(files)}

	highImpactSmalls := 0
	for _, f := range files {
		switch {
		case f.Size == 0:
			rep.EmptyFiles = append(rep.EmptyFiles, EmptyFile{
				FileRecord:       f,
				Classification:   "empty_file",
				EfficiencyImpact: "medium",
			})
		case f.Size < smallFileBytes:
			impact := "medium"
			if f.Size < tinyFileBytes {
				impact = "high"
				highImpactSmalls++
			}
			rep.SmallFiles = append(rep.SmallFiles, SmallFile{
				FileRecord:       f,
				Classification:   "small_file",
				EfficiencyImpact: impact,
				SizeMB:           float64(f.Size) / (1 << 20),
			})
		}

		if f.Replication > targetReplication {
			rep.InefficientReplication = append(rep.InefficientReplication, OverReplicatedFile{
				FileRecord:           f,
				Classification:       "over_replicated",
				CurrentReplication:   f.Replication,
				SuggestedReplication: targetReplication,
				ExcessReplicas:       f.Replication - targetReplication,
			})
		}
	}

	rep.SmallFilesCount = len(rep.SmallFiles)
	rep.EmptyFilesCount = len(rep.EmptyFiles)
	rep.OverReplicatedCount = len(rep.InefficientReplication)
	if rep.TotalFiles > 0 {
		rep.SmallFilesPercentage = float64(rep.SmallFilesCount) / float64(rep.TotalFiles) * 100
		rep.OverReplicatedPercentage = float64(rep.OverReplicatedCount) / float64(rep.TotalFiles) * 100
	}
	rep.Summary = EfficiencySummary{
		CriticalIssues:     rep.EmptyFilesCount + highImpactSmalls,
		ModerateIssues:     rep.SmallFilesCount - highImpactSmalls,
		StorageWasteFactor: float64(rep.SmallFilesCount)*0.1 + float64(rep.OverReplicatedCount)*0.2,
	}
	return rep
}

// EfficiencyClassifier audits file sizes and replication factors.
type EfficiencyClassifier struct {
	SmallFileBytes    int64
	TargetReplication int
}

func (e *EfficiencyClassifier) Name() string { return "Efficiency" }

func (e *EfficiencyClassifier) Classify(_ context.Context, in Input, res *Result) (*Stats, error) {
	res.Efficiency = Efficiency(in.Files, e.SmallFileBytes, e.TargetReplication)
	found := res.Efficiency.SmallFilesCount + res.Efficiency.EmptyFilesCount + res.Efficiency.OverReplicatedCount
	return &Stats{ItemsFound: found}, nil
}
