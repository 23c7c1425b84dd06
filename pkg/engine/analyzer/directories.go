package analyzer

import (
	"context"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// Directories aggregates per-directory layout counters and flags
// consolidation candidates. A directory is problematic when more than 70%
// of its files are small and it holds more than 10 files; anything tighter
// flags every landing zone, anything looser misses real hotspots. Unlike
// the efficiency report, the small bucket here includes empty files since
// consolidation sweeps them up as well.
func Directories(files []catalog.FileRecord, smallFileBytes int64) DirectoryReport {
	stats := make(map[string]*DirectoryStats)
	var order []string
	for _, f := range files {
		dir, _ := SplitParent(f.Path)
		st, ok := stats[dir]
		if !ok {
			st = &DirectoryStats{}
			stats[dir] = st
			order = append(order, dir)
		}
		st.FileCount++
		st.TotalSize += f.Size
		if f.Size < smallFileBytes {
			st.SmallFiles++
		} else {
			st.LargeFiles++
		}
	}

	rep := DirectoryReport{
		DirectoryStats:   stats,
		TotalDirectories: len(stats),
	}
	for _, dir := range order {
		st := stats[dir]
		st.AvgFileSize = float64(st.TotalSize) / float64(st.FileCount)
		st.SmallFileRatio = float64(st.SmallFiles) / float64(st.FileCount)
		if st.SmallFileRatio > 0.7 && st.FileCount > 10 {
			rep.ProblematicDirectories = append(rep.ProblematicDirectories, ProblematicDirectory{
				Directory:             dir,
				Issue:                 "high_small_file_ratio",
				SmallFileRatio:        st.SmallFileRatio,
				FileCount:             st.FileCount,
				TotalSizeMB:           float64(st.TotalSize) / (1 << 20),
				OptimizationPotential: "file_consolidation",
			})
		}
	}
	rep.ConsolidationCandidates = len(rep.ProblematicDirectories)
	return rep
}

// DirectoryClassifier maps layout pressure per parent directory.
type DirectoryClassifier struct {
	SmallFileBytes int64
}

func (d *DirectoryClassifier) Name() string { return "Directories" }

func (d *DirectoryClassifier) Classify(_ context.Context, in Input, res *Result) (*Stats, error) {
	res.Directories = Directories(in.Files, d.SmallFileBytes)
	return &Stats{ItemsFound: res.Directories.ConsolidationCandidates}, nil
}
