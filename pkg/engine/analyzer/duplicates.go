package analyzer

import (
	"context"
	"sort"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// DuplicateCandidates groups non-empty files by exact byte size and flags
// every member of a size collision. Matching sizes are only a hint, content
// hashing is out of reach for a metadata-only scan, so the score grows with
// group size rather than claiming certainty.
func DuplicateCandidates(files []catalog.FileRecord) []DuplicateFile {
	groups := make(map[int64][]catalog.FileRecord)
	var seen []int64
	for _, f := range files {
		if f.Size <= 0 {
			continue
		}
		if _, ok := groups[f.Size]; !ok {
			seen = append(seen, f.Size)
		}
		groups[f.Size] = append(groups[f.Size], f)
	}

	var dupes []DuplicateFile
	for _, size := range seen {
		group := groups[size]
		if len(group) < 2 {
			continue
		}
		for _, f := range group {
			_, name := SplitParent(f.Path)
			dupes = append(dupes, DuplicateFile{
				FileRecord:     f,
				Classification: "potential_duplicate",
				GroupSize:      len(group),
				Filename:       name,
				DuplicateScore: float64(len(group)) / 10.0,
			})
		}
	}

	sort.SliceStable(dupes, func(i, j int) bool {
		return dupes[i].DuplicateScore > dupes[j].DuplicateScore
	})
	return dupes
}

// DuplicateClassifier flags same-size file groups as duplicate candidates.
type DuplicateClassifier struct{}

func (d *DuplicateClassifier) Name() string { return "Duplicates" }

func (d *DuplicateClassifier) Classify(_ context.Context, in Input, res *Result) (*Stats, error) {
	res.Duplicates = DuplicateCandidates(in.Files)
	return &Stats{ItemsFound: len(res.Duplicates)}, nil
}
