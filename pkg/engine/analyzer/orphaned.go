package analyzer

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// tempPatterns are checked in order against the lowercased path; the first
// hit is reported. "/tmp/" sits before "/var/tmp/" so the latter only labels
// paths where "/tmp/" itself does not occur.
var tempPatterns = []string{
	"/tmp/",
	"/var/tmp/",
	"/_temporary/",
	"/temp/",
	".tmp",
	".temp",
	".bak",
	".backup",
	"_tmp",
	"_temp",
}

// OrphanedTempFiles returns temp-pattern files whose last modification is
// strictly older than minAgeDays, oldest first. Age runs from modification
// rather than access time since a temp file can be re-read long after the
// job that wrote it finished.
func OrphanedTempFiles(files []catalog.FileRecord, minAgeDays int, now time.Time) []OrphanedFile {
	nowMS := now.UnixMilli()

	var orphaned []OrphanedFile
	for _, f := range files {
		pattern, ok := matchTempPattern(f.Path)
		if !ok {
			continue
		}
		age := float64(nowMS-f.ModificationTime) / float64(msPerDay)
		if age <= float64(minAgeDays) {
			continue
		}
		priority := "medium"
		if age > 30 {
			priority = "high"
		}
		if age > 90 {
			priority = "critical"
		}
		orphaned = append(orphaned, OrphanedFile{
			FileRecord:      f,
			Classification:  "orphaned_temp",
			AgeDays:         age,
			CleanupPriority: priority,
			TempPattern:     pattern,
		})
	}

	sort.SliceStable(orphaned, func(i, j int) bool {
		return orphaned[i].AgeDays > orphaned[j].AgeDays
	})
	return orphaned
}

func matchTempPattern(path string) (string, bool) {
	lower := strings.ToLower(path)
	for _, p := range tempPatterns {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// OrphanedTempClassifier finds aged leftovers from temp locations.
type OrphanedTempClassifier struct {
	MinAgeDays int
}

func (o *OrphanedTempClassifier) Name() string { return "OrphanedTemp" }

func (o *OrphanedTempClassifier) Classify(_ context.Context, in Input, res *Result) (*Stats, error) {
	res.Orphaned = OrphanedTempFiles(in.Files, o.MinAgeDays, in.Now)
	stats := &Stats{ItemsFound: len(res.Orphaned)}
	for _, f := range res.Orphaned {
		stats.BytesFlagged += f.Size
	}
	return stats, nil
}
