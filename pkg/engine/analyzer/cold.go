package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

const msPerDay = 24 * 60 * 60 * 1000

// ColdFiles returns every file whose last access is strictly older than
// thresholdDays, scored by how far past the threshold it sits (capped at
// 1.0) and sorted coldest first.
func ColdFiles(files []catalog.FileRecord, thresholdDays int, now time.Time) []ColdFile {
	cutoff := now.UnixMilli() - int64(thresholdDays)*msPerDay

	var cold []ColdFile
	for _, f := range files {
		if f.AccessTime >= cutoff {
			continue
		}
		days := float64(now.UnixMilli()-f.AccessTime) / float64(msPerDay)
		score := days / float64(thresholdDays)
		if score > 1.0 {
			score = 1.0
		}
		cold = append(cold, ColdFile{
			FileRecord:      f,
			Classification:  "cold",
			DaysSinceAccess: days,
			ColdScore:       score,
		})
	}

	sort.SliceStable(cold, func(i, j int) bool {
		return cold[i].ColdScore > cold[j].ColdScore
	})
	return cold
}

// ColdDataClassifier finds files not touched within the threshold window.
type ColdDataClassifier struct {
	ThresholdDays int
}

func (c *ColdDataClassifier) Name() string { return "ColdData" }

func (c *ColdDataClassifier) Classify(_ context.Context, in Input, res *Result) (*Stats, error) {
	res.Cold = ColdFiles(in.Files, c.ThresholdDays, in.Now)
	stats := &Stats{ItemsFound: len(res.Cold)}
	for _, f := range res.Cold {
		stats.BytesFlagged += f.Size
	}
	return stats, nil
}
