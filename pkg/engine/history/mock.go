package history

import (
	"time"
)

// SeedMockData populates the ledger with a synthetic growth scenario.
// Pattern: 48h of organic growth followed by a small-file flood in the
// last hour. The next scan appended on top of this trips the trend
// alerts, which is what mock mode is for.
func SeedMockData(c *Client) error {
	now := time.Now().Unix()

	// 48h of steady growth, one snapshot per hour.
	files := 100000
	sizeGB := 4000.0
	baselineStart := now - 48*3600
	for ts := baselineStart; ts < now-3600; ts += 3600 {
		files += 400
		sizeGB += 1.5
		s := Snapshot{
			Timestamp:               ts,
			TotalFiles:              files,
			TotalSizeGB:             sizeGB,
			WasteBytes:              120 << 30,
			PotentialMonthlySavings: 95.0,
			CategoryCounts:          map[string]int{"small_files": 18000, "cold_data": 3200},
		}
		if err := c.Append(s); err != nil {
			return err
		}
	}

	// Flood: 6000 new files carrying under half a GB between them.
	flood := Snapshot{
		Timestamp:               now - 3600,
		TotalFiles:              files + 6000,
		TotalSizeGB:             sizeGB + 0.4,
		WasteBytes:              124 << 30,
		PotentialMonthlySavings: 100.0,
		CategoryCounts:          map[string]int{"small_files": 24000, "cold_data": 3200},
	}
	return c.Append(flood)
}
