package history

import (
	"fmt"
)

// Trend contains derived growth signals.
type Trend struct {
	LatestSavings   float64 // $/month at the newest snapshot
	SavingsVelocity float64 // $/month change per hour
	GrowthGBPerHour float64 // data growth per hour
	FilesPerHour    float64 // file count growth per hour

	ProjectedSizeGB30d float64 // projected cluster size 30 days out

	Pattern string
	Alerts  []string
}

// Derivative calculates growth trends from the last ledger snapshots.
func Derivative(history []Snapshot) Trend {
	if len(history) < 2 {
		t := Trend{Pattern: "UNKNOWN"}
		if len(history) == 1 {
			t.LatestSavings = history[0].PotentialMonthlySavings
		}
		return t
	}

	current := history[len(history)-1]
	prev := history[len(history)-2]

	timeDelta := float64(current.Timestamp-prev.Timestamp) / 3600.0
	if timeDelta <= 0 {
		return Trend{LatestSavings: current.PotentialMonthlySavings, Pattern: "UNKNOWN"}
	}

	t := Trend{
		LatestSavings:   current.PotentialMonthlySavings,
		SavingsVelocity: (current.PotentialMonthlySavings - prev.PotentialMonthlySavings) / timeDelta,
		GrowthGBPerHour: (current.TotalSizeGB - prev.TotalSizeGB) / timeDelta,
		FilesPerHour:    float64(current.TotalFiles-prev.TotalFiles) / timeDelta,
	}
	t.ProjectedSizeGB30d = current.TotalSizeGB + t.GrowthGBPerHour*24*30

	wasteGBPerHour := float64(current.WasteBytes-prev.WasteBytes) / float64(1<<30) / timeDelta
	t.Pattern = ClassifyPattern(RateVector(t.FilesPerHour, t.GrowthGBPerHour, wasteGBPerHour, t.SavingsVelocity))

	// Generate alerts based on thresholds.

	// Check for recoverable spend climbing between scans.
	if t.SavingsVelocity > 1.0 {
		t.Alerts = append(t.Alerts, fmt.Sprintf("[WARNING] WASTE GROWTH: Recoverable spend climbing +$%.2f/mo per hour", t.SavingsVelocity))
	}

	// Check for small file accumulation.
	smallDelta := current.CategoryCounts["small_files"] - prev.CategoryCounts["small_files"]
	if perHour := float64(smallDelta) / timeDelta; perHour > 1000 {
		t.Alerts = append(t.Alerts, fmt.Sprintf("[CRITICAL] SMALL FILE FLOOD: +%.0f small files per hour", perHour))
	}

	// Check for file count outpacing data growth.
	if t.Pattern == "ANOMALY" {
		t.Alerts = append(t.Alerts, "[WARNING] GROWTH ANOMALY: File count growing faster than data volume")
	}

	return t
}
