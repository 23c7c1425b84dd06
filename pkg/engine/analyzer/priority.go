package analyzer

import "sort"

var priorityRank = map[string]int{"high": 3, "medium": 2, "low": 1}

// Priorities ranks the optimization worklist from the other classifier
// outputs. It runs after the fan-out since every entry draws on a finished
// report. Savings estimates are deliberately rough: cold migration recovers
// about 70% of cold bytes once replicas drop on the cheap tier, and each
// consolidated small file frees about a thousandth of a GB of namespace.
func Priorities(cold []ColdFile, eff EfficiencyReport, orphaned []OrphanedFile, waste WasteReport) []Priority {
	var out []Priority

	if len(cold) > 0 {
		var gb float64
		for _, f := range cold {
			gb += f.SizeGB()
		}
		out = append(out, Priority{
			Type:               "cold_data_migration",
			Priority:           "high",
			Impact:             "high",
			AffectedFiles:      len(cold),
			PotentialSavingsGB: gb * 0.7,
			Description:        "Migrate cold data to cheaper storage tiers",
		})
	}

	if eff.SmallFilesCount > 0 {
		out = append(out, Priority{
			Type:               "small_file_consolidation",
			Priority:           "high",
			Impact:             "medium",
			AffectedFiles:      eff.SmallFilesCount,
			PotentialSavingsGB: float64(eff.SmallFilesCount) * 0.001,
			Description:        "Consolidate small files to reduce metadata overhead",
		})
	}

	if len(orphaned) > 0 {
		var gb float64
		for _, f := range orphaned {
			gb += f.SizeGB()
		}
		out = append(out, Priority{
			Type:               "orphaned_file_cleanup",
			Priority:           "medium",
			Impact:             "medium",
			AffectedFiles:      len(orphaned),
			PotentialSavingsGB: gb,
			Description:        "Remove orphaned temporary files",
		})
	}

	if eff.OverReplicatedCount > 0 {
		out = append(out, Priority{
			Type:               "replication_optimization",
			Priority:           "medium",
			Impact:             "high",
			AffectedFiles:      eff.OverReplicatedCount,
			PotentialSavingsGB: waste.ReplicationWasteGB,
			Description:        "Optimize replication factors to reduce storage waste",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if priorityRank[out[i].Priority] != priorityRank[out[j].Priority] {
			return priorityRank[out[i].Priority] > priorityRank[out[j].Priority]
		}
		return priorityRank[out[i].Impact] > priorityRank[out[j].Impact]
	})
	return out
}
