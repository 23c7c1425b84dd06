package costs

import (
	"log/slog"
	"math"

	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
)

// baselineReplication is the replication factor assumed when pricing the
// whole cluster. Actual per-file factors feed the replication category
// only; the headline bill keeps the flat assumption so runs stay
// comparable across clusters.
const baselineReplication = 3

// Calculator prices scan findings against a rate card.
type Calculator struct {
	costs  StorageCosts
	logger *slog.Logger
}

func NewCalculator(costs StorageCosts, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{costs: costs, logger: logger}
}

// Rates returns the rate card in use.
func (c *Calculator) Rates() StorageCosts {
	return c.costs
}

// CurrentCosts prices the cluster as it stands: raw storage at the
// baseline replication, NameNode metadata per file, a surcharge per small
// file, and estimated movement traffic.
func (c *Calculator) CurrentCosts(u Usage, smallFileCount int) CurrentCosts {
	storage := u.TotalSizeGB * c.costs.StandardPerGB * baselineReplication
	metadata := float64(u.TotalFiles) * c.costs.MetadataPerFile
	smallOverhead := float64(smallFileCount) * 0.001
	network := u.TotalSizeGB * 0.005

	total := storage + metadata + smallOverhead + network
	out := CurrentCosts{
		StorageCost:       storage,
		MetadataCost:      metadata,
		SmallFileOverhead: smallOverhead,
		NetworkCost:       network,
		TotalMonthlyCost:  total,
		TotalAnnualCost:   total * 12,
	}
	if u.TotalSizeGB > 0 {
		out.CostPerGB = total / u.TotalSizeGB
	}
	return out
}

// SavingsForCategory prices one optimization category against the scan
// findings. Unknown categories return false.
func (c *Calculator) SavingsForCategory(category string, u Usage, res *analyzer.Result) (OptimizationSavings, bool) {
	switch category {
	case "cold_data":
		return c.coldDataSavings(res.Cold), true
	case "small_files":
		return c.smallFileSavings(res.Efficiency.SmallFiles), true
	case "replication":
		return c.replicationSavings(res.Efficiency.InefficientReplication), true
	case "cleanup":
		return c.cleanupSavings(res.Orphaned), true
	case "compression":
		return c.compressionSavings(u), true
	}
	c.logger.Warn("unknown optimization category", "category", category)
	return OptimizationSavings{}, false
}

// OptimizationSavings prices each recommended category, skipping unknowns.
func (c *Calculator) OptimizationSavings(u Usage, res *analyzer.Result, categories []string) []OptimizationSavings {
	var out []OptimizationSavings
	for _, cat := range categories {
		if s, ok := c.SavingsForCategory(cat, u, res); ok {
			out = append(out, s)
		}
	}
	return out
}

// coldDataSavings compares standard storage at the baseline factor against
// a cold tier kept at 1.5x. Moving the bytes once costs the network rate.
func (c *Calculator) coldDataSavings(cold []analyzer.ColdFile) OptimizationSavings {
	var gb float64
	for _, f := range cold {
		gb += f.SizeGB()
	}

	current := gb * c.costs.StandardPerGB * baselineReplication
	optimized := gb * c.costs.ColdPerGB * 1.5
	return finishSavings(OptimizationSavings{
		Category:           "cold_data",
		CurrentCost:        current,
		OptimizedCost:      optimized,
		AffectedDataGB:     gb,
		ImplementationCost: gb * c.costs.NetworkPerGB,
	})
}

// smallFileSavings models the NameNode pressure of small files as a 100x
// metadata surcharge and assumes consolidation cuts the file count by 90%.
// Storage itself is unchanged, only the metadata side moves.
func (c *Calculator) smallFileSavings(small []analyzer.SmallFile) OptimizationSavings {
	count := len(small)
	var gb float64
	for _, f := range small {
		gb += f.SizeGB()
	}

	storage := gb * c.costs.StandardPerGB * baselineReplication
	currentMeta := float64(count) * c.costs.MetadataPerFile * 100
	optimizedMeta := float64(count) * 0.1 * c.costs.MetadataPerFile * 100
	return finishSavings(OptimizationSavings{
		Category:           "small_files",
		CurrentCost:        currentMeta + storage,
		OptimizedCost:      optimizedMeta + storage,
		AffectedDataGB:     gb,
		ImplementationCost: float64(count) * 0.0001,
	})
}

// replicationSavings prices the affected bytes at an assumed 4x average
// against the 3x target. The flat assumption smooths out mixed factors.
func (c *Calculator) replicationSavings(over []analyzer.OverReplicatedFile) OptimizationSavings {
	var gb float64
	for _, f := range over {
		gb += f.SizeGB()
	}

	current := gb * c.costs.StandardPerGB * 4
	optimized := gb * c.costs.StandardPerGB * 3
	return finishSavings(OptimizationSavings{
		Category:       "replication",
		CurrentCost:    current,
		OptimizedCost:  optimized,
		AffectedDataGB: gb,
	})
}

// cleanupSavings prices orphaned files at full storage plus metadata.
// Deletion recovers all of it.
func (c *Calculator) cleanupSavings(orphaned []analyzer.OrphanedFile) OptimizationSavings {
	var gb float64
	for _, f := range orphaned {
		gb += f.SizeGB()
	}

	current := gb*c.costs.StandardPerGB*baselineReplication + float64(len(orphaned))*c.costs.MetadataPerFile
	return OptimizationSavings{
		Category:       "cleanup",
		CurrentCost:    current,
		OptimizedCost:  0,
		Savings:        current,
		SavingsPercent: 100.0,
		AffectedDataGB: gb,
		AnnualSavings:  current * 12,
	}
}

// compressionSavings assumes a 30% ratio over the whole footprint and a
// one-time CPU cost per GB.
func (c *Calculator) compressionSavings(u Usage) OptimizationSavings {
	current := u.TotalSizeGB * c.costs.StandardPerGB * baselineReplication
	optimized := u.TotalSizeGB * 0.7 * c.costs.StandardPerGB * baselineReplication
	return finishSavings(OptimizationSavings{
		Category:           "compression",
		CurrentCost:        current,
		OptimizedCost:      optimized,
		AffectedDataGB:     u.TotalSizeGB,
		ImplementationCost: u.TotalSizeGB * 0.002,
	})
}

func finishSavings(s OptimizationSavings) OptimizationSavings {
	s.Savings = s.CurrentCost - s.OptimizedCost
	if s.CurrentCost > 0 {
		s.SavingsPercent = s.Savings / s.CurrentCost * 100
	}
	s.AnnualSavings = s.Savings * 12
	return s
}

// BuildReport combines current costs with per-category savings into the
// report surfaced by optimize runs.
func (c *Calculator) BuildReport(u Usage, res *analyzer.Result, categories []string) Report {
	current := c.CurrentCosts(u, res.Efficiency.SmallFilesCount)
	savings := c.OptimizationSavings(u, res, categories)

	var totalSavings, totalImpl, totalAnnual float64
	breakdown := make([]BreakdownEntry, 0, len(savings))
	for _, s := range savings {
		totalSavings += s.Savings
		totalImpl += s.ImplementationCost
		totalAnnual += s.AnnualSavings

		payback := math.Inf(1)
		if s.Savings > 0 {
			payback = s.ImplementationCost / s.Savings
		}
		breakdown = append(breakdown, BreakdownEntry{
			Category:           s.Category,
			MonthlySavings:     s.Savings,
			AnnualSavings:      s.AnnualSavings,
			SavingsPercent:     s.SavingsPercent,
			AffectedDataGB:     s.AffectedDataGB,
			ImplementationCost: s.ImplementationCost,
			PaybackMonths:      Months(payback),
		})
	}

	summary := ReportSummary{
		TotalMonthlySavings:     totalSavings,
		TotalAnnualSavings:      totalAnnual,
		TotalImplementationCost: totalImpl,
		ROIPercent:              Percent(math.Inf(1)),
		PaybackMonths:           Months(math.Inf(1)),
		OptimizedMonthlyCost:    current.TotalMonthlyCost - totalSavings,
	}
	if totalImpl > 0 {
		summary.ROIPercent = Percent(totalAnnual / totalImpl * 100)
	}
	if totalSavings > 0 {
		summary.PaybackMonths = Months(totalImpl / totalSavings)
	}
	if current.TotalMonthlyCost > 0 {
		summary.CostReductionPercent = totalSavings / current.TotalMonthlyCost * 100
	}

	return Report{
		CurrentCosts:          current,
		OptimizationBreakdown: breakdown,
		Summary:               summary,
	}
}

// GrowthForecast projects the bill three years out under compound growth.
func (c *Calculator) GrowthForecast(u Usage, smallFileCount int, growthRatePercent float64) GrowthForecast {
	current := c.CurrentCosts(u, smallFileCount)

	out := GrowthForecast{
		CurrentSizeGB:     u.TotalSizeGB,
		GrowthRatePercent: growthRatePercent,
	}
	for year := 1; year <= 3; year++ {
		size := u.TotalSizeGB * math.Pow(1+growthRatePercent/100, float64(year))
		monthly := 0.0
		if u.TotalSizeGB > 0 {
			monthly = size / u.TotalSizeGB * current.TotalMonthlyCost
		}
		out.Projections = append(out.Projections, YearProjection{
			Year:                 year,
			ProjectedSizeGB:      size,
			ProjectedMonthlyCost: monthly,
			ProjectedAnnualCost:  monthly * 12,
		})
		out.ThreeYearTotalCost += monthly * 12
	}
	return out
}
