// Package costs prices cluster usage and optimization outcomes in
// $/GB-month terms.
package costs

import (
	"encoding/json"
	"math"
)

// StorageCosts holds the unit rates the calculator prices against. The
// defaults approximate on-prem HDFS economics; Calibrate can overwrite
// them from live cloud pricing.
type StorageCosts struct {
	StandardPerGB         float64 `json:"standard_storage_cost_per_gb" mapstructure:"standard_storage_cost_per_gb"`
	ColdPerGB             float64 `json:"cold_storage_cost_per_gb" mapstructure:"cold_storage_cost_per_gb"`
	ArchivePerGB          float64 `json:"archive_storage_cost_per_gb" mapstructure:"archive_storage_cost_per_gb"`
	ReplicationMultiplier float64 `json:"replication_multiplier" mapstructure:"replication_multiplier"`
	MetadataPerFile       float64 `json:"metadata_cost_per_file" mapstructure:"metadata_cost_per_file"`
	NetworkPerGB          float64 `json:"network_cost_per_gb" mapstructure:"network_cost_per_gb"`
}

// DefaultStorageCosts returns the built-in rate card.
func DefaultStorageCosts() StorageCosts {
	return StorageCosts{
		StandardPerGB:         0.04,
		ColdPerGB:             0.01,
		ArchivePerGB:          0.005,
		ReplicationMultiplier: 1.0,
		MetadataPerFile:       0.0001,
		NetworkPerGB:          0.01,
	}
}

// DefaultGrowthRatePercent is the annual growth assumption forecasts use
// when the caller has no measured rate.
const DefaultGrowthRatePercent = 20

// Months is a duration in months. Infinite values (no payback) marshal
// as null so persisted reports stay valid JSON.
type Months float64

func (m Months) MarshalJSON() ([]byte, error) {
	return marshalFinite(float64(m))
}

// Percent is a ratio in percent with the same null-for-infinity encoding.
type Percent float64

func (p Percent) MarshalJSON() ([]byte, error) {
	return marshalFinite(float64(p))
}

func marshalFinite(v float64) ([]byte, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Usage is the cluster footprint the calculator prices.
type Usage struct {
	TotalFiles  int     `json:"total_files"`
	TotalSizeGB float64 `json:"total_size_gb"`
}

// CurrentCosts breaks the monthly bill into its components.
type CurrentCosts struct {
	StorageCost       float64 `json:"storage_cost"`
	MetadataCost      float64 `json:"metadata_cost"`
	SmallFileOverhead float64 `json:"small_file_overhead"`
	NetworkCost       float64 `json:"network_cost"`
	TotalMonthlyCost  float64 `json:"total_monthly_cost"`
	TotalAnnualCost   float64 `json:"total_annual_cost"`
	CostPerGB         float64 `json:"cost_per_gb"`
}

// OptimizationSavings prices one optimization category.
type OptimizationSavings struct {
	Category           string  `json:"category"`
	CurrentCost        float64 `json:"current_cost"`
	OptimizedCost      float64 `json:"optimized_cost"`
	Savings            float64 `json:"savings"`
	SavingsPercent     float64 `json:"savings_percent"`
	AffectedDataGB     float64 `json:"affected_data_gb"`
	ImplementationCost float64 `json:"implementation_cost"`
	AnnualSavings      float64 `json:"annual_savings"`
}

// BreakdownEntry is one category line of the cost report.
type BreakdownEntry struct {
	Category           string  `json:"category"`
	MonthlySavings     float64 `json:"monthly_savings"`
	AnnualSavings      float64 `json:"annual_savings"`
	SavingsPercent     float64 `json:"savings_percent"`
	AffectedDataGB     float64 `json:"affected_data_gb"`
	ImplementationCost float64 `json:"implementation_cost"`
	PaybackMonths      Months  `json:"payback_months"`
}

// ReportSummary rolls the breakdown into headline numbers.
type ReportSummary struct {
	TotalMonthlySavings     float64 `json:"total_monthly_savings"`
	TotalAnnualSavings      float64 `json:"total_annual_savings"`
	TotalImplementationCost float64 `json:"total_implementation_cost"`
	ROIPercent              Percent `json:"roi_percent"`
	PaybackMonths           Months  `json:"payback_months"`
	OptimizedMonthlyCost    float64 `json:"optimized_monthly_cost"`
	CostReductionPercent    float64 `json:"cost_reduction_percent"`
}

// Report is the full cost optimization report.
type Report struct {
	CurrentCosts          CurrentCosts     `json:"current_costs"`
	OptimizationBreakdown []BreakdownEntry `json:"optimization_breakdown"`
	Summary               ReportSummary    `json:"summary"`
}

// YearProjection is one year of the growth forecast.
type YearProjection struct {
	Year                 int     `json:"year"`
	ProjectedSizeGB      float64 `json:"projected_size_gb"`
	ProjectedMonthlyCost float64 `json:"projected_monthly_cost"`
	ProjectedAnnualCost  float64 `json:"projected_annual_cost"`
}

// GrowthForecast projects storage spend under compound growth.
type GrowthForecast struct {
	CurrentSizeGB      float64          `json:"current_size_gb"`
	GrowthRatePercent  float64          `json:"growth_rate_percent"`
	Projections        []YearProjection `json:"projections"`
	ThreeYearTotalCost float64          `json:"three_year_total_cost"`
}
