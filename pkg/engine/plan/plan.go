// Package plan expands advisor recommendations into concrete optimization
// actions against the files a scan actually found.
package plan

import "time"

// FileAction is one file touched by an optimization. It is the union of
// the per-category shapes; fields a category does not use are omitted.
type FileAction struct {
	Path                 string  `json:"path"`
	Size                 int64   `json:"size"`
	SizeGB               float64 `json:"size_gb"`
	DaysSinceAccess      float64 `json:"days_since_access,omitempty"`
	CurrentStoragePolicy string  `json:"current_storage_policy,omitempty"`
	CurrentReplication   int     `json:"current_replication,omitempty"`
	SuggestedReplication int     `json:"suggested_replication,omitempty"`
	Type                 string  `json:"type,omitempty"`
	AgeDays              float64 `json:"age_days,omitempty"`
	CleanupPriority      string  `json:"cleanup_priority,omitempty"`
}

// ConsolidationTarget is one directory selected for small-file merging.
type ConsolidationTarget struct {
	Path        string       `json:"path"`
	SmallFiles  []FileAction `json:"small_files"`
	FileCount   int          `json:"file_count"`
	TotalSizeGB float64      `json:"total_size_gb"`
}

// Optimization is one executable block of the plan.
type Optimization struct {
	Category                 string                `json:"category"`
	Title                    string                `json:"title"`
	Description              string                `json:"description"`
	Files                    []FileAction          `json:"files,omitempty"`
	Directories              []ConsolidationTarget `json:"directories,omitempty"`
	EstimatedMonthlySavings  float64               `json:"estimated_monthly_savings"`
	AffectedDataGB           float64               `json:"affected_data_gb"`
	ImplementationComplexity string                `json:"implementation_complexity"`
	Timeline                 string                `json:"timeline"`
	Steps                    []string              `json:"steps,omitempty"`
}

// Plan is the persisted optimization plan. Scripts are rendered from it,
// so it must round-trip through the store unchanged.
type Plan struct {
	PlanID                      string         `json:"plan_id"`
	Optimizations               []Optimization `json:"optimizations"`
	TotalMonthlySavings         float64        `json:"total_monthly_savings"`
	TotalAnnualSavings          float64        `json:"total_annual_savings"`
	AffectedDataGB              float64        `json:"affected_data_gb"`
	CreatedAt                   time.Time      `json:"created_at"`
	EstimatedImplementationTime string         `json:"estimated_implementation_time"`
}

// ByCategory returns the first optimization with the given category.
func (p *Plan) ByCategory(category string) (Optimization, bool) {
	for _, opt := range p.Optimizations {
		if opt.Category == category {
			return opt, true
		}
	}
	return Optimization{}, false
}

// Filter returns a copy holding only the optimizations keep selects.
// Totals and the implementation estimate are recomputed from the kept
// set; the plan identity is unchanged.
func (p *Plan) Filter(keep func(int, Optimization) bool) *Plan {
	out := &Plan{
		PlanID:    p.PlanID,
		CreatedAt: p.CreatedAt,
	}
	for i, opt := range p.Optimizations {
		if keep(i, opt) {
			out.Optimizations = append(out.Optimizations, opt)
		}
	}
	for _, opt := range out.Optimizations {
		out.TotalMonthlySavings += opt.EstimatedMonthlySavings
		out.AffectedDataGB += opt.AffectedDataGB
	}
	out.TotalAnnualSavings = out.TotalMonthlySavings * 12
	out.EstimatedImplementationTime = estimateImplementationTime(out.Optimizations)
	return out
}
