// Package optimize defines the persisted envelope of one optimization
// run: advisor output, plan, savings and cost report under a single ID.
// The engine fills it, the store round-trips it.
package optimize

import (
	"math"
	"sort"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/advisor"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunSummary is the roll-up block of a completed run.
type RunSummary struct {
	TotalMonthlySavings     float64      `json:"total_monthly_savings"`
	TotalAnnualSavings      float64      `json:"total_annual_savings"`
	TotalImplementationCost float64      `json:"total_implementation_cost"`
	ROIMonths               costs.Months `json:"roi_months"`
	AffectedDataGB          float64      `json:"affected_data_gb"`
	Categories              []string     `json:"optimization_categories"`
}

// NewRunSummary rolls the per-category savings into totals. ROI is
// implementation cost over monthly savings, +Inf when nothing is saved
// so it marshals as null. Categories come back deduplicated and sorted.
func NewRunSummary(savings []costs.OptimizationSavings) RunSummary {
	var s RunSummary
	seen := make(map[string]bool)
	for _, sv := range savings {
		s.TotalMonthlySavings += sv.Savings
		s.TotalAnnualSavings += sv.AnnualSavings
		s.TotalImplementationCost += sv.ImplementationCost
		s.AffectedDataGB += sv.AffectedDataGB
		if !seen[sv.Category] {
			seen[sv.Category] = true
			s.Categories = append(s.Categories, sv.Category)
		}
	}
	sort.Strings(s.Categories)

	if s.TotalMonthlySavings <= 0 {
		s.ROIMonths = costs.Months(math.Inf(1))
	} else {
		s.ROIMonths = costs.Months(s.TotalImplementationCost / s.TotalMonthlySavings)
	}
	return s
}

// Optimization is the persisted envelope of one run. Failed runs carry
// only the identity block and the error, so the analysis fields are
// pointers that stay off the wire when empty.
type Optimization struct {
	OptimizationID string    `json:"optimization_id"`
	ScanID         string    `json:"scan_id"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	LLMAnalysis  *advisor.Analysis           `json:"llm_analysis,omitempty"`
	CurrentCosts *costs.CurrentCosts         `json:"current_costs,omitempty"`
	Plan         *plan.Plan                  `json:"optimization_plan,omitempty"`
	Savings      []costs.OptimizationSavings `json:"optimization_savings,omitempty"`
	CostReport   *costs.Report               `json:"cost_report,omitempty"`
	Summary      *RunSummary                 `json:"summary,omitempty"`
}

// ListEntry is the listing projection of an envelope. Failed runs list
// with zero savings.
type ListEntry struct {
	OptimizationID      string    `json:"optimization_id"`
	ScanID              string    `json:"scan_id"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	TotalMonthlySavings float64   `json:"total_monthly_savings"`
	TotalAnnualSavings  float64   `json:"total_annual_savings"`
	AffectedDataGB      float64   `json:"affected_data_gb"`
}

func (o *Optimization) ToListEntry() ListEntry {
	e := ListEntry{
		OptimizationID: o.OptimizationID,
		ScanID:         o.ScanID,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
	}
	if o.Summary != nil {
		e.TotalMonthlySavings = o.Summary.TotalMonthlySavings
		e.TotalAnnualSavings = o.Summary.TotalAnnualSavings
		e.AffectedDataGB = o.Summary.AffectedDataGB
	}
	return e
}

// ImplementationPlan condenses the plan for the summary projection.
type ImplementationPlan struct {
	TotalActions  int      `json:"total_actions"`
	EstimatedTime string   `json:"estimated_time"`
	Categories    []string `json:"categories"`
}

// Summary is the condensed view of a run.
type Summary struct {
	OptimizationID string              `json:"optimization_id"`
	ScanID         string              `json:"scan_id"`
	Status         string              `json:"status"`
	Error          string              `json:"error,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Summary        *RunSummary         `json:"summary,omitempty"`
	CostReport     *costs.Report       `json:"cost_report,omitempty"`
	Implementation *ImplementationPlan `json:"implementation_plan,omitempty"`
}

func (o *Optimization) ToSummary() Summary {
	s := Summary{
		OptimizationID: o.OptimizationID,
		ScanID:         o.ScanID,
		Status:         o.Status,
		Error:          o.Error,
		CreatedAt:      o.CreatedAt,
		Summary:        o.Summary,
		CostReport:     o.CostReport,
	}
	if o.Plan != nil {
		impl := &ImplementationPlan{
			TotalActions:  len(o.Plan.Optimizations),
			EstimatedTime: o.Plan.EstimatedImplementationTime,
		}
		if impl.EstimatedTime == "" {
			impl.EstimatedTime = "Unknown"
		}
		if o.Summary != nil {
			impl.Categories = o.Summary.Categories
		}
		s.Implementation = impl
	}
	return s
}
