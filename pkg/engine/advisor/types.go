// Package advisor turns scan findings into optimization recommendations,
// either through a Gemini analysis pass or a deterministic fallback.
package advisor

// Recommendation is one suggested optimization. Category drives the plan
// builder dispatch, so it must be one of cold_data, small_files,
// replication, or cleanup for a concrete action list; anything else falls
// through to a generic plan entry.
type Recommendation struct {
	Title                    string   `json:"title"`
	Description              string   `json:"description"`
	Category                 string   `json:"category"`
	Impact                   string   `json:"impact"`
	EstimatedSavingsPercent  float64  `json:"estimated_savings_percent"`
	EstimatedSavingsGB       float64  `json:"estimated_savings_gb"`
	ImplementationComplexity string   `json:"implementation_complexity"`
	Timeline                 string   `json:"timeline"`
	Steps                    []string `json:"steps"`
}

// CostCalculations is the model's own cost arithmetic, kept separate from
// the calculator's numbers so the two can be compared.
type CostCalculations struct {
	CurrentMonthlyCost   float64 `json:"current_monthly_cost"`
	OptimizedMonthlyCost float64 `json:"optimized_monthly_cost"`
	MonthlySavings       float64 `json:"monthly_savings"`
	AnnualSavings        float64 `json:"annual_savings"`
}

// RiskAssessment qualifies the recommendations.
type RiskAssessment struct {
	DataLossRisk      string `json:"data_loss_risk"`
	PerformanceImpact string `json:"performance_impact"`
	DowntimeRequired  string `json:"downtime_required"`
}

// Analysis is the full advisory output. Source records whether it came
// from the model or the fallback path.
type Analysis struct {
	AnalysisSummary           string           `json:"analysis_summary"`
	Recommendations           []Recommendation `json:"recommendations"`
	CostCalculations          CostCalculations `json:"cost_calculations"`
	RiskAssessment            RiskAssessment   `json:"risk_assessment"`
	MonitoringRecommendations []string         `json:"monitoring_recommendations"`
	ConfidenceScore           float64          `json:"confidence_score"`
	Source                    string           `json:"source,omitempty"`
}

// Categories understood by the recommendation consumers.
const (
	CategoryColdData    = "cold_data"
	CategorySmallFiles  = "small_files"
	CategoryReplication = "replication"
	CategoryCleanup     = "cleanup"
	CategoryCompression = "compression"
)
