package advisor

import (
	"fmt"

	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
)

// Findings condenses a scan result into the numbers the model needs.
type Findings struct {
	TotalFiles     int
	TotalSizeGB    float64
	ColdCount      int
	ColdSizeGB     float64
	DuplicateCount int
	SmallCount     int
	SmallSizeGB    float64
	OrphanedCount  int
	OrphanedSizeGB float64
}

// SummarizeFindings extracts prompt and fallback inputs from res.
func SummarizeFindings(res *analyzer.Result) Findings {
	f := Findings{
		TotalFiles:     res.Efficiency.TotalFiles,
		TotalSizeGB:    res.Waste.TotalSizeGB,
		ColdCount:      len(res.Cold),
		DuplicateCount: len(res.Duplicates),
		SmallCount:     res.Efficiency.SmallFilesCount,
		OrphanedCount:  len(res.Orphaned),
	}
	for _, file := range res.Cold {
		f.ColdSizeGB += file.SizeGB()
	}
	for _, file := range res.Efficiency.SmallFiles {
		f.SmallSizeGB += file.SizeGB()
	}
	for _, file := range res.Orphaned {
		f.OrphanedSizeGB += file.SizeGB()
	}
	return f
}

// BuildPrompt renders the analysis request. The JSON block doubles as the
// response schema ParseAnalysis expects, so the two must move together.
func BuildPrompt(f Findings) string {
	return fmt.Sprintf(`You are an expert HDFS cost optimization analyst. Analyze the following HDFS scan data and provide detailed cost optimization recommendations.

HDFS Scan Results:
- Total files: %d
- Total size: %.2f GB
- Cold data files: %d (%.2f GB)
- Duplicate candidates: %d
- Small files: %d (%.2f GB)
- Orphaned temp files: %d

Current Storage Patterns:
- Small files causing metadata overhead: %d files
- Over-replicated data consuming extra storage
- Cold data on expensive storage tiers: %.2f GB
- Orphaned temporary files wasting space: %d files

Provide analysis in the following JSON format:
{
  "analysis_summary": "High-level analysis of optimization opportunities",
  "recommendations": [
    {
      "title": "Optimization recommendation title",
      "description": "Detailed description of the optimization",
      "category": "cold_data|small_files|replication|cleanup",
      "impact": "high|medium|low",
      "estimated_savings_percent": 30,
      "estimated_savings_gb": 150.5,
      "implementation_complexity": "low|medium|high",
      "timeline": "immediate|1-2 weeks|1 month",
      "steps": ["Step 1", "Step 2", "Step 3"]
    }
  ],
  "cost_calculations": {
    "current_monthly_cost": 1500,
    "optimized_monthly_cost": 900,
    "monthly_savings": 600,
    "annual_savings": 7200
  },
  "risk_assessment": {
    "data_loss_risk": "low|medium|high",
    "performance_impact": "positive|neutral|negative",
    "downtime_required": "none|minimal|significant"
  },
  "monitoring_recommendations": ["Metric 1", "Metric 2"],
  "confidence_score": 0.85
}

Focus on practical, actionable recommendations with quantified cost savings.`,
		f.TotalFiles,
		f.TotalSizeGB,
		f.ColdCount, f.ColdSizeGB,
		f.DuplicateCount,
		f.SmallCount, f.SmallSizeGB,
		f.OrphanedCount,
		f.SmallCount,
		f.ColdSizeGB,
		f.OrphanedCount,
	)
}
