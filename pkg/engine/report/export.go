package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

// ExportItem is one finding row in the CSV/JSON exports. Rows are
// priced individually so auditors can sort a spreadsheet by recoverable
// spend without re-running the calculator.
type ExportItem struct {
	Path             string  `json:"path"`
	Category         string  `json:"category"`
	SizeGB           float64 `json:"size_gb"`
	AgeDays          float64 `json:"age_days"`
	Replication      int     `json:"replication"`
	MonthlyCost      float64 `json:"monthly_cost"`
	EstimatedSavings float64 `json:"estimated_savings"`
	Action           string  `json:"action"`
}

const baselineReplication = 3

// GenerateCSV writes the findings of a completed scan to a CSV file.
func GenerateCSV(rep *scan.Report, rates costs.StorageCosts, path string) error {
	if err := rep.Ready(); err != nil {
		return err
	}
	items := extractItems(rep, rates)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{
		"Path",
		"Category",
		"SizeGB",
		"AgeDays",
		"Replication",
		"MonthlyCost",
		"EstimatedSavings",
		"Action",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, item := range items {
		record := []string{
			item.Path,
			item.Category,
			fmt.Sprintf("%.4f", item.SizeGB),
			fmt.Sprintf("%.1f", item.AgeDays),
			fmt.Sprintf("%d", item.Replication),
			fmt.Sprintf("$%.4f", item.MonthlyCost),
			fmt.Sprintf("$%.4f", item.EstimatedSavings),
			item.Action,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// GenerateJSON writes the findings of a completed scan to a JSON file.
func GenerateJSON(rep *scan.Report, rates costs.StorageCosts, path string) error {
	if err := rep.Ready(); err != nil {
		return err
	}
	items := extractItems(rep, rates)

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// extractItems flattens every per-file finding into one sorted list.
// Row economics mirror the calculator's category models so export
// totals stay in the same ballpark as the cost report.
func extractItems(rep *scan.Report, rates costs.StorageCosts) []ExportItem {
	var items []ExportItem

	for _, f := range rep.ColdData {
		gb := f.SizeGB()
		current := gb * rates.StandardPerGB * baselineReplication
		items = append(items, ExportItem{
			Path:             f.Path,
			Category:         "cold_data",
			SizeGB:           gb,
			AgeDays:          f.DaysSinceAccess,
			Replication:      f.Replication,
			MonthlyCost:      current,
			EstimatedSavings: current - gb*rates.ColdPerGB*1.5,
			Action:           "MIGRATE",
		})
	}

	for _, f := range rep.DuplicateCandidates {
		gb := f.SizeGB()
		current := gb * rates.StandardPerGB * baselineReplication
		items = append(items, ExportItem{
			Path:             f.Path,
			Category:         "duplicates",
			SizeGB:           gb,
			Replication:      f.Replication,
			MonthlyCost:      current,
			EstimatedSavings: current,
			Action:           "REVIEW",
		})
	}

	// Consolidation keeps the bytes and drops 90% of the 100x NameNode
	// metadata surcharge. Per file that is a fixed amount.
	metaSurcharge := rates.MetadataPerFile * 100
	for _, f := range rep.SmallFiles {
		gb := f.SizeGB()
		items = append(items, ExportItem{
			Path:             f.Path,
			Category:         "small_files",
			SizeGB:           gb,
			Replication:      f.Replication,
			MonthlyCost:      gb*rates.StandardPerGB*baselineReplication + metaSurcharge,
			EstimatedSavings: metaSurcharge * 0.9,
			Action:           "CONSOLIDATE",
		})
	}

	for _, f := range rep.EmptyFiles {
		items = append(items, ExportItem{
			Path:             f.Path,
			Category:         "empty_files",
			Replication:      f.Replication,
			MonthlyCost:      rates.MetadataPerFile,
			EstimatedSavings: rates.MetadataPerFile,
			Action:           "DELETE",
		})
	}

	for _, f := range rep.OrphanedFiles {
		gb := f.SizeGB()
		current := gb*rates.StandardPerGB*baselineReplication + rates.MetadataPerFile
		action := "REVIEW"
		if f.CleanupPriority == "critical" || f.CleanupPriority == "high" {
			action = "DELETE"
		}
		items = append(items, ExportItem{
			Path:             f.Path,
			Category:         "cleanup",
			SizeGB:           gb,
			AgeDays:          f.AgeDays,
			Replication:      f.Replication,
			MonthlyCost:      current,
			EstimatedSavings: current,
			Action:           action,
		})
	}

	for _, f := range rep.OverReplicatedFiles {
		gb := f.SizeGB()
		items = append(items, ExportItem{
			Path:             f.Path,
			Category:         "replication",
			SizeGB:           gb,
			Replication:      f.CurrentReplication,
			MonthlyCost:      gb * rates.StandardPerGB * float64(f.CurrentReplication),
			EstimatedSavings: gb * rates.StandardPerGB * float64(f.CurrentReplication-f.SuggestedReplication),
			Action:           "SETREP",
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].EstimatedSavings != items[j].EstimatedSavings {
			return items[i].EstimatedSavings > items[j].EstimatedSavings
		}
		return items[i].Path < items[j].Path
	})

	return items
}
