package tui

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
)

func (m Picker) viewList() string {
	s := strings.Builder{}

	// Header
	headerTxt := fmt.Sprintf("        %-7s %-26s | %-12s | %-10s | %s", "EFFORT", "OPTIMIZATION", "SAVINGS/MO", "DATA", "TARGETS")
	s.WriteString(dimStyle.Render(headerTxt) + "\n")
	s.WriteString(dimStyle.Render("        "+strings.Repeat("─", 70)) + "\n")

	// Pagination / Windowing
	start, end := m.calculateWindow(len(m.plan.Optimizations))

	for i := start; i < end; i++ {
		opt := m.plan.Optimizations[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		checked := "[ ]"
		if m.selected[i] {
			checked = "[x]"
		}

		dispTitle := categoryLabel(opt.Category)
		if len(dispTitle) > 26 {
			dispTitle = dispTitle[:23] + "..."
		}

		dispSavings := fmt.Sprintf("$%.2f", opt.EstimatedMonthlySavings)
		dispData := fmt.Sprintf("%.1f GB", opt.AffectedDataGB)

		line := fmt.Sprintf("%s%s %-7s %-26s | %-12s | %-10s | %s",
			cursor, checked, complexityIcon(opt.ImplementationComplexity),
			dispTitle, dispSavings, dispData, targetSummary(opt))

		if i == m.cursor {
			s.WriteString(listSelectedStyle.Render(line) + "\n")
		} else if m.selected[i] {
			s.WriteString(listNormalStyle.Render(line) + "\n")
		} else {
			s.WriteString(dimStyle.Strikethrough(true).Render(line) + "\n")
		}
	}

	return s.String()
}

func (m Picker) calculateWindow(total int) (int, int) {
	windowSize := m.height - 10 // approx header + HUD + footer
	if windowSize < 5 {
		windowSize = 5
	}

	start := m.cursor - (windowSize / 2)
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// categoryLabel turns a plan category into its display form, e.g.
// "cold_data" becomes "COLD DATA".
func categoryLabel(category string) string {
	return strings.ToUpper(strings.ReplaceAll(category, "_", " "))
}

// targetSummary counts what the optimization touches. Consolidation
// work is grouped by directory, everything else is per file.
func targetSummary(opt plan.Optimization) string {
	if len(opt.Directories) > 0 {
		files := 0
		for _, d := range opt.Directories {
			files += d.FileCount
		}
		return fmt.Sprintf("%d dirs / %d files", len(opt.Directories), files)
	}
	return fmt.Sprintf("%d files", len(opt.Files))
}
