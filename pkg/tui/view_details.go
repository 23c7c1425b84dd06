package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
)

func (m Picker) viewDetails() string {
	if m.cursor < 0 || m.cursor >= len(m.plan.Optimizations) {
		return "No Optimization Selected"
	}
	opt := m.plan.Optimizations[m.cursor]

	// Header Display: category and title.
	header := detailsHeaderStyle.Render(fmt.Sprintf("%s : %s", categoryLabel(opt.Category), opt.Title))

	// Financial block.
	savings := fmt.Sprintf("MONTHLY SAVINGS: $%.2f ($%.0f/yr)", opt.EstimatedMonthlySavings, opt.EstimatedMonthlySavings*12)
	data := fmt.Sprintf("AFFECTED DATA:   %.2f GB", opt.AffectedDataGB)
	effort := fmt.Sprintf("COMPLEXITY:      %s  (%s)", strings.ToUpper(opt.ImplementationComplexity), opt.Timeline)

	effortStyle := subtle
	switch opt.ImplementationComplexity {
	case "high":
		effortStyle = danger
	case "medium":
		effortStyle = lipgloss.NewStyle().Foreground(colorWarning)
	}

	intelBlock := lipgloss.JoinVertical(lipgloss.Left,
		special.Render(savings),
		dimStyle.Render(data),
		effortStyle.Render(effort),
	)

	// Execution steps.
	var steps []string
	for i, step := range opt.Steps {
		steps = append(steps, fmt.Sprintf(" %d. %s", i+1, step))
	}

	// Sample targets, capped so a hundred-file consolidation stays readable.
	samples := sampleTargets(opt, 5)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		intelBlock,
		"",
		dimStyle.Render(opt.Description),
		"",
		highlight.Render("STEPS:"),
		dimStyle.Render(strings.Join(steps, "\n")),
		"",
		highlight.Render("TARGETS:"),
		subtle.Render(strings.Join(samples, "\n")),
	)

	return detailsBoxStyle.Render(content)
}

func sampleTargets(opt plan.Optimization, max int) []string {
	var lines []string
	for _, d := range opt.Directories {
		if len(lines) >= max {
			break
		}
		lines = append(lines, fmt.Sprintf(" %s  (%d small files, %.2f GB)", d.Path, d.FileCount, d.TotalSizeGB))
	}
	for _, f := range opt.Files {
		if len(lines) >= max {
			break
		}
		lines = append(lines, fmt.Sprintf(" %s  (%.2f GB)", f.Path, f.SizeGB))
	}

	total := len(opt.Directories) + len(opt.Files)
	if total > max {
		lines = append(lines, fmt.Sprintf(" ... and %d more", total-max))
	}
	if len(lines) == 0 {
		lines = append(lines, " (no targets)")
	}
	return lines
}
