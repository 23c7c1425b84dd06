// Package tui holds the interactive terminal surfaces: the optimization
// plan picker and the live scan progress display. Both are bubbletea
// models; the CLI decides when a TTY warrants them.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
)

// ErrReviewAborted reports that the operator abandoned the plan review
// without confirming. Nothing should be persisted for the run.
var ErrReviewAborted = errors.New("plan review aborted")

// Picker is the interactive plan review screen. Every optimization
// starts selected; the operator toggles the ones to drop, then confirms
// the trimmed plan before anything is written to the store.
type Picker struct {
	plan     *plan.Plan
	cursor   int
	selected map[int]bool

	confirmed   bool
	aborted     bool
	showDetails bool

	width  int
	height int
}

// NewPicker builds the review model with all optimizations selected.
func NewPicker(p *plan.Plan) Picker {
	sel := make(map[int]bool, len(p.Optimizations))
	for i := range p.Optimizations {
		sel[i] = true
	}
	return Picker{plan: p, selected: sel}
}

func (m Picker) Init() tea.Cmd {
	return nil
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.plan.Optimizations)-1 {
				m.cursor++
			}
		case " ", "x":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			for i := range m.plan.Optimizations {
				m.selected[i] = true
			}
		case "n":
			for i := range m.plan.Optimizations {
				m.selected[i] = false
			}
		case "d":
			m.showDetails = !m.showDetails
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Picker) View() string {
	if m.aborted || m.confirmed {
		return ""
	}
	if len(m.plan.Optimizations) == 0 {
		return "\n " + iconInfo.Render() + subtle.Render("  Nothing to review. The plan is empty.") + "\n\n " +
			helpStyle("q: close") + "\n"
	}

	body := titleStyle.Render("HDFSLASH PLAN REVIEW") + "\n" +
		subtle.Render(fmt.Sprintf(" plan %s", m.plan.PlanID)) + "\n\n" +
		m.viewList() + "\n" +
		m.viewHUD() + "\n"

	if m.showDetails {
		body += m.viewDetails() + "\n\n" + helpStyle("d: close details • enter: save plan • q: abandon")
	} else {
		body += "\n" + helpStyle("space: toggle • a: all • n: none • d: details • enter: save plan • q: abandon")
	}
	return body
}

// viewHUD renders the running tally for the kept selection.
func (m Picker) viewHUD() string {
	savings, kept := m.keptTotals()

	segKeep := hudLabelStyle.Render("KEEPING:") +
		hudValueStyle.Render(fmt.Sprintf("%d/%d", kept, len(m.plan.Optimizations)))
	segSave := hudLabelStyle.Render("SAVINGS:") +
		tickerStyle.Render(fmt.Sprintf("$%.2f/mo ($%.0f/yr)", savings, savings*12))

	return hudStyle.Render(segKeep + "  |  " + segSave)
}

// keptTotals sums the monthly savings over the selected optimizations.
func (m Picker) keptTotals() (float64, int) {
	var savings float64
	var kept int
	for i, opt := range m.plan.Optimizations {
		if m.selected[i] {
			savings += opt.EstimatedMonthlySavings
			kept++
		}
	}
	return savings, kept
}

// Result returns the reviewed plan with only the kept optimizations.
// ok is false when the session was abandoned.
func (m Picker) Result() (*plan.Plan, bool) {
	if !m.confirmed {
		return nil, false
	}
	return m.plan.Filter(func(i int, _ plan.Optimization) bool {
		return m.selected[i]
	}), true
}

// RunPicker opens the review screen and blocks until the operator
// confirms or abandons. The returned plan holds only the kept
// optimizations; an abandoned session returns ErrReviewAborted.
func RunPicker(p *plan.Plan) (*plan.Plan, error) {
	final, err := tea.NewProgram(NewPicker(p)).Run()
	if err != nil {
		return nil, fmt.Errorf("plan review: %w", err)
	}
	picker, ok := final.(Picker)
	if !ok {
		return nil, fmt.Errorf("plan review: unexpected model %T", final)
	}
	reviewed, ok := picker.Result()
	if !ok {
		return nil, ErrReviewAborted
	}
	return reviewed, nil
}
