package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/hdfslash/pkg/engine/swarm"
	"github.com/DrSkyle/hdfslash/pkg/scan"
)

type tickMsg time.Time

type scanDoneMsg struct {
	report *scan.Report
	err    error
}

// ScanDone wraps a finished scan so the driving goroutine can hand the
// result to a running Progress program via Send.
func ScanDone(rep *scan.Report, err error) tea.Msg {
	return scanDoneMsg{report: rep, err: err}
}

// Progress shows a live scan: spinner, listing counter and worker pool
// state polled from the swarm every half second.
type Progress struct {
	spinner spinner.Model
	pool    *swarm.Engine

	scanning bool
	aborted  bool
	err      error
	report   *scan.Report

	tasksDone     int
	activeWorkers int
	concurrency   int
	tickCount     int
}

// NewProgress builds the progress model over the pool the scan runs on.
func NewProgress(pool *swarm.Engine) Progress {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = special

	return Progress{
		spinner:  s,
		pool:     pool,
		scanning: true,
	}
}

func (m Progress) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		}),
	)
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		stats := m.pool.GetStats()
		m.tasksDone = int(stats.TasksCompleted)
		m.activeWorkers = stats.ActiveWorkers
		m.concurrency = stats.Concurrency
		m.tickCount++

		return m, tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case scanDoneMsg:
		m.scanning = false
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Progress) View() string {
	if m.aborted {
		return dimStyle.Render(" Aborting scan...") + "\n"
	}
	if !m.scanning {
		return ""
	}

	dots := strings.Repeat(".", m.tickCount%4)
	head := fmt.Sprintf(" %s Scanning HDFS namespace%s", m.spinner.View(), dots)
	stats := fmt.Sprintf("   listings done: %d   workers: %d/%d",
		m.tasksDone, m.activeWorkers, m.concurrency)

	return "\n" + head + "\n" + subtle.Render(stats) + "\n\n " + helpStyle("q: abort scan") + "\n"
}

// Report returns the finished scan's report and error. Both are nil
// until a scanDoneMsg arrives.
func (m Progress) Report() (*scan.Report, error) {
	return m.report, m.err
}

// Aborted reports whether the operator cancelled the scan from the UI.
func (m Progress) Aborted() bool {
	return m.aborted
}
