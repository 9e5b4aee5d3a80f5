// Package tui shows iteration progress as a live terminal view while the
// solver runs in the background.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/galsim/internal/scm"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ReportMsg delivers one finished iteration to the view.
type ReportMsg struct{ Report *scm.Report }

// DoneMsg ends the program; Err is non-nil if the run aborted.
type DoneMsg struct{ Err error }

type model struct {
	total   int
	reports []*scm.Report
	err     error
	done    bool
}

// NewProgram builds the live view. The caller runs it, sends ReportMsg per
// finished iteration from the solver goroutine, and a final DoneMsg.
func NewProgram(totalIterations int) *tea.Program {
	return tea.NewProgram(model{total: totalIterations})
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case ReportMsg:
		m.reports = append(m.reports, msg.Report)
	case DoneMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("galsim: self-consistent modelling"))
	sb.WriteString(fmt.Sprintf("  %d/%d iterations\n\n", len(m.reports), m.total))
	if len(m.reports) == 0 {
		sb.WriteString(dimStyle.Render("waiting for first iteration...") + "\n")
		return sb.String()
	}
	rep := m.reports[len(m.reports)-1]
	sb.WriteString(headStyle.Render(fmt.Sprintf("iteration %d", rep.Iteration)) + "\n")
	for _, cr := range rep.Components {
		sb.WriteString(fmt.Sprintf("  %-8s mass=%-12.6g", cr.Name, cr.Mass))
		for _, rd := range cr.RefDensities {
			sb.WriteString(fmt.Sprintf("  rho(%g,%g)=%.4g", rd.R, rd.Z, rd.Rho))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("  total mass=%.6g  Phi(0)=%.6g\n", rep.TotalMass, rep.Phi0))
	for _, w := range rep.Warnings {
		sb.WriteString(warnStyle.Render("  warning: "+w.String()) + "\n")
	}
	if m.err != nil {
		sb.WriteString(warnStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if !m.done {
		sb.WriteString(dimStyle.Render("\npress q to detach\n"))
	}
	return sb.String()
}
