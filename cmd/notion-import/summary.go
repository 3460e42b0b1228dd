package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toothbrush/notion-import/importer"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle     = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// renderSummary describes a finished run.  reportPath is where failures were written, if any.
func renderSummary(r *importer.Report, reportPath string) string {
	lines := []string{
		labelStyle.Render("Imported under ") + fmt.Sprintf("'%s'", r.Target.Title),
		okStyle.Render(fmt.Sprintf("%d OK", r.Count(importer.StatusOK))) + ", " +
			skippedStyle.Render(fmt.Sprintf("%d skipped", r.Count(importer.StatusSkipped))) + ", " +
			failedStyle.Render(fmt.Sprintf("%d failed", r.Count(importer.StatusFailed))),
	}

	tables := 0
	for _, o := range r.Outcomes {
		if o.Status == importer.StatusOK {
			tables += o.Tables
		}
	}
	if tables > 0 {
		lines = append(lines, labelStyle.Render("Databases created: ")+fmt.Sprintf("%d", tables))
	}
	if len(r.Interrupted) > 0 {
		lines = append(lines, skippedStyle.Render(fmt.Sprintf("Interrupted, %d files not attempted", len(r.Interrupted))))
	}
	if reportPath != "" {
		lines = append(lines, labelStyle.Render("Errors written to ")+reportPath)
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
