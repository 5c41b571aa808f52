// Package report renders scan results for the presentation layer: a colored
// console view and a machine-readable JSON view. It owns formatting only;
// the data shape comes from the probe package untouched.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/osintkit/handlescan/internal/probe"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF")).Bold(true)
	foundStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D26A")).Bold(true)
	notFoundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3838"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB800"))
	scoreStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// Research etiquette reminders shown under each report, rotated per handle.
var tips = []string{
	"With great power comes great responsibility.",
	"Always cross-check usernames across multiple platforms.",
	"Even if a username is taken, try variations with numbers or underscores.",
	"Combine automated checks with manual research for best results.",
	"Be aware of privacy and legal considerations while researching.",
}

// Writer renders reports to a single output stream.
type Writer struct {
	out io.Writer
}

// NewWriter builds a Writer targeting out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteReports renders the colored console view, one block per handle.
func (w *Writer) WriteReports(reports []probe.Report) error {
	for i, report := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w.out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		if err := w.writeReport(report, tips[i%len(tips)]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeReport(report probe.Report, tip string) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Results for %s", report.Handle)))
	b.WriteString("\n")

	width := 0
	for _, res := range report.Results {
		if len(res.Site) > width {
			width = len(res.Site)
		}
	}
	for _, res := range report.Results {
		b.WriteString(formatResult(res, width))
		b.WriteString("\n")
	}

	b.WriteString(scoreStyle.Render(fmt.Sprintf("Presence score: %.2f%%", report.PresenceScore)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Tip: " + tip))
	b.WriteString("\n")

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func formatResult(res probe.Result, width int) string {
	site := fmt.Sprintf("%-*s", width, res.Site)
	switch res.Outcome {
	case probe.OutcomeFound:
		return fmt.Sprintf("  %s %s  %s", foundStyle.Render("[found]    "), site, res.Locator)
	case probe.OutcomeError:
		return fmt.Sprintf("  %s %s", errorStyle.Render("[error]    "), site)
	default:
		return fmt.Sprintf("  %s %s", notFoundStyle.Render("[not found]"), site)
	}
}

// WriteJSON renders the reports as an indented JSON array.
func (w *Writer) WriteJSON(reports []probe.Report) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return nil
}
