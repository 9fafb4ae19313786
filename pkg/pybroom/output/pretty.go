package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// PrettyFormatter formats output with colors and styling using
// lipgloss. It is the default for interactive terminals when the TUI
// is disabled.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))

	if len(r.Scan.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Scan.Warnings))
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	rootsLabel := LabelStyle.Render("Roots:")
	rootsValue := ValueStyle.Render(strings.Join(r.Roots, ", "))
	lines = append(lines, fmt.Sprintf("%s %s", rootsLabel, rootsValue))

	var infoParts []string
	scannedLabel := LabelStyle.Render("Visited:")
	scannedValue := ValueStyle.Render(fmt.Sprintf("%d entries", r.Scan.EntriesVisited))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", scannedLabel, scannedValue))
	if r.Elapsed > 0 {
		infoParts = append(infoParts, LabelStyle.Render("Elapsed:")+" "+
			ValueStyle.Render(r.Elapsed.Round(1e6).String()))
	}
	lines = append(lines, strings.Join(infoParts, "  "))

	if r.Interrupted {
		lines = append(lines, WarningStyle.Bold(true).Render("Scan interrupted by user"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Candidates) == 0 {
		return MutedStyle.Render("  No Python residue found\n")
	}

	var sb strings.Builder

	kindHeader := TableHeaderStyle.Render(padRight("KIND", 8))
	sizeHeader := TableHeaderStyle.Render("SIZE")
	pathHeader := TableHeaderStyle.Render("PATH")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", kindHeader, sizeHeader, pathHeader))

	maxSizeWidth := 8
	for _, c := range r.Candidates {
		if n := len(types.FormatSize(c.Size)); n > maxSizeWidth {
			maxSizeWidth = n
		}
	}

	for _, c := range r.Candidates {
		kindStr := KindStyle.Render(padRight(string(c.Kind), 8))
		sizeStr := SizeStyle.Render(padLeft(types.FormatSize(c.Size), maxSizeWidth))
		pathStr := PathStyle.Render(c.Path)
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", kindStr, sizeStr, pathStr))
	}

	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	summary := fmt.Sprintf("%d items, %s (%.2f MB) reclaimable",
		r.Scan.Count, types.FormatSize(r.Scan.TotalSize), r.Scan.TotalSizeMB())

	if r.Clean != nil {
		cleaned := fmt.Sprintf("cleaned %d items, %s freed",
			r.Clean.ItemsRemoved, types.FormatSize(r.Clean.BytesFreed))
		if len(r.Clean.Failures) > 0 {
			cleaned += DangerStyle.Render(fmt.Sprintf(", %d failed", len(r.Clean.Failures)))
		}
		summary += "\n" + SuccessStyle.Render(cleaned)
	}

	return FooterBox.Render(summary)
}

func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder
	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  warning: " + warning))
		sb.WriteString("\n")
	}
	return sb.String()
}

// padRight right-pads s with spaces to the given width.
func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
