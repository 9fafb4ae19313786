package output

import "github.com/charmbracelet/lipgloss"

// Color constants using the ANSI 256-color palette, shared by the
// pretty formatter.
const (
	// ColorPrimary is used for headers (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess is used for positive status indicators (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for warning messages (orange).
	ColorWarning = lipgloss.Color("214")

	// ColorDanger is used for errors and destructive hints (red).
	ColorDanger = lipgloss.Color("196")

	// ColorMuted is used for secondary text (gray).
	ColorMuted = lipgloss.Color("245")
)

var (
	// HeaderBox frames the scan metadata.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterBox frames the summary line.
	FooterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)

	// LabelStyle is used for field labels (e.g. "Roots:").
	LabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	// TableHeaderStyle is used for column headers.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// SizeStyle renders candidate sizes.
	SizeStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	// KindStyle renders rule kinds.
	KindStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	// PathStyle renders candidate paths.
	PathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// MutedStyle renders secondary text.
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// WarningStyle renders warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	// SuccessStyle renders success notices.
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	// DangerStyle renders failures.
	DangerStyle = lipgloss.NewStyle().Foreground(ColorDanger)
)

// padLeft left-pads s with spaces to the given width.
func padLeft(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}
