package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// ResultModel represents the review phase of the TUI. Candidates are
// listed in walk order with checkboxes; everything except virtual
// environments starts checked.
type ResultModel struct {
	candidates []types.Candidate
	cursor     int
	selected   map[int]bool
	offset     int // scroll offset
	width      int
	height     int
	warnings   []string
}

// NewResultModel creates a result model with the given candidates.
// Initial selection follows each candidate's preselection default.
func NewResultModel(candidates []types.Candidate, warnings []string) ResultModel {
	selected := make(map[int]bool)
	for i, c := range candidates {
		if c.Preselected {
			selected[i] = true
		}
	}

	return ResultModel{
		candidates: candidates,
		cursor:     0,
		selected:   selected,
		offset:     0,
		width:      80,
		height:     24,
		warnings:   warnings,
	}
}

// Init initializes the result model.
func (m ResultModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the result model.
func (m ResultModel) Update(msg tea.Msg) (ResultModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// HandleKey handles key input for the result model.
func (m *ResultModel) HandleKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case "down", "j":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case " ":
		m.Toggle(m.cursor)

	case "a":
		m.SelectAll()

	case "n":
		m.SelectNone()

	case "home", "g":
		m.cursor = 0
		m.offset = 0

	case "end", "G":
		if len(m.candidates) > 0 {
			m.cursor = len(m.candidates) - 1
			m.ensureVisible()
		}

	case "pgup":
		visibleRows := m.visibleRows()
		m.cursor -= visibleRows
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()

	case "pgdown":
		visibleRows := m.visibleRows()
		m.cursor += visibleRows
		if m.cursor >= len(m.candidates) {
			m.cursor = len(m.candidates) - 1
		}
		m.ensureVisible()
	}

	return nil
}

// View renders the result model.
func (m ResultModel) View() string {
	if len(m.candidates) == 0 {
		return m.renderEmpty()
	}

	var b strings.Builder

	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	// Header
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Help bar
	b.WriteString(m.renderHelpBar(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Candidate list
	b.WriteString(m.renderCandidateList(contentWidth))

	// Footer
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(contentWidth))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderEmpty renders the empty state view.
func (m ResultModel) renderEmpty() string {
	contentWidth := m.width - 4

	var b strings.Builder
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(mutedTextStyle.Render("No Python residue found. Clean as a whistle."), contentWidth))
	b.WriteString("\n\n")

	for _, w := range m.warnings {
		b.WriteString(center(warningTextStyle.Render(truncatePath(w, contentWidth-4)), contentWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center(keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), contentWidth))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderHeader renders the header.
func (m ResultModel) renderHeader(width int) string {
	title := fmt.Sprintf("  pybroom - %d candidates (Total: %s)",
		len(m.candidates), types.FormatSize(m.TotalSize()))

	return titleStyle.Render(title)
}

// renderHelpBar renders the help bar with key hints.
func (m ResultModel) renderHelpBar(width int) string {
	hints := []struct {
		key  string
		desc string
	}{
		{"Space", "Toggle"},
		{"a", "All"},
		{"n", "None"},
		{"Enter", "Clean"},
		{"L", "Logs"},
		{"q", "Quit"},
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, keyStyle.Render("["+h.key+"]")+" "+keyDescStyle.Render(h.desc))
	}

	return "  " + strings.Join(parts, "  ")
}

// renderCandidateList renders the scrollable candidate list.
func (m ResultModel) renderCandidateList(width int) string {
	var b strings.Builder

	visibleRows := m.visibleRows()
	pathWidth := width - 30 // checkbox + kind + size + padding

	for i := m.offset; i < m.offset+visibleRows && i < len(m.candidates); i++ {
		line := m.renderCandidateLine(m.candidates[i], m.selected[i], i == m.cursor, pathWidth)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Pad remaining rows
	rendered := m.offset + visibleRows
	if rendered > len(m.candidates) {
		rendered = len(m.candidates)
	}
	for lineCount := rendered - m.offset; lineCount < visibleRows; lineCount++ {
		b.WriteString("\n")
	}

	return b.String()
}

// renderCandidateLine renders a single candidate line.
func (m ResultModel) renderCandidateLine(c types.Candidate, isSelected, isCursor bool, pathWidth int) string {
	var checkbox string
	if isSelected {
		checkbox = checkedStyle.Render("[x]")
	} else {
		checkbox = uncheckedStyle.Render("[ ]")
	}

	ks := kindStyle
	if c.Kind == types.KindVenv {
		ks = venvKindStyle
	}
	kind := ks.Render(string(c.Kind))

	size := itemSizeStyle.Render(padLeft(types.FormatSize(c.Size), 9))

	path := truncatePath(c.Path, pathWidth)

	var cursor string
	if isCursor {
		cursor = cursorStyle.Render(">")
	} else {
		cursor = " "
	}

	line := fmt.Sprintf("  %s %s %s %s  %s", checkbox, kind, size, cursor, path)

	if isCursor {
		return selectedItemStyle.Width(pathWidth + 30).Render(line)
	}
	return normalItemStyle.Render(line)
}

// renderFooter renders the footer with selection summary.
func (m ResultModel) renderFooter(width int) string {
	left := fmt.Sprintf("  Selected: %d items (%s)", m.SelectedCount(), types.FormatSize(m.SelectedSize()))
	right := mutedTextStyle.Render("[↑↓] Navigate")

	if len(m.warnings) > 0 {
		left += warningTextStyle.Render(fmt.Sprintf("  %d warnings", len(m.warnings)))
	}

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

// visibleRows returns the number of visible rows for the candidate list.
func (m ResultModel) visibleRows() int {
	// Account for header, help, dividers, footer
	available := m.height - 10
	if available < 5 {
		available = 5
	}
	return available
}

// ensureVisible adjusts offset to keep cursor visible.
func (m *ResultModel) ensureVisible() {
	visibleRows := m.visibleRows()

	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}

	if m.offset < 0 {
		m.offset = 0
	}
}

// Toggle toggles selection of the candidate at the given index.
func (m *ResultModel) Toggle(index int) {
	if index < 0 || index >= len(m.candidates) {
		return
	}
	if m.selected[index] {
		delete(m.selected, index)
	} else {
		m.selected[index] = true
	}
}

// SelectAll selects all candidates, virtual environments included.
func (m *ResultModel) SelectAll() {
	for i := range m.candidates {
		m.selected[i] = true
	}
}

// SelectNone deselects all candidates.
func (m *ResultModel) SelectNone() {
	m.selected = make(map[int]bool)
}

// SelectedItems returns the selected candidates in walk order.
func (m ResultModel) SelectedItems() []types.Candidate {
	var result []types.Candidate
	for i, c := range m.candidates {
		if m.selected[i] {
			result = append(result, c)
		}
	}
	return result
}

// SelectedSize returns the total size of selected candidates.
func (m ResultModel) SelectedSize() int64 {
	var total int64
	for i, selected := range m.selected {
		if selected && i < len(m.candidates) {
			total += m.candidates[i].Size
		}
	}
	return total
}

// SelectedCount returns the number of selected candidates.
func (m ResultModel) SelectedCount() int {
	return len(m.selected)
}

// TotalSize returns the total size of all candidates.
func (m ResultModel) TotalSize() int64 {
	var total int64
	for _, c := range m.candidates {
		total += c.Size
	}
	return total
}

// Candidates returns the candidate list.
func (m ResultModel) Candidates() []types.Candidate {
	return m.candidates
}

// Cursor returns the current cursor position.
func (m ResultModel) Cursor() int {
	return m.cursor
}

// HasSelection returns true if any candidates are selected.
func (m ResultModel) HasSelection() bool {
	return len(m.selected) > 0
}

// SetDimensions updates the width and height.
func (m *ResultModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}
