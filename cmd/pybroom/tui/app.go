package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/pybroom/pkg/pybroom/cleaner"
	"github.com/jamesainslie/pybroom/pkg/pybroom/history"
	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
	"github.com/jamesainslie/pybroom/pkg/pybroom/rules"
	"github.com/jamesainslie/pybroom/pkg/pybroom/scanner"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateScanning AppState = iota
	StateResults
	StateConfirm
	StateCleaning
	StateComplete
)

// Options configures the TUI application.
type Options struct {
	Roots    []string
	Rules    rules.Config
	DryRun   bool
	UseTrash bool
	History  *history.Store
}

// Model is the main Bubble Tea model for the pybroom TUI.
type Model struct {
	state       AppState
	scanModel   ScanModel
	resultModel ResultModel
	options     Options

	// Scanning state
	ctx          context.Context
	cancel       context.CancelFunc
	scan         *scanner.Scanner
	collector    *candidateCollector
	scanDone     bool
	scanErr      error
	scanSummary  *types.ScanSummary
	candidates   []types.Candidate
	progressChan chan types.ScanProgress

	// Confirmation dialog state
	confirmFocused int // 0 = cancel, 1 = clean

	// Cleaning state
	cleanSpinner      spinner.Model
	cleanProgress     int
	cleanTotal        int
	cleanItems        []types.Candidate
	cleanSummary      *types.CleanSummary
	cleanProgressChan chan cleanProgressMsg

	// Log viewer
	logs *LogViewerState

	// Window dimensions
	width  int
	height int
}

// candidateCollector accumulates streamed candidates. The scanner
// calls add from its own goroutine; the slice is only read after the
// scan returns, in that same goroutine.
type candidateCollector struct {
	items []types.Candidate
}

func (c *candidateCollector) add(cand types.Candidate) {
	c.items = append(c.items, cand)
}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(dangerColor)

	progressChan := make(chan types.ScanProgress, 100)
	collector := &candidateCollector{}
	scan := scanner.New(scanner.Options{
		Roots:       opts.Roots,
		Rules:       opts.Rules,
		OnCandidate: collector.add,
		OnProgress: func(p types.ScanProgress) {
			select {
			case progressChan <- p:
			default:
				// Channel full, skip this update
			}
		},
	})

	return Model{
		state:          StateScanning,
		scanModel:      NewScanModel(opts.Roots),
		options:        opts,
		ctx:            ctx,
		cancel:         cancel,
		scan:           scan,
		collector:      collector,
		width:          80,
		height:         24,
		confirmFocused: 0,
		cleanSpinner:   s,
		progressChan:   progressChan,
		logs:           NewLogViewerState(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanModel.Init(),
		m.startScan(),
		m.listenForProgress(),
		m.listenForLogs(),
		m.tickUI(),
	)
}

// tickUIMsg triggers a UI refresh.
type tickUIMsg struct{}

// tickUI returns a command that periodically triggers UI updates.
func (m Model) tickUI() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return tickUIMsg{}
	})
}

// logEntryMsg carries a log entry from the subscriber channel.
type logEntryMsg logging.Entry

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scanModel.width = msg.Width
		m.scanModel.height = msg.Height
		m.resultModel.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickUIMsg:
		// Keep UI refreshing during scanning
		if m.state == StateScanning && !m.scanDone {
			return m, m.tickUI()
		}
		return m, nil

	case logEntryMsg:
		m.logs.AddEntry(logging.Entry(msg))
		return m, m.listenForLogs()

	case ProgressMsg:
		m.scanModel.SetProgress(types.ScanProgress(msg))
		// Keep listening for more progress
		return m, m.listenForProgress()

	case ScanCompleteMsg:
		m.scanDone = true
		m.scanErr = msg.Err
		m.scanSummary = msg.Summary
		m.candidates = msg.Candidates
		m.scanModel.SetDone(msg.Err)

		if msg.Err == nil {
			m.state = StateResults
			var warnings []string
			if msg.Summary != nil {
				warnings = msg.Summary.Warnings
			}
			m.resultModel = NewResultModel(msg.Candidates, warnings)
			m.resultModel.SetDimensions(m.width, m.height)

			if m.options.History != nil {
				if _, err := m.options.History.LogScan(m.options.Roots, msg.Candidates); err != nil {
					logging.Get("tui").Warn("failed to record scan history", "error", err)
				}
			}
		}
		return m, nil

	case spinner.TickMsg:
		switch m.state {
		case StateScanning:
			var cmd tea.Cmd
			m.scanModel.spinner, cmd = m.scanModel.spinner.Update(msg)
			cmds = append(cmds, cmd)
		case StateCleaning:
			var cmd tea.Cmd
			m.cleanSpinner, cmd = m.cleanSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case cleanProgressMsg:
		m.cleanProgress = msg.done
		if msg.finished {
			m.cleanSummary = msg.summary
			m.state = StateComplete
			return m, nil
		}
		// Keep listening for more progress
		return m, m.listenForCleanProgress()
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		m.cancel()
		if m.scan != nil {
			m.scan.Stop()
		}
		return m, tea.Quit
	case "L":
		m.logs.Toggle()
		return m, nil
	}

	// State-specific keys
	switch m.state {
	case StateScanning:
		if key == "q" || key == "esc" {
			m.cancel()
			if m.scan != nil {
				m.scan.Stop()
			}
			return m, tea.Quit
		}

	case StateResults:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			if m.resultModel.HasSelection() {
				m.state = StateConfirm
				m.confirmFocused = 0 // Default to cancel
			}
		default:
			m.resultModel.HandleKey(key)
		}

	case StateConfirm:
		switch key {
		case "q", "esc", "n":
			m.state = StateResults
		case "left", "h":
			m.confirmFocused = 0
		case "right", "l":
			m.confirmFocused = 1
		case "tab":
			m.confirmFocused = (m.confirmFocused + 1) % 2
		case "enter":
			if m.confirmFocused == 1 {
				return m.startClean()
			}
			m.state = StateResults
		case "y":
			// Shortcut for yes
			return m.startClean()
		}

	case StateCleaning:
		// No key handling during clean

	case StateComplete:
		if key == "q" || key == "enter" || key == "esc" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	var view string
	switch m.state {
	case StateScanning:
		view = m.scanModel.View()
	case StateResults:
		view = m.resultModel.View()
	case StateConfirm:
		view = m.renderConfirmDialog()
	case StateCleaning:
		view = m.renderCleaning()
	case StateComplete:
		view = m.renderComplete()
	}

	if m.logs.Open {
		pane := renderLogViewer(m.logs.Buffer.Entries(), m.width-4, 10)
		view = lipgloss.JoinVertical(lipgloss.Left, view, pane)
	}
	return view
}

// renderConfirmDialog renders the clean confirmation dialog.
func (m Model) renderConfirmDialog() string {
	bg := m.resultModel.View()

	selectedCount := m.resultModel.SelectedCount()
	selectedSize := m.resultModel.SelectedSize()

	venvCount := 0
	for _, c := range m.resultModel.SelectedItems() {
		if c.Kind == types.KindVenv {
			venvCount++
		}
	}

	var dialogContent strings.Builder
	dialogContent.WriteString(dialogTitleStyle.Render("Confirm Clean"))
	dialogContent.WriteString("\n\n")
	dialogContent.WriteString(dialogTextStyle.Render(
		fmt.Sprintf("Remove %d items (%s)?", selectedCount, types.FormatSize(selectedSize))))
	dialogContent.WriteString("\n")

	if venvCount > 0 {
		dialogContent.WriteString(warningTextStyle.Render(
			fmt.Sprintf("Includes %d virtual environments", venvCount)))
		dialogContent.WriteString("\n")
	}
	if m.options.DryRun {
		dialogContent.WriteString(warningTextStyle.Render("(Dry run - nothing will be deleted)"))
		dialogContent.WriteString("\n")
	}
	if m.options.UseTrash {
		dialogContent.WriteString(mutedTextStyle.Render("Items will be moved to trash"))
		dialogContent.WriteString("\n")
	}

	dialogContent.WriteString("\n")

	// Buttons
	cancelBtn := inactiveButtonStyle.Render("Cancel")
	cleanBtn := inactiveButtonStyle.Render("Clean")

	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Render("Cancel")
	} else {
		cleanBtn = activeButtonStyle.Background(dangerColor).Render("Clean")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", cleanBtn)
	dialogContent.WriteString(center(buttons, 50))

	dialog := dialogBoxStyle.Render(dialogContent.String())

	return m.overlayDialog(bg, dialog)
}

// renderCleaning renders the clean progress view.
func (m Model) renderCleaning() string {
	contentWidth := m.width - 4

	var b strings.Builder
	b.WriteString(titleStyle.Render("  Cleaning..."))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	// Progress
	b.WriteString(fmt.Sprintf("  %s Removing: %d / %d items",
		m.cleanSpinner.View(), m.cleanProgress, m.cleanTotal))
	b.WriteString("\n\n")

	// Progress bar
	if m.cleanTotal > 0 {
		pct := float64(m.cleanProgress) / float64(m.cleanTotal)
		barWidth := contentWidth - 4
		filled := int(pct * float64(barWidth))
		empty := barWidth - filled

		bar := "  " + progressFillStyle.Render(strings.Repeat("█", filled)) +
			progressEmptyStyle.Render(strings.Repeat("░", empty))
		b.WriteString(bar)
		b.WriteString(fmt.Sprintf(" %d%%", int(pct*100)))
		b.WriteString("\n")
	}

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderComplete renders the completion view.
func (m Model) renderComplete() string {
	contentWidth := m.width - 4

	var b strings.Builder
	b.WriteString(successTextStyle.Render("  Clean Complete"))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	summary := m.cleanSummary
	if summary == nil {
		summary = &types.CleanSummary{}
	}

	if m.options.DryRun {
		b.WriteString(fmt.Sprintf("  Would have removed: %d items\n", m.cleanTotal))
	} else {
		b.WriteString(fmt.Sprintf("  Removed %d items, reclaimed %s (%.1f MB)\n",
			summary.ItemsRemoved, types.FormatSize(summary.BytesFreed), summary.BytesFreedMB()))
	}

	if len(summary.Failures) > 0 {
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Failed: %d items\n", len(summary.Failures))))
		b.WriteString("\n")
		b.WriteString(errorTextStyle.Render("  Errors:"))
		b.WriteString("\n")
		maxErrors := 5
		for i, f := range summary.Failures {
			if i >= maxErrors {
				b.WriteString(errorTextStyle.Render(fmt.Sprintf("    ... and %d more", len(summary.Failures)-maxErrors)))
				b.WriteString("\n")
				break
			}
			line := f.Path + ": " + f.Error
			b.WriteString(errorTextStyle.Render("    - " + truncatePath(line, contentWidth-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(center(keyStyle.Render("[Enter]")+" "+keyDescStyle.Render("Exit"), contentWidth))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// overlayDialog centers a dialog over a background view.
func (m Model) overlayDialog(bg, dialog string) string {
	dialogLines := strings.Split(dialog, "\n")
	bgLines := strings.Split(bg, "\n")

	dialogHeight := len(dialogLines)
	startRow := (m.height - dialogHeight) / 2
	if startRow < 0 {
		startRow = 0
	}

	dialogWidth := lipgloss.Width(dialog)
	startCol := (m.width - dialogWidth) / 2
	if startCol < 0 {
		startCol = 0
	}

	var result []string
	for i := range max(len(bgLines), startRow+dialogHeight) {
		if i < startRow || i >= startRow+dialogHeight {
			if i < len(bgLines) {
				result = append(result, bgLines[i])
			} else {
				result = append(result, "")
			}
		} else {
			dialogLine := dialogLines[i-startRow]
			if i < len(bgLines) {
				bgLine := bgLines[i]
				if startCol > len(bgLine) {
					result = append(result, strings.Repeat(" ", startCol)+dialogLine)
				} else {
					line := bgLine[:min(startCol, len(bgLine))] + dialogLine
					result = append(result, line)
				}
			} else {
				result = append(result, strings.Repeat(" ", startCol)+dialogLine)
			}
		}
	}

	return strings.Join(result, "\n")
}

// startScan starts the scanning goroutine. Candidates accumulate in
// the collector and arrive with the completion message; progress
// streams through the progress channel.
func (m Model) startScan() tea.Cmd {
	progressChan := m.progressChan
	s := m.scan
	collector := m.collector
	ctx := m.ctx

	return func() tea.Msg {
		startTime := time.Now()

		summary, err := s.Scan(ctx)

		// Close progress channel when scan completes
		close(progressChan)

		if err != nil {
			return ScanCompleteMsg{Err: err}
		}

		return ScanCompleteMsg{
			Candidates: collector.items,
			Summary:    summary,
			Elapsed:    time.Since(startTime),
		}
	}
}

// listenForProgress returns a command that waits for progress updates.
func (m Model) listenForProgress() tea.Cmd {
	progressChan := m.progressChan
	return func() tea.Msg {
		p, ok := <-progressChan
		if !ok {
			// Channel closed, scan is done
			return nil
		}
		return ProgressMsg(p)
	}
}

// listenForLogs returns a command that waits for log entries.
func (m Model) listenForLogs() tea.Cmd {
	sub := m.logs.Subscription
	return func() tea.Msg {
		entry, ok := <-sub
		if !ok {
			return nil
		}
		return logEntryMsg(entry)
	}
}

// cleanProgressMsg reports clean progress.
type cleanProgressMsg struct {
	done     int
	total    int
	path     string
	finished bool
	summary  *types.CleanSummary
}

// startClean begins the clean batch in the background.
func (m Model) startClean() (tea.Model, tea.Cmd) {
	m.state = StateCleaning
	m.cleanItems = m.resultModel.SelectedItems()
	m.cleanTotal = len(m.cleanItems)
	m.cleanProgress = 0
	m.cleanSummary = nil

	m.cleanProgressChan = make(chan cleanProgressMsg, 100)
	progressChan := m.cleanProgressChan

	items := m.cleanItems
	opts := m.options
	ctx := m.ctx

	go func() {
		c := cleaner.New(cleaner.Options{
			UseTrash: opts.UseTrash,
			DryRun:   opts.DryRun,
			OnProgress: func(done, total int, path string) {
				select {
				case progressChan <- cleanProgressMsg{done: done, total: total, path: path}:
				default:
					// Channel full, skip this update
				}
			},
		})
		summary := c.Clean(ctx, items)

		if opts.History != nil && !opts.DryRun {
			if _, err := opts.History.LogClean(items, *summary); err != nil {
				logging.Get("tui").Warn("failed to record clean history", "error", err)
			}
		}

		progressChan <- cleanProgressMsg{
			done:     len(items),
			total:    len(items),
			finished: true,
			summary:  summary,
		}
		close(progressChan)
	}()

	return m, tea.Batch(m.cleanSpinner.Tick, m.listenForCleanProgress())
}

// listenForCleanProgress returns a command that waits for clean progress.
func (m Model) listenForCleanProgress() tea.Cmd {
	progressChan := m.cleanProgressChan
	return func() tea.Msg {
		if progressChan == nil {
			return cleanProgressMsg{done: m.cleanTotal, total: m.cleanTotal, finished: true}
		}
		msg, ok := <-progressChan
		if !ok {
			return cleanProgressMsg{done: m.cleanTotal, total: m.cleanTotal, finished: true}
		}
		return msg
	}
}

// Run starts the TUI application.
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.logs.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
