package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
)

// logRingBuffer is a thread-safe ring buffer for log entries with FIFO
// eviction.
type logRingBuffer struct {
	mu         sync.RWMutex
	entries    []logging.Entry
	maxEntries int
}

// newLogRingBuffer creates a ring buffer with the specified max size.
func newLogRingBuffer(maxEntries int) *logRingBuffer {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &logRingBuffer{
		entries:    make([]logging.Entry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Add appends an entry, evicting the oldest if at capacity.
func (rb *logRingBuffer) Add(entry logging.Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.entries) >= rb.maxEntries {
		rb.entries = rb.entries[1:]
	}
	rb.entries = append(rb.entries, entry)
}

// Entries returns a copy of all entries in chronological order.
func (rb *logRingBuffer) Entries() []logging.Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]logging.Entry, len(rb.entries))
	copy(result, rb.entries)
	return result
}

// Len returns the number of entries in the buffer.
func (rb *logRingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.entries)
}

// LogViewerState holds the state for the log viewer pane.
type LogViewerState struct {
	Open         bool
	Buffer       *logRingBuffer
	Subscription <-chan logging.Entry
}

// NewLogViewerState creates a log viewer fed by the logging package's
// subscriber channel.
func NewLogViewerState() *LogViewerState {
	return &LogViewerState{
		Buffer:       newLogRingBuffer(200),
		Subscription: logging.Subscribe(),
	}
}

// Toggle toggles the log viewer open/closed.
func (s *LogViewerState) Toggle() {
	s.Open = !s.Open
}

// AddEntry adds a log entry to the buffer.
func (s *LogViewerState) AddEntry(entry logging.Entry) {
	s.Buffer.Add(entry)
}

// Close unsubscribes from the log feed.
func (s *LogViewerState) Close() {
	logging.Unsubscribe(s.Subscription)
}

// logLevelStyle returns the style for a log level.
func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelInfo:
		return logInfoStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// logLevelChar returns a single character for the log level.
func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

// renderLogViewer renders the log pane showing the most recent entries.
func renderLogViewer(entries []logging.Entry, width, height int) string {
	if height < 3 {
		return ""
	}

	var b strings.Builder

	logTitleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor)

	b.WriteString(logTitleStyle.Render(" Logs ") + mutedTextStyle.Render("[L] close"))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	visibleRows := height - 2
	if visibleRows < 1 {
		visibleRows = 1
	}

	// Show the tail of the buffer
	start := len(entries) - visibleRows
	if start < 0 {
		start = 0
	}
	visible := entries[start:]

	for _, entry := range visible {
		b.WriteString(renderLogEntry(entry, width))
		b.WriteString("\n")
	}
	for i := len(visible); i < visibleRows; i++ {
		b.WriteString("\n")
	}

	return b.String()
}

// renderLogEntry renders a single log entry as
// "HH:MM:SS [L] component: message".
func renderLogEntry(entry logging.Entry, width int) string {
	timeStr := entry.Time.Format("15:04:05")
	levelChar := logLevelChar(entry.Level)
	levelStyle := logLevelStyle(entry.Level)

	comp := entry.Component
	if len(comp) > 10 {
		comp = comp[:10]
	}

	prefixWidth := 8 + 1 + 3 + 1 + len(comp) + 2
	msgWidth := width - prefixWidth
	if msgWidth < 10 {
		msgWidth = 10
	}

	msg := entry.Message
	if len(msg) > msgWidth {
		msg = msg[:msgWidth-3] + "..."
	}

	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(timeStr),
		levelStyle.Render("["+levelChar+"]"),
		logComponentStyle.Render(comp),
		msg)
}
