// Package history records completed pybroom operations as JSON entries
// on disk. It stores what was done, not scan findings: each entry
// describes one finished scan or clean batch.
package history

import (
	"time"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// OperationType represents the type of operation.
type OperationType string

const (
	// OpScan represents a completed scan.
	OpScan OperationType = "scan"
	// OpClean represents a completed clean batch.
	OpClean OperationType = "clean"
)

// ItemRecord represents one candidate involved in an operation.
type ItemRecord struct {
	Path      string         `json:"path"`
	Kind      types.RuleKind `json:"kind"`
	Size      int64          `json:"size"`
	Removed   bool           `json:"removed,omitempty"`
	FailedErr string         `json:"failed_error,omitempty"`
}

// Entry represents a single history entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Roots     []string      `json:"roots,omitempty"`
	Items     []ItemRecord  `json:"items"`
	Summary   Summary       `json:"summary"`
}

// Summary aggregates an entry's items.
type Summary struct {
	TotalItems int64 `json:"total_items"`
	TotalBytes int64 `json:"total_bytes"`
}
