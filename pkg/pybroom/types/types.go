// Package types provides core data types for the pybroom residue cleaner.
// It includes the candidate and summary structures exchanged between the
// scanner, cleaner, and presentation layers, along with size formatting
// helpers.
package types

import (
	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// RuleKind identifies one of the six recognized residue categories.
type RuleKind string

// The recognized residue categories.
const (
	KindPycache RuleKind = "pycache"
	KindPyc     RuleKind = "pyc"
	KindVenv    RuleKind = "venv"
	KindJupyter RuleKind = "jupyter"
	KindTemp    RuleKind = "temp"
	KindBuild   RuleKind = "build"
)

// Kinds lists all rule kinds in evaluation order.
var Kinds = []RuleKind{KindPycache, KindPyc, KindVenv, KindJupyter, KindTemp, KindBuild}

// Candidate is a filesystem path identified by a rule as a cleanup target.
// Identity is (Path, Kind): a directory that satisfies two rules (a stale
// virtual environment named "build", say) produces two candidates.
type Candidate struct {
	// Path is the absolute path to the matched file or directory.
	Path string `json:"path" yaml:"path"`

	// Kind is the rule category that matched.
	Kind RuleKind `json:"kind" yaml:"kind"`

	// Size is the reclaimable size in bytes. For directories this is the
	// recursive sum of contained file sizes.
	Size int64 `json:"size" yaml:"size"`

	// IsDir reports whether the candidate is a directory.
	IsDir bool `json:"is_dir" yaml:"is_dir"`

	// Preselected is whether the candidate defaults to checked in the
	// confirmation UI. Virtual environments always start unchecked.
	Preselected bool `json:"preselected" yaml:"preselected"`
}

// HumanSize returns the candidate size formatted as a human-readable string.
func (c *Candidate) HumanSize() string {
	return FormatSize(c.Size)
}

// ScanSummary is the terminal event of a scan operation.
type ScanSummary struct {
	// Success is false only when the walk aborted on an unexpected fault
	// or no valid roots were supplied. Cooperative cancellation still
	// reports success with partial counts.
	Success bool `json:"success" yaml:"success"`

	// Count is the number of candidates emitted.
	Count int `json:"count" yaml:"count"`

	// TotalSize is the sum of candidate sizes in bytes.
	TotalSize int64 `json:"total_size" yaml:"total_size"`

	// EntriesVisited is the number of directory and file entries walked.
	EntriesVisited int64 `json:"entries_visited" yaml:"entries_visited"`

	// Warnings holds non-fatal problems such as nonexistent roots.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// TotalSizeMB returns the total candidate size in mebibytes.
func (s *ScanSummary) TotalSizeMB() float64 {
	return float64(s.TotalSize) / float64(MiB)
}

// ScanProgress reports walk progress for one root.
type ScanProgress struct {
	// Percent is int(visited/total*100) for the current root, or -1 when
	// the entry count is unknown.
	Percent int `json:"percent" yaml:"percent"`

	// Visited is the number of entries processed so far.
	Visited int64 `json:"visited" yaml:"visited"`

	// Total is the entry count from the counting pass.
	Total int64 `json:"total" yaml:"total"`

	// CurrentPath is the path currently being examined.
	CurrentPath string `json:"current_path" yaml:"current_path"`

	// Found is the number of candidates emitted so far.
	Found int `json:"found" yaml:"found"`

	// FoundBytes is the total candidate size so far.
	FoundBytes int64 `json:"found_bytes" yaml:"found_bytes"`
}

// CleanFailure records a single item that could not be removed.
type CleanFailure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// CleanSummary is the terminal event of a clean operation.
type CleanSummary struct {
	// Success is false only when the batch loop itself faulted.
	// Individual item failures are recoverable and leave Success true.
	Success bool `json:"success" yaml:"success"`

	// ItemsRemoved is the number of items actually deleted.
	ItemsRemoved int `json:"items_removed" yaml:"items_removed"`

	// BytesFreed is the reclaimed space in bytes, using the sizes
	// computed at scan time.
	BytesFreed int64 `json:"bytes_freed" yaml:"bytes_freed"`

	// Failures lists the items that could not be removed.
	Failures []CleanFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// BytesFreedMB returns the reclaimed space in mebibytes.
func (s *CleanSummary) BytesFreedMB() float64 {
	return float64(s.BytesFreed) / float64(MiB)
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// Label returns a short human-readable description of a rule kind.
func (k RuleKind) Label() string {
	switch k {
	case KindPycache:
		return "__pycache__ directory"
	case KindPyc:
		return ".pyc bytecode file"
	case KindVenv:
		return "stale virtual environment"
	case KindJupyter:
		return "Jupyter checkpoint directory"
	case KindTemp:
		return "temporary Python file"
	case KindBuild:
		return "build artifact directory"
	default:
		return string(k)
	}
}
