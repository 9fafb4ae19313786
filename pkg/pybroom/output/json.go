package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Roots      []string        `json:"roots"`
	Candidates []jsonCandidate `json:"candidates"`
	Scan       jsonScan        `json:"scan"`
	Clean      *jsonClean      `json:"clean,omitempty"`
	Elapsed    string          `json:"elapsed,omitempty"`
}

// jsonCandidate represents a candidate in JSON output.
type jsonCandidate struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Size        int64  `json:"size"`
	SizeHuman   string `json:"size_human"`
	IsDir       bool   `json:"is_dir"`
	Preselected bool   `json:"preselected"`
}

type jsonScan struct {
	Success     bool     `json:"success"`
	Count       int      `json:"count"`
	TotalSize   int64    `json:"total_size"`
	TotalSizeMB float64  `json:"total_size_mb"`
	Warnings    []string `json:"warnings,omitempty"`
	Interrupted bool     `json:"interrupted"`
}

type jsonClean struct {
	Success      bool                 `json:"success"`
	ItemsRemoved int                  `json:"items_removed"`
	BytesFreed   int64                `json:"bytes_freed"`
	BytesFreedMB float64              `json:"bytes_freed_mb"`
	Failures     []types.CleanFailure `json:"failures,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.buildOutput(r))
}

func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	candidates := make([]jsonCandidate, len(r.Candidates))
	for i, c := range r.Candidates {
		candidates[i] = jsonCandidate{
			Path:        c.Path,
			Kind:        string(c.Kind),
			Size:        c.Size,
			SizeHuman:   types.FormatSize(c.Size),
			IsDir:       c.IsDir,
			Preselected: c.Preselected,
		}
	}

	out := jsonOutput{
		Roots:      r.Roots,
		Candidates: candidates,
		Scan: jsonScan{
			Success:     r.Scan.Success,
			Count:       r.Scan.Count,
			TotalSize:   r.Scan.TotalSize,
			TotalSizeMB: r.Scan.TotalSizeMB(),
			Warnings:    r.Scan.Warnings,
			Interrupted: r.Interrupted,
		},
	}
	if r.Elapsed > 0 {
		out.Elapsed = r.Elapsed.String()
	}
	if r.Clean != nil {
		out.Clean = &jsonClean{
			Success:      r.Clean.Success,
			ItemsRemoved: r.Clean.ItemsRemoved,
			BytesFreed:   r.Clean.BytesFreed,
			BytesFreedMB: r.Clean.BytesFreedMB(),
			Failures:     r.Clean.Failures,
		}
	}
	return out
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON, one compact
// candidate object per line, suitable for streaming into jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, c := range r.Candidates {
		jc := jsonCandidate{
			Path:        c.Path,
			Kind:        string(c.Kind),
			Size:        c.Size,
			SizeHuman:   types.FormatSize(c.Size),
			IsDir:       c.IsDir,
			Preselected: c.Preselected,
		}
		data, err := json.Marshal(jc)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
