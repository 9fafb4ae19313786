package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// PlainFormatter formats output as a simple tab-separated table.
// It produces plain text suitable for scripting and piping; no colors
// or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := tw.Write([]byte("KIND\tSIZE\tPATH\n")); err != nil {
		return err
	}
	for _, c := range r.Candidates {
		line := string(c.Kind) + "\t" + types.FormatSize(c.Size) + "\t" + c.Path + "\n"
		if _, err := tw.Write([]byte(line)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "total: %d items, %s (%.2f MB)\n",
		r.Scan.Count, types.FormatSize(r.Scan.TotalSize), r.Scan.TotalSizeMB())

	if r.Clean != nil {
		fmt.Fprintf(w, "cleaned: %d items, %s freed, %d failed\n",
			r.Clean.ItemsRemoved, types.FormatSize(r.Clean.BytesFreed), len(r.Clean.Failures))
	}
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
