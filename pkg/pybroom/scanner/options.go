// Package scanner implements the pybroom walk-and-classify pass. It
// traverses each scan root sequentially, applies the enabled rules to
// every entry, and streams candidates and progress to the caller.
package scanner

import (
	"github.com/jamesainslie/pybroom/pkg/pybroom/rules"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// Options configures a scan.
type Options struct {
	// Roots are the directories to scan. Nonexistent roots are reported
	// as warnings and skipped.
	Roots []string

	// Rules selects which residue categories to look for.
	Rules rules.Config

	// SkipCount disables the entry-counting pre-pass. Progress reports
	// then carry Percent == -1 but the final summary is unaffected.
	SkipCount bool

	// OnCandidate is called for each match as soon as it is found.
	// Called from the scanning goroutine, in walk order.
	OnCandidate func(types.Candidate)

	// OnProgress is called periodically with walk progress.
	OnProgress func(types.ScanProgress)
}

// Validate applies defaults for zero values.
func (o *Options) Validate() error {
	if o.Rules == (rules.Config{}) {
		o.Rules = rules.DefaultConfig()
	}
	o.Rules.Clamp()
	return nil
}
