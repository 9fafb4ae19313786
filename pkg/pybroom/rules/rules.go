// Package rules defines the six residue categories pybroom recognizes
// and the predicates used to classify directory entries during a scan.
// Each rule pairs a match condition with a default selection state; the
// venv rule additionally carries a staleness threshold.
package rules

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	wildcard "github.com/IGLOU-EU/go-wildcard"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// Venv staleness bounds in days.
const (
	MinVenvDays     = 1
	MaxVenvDays     = 365
	DefaultVenvDays = 30
)

// buildDirNames are exact directory names matched by the build rule.
var buildDirNames = []string{"build", "dist"}

// eggInfoPattern matches setuptools metadata directories.
const eggInfoPattern = "*.egg-info"

// venvMarkers identify a directory as a virtual environment when found
// directly inside it or under its bin/ or Scripts/ subdirectory.
var venvMarkers = []string{"pyvenv.cfg", "activate", "python.exe", "pip.exe"}

// tempSuffixes are file name suffixes matched by the temp rule.
var tempSuffixes = []string{".pyc.tmp", ".py~", ".pyo"}

// Config enables or disables individual rules for one scan.
type Config struct {
	Pycache   bool `mapstructure:"pycache" json:"pycache"`
	Pyc       bool `mapstructure:"pyc" json:"pyc"`
	Venv      bool `mapstructure:"venv" json:"venv"`
	VenvDays  int  `mapstructure:"venv_days" json:"venv_days"`
	Jupyter   bool `mapstructure:"jupyter" json:"jupyter"`
	TempFiles bool `mapstructure:"temp_files" json:"temp_files"`
	BuildDirs bool `mapstructure:"build_dirs" json:"build_dirs"`
}

// DefaultConfig returns a configuration with every rule enabled and the
// default venv staleness threshold.
func DefaultConfig() Config {
	return Config{
		Pycache:   true,
		Pyc:       true,
		Venv:      true,
		VenvDays:  DefaultVenvDays,
		Jupyter:   true,
		TempFiles: true,
		BuildDirs: true,
	}
}

// Clamp forces VenvDays into the accepted range.
func (c *Config) Clamp() {
	if c.VenvDays < MinVenvDays {
		c.VenvDays = DefaultVenvDays
	}
	if c.VenvDays > MaxVenvDays {
		c.VenvDays = MaxVenvDays
	}
}

// Enabled reports whether the rule for kind is active.
func (c Config) Enabled(kind types.RuleKind) bool {
	switch kind {
	case types.KindPycache:
		return c.Pycache
	case types.KindPyc:
		return c.Pyc
	case types.KindVenv:
		return c.Venv
	case types.KindJupyter:
		return c.Jupyter
	case types.KindTemp:
		return c.TempFiles
	case types.KindBuild:
		return c.BuildDirs
	}
	return false
}

// Any reports whether at least one rule is enabled.
func (c Config) Any() bool {
	for _, k := range types.Kinds {
		if c.Enabled(k) {
			return true
		}
	}
	return false
}

// Preselected returns the default checkbox state for a candidate of the
// given kind. Virtual environments always require explicit confirmation.
func Preselected(kind types.RuleKind) bool {
	return kind != types.KindVenv
}

// MatchDirName returns the name-based rule kinds matching a directory
// name. Venv detection needs directory contents and is handled
// separately by IsVenv / VenvStale.
func (c Config) MatchDirName(name string) []types.RuleKind {
	var kinds []types.RuleKind
	if c.Pycache && name == "__pycache__" {
		kinds = append(kinds, types.KindPycache)
	}
	if c.Jupyter && name == ".ipynb_checkpoints" {
		kinds = append(kinds, types.KindJupyter)
	}
	if c.BuildDirs && isBuildDirName(name) {
		kinds = append(kinds, types.KindBuild)
	}
	return kinds
}

// MatchFileName returns the suffix-based rule kinds matching a file name.
func (c Config) MatchFileName(name string) []types.RuleKind {
	var kinds []types.RuleKind
	if c.TempFiles {
		for _, suffix := range tempSuffixes {
			if strings.HasSuffix(name, suffix) {
				kinds = append(kinds, types.KindTemp)
				break
			}
		}
	}
	if c.Pyc && strings.HasSuffix(name, ".pyc") {
		kinds = append(kinds, types.KindPyc)
	}
	return kinds
}

func isBuildDirName(name string) bool {
	for _, n := range buildDirNames {
		if name == n {
			return true
		}
	}
	return wildcard.Match(eggInfoPattern, name)
}

// IsVenv reports whether dir looks like a Python virtual environment:
// at least one marker exists directly in dir or under dir/bin or
// dir/Scripts.
func IsVenv(dir string) bool {
	for _, marker := range venvMarkers {
		candidates := []string{
			filepath.Join(dir, marker),
			filepath.Join(dir, "bin", marker),
			filepath.Join(dir, "Scripts", marker),
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				return true
			}
		}
	}
	return false
}

// VenvStale reports whether the most recently accessed direct file
// entry of dir predates now by more than days. A directory with no
// direct file entries is treated as not stale: the staleness heuristic
// has nothing to measure, so the directory is skipped rather than
// flagged for deletion.
func VenvStale(dir string, days int, now time.Time) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	var newest time.Time
	seen := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		at := accessTime(filepath.Join(dir, entry.Name()), info)
		if !seen || at.After(newest) {
			newest = at
			seen = true
		}
	}
	if !seen {
		return false
	}

	return now.Sub(newest) > time.Duration(days)*24*time.Hour
}
