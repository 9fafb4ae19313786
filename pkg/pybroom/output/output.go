// Package output provides formatters for displaying pybroom scan and
// clean results in various output formats (pretty, plain, json, yaml).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// Result contains the complete output data for formatting: the
// candidate list in walk order, the scan summary, and the clean
// summary when a clean batch ran.
type Result struct {
	// Roots are the paths that were scanned.
	Roots []string `json:"roots" yaml:"roots"`

	// Candidates are the matches in the order they were found.
	Candidates []types.Candidate `json:"candidates" yaml:"candidates"`

	// Scan is the terminal scan summary.
	Scan types.ScanSummary `json:"scan" yaml:"scan"`

	// Clean is set only when a clean batch was executed.
	Clean *types.CleanSummary `json:"clean,omitempty" yaml:"clean,omitempty"`

	// Elapsed is the wall time of the whole operation.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// Interrupted indicates the scan was cancelled by the user.
	Interrupted bool `json:"interrupted" yaml:"interrupted"`
}

// CountByKind returns the number of candidates per rule kind.
func (r *Result) CountByKind() map[types.RuleKind]int {
	counts := make(map[types.RuleKind]int)
	for _, c := range r.Candidates {
		counts[c.Kind]++
	}
	return counts
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds a formatter factory to the registry, replacing any
// existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
