package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
	"github.com/jamesainslie/pybroom/pkg/pybroom/rules"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// ErrNoValidPaths indicates that none of the supplied roots exist.
var ErrNoValidPaths = errors.New("no valid scan paths")

// errStopped terminates a walk early on cooperative cancellation. It is
// never returned to the caller.
var errStopped = errors.New("scan stopped")

// Scanner performs a sequential walk over the configured roots and
// classifies entries against the enabled rules. One Scanner serves one
// scan; create a new one for each invocation.
type Scanner struct {
	opts Options

	// stopped is the cooperative cancellation flag, checked once per
	// directory entry.
	stopped atomic.Bool

	// Progress state for the root currently being walked.
	visited atomic.Int64
	total   atomic.Int64

	// visitedAll accumulates across roots for the final summary.
	visitedAll atomic.Int64

	found      int
	foundBytes int64

	// lastProgress throttles OnProgress callbacks.
	lastProgress atomic.Int64
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	_ = opts.Validate()
	return &Scanner{opts: opts}
}

// Stop requests cooperative termination. The walk ends at the next
// per-entry check point; the summary reflects candidates found so far
// and still reports success.
func (s *Scanner) Stop() {
	s.stopped.Store(true)
}

// Scan walks every valid root and streams candidates through the
// configured callbacks. It blocks until the walk completes, the context
// is cancelled, or Stop is called.
//
// Filesystem errors never abort the scan: bad roots become warnings,
// unreadable entries are skipped during size computation. The only
// error return is ErrNoValidPaths. An unexpected fault inside the walk
// loop is recovered and reported as Success == false with whatever was
// accumulated before the failure.
func (s *Scanner) Scan(ctx context.Context) (summary *types.ScanSummary, err error) {
	log := logging.Get("scanner")
	start := time.Now()

	summary = &types.ScanSummary{Success: true}
	defer func() {
		if r := recover(); r != nil {
			log.Error("scan aborted by unexpected fault", "fault", fmt.Sprint(r))
			summary.Success = false
			summary.Count = s.found
			summary.TotalSize = s.foundBytes
			summary.EntriesVisited = s.visitedAll.Load()
		}
	}()

	var valid []string
	for _, root := range s.opts.Roots {
		if _, statErr := os.Stat(root); statErr != nil {
			log.Warn("scan path does not exist", "path", root)
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("path does not exist: %s", root))
			continue
		}
		valid = append(valid, root)
	}
	if len(valid) == 0 {
		log.Error("no valid scan paths")
		summary.Success = false
		return summary, ErrNoValidPaths
	}

	log.Info("scan started", "roots", len(valid), "venv_days", s.opts.Rules.VenvDays)

	for _, root := range valid {
		if s.isStopped(ctx) {
			break
		}
		s.scanRoot(ctx, root)
	}

	summary.Count = s.found
	summary.TotalSize = s.foundBytes
	summary.EntriesVisited = s.visitedAll.Load()

	log.Info("scan finished",
		"found", summary.Count,
		"total_size", types.FormatSize(summary.TotalSize),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return summary, nil
}

// scanRoot runs the counting pass and the classification pass for one
// root. Counters carry over between roots except the per-root progress
// baseline.
func (s *Scanner) scanRoot(ctx context.Context, root string) {
	log := logging.Get("scanner")
	log.Info("scanning path", "path", root)

	s.visited.Store(0)
	s.total.Store(0)

	if !s.opts.SkipCount {
		s.total.Store(s.countEntries(ctx, root))
	}
	if s.isStopped(ctx) {
		return
	}

	s.reportProgressForce(root)

	conf := fastwalk.Config{
		NumWorkers: 1,
		Sort:       fastwalk.SortLexical,
	}
	now := time.Now()

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, entryErr error) error {
		if s.isStopped(ctx) {
			return errStopped
		}
		if entryErr != nil {
			log.Debug("skipping unreadable entry", "path", path, "error", entryErr)
			return nil
		}

		isRoot := path == root
		if !isRoot {
			s.visited.Add(1)
			s.visitedAll.Add(1)
			s.reportProgress(path)
		}

		if d.IsDir() {
			return s.handleDir(path, d.Name(), isRoot, now)
		}
		if d.Type().IsRegular() {
			s.handleFile(path, d)
		}
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, errStopped) {
		log.Warn("walk ended early", "path", root, "error", walkErr)
	}

	// A venv skipped by the scan pass leaves counted entries unvisited;
	// a completed root still reports 100%.
	if !s.isStopped(ctx) {
		if total := s.total.Load(); total > 0 {
			s.visited.Store(total)
		}
	}
	s.reportProgressForce(root)
}

// handleDir evaluates the directory rules. A matched directory is
// emitted once per matching rule and never descended into: its contents
// are already accounted for by the directory candidate's size.
func (s *Scanner) handleDir(path, name string, isRoot bool, now time.Time) error {
	var kinds []types.RuleKind
	if !isRoot {
		kinds = s.opts.Rules.MatchDirName(name)
	}
	if s.opts.Rules.Venv && rules.IsVenv(path) && rules.VenvStale(path, s.opts.Rules.VenvDays, now) {
		kinds = append(kinds, types.KindVenv)
	}
	if len(kinds) == 0 {
		return nil
	}

	size := dirSize(path)
	for _, kind := range kinds {
		s.emit(types.Candidate{
			Path:        path,
			Kind:        kind,
			Size:        size,
			IsDir:       true,
			Preselected: rules.Preselected(kind),
		})
	}
	return filepath.SkipDir
}

// handleFile evaluates the file suffix rules.
func (s *Scanner) handleFile(path string, d fs.DirEntry) {
	kinds := s.opts.Rules.MatchFileName(d.Name())
	if len(kinds) == 0 {
		return
	}

	info, err := d.Info()
	if err != nil {
		logging.Get("scanner").Debug("cannot stat candidate", "path", path, "error", err)
		return
	}

	for _, kind := range kinds {
		s.emit(types.Candidate{
			Path:        path,
			Kind:        kind,
			Size:        info.Size(),
			Preselected: rules.Preselected(kind),
		})
	}
}

// emit records a candidate and streams it to the caller.
func (s *Scanner) emit(c types.Candidate) {
	s.found++
	s.foundBytes += c.Size
	logging.Get("scanner").Debug("found candidate",
		"path", c.Path, "kind", string(c.Kind), "size", c.Size)
	if s.opts.OnCandidate != nil {
		s.opts.OnCandidate(c)
	}
}

// countEntries walks root once to count directory and file entries, so
// the second pass can report an integer percentage. The count honors
// cancellation and excludes the root itself. Directories the scan pass
// will match by name are counted but not descended into, keeping the
// two passes in step.
func (s *Scanner) countEntries(ctx context.Context, root string) int64 {
	conf := fastwalk.Config{NumWorkers: 1}
	var count int64

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, entryErr error) error {
		if s.isStopped(ctx) {
			return errStopped
		}
		if entryErr != nil {
			return nil
		}
		if path == root {
			return nil
		}
		count++
		if d.IsDir() && len(s.opts.Rules.MatchDirName(d.Name())) > 0 {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopped) {
		logging.Get("scanner").Debug("counting pass incomplete", "path", root, "error", err)
	}
	return count
}

// dirSize sums the sizes of all regular files transitively contained in
// path. Entries that fail to stat are skipped; the result undercounts
// rather than failing.
func dirSize(path string) int64 {
	conf := fastwalk.Config{NumWorkers: 1}
	var size int64

	_ = fastwalk.Walk(&conf, path, func(_ string, d fs.DirEntry, entryErr error) error {
		if entryErr != nil {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size += info.Size()
		return nil
	})
	return size
}

// isStopped reports whether the scan should terminate at this check
// point, via either the cooperative flag or context cancellation.
func (s *Scanner) isStopped(ctx context.Context) bool {
	if s.stopped.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// reportProgress calls the progress callback, throttled to every 10ms.
func (s *Scanner) reportProgress(path string) {
	if s.opts.OnProgress == nil {
		return
	}
	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return
	}
	s.sendProgress(path)
}

// reportProgressForce bypasses the throttle for root start and end.
func (s *Scanner) reportProgressForce(path string) {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress(path)
}

func (s *Scanner) sendProgress(path string) {
	visited := s.visited.Load()
	total := s.total.Load()

	percent := -1
	if total > 0 {
		percent = int(float64(visited) / float64(total) * 100)
		if percent > 100 {
			percent = 100
		}
	}

	s.opts.OnProgress(types.ScanProgress{
		Percent:     percent,
		Visited:     visited,
		Total:       total,
		CurrentPath: path,
		Found:       s.found,
		FoundBytes:  s.foundBytes,
	})
}
