// Package cleaner deletes confirmed scan candidates and accounts for
// the space they occupied. The batch is failure-tolerant: every item is
// attempted regardless of how many before it failed.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
	"github.com/jamesainslie/pybroom/pkg/pybroom/trash"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// Options configures a clean batch.
type Options struct {
	// UseTrash moves items to the system trash instead of deleting them
	// permanently. Falls back to permanent deletion when no trash
	// support is available.
	UseTrash bool

	// DryRun reports what would be removed without touching anything.
	DryRun bool

	// OnProgress is called after each item with (done, total, path) so a
	// UI can render "N of M - path".
	OnProgress func(done, total int, path string)
}

// Cleaner removes a confirmed candidate batch. One Cleaner serves one
// batch; create a new one for each invocation.
type Cleaner struct {
	opts    Options
	stopped atomic.Bool
}

// New creates a Cleaner with the given options.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts}
}

// Stop requests cooperative termination. The check point is before each
// item, so an in-flight removal always completes.
func (c *Cleaner) Stop() {
	c.stopped.Store(true)
}

// Clean removes each item in the order given. Per-item failures
// (permission denied, already gone, wrong type) are recorded and the
// batch continues; only an unexpected fault in the loop itself yields
// Success == false, with counts accumulated up to that point.
func (c *Cleaner) Clean(ctx context.Context, items []types.Candidate) (summary *types.CleanSummary) {
	log := logging.Get("cleaner")
	total := len(items)

	summary = &types.CleanSummary{Success: true}
	defer func() {
		if r := recover(); r != nil {
			log.Error("clean aborted by unexpected fault", "fault", fmt.Sprint(r))
			summary.Success = false
		}
	}()

	log.Info("clean started", "items", total, "dry_run", c.opts.DryRun, "trash", c.opts.UseTrash)

	for i, item := range items {
		if c.isStopped(ctx) {
			log.Info("clean stopped", "processed", i, "total", total)
			break
		}

		if err := c.removeItem(item); err != nil {
			log.Error("failed to remove item", "path", item.Path, "error", err)
			summary.Failures = append(summary.Failures, types.CleanFailure{
				Path:  item.Path,
				Error: err.Error(),
			})
		} else {
			summary.ItemsRemoved++
			summary.BytesFreed += item.Size
		}

		if c.opts.OnProgress != nil {
			c.opts.OnProgress(i+1, total, item.Path)
		}
	}

	log.Info("clean finished",
		"removed", summary.ItemsRemoved,
		"freed", types.FormatSize(summary.BytesFreed),
		"failed", len(summary.Failures))
	return summary
}

// removeItem deletes a single candidate: directories as a whole
// subtree, regular files individually. A path that no longer exists or
// is neither is a recoverable failure.
func (c *Cleaner) removeItem(item types.Candidate) error {
	log := logging.Get("cleaner")

	info, err := os.Lstat(item.Path)
	if err != nil {
		return fmt.Errorf("cannot stat %q: %w", item.Path, err)
	}

	if c.opts.DryRun {
		log.Info("would remove", "path", item.Path, "size", item.Size)
		return nil
	}

	if c.opts.UseTrash {
		return trash.MoveToTrash(item.Path)
	}

	switch {
	case info.IsDir():
		log.Info("removing directory", "path", item.Path)
		return os.RemoveAll(item.Path)
	case info.Mode().IsRegular():
		log.Info("removing file", "path", item.Path)
		return os.Remove(item.Path)
	default:
		return fmt.Errorf("not a regular file or directory: %q", item.Path)
	}
}

func (c *Cleaner) isStopped(ctx context.Context) bool {
	if c.stopped.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
