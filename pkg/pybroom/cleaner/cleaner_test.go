package cleaner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

func createFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("failed to create file %s: %v", path, err)
	}
}

// TestCleanFilesAndDirs verifies files are removed individually and
// directories as whole subtrees, with bytes accounted from scan-time
// sizes.
func TestCleanFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "module.pyc")
	dir := filepath.Join(root, "__pycache__")
	createFile(t, file, 20)
	createFile(t, filepath.Join(dir, "a.pyc"), 10)

	items := []types.Candidate{
		{Path: dir, Kind: types.KindPycache, Size: 10, IsDir: true},
		{Path: file, Kind: types.KindPyc, Size: 20},
	}

	summary := New(Options{}).Clean(context.Background(), items)

	if !summary.Success {
		t.Error("expected success")
	}
	if summary.ItemsRemoved != 2 {
		t.Errorf("expected 2 items removed, got %d", summary.ItemsRemoved)
	}
	if summary.BytesFreed != 30 {
		t.Errorf("expected 30 bytes freed, got %d", summary.BytesFreed)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("directory should be gone")
	}
}

// TestCleanMissingPath verifies a path deleted between scan and clean is
// a recoverable failure: the batch continues and reports total-1 removed.
func TestCleanMissingPath(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.pyc")
	b := filepath.Join(root, "b.pyc")
	createFile(t, a, 5)
	createFile(t, b, 5)

	items := []types.Candidate{
		{Path: a, Kind: types.KindPyc, Size: 5},
		{Path: filepath.Join(root, "vanished.pyc"), Kind: types.KindPyc, Size: 5},
		{Path: b, Kind: types.KindPyc, Size: 5},
	}

	summary := New(Options{}).Clean(context.Background(), items)

	if !summary.Success {
		t.Error("recoverable failures should not fail the batch")
	}
	if summary.ItemsRemoved != len(items)-1 {
		t.Errorf("expected %d items removed, got %d", len(items)-1, summary.ItemsRemoved)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(summary.Failures))
	}
	if summary.Failures[0].Path != items[1].Path {
		t.Errorf("unexpected failure path: %s", summary.Failures[0].Path)
	}
	if _, err := os.Stat(b); !os.IsNotExist(err) {
		t.Error("later item should still have been removed")
	}
}

// TestCleanDryRun verifies nothing is touched in dry-run mode.
func TestCleanDryRun(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "module.pyc")
	createFile(t, file, 20)

	items := []types.Candidate{{Path: file, Kind: types.KindPyc, Size: 20}}
	summary := New(Options{DryRun: true}).Clean(context.Background(), items)

	if summary.ItemsRemoved != 1 {
		t.Errorf("dry run should report what would be removed, got %d", summary.ItemsRemoved)
	}
	if _, err := os.Stat(file); err != nil {
		t.Error("dry run must not delete anything")
	}
}

// TestCleanStop verifies cooperative termination between items.
func TestCleanStop(t *testing.T) {
	root := t.TempDir()
	var items []types.Candidate
	for _, name := range []string{"a.pyc", "b.pyc", "c.pyc"} {
		path := filepath.Join(root, name)
		createFile(t, path, 1)
		items = append(items, types.Candidate{Path: path, Kind: types.KindPyc, Size: 1})
	}

	var c *Cleaner
	c = New(Options{
		OnProgress: func(done, total int, path string) {
			if done == 1 {
				c.Stop()
			}
		},
	})

	summary := c.Clean(context.Background(), items)

	if !summary.Success {
		t.Error("stopped clean should still report success")
	}
	if summary.ItemsRemoved != 1 {
		t.Errorf("expected 1 item removed before stop, got %d", summary.ItemsRemoved)
	}
	if _, err := os.Stat(items[2].Path); err != nil {
		t.Error("unprocessed item should remain")
	}
}

// TestCleanProgressCallback verifies per-item progress reporting.
func TestCleanProgressCallback(t *testing.T) {
	root := t.TempDir()
	var items []types.Candidate
	for _, name := range []string{"a.pyc", "b.pyc"} {
		path := filepath.Join(root, name)
		createFile(t, path, 1)
		items = append(items, types.Candidate{Path: path, Kind: types.KindPyc, Size: 1})
	}

	var calls []int
	New(Options{
		OnProgress: func(done, total int, path string) {
			calls = append(calls, done)
			if total != 2 {
				t.Errorf("expected total 2, got %d", total)
			}
		},
	}).Clean(context.Background(), items)

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("unexpected progress sequence: %v", calls)
	}
}

// TestCleanEmptyBatch verifies an empty confirmation is a no-op.
func TestCleanEmptyBatch(t *testing.T) {
	summary := New(Options{}).Clean(context.Background(), nil)

	if !summary.Success {
		t.Error("expected success")
	}
	if summary.ItemsRemoved != 0 || summary.BytesFreed != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}
