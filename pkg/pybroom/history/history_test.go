package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

func TestLogScan(t *testing.T) {
	store := NewStore(t.TempDir())

	candidates := []types.Candidate{
		{Path: "/p/__pycache__", Kind: types.KindPycache, Size: 100, IsDir: true},
		{Path: "/p/a.pyc", Kind: types.KindPyc, Size: 50},
	}

	entry, err := store.LogScan([]string{"/p"}, candidates)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, OpScan, entry.Operation)
	assert.Equal(t, []string{"/p"}, entry.Roots)
	assert.Equal(t, int64(2), entry.Summary.TotalItems)
	assert.Equal(t, int64(150), entry.Summary.TotalBytes)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, types.KindPycache, entry.Items[0].Kind)

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestLogClean(t *testing.T) {
	store := NewStore(t.TempDir())

	removed := []types.Candidate{
		{Path: "/p/a.pyc", Kind: types.KindPyc, Size: 50},
		{Path: "/p/locked.pyc", Kind: types.KindPyc, Size: 10},
	}
	summary := types.CleanSummary{
		Success:      true,
		ItemsRemoved: 1,
		BytesFreed:   50,
		Failures:     []types.CleanFailure{{Path: "/p/locked.pyc", Error: "permission denied"}},
	}

	entry, err := store.LogClean(removed, summary)
	require.NoError(t, err)
	assert.Equal(t, OpClean, entry.Operation)
	assert.Equal(t, int64(1), entry.Summary.TotalItems)
	assert.Equal(t, int64(50), entry.Summary.TotalBytes)

	require.Len(t, entry.Items, 2)
	assert.True(t, entry.Items[0].Removed)
	assert.Empty(t, entry.Items[0].FailedErr)
	assert.False(t, entry.Items[1].Removed)
	assert.Equal(t, "permission denied", entry.Items[1].FailedErr)
}

func TestListOrderAndLimit(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.EnsureDir())

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaa-1111", "bbb-2222", "ccc-3333"} {
		entry := &Entry{
			ID:        id,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Operation: OpScan,
		}
		require.NoError(t, store.writeEntry(entry))
	}

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "ccc-3333", entries[0].ID, "newest first")
	assert.Equal(t, "aaa-1111", entries[2].ID)

	limited, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "ccc-3333", limited[0].ID)
}

func TestListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))
	entries, err := store.List(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListSkipsCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.EnsureDir())

	entry := &Entry{ID: "good-entry", Timestamp: time.Now().UTC(), Operation: OpScan}
	require.NoError(t, store.writeEntry(entry))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644))

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good-entry", entries[0].ID)
}

func TestGetByIDAndPrefix(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.EnsureDir())

	for _, id := range []string{"abc-first", "abe-second", "xyz-third"} {
		entry := &Entry{ID: id, Timestamp: time.Now().UTC(), Operation: OpScan}
		require.NoError(t, store.writeEntry(entry))
	}

	got, err := store.Get("xyz-third")
	require.NoError(t, err)
	assert.Equal(t, "xyz-third", got.ID)

	got, err = store.Get("xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz-third", got.ID)

	_, err = store.Get("ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = store.Get("zzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.EnsureDir())

	old := &Entry{ID: "old-entry", Timestamp: time.Now().UTC().AddDate(0, 0, -100), Operation: OpScan}
	fresh := &Entry{ID: "fresh-entry", Timestamp: time.Now().UTC(), Operation: OpScan}
	require.NoError(t, store.writeEntry(old))
	require.NoError(t, store.writeEntry(fresh))

	removed, err := store.Cleanup(90)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh-entry", entries[0].ID)
}
