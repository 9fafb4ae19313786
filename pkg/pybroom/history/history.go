package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
)

// Store persists operation entries as individual JSON files in a
// directory. Writes go through a temp file and rename so a crash never
// leaves a truncated entry behind.
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates a history store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: logging.Get("history"),
	}
}

// EnsureDir creates the store directory if needed.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	return nil
}

// LogScan records a completed scan and its candidates.
func (s *Store) LogScan(roots []string, candidates []types.Candidate) (*Entry, error) {
	items := make([]ItemRecord, 0, len(candidates))
	var totalBytes int64
	for _, c := range candidates {
		items = append(items, ItemRecord{
			Path: c.Path,
			Kind: c.Kind,
			Size: c.Size,
		})
		totalBytes += c.Size
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Operation: OpScan,
		Roots:     roots,
		Items:     items,
		Summary: Summary{
			TotalItems: int64(len(items)),
			TotalBytes: totalBytes,
		},
	}
	return s.append(entry)
}

// LogClean records a completed clean batch, including failures.
func (s *Store) LogClean(removed []types.Candidate, summary types.CleanSummary) (*Entry, error) {
	failed := make(map[string]string, len(summary.Failures))
	for _, f := range summary.Failures {
		failed[f.Path] = f.Error
	}

	items := make([]ItemRecord, 0, len(removed))
	for _, c := range removed {
		rec := ItemRecord{
			Path: c.Path,
			Kind: c.Kind,
			Size: c.Size,
		}
		if msg, ok := failed[c.Path]; ok {
			rec.FailedErr = msg
		} else {
			rec.Removed = true
		}
		items = append(items, rec)
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Operation: OpClean,
		Items:     items,
		Summary: Summary{
			TotalItems: int64(summary.ItemsRemoved),
			TotalBytes: summary.BytesFreed,
		},
	}
	return s.append(entry)
}

func (s *Store) append(entry *Entry) (*Entry, error) {
	if err := s.EnsureDir(); err != nil {
		return nil, err
	}
	if err := s.writeEntry(entry); err != nil {
		return nil, err
	}
	s.logger.Debug("recorded history entry",
		"id", entry.ID,
		"operation", entry.Operation,
		"items", entry.Summary.TotalItems)
	return entry, nil
}

func (s *Store) writeEntry(entry *Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	path := filepath.Join(s.dir, s.entryFilename(entry))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize history entry: %w", err)
	}
	return nil
}

func (s *Store) entryFilename(entry *Entry) string {
	ts := entry.Timestamp.Format("20060102-150405")
	return fmt.Sprintf("%s-%s.json", ts, entry.ID)
}

// List returns entries sorted newest first. A limit of 0 returns all.
func (s *Store) List(limit int) ([]*Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history directory: %w", err)
	}

	var entries []*Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		entry, err := s.readEntryFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable history entry", "file", de.Name(), "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get returns the entry with the given ID, or an error if not found.
// A unique ID prefix is accepted.
func (s *Store) Get(id string) (*Entry, error) {
	entries, err := s.List(0)
	if err != nil {
		return nil, err
	}

	var match *Entry
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
		if strings.HasPrefix(e.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous history ID prefix: %s", id)
			}
			match = e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("history entry not found: %s", id)
	}
	return match, nil
}

// Cleanup removes entries older than retentionDays. It returns the
// number of entries removed.
func (s *Store) Cleanup(retentionDays int) (int, error) {
	entries, err := s.List(0)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, s.entryFilename(e))
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to remove history entry", "id", e.ID, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *Store) readEntryFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parse history entry: %w", err)
	}
	return &entry, nil
}
