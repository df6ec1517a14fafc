package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
)

// document is the on-disk cache shape. It survives restarts so the
// dashboard can serve the last known standings before the first fetch.
type document struct {
	FetchedAt   time.Time              `json:"fetched_at"`
	Records     map[string]team.Record `json:"records"`
	Scoreboards []games.Scoreboard     `json:"scoreboards,omitempty"`
}

// RecordStore keeps the latest fetched team records in memory and
// mirrors them to a single JSON file. Writes go through a temp file and
// rename so a crash mid-write never leaves a torn document.
type RecordStore struct {
	mu     sync.RWMutex
	path   string
	doc    document
	loaded bool
	logger *logging.Logger
}

func NewRecordStore(path string, logger *logging.Logger) (*RecordStore, error) {
	if path == "" {
		return nil, fmt.Errorf("cache file path is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store := &RecordStore{path: path, logger: logger}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *RecordStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache file %s: %w", s.path, err)
	}

	var doc document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		// A corrupt cache is not fatal, the next refresh rewrites it.
		s.logger.Warn("ignoring unreadable cache file", "path", s.path, "error", err)
		return nil
	}

	s.doc = doc
	s.loaded = len(doc.Records) > 0
	return nil
}

// Snapshot returns the cached record set. The bool reports whether a
// fetch has ever populated the store.
func (s *RecordStore) Snapshot(_ context.Context) (team.RecordSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return team.RecordSet{}, false
	}

	records := make(map[string]team.Record, len(s.doc.Records))
	for name, record := range s.doc.Records {
		records[name] = record
	}
	return team.RecordSet{FetchedAt: s.doc.FetchedAt, Records: records}, true
}

func (s *RecordStore) Scoreboards(_ context.Context) []games.Scoreboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]games.Scoreboard, len(s.doc.Scoreboards))
	copy(out, s.doc.Scoreboards)
	return out
}

// Save replaces the cached document and persists it atomically.
func (s *RecordStore) Save(_ context.Context, set team.RecordSet, boards []games.Scoreboard) error {
	if len(set.Records) == 0 {
		return fmt.Errorf("refusing to persist an empty record set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := document{
		FetchedAt:   set.FetchedAt,
		Records:     set.Records,
		Scoreboards: boards,
	}

	raw, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace cache file: %w", err)
	}

	s.doc = doc
	s.loaded = true
	return nil
}
