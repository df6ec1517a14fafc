package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
)

type HistoryRepository struct {
	mu      sync.RWMutex
	entries map[string]history.Entry
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{entries: make(map[string]history.Entry)}
}

func (r *HistoryRepository) List(_ context.Context) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, cloneEntry(entry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out, nil
}

func (r *HistoryRepository) Upsert(_ context.Context, entry history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries[entry.Date] = cloneEntry(entry)
	r.mu.Unlock()

	return nil
}

func (r *HistoryRepository) Replace(_ context.Context, entries []history.Entry) error {
	next := make(map[string]history.Entry, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		next[entry.Date] = cloneEntry(entry)
	}

	r.mu.Lock()
	r.entries = next
	r.mu.Unlock()

	return nil
}

func cloneEntry(entry history.Entry) history.Entry {
	wins := make(map[string]int, len(entry.Wins))
	for owner, total := range entry.Wins {
		wins[owner] = total
	}
	return history.Entry{Date: entry.Date, Wins: wins}
}
