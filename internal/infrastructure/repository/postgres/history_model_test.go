package postgres

import (
	"testing"
	"time"
)

func TestHistoryTableModelToEntry(t *testing.T) {
	model := historyTableModel{
		ID:        1,
		EntryDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		Wins:      []byte(`{"JJ":4,"Nate":2}`),
	}

	entry, err := model.toEntry()
	if err != nil {
		t.Fatalf("to entry: %v", err)
	}
	if entry.Date != "2026-01-09" {
		t.Fatalf("unexpected date %q", entry.Date)
	}
	if err := entry.Validate(); err != nil {
		t.Fatalf("converted entry must satisfy the contract: %v", err)
	}
	if entry.Wins["JJ"] != 4 || entry.Wins["Nate"] != 2 {
		t.Fatalf("unexpected wins map: %+v", entry.Wins)
	}
}

func TestHistoryTableModelToEntryBadWins(t *testing.T) {
	model := historyTableModel{
		EntryDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		Wins:      []byte(`{"JJ":`),
	}

	if _, err := model.toEntry(); err == nil {
		t.Fatalf("expected decode error")
	}
}
