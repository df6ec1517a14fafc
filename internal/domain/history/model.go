package history

import (
	"context"
	"fmt"
	"regexp"
)

// Entry is one day of the season race: cumulative win totals per owner as
// of the given date (YYYY-MM-DD).
type Entry struct {
	Date string         `json:"date"`
	Wins map[string]int `json:"wins"`
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (e Entry) Validate() error {
	if !dateRegex.MatchString(e.Date) {
		return fmt.Errorf("history date must be YYYY-MM-DD, got %q", e.Date)
	}
	if len(e.Wins) == 0 {
		return fmt.Errorf("history entry %s has no owner totals", e.Date)
	}
	return nil
}

// Repository stores the race series. Upsert replaces the entry for a date
// if one exists; Replace swaps the whole series atomically (backfill).
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	Upsert(ctx context.Context, entry Entry) error
	Replace(ctx context.Context, entries []Entry) error
}
