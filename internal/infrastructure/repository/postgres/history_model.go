package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
)

const entryDateLayout = "2006-01-02"

// historyTableModel maps standings_history rows. entry_date is a DATE
// column; lib/pq hands those back as time.Time, so the model scans a
// time.Time and toEntry reformats it into the YYYY-MM-DD contract.
type historyTableModel struct {
	ID        int64     `db:"id"`
	EntryDate time.Time `db:"entry_date"`
	Wins      []byte    `db:"wins"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m historyTableModel) toEntry() (history.Entry, error) {
	wins := map[string]int{}
	if err := sonic.Unmarshal(m.Wins, &wins); err != nil {
		return history.Entry{}, fmt.Errorf("decode history wins date=%s: %w", m.EntryDate.Format(entryDateLayout), err)
	}

	return history.Entry{
		Date: m.EntryDate.Format(entryDateLayout),
		Wins: wins,
	}, nil
}
