package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
)

// HistoryRepository persists the race series in Postgres so it survives
// restarts without a backfill. Wins are stored as a jsonb owner map.
type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) List(ctx context.Context) ([]history.Entry, error) {
	var rows []historyTableModel
	query := `SELECT id, entry_date, wins, created_at, updated_at
FROM standings_history
ORDER BY entry_date`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list standings history: %w", err)
	}

	out := make([]history.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}

	return out, nil
}

func (r *HistoryRepository) Upsert(ctx context.Context, entry history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	wins, err := sonic.Marshal(entry.Wins)
	if err != nil {
		return fmt.Errorf("encode history wins date=%s: %w", entry.Date, err)
	}

	query := `INSERT INTO standings_history (entry_date, wins)
VALUES ($1, $2)
ON CONFLICT (entry_date)
DO UPDATE SET wins = EXCLUDED.wins, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, entry.Date, wins); err != nil {
		return fmt.Errorf("upsert history entry date=%s: %w", entry.Date, err)
	}

	return nil
}

func (r *HistoryRepository) Replace(ctx context.Context, entries []history.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace history: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM standings_history`); err != nil {
		return fmt.Errorf("clear standings history: %w", err)
	}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		wins, err := sonic.Marshal(entry.Wins)
		if err != nil {
			return fmt.Errorf("encode history wins date=%s: %w", entry.Date, err)
		}
		query := `INSERT INTO standings_history (entry_date, wins) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, entry.Date, wins); err != nil {
			return fmt.Errorf("insert history entry date=%s: %w", entry.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace history tx: %w", err)
	}
	return nil
}
