package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
)

type scoreboardReader interface {
	Scoreboards(ctx context.Context) []games.Scoreboard
}

// GamesService serves the scoreboards captured by the last refresh,
// typically yesterday's finals and today's slate.
type GamesService struct {
	store scoreboardReader
	now   func() time.Time
}

func NewGamesService(store scoreboardReader) *GamesService {
	return &GamesService{store: store, now: time.Now}
}

// List returns the stored scoreboards. day narrows the result: empty
// keeps everything, "today" and "yesterday" resolve against the current
// UTC date.
func (s *GamesService) List(ctx context.Context, day string) ([]games.Scoreboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GamesService.List")
	defer span.End()

	boards := s.store.Scoreboards(ctx)

	switch day {
	case "":
		return boards, nil
	case "today", "yesterday":
		target := s.now().UTC()
		if day == "yesterday" {
			target = target.AddDate(0, 0, -1)
		}
		date := target.Format("2006-01-02")

		out := make([]games.Scoreboard, 0, 1)
		for _, board := range boards {
			if board.Date == date {
				out = append(out, board)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: day must be today or yesterday, got %q", ErrInvalidInput, day)
	}
}
