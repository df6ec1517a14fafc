package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
)

type fakeScoreboardReader struct {
	boards []games.Scoreboard
}

func (f *fakeScoreboardReader) Scoreboards(_ context.Context) []games.Scoreboard {
	return f.boards
}

func TestGamesServiceListDayFilter(t *testing.T) {
	reader := &fakeScoreboardReader{boards: []games.Scoreboard{
		{Date: "2026-01-08"},
		{Date: "2026-01-09"},
	}}
	service := NewGamesService(reader)
	service.now = func() time.Time {
		return time.Date(2026, 1, 9, 15, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	cases := []struct {
		day       string
		wantDates []string
	}{
		{"", []string{"2026-01-08", "2026-01-09"}},
		{"today", []string{"2026-01-09"}},
		{"yesterday", []string{"2026-01-08"}},
	}
	for _, tc := range cases {
		got, err := service.List(ctx, tc.day)
		if err != nil {
			t.Fatalf("list day=%q: %v", tc.day, err)
		}
		if len(got) != len(tc.wantDates) {
			t.Fatalf("day=%q: got %d boards, want %d", tc.day, len(got), len(tc.wantDates))
		}
		for idx, board := range got {
			if board.Date != tc.wantDates[idx] {
				t.Fatalf("day=%q: unexpected board date %s", tc.day, board.Date)
			}
		}
	}
}

func TestGamesServiceListRejectsUnknownDay(t *testing.T) {
	service := NewGamesService(&fakeScoreboardReader{})

	_, err := service.List(context.Background(), "tomorrow")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
