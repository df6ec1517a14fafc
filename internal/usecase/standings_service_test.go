package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/roster"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
	"github.com/drafthoops/nba-draft-tracker/internal/infrastructure/repository/memory"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/cache"
)

type fakeRecordReader struct {
	set team.RecordSet
	ok  bool
}

func (f *fakeRecordReader) Snapshot(_ context.Context) (team.RecordSet, bool) {
	return f.set, f.ok
}

func testRecordSet() team.RecordSet {
	records := make(map[string]team.Record, len(team.Franchises))
	for idx, name := range team.Franchises {
		records[name] = team.Record{
			Name:          name,
			Wins:          idx + 1,
			Losses:        30 - idx,
			PointsFor:     110,
			PointsAgainst: 108,
		}
	}
	return team.RecordSet{
		FetchedAt: time.Date(2026, 1, 9, 6, 0, 0, 0, time.UTC),
		Records:   records,
	}
}

func newStandingsService(ok bool) (*StandingsService, *fakeRecordReader) {
	reader := &fakeRecordReader{set: testRecordSet(), ok: ok}
	rosterRepo := memory.NewRosterRepository(memory.SeedAssignment())
	return NewStandingsService(rosterRepo, reader, cache.NewStore(time.Minute)), reader
}

func TestRealStandings(t *testing.T) {
	service, _ := newStandingsService(true)

	view, err := service.Real(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Owners) != 6 {
		t.Fatalf("expected 6 owners, got %d", len(view.Owners))
	}
	if !view.FetchedAt.Equal(testRecordSet().FetchedAt) {
		t.Fatalf("view must carry the snapshot time, got %v", view.FetchedAt)
	}
	for idx, owner := range view.Owners {
		if owner.Rank != idx+1 {
			t.Fatalf("ranks must be contiguous: %+v", view.Owners)
		}
		if idx > 0 && view.Owners[idx-1].TotalWins < owner.TotalWins {
			t.Fatalf("owners must be sorted by wins: %+v", view.Owners)
		}
		if len(owner.Teams) != roster.TeamsPerOwner {
			t.Fatalf("owner %s breakdown must list four teams", owner.Owner)
		}
	}
}

func TestRealStandingsCachedUntilInvalidated(t *testing.T) {
	service, reader := newStandingsService(true)
	ctx := context.Background()

	first, err := service.Real(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New snapshot arrives, but the cached view is still served.
	reader.set.FetchedAt = reader.set.FetchedAt.Add(24 * time.Hour)
	second, err := service.Real(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.FetchedAt.Equal(first.FetchedAt) {
		t.Fatalf("expected cached view, got %v", second.FetchedAt)
	}

	service.cache.DeletePrefix(ctx, "standings:")
	third, err := service.Real(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.FetchedAt.Equal(first.FetchedAt) {
		t.Fatalf("invalidation must recompute the view")
	}
}

func TestRealStandingsWithoutData(t *testing.T) {
	service, _ := newStandingsService(false)

	_, err := service.Real(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestSandboxStandings(t *testing.T) {
	service, _ := newStandingsService(true)
	ctx := context.Background()

	real, err := service.Real(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Swap one franchise between JJ and Nate.
	proposal := memory.SeedAssignment()
	proposal["JJ"] = []string{"Magic", "Spurs", "Pistons", "Pelicans"}
	proposal["Nate"] = []string{"Thunder", "Hawks", "Grizzlies", "Suns"}

	sandbox, err := service.Sandbox(ctx, proposal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sandbox.Owners) != 6 {
		t.Fatalf("expected 6 owners, got %d", len(sandbox.Owners))
	}

	// Total wins are conserved across any redistribution.
	realWins, sandboxWins := 0, 0
	for idx := range real.Owners {
		realWins += real.Owners[idx].TotalWins
		sandboxWins += sandbox.Owners[idx].TotalWins
	}
	if realWins != sandboxWins {
		t.Fatalf("win totals must be conserved: real=%d sandbox=%d", realWins, sandboxWins)
	}

	// The sandbox run must not disturb the real standings.
	again, err := service.Real(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for idx := range real.Owners {
		if again.Owners[idx].Owner != real.Owners[idx].Owner || again.Owners[idx].TotalWins != real.Owners[idx].TotalWins {
			t.Fatalf("sandbox leaked into real standings: %+v", again.Owners)
		}
	}
}

func TestSandboxIsIdempotent(t *testing.T) {
	service, _ := newStandingsService(true)
	ctx := context.Background()

	proposal := memory.SeedAssignment()
	proposal["JJ"] = []string{"Magic", "Spurs", "Pistons", "Pelicans"}
	proposal["Nate"] = []string{"Thunder", "Hawks", "Grizzlies", "Suns"}

	first, err := service.Sandbox(ctx, proposal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Sandbox(ctx, proposal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("sandbox recompute must be identical run to run:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestSandboxRejectsInvalidProposal(t *testing.T) {
	service, _ := newStandingsService(true)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(roster.Assignment) roster.Assignment
	}{
		{
			name: "unknown owner",
			mutate: func(a roster.Assignment) roster.Assignment {
				teams := a["JJ"]
				delete(a, "JJ")
				a["Somebody"] = teams
				return a
			},
		},
		{
			name: "team owned twice",
			mutate: func(a roster.Assignment) roster.Assignment {
				a["Nate"] = []string{"Thunder", "Hawks", "Grizzlies", "Suns"}
				return a
			},
		},
		{
			name: "wrong team count",
			mutate: func(a roster.Assignment) roster.Assignment {
				a["JJ"] = a["JJ"][:3]
				return a
			},
		},
		{
			name: "unknown franchise",
			mutate: func(a roster.Assignment) roster.Assignment {
				a["JJ"] = []string{"Thunder", "Spurs", "Pistons", "Sonics"}
				return a
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Sandbox(ctx, tc.mutate(memory.SeedAssignment()))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestTeamsCatalog(t *testing.T) {
	service, _ := newStandingsService(true)

	teams, err := service.Teams(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(teams) != len(team.Franchises) {
		t.Fatalf("catalog must list every franchise, got %d", len(teams))
	}

	owners := make(map[string]string, len(teams))
	for _, item := range teams {
		owners[item.Name] = item.Owner
	}
	if owners["Thunder"] != "JJ" {
		t.Fatalf("Thunder should belong to JJ, got %q", owners["Thunder"])
	}
	if owners["Nets"] != "" || owners["Jazz"] != "" {
		t.Fatalf("undrafted franchises must have no owner: %+v", owners)
	}
}
