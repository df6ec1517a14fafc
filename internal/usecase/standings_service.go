package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/roster"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/standings"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/cache"
)

const (
	cacheKeyStandingsReal  = "standings:real"
	cacheKeyStandingsTeams = "standings:teams"
)

type rosterReader interface {
	Get(ctx context.Context) (roster.Assignment, error)
}

type recordReader interface {
	Snapshot(ctx context.Context) (team.RecordSet, bool)
}

// StandingsView is the leaderboard plus the provenance of the data it
// was computed from.
type StandingsView struct {
	FetchedAt time.Time                `json:"fetched_at"`
	Owners    []standings.OwnerSummary `json:"owners"`
}

// TeamInfo is one catalog row: franchise record plus who drafted it.
// Owner is empty for undrafted franchises.
type TeamInfo struct {
	Name   string  `json:"name"`
	Owner  string  `json:"owner,omitempty"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	WinPct float64 `json:"win_pct"`
}

type StandingsService struct {
	rosterRepo rosterReader
	records    recordReader
	cache      *cache.Store
}

func NewStandingsService(rosterRepo rosterReader, records recordReader, cacheStore *cache.Store) *StandingsService {
	return &StandingsService{
		rosterRepo: rosterRepo,
		records:    records,
		cache:      cacheStore,
	}
}

// Real computes the leaderboard for the persisted draft from the latest
// fetched records. The computed view is cached until the next refresh
// invalidates it.
func (s *StandingsService) Real(ctx context.Context) (StandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Real")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, cacheKeyStandingsReal, func(ctx context.Context) (any, error) {
		return s.computeReal(ctx)
	})
	if err != nil {
		return StandingsView{}, err
	}

	view, ok := value.(StandingsView)
	if !ok {
		return StandingsView{}, fmt.Errorf("unexpected cached standings type %T", value)
	}
	return view, nil
}

func (s *StandingsService) computeReal(ctx context.Context) (StandingsView, error) {
	set, ok := s.records.Snapshot(ctx)
	if !ok {
		return StandingsView{}, fmt.Errorf("%w: no team records fetched yet", ErrDependencyUnavailable)
	}

	assignment, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return StandingsView{}, fmt.Errorf("get roster: %w", err)
	}

	snapshot, err := standings.Compute(assignment, set.Records)
	if err != nil {
		return StandingsView{}, fmt.Errorf("compute standings: %w", err)
	}

	return StandingsView{FetchedAt: set.FetchedAt, Owners: snapshot.Owners}, nil
}

// Sandbox recomputes the leaderboard under a proposed redistribution of
// the drafted pool. Nothing is persisted and no cache is touched, so the
// real standings are unaffected.
func (s *StandingsService) Sandbox(ctx context.Context, proposal roster.Assignment) (StandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Sandbox")
	defer span.End()

	current, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return StandingsView{}, fmt.Errorf("get roster: %w", err)
	}

	if err := proposal.ValidateProposal(current); err != nil {
		return StandingsView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	set, ok := s.records.Snapshot(ctx)
	if !ok {
		return StandingsView{}, fmt.Errorf("%w: no team records fetched yet", ErrDependencyUnavailable)
	}

	snapshot, err := standings.Compute(proposal, set.Records)
	if err != nil {
		if errors.Is(err, roster.ErrMissingTeamRecord) {
			return StandingsView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return StandingsView{}, fmt.Errorf("compute sandbox standings: %w", err)
	}

	return StandingsView{FetchedAt: set.FetchedAt, Owners: snapshot.Owners}, nil
}

// Teams lists every franchise with its record and drafting owner,
// undrafted franchises included.
func (s *StandingsService) Teams(ctx context.Context) ([]TeamInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Teams")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, cacheKeyStandingsTeams, func(ctx context.Context) (any, error) {
		return s.computeTeams(ctx)
	})
	if err != nil {
		return nil, err
	}

	out, ok := value.([]TeamInfo)
	if !ok {
		return nil, fmt.Errorf("unexpected cached teams type %T", value)
	}
	return out, nil
}

func (s *StandingsService) computeTeams(ctx context.Context) ([]TeamInfo, error) {
	set, ok := s.records.Snapshot(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no team records fetched yet", ErrDependencyUnavailable)
	}

	assignment, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}

	ownerByTeam := make(map[string]string, len(assignment)*roster.TeamsPerOwner)
	for owner, teams := range assignment {
		for _, name := range teams {
			ownerByTeam[name] = owner
		}
	}

	out := make([]TeamInfo, 0, len(team.Franchises))
	for _, name := range team.Franchises {
		record := set.Records[name]
		out = append(out, TeamInfo{
			Name:   name,
			Owner:  ownerByTeam[name],
			Wins:   record.Wins,
			Losses: record.Losses,
			WinPct: record.WinPct(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}
