package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/standings"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/cache"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/resilience"
)

const refreshFlightKey = "refresh:records"

type statsProvider interface {
	FetchTeamRecords(ctx context.Context) (map[string]team.Record, error)
	FetchScoreboard(ctx context.Context, day time.Time) (games.Scoreboard, error)
}

type recordStore interface {
	Snapshot(ctx context.Context) (team.RecordSet, bool)
	Save(ctx context.Context, set team.RecordSet, boards []games.Scoreboard) error
}

type RefreshResult struct {
	FetchedAt   time.Time `json:"fetched_at"`
	Teams       int       `json:"teams"`
	Scoreboards int       `json:"scoreboards"`
	Shared      bool      `json:"shared"`
}

// RefreshService pulls fresh team records and scoreboards from the stats
// provider and commits them as one atomic snapshot. Concurrent refresh
// requests collapse into a single provider round trip.
type RefreshService struct {
	provider    statsProvider
	store       recordStore
	rosterRepo  rosterReader
	historyRepo history.Repository
	cache       *cache.Store
	logger      *logging.Logger

	flight resilience.SingleFlight
	now    func() time.Time
}

func NewRefreshService(
	provider statsProvider,
	store recordStore,
	rosterRepo rosterReader,
	historyRepo history.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *RefreshService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RefreshService{
		provider:    provider,
		store:       store,
		rosterRepo:  rosterRepo,
		historyRepo: historyRepo,
		cache:       cacheStore,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *RefreshService) Refresh(ctx context.Context) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Refresh")
	defer span.End()

	if s.provider == nil || s.store == nil {
		return RefreshResult{}, fmt.Errorf("%w: refresh is not fully configured", ErrDependencyUnavailable)
	}

	value, err, shared := s.flight.Do(refreshFlightKey, func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return RefreshResult{}, err
	}

	result, ok := value.(RefreshResult)
	if !ok {
		return RefreshResult{}, fmt.Errorf("unexpected refresh result type %T", value)
	}
	result.Shared = shared
	return result, nil
}

func (s *RefreshService) refresh(ctx context.Context) (RefreshResult, error) {
	start := s.now().UTC()

	var records map[string]team.Record
	var boards []games.Scoreboard

	fetchers := pool.New().WithContext(ctx)
	fetchers.Go(func(ctx context.Context) error {
		fetched, err := s.provider.FetchTeamRecords(ctx)
		if err != nil {
			return fmt.Errorf("%w: fetch team records: %v", ErrDependencyUnavailable, err)
		}
		records = fetched
		return nil
	})
	fetchers.Go(func(ctx context.Context) error {
		// Scoreboards are decoration on the dashboard; a failed fetch
		// must not block the standings refresh.
		boards = s.fetchScoreboards(ctx, start)
		return nil
	})
	if err := fetchers.Wait(); err != nil {
		return RefreshResult{}, err
	}

	set := team.RecordSet{FetchedAt: start, Records: records}
	if err := s.store.Save(ctx, set, boards); err != nil {
		return RefreshResult{}, fmt.Errorf("persist record snapshot: %w", err)
	}

	if err := s.appendHistory(ctx, start, records); err != nil {
		// The snapshot already committed; a history hiccup only costs
		// one point on the race chart.
		s.logger.WarnContext(ctx, "failed to append history entry", "error", err)
	}

	s.cache.DeletePrefix(ctx, "standings:")
	s.cache.DeletePrefix(ctx, "history:")

	s.logger.InfoContext(ctx, "refreshed team records",
		"teams", len(records),
		"scoreboards", len(boards),
		"took", s.now().UTC().Sub(start).String(),
	)

	return RefreshResult{FetchedAt: start, Teams: len(records), Scoreboards: len(boards)}, nil
}

// fetchScoreboards pulls today's and yesterday's games.
func (s *RefreshService) fetchScoreboards(ctx context.Context, now time.Time) []games.Scoreboard {
	out := make([]games.Scoreboard, 0, 2)
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		board, err := s.provider.FetchScoreboard(ctx, day)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to fetch scoreboard",
				"date", day.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		out = append(out, board)
	}
	return out
}

func (s *RefreshService) appendHistory(ctx context.Context, now time.Time, records map[string]team.Record) error {
	if s.historyRepo == nil || s.rosterRepo == nil {
		return nil
	}

	assignment, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get roster: %w", err)
	}
	snapshot, err := standings.Compute(assignment, records)
	if err != nil {
		return fmt.Errorf("compute standings: %w", err)
	}

	wins := make(map[string]int, len(snapshot.Owners))
	for _, owner := range snapshot.Owners {
		wins[owner.Owner] = owner.TotalWins
	}

	return s.historyRepo.Upsert(ctx, history.Entry{
		Date: now.Format("2006-01-02"),
		Wins: wins,
	})
}
