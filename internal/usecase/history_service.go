package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/cache"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
)

const (
	cacheKeyHistorySeries = "history:series"

	defaultBackfillWorkers = 3
	maxBackfillWorkers     = 6
)

type gameLogProvider interface {
	FetchTeamGameLog(ctx context.Context, franchise string) ([]games.GameLogEntry, error)
}

type BackfillResult struct {
	Teams       int   `json:"teams"`
	Days        int   `json:"days"`
	DurationMs  int64 `json:"duration_ms"`
	WorkerCount int   `json:"worker_count"`
}

// HistoryService serves the season race series and can rebuild it from
// scratch out of per-franchise game logs.
type HistoryService struct {
	repo       history.Repository
	rosterRepo rosterReader
	provider   gameLogProvider
	cache      *cache.Store
	logger     *logging.Logger
	maxWorkers int
}

func NewHistoryService(
	repo history.Repository,
	rosterRepo rosterReader,
	provider gameLogProvider,
	cacheStore *cache.Store,
	logger *logging.Logger,
	maxWorkers int,
) *HistoryService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultBackfillWorkers
	}
	if maxWorkers > maxBackfillWorkers {
		maxWorkers = maxBackfillWorkers
	}
	return &HistoryService{
		repo:       repo,
		rosterRepo: rosterRepo,
		provider:   provider,
		cache:      cacheStore,
		logger:     logger,
		maxWorkers: maxWorkers,
	}
}

// Series returns the race entries ordered by date.
func (s *HistoryService) Series(ctx context.Context) ([]history.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Series")
	defer span.End()

	if s.repo == nil {
		return nil, fmt.Errorf("%w: history storage is not configured", ErrDependencyUnavailable)
	}

	value, err := s.cache.GetOrLoad(ctx, cacheKeyHistorySeries, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries, ok := value.([]history.Entry)
	if !ok {
		return nil, fmt.Errorf("unexpected cached history type %T", value)
	}
	return entries, nil
}

// Backfill rebuilds the whole series from the game logs of every drafted
// franchise and swaps it in atomically. Any failed game log aborts the
// rebuild, a series missing one team's wins would be quietly wrong.
func (s *HistoryService) Backfill(ctx context.Context) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Backfill")
	defer span.End()

	if s.repo == nil || s.provider == nil || s.rosterRepo == nil {
		return BackfillResult{}, fmt.Errorf("%w: history backfill is not fully configured", ErrDependencyUnavailable)
	}

	start := time.Now()

	assignment, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("get roster: %w", err)
	}

	ownerByTeam := make(map[string]string)
	teams := make([]string, 0, len(assignment)*4)
	for owner, names := range assignment {
		for _, name := range names {
			ownerByTeam[name] = owner
			teams = append(teams, name)
		}
	}
	sort.Strings(teams)

	workerCount := s.maxWorkers
	if workerCount > len(teams) {
		workerCount = len(teams)
	}

	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var mu sync.Mutex
	var fetchErr error
	logsByTeam := make(map[string][]games.GameLogEntry, len(teams))

	var wg sync.WaitGroup
	for _, name := range teams {
		name := name
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			entries, err := s.provider.FetchTeamGameLog(ctx, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fetchErr == nil {
					fetchErr = fmt.Errorf("%w: fetch game log team=%s: %v", ErrDependencyUnavailable, name, err)
				}
				return
			}
			logsByTeam[name] = entries
		}); err != nil {
			wg.Done()
			return BackfillResult{}, fmt.Errorf("submit game log fetch: %w", err)
		}
	}
	wg.Wait()

	if fetchErr != nil {
		return BackfillResult{}, fetchErr
	}

	entries := buildRaceSeries(assignment.Owners(), ownerByTeam, logsByTeam)
	if err := s.repo.Replace(ctx, entries); err != nil {
		return BackfillResult{}, fmt.Errorf("replace history: %w", err)
	}

	s.cache.DeletePrefix(ctx, "history:")

	result := BackfillResult{
		Teams:       len(teams),
		Days:        len(entries),
		DurationMs:  time.Since(start).Milliseconds(),
		WorkerCount: workerCount,
	}
	s.logger.InfoContext(ctx, "rebuilt standings history",
		"teams", result.Teams,
		"days", result.Days,
		"took_ms", result.DurationMs,
	)
	return result, nil
}

// buildRaceSeries folds per-team game logs into cumulative owner win
// totals, one entry per day any drafted team played.
func buildRaceSeries(owners []string, ownerByTeam map[string]string, logsByTeam map[string][]games.GameLogEntry) []history.Entry {
	winsByDate := make(map[string]map[string]int)
	for name, log := range logsByTeam {
		owner := ownerByTeam[name]
		for _, game := range log {
			if winsByDate[game.Date] == nil {
				winsByDate[game.Date] = make(map[string]int, len(owners))
			}
			if game.Won {
				winsByDate[game.Date][owner]++
			}
		}
	}

	dates := make([]string, 0, len(winsByDate))
	for date := range winsByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	running := make(map[string]int, len(owners))
	entries := make([]history.Entry, 0, len(dates))
	for _, date := range dates {
		for owner, won := range winsByDate[date] {
			running[owner] += won
		}
		wins := make(map[string]int, len(owners))
		for _, owner := range owners {
			wins[owner] = running[owner]
		}
		entries = append(entries, history.Entry{Date: date, Wins: wins})
	}

	return entries
}
