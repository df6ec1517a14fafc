package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/drafthoops/nba-draft-tracker/external/nbastats"
	"github.com/drafthoops/nba-draft-tracker/internal/config"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
	"github.com/drafthoops/nba-draft-tracker/internal/infrastructure/repository/file"
	"github.com/drafthoops/nba-draft-tracker/internal/infrastructure/repository/memory"
	"github.com/drafthoops/nba-draft-tracker/internal/infrastructure/repository/postgres"
	"github.com/drafthoops/nba-draft-tracker/internal/interfaces/httpapi"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/cache"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/resilience"
	"github.com/drafthoops/nba-draft-tracker/internal/scheduler"
	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

// App bundles the HTTP server with the refresh scheduler and the
// resources both share.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	cacheStore := cache.NewDisabledStore()
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	recordStore, err := file.NewRecordStore(cfg.CacheFilePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	rosterRepo := memory.NewRosterRepository(memory.SeedAssignment())

	var db *sqlx.DB
	var historyRepo history.Repository = memory.NewHistoryRepository()
	if cfg.DBEnabled {
		db, err = openDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		historyRepo = postgres.NewHistoryRepository(db)
	}

	statsClient := nbastats.NewClient(nbastats.ClientConfig{
		BaseURL:    cfg.NBAStatsBaseURL,
		Season:     cfg.NBAStatsSeason,
		Timeout:    cfg.NBAStatsTimeout,
		MaxRetries: cfg.NBAStatsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NBAStatsCircuitEnabled,
			FailureThreshold: cfg.NBAStatsCircuitFailureCount,
			OpenTimeout:      cfg.NBAStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NBAStatsCircuitHalfOpenMaxReq,
		},
	})

	standingsService := usecase.NewStandingsService(rosterRepo, recordStore, cacheStore)
	refreshService := usecase.NewRefreshService(statsClient, recordStore, rosterRepo, historyRepo, cacheStore, logger)
	historyService := usecase.NewHistoryService(historyRepo, rosterRepo, statsClient, cacheStore, logger, cfg.BackfillMaxWorkers)
	gamesService := usecase.NewGamesService(recordStore)

	sched := scheduler.New(refreshService, logger, cfg.RefreshInterval)
	if _, ok := recordStore.Snapshot(ctx); ok {
		// Serve the persisted snapshot before the first refresh lands.
		sched.MarkWarm()
	}

	handler := httpapi.NewHandler(standingsService, historyService, gamesService, refreshService, sched, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Scheduler: sched,
		db:        db,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
