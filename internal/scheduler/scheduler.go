package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

const defaultInterval = 24 * time.Hour

type refresher interface {
	Refresh(ctx context.Context) (usecase.RefreshResult, error)
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop has a recent success and is not
// failing repeatedly. A warm cache loaded from disk counts via
// MarkWarm.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// Scheduler runs the refresh on a fixed interval, with an immediate run
// on boot so a fresh deployment serves data right away.
type Scheduler struct {
	refresher refresher
	logger    *logging.Logger
	interval  time.Duration
	now       func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

func New(refresher refresher, logger *logging.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{
		refresher: refresher,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins the loop until the context is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.logger.Info("refresh scheduler started", "interval", s.interval.String())
		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				s.stopTicker()
				s.logger.Info("refresh scheduler stopped")
				return
			case <-s.done:
				s.stopTicker()
				s.logger.Info("refresh scheduler stopped")
				return
			case <-s.ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.stopTicker()
	})
}

// MarkWarm records a synthetic success, used when a persisted snapshot
// already covers the data the first refresh would fetch.
func (s *Scheduler) MarkWarm() {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastSuccess = s.now()
}

func (s *Scheduler) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := s.now()
	s.recordAttempt(start)

	result, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.recordFailure(err, start)
		s.logger.ErrorContext(ctx, "scheduled refresh failed", "error", err)
		return
	}

	s.recordSuccess(start)
	s.logger.InfoContext(ctx, "scheduled refresh completed",
		"teams", result.Teams,
		"scoreboards", result.Scoreboards,
	)
}

func (s *Scheduler) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func (s *Scheduler) recordAttempt(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastAttempt = at
}

func (s *Scheduler) recordSuccess(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastSuccess = at
}

func (s *Scheduler) recordFailure(err error, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures++
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.LastAttempt = at
}
