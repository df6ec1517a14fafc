package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
	"github.com/drafthoops/nba-draft-tracker/internal/scheduler"
	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

// ReadinessReporter exposes the refresh loop health for /readyz.
type ReadinessReporter interface {
	Status() scheduler.Status
}

type Handler struct {
	standingsService *usecase.StandingsService
	historyService   *usecase.HistoryService
	gamesService     *usecase.GamesService
	refreshService   *usecase.RefreshService
	readiness        ReadinessReporter
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	standingsService *usecase.StandingsService,
	historyService *usecase.HistoryService,
	gamesService *usecase.GamesService,
	refreshService *usecase.RefreshService,
	readiness ReadinessReporter,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		standingsService: standingsService,
		historyService:   historyService,
		gamesService:     gamesService,
		refreshService:   refreshService,
		readiness:        readiness,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if h.readiness == nil {
		writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	status := h.readiness.Status()
	payload := readinessDTO{
		ConsecutiveFailures: status.ConsecutiveFailures,
		LastError:           status.LastError,
	}
	if !status.LastAttempt.IsZero() {
		payload.LastAttempt = status.LastAttempt.UTC().Format(time.RFC3339)
	}
	if !status.LastSuccess.IsZero() {
		payload.LastSuccess = status.LastSuccess.UTC().Format(time.RFC3339)
	}

	if !status.IsReady() {
		payload.Status = "not_ready"
		writeJSON(ctx, w, http.StatusServiceUnavailable, googleResponseEnvelope{
			APIVersion: googleAPIVersion,
			Data:       payload,
		})
		return
	}

	payload.Status = "ready"
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type readinessDTO struct {
	Status              string `json:"status"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	LastError           string `json:"lastError,omitempty"`
	LastAttempt         string `json:"lastAttempt,omitempty"`
	LastSuccess         string `json:"lastSuccess,omitempty"`
}
