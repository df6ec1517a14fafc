package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

func (h *Handler) RunRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshJob")
	defer span.End()

	if h.refreshService == nil {
		writeError(ctx, w, fmt.Errorf("%w: refresh is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.refreshService.Refresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		FetchedAt:   result.FetchedAt.UTC().Format(time.RFC3339),
		Teams:       result.Teams,
		Scoreboards: result.Scoreboards,
		Shared:      result.Shared,
	})
}

func (h *Handler) RunBackfillHistoryJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillHistoryJob")
	defer span.End()

	if h.historyService == nil {
		writeError(ctx, w, fmt.Errorf("%w: history backfill is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.historyService.Backfill(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run history backfill job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type refreshResultDTO struct {
	FetchedAt   string `json:"fetchedAt"`
	Teams       int    `json:"teams"`
	Scoreboards int    `json:"scoreboards"`
	Shared      bool   `json:"shared"`
}
