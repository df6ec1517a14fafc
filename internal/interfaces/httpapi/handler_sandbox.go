package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/roster"
	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

type sandboxStandingsRequest struct {
	Assignment map[string][]string `json:"assignment" validate:"required,min=1"`
}

// SandboxStandings recomputes the leaderboard under a proposed
// reassignment of the drafted pool without persisting anything.
func (h *Handler) SandboxStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SandboxStandings")
	defer span.End()

	var req sandboxStandingsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.standingsService.Sandbox(ctx, roster.Assignment(req.Assignment))
	if err != nil {
		h.logger.WarnContext(ctx, "sandbox standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(ctx, view))
}
