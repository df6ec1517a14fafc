package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/history"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/standings"
	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	view, err := h.standingsService.Real(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(ctx, view))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.standingsService.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamCatalogDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamCatalogDTO{
			Name:   item.Name,
			Owner:  item.Owner,
			Wins:   item.Wins,
			Losses: item.Losses,
			WinPct: item.WinPct,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetStandingsHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandingsHistory")
	defer span.End()

	entries, err := h.historyService.Series(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, historyEntryToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	boards, err := h.gamesService.List(ctx, r.URL.Query().Get("day"))
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoreboardDTO, 0, len(boards))
	for _, board := range boards {
		items = append(items, scoreboardToDTO(ctx, board))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type standingsDTO struct {
	FetchedAt string            `json:"fetchedAt"`
	Owners    []ownerSummaryDTO `json:"owners"`
}

type ownerSummaryDTO struct {
	Rank           int           `json:"rank"`
	Owner          string        `json:"owner"`
	TotalWins      int           `json:"totalWins"`
	TotalLosses    int           `json:"totalLosses"`
	WinPct         float64       `json:"winPct"`
	PointDiff      float64       `json:"pointDiff"`
	AvgPointDiff   float64       `json:"avgPointDiff"`
	GamesPlayed    int           `json:"gamesPlayed"`
	GamesRemaining int           `json:"gamesRemaining"`
	Teams          []teamLineDTO `json:"teams"`
}

type teamLineDTO struct {
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPct        float64 `json:"winPct"`
	PointsPerGame float64 `json:"pointsPerGame"`
}

type teamCatalogDTO struct {
	Name   string  `json:"name"`
	Owner  string  `json:"owner,omitempty"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	WinPct float64 `json:"winPct"`
}

type historyEntryDTO struct {
	Date string         `json:"date"`
	Wins map[string]int `json:"wins"`
}

type scoreboardDTO struct {
	Date  string    `json:"date"`
	Games []gameDTO `json:"games"`
}

type gameDTO struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"`
}

func standingsToDTO(ctx context.Context, view usecase.StandingsView) standingsDTO {
	ctx, span := startSpan(ctx, "httpapi.standingsToDTO")
	defer span.End()

	owners := make([]ownerSummaryDTO, 0, len(view.Owners))
	for _, owner := range view.Owners {
		owners = append(owners, ownerSummaryToDTO(ctx, owner))
	}

	return standingsDTO{
		FetchedAt: view.FetchedAt.UTC().Format(time.RFC3339),
		Owners:    owners,
	}
}

func ownerSummaryToDTO(ctx context.Context, v standings.OwnerSummary) ownerSummaryDTO {
	ctx, span := startSpan(ctx, "httpapi.ownerSummaryToDTO")
	defer span.End()

	teams := make([]teamLineDTO, 0, len(v.Teams))
	for _, line := range v.Teams {
		teams = append(teams, teamLineDTO{
			Name:          line.Name,
			Wins:          line.Wins,
			Losses:        line.Losses,
			WinPct:        line.WinPct,
			PointsPerGame: line.PointsPerGame,
		})
	}

	return ownerSummaryDTO{
		Rank:           v.Rank,
		Owner:          v.Owner,
		TotalWins:      v.TotalWins,
		TotalLosses:    v.TotalLosses,
		WinPct:         v.WinPct,
		PointDiff:      v.PointDiff,
		AvgPointDiff:   v.AvgPointDiff,
		GamesPlayed:    v.GamesPlayed,
		GamesRemaining: v.GamesRemaining,
		Teams:          teams,
	}
}

func historyEntryToDTO(ctx context.Context, v history.Entry) historyEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.historyEntryToDTO")
	defer span.End()

	wins := make(map[string]int, len(v.Wins))
	for owner, total := range v.Wins {
		wins[owner] = total
	}
	return historyEntryDTO{Date: v.Date, Wins: wins}
}

func scoreboardToDTO(ctx context.Context, v games.Scoreboard) scoreboardDTO {
	ctx, span := startSpan(ctx, "httpapi.scoreboardToDTO")
	defer span.End()

	items := make([]gameDTO, 0, len(v.Games))
	for _, game := range v.Games {
		items = append(items, gameDTO{
			HomeTeam:  game.HomeTeam,
			AwayTeam:  game.AwayTeam,
			HomeScore: game.HomeScore,
			AwayScore: game.AwayScore,
			Status:    game.Status,
		})
	}
	return scoreboardDTO{Date: v.Date, Games: items}
}
