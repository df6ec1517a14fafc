package standings

import (
	"fmt"
	"sort"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/roster"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
)

// TeamLine is the per-franchise breakdown row inside an owner summary.
type TeamLine struct {
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPct        float64 `json:"win_pct"`
	PointsPerGame float64 `json:"points_per_game"`
}

// OwnerSummary aggregates the records of one owner's four franchises.
// AvgPointDiff is the owner's total point differential divided by the
// total games their teams played, so each game weighs the same no matter
// which franchise played it.
type OwnerSummary struct {
	Rank           int        `json:"rank"`
	Owner          string     `json:"owner"`
	TotalWins      int        `json:"total_wins"`
	TotalLosses    int        `json:"total_losses"`
	WinPct         float64    `json:"win_pct"`
	PointDiff      float64    `json:"point_diff"`
	AvgPointDiff   float64    `json:"avg_point_diff"`
	GamesPlayed    int        `json:"games_played"`
	GamesRemaining int        `json:"games_remaining"`
	Teams          []TeamLine `json:"teams"`
}

// Snapshot is a ranked leaderboard computed from one assignment and one
// record set. It is derived data, never persisted.
type Snapshot struct {
	Owners []OwnerSummary `json:"owners"`
}

// Compute aggregates team records into the ranked owner leaderboard. It
// validates the assignment first and touches neither input afterwards, so
// two calls with the same inputs produce identical snapshots.
//
// Ordering: TotalWins descending, WinPct descending, owner name ascending.
func Compute(assignment roster.Assignment, records map[string]team.Record) (Snapshot, error) {
	if err := assignment.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("validate assignment: %w", err)
	}
	if err := assignment.CheckRecords(records); err != nil {
		return Snapshot{}, fmt.Errorf("check records: %w", err)
	}

	owners := make([]OwnerSummary, 0, len(assignment))
	for _, owner := range assignment.Owners() {
		owners = append(owners, summarize(owner, assignment[owner], records))
	}

	sort.SliceStable(owners, func(i, j int) bool {
		if owners[i].TotalWins != owners[j].TotalWins {
			return owners[i].TotalWins > owners[j].TotalWins
		}
		if owners[i].WinPct != owners[j].WinPct {
			return owners[i].WinPct > owners[j].WinPct
		}
		return owners[i].Owner < owners[j].Owner
	})
	for idx := range owners {
		owners[idx].Rank = idx + 1
	}

	return Snapshot{Owners: owners}, nil
}

func summarize(owner string, names []string, records map[string]team.Record) OwnerSummary {
	summary := OwnerSummary{
		Owner: owner,
		Teams: make([]TeamLine, 0, len(names)),
	}

	pointDiff := 0.0
	for _, name := range names {
		record := records[name]
		summary.TotalWins += record.Wins
		summary.TotalLosses += record.Losses
		summary.GamesPlayed += record.GamesPlayed()
		summary.GamesRemaining += record.GamesRemaining()
		pointDiff += record.PointDiff()

		summary.Teams = append(summary.Teams, TeamLine{
			Name:          record.Name,
			Wins:          record.Wins,
			Losses:        record.Losses,
			WinPct:        record.WinPct(),
			PointsPerGame: record.PointsFor,
		})
	}

	summary.PointDiff = pointDiff
	if summary.GamesPlayed > 0 {
		summary.WinPct = float64(summary.TotalWins) / float64(summary.GamesPlayed)
		summary.AvgPointDiff = pointDiff / float64(summary.GamesPlayed)
	}

	sort.SliceStable(summary.Teams, func(i, j int) bool {
		if summary.Teams[i].Wins != summary.Teams[j].Wins {
			return summary.Teams[i].Wins > summary.Teams[j].Wins
		}
		return summary.Teams[i].Name < summary.Teams[j].Name
	})

	return summary
}
