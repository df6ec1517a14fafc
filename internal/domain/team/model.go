package team

import (
	"fmt"
	"strings"
	"time"
)

// SeasonGames is the regular season length for one franchise.
const SeasonGames = 82

// Record is the fetched league record for one franchise. PointsFor and
// PointsAgainst are per-game averages, which is how the stats provider
// reports scoring.
type Record struct {
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

func (r Record) GamesPlayed() int {
	return r.Wins + r.Losses
}

func (r Record) GamesRemaining() int {
	remaining := SeasonGames - r.GamesPlayed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r Record) WinPct() float64 {
	played := r.GamesPlayed()
	if played == 0 {
		return 0
	}
	return float64(r.Wins) / float64(played)
}

// PointDiff is the team's total season point differential.
func (r Record) PointDiff() float64 {
	return (r.PointsFor - r.PointsAgainst) * float64(r.GamesPlayed())
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if r.Wins < 0 || r.Losses < 0 {
		return fmt.Errorf("team %s record cannot be negative", r.Name)
	}
	return nil
}

// RecordSet is the last-committed mapping of franchise name to record,
// stamped with the time the provider fetch completed.
type RecordSet struct {
	FetchedAt time.Time         `json:"fetched_at"`
	Records   map[string]Record `json:"records"`
}

func (s RecordSet) Get(name string) (Record, bool) {
	record, ok := s.Records[name]
	return record, ok
}

// Franchises is the fixed 30-name NBA vocabulary every assignment and
// provider payload is normalized against.
var Franchises = []string{
	"76ers", "Bucks", "Bulls", "Cavaliers", "Celtics", "Clippers",
	"Grizzlies", "Hawks", "Heat", "Hornets", "Jazz", "Kings", "Knicks",
	"Lakers", "Magic", "Mavericks", "Nets", "Nuggets", "Pacers",
	"Pelicans", "Pistons", "Raptors", "Rockets", "Spurs", "Suns",
	"Thunder", "Timberwolves", "Trail Blazers", "Warriors", "Wizards",
}

var franchiseSet = func() map[string]struct{} {
	out := make(map[string]struct{}, len(Franchises))
	for _, name := range Franchises {
		out[strings.ToLower(name)] = struct{}{}
	}
	return out
}()

func IsFranchise(name string) bool {
	_, ok := franchiseSet[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Canonicalize maps a provider team label onto the fixed franchise
// vocabulary. Provider payloads sometimes carry the full market name
// ("Portland Trail Blazers"), so an exact nickname match is tried first
// and a suffix match second.
func Canonicalize(label string) (string, bool) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", false
	}

	lowered := strings.ToLower(trimmed)
	for _, name := range Franchises {
		if strings.ToLower(name) == lowered {
			return name, true
		}
	}
	for _, name := range Franchises {
		if strings.HasSuffix(lowered, strings.ToLower(name)) {
			return name, true
		}
	}

	return "", false
}
