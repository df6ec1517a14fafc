package memory

import "github.com/drafthoops/nba-draft-tracker/internal/domain/roster"

// SeedAssignment is the 2025-26 draft. Six owners, four franchises each;
// the Nets and Jazz went undrafted.
func SeedAssignment() roster.Assignment {
	return roster.Assignment{
		"JJ":    {"Thunder", "Spurs", "Pistons", "Pelicans"},
		"Nate":  {"Magic", "Hawks", "Grizzlies", "Suns"},
		"Chris": {"Warriors", "Pacers", "Mavericks", "Hornets"},
		"Adam":  {"Nuggets", "Celtics", "Heat", "Kings"},
		"Duke":  {"Knicks", "Clippers", "Raptors", "Bulls"},
		"Nick":  {"Rockets", "Timberwolves", "76ers", "Trail Blazers"},
	}
}
