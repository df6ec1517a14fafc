package games

// Game is one scoreboard row. Scores are zero until the game tips off.
type Game struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Status    string `json:"status"`
}

// Scoreboard holds one day of games, date formatted YYYY-MM-DD.
type Scoreboard struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// GameLogEntry is one played game from a franchise game log, used to
// rebuild the season race series.
type GameLogEntry struct {
	Team string `json:"team"`
	Date string `json:"date"`
	Won  bool   `json:"won"`
}
