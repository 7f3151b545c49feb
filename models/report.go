package models

// TeamWins is a team's win count across the dataset
type TeamWins struct {
	Team  string
	Wins  int
	Games int
}

// InsightReport holds aggregated analytics over a dataset
type InsightReport struct {
	Games         int
	TeamRows      int
	StatColumns   int
	Seasons       int
	HomeWins      int
	HomeWinRate   float64
	AveragePoints float64
	TopScoring    *GameRecord
	GamesBySeason map[string]int
	TopTeams      []TeamWins
}
