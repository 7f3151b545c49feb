package models

import (
	"math"
	"time"
)

// Stat categories published for every team in a box score
const (
	CategoryBasic    = "basic"
	CategoryAdvanced = "advanced"
)

// LineScoreRow is one team's entry in the line score table
type LineScoreRow struct {
	Team  string
	Total int
}

// StatTable holds one team's numeric box score for one category.
// Rows are the player rows followed by the team totals row; missing
// cells are NaN.
type StatTable struct {
	Team     string
	Category string
	Columns  []string
	Rows     [][]float64
}

// Totals returns the trailing team totals row
func (t *StatTable) Totals() []float64 {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[len(t.Rows)-1]
}

// Players returns every row except the team totals row
func (t *StatTable) Players() [][]float64 {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[:len(t.Rows)-1]
}

// Summary is a team's fixed-width stat vector for one game
type Summary struct {
	Columns []string
	Values  []float64
}

// Get returns the value of the first column called name
func (s Summary) Get(name string) (float64, bool) {
	for i, c := range s.Columns {
		if c == name {
			return s.Values[i], true
		}
	}
	return math.NaN(), false
}

// TeamGame is one side of a game: its stats aligned to the run schema plus
// the line score fields.
type TeamGame struct {
	Stats []float64
	Team  string
	Total int
	Home  int
}

// GameRecord is one team's row in the dataset, carrying the opponent's view
// of the same game.
type GameRecord struct {
	TeamGame
	Opp    TeamGame
	Season string
	Date   time.Time
	Won    bool
}

// Dataset is the ordered concatenation of all game records of a run
type Dataset struct {
	RunID   string
	Schema  []string
	Records []GameRecord
}

// Append adds the rows of one game
func (d *Dataset) Append(records ...GameRecord) {
	d.Records = append(d.Records, records...)
}

// Len returns the number of team-game rows
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Header returns the flat column names in output order
func (d *Dataset) Header() []string {
	header := make([]string, 0, 2*len(d.Schema)+9)
	header = append(header, d.Schema...)
	header = append(header, "team", "total", "home")
	for _, c := range d.Schema {
		header = append(header, c+"_opp")
	}
	header = append(header, "team_opp", "total_opp", "home_opp", "season", "date", "won")
	return header
}
