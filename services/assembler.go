package services

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/PuerkitoBio/goquery"

	"nba-boxscore-scraper/boxscore"
	"nba-boxscore-scraper/config"
	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"
)

var (
	// ErrNoTeamStats is returned when neither team's stats could be read
	ErrNoTeamStats = errors.New("no team stats available")
	// ErrPartialGame is returned under the drop policy when one team's stats
	// could not be read
	ErrPartialGame = errors.New("partial game dropped")
)

// Assembler turns one saved box score page into the two rows of a game
type Assembler struct {
	schema *boxscore.Schema
	policy string
	logger *utils.Logger
}

// NewAssembler creates an Assembler that reindexes every summary to schema,
// freezing it on the first summary it builds
func NewAssembler(schema *boxscore.Schema, policy string, logger *utils.Logger) *Assembler {
	if policy != config.PartialDrop {
		policy = config.PartialKeep
	}
	return &Assembler{schema: schema, policy: policy, logger: logger}
}

// Assemble reads the page r saved under name. The first returned record is
// the away team, the second the home team.
func (a *Assembler) Assemble(name string, r io.Reader) ([]models.GameRecord, error) {
	date, err := boxscore.GameDate(name)
	if err != nil {
		return nil, err
	}

	doc, err := boxscore.LoadDocument(r)
	if err != nil {
		return nil, err
	}

	lines, err := boxscore.ReadLineScore(doc)
	if err != nil {
		return nil, err
	}

	season, err := boxscore.ReadSeason(doc)
	if err != nil {
		return nil, err
	}

	summaries, err := a.teamSummaries(name, doc, lines)
	if err != nil {
		return nil, err
	}

	game := make([]models.TeamGame, len(lines))
	for i, line := range lines {
		game[i] = models.TeamGame{
			Stats: summaries[i].Values,
			Team:  line.Team,
			Total: line.Total,
			Home:  i,
		}
	}

	records := make([]models.GameRecord, len(game))
	for i := range game {
		opp := game[len(game)-1-i]
		records[i] = models.GameRecord{
			TeamGame: game[i],
			Opp:      opp,
			Season:   season,
			Date:     date,
			Won:      game[i].Total > opp.Total,
		}
	}
	return records, nil
}

// teamSummaries builds one conformed summary per line score row. Teams whose
// tables fail are logged and skipped; under the keep policy the summaries
// that did build are paired with the line score rows by position and the
// remaining slots are filled with NaN.
func (a *Assembler) teamSummaries(name string, doc *goquery.Document, lines []models.LineScoreRow) ([]models.Summary, error) {
	var summaries []models.Summary
	for _, line := range lines {
		s, err := a.teamSummary(doc, line.Team)
		if err != nil {
			var se *boxscore.StatsError
			if errors.As(err, &se) {
				a.logger.With("file", name).Warn("Skipping %s %s stats: %v", se.Team, se.Category, se.Err)
				a.logger.Debug("Markup excerpt: %s", se.Excerpt)
			} else {
				a.logger.With("file", name).Warn("Skipping %s stats: %v", line.Team, err)
			}
			continue
		}
		summaries = append(summaries, a.schema.Conform(s))
	}

	switch {
	case len(summaries) == 0:
		return nil, ErrNoTeamStats
	case len(summaries) == len(lines):
		return summaries, nil
	case a.policy == config.PartialDrop:
		return nil, fmt.Errorf("%w: %d of %d teams readable", ErrPartialGame, len(summaries), len(lines))
	}

	a.logger.With("file", name).Warn("Only %d of %d teams readable, stats may be paired with the wrong team",
		len(summaries), len(lines))
	for len(summaries) < len(lines) {
		summaries = append(summaries, nanSummary(a.schema.Columns()))
	}
	return summaries, nil
}

func (a *Assembler) teamSummary(doc *goquery.Document, team string) (models.Summary, error) {
	basic, err := boxscore.ReadStats(doc, team, models.CategoryBasic)
	if err != nil {
		return models.Summary{}, err
	}
	advanced, err := boxscore.ReadStats(doc, team, models.CategoryAdvanced)
	if err != nil {
		return models.Summary{}, err
	}
	return boxscore.BuildSummary(basic, advanced), nil
}

func nanSummary(columns []string) models.Summary {
	values := make([]float64, len(columns))
	for i := range values {
		values[i] = math.NaN()
	}
	return models.Summary{Columns: columns, Values: values}
}
