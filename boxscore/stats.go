package boxscore

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"nba-boxscore-scraper/models"
)

const excerptLen = 500

// StatTableID is the element id of a team's box score table
func StatTableID(team, category string) string {
	return fmt.Sprintf("box-%s-game-%s", team, category)
}

// ReadStats reads one team's basic or advanced box score. The first column
// (player name) is the row index and not a stat. Failures are returned as
// *StatsError, which matches ErrStatsUnavailable.
func ReadStats(doc *goquery.Document, team, category string) (*models.StatTable, error) {
	table, err := ReadTable(doc, StatTableID(team, category))
	if err != nil {
		return nil, &StatsError{
			Team:     team,
			Category: category,
			Excerpt:  excerpt(doc, excerptLen),
			Err:      err,
		}
	}

	columns, _, values := table.Numeric(0)
	return &models.StatTable{
		Team:     team,
		Category: category,
		Columns:  columns,
		Rows:     values,
	}, nil
}
