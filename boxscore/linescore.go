package boxscore

import (
	"fmt"
	"math"

	"github.com/PuerkitoBio/goquery"

	"nba-boxscore-scraper/models"
)

const lineScoreID = "line_score"

// ReadLineScore returns the two teams of a game with their final points, in
// document order: away team first, home team second.
func ReadLineScore(doc *goquery.Document) ([]models.LineScoreRow, error) {
	table, err := ReadTable(doc, lineScoreID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if len(table.Header) < 2 {
		return nil, fmt.Errorf("%w: line score has %d columns", ErrMalformedDocument, len(table.Header))
	}

	// first column is the team, last is the total
	last := len(table.Header) - 1
	rows := make([]models.LineScoreRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		total := ParseNumber(r[last])
		if math.IsNaN(total) {
			return nil, fmt.Errorf("%w: line score total %q for %s is not a number", ErrMalformedDocument, r[last], r[0])
		}
		rows = append(rows, models.LineScoreRow{Team: r[0], Total: int(total)})
	}

	if len(rows) != 2 {
		return nil, fmt.Errorf("%w: line score has %d teams, want 2", ErrMalformedDocument, len(rows))
	}
	return rows, nil
}
