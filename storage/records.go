package storage

import (
	"math"
	"strconv"

	"nba-boxscore-scraper/models"
)

const dateLayout = "2006-01-02"

// statsMap keys a stat vector by schema column; NaN becomes nil so the map
// can be encoded as JSON.
func statsMap(schema []string, values []float64) map[string]interface{} {
	m := make(map[string]interface{}, len(schema))
	for i, c := range schema {
		if _, dup := m[c]; dup {
			continue
		}
		if i >= len(values) || math.IsNaN(values[i]) {
			m[c] = nil
			continue
		}
		m[c] = values[i]
	}
	return m
}

// recordDocument is the JSON shape of one dataset row
func recordDocument(schema []string, r models.GameRecord) map[string]interface{} {
	return map[string]interface{}{
		"team":      r.Team,
		"total":     r.Total,
		"home":      r.Home,
		"stats":     statsMap(schema, r.Stats),
		"team_opp":  r.Opp.Team,
		"total_opp": r.Opp.Total,
		"home_opp":  r.Opp.Home,
		"stats_opp": statsMap(schema, r.Opp.Stats),
		"season":    r.Season,
		"date":      r.Date.Format(dateLayout),
		"won":       r.Won,
	}
}

// formatFloat renders a stat for flat files; NaN is an empty cell
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// flatRow renders record i in the column order of Dataset.Header
func flatRow(ds *models.Dataset, r models.GameRecord) []string {
	row := make([]string, 0, 2*len(ds.Schema)+9)
	for i := range ds.Schema {
		row = append(row, formatFloat(valueAt(r.Stats, i)))
	}
	row = append(row, r.Team, strconv.Itoa(r.Total), strconv.Itoa(r.Home))
	for i := range ds.Schema {
		row = append(row, formatFloat(valueAt(r.Opp.Stats, i)))
	}
	row = append(row, r.Opp.Team, strconv.Itoa(r.Opp.Total), strconv.Itoa(r.Opp.Home),
		r.Season, r.Date.Format(dateLayout), formatBool(r.Won))
	return row
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return math.NaN()
}
