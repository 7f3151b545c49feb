package boxscore

import (
	"math"
	"strings"

	"nba-boxscore-scraper/models"
)

// excludedStat is dropped from the frozen schema; it is not published for
// every season.
const excludedStat = "bpm"

// BuildSummary concatenates the team totals rows of both tables with the
// per-column maxima over the player rows. Names are lower-cased and the
// maxima get a "_max" suffix.
func BuildSummary(basic, advanced *models.StatTable) models.Summary {
	var s models.Summary

	for _, t := range []*models.StatTable{basic, advanced} {
		totals := t.Totals()
		for i, c := range t.Columns {
			s.Columns = append(s.Columns, strings.ToLower(c))
			s.Values = append(s.Values, valueAt(totals, i))
		}
	}

	for _, t := range []*models.StatTable{basic, advanced} {
		maxes := columnMax(t.Players(), len(t.Columns))
		for i, c := range t.Columns {
			s.Columns = append(s.Columns, strings.ToLower(c)+"_max")
			s.Values = append(s.Values, maxes[i])
		}
	}

	return s
}

// columnMax returns the NaN-skipping maximum of each column; a column with
// no numbers at all stays NaN.
func columnMax(rows [][]float64, width int) []float64 {
	maxes := make([]float64, width)
	for i := range maxes {
		maxes[i] = math.NaN()
	}
	for _, row := range rows {
		for i := 0; i < width; i++ {
			v := valueAt(row, i)
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(maxes[i]) || v > maxes[i] {
				maxes[i] = v
			}
		}
	}
	return maxes
}

func valueAt(row []float64, i int) float64 {
	if i < len(row) {
		return row[i]
	}
	return math.NaN()
}

// Schema is the column layout every summary of a run is reindexed to. The
// zero value is not frozen yet.
type Schema struct {
	columns []string
	frozen  bool
}

// FreezeSchema derives the run schema from a summary: duplicate names keep
// their first position and any name containing "bpm" is dropped.
func FreezeSchema(s models.Summary) Schema {
	seen := make(map[string]bool, len(s.Columns))
	columns := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		if strings.Contains(c, excludedStat) {
			continue
		}
		columns = append(columns, c)
	}
	return Schema{columns: columns, frozen: true}
}

// NewSchema returns a frozen schema with the given columns
func NewSchema(columns []string) Schema {
	return Schema{columns: append([]string(nil), columns...), frozen: true}
}

// Frozen reports whether the schema has been fixed
func (sc Schema) Frozen() bool {
	return sc.frozen
}

// Columns returns a copy of the schema's column names
func (sc Schema) Columns() []string {
	return append([]string(nil), sc.columns...)
}

// Reindex projects a summary onto the schema. Columns the summary lacks
// become NaN and columns the schema lacks are dropped. When a name appears
// more than once in the summary the first occurrence is used.
func (sc Schema) Reindex(s models.Summary) models.Summary {
	first := make(map[string]int, len(s.Columns))
	for i, c := range s.Columns {
		if _, ok := first[c]; !ok {
			first[c] = i
		}
	}

	out := models.Summary{
		Columns: sc.Columns(),
		Values:  make([]float64, len(sc.columns)),
	}
	for i, c := range sc.columns {
		if j, ok := first[c]; ok {
			out.Values[i] = s.Values[j]
		} else {
			out.Values[i] = math.NaN()
		}
	}
	return out
}

// Conform freezes the schema from s if it is not frozen yet, then reindexes s
func (sc *Schema) Conform(s models.Summary) models.Summary {
	if !sc.frozen {
		*sc = FreezeSchema(s)
	}
	return sc.Reindex(s)
}
