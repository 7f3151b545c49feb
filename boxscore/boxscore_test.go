package boxscore

import (
	"errors"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"nba-boxscore-scraper/models"
)

const fixturePath = "testdata/202304150GSW.html"

func loadFixture(t *testing.T) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	doc, err := LoadDocument(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	return doc
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}

func TestCleanDocumentRemovesHeaderRows(t *testing.T) {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	doc, err := ParseDocument(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if n := doc.Find("tr.over_header").Length(); n == 0 {
		t.Fatal("fixture should contain over_header rows")
	}
	if n := doc.Find("tr.thead").Length(); n == 0 {
		t.Fatal("fixture should contain repeated thead rows")
	}

	CleanDocument(doc)
	once, _ := doc.Html()

	if n := doc.Find("tr.over_header, tr.thead").Length(); n != 0 {
		t.Errorf("expected no header rows after cleaning, found %d", n)
	}

	CleanDocument(doc)
	twice, _ := doc.Html()
	if once != twice {
		t.Error("cleaning twice should give the same document as cleaning once")
	}
}

func TestCleanDocumentNoMatches(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader("<table><tr><td>1</td></tr></table>"))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	before, _ := doc.Html()
	CleanDocument(doc)
	after, _ := doc.Html()
	if before != after {
		t.Error("cleaning a document without header rows should not change it")
	}
}

func TestReadSeason(t *testing.T) {
	doc := loadFixture(t)
	season, err := ReadSeason(doc)
	if err != nil {
		t.Fatalf("ReadSeason failed: %v", err)
	}
	if season != "NBA" {
		t.Errorf("ReadSeason() = %q, want %q", season, "NBA")
	}
}

func TestReadSeasonMalformed(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no navigation", `<div id="content"></div>`},
		{"one link", `<div id="bottom_nav_container"><a href="/a/x.html">x</a></div>`},
		{"second link without href", `<div id="bottom_nav_container"><a href="/a/x.html">x</a><a>y</a></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := LoadDocument(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("LoadDocument failed: %v", err)
			}
			if _, err := ReadSeason(doc); !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestSeasonFromHref(t *testing.T) {
	tests := []struct {
		href     string
		expected string
	}{
		{"/b/NBA_2023_games.html", "NBA"},
		{"/teams/GSW/2023_games.html", "2023"},
		{"https://www.basketball-reference.com/leagues/NBA_2019_games.html?x=1", "NBA"},
		{"/a/x.html", "x.html"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			if got := SeasonFromHref(tt.href); got != tt.expected {
				t.Errorf("SeasonFromHref(%q) = %q, expected %q", tt.href, got, tt.expected)
			}
		})
	}
}

func TestReadLineScore(t *testing.T) {
	doc := loadFixture(t)
	rows, err := ReadLineScore(doc)
	if err != nil {
		t.Fatalf("ReadLineScore failed: %v", err)
	}

	want := []models.LineScoreRow{
		{Team: "LAL", Total: 110},
		{Team: "GSW", Total: 115},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ReadLineScore() = %+v, want %+v", rows, want)
	}
}

func TestReadLineScoreMissing(t *testing.T) {
	doc, err := LoadDocument(strings.NewReader(`<div id="content"><p>nothing here</p></div>`))
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	_, err = ReadLineScore(doc)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("expected ErrMalformedDocument, got %v", err)
	}
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected the ErrTableNotFound cause to be kept, got %v", err)
	}
}

func TestReadLineScoreWrongTeamCount(t *testing.T) {
	html := `<table id="line_score"><thead><tr><th></th><th>T</th></tr></thead>
<tbody><tr><th>LAL</th><td>110</td></tr></tbody></table>`
	doc, err := LoadDocument(strings.NewReader(html))
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if _, err := ReadLineScore(doc); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestReadStats(t *testing.T) {
	doc := loadFixture(t)
	table, err := ReadStats(doc, "LAL", models.CategoryBasic)
	if err != nil {
		t.Fatalf("ReadStats failed: %v", err)
	}

	wantCols := []string{"MP", "FG", "FGA", "PTS", "+/-"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("columns = %v, want %v", table.Columns, wantCols)
	}
	// 4 players + team totals, the "Reserves" header row is cleaned away
	if len(table.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(table.Rows))
	}

	lebron := table.Rows[0]
	if !math.IsNaN(lebron[0]) {
		t.Errorf("minutes %v should not parse as a number", lebron[0])
	}
	if lebron[1] != 10 || lebron[4] != 3 {
		t.Errorf("unexpected LeBron row: %v", lebron)
	}

	dnp := table.Rows[3]
	for i, v := range dnp {
		if !math.IsNaN(v) {
			t.Errorf("Did Not Play cell %d = %v, want NaN", i, v)
		}
	}

	totals := table.Totals()
	if totals[0] != 240 || totals[3] != 110 || !math.IsNaN(totals[4]) {
		t.Errorf("unexpected totals row: %v", totals)
	}
}

func TestReadStatsUnavailable(t *testing.T) {
	doc := loadFixture(t)
	_, err := ReadStats(doc, "BOS", models.CategoryAdvanced)
	if !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable, got %v", err)
	}

	var statsErr *StatsError
	if !errors.As(err, &statsErr) {
		t.Fatalf("expected *StatsError, got %T", err)
	}
	if statsErr.Team != "BOS" || statsErr.Category != models.CategoryAdvanced {
		t.Errorf("unexpected error context: %+v", statsErr)
	}
	if statsErr.Excerpt == "" || len(statsErr.Excerpt) > 500 {
		t.Errorf("excerpt length %d, want 1..500", len(statsErr.Excerpt))
	}
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound cause, got %v", err)
	}
}

func TestReadTableShape(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no header", `<table id="t"><thead></thead><tbody></tbody></table>`},
		{"no rows", `<table id="t"><thead><tr><th>a</th></tr></thead><tbody></tbody></table>`},
		{"row wider than header", `<table id="t"><thead><tr><th>a</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("ParseDocument failed: %v", err)
			}
			if _, err := ReadTable(doc, "t"); !errors.Is(err, ErrTableShape) {
				t.Errorf("expected ErrTableShape, got %v", err)
			}
		})
	}
}

func TestReadTableWithoutThead(t *testing.T) {
	html := `<table id="t"><tr><th>name</th><th>x</th></tr><tr><td>a</td><td>1.5</td></tr><tr><td>b</td></tr></table>`
	doc, err := ParseDocument(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	table, err := ReadTable(doc, "t")
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	cols, index, values := table.Numeric(0)
	if !reflect.DeepEqual(cols, []string{"x"}) || !reflect.DeepEqual(index, []string{"a", "b"}) {
		t.Errorf("cols = %v, index = %v", cols, index)
	}
	if values[0][0] != 1.5 || !math.IsNaN(values[1][0]) {
		t.Errorf("values = %v, short row should be padded with NaN", values)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{".565", 0.565},
		{"+8", 8},
		{"-2.0", -2},
		{" 240 ", 240},
		{"", math.NaN()},
		{"Did Not Play", math.NaN()},
		{"36:12", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseNumber(tt.in); !sameFloat(got, tt.want) {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildSummary(t *testing.T) {
	doc := loadFixture(t)
	basic, err := ReadStats(doc, "LAL", models.CategoryBasic)
	if err != nil {
		t.Fatalf("ReadStats basic: %v", err)
	}
	advanced, err := ReadStats(doc, "LAL", models.CategoryAdvanced)
	if err != nil {
		t.Fatalf("ReadStats advanced: %v", err)
	}

	s := BuildSummary(basic, advanced)

	wantCols := []string{
		"mp", "fg", "fga", "pts", "+/-", "mp", "ts%", "ortg", "bpm",
		"mp_max", "fg_max", "fga_max", "pts_max", "+/-_max", "mp_max", "ts%_max", "ortg_max", "bpm_max",
	}
	if !reflect.DeepEqual(s.Columns, wantCols) {
		t.Fatalf("columns = %v, want %v", s.Columns, wantCols)
	}

	checks := map[string]float64{
		"mp":       240,
		"pts":      110,
		"ts%":      0.565,
		"ortg":     112.3,
		"mp_max":   math.NaN(),
		"fg_max":   10,
		"pts_max":  28,
		"+/-_max":  5,
		"ts%_max":  0.62,
		"ortg_max": 120,
		"bpm_max":  5.1,
	}
	for name, want := range checks {
		got, ok := s.Get(name)
		if !ok {
			t.Errorf("column %s missing", name)
			continue
		}
		if !sameFloat(got, want) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

func TestFreezeSchemaDropsBPMAndDuplicates(t *testing.T) {
	s := models.Summary{
		Columns: []string{"mp", "pts", "mp", "bpm", "obpm", "pts_max", "bpm_max"},
		Values:  []float64{240, 110, 241, 1, 2, 30, 5},
	}

	schema := FreezeSchema(s)
	want := []string{"mp", "pts", "pts_max"}
	if !reflect.DeepEqual(schema.Columns(), want) {
		t.Errorf("schema = %v, want %v", schema.Columns(), want)
	}

	re := schema.Reindex(s)
	if re.Values[0] != 240 {
		t.Errorf("duplicate column should take its first value, got %v", re.Values[0])
	}
}

func TestSchemaReindex(t *testing.T) {
	schema := NewSchema([]string{"pts", "reb", "ortg_max"})

	in := models.Summary{
		Columns: []string{"ortg_max", "pts", "ast", "bpm"},
		Values:  []float64{120, 110, 25, 3},
	}
	out := schema.Reindex(in)

	if !reflect.DeepEqual(out.Columns, []string{"pts", "reb", "ortg_max"}) {
		t.Fatalf("columns = %v", out.Columns)
	}
	if out.Values[0] != 110 || !math.IsNaN(out.Values[1]) || out.Values[2] != 120 {
		t.Errorf("values = %v, want [110 NaN 120]", out.Values)
	}

	again := schema.Reindex(out)
	if !reflect.DeepEqual(again.Columns, out.Columns) {
		t.Errorf("reindexing a conforming summary changed columns: %v", again.Columns)
	}
	for i := range out.Values {
		if !sameFloat(again.Values[i], out.Values[i]) {
			t.Errorf("reindexing a conforming summary changed value %d: %v -> %v", i, out.Values[i], again.Values[i])
		}
	}
}

func TestSchemaConformFreezesOnFirstSummary(t *testing.T) {
	var schema Schema
	if schema.Frozen() {
		t.Fatal("zero schema should not be frozen")
	}

	first := models.Summary{Columns: []string{"pts", "reb", "bpm", "ortg_max"}, Values: []float64{1, 2, 3, 4}}
	out := schema.Conform(first)
	if !schema.Frozen() {
		t.Fatal("schema should be frozen after the first summary")
	}
	if !reflect.DeepEqual(out.Columns, []string{"pts", "reb", "ortg_max"}) {
		t.Errorf("first summary columns = %v", out.Columns)
	}

	richer := models.Summary{Columns: []string{"pts", "reb", "ast", "ortg_max", "bpm_max"}, Values: []float64{5, 6, 7, 8, 9}}
	out = schema.Conform(richer)
	if !reflect.DeepEqual(out.Columns, []string{"pts", "reb", "ortg_max"}) {
		t.Errorf("later summary columns = %v, schema should stay frozen", out.Columns)
	}
}

func TestGameDate(t *testing.T) {
	got, err := GameDate("data/scores/20230415ABC.html")
	if err != nil {
		t.Fatalf("GameDate failed: %v", err)
	}
	want := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("GameDate() = %v, want %v", got, want)
	}

	for _, bad := range []string{"2023.html", "2023XX15GSW.html"} {
		if _, err := GameDate(bad); err == nil {
			t.Errorf("GameDate(%q) should fail", bad)
		}
	}
}
