package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"
)

func testDataset() *models.Dataset {
	date := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
	lal := models.TeamGame{Stats: []float64{48, 0.55}, Team: "LAL", Total: 110, Home: 0}
	gsw := models.TeamGame{Stats: []float64{52, math.NaN()}, Team: "GSW", Total: 115, Home: 1}
	return &models.Dataset{
		RunID:  "3f1c2a5e-6d4b-4c1e-9a55-0c8d7f2b1e10",
		Schema: []string{"fg", "ts%"},
		Records: []models.GameRecord{
			{TeamGame: lal, Opp: gsw, Season: "NBA", Date: date, Won: false},
			{TeamGame: gsw, Opp: lal, Season: "NBA", Date: date, Won: true},
		},
	}
}

func quietLogger() *utils.Logger {
	return utils.NewLoggerWithWriter(&bytes.Buffer{}, "error")
}

func TestCSVWriterLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nba_games.csv")
	w := NewCSVWriter(path, quietLogger())

	if err := w.WriteDataset(context.Background(), testDataset()); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	wantHeader := []string{"", "fg", "ts%", "team", "total", "home", "fg_opp", "ts%_opp",
		"team_opp", "total_opp", "home_opp", "season", "date", "won"}
	if strings.Join(rows[0], ",") != strings.Join(wantHeader, ",") {
		t.Errorf("header = %v\nwant %v", rows[0], wantHeader)
	}

	want := []string{"1", "52", "", "GSW", "115", "1", "48", "0.55", "LAL", "110", "0", "NBA", "2023-04-15", "True"}
	if strings.Join(rows[2], ",") != strings.Join(want, ",") {
		t.Errorf("row = %v\nwant %v", rows[2], want)
	}
	if rows[1][len(rows[1])-1] != "False" {
		t.Errorf("away row should not be a win: %v", rows[1])
	}
}

func TestHTMLStore(t *testing.T) {
	store, err := NewHTMLStore(filepath.Join(t.TempDir(), "scores"))
	if err != nil {
		t.Fatalf("NewHTMLStore: %v", err)
	}

	if store.Exists("202304150GSW.html") {
		t.Error("empty store should not contain pages")
	}
	if err := store.Save("202304150GSW.html", "<div>box</div>"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("202304140BOS.html", "<div>box</div>"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !store.Exists("202304150GSW.html") {
		t.Error("saved page should exist")
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "202304140BOS.html" || names[1] != "202304150GSW.html" {
		t.Errorf("List() = %v", names)
	}

	rc, err := store.Open("202304150GSW.html")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<div>box</div>" {
		t.Errorf("content = %q", buf.String())
	}
}

func TestStatsMap(t *testing.T) {
	m := statsMap([]string{"mp", "fg", "mp"}, []float64{240, math.NaN(), 48})
	if m["mp"] != 240.0 {
		t.Errorf("first duplicate should win, got %v", m["mp"])
	}
	if v, ok := m["fg"]; !ok || v != nil {
		t.Errorf("NaN should encode as nil, got %v", v)
	}
	if _, err := json.Marshal(m); err != nil {
		t.Errorf("stats map must be JSON encodable: %v", err)
	}
}

func TestStreamValues(t *testing.T) {
	ds := testDataset()
	values, err := streamValues(ds, ds.Records[1])
	if err != nil {
		t.Fatalf("streamValues: %v", err)
	}
	if values["team"] != "GSW" || values["date"] != "2023-04-15" || values["run_id"] != ds.RunID {
		t.Errorf("unexpected identity fields: %v", values)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(values["data"].(string)), &doc); err != nil {
		t.Fatalf("data is not JSON: %v", err)
	}
	if doc["won"] != true || doc["team_opp"] != "LAL" {
		t.Errorf("unexpected document: %v", doc)
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fg", "fg"},
		{"fg%", "fg_pct"},
		{"+/-", "plus_minus"},
		{"3p", "_3p"},
		{"3p%_max", "_3p_pct_max"},
		{"usg%", "usg_pct"},
		{"ORtg", "ortg"},
	}
	for _, tt := range tests {
		if got := FieldName(tt.in); got != tt.want {
			t.Errorf("FieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGameRowSave(t *testing.T) {
	ds := testDataset()
	row := &gameRow{fields: bigQueryFields(ds.Schema), runID: ds.RunID, record: ds.Records[1]}

	values, insertID, err := row.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if insertID != ds.RunID+"-2023-04-15-GSW" {
		t.Errorf("insertID = %q", insertID)
	}
	if values["fg"] != 52.0 || values["fg_opp"] != 48.0 {
		t.Errorf("unexpected stats: %v", values)
	}
	if _, ok := values["ts_pct"]; ok {
		t.Error("NaN stats should be left out so they load as NULL")
	}
	if values["won"] != true || values["home"] != 1 {
		t.Errorf("unexpected identity fields: %v", values)
	}
}

func TestDatasetObjectName(t *testing.T) {
	got := DatasetObjectName("exports", "run-1", "/data/nba_games.csv")
	if got != "exports/run-1/nba_games.csv" {
		t.Errorf("DatasetObjectName = %q", got)
	}
}

func TestRedisPublisherWithClient(t *testing.T) {
	// nothing listens on port 1; retries are disabled so the failure is immediate
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: time.Second})
	p := NewRedisPublisherWithClient(client, "nba.games.records", quietLogger())
	defer p.Close()

	if p.Name() != "redis" {
		t.Errorf("Name() = %q", p.Name())
	}
	if err := p.WriteDataset(context.Background(), &models.Dataset{}); err != nil {
		t.Errorf("an empty dataset should not touch the server: %v", err)
	}

	err := p.WriteDataset(context.Background(), testDataset())
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if !strings.Contains(err.Error(), "publishing records 0-1") {
		t.Errorf("error should name the failed batch: %v", err)
	}
}
