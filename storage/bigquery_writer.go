package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"unicode"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/googleapi"

	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"
)

const bigQueryChunkSize = 500

// BigQueryWriter streams dataset rows into a BigQuery table, creating the
// table from the run schema when it does not exist yet.
type BigQueryWriter struct {
	client  *bigquery.Client
	dataset string
	table   string
	logger  *utils.Logger
}

// NewBigQueryWriter creates a client for projectID using Application Default
// Credentials
func NewBigQueryWriter(ctx context.Context, projectID, dataset, table string, logger *utils.Logger) (*BigQueryWriter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryWriter: creating client: %w", err)
	}
	return &BigQueryWriter{client: client, dataset: dataset, table: table, logger: logger}, nil
}

func (w *BigQueryWriter) Name() string { return "bigquery" }

// WriteDataset ensures the table exists and inserts the records in chunks
func (w *BigQueryWriter) WriteDataset(ctx context.Context, ds *models.Dataset) error {
	if ds.Len() == 0 {
		return nil
	}

	fields := bigQueryFields(ds.Schema)
	tbl := w.client.Dataset(w.dataset).Table(w.table)
	if err := ensureTable(ctx, tbl, tableSchema(fields)); err != nil {
		return fmt.Errorf("WriteDataset: %w", err)
	}

	ins := tbl.Inserter()
	for start := 0; start < ds.Len(); start += bigQueryChunkSize {
		end := start + bigQueryChunkSize
		if end > ds.Len() {
			end = ds.Len()
		}
		rows := make([]*gameRow, 0, end-start)
		for _, r := range ds.Records[start:end] {
			rows = append(rows, &gameRow{fields: fields, runID: ds.RunID, record: r})
		}
		if err := ins.Put(ctx, rows); err != nil {
			return fmt.Errorf("WriteDataset: inserting rows %d-%d: %w", start, end-1, err)
		}
	}

	w.logger.Info("Inserted %d rows into BigQuery table %s.%s", ds.Len(), w.dataset, w.table)
	return nil
}

// Close closes the BigQuery client
func (w *BigQueryWriter) Close() error {
	return w.client.Close()
}

func ensureTable(ctx context.Context, tbl *bigquery.Table, schema bigquery.Schema) error {
	_, err := tbl.Metadata(ctx)
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return fmt.Errorf("reading table metadata: %w", err)
	}
	if err := tbl.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

// bigQueryFields maps each schema column to a legal field name. Later
// duplicates map to "" and are skipped.
func bigQueryFields(schema []string) []string {
	seen := make(map[string]bool, len(schema))
	fields := make([]string, len(schema))
	for i, c := range schema {
		name := FieldName(c)
		if seen[name] {
			continue
		}
		seen[name] = true
		fields[i] = name
	}
	return fields
}

func tableSchema(fields []string) bigquery.Schema {
	var schema bigquery.Schema
	for _, suffix := range []string{"", "_opp"} {
		for _, f := range fields {
			if f != "" {
				schema = append(schema, &bigquery.FieldSchema{Name: f + suffix, Type: bigquery.FloatFieldType})
			}
		}
		schema = append(schema,
			&bigquery.FieldSchema{Name: "team" + suffix, Type: bigquery.StringFieldType, Required: true},
			&bigquery.FieldSchema{Name: "total" + suffix, Type: bigquery.IntegerFieldType, Required: true},
			&bigquery.FieldSchema{Name: "home" + suffix, Type: bigquery.IntegerFieldType, Required: true},
		)
	}
	return append(schema,
		&bigquery.FieldSchema{Name: "season", Type: bigquery.StringFieldType},
		&bigquery.FieldSchema{Name: "date", Type: bigquery.DateFieldType, Required: true},
		&bigquery.FieldSchema{Name: "won", Type: bigquery.BooleanFieldType, Required: true},
		&bigquery.FieldSchema{Name: "run_id", Type: bigquery.StringFieldType},
	)
}

// FieldName turns a stat column such as "fg%" or "+/-" into a BigQuery
// column name.
func FieldName(column string) string {
	s := strings.ToLower(column)
	s = strings.ReplaceAll(s, "+/-", "plus_minus")
	s = strings.ReplaceAll(s, "%", "_pct")
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}

// gameRow implements bigquery.ValueSaver for one dataset record
type gameRow struct {
	fields []string
	runID  string
	record models.GameRecord
}

func (g *gameRow) Save() (map[string]bigquery.Value, string, error) {
	r := g.record
	row := make(map[string]bigquery.Value, 2*len(g.fields)+10)
	side := func(suffix string, tg models.TeamGame) {
		for i, f := range g.fields {
			if f == "" {
				continue
			}
			if v := valueAt(tg.Stats, i); !math.IsNaN(v) {
				row[f+suffix] = v
			}
		}
		row["team"+suffix] = tg.Team
		row["total"+suffix] = tg.Total
		row["home"+suffix] = tg.Home
	}
	side("", r.TeamGame)
	side("_opp", r.Opp)
	row["season"] = r.Season
	row["date"] = civil.DateOf(r.Date)
	row["won"] = r.Won
	row["run_id"] = g.runID

	insertID := fmt.Sprintf("%s-%s-%s", g.runID, r.Date.Format(dateLayout), r.Team)
	return row, insertID, nil
}
