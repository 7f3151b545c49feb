package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"

	_ "github.com/lib/pq"
)

// PostgresWriter stores dataset rows in the nba_games table
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter creates a new PostgresWriter and pings the DB
func NewPostgresWriter(connStr string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

func (w *PostgresWriter) Name() string { return "postgres" }

// CreateTable creates the nba_games table if it doesn't exist, with indexes.
// Stats are stored as JSONB because the column set is discovered per run.
func (w *PostgresWriter) CreateTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS nba_games (
		id          SERIAL PRIMARY KEY,
		run_id      UUID         NOT NULL,
		game_date   DATE         NOT NULL,
		season      TEXT,
		team        VARCHAR(8)   NOT NULL,
		total       INTEGER      NOT NULL,
		home        SMALLINT     NOT NULL,
		team_opp    VARCHAR(8)   NOT NULL,
		total_opp   INTEGER      NOT NULL,
		home_opp    SMALLINT     NOT NULL,
		won         BOOLEAN      NOT NULL,
		stats       JSONB        NOT NULL,
		stats_opp   JSONB        NOT NULL,
		loaded_at   TIMESTAMP    NOT NULL DEFAULT NOW(),
		UNIQUE (game_date, team)
	);

	CREATE INDEX IF NOT EXISTS idx_nba_games_season ON nba_games (season);
	CREATE INDEX IF NOT EXISTS idx_nba_games_team   ON nba_games (team);
	CREATE INDEX IF NOT EXISTS idx_nba_games_run    ON nba_games (run_id);
	`
	if _, err := w.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'nba_games' is ready")
	return nil
}

// WriteDataset upserts every record in a single transaction. A re-run
// replaces the rows of games it parsed again.
func (w *PostgresWriter) WriteDataset(ctx context.Context, ds *models.Dataset) (err error) {
	if ds.Len() == 0 {
		return nil
	}
	if err := w.CreateTable(ctx); err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nba_games (run_id, game_date, season, team, total, home,
			team_opp, total_opp, home_opp, won, stats, stats_opp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12::jsonb)
		ON CONFLICT (game_date, team) DO UPDATE SET
			run_id    = EXCLUDED.run_id,
			season    = EXCLUDED.season,
			total     = EXCLUDED.total,
			home      = EXCLUDED.home,
			team_opp  = EXCLUDED.team_opp,
			total_opp = EXCLUDED.total_opp,
			home_opp  = EXCLUDED.home_opp,
			won       = EXCLUDED.won,
			stats     = EXCLUDED.stats,
			stats_opp = EXCLUDED.stats_opp,
			loaded_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range ds.Records {
		stats, err := json.Marshal(statsMap(ds.Schema, r.Stats))
		if err != nil {
			return fmt.Errorf("encoding stats for %s %s: %w", r.Team, r.Date.Format(dateLayout), err)
		}
		statsOpp, err := json.Marshal(statsMap(ds.Schema, r.Opp.Stats))
		if err != nil {
			return fmt.Errorf("encoding opponent stats for %s %s: %w", r.Team, r.Date.Format(dateLayout), err)
		}

		if _, err := stmt.ExecContext(ctx,
			ds.RunID,
			r.Date,
			r.Season,
			r.Team,
			r.Total,
			r.Home,
			r.Opp.Team,
			r.Opp.Total,
			r.Opp.Home,
			r.Won,
			string(stats),
			string(statsOpp),
		); err != nil {
			return fmt.Errorf("inserting %s %s: %w", r.Team, r.Date.Format(dateLayout), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Upserted %d rows into PostgreSQL", ds.Len())
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
