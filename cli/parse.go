package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nba-boxscore-scraper/config"
	"nba-boxscore-scraper/services"
	"nba-boxscore-scraper/storage"
	"nba-boxscore-scraper/utils"
)

func newParseCmd(a *app) *cobra.Command {
	var noReport bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Build the game dataset from cached box scores",
		Long: `Parses every cached box score into two rows per game (one per team, each
carrying its opponent's stats) and writes them as CSV. Optional sinks
(PostgreSQL, BigQuery, Redis, GCS) are enabled by their environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runParse(cmd, !noReport)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&a.cfg.OutputCSV, "output", a.cfg.OutputCSV, "CSV file to write")
	flags.StringVar(&a.cfg.PartialGames, "partial", a.cfg.PartialGames,
		fmt.Sprintf("Games with one unreadable team: %q or %q", config.PartialKeep, config.PartialDrop))
	flags.BoolVar(&noReport, "no-report", false, "Do not print the insight report")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, report bool) error {
	ctx := cmd.Context()
	cfg, logger := a.cfg, a.logger

	scores, err := storage.NewHTMLStore(cfg.ScoresDir)
	if err != nil {
		return fmt.Errorf("initializing scores cache: %w", err)
	}

	parser := services.NewGameParser(scores, cfg.PartialGames, a.runID, logger)
	ds, err := parser.ParseDir(ctx)
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		logger.Warn("No games parsed from %s", scores.Dir())
	}

	// The CSV is the run's artifact; failing to write it fails the run.
	csvWriter := storage.NewCSVWriter(cfg.OutputCSV, logger)
	if err := csvWriter.WriteDataset(ctx, ds); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}

	sinks := openSinks(ctx, cfg, logger)
	for _, sink := range sinks {
		if err := sink.WriteDataset(ctx, ds); err != nil {
			logger.Error("%s sink failed: %v", sink.Name(), err)
		}
		if err := sink.Close(); err != nil {
			logger.Warn("Closing %s sink: %v", sink.Name(), err)
		}
	}

	if cfg.GCSBucket != "" {
		object := storage.DatasetObjectName(cfg.GCSPrefix, a.runID, csvWriter.Path())
		uri, err := storage.UploadFile(ctx, cfg.GCSBucket, object, csvWriter.Path())
		if err != nil {
			logger.Error("GCS upload failed: %v", err)
		} else {
			logger.Info("Uploaded dataset to %s", uri)
		}
	}

	if report {
		insights := services.NewInsightService(logger).Generate(ds)
		services.PrintInsightReport(cmd.OutOrStdout(), insights)
	}

	fmt.Fprintln(cmd.OutOrStdout(), " Done! Dataset →", csvWriter.Path())
	return nil
}

// openSinks connects every optional sink that is configured. A sink that
// cannot connect is logged and left out.
func openSinks(ctx context.Context, cfg *config.Config, logger *utils.Logger) []storage.DatasetSink {
	var sinks []storage.DatasetSink

	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresWriter(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Cannot connect to PostgreSQL: %v", err)
		} else {
			sinks = append(sinks, pg)
		}
	}

	if cfg.BQProject != "" {
		bq, err := storage.NewBigQueryWriter(ctx, cfg.BQProject, cfg.BQDataset, cfg.BQTable, logger)
		if err != nil {
			logger.Error("Cannot create BigQuery client: %v", err)
		} else {
			sinks = append(sinks, bq)
		}
	}

	if cfg.RedisURL != "" {
		rp, err := storage.NewRedisPublisher(ctx, cfg.RedisURL, cfg.RedisStream, logger)
		if err != nil {
			logger.Error("Cannot connect to Redis: %v", err)
		} else {
			sinks = append(sinks, rp)
		}
	}

	return sinks
}
