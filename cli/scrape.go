package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nba-boxscore-scraper/config"
	"nba-boxscore-scraper/scraper/bref"
	"nba-boxscore-scraper/storage"
)

func newScrapeCmd(a *app) *cobra.Command {
	var seasons string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Download schedule and box score pages into the cache",
		Long: `Fetches every monthly schedule page of the selected seasons and every box
score they link to. Pages already in the cache are not fetched again, so an
interrupted crawl can simply be restarted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seasons != "" {
				parsed, err := config.ParseSeasons(seasons)
				if err != nil {
					return err
				}
				if len(parsed) == 0 {
					return fmt.Errorf("--seasons selected no seasons")
				}
				a.cfg.Seasons = parsed
			}
			return a.runScrape(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&seasons, "seasons", "", "Seasons to crawl, e.g. 2016-2024 or 2019,2021 (default from SEASONS)")
	flags.StringVar(&a.cfg.BaseURL, "base-url", a.cfg.BaseURL, "Site root")
	flags.IntVar(&a.cfg.MaxRetries, "retries", a.cfg.MaxRetries, "Attempts per page")
	flags.DurationVar(&a.cfg.BaseDelay, "delay", a.cfg.BaseDelay, "Base delay; attempt n waits n times this")
	flags.DurationVar(&a.cfg.FetchTimeout, "timeout", a.cfg.FetchTimeout, "Navigation timeout per attempt")
	flags.BoolVar(&a.cfg.Headless, "headless", a.cfg.Headless, "Run Chrome headless")

	return cmd
}

func (a *app) runScrape(cmd *cobra.Command) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("NBA box score scraper")
	logger.Info("Seasons: %s | Retries: %d | Base delay: %v | Timeout: %v",
		formatSeasons(cfg.Seasons), cfg.MaxRetries, cfg.BaseDelay, cfg.FetchTimeout)

	standings, err := storage.NewHTMLStore(cfg.StandingsDir)
	if err != nil {
		return fmt.Errorf("initializing standings cache: %w", err)
	}
	scores, err := storage.NewHTMLStore(cfg.ScoresDir)
	if err != nil {
		return fmt.Errorf("initializing scores cache: %w", err)
	}

	renderer := bref.NewChromeRenderer(cfg.Headless, cfg.FetchTimeout, logger)
	fetcher := bref.NewFetcher(renderer, cfg.MaxRetries, cfg.BaseDelay, logger)
	crawler := bref.NewCrawler(fetcher, cfg.BaseURL, standings, scores, logger)

	stats, err := crawler.ScrapeAll(cmd.Context(), cfg.Seasons)
	if err != nil {
		return fmt.Errorf("crawl stopped: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), " Done! %d pages fetched, %d cached, %d empty → %s\n",
		stats.Fetched, stats.Cached, stats.Empty, cfg.DataDir)
	return nil
}

func formatSeasons(seasons []int) string {
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, ",")
}
