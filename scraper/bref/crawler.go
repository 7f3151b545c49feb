package bref

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nba-boxscore-scraper/storage"
	"nba-boxscore-scraper/utils"
)

// Selectors of the page fragments that are cached
const (
	SeasonFilterSelector = "#content .filter"
	ScheduleSelector     = "#all_schedule"
	BoxScoreSelector     = "#content"
)

// Crawler walks season schedules down to individual box scores, caching each
// fragment on disk. Pages already cached are never fetched again.
type Crawler struct {
	fetcher   *Fetcher
	baseURL   string
	standings storage.PageStore
	scores    storage.PageStore
	tracker   *utils.URLTracker
	logger    *utils.Logger
}

// CrawlStats counts what a crawl did
type CrawlStats struct {
	Fetched int
	Cached  int
	Empty   int
}

func (s *CrawlStats) add(o CrawlStats) {
	s.Fetched += o.Fetched
	s.Cached += o.Cached
	s.Empty += o.Empty
}

// NewCrawler creates a Crawler rooted at baseURL
func NewCrawler(fetcher *Fetcher, baseURL string, standings, scores storage.PageStore, logger *utils.Logger) *Crawler {
	return &Crawler{
		fetcher:   fetcher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		standings: standings,
		scores:    scores,
		tracker:   utils.NewURLTracker(),
		logger:    logger,
	}
}

// SeasonURL returns the schedule index page of a season
func (c *Crawler) SeasonURL(season int) string {
	return fmt.Sprintf("%s/leagues/NBA_%d_games.html", c.baseURL, season)
}

// ScrapeSeason caches the monthly schedule pages of one season
func (c *Crawler) ScrapeSeason(ctx context.Context, season int) (CrawlStats, error) {
	var stats CrawlStats

	html, err := c.fetcher.Fetch(ctx, c.SeasonURL(season), SeasonFilterSelector)
	if err != nil {
		return stats, fmt.Errorf("season %d: %w", season, err)
	}
	if html == "" {
		c.logger.Warn("Season %d: no schedule filter found, skipping", season)
		return stats, nil
	}

	links, err := c.extractLinks(html, func(string) bool { return true })
	if err != nil {
		return stats, fmt.Errorf("season %d: %w", season, err)
	}
	c.logger.Info("Season %d: found %d schedule pages", season, len(links))

	for _, link := range links {
		s, err := c.cachePage(ctx, c.standings, link, ScheduleSelector)
		if err != nil {
			return stats, fmt.Errorf("season %d: %w", season, err)
		}
		stats.add(s)
	}
	return stats, nil
}

// ScrapeGames caches every box score linked from a saved schedule page
func (c *Crawler) ScrapeGames(ctx context.Context, standingsFile string) (CrawlStats, error) {
	var stats CrawlStats

	rc, err := c.standings.Open(standingsFile)
	if err != nil {
		return stats, err
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return stats, fmt.Errorf("reading %s: %w", standingsFile, err)
	}

	links, err := c.extractLinks(string(raw), IsBoxScoreLink)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", standingsFile, err)
	}
	c.logger.Info("%s: %d box score links", standingsFile, len(links))

	for _, link := range links {
		if !c.tracker.Add(link) {
			continue
		}
		s, err := c.cachePage(ctx, c.scores, link, BoxScoreSelector)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", standingsFile, err)
		}
		stats.add(s)
	}
	return stats, nil
}

// ScrapeAll caches the schedules of every season, then the box scores linked
// from the schedule pages of those seasons
func (c *Crawler) ScrapeAll(ctx context.Context, seasons []int) (CrawlStats, error) {
	var total CrawlStats

	for _, season := range seasons {
		s, err := c.ScrapeSeason(ctx, season)
		total.add(s)
		if err != nil {
			return total, err
		}
	}

	files, err := c.standings.List()
	if err != nil {
		return total, err
	}
	for _, season := range seasons {
		for _, f := range files {
			if !strings.Contains(f, strconv.Itoa(season)) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return total, err
			}
			s, err := c.ScrapeGames(ctx, f)
			total.add(s)
			if err != nil {
				return total, err
			}
		}
	}

	c.logger.Info("Crawl finished: %d fetched, %d already cached, %d empty", total.Fetched, total.Cached, total.Empty)
	return total, nil
}

// cachePage fetches selector on link into store unless it is already there.
// Empty fragments are not saved so a later run tries again.
func (c *Crawler) cachePage(ctx context.Context, store storage.PageStore, link, selector string) (CrawlStats, error) {
	name := PageName(link)
	if store.Exists(name) {
		return CrawlStats{Cached: 1}, nil
	}

	html, err := c.fetcher.Fetch(ctx, link, selector)
	if err != nil {
		return CrawlStats{}, err
	}
	if html == "" {
		c.logger.Warn("Empty page %s, not saved", link)
		return CrawlStats{Empty: 1}, nil
	}
	if err := store.Save(name, html); err != nil {
		return CrawlStats{}, err
	}
	c.logger.Debug("Saved %s", name)
	return CrawlStats{Fetched: 1}, nil
}

// extractLinks returns the absolute URLs of every a[href] accepted by keep,
// in document order without duplicates
func (c *Crawler) extractLinks(html string, keep func(href string) bool) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing links: %w", err)
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !keep(href) {
			return
		}
		abs := c.absolute(href)
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})
	return links, nil
}

func (c *Crawler) absolute(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.IsAbs() {
		return href
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return c.baseURL + href
	}
	return base.ResolveReference(u).String()
}

// IsBoxScoreLink reports whether href points at a game box score page
func IsBoxScoreLink(href string) bool {
	return strings.Contains(href, "boxscore") && strings.Contains(href, ".html")
}

// PageName is the cache file name of a page URL: the last path segment
func PageName(link string) string {
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(link)
}
