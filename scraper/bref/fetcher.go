package bref

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nba-boxscore-scraper/utils"
)

// Fetcher renders pages with linear backoff. It is not a cache; callers
// check the HTML store first.
type Fetcher struct {
	renderer   Renderer
	maxRetries int
	baseDelay  time.Duration
	sleep      utils.Sleeper
	logger     *utils.Logger
}

// NewFetcher creates a Fetcher that makes up to maxRetries attempts, waiting
// baseDelay*n before attempt n
func NewFetcher(renderer Renderer, maxRetries int, baseDelay time.Duration, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		renderer:   renderer,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      utils.SleepContext,
		logger:     logger,
	}
}

// WithSleeper replaces the wait between attempts
func (f *Fetcher) WithSleeper(sleep utils.Sleeper) *Fetcher {
	f.sleep = sleep
	return f
}

// Fetch returns the markup of selector on url. When every attempt times out
// it returns "" and a nil error, meaning the page should be skipped. Any other
// failure is returned.
func (f *Fetcher) Fetch(ctx context.Context, url, selector string) (string, error) {
	var html string
	log := f.logger.With("url", url)

	err := utils.RetryLinear(ctx, f.maxRetries, f.baseDelay, f.sleep, isTimeout,
		func(attempt int) error {
			log.Debug("Fetching %s (attempt %d)", selector, attempt)
			out, err := f.renderer.Render(ctx, url, selector)
			if err != nil {
				return err
			}
			html = out
			return nil
		}, log)

	switch {
	case err == nil:
		return html, nil
	case errors.Is(err, utils.ErrRetriesExhausted):
		log.Warn("Timed out %d times, skipping", f.maxRetries)
		return "", nil
	default:
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
}

// isTimeout reports whether a render failure is worth another attempt
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
