package bref

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"nba-boxscore-scraper/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ChromeRenderer renders pages with a fresh headless Chrome per call
type ChromeRenderer struct {
	headless bool
	timeout  time.Duration
	logger   *utils.Logger
}

// NewChromeRenderer creates a renderer whose navigations give up after timeout
func NewChromeRenderer(headless bool, timeout time.Duration, logger *utils.Logger) *ChromeRenderer {
	return &ChromeRenderer{headless: headless, timeout: timeout, logger: logger}
}

// newContext creates a browser context; cancel releases the browser and the
// allocator
func (r *ChromeRenderer) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Render navigates to url, waits for the body and reads the selector's markup
func (r *ChromeRenderer) Render(ctx context.Context, url, selector string) (string, error) {
	browserCtx, cancel := r.newContext(ctx)
	defer cancel()

	if r.timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, r.timeout)
		defer cancelTimeout()
	}

	var title, html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Title(&title),
	)
	if err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	r.logger.Info("Loaded %q", title)

	if err := chromedp.Run(browserCtx, chromedp.InnerHTML(selector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading %s on %s: %w", selector, url, err)
	}
	return html, nil
}
