package boxscore

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const seasonNavSelector = "#bottom_nav_container"

// ReadSeason recovers the season identifier from the bottom navigation:
// the basename of the second link, cut at its first underscore.
func ReadSeason(doc *goquery.Document) (string, error) {
	nav := doc.Find(seasonNavSelector).First()
	if nav.Length() == 0 {
		return "", fmt.Errorf("%w: %s not found", ErrMalformedDocument, seasonNavSelector)
	}

	links := nav.Find("a")
	if links.Length() < 2 {
		return "", fmt.Errorf("%w: season navigation has %d links, need 2", ErrMalformedDocument, links.Length())
	}

	href, ok := links.Eq(1).Attr("href")
	if !ok {
		return "", fmt.Errorf("%w: season link has no href", ErrMalformedDocument)
	}

	return SeasonFromHref(href), nil
}

// SeasonFromHref returns the basename of href up to its first underscore
func SeasonFromHref(href string) string {
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		href = u.Path
	}
	base := path.Base(href)
	season, _, _ := strings.Cut(base, "_")
	return season
}
