// Package boxscore turns saved basketball-reference box score pages into
// numeric tables and per-team summaries.
package boxscore

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Header rows that break column alignment when a table is read
const (
	overHeaderSelector     = "tr.over_header"
	repeatedHeaderSelector = "tr.thead"
)

// ParseDocument parses raw HTML without cleaning it
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// CleanDocument removes the grouped "over header" rows and the header rows
// repeated inside table bodies. Running it again is a no-op.
func CleanDocument(doc *goquery.Document) {
	doc.Find(overHeaderSelector).Remove()
	doc.Find(repeatedHeaderSelector).Remove()
}

// LoadDocument parses and cleans a box score page
func LoadDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	CleanDocument(doc)
	return doc, nil
}

// excerpt returns the first n bytes of the document markup for diagnostics
func excerpt(doc *goquery.Document, n int) string {
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	if len(html) > n {
		return html[:n]
	}
	return html
}
