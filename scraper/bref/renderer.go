// Package bref downloads basketball-reference.com pages through a headless
// browser and caches the parts the parser needs.
package bref

import "context"

// Renderer loads url in a browser and returns the innerHTML of the first
// element matching selector.
type Renderer interface {
	Render(ctx context.Context, url, selector string) (string, error)
}
