package utils

import (
	"strings"
	"sync"
)

// URLTracker remembers box score URLs already handled in this run so the
// crawler does not fetch the same game twice when it is linked from several
// schedule pages.
type URLTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewURLTracker creates a new tracker
func NewURLTracker() *URLTracker {
	return &URLTracker{seen: make(map[string]struct{})}
}

// Add returns true if the URL has not been seen before. Fragments and
// surrounding whitespace are ignored.
func (t *URLTracker) Add(url string) bool {
	key := trackerKey(url)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.seen[key]; exists {
		return false
	}
	t.seen[key] = struct{}{}
	return true
}

// Seen reports whether the URL was already added
func (t *URLTracker) Seen(url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, exists := t.seen[trackerKey(url)]
	return exists
}

// Count returns the number of tracked URLs
func (t *URLTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

func trackerKey(url string) string {
	url = strings.TrimSpace(url)
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	return url
}
