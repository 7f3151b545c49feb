package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HTMLStore is a directory of saved page fragments, one file per page
type HTMLStore struct {
	dir string
}

// NewHTMLStore creates the directory if needed. A leading ~/ is expanded.
func NewHTMLStore(dir string) (*HTMLStore, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return &HTMLStore{dir: dir}, nil
}

// Dir returns the store's directory
func (s *HTMLStore) Dir() string {
	return s.dir
}

// Path returns the full path of a stored page
func (s *HTMLStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Exists reports whether the page was already saved
func (s *HTMLStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Save writes the page, replacing any previous copy
func (s *HTMLStore) Save(name, html string) error {
	if err := os.WriteFile(s.Path(name), []byte(html), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Open returns a reader over a stored page
func (s *HTMLStore) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// List returns the names of all stored .html pages in lexical order
func (s *HTMLStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
