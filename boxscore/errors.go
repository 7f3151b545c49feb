package boxscore

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument marks a page missing a structure every box score has
	ErrMalformedDocument = errors.New("malformed box score document")
	// ErrTableNotFound is returned when no table carries the requested id
	ErrTableNotFound = errors.New("table not found")
	// ErrTableShape is returned when a table has no header, no rows, or rows wider than its header
	ErrTableShape = errors.New("unexpected table shape")
	// ErrStatsUnavailable marks a team whose stat table could not be read
	ErrStatsUnavailable = errors.New("stats unavailable")
)

// StatsError describes a stat table that could not be read for one team
type StatsError struct {
	Team     string
	Category string
	Excerpt  string
	Err      error
}

func (e *StatsError) Error() string {
	return fmt.Sprintf("reading %s stats for team %s: %v", e.Category, e.Team, e.Err)
}

func (e *StatsError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrStatsUnavailable on any StatsError
func (e *StatsError) Is(target error) bool {
	return target == ErrStatsUnavailable
}
