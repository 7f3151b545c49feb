package boxscore

import (
	"fmt"
	"path/filepath"
	"time"
)

const gameDateLayout = "20060102"

// GameDate parses the YYYYMMDD prefix of a box score file name
func GameDate(filename string) (time.Time, error) {
	base := filepath.Base(filename)
	if len(base) < len(gameDateLayout) {
		return time.Time{}, fmt.Errorf("file name %q is too short to hold a date", base)
	}
	date, err := time.Parse(gameDateLayout, base[:len(gameDateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing game date from %q: %w", base, err)
	}
	return date, nil
}
