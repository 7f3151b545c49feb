package services

import (
	"context"
	"fmt"

	"nba-boxscore-scraper/boxscore"
	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/storage"
	"nba-boxscore-scraper/utils"
)

const progressEvery = 100

// GameParser builds the dataset of one run from the saved box score pages.
// It owns the run's schema, which is frozen by the first game that yields a
// summary. Games are processed one at a time in file name order.
type GameParser struct {
	store     storage.PageStore
	schema    boxscore.Schema
	assembler *Assembler
	runID     string
	logger    *utils.Logger

	parsed  int
	skipped int
}

// NewGameParser creates a parser over the pages in store
func NewGameParser(store storage.PageStore, policy, runID string, logger *utils.Logger) *GameParser {
	p := &GameParser{store: store, runID: runID, logger: logger}
	p.assembler = NewAssembler(&p.schema, policy, logger)
	return p
}

// ParseDir assembles every stored page. A page that fails is logged with its
// file name and skipped; only a failure to list the store is returned.
func (p *GameParser) ParseDir(ctx context.Context) (*models.Dataset, error) {
	names, err := p.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing box scores: %w", err)
	}
	p.logger.Info("Parsing %d box score files", len(names))

	ds := &models.Dataset{RunID: p.runID}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := p.parseFile(name)
		if err != nil {
			p.skipped++
			p.logger.With("file", name).Error("Skipping game: %v", err)
		} else {
			p.parsed++
			ds.Append(records...)
			if p.parsed%progressEvery == 0 {
				p.logger.Info("%d / %d", p.parsed, len(names))
			}
		}
	}

	ds.Schema = p.schema.Columns()
	p.logger.Info("Parsed %d games (%d rows, %d stat columns), skipped %d",
		p.parsed, ds.Len(), len(ds.Schema), p.skipped)
	return ds, nil
}

// Counts returns the number of parsed and skipped games so far
func (p *GameParser) Counts() (parsed, skipped int) {
	return p.parsed, p.skipped
}

// parseFile assembles one page, turning a panic into an error so one bad
// page cannot end the run
func (p *GameParser) parseFile(name string) (records []models.GameRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while parsing: %v", r)
		}
	}()

	rc, err := p.store.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return p.assembler.Assemble(name, rc)
}
