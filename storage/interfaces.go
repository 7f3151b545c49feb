package storage

import (
	"context"
	"io"

	"nba-boxscore-scraper/models"
)

// DatasetSink receives the finished dataset of a parse run
type DatasetSink interface {
	Name() string
	WriteDataset(ctx context.Context, ds *models.Dataset) error
	Close() error
}

// PageStore persists fetched HTML fragments keyed by file name
type PageStore interface {
	Exists(name string) bool
	Save(name, html string) error
	Open(name string) (io.ReadCloser, error)
	List() ([]string, error)
}

var (
	_ DatasetSink = (*CSVWriter)(nil)
	_ DatasetSink = (*PostgresWriter)(nil)
	_ DatasetSink = (*BigQueryWriter)(nil)
	_ DatasetSink = (*RedisPublisher)(nil)
	_ PageStore   = (*HTMLStore)(nil)
)
