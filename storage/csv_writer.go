package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"
)

// CSVWriter writes the dataset as one flat CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

func (w *CSVWriter) Name() string { return "csv" }

// Path returns the output file path
func (w *CSVWriter) Path() string { return w.filePath }

// WriteDataset writes the header and every record. The first column is an
// unnamed running row index.
func (w *CSVWriter) WriteDataset(_ context.Context, ds *models.Dataset) error {
	if dir := filepath.Dir(w.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{""}, ds.Header()...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, r := range ds.Records {
		row := append([]string{strconv.Itoa(i)}, flatRow(ds, r)...)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d (%s %s): %w", i, r.Team, r.Date.Format(dateLayout), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}

	w.logger.Info("Dataset written to: %s (%d rows, %d columns)", w.filePath, ds.Len(), len(header))
	return nil
}

func (w *CSVWriter) Close() error { return nil }
