// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultBatchSize mirrors the historical batch files: 100 records each.
const DefaultBatchSize = 100

var batchHeader = []string{
	"URL", "Title", "Price", "Bedrooms", "Baths", "Location", "Latitude", "Longitude", "ScrapedAt",
}

// BatchWriter persists cleaned listings as numbered CSV batch files under
// a data directory, one file per batch.
type BatchWriter struct {
	dir  string
	size int
}

// NewBatchWriter creates a writer rooted at dir. A non-positive size falls
// back to DefaultBatchSize.
func NewBatchWriter(dir string, size int) *BatchWriter {
	if size <= 0 {
		size = DefaultBatchSize
	}

	return &BatchWriter{dir: dir, size: size}
}

// WriteBatches splits listings into batches and writes each to
// batch_NNN_<timestamp>.csv, numbering from nextBatch. It returns the
// written filenames.
func (w *BatchWriter) WriteBatches(listings []Listing, nextBatch int) ([]string, error) {
	if len(listings) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	var files []string

	for i := 0; i < len(listings); i += w.size {
		batch := listings[i:min(i+w.size, len(listings))]

		filename, err := w.writeBatch(batch, nextBatch)
		if err != nil {
			return files, err
		}

		files = append(files, filename)
		nextBatch++
	}

	return files, nil
}

func (w *BatchWriter) writeBatch(batch []Listing, number int) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(w.dir, fmt.Sprintf("batch_%03d_%s.csv", number, timestamp))

	f, err := os.Create(filepath.Clean(filename))
	if err != nil {
		return "", fmt.Errorf("creating batch file: %w", err)
	}

	cw := csv.NewWriter(f)

	writeErr := cw.Write(batchHeader)

	for _, l := range batch {
		if writeErr != nil {
			break
		}

		var lat, lng string
		if l.Point != nil {
			lat = strconv.FormatFloat(l.Point.Lat, 'f', -1, 64)
			lng = strconv.FormatFloat(l.Point.Lng, 'f', -1, 64)
		}

		writeErr = cw.Write([]string{
			l.URL,
			l.Title,
			strconv.FormatInt(l.Price, 10),
			strconv.Itoa(l.Bedrooms),
			strconv.Itoa(l.Baths),
			l.Location,
			lat,
			lng,
			l.ScrapedAt.Format(time.RFC3339),
		})
	}

	cw.Flush()

	err = errors.Join(writeErr, cw.Error(), f.Close())
	if err != nil {
		return "", fmt.Errorf("writing batch %q: %w", filename, err)
	}

	return filename, nil
}
