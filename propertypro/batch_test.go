// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marketdetective/marketdetective/spatial"
)

func sampleListings(n int) []Listing {
	listings := make([]Listing, n)
	for i := range listings {
		listings[i] = Listing{
			URL:       "https://propertypro.ng/nigeria/listing-" + string(rune('a'+i%26)),
			Title:     "4 Bedroom Duplex",
			Price:     100_000_000,
			Bedrooms:  4,
			Baths:     3,
			Location:  "Lekki Phase 1, Lagos",
			ScrapedAt: time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC),
		}
	}

	return listings
}

func TestWriteBatchesSplitsBySize(t *testing.T) {
	dir := t.TempDir()
	w := NewBatchWriter(dir, 100)

	files, err := w.WriteBatches(sampleListings(250), 1)
	if err != nil {
		t.Fatalf("WriteBatches: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("wrote %d files, want 3", len(files))
	}

	for i, f := range files {
		base := filepath.Base(f)
		if base[:9] != "batch_00"+string(rune('1'+i)) {
			t.Errorf("file %d name = %s, want prefix batch_%03d", i, base, i+1)
		}
	}

	// second batch holds rows 101..200 plus the header
	fd, err := os.Open(files[1])
	if err != nil {
		t.Fatalf("opening batch: %v", err)
	}
	defer fd.Close()

	rows, err := csv.NewReader(fd).ReadAll()
	if err != nil {
		t.Fatalf("reading batch csv: %v", err)
	}

	if len(rows) != 101 {
		t.Errorf("batch rows = %d, want 101 including header", len(rows))
	}

	if rows[0][0] != "URL" || rows[0][6] != "Latitude" {
		t.Errorf("unexpected header: %v", rows[0])
	}
}

func TestWriteBatchesGeocodedCoordinates(t *testing.T) {
	dir := t.TempDir()
	w := NewBatchWriter(dir, DefaultBatchSize)

	listings := sampleListings(2)
	listings[0].Point = &spatial.Point{Lat: 6.4549, Lng: 3.4246}

	files, err := w.WriteBatches(listings, 7)
	if err != nil {
		t.Fatalf("WriteBatches: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("wrote %d files, want 1", len(files))
	}

	fd, err := os.Open(files[0])
	if err != nil {
		t.Fatalf("opening batch: %v", err)
	}
	defer fd.Close()

	rows, err := csv.NewReader(fd).ReadAll()
	if err != nil {
		t.Fatalf("reading batch csv: %v", err)
	}

	if rows[1][6] != "6.4549" || rows[1][7] != "3.4246" {
		t.Errorf("geocoded row coordinates = %q %q", rows[1][6], rows[1][7])
	}

	if rows[2][6] != "" || rows[2][7] != "" {
		t.Errorf("ungeocoded row should have empty coordinates, got %q %q", rows[2][6], rows[2][7])
	}
}

func TestWriteBatchesEmptyInput(t *testing.T) {
	w := NewBatchWriter(t.TempDir(), 100)

	files, err := w.WriteBatches(nil, 1)
	if err != nil {
		t.Fatalf("WriteBatches: %v", err)
	}

	if files != nil {
		t.Errorf("expected no files, got %v", files)
	}
}
