// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestLoadStateMissingFile(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "scrape_metadata.json"))
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if state.LastPage != 0 || state.TotalRecords != 0 {
		t.Errorf("fresh state not empty: %+v", state)
	}

	if !strings.Contains(state.Summary(), "Starting fresh") {
		t.Errorf("fresh state summary = %q", state.Summary())
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrape_metadata.json")

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	state.RecordPage(1, 40)
	state.RecordPage(2, 35)
	state.RecordPage(2, 0) // duplicate page
	state.TotalBatches = 1
	state.LastScrapeRange = "1-2"

	if err := state.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState after save: %v", err)
	}

	if loaded.LastPage != 2 {
		t.Errorf("LastPage = %d, want 2", loaded.LastPage)
	}

	if loaded.TotalRecords != 75 {
		t.Errorf("TotalRecords = %d, want 75", loaded.TotalRecords)
	}

	if !slices.Equal(loaded.ScrapedPages, []int{1, 2}) {
		t.Errorf("ScrapedPages = %v, want [1 2]", loaded.ScrapedPages)
	}

	if loaded.LastUpdated == "" {
		t.Error("LastUpdated not recorded")
	}

	// a later save keeps pages sorted even when recorded out of order
	loaded.RecordPage(10, 5)
	loaded.RecordPage(3, 5)

	if err := loaded.Save(); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	again, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState after second save: %v", err)
	}

	if !slices.Equal(again.ScrapedPages, []int{1, 2, 3, 10}) {
		t.Errorf("ScrapedPages = %v, want [1 2 3 10]", again.ScrapedPages)
	}
}
