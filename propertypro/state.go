// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// stateTimeLayout matches the checkpoint timestamps written by earlier runs.
const stateTimeLayout = "2006-01-02 15:04:05"

// ScrapeState is the resumable checkpoint persisted between runs. It is
// saved after every page so a crash costs at most one page of work.
type ScrapeState struct {
	LastPage        int    `json:"last_page"`
	ScrapedPages    []int  `json:"scraped_pages"`
	TotalRecords    int    `json:"total_records"`
	TotalBatches    int    `json:"total_batches"`
	LastUpdated     string `json:"last_updated"`
	LastScrapeRange string `json:"last_scrape_range"`

	path string
}

// LoadState reads the checkpoint from path. A missing file is not an
// error; it yields a fresh state that will be created on first save.
func LoadState(path string) (*ScrapeState, error) {
	state := &ScrapeState{path: path}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}

		return nil, fmt.Errorf("reading scrape state: %w", err)
	}

	if len(data) != 0 {
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("unmarshalling scrape state: %w", err)
		}
	}

	state.path = path

	return state, nil
}

// RecordPage marks a page as scraped and accounts its stored records.
func (s *ScrapeState) RecordPage(page, records int) {
	if page > s.LastPage {
		s.LastPage = page
	}

	if !slices.Contains(s.ScrapedPages, page) {
		s.ScrapedPages = append(s.ScrapedPages, page)
	}

	s.TotalRecords += records
}

// Save writes the checkpoint back to disk with pages sorted and deduped.
func (s *ScrapeState) Save() error {
	slices.Sort(s.ScrapedPages)
	s.ScrapedPages = slices.Compact(s.ScrapedPages)
	s.LastUpdated = time.Now().Format(stateTimeLayout)

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling scrape state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing scrape state: %w", err)
	}

	return nil
}

// Summary renders the checkpoint for the history command.
func (s *ScrapeState) Summary() string {
	if s.LastUpdated == "" && s.TotalRecords == 0 {
		return "No scraping history found. Starting fresh!"
	}

	return fmt.Sprintf(
		"Last page scraped: %d\nTotal records collected: %d\nTotal batches created: %d\nLast scrape range: %s\nLast updated: %s",
		s.LastPage,
		s.TotalRecords,
		s.TotalBatches,
		s.LastScrapeRange,
		s.LastUpdated,
	)
}
