// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/marketdetective/marketdetective/geocode"
	"github.com/marketdetective/marketdetective/market"
	"github.com/marketdetective/marketdetective/propertypro"
	"github.com/spf13/cobra"
)

const stateFileName = "scrape_state.json"

var scrapeOptions = &propertypro.ScrapeOptions{}

var scrapeFlags struct {
	dbPath      string
	dataDir     string
	batchSize   int
	pages       int
	resume      bool
	skipGeocode bool
	dryRun      bool
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [start] [end]",
	Short: "Scrape listing pages into the local database",
	Long: `
Scrape walks PropertyPro result pages in order, cleans out implausible
listings, geocodes the survivors, and persists them to DuckDB plus
numbered CSV batch files. A checkpoint file makes interrupted runs
resumable with --resume.

Provider API keys are read from the environment (or a .env file):
LOCATIONIQ_API_KEY, OPENCAGE_API_KEY, GEOAPIFY_API_KEY,
POSITIONSTACK_API_KEY. With no keys set, only Nominatim is used.
`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runScrape,
}

func scrapeRange(state *propertypro.ScrapeState, args []string) (int, int, error) {
	if len(args) == 2 {
		start, err := strconv.Atoi(args[0])
		if err != nil || start < 1 {
			return 0, 0, fmt.Errorf("invalid start page %q", args[0])
		}

		end, err := strconv.Atoi(args[1])
		if err != nil || end < start {
			return 0, 0, fmt.Errorf("invalid end page %q", args[1])
		}

		return start, end, nil
	}

	if scrapeFlags.resume && len(args) == 0 {
		start := state.LastPage + 1

		return start, start + scrapeFlags.pages - 1, nil
	}

	return 0, 0, errors.New("expected <start> <end> page arguments, or --resume")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if err := os.MkdirAll(scrapeFlags.dataDir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	state, err := propertypro.LoadState(filepath.Join(scrapeFlags.dataDir, stateFileName))
	if err != nil {
		return err
	}

	start, end, err := scrapeRange(state, args)
	if err != nil {
		return err
	}

	db, err := openDatabase(scrapeFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := market.NewListingRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return err
	}

	userAgent := fmt.Sprintf("marketdetective/%s (+https://github.com/marketdetective/marketdetective)", Version)

	var geocoder *geocode.Service
	if !scrapeFlags.skipGeocode {
		geocoder = geocode.NewService(geocode.CredentialsFromEnv(), userAgent)
	}

	scrapeOptions.UserAgent = userAgent
	client := propertypro.NewClient(scrapeOptions)

	ctx := cmd.Context()

	var collected []propertypro.Listing

	err = client.ScrapeRange(ctx, start, end, func(page int, listings []propertypro.Listing) error {
		clean := propertypro.Clean(listings)
		log.Printf("Page %d - %d listings, %d kept after cleaning", page, len(listings), len(clean))

		for i := range clean {
			l := &clean[i]

			if geocoder != nil {
				l.Point = geocoder.Geocode(ctx, l.Location)
			}

			if err := market.ValidatePoint(l.Point); err != nil {
				log.Printf("Dropping coordinates for %q - %s", l.Location, err)

				l.Point = nil
			}
		}

		if !scrapeFlags.dryRun {
			if err := repo.UpsertListings(clean); err != nil {
				return err
			}
		}

		collected = append(collected, clean...)

		state.RecordPage(page, len(clean))
		state.LastScrapeRange = fmt.Sprintf("%d-%d", start, page)

		if scrapeFlags.dryRun {
			return nil
		}

		return state.Save()
	})
	if errors.Is(err, propertypro.ErrNoMoreListings) {
		err = nil
	}

	if err != nil {
		return err
	}

	if !scrapeFlags.dryRun && len(collected) > 0 {
		writer := propertypro.NewBatchWriter(scrapeFlags.dataDir, scrapeFlags.batchSize)

		files, err := writer.WriteBatches(collected, state.TotalBatches+1)
		if err != nil {
			return err
		}

		state.TotalBatches += len(files)
		if err := state.Save(); err != nil {
			return err
		}

		log.Printf("Wrote %d batch files to %s", len(files), scrapeFlags.dataDir)
	}

	log.Printf(
		"Scrape metrics - %d pages, %d listings found, %d stored",
		client.Metrics.PagesScraped,
		client.Metrics.ListingsFound,
		len(collected),
	)

	return nil
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.PersistentFlags().StringVar(
		&scrapeFlags.dbPath,
		"db-path",
		"db",
		"Directory holding the DuckDB database",
	)
	scrapeCmd.PersistentFlags().StringVar(
		&scrapeFlags.dataDir,
		"data-dir",
		"pulled-data",
		"Directory for CSV batches and the scrape checkpoint",
	)
	scrapeCmd.PersistentFlags().IntVar(
		&scrapeFlags.batchSize,
		"batch-size",
		propertypro.DefaultBatchSize,
		"Listings per CSV batch file",
	)
	scrapeCmd.PersistentFlags().BoolVar(
		&scrapeFlags.resume,
		"resume",
		false,
		"Continue from the last checkpointed page",
	)
	scrapeCmd.PersistentFlags().IntVar(
		&scrapeFlags.pages,
		"pages",
		10,
		"Number of pages to scrape when resuming",
	)
	scrapeCmd.PersistentFlags().BoolVar(
		&scrapeFlags.skipGeocode,
		"skip-geocode",
		false,
		"Skip the geocoding phase",
	)
	scrapeCmd.PersistentFlags().BoolVar(
		&scrapeFlags.dryRun,
		"dry-run",
		false,
		"Scrape and clean but persist nothing",
	)
	scrapeCmd.PersistentFlags().DurationVar(
		&scrapeOptions.PageDelay,
		"delay",
		time.Second,
		"Delay between page fetches",
	)
	scrapeCmd.PersistentFlags().BoolVar(
		&scrapeOptions.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	scrapeCmd.PersistentFlags().BoolVar(
		&scrapeOptions.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
