// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

// Package market persists scraped listings and derives deal analytics
// from them.
package market

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/marketdetective/marketdetective/propertypro"
	"github.com/marketdetective/marketdetective/spatial"
	"github.com/marketdetective/marketdetective/utils/textutils"
	"github.com/uber/h3-go/v4"
)

// DefaultDealThreshold marks a deal as anything priced below half the
// average for its bedroom count.
const DefaultDealThreshold = 0.5

// Deal is a listing priced well below the average for its bedroom count.
type Deal struct {
	Listing      propertypro.Listing `json:"listing"`
	AveragePrice float64             `json:"average_price"`
	Discount     float64             `json:"discount"` // fraction below average, 0..1
}

// ListingRepository defines the persistence operations for listings.
type ListingRepository interface {
	// CreateSchema creates the listings table.
	CreateSchema() error

	// UpsertListings inserts or refreshes listings keyed by URL.
	UpsertListings(listings []propertypro.Listing) error

	// ListListings returns stored listings ordered by price.
	ListListings(limit, offset int) ([]propertypro.Listing, error)

	// CountListings returns the total number of stored listings.
	CountListings() (int, error)

	// CountGeocoded returns how many stored listings carry coordinates.
	CountGeocoded() (int, error)

	// AveragePriceByBedrooms returns the mean price per bedroom count.
	AveragePriceByBedrooms() (map[int]float64, error)

	// FindDeals returns listings priced below threshold the average
	// for their bedroom count, cheapest first.
	FindDeals(threshold float64) ([]Deal, error)

	// DB exposes the underlying handle.
	DB() *sql.DB
}

type sqlListingRepository struct {
	db *sql.DB
}

// NewListingRepository wraps a DuckDB handle.
func NewListingRepository(db *sql.DB) ListingRepository {
	return &sqlListingRepository{db: db}
}

func (r *sqlListingRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlListingRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			url VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			price BIGINT NOT NULL,
			bedrooms INTEGER NOT NULL,
			baths INTEGER,
			location VARCHAR,
			location_normalized VARCHAR,
			latitude DOUBLE,
			longitude DOUBLE,
			h3_res1 UBIGINT,
			h3_res2 UBIGINT,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT,
			scraped_at TIMESTAMP,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating listings table: %w", err)
	}

	return nil
}

// h3Cells indexes a point at resolutions 1..8 for spatial grouping.
func h3Cells(p *spatial.Point) ([8]int64, error) {
	var cells [8]int64

	if p == nil {
		return cells, nil
	}

	latLng := h3.NewLatLng(p.Lat, p.Lng)
	for res := 1; res <= 8; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return cells, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		cells[res-1] = int64(cell)
	}

	return cells, nil
}

func (r *sqlListingRepository) UpsertListings(listings []propertypro.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	stmt, err := r.db.Prepare(`
		INSERT INTO listings (
			url, title, price, bedrooms, baths, location, location_normalized,
			latitude, longitude,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8,
			scraped_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			price = excluded.price,
			bedrooms = excluded.bedrooms,
			baths = excluded.baths,
			location = excluded.location,
			location_normalized = excluded.location_normalized,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			h3_res1 = excluded.h3_res1,
			h3_res2 = excluded.h3_res2,
			h3_res3 = excluded.h3_res3,
			h3_res4 = excluded.h3_res4,
			h3_res5 = excluded.h3_res5,
			h3_res6 = excluded.h3_res6,
			h3_res7 = excluded.h3_res7,
			h3_res8 = excluded.h3_res8,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing listings upsert: %w", err)
	}

	defer stmt.Close()

	now := time.Now()

	var errs []error

	for i := range listings {
		l := &listings[i]

		if err := l.Validate(); err != nil {
			log.Printf("Skipping invalid listing - %s", err)

			continue
		}

		cells, err := h3Cells(l.Point)
		if err != nil {
			errs = append(errs, fmt.Errorf("indexing %q: %w", l.URL, err))

			continue
		}

		var lat, lng any
		if l.Point != nil {
			lat, lng = l.Point.Lat, l.Point.Lng
		}

		_, err = stmt.Exec(
			l.URL, l.Title, l.Price, l.Bedrooms, l.Baths,
			l.Location, textutils.LowerASCIIFolding(l.Location),
			lat, lng,
			cells[0], cells[1], cells[2], cells[3], cells[4], cells[5], cells[6], cells[7],
			l.ScrapedAt, now,
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("upserting %q: %w", l.URL, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (r *sqlListingRepository) ListListings(limit, offset int) ([]propertypro.Listing, error) {
	rows, err := r.db.Query(`
		SELECT url, title, price, bedrooms, baths, location, latitude, longitude, scraped_at
		FROM listings
		ORDER BY price, url
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}

	defer rows.Close()

	var listings []propertypro.Listing

	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}

		listings = append(listings, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, nil
}

// scanListing reads the common listing column set.
func scanListing(scan func(...any) error) (*propertypro.Listing, error) {
	var l propertypro.Listing

	var baths sql.NullInt32

	var location sql.NullString

	var lat, lng sql.NullFloat64

	var scrapedAt sql.NullTime

	err := scan(
		&l.URL, &l.Title, &l.Price, &l.Bedrooms, &baths,
		&location, &lat, &lng, &scrapedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning listing: %w", err)
	}

	l.Baths = int(baths.Int32)
	l.Location = location.String

	if lat.Valid && lng.Valid {
		l.Point = &spatial.Point{Lat: lat.Float64, Lng: lng.Float64}
	}

	if scrapedAt.Valid {
		l.ScrapedAt = scrapedAt.Time
	}

	return &l, nil
}

func (r *sqlListingRepository) CountListings() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}

	return count, nil
}

func (r *sqlListingRepository) CountGeocoded() (int, error) {
	var count int

	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM listings WHERE latitude IS NOT NULL AND longitude IS NOT NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting geocoded listings: %w", err)
	}

	return count, nil
}

func (r *sqlListingRepository) AveragePriceByBedrooms() (map[int]float64, error) {
	rows, err := r.db.Query(`
		SELECT bedrooms, AVG(price)
		FROM listings
		WHERE price > 0 AND bedrooms > 0
		GROUP BY bedrooms
		ORDER BY bedrooms
	`)
	if err != nil {
		return nil, fmt.Errorf("averaging prices: %w", err)
	}

	defer rows.Close()

	averages := make(map[int]float64)

	for rows.Next() {
		var bedrooms int

		var avg float64

		if err := rows.Scan(&bedrooms, &avg); err != nil {
			return nil, fmt.Errorf("scanning average: %w", err)
		}

		averages[bedrooms] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating averages: %w", err)
	}

	return averages, nil
}

func (r *sqlListingRepository) FindDeals(threshold float64) ([]Deal, error) {
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("deal threshold must be in (0, 1), got %f", threshold)
	}

	rows, err := r.db.Query(`
		WITH averages AS (
			SELECT bedrooms, AVG(price) AS avg_price
			FROM listings
			WHERE price > 0 AND bedrooms > 0
			GROUP BY bedrooms
		)
		SELECT l.url, l.title, l.price, l.bedrooms, l.baths, l.location,
		       l.latitude, l.longitude, l.scraped_at, a.avg_price
		FROM listings l
		JOIN averages a USING (bedrooms)
		WHERE l.price > 0 AND l.price < a.avg_price * ?
		ORDER BY l.price, l.url
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("finding deals: %w", err)
	}

	defer rows.Close()

	var deals []Deal

	for rows.Next() {
		var (
			l         propertypro.Listing
			baths     sql.NullInt32
			location  sql.NullString
			lat, lng  sql.NullFloat64
			scrapedAt sql.NullTime
			avg       float64
		)

		err := rows.Scan(
			&l.URL, &l.Title, &l.Price, &l.Bedrooms, &baths,
			&location, &lat, &lng, &scrapedAt, &avg,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}

		l.Baths = int(baths.Int32)
		l.Location = location.String

		if lat.Valid && lng.Valid {
			l.Point = &spatial.Point{Lat: lat.Float64, Lng: lng.Float64}
		}

		if scrapedAt.Valid {
			l.ScrapedAt = scrapedAt.Time
		}

		deals = append(deals, Deal{
			Listing:      l,
			AveragePrice: avg,
			Discount:     1 - float64(l.Price)/avg,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deals: %w", err)
	}

	return deals, nil
}
