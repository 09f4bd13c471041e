// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"fmt"
	"io"
	"sort"
)

// DefaultTopDeals bounds how many deals a rendered report shows.
const DefaultTopDeals = 10

// DealReport summarizes the market: per-bedroom averages and the
// listings priced well below them.
type DealReport struct {
	TotalListings int             `json:"total_listings"`
	Geocoded      int             `json:"geocoded"`
	Averages      map[int]float64 `json:"averages"`
	Threshold     float64         `json:"threshold"`
	Deals         []Deal          `json:"deals"`
}

// BuildDealReport assembles a report from the repository. A threshold
// of 0.5 keeps listings priced below half the average for their
// bedroom count.
func BuildDealReport(repo ListingRepository, threshold float64) (*DealReport, error) {
	total, err := repo.CountListings()
	if err != nil {
		return nil, err
	}

	geocoded, err := repo.CountGeocoded()
	if err != nil {
		return nil, err
	}

	averages, err := repo.AveragePriceByBedrooms()
	if err != nil {
		return nil, err
	}

	deals, err := repo.FindDeals(threshold)
	if err != nil {
		return nil, err
	}

	return &DealReport{
		TotalListings: total,
		Geocoded:      geocoded,
		Averages:      averages,
		Threshold:     threshold,
		Deals:         deals,
	}, nil
}

// Render writes a plain-text summary, cheapest deals first, capped at
// DefaultTopDeals.
func (r *DealReport) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Listings: %d (%d geocoded)\n", r.TotalListings, r.Geocoded); err != nil {
		return err
	}

	bedrooms := make([]int, 0, len(r.Averages))
	for b := range r.Averages {
		bedrooms = append(bedrooms, b)
	}

	sort.Ints(bedrooms)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Average price by bedrooms:")

	for _, b := range bedrooms {
		fmt.Fprintf(w, "  %d bed: ₦%.0f\n", b, r.Averages[b])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Deals (below %.0f%% of average):\n", r.Threshold*100)

	if len(r.Deals) == 0 {
		fmt.Fprintln(w, "  none found")

		return nil
	}

	top := r.Deals
	if len(top) > DefaultTopDeals {
		top = top[:DefaultTopDeals]
	}

	for _, d := range top {
		fmt.Fprintf(w, "  ₦%d (%d bed, %.0f%% below avg) %s\n    %s\n",
			d.Listing.Price, d.Listing.Bedrooms, d.Discount*100,
			d.Listing.Location, d.Listing.URL)
	}

	return nil
}
