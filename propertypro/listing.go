// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

// Package propertypro scrapes property-for-sale listings from
// PropertyPro.ng page by page, normalizing prices, bedrooms and locations
// along the way.
package propertypro

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/marketdetective/marketdetective/spatial"
)

// Prices above this are treated as scraping noise (land in bulk, typos).
const maxPlausiblePrice = 2_000_000_000

// Listing is a single property card scraped from a results page.
type Listing struct {
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	Price     int64          `json:"price"` // naira
	Bedrooms  int            `json:"bedrooms"`
	Baths     int            `json:"baths"`
	Location  string         `json:"location"`
	Point     *spatial.Point `json:"point,omitempty"`
	ScrapedAt time.Time      `json:"scraped_at"`
}

// Validate checks that the listing carries the fields persistence depends on.
func (l *Listing) Validate() error {
	var ret []string

	if l.URL == "" {
		ret = append(ret, "URL is empty")
	}

	if l.Title == "" {
		ret = append(ret, "Title is empty")
	}

	if ret == nil {
		return nil
	}

	return errors.New(strings.Join(ret, "; "))
}

var (
	bedroomsRegex = regexp.MustCompile(`(\d+)\s*[Bb]ed`)
	bathsRegex    = regexp.MustCompile(`(\d+)\s*[Bb]ath`)
)

// ParsePrice extracts an integer naira amount from a price blurb.
// Only the first line matters; the rest is per-period qualifiers.
// Returns 0 when the text doesn't contain a parsable amount.
func ParsePrice(text string) int64 {
	firstPart, _, _ := strings.Cut(text, "\n")

	// "â‚¦" is the naira sign read through the wrong charset; some cached
	// pages still serve it.
	clean := strings.NewReplacer("₦", "", "â‚¦", "", ",", "", " ", "").Replace(firstPart)

	price, err := strconv.ParseInt(strings.TrimSpace(clean), 10, 64)
	if err != nil {
		return 0
	}

	return price
}

// ParseBedrooms extracts the bedroom count from a card's text, 0 if absent.
func ParseBedrooms(text string) int {
	return parseCount(bedroomsRegex, text)
}

// ParseBaths extracts the bathroom count from a card's text, 0 if absent.
func ParseBaths(text string) int {
	return parseCount(bathsRegex, text)
}

func parseCount(re *regexp.Regexp, text string) int {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	return n
}

// Clean drops listings with implausible prices and listings without
// bedrooms (plots, undeveloped land).
func Clean(listings []Listing) []Listing {
	kept := make([]Listing, 0, len(listings))

	for _, l := range listings {
		if l.Price <= 0 || l.Price >= maxPlausiblePrice {
			continue
		}

		if l.Bedrooms <= 0 {
			continue
		}

		kept = append(kept, l)
	}

	return kept
}
