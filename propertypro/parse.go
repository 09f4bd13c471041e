// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/marketdetective/marketdetective/utils/textutils"
)

// PropertyPro card selectors. The card container carries both classes;
// title, price and location are nested single elements.
const (
	cardSelector     = ".pl-title-grid.position-relative"
	titleSelector    = ".pl-title"
	priceSelector    = ".pl-price"
	locationSelector = ".pl-location"
)

// ParseListings extracts the listing cards from a results page. Cards
// without a title or a price are skipped, they are adverts or decoration.
// A page with zero cards is not an error; it signals the end of results.
func ParseListings(r io.Reader, pageURL string) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listings page: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL %q: %w", pageURL, err)
	}

	now := time.Now()

	var listings []Listing

	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		title := firstLine(card.Find(titleSelector).First().Text())
		priceText := strings.TrimSpace(card.Find(priceSelector).First().Text())

		if title == "" || priceText == "" {
			return
		}

		cardText := card.Text()

		listings = append(listings, Listing{
			URL:       resolveHref(base, card),
			Title:     title,
			Price:     ParsePrice(priceText),
			Bedrooms:  ParseBedrooms(cardText),
			Baths:     ParseBaths(cardText),
			Location:  textutils.CollapseSpaces(card.Find(locationSelector).First().Text()),
			ScrapedAt: now,
		})
	})

	return listings, nil
}

// firstLine trims the text and keeps only what precedes the first newline.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")

	return strings.TrimSpace(line)
}

// resolveHref returns the absolute URL of the card's first link.
func resolveHref(base *url.URL, card *goquery.Selection) string {
	href, ok := card.Find("a").First().Attr("href")
	if !ok || href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
