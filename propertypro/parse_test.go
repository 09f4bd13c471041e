// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const listingsPageFixture = `<html lang="en">
  <body>
    <div class="pl-title-grid position-relative">
      <a href="/nigeria/5-bedroom-detached-duplex-lekki-12345">
        <h2 class="pl-title">5 Bedroom Detached Duplex
For Sale</h2>
      </a>
      <h3 class="pl-location">Lekki Phase 1, Lekki, Lagos</h3>
      <h3 class="pl-price">₦350,000,000</h3>
      <div class="pl-furnished">5 Beds · 6 Baths · 6 Toilets</div>
    </div>
    <div class="pl-title-grid position-relative">
      <a href="https://propertypro.ng/nigeria/2-bedroom-flat-yaba-67890">
        <h2 class="pl-title">2 Bedroom Flat</h2>
      </a>
      <h3 class="pl-location">Herbert Macaulay Way,   Yaba, Lagos</h3>
      <h3 class="pl-price">₦45,000,000
per annum</h3>
      <div class="pl-furnished">2 Beds · 2 Baths</div>
    </div>
    <div class="pl-title-grid position-relative">
      <h2 class="pl-title">Sponsored banner without a price</h2>
    </div>
  </body>
</html>`

func TestParseListings(t *testing.T) {
	expected := []Listing{
		{
			URL:      "https://propertypro.ng/nigeria/5-bedroom-detached-duplex-lekki-12345",
			Title:    "5 Bedroom Detached Duplex",
			Price:    350_000_000,
			Bedrooms: 5,
			Baths:    6,
			Location: "Lekki Phase 1, Lekki, Lagos",
		},
		{
			URL:      "https://propertypro.ng/nigeria/2-bedroom-flat-yaba-67890",
			Title:    "2 Bedroom Flat",
			Price:    45_000_000,
			Bedrooms: 2,
			Baths:    2,
			Location: "Herbert Macaulay Way, Yaba, Lagos",
		},
	}

	got, err := ParseListings(
		strings.NewReader(listingsPageFixture),
		"https://propertypro.ng/property-for-sale?page=3",
	)
	if err != nil {
		t.Fatalf("ParseListings: %v", err)
	}

	ignoreTime := cmpopts.IgnoreFields(Listing{}, "ScrapedAt")
	if diff := cmp.Diff(expected, got, ignoreTime); diff != "" {
		t.Errorf("parse output missmatch (-expected +got):\n%s", diff)
	}
}

func TestParseListingsEmptyPage(t *testing.T) {
	got, err := ParseListings(
		strings.NewReader(`<html><body><p>No properties found</p></body></html>`),
		"https://propertypro.ng/property-for-sale?page=9999",
	)
	if err != nil {
		t.Fatalf("ParseListings: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected no listings, got %d", len(got))
	}
}
