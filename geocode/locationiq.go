// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/marketdetective/marketdetective/spatial"
)

// LocationIQ uses the LocationIQ forward-geocoding API.
type LocationIQ struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewLocationIQ creates a new LocationIQ geocoder.
func NewLocationIQ(apiKey string) *LocationIQ {
	return &LocationIQ{
		apiKey:  apiKey,
		baseURL: "https://us1.locationiq.com/v1/search",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// LocationIQ returns coordinates as decimal strings.
type locationIQResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Name implements Provider.
func (g *LocationIQ) Name() string { return "locationiq" }

// Geocode implements Provider.
func (g *LocationIQ) Geocode(ctx context.Context, query string) (*spatial.Point, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating locationiq request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("locationiq request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locationiq: %w", ClassifyHTTPError(resp.StatusCode))
	}

	var results []locationIQResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding locationiq response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing locationiq latitude %q: %w", results[0].Lat, err)
	}

	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing locationiq longitude %q: %w", results[0].Lon, err)
	}

	return &spatial.Point{Lat: lat, Lng: lng}, nil
}
