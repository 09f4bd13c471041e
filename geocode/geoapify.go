// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketdetective/marketdetective/spatial"
)

// Geoapify uses the Geoapify geocoding API.
type Geoapify struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeoapify creates a new Geoapify geocoder.
func NewGeoapify(apiKey string) *Geoapify {
	return &Geoapify{
		apiKey:  apiKey,
		baseURL: "https://api.geoapify.com/v1/geocode/search",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type geoapifyResponse struct {
	Features []struct {
		Geometry struct {
			// GeoJSON order: [longitude, latitude]
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Name implements Provider.
func (g *Geoapify) Name() string { return "geoapify" }

// Geocode implements Provider.
func (g *Geoapify) Geocode(ctx context.Context, query string) (*spatial.Point, error) {
	params := url.Values{}
	params.Set("apiKey", g.apiKey)
	params.Set("text", query)
	params.Set("limit", "1")
	params.Set("filter", "countrycode:"+countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating geoapify request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoapify request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoapify: %w", ClassifyHTTPError(resp.StatusCode))
	}

	var gaResp geoapifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&gaResp); err != nil {
		return nil, fmt.Errorf("decoding geoapify response: %w", err)
	}

	if len(gaResp.Features) == 0 {
		return nil, nil
	}

	coordinates := gaResp.Features[0].Geometry.Coordinates
	if len(coordinates) < 2 {
		return nil, fmt.Errorf("geoapify returned %d coordinates, expected 2", len(coordinates))
	}

	return &spatial.Point{Lat: coordinates[1], Lng: coordinates[0]}, nil
}
