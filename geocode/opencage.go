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

// OpenCage uses the OpenCage geocoding API.
type OpenCage struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenCage creates a new OpenCage geocoder.
func NewOpenCage(apiKey string) *OpenCage {
	return &OpenCage{
		apiKey:  apiKey,
		baseURL: "https://api.opencagedata.com/geocode/v1/json",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type openCageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Name implements Provider.
func (g *OpenCage) Name() string { return "opencage" }

// Geocode implements Provider.
func (g *OpenCage) Geocode(ctx context.Context, query string) (*spatial.Point, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("no_annotations", "1")
	params.Set("countrycode", countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating opencage request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opencage request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opencage: %w", ClassifyHTTPError(resp.StatusCode))
	}

	var ocResp openCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&ocResp); err != nil {
		return nil, fmt.Errorf("decoding opencage response: %w", err)
	}

	if len(ocResp.Results) == 0 {
		return nil, nil
	}

	geometry := ocResp.Results[0].Geometry

	return &spatial.Point{Lat: geometry.Lat, Lng: geometry.Lng}, nil
}
