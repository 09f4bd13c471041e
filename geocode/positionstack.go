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

// Positionstack uses the Positionstack forward-geocoding API.
type Positionstack struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPositionstack creates a new Positionstack geocoder.
func NewPositionstack(apiKey string) *Positionstack {
	return &Positionstack{
		apiKey: apiKey,
		// The free plan only serves plain HTTP
		baseURL: "http://api.positionstack.com/v1/forward",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type positionstackResponse struct {
	Data []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"data"`
}

// Name implements Provider.
func (g *Positionstack) Name() string { return "positionstack" }

// Geocode implements Provider.
func (g *Positionstack) Geocode(ctx context.Context, query string) (*spatial.Point, error) {
	params := url.Values{}
	params.Set("access_key", g.apiKey)
	params.Set("query", query)
	params.Set("limit", "1")
	params.Set("country", countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating positionstack request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("positionstack request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("positionstack: %w", ClassifyHTTPError(resp.StatusCode))
	}

	var psResp positionstackResponse
	if err := json.NewDecoder(resp.Body).Decode(&psResp); err != nil {
		return nil, fmt.Errorf("decoding positionstack response: %w", err)
	}

	if len(psResp.Data) == 0 {
		return nil, nil
	}

	result := psResp.Data[0]

	return &spatial.Point{Lat: result.Latitude, Lng: result.Longitude}, nil
}
