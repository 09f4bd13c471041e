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
	"time"

	"github.com/marketdetective/marketdetective/spatial"
	"golang.org/x/time/rate"
)

// The Nominatim usage policy allows at most one request per second.
const nominatimMinInterval = time.Second

// Nominatim is the keyless OpenStreetMap geocoder, always registered as the
// last-resort fallback. It identifies itself through the User-Agent header
// and self-throttles to one request per second; the limiter is shared by
// all calls so the policy holds for concurrent callers too.
type Nominatim struct {
	userAgent  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatim creates a new Nominatim geocoder.
func NewNominatim(userAgent string) *Nominatim {
	if userAgent == "" {
		userAgent = "marketdetective/unknown"
	}

	return &Nominatim{
		userAgent: userAgent,
		baseURL:   "https://nominatim.openstreetmap.org/search",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(nominatimMinInterval), 1),
	}
}

// Nominatim returns coordinates as decimal strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Name implements Provider.
func (g *Nominatim) Name() string { return "nominatim" }

// Geocode implements Provider.
func (g *Nominatim) Geocode(ctx context.Context, query string) (*spatial.Point, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim throttle: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating nominatim request: %w", err)
	}

	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: %w", ClassifyHTTPError(resp.StatusCode))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing nominatim latitude %q: %w", results[0].Lat, err)
	}

	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing nominatim longitude %q: %w", results[0].Lon, err)
	}

	return &spatial.Point{Lat: lat, Lng: lng}, nil
}
