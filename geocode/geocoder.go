// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves free-text listing addresses to coordinates by
// trying a prioritized chain of third-party geocoding providers until one
// succeeds or all are exhausted.
package geocode

import (
	"context"
	"time"

	"github.com/marketdetective/marketdetective/spatial"
)

// requestTimeout bounds every provider HTTP request.
const requestTimeout = 10 * time.Second

// Provider is a single geocoding backend.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Geocode resolves a query to a coordinate pair. A (nil, nil) return
	// means the provider answered with zero matches; an error means the
	// attempt failed (network, timeout, rate limit, malformed payload).
	Geocode(ctx context.Context, query string) (*spatial.Point, error)
}
