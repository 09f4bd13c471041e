// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"fmt"

	"github.com/marketdetective/marketdetective/spatial"
)

// Nigeria's bounding box, with a small margin for coastal and border
// listings. Geocoders occasionally resolve an address to a plausible
// point just outside the strict borders.
const (
	nigeriaMinLat = 4.0
	nigeriaMaxLat = 14.0
	nigeriaMinLng = 2.0
	nigeriaMaxLng = 15.0
)

// ValidatePoint rejects coordinates outside the global envelope or
// outside Nigeria. Listings that fail validation keep their address
// but lose the point.
func ValidatePoint(p *spatial.Point) error {
	if p == nil {
		return nil
	}

	if !p.InBounds() {
		return fmt.Errorf("point %s outside the global envelope", p)
	}

	if p.Lat < nigeriaMinLat || p.Lat > nigeriaMaxLat ||
		p.Lng < nigeriaMinLng || p.Lng > nigeriaMaxLng {
		return fmt.Errorf("point %s outside Nigeria", p)
	}

	return nil
}
