// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// Lagos Island to Ikeja is roughly 17 km
	lagosIsland := &Point{Lat: 6.4549, Lng: 3.4246}
	ikeja := &Point{Lat: 6.6018, Lng: 3.3515}

	d := lagosIsland.HaversineDistance(ikeja)
	if d < 15_000 || d > 20_000 {
		t.Errorf("Lagos Island - Ikeja distance = %.0f m, expected ~17 km", d)
	}

	if got := lagosIsland.HaversineDistance(lagosIsland); math.Abs(got) > 1e-9 {
		t.Errorf("distance to self = %f, want 0", got)
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"lagos", Point{Lat: 6.5244, Lng: 3.3792}, true},
		{"latitude too high", Point{Lat: 91, Lng: 3}, false},
		{"latitude too low", Point{Lat: -91, Lng: 3}, false},
		{"longitude too high", Point{Lat: 6, Lng: 181}, false},
		{"longitude too low", Point{Lat: 6, Lng: -181}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.InBounds(); got != tt.want {
				t.Errorf("InBounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointString(t *testing.T) {
	p := Point{Lat: 6.5244, Lng: 3.3792}
	if got, want := p.String(), "POINT(3.379200 6.524400)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
