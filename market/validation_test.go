// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"testing"

	"github.com/marketdetective/marketdetective/spatial"
)

func TestValidatePoint(t *testing.T) {
	tests := []struct {
		name    string
		point   *spatial.Point
		wantErr bool
	}{
		{
			name:    "nil point is valid",
			point:   nil,
			wantErr: false,
		},
		{
			name:    "Lagos",
			point:   &spatial.Point{Lat: 6.4549, Lng: 3.4246},
			wantErr: false,
		},
		{
			name:    "Abuja",
			point:   &spatial.Point{Lat: 9.0765, Lng: 7.3986},
			wantErr: false,
		},
		{
			name:    "Kano near the northern border",
			point:   &spatial.Point{Lat: 12.0022, Lng: 8.5920},
			wantErr: false,
		},
		{
			name:    "Accra is outside Nigeria",
			point:   &spatial.Point{Lat: 5.6037, Lng: -0.1870},
			wantErr: true,
		},
		{
			name:    "London is outside Nigeria",
			point:   &spatial.Point{Lat: 51.5074, Lng: -0.1278},
			wantErr: true,
		},
		{
			name:    "latitude out of the global envelope",
			point:   &spatial.Point{Lat: 95, Lng: 3.42},
			wantErr: true,
		},
		{
			name:    "longitude out of the global envelope",
			point:   &spatial.Point{Lat: 6.45, Lng: 200},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePoint(tt.point)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePoint(%v) error = %v, wantErr %v", tt.point, err, tt.wantErr)
			}
		})
	}
}
