// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/marketdetective/marketdetective/spatial"
)

type fakeProvider struct {
	name  string
	point *spatial.Point
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Geocode(_ context.Context, _ string) (*spatial.Point, error) {
	f.calls++

	return f.point, f.err
}

func TestGeocodeBlankAddressContactsNoProvider(t *testing.T) {
	for _, address := range []string{"", "   ", "\t\n"} {
		provider := &fakeProvider{name: "locationiq", point: &spatial.Point{Lat: 6.5, Lng: 3.4}}
		s := newServiceWithProviders(provider)

		if got := s.Geocode(context.Background(), address); got != nil {
			t.Errorf("Geocode(%q) = %v, want nil", address, got)
		}

		if provider.calls != 0 {
			t.Errorf("Geocode(%q) contacted a provider %d times", address, provider.calls)
		}
	}
}

func TestGeocodeStopsAtFirstSuccess(t *testing.T) {
	first := &fakeProvider{name: "locationiq", point: &spatial.Point{Lat: 6.4549, Lng: 3.4246}}
	second := &fakeProvider{name: "opencage", point: &spatial.Point{Lat: 9.1, Lng: 7.5}}
	s := newServiceWithProviders(first, second)

	got := s.Geocode(context.Background(), "Lekki Phase 1, Lagos")
	if diff := cmp.Diff(first.point, got); diff != "" {
		t.Errorf("result mismatch (-expected +got):\n%s", diff)
	}

	if first.calls != 1 {
		t.Errorf("first provider called %d times, want 1", first.calls)
	}

	if second.calls != 0 {
		t.Errorf("second provider called %d times, want 0", second.calls)
	}
}

func TestGeocodeFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		first *fakeProvider
	}{
		{"provider error", &fakeProvider{name: "locationiq", err: errors.New("connection refused")}},
		{"rate limited", &fakeProvider{name: "locationiq", err: ClassifyHTTPError(429)}},
		{"zero results", &fakeProvider{name: "locationiq"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			second := &fakeProvider{name: "opencage", point: &spatial.Point{Lat: 6.6018, Lng: 3.3515}}
			s := newServiceWithProviders(tt.first, second)

			got := s.Geocode(context.Background(), "Ikeja GRA, Lagos")
			if diff := cmp.Diff(second.point, got); diff != "" {
				t.Errorf("result mismatch (-expected +got):\n%s", diff)
			}

			if tt.first.calls != 1 {
				t.Errorf("failing provider called %d times, want exactly 1", tt.first.calls)
			}

			if second.calls != 1 {
				t.Errorf("fallback provider called %d times, want 1", second.calls)
			}
		})
	}
}

func TestGeocodeExhaustionReturnsNil(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "locationiq", err: errors.New("timeout")},
		&fakeProvider{name: "opencage", err: ClassifyHTTPError(429)},
		&fakeProvider{name: "nominatim"},
	}
	s := newServiceWithProviders(providers...)

	if got := s.Geocode(context.Background(), "Plot 999 Nowhere Street"); got != nil {
		t.Errorf("Geocode = %v, want nil after exhaustion", got)
	}

	for _, p := range providers {
		fp := p.(*fakeProvider)
		if fp.calls != 1 {
			t.Errorf("provider %s called %d times, want 1", fp.name, fp.calls)
		}
	}
}

func TestGeocodeIsIdempotent(t *testing.T) {
	provider := &fakeProvider{name: "geoapify", point: &spatial.Point{Lat: 4.8156, Lng: 7.0498}}
	s := newServiceWithProviders(provider)

	first := s.Geocode(context.Background(), "Old GRA, Port Harcourt")
	second := s.Geocode(context.Background(), "Old GRA, Port Harcourt")

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated call mismatch (-first +second):\n%s", diff)
	}

	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestNewServiceRegistryOrder(t *testing.T) {
	all := Credentials{
		LocationIQ:    "k1",
		OpenCage:      "k2",
		Geoapify:      "k3",
		Positionstack: "k4",
	}

	tests := []struct {
		name     string
		creds    Credentials
		expected []string
	}{
		{
			name:     "all credentials present",
			creds:    all,
			expected: []string{"locationiq", "opencage", "geoapify", "positionstack", "nominatim"},
		},
		{
			name:     "no credentials",
			creds:    Credentials{},
			expected: []string{"nominatim"},
		},
		{
			name:     "missing opencage keeps order",
			creds:    Credentials{LocationIQ: "k1", Geoapify: "k3", Positionstack: "k4"},
			expected: []string{"locationiq", "geoapify", "positionstack", "nominatim"},
		},
		{
			name:     "only positionstack",
			creds:    Credentials{Positionstack: "k4"},
			expected: []string{"positionstack", "nominatim"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.creds, "marketdetective/test")

			if diff := cmp.Diff(tt.expected, s.ProviderNames()); diff != "" {
				t.Errorf("registry mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}
