// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/marketdetective/marketdetective/spatial"
)

// Listings are biased towards Nigeria: PropertyPro only lists Nigerian
// properties, and the bare location strings ("Lekki Phase 1") are too
// ambiguous without the country.
const (
	countrySuffix = ", Nigeria"
	countryCode   = "ng"
)

// Credentials holds the optional per-provider API keys. An empty value
// excludes that provider from the registry; it is never attempted.
type Credentials struct {
	LocationIQ    string
	OpenCage      string
	Geoapify      string
	Positionstack string
}

// CredentialsFromEnv reads the provider keys from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		LocationIQ:    os.Getenv("LOCATIONIQ_API_KEY"),
		OpenCage:      os.Getenv("OPENCAGE_API_KEY"),
		Geoapify:      os.Getenv("GEOAPIFY_API_KEY"),
		Positionstack: os.Getenv("POSITIONSTACK_API_KEY"),
	}
}

// Service tries providers in a fixed priority order, stopping at the first
// success. Paid providers come first; the keyless Nominatim fallback is
// always last. The registry is immutable after construction and a Service
// is safe for use by concurrent callers.
type Service struct {
	providers []Provider
}

// NewService builds the provider registry from the available credentials.
// Missing credentials only remove providers, they never reorder the chain,
// and Nominatim guarantees the registry is never empty.
func NewService(creds Credentials, userAgent string) *Service {
	var providers []Provider

	if creds.LocationIQ != "" {
		providers = append(providers, NewLocationIQ(creds.LocationIQ))
	}

	if creds.OpenCage != "" {
		providers = append(providers, NewOpenCage(creds.OpenCage))
	}

	if creds.Geoapify != "" {
		providers = append(providers, NewGeoapify(creds.Geoapify))
	}

	if creds.Positionstack != "" {
		providers = append(providers, NewPositionstack(creds.Positionstack))
	}

	providers = append(providers, NewNominatim(userAgent))

	s := &Service{providers: providers}
	log.Printf("Geocoding service initialized with providers: %s", strings.Join(s.ProviderNames(), ", "))

	return s
}

// newServiceWithProviders is the test seam for injecting fake providers.
func newServiceWithProviders(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// ProviderNames returns the registry in attempt order.
func (s *Service) ProviderNames() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}

	return names
}

// Geocode resolves an address to a coordinate pair, or nil when the address
// is blank or every provider failed. Provider errors never escape: they are
// logged and converted into an attempt on the next provider. An exhausted
// registry is a normal outcome for unresolvable addresses, not a fault.
func (s *Service) Geocode(ctx context.Context, address string) *spatial.Point {
	if strings.TrimSpace(address) == "" {
		log.Println("Geocoding skipped - empty address")

		return nil
	}

	query := address + countrySuffix

	for _, provider := range s.providers {
		point, err := provider.Geocode(ctx, query)
		if err != nil {
			log.Printf("Geocoding provider %s failed for %q - %s", provider.Name(), address, err)

			continue
		}

		if point == nil {
			log.Printf("Geocoding provider %s found no results for %q", provider.Name(), address)

			continue
		}

		log.Printf("Geocoded %q using %s", address, provider.Name())

		return point
	}

	log.Printf("All geocoding providers failed for address: %s", address)

	return nil
}
