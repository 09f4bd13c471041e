// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package propertypro

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/marketdetective/marketdetective/utils/htmlutils"
	"github.com/marketdetective/marketdetective/utils/httputils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production PropertyPro site.
const DefaultBaseURL = "https://propertypro.ng"

// ScrapeOptions configuration for the scraping Client.
type ScrapeOptions struct {
	// BaseURL is the site root; overridable for tests.
	BaseURL string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// PageDelay spaces page fetches apart. Zero means the default 1s.
	PageDelay time.Duration

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

// ScrapeMetrics tracks statistics about the scraping run.
type ScrapeMetrics struct {
	PagesScraped  int
	ListingsFound int
}

// Merge combines two ScrapeMetrics.
func (m *ScrapeMetrics) Merge(o *ScrapeMetrics) *ScrapeMetrics {
	m.PagesScraped += o.PagesScraped
	m.ListingsFound += o.ListingsFound

	return m
}

// Client fetches and parses PropertyPro result pages.
type Client struct {
	client  *http.Client
	options *ScrapeOptions
	limiter *rate.Limiter
	Metrics ScrapeMetrics
}

// NewClient creates a scraping client with the provided options.
func NewClient(options *ScrapeOptions) *Client {
	if options == nil {
		options = &ScrapeOptions{}
	}

	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}

	delay := options.PageDelay
	if delay == 0 {
		delay = time.Second
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		MaxConnsPerHost:       4,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		DisableKeepAlives:     false,
		DisableCompression:    false,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  options.EnableHTTPBodyTrace,
		Transport: transport,
	}

	userAgent := "marketdetective/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "*/*",
		},
		Transport: loggingTransport,
	}

	return &Client{
		client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: headerTransport,
		},
		options: options,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// FetchPage downloads and parses one results page.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for page slot: %w", err)
	}

	pageURL := fmt.Sprintf("%s/property-for-sale?page=%d", c.options.BaseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating page request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", page, err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Printf("Closing page %d response - %s", page, cerr)
		}
	}()

	r, err := htmlutils.AsReader(resp)
	if err != nil {
		return nil, fmt.Errorf("reading page %d: %w", page, err)
	}

	listings, err := ParseListings(r, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page %d: %w", page, err)
	}

	c.Metrics.PagesScraped++
	c.Metrics.ListingsFound += len(listings)

	return listings, nil
}

// ErrNoMoreListings is returned by ScrapeRange when a page comes back empty
// before the requested end of the range.
var ErrNoMoreListings = errors.New("no more listings")

// ScrapeRange walks pages start..end in order, invoking handle once per
// non-empty page. An empty page ends the walk early with ErrNoMoreListings.
// Page fetch errors abort the walk; handler errors abort the walk.
func (c *Client) ScrapeRange(ctx context.Context, start, end int, handle func(page int, listings []Listing) error) error {
	n := end - start + 1

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Scraping PropertyPro"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for page := start; page <= end; page++ {
		if bar == nil {
			log.Printf("Scraping page %d", page)
		}

		listings, err := c.FetchPage(ctx, page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		if len(listings) == 0 {
			log.Printf("No listings found on page %d, stopping", page)

			return ErrNoMoreListings
		}

		if err := handle(page, listings); err != nil {
			return fmt.Errorf("handling page %d: %w", page, err)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Printf("Updating progress bar - %s", err)
			}
		}
	}

	return nil
}
