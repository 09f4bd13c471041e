// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketdetective/marketdetective/spatial"
)

const defaultPerPage = 50

// Server exposes the listing repository over a local HTTP API.
type Server struct {
	repo ListingRepository
}

func NewServer(repo ListingRepository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Run() error {
	return s.router().Run("localhost:8080")
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/listings", s.listListings)
	r.GET("/api/deals", s.listDeals)
	r.GET("/api/stats", s.getStats)

	return r
}

func (s *Server) listListings(ctx *gin.Context) {
	page := 1
	perPage := defaultPerPage

	if p := ctx.Query("page"); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &page); err != nil || page < 1 {
			page = 1
		}
	}

	if pp := ctx.Query("per_page"); pp != "" {
		if _, err := fmt.Sscanf(pp, "%d", &perPage); err != nil || perPage < 1 {
			perPage = defaultPerPage
		}
	}

	offset := (page - 1) * perPage

	listings, err := s.repo.ListListings(perPage, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	total, err := s.repo.CountListings()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (s *Server) listDeals(ctx *gin.Context) {
	threshold := DefaultDealThreshold

	if t := ctx.Query("threshold"); t != "" {
		if _, err := fmt.Sscanf(t, "%f", &threshold); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold parameter"})

			return
		}
	}

	deals, err := s.repo.FindDeals(threshold)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	// Optional proximity filter: near=lat,lng with a radius in km.
	if near := ctx.Query("near"); near != "" {
		var center spatial.Point
		if _, err := fmt.Sscanf(near, "%f,%f", &center.Lat, &center.Lng); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid near parameter, expected lat,lng"})

			return
		}

		radiusKM := 10.0

		if r := ctx.Query("radius_km"); r != "" {
			if _, err := fmt.Sscanf(r, "%f", &radiusKM); err != nil || radiusKM <= 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km parameter"})

				return
			}
		}

		filtered := make([]Deal, 0, len(deals))

		for _, d := range deals {
			if d.Listing.Point == nil {
				continue
			}

			if center.HaversineDistance(d.Listing.Point) <= radiusKM*1000 {
				filtered = append(filtered, d)
			}
		}

		deals = filtered
	}

	ctx.JSON(http.StatusOK, gin.H{
		"deals":     deals,
		"threshold": threshold,
	})
}

func (s *Server) getStats(ctx *gin.Context) {
	total, err := s.repo.CountListings()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	geocoded, err := s.repo.CountGeocoded()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	averages, err := s.repo.AveragePriceByBedrooms()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total_listings": total,
		"geocoded":       geocoded,
		"averages":       averages,
	})
}
