// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/marketdetective/marketdetective/geocode"
	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve a single address through the provider chain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}

		userAgent := fmt.Sprintf("marketdetective/%s (+https://github.com/marketdetective/marketdetective)", Version)
		service := geocode.NewService(geocode.CredentialsFromEnv(), userAgent)

		address := strings.Join(args, " ")

		point := service.Geocode(cmd.Context(), address)
		if point == nil {
			return fmt.Errorf("no coordinates found for %q", address)
		}

		fmt.Printf("%s\n%f,%f\n", point, point.Lat, point.Lng)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
