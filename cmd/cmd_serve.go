// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/marketdetective/marketdetective/market"
	"github.com/spf13/cobra"
)

var serveDBPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the listing API on localhost:8080",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase(serveDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := market.NewListingRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return err
		}

		log.Println("Serving listing API on http://localhost:8080")

		return market.NewServer(repo).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().StringVar(
		&serveDBPath,
		"db-path",
		"db",
		"Directory holding the DuckDB database",
	)
}
