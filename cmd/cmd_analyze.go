// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/marketdetective/marketdetective/market"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	dbPath    string
	threshold float64
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report listings priced well below the market average",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase(analyzeFlags.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := market.BuildDealReport(market.NewListingRepository(db), analyzeFlags.threshold)
		if err != nil {
			return err
		}

		return report.Render(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.PersistentFlags().StringVar(
		&analyzeFlags.dbPath,
		"db-path",
		"db",
		"Directory holding the DuckDB database",
	)
	analyzeCmd.PersistentFlags().Float64Var(
		&analyzeFlags.threshold,
		"threshold",
		market.DefaultDealThreshold,
		"Deal threshold as a fraction of the bedroom-count average",
	)
}
