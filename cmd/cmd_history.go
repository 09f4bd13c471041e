// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/marketdetective/marketdetective/propertypro"
	"github.com/spf13/cobra"
)

var historyDataDir string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the scraping checkpoint",
	RunE: func(_ *cobra.Command, _ []string) error {
		state, err := propertypro.LoadState(filepath.Join(historyDataDir, stateFileName))
		if err != nil {
			return err
		}

		fmt.Println(state.Summary())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.PersistentFlags().StringVar(
		&historyDataDir,
		"data-dir",
		"pulled-data",
		"Directory holding the scrape checkpoint",
	)
}
