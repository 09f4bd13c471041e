// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/marketdetective/marketdetective/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
