// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/AleutianAI/tigergo/pkg/logging"
	"github.com/AleutianAI/tigergo/pkg/tigergraph"
)

// appConfig is the resolved connection configuration, loaded once in
// the root command's PersistentPreRun before any subcommand runs.
var appConfig tigergraph.Config

var appLogger *logging.Logger

func main() {
	defer func() {
		if appLogger != nil {
			appLogger.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
