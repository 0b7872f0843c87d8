// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tigergo/pkg/tigergraph"
	"github.com/AleutianAI/tigergo/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	queryParams  []string // -p key=value query parameters
	queryTimeout string   // Server-side query timeout
)

func init() {
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil,
		"Query parameter as key=value (repeatable)")
	queryCmd.Flags().StringVar(&queryTimeout, "timeout", "",
		"Server-side query timeout (e.g. 90s); default is the server maximum")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runGSQL executes the argument as one GSQL statement and prints the
// server's raw output, failing when the status line reports an error.
func runGSQL(cmd *cobra.Command, args []string) {
	conn := mustConnect()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	output, err := conn.GSQL(ctx, strings.Join(args, " "))
	if err != nil {
		ux.Error(fmt.Sprintf("GSQL request failed: %v", err))
		os.Exit(1)
	}
	fmt.Println(output)
	if err := tigergraph.CheckGSQLStatus(output); err != nil {
		os.Exit(1)
	}
}

// runQuery runs an installed query with -p key=value parameters.
func runQuery(cmd *cobra.Command, args []string) {
	conn := mustConnect()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	params, err := parseParamFlags(queryParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var opts tigergraph.RunOptions
	if queryTimeout != "" {
		d, err := time.ParseDuration(queryTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --timeout %q: %v\n", queryTimeout, err)
			os.Exit(1)
		}
		opts.Timeout = d
	}

	results, err := conn.RunInstalledQuery(ctx, args[0], params, opts)
	if err != nil {
		ux.Error(fmt.Sprintf("Query failed: %v", err))
		os.Exit(1)
	}
	printResults(results, true)
}

// runEndpoints lists the dynamic query endpoints installed on the
// configured graph.
func runEndpoints(cmd *cobra.Command, args []string) {
	conn := mustConnect()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	endpoints, err := conn.GetInstalledQueries(ctx)
	if err != nil {
		ux.Error(fmt.Sprintf("Could not list queries: %v", err))
		os.Exit(1)
	}
	if len(endpoints) == 0 {
		ux.Muted("No queries installed on graph " + appConfig.GraphName)
		return
	}

	keys := make([]string, 0, len(endpoints))
	for key := range endpoints {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ux.Title(fmt.Sprintf("Installed queries on %q", appConfig.GraphName))
	for _, key := range keys {
		fmt.Println("  " + key)
	}
}
