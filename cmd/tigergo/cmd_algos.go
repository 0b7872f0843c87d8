// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tigergo/pkg/gds"
	"github.com/AleutianAI/tigergo/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	algoParams     []string // -p key=value query parameters
	algoResultAttr string   // Attribute to write per-element results into
	algoSchemaKind string   // vertex or edge, for --result-attr
	algoTargets    []string // Type names to restrict the schema change to
	algoTimeout    string   // Server-side query timeout (e.g. "90s")
	algoJSONOutput bool     // Print raw JSON results
)

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	algosRunCmd.Flags().StringArrayVarP(&algoParams, "param", "p", nil,
		"Query parameter as key=value (repeatable); defaults are inferred when omitted")
	algosRunCmd.Flags().StringVar(&algoResultAttr, "result-attr", "",
		"Write per-element results into this attribute, creating it if needed")
	algosRunCmd.Flags().StringVar(&algoSchemaKind, "kind", "vertex",
		"Schema side for --result-attr: vertex or edge")
	algosRunCmd.Flags().StringArrayVar(&algoTargets, "target", nil,
		"Type name to restrict the --result-attr schema change to (repeatable)")
	algosRunCmd.Flags().StringVar(&algoTimeout, "timeout", "",
		"Server-side query timeout (e.g. 90s); default is the server maximum")
	algosRunCmd.Flags().BoolVar(&algoJSONOutput, "json", false,
		"Print raw JSON results instead of formatted output")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runAlgosList prints the algorithm catalog, optionally filtered to
// one top-level category.
func runAlgosList(cmd *cobra.Command, args []string) {
	f := mustFeaturizer()

	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	listing, err := f.ListAlgorithms(category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printCatalogListing(listing)
}

// printCatalogListing restyles the plain catalog listing for the
// terminal: categories highlighted, leaves with muted links.
func printCatalogListing(listing string) {
	for _, line := range strings.Split(strings.TrimRight(listing, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		depth := (len(line) - len(trimmed)) / 2
		if name, url, ok := strings.Cut(trimmed, ": "); ok && url != "" {
			fmt.Println(ux.LeafLine(depth, name, url))
		} else {
			fmt.Println(ux.CategoryLine(depth, strings.TrimSuffix(trimmed, ":")))
		}
	}
}

// runAlgosInstall installs one algorithm onto the configured graph.
func runAlgosInstall(cmd *cobra.Command, args []string) {
	f := mustFeaturizer()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	name, err := f.Install(ctx, args[0], nil)
	if err != nil {
		exitAlgoError(err)
	}
	ux.Success(fmt.Sprintf("Installed %s on graph %q", name, appConfig.GraphName))
}

// runAlgosRun installs (when needed) and executes one algorithm.
func runAlgosRun(cmd *cobra.Command, args []string) {
	f := mustFeaturizer()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	cfg := gds.RunConfig{
		ResultAttribute: algoResultAttr,
		Targets:         algoTargets,
	}
	switch strings.ToLower(algoSchemaKind) {
	case "vertex", "":
		cfg.SchemaKind = gds.KindVertex
	case "edge":
		cfg.SchemaKind = gds.KindEdge
	default:
		fmt.Fprintf(os.Stderr, "Invalid --kind %q: must be vertex or edge\n", algoSchemaKind)
		os.Exit(1)
	}
	if algoTimeout != "" {
		d, err := time.ParseDuration(algoTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --timeout %q: %v\n", algoTimeout, err)
			os.Exit(1)
		}
		cfg.Timeout = d
	}
	if len(algoParams) > 0 {
		params, err := parseParamFlags(algoParams)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Params = params
	}

	results, err := f.RunAlgorithm(ctx, args[0], cfg)
	if err != nil {
		exitAlgoError(err)
	}
	printResults(results, algoJSONOutput)
}

// parseParamFlags converts repeated key=value flags into query
// parameters, guessing types the way the parameters will be consumed:
// ints, floats, and bools are sent typed, everything else as strings.
func parseParamFlags(flags []string) (map[string]any, error) {
	params := make(map[string]any, len(flags))
	for _, flag := range flags {
		key, raw, ok := strings.Cut(flag, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", flag)
		}
		params[key] = coerceFlagValue(raw)
	}
	return params, nil
}

func coerceFlagValue(raw string) any {
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}

// printResults renders query results: raw JSON for scripting, or
// indented JSON under a success line for humans.
func printResults(results json.RawMessage, rawOutput bool) {
	if rawOutput {
		fmt.Println(string(results))
		return
	}
	indented, err := json.MarshalIndent(json.RawMessage(results), "", "  ")
	if err != nil {
		fmt.Println(string(results))
		return
	}
	ux.Success("Algorithm finished")
	fmt.Println(string(indented))
}

// exitAlgoError prints gds errors with their extra context: a
// not-found error shows the catalog, a validation error shows the
// documentation link.
func exitAlgoError(err error) {
	var nf *gds.NotFoundError
	if errors.As(err, &nf) {
		ux.Error(err.Error())
		fmt.Fprint(os.Stderr, nf.Listing)
		os.Exit(1)
	}
	ux.Error(err.Error())
	os.Exit(1)
}
