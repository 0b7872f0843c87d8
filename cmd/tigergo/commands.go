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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tigergo/pkg/gds"
	"github.com/AleutianAI/tigergo/pkg/logging"
	"github.com/AleutianAI/tigergo/pkg/tigergraph"
)

// --- Global Command Variables ---
var (
	configPath string
	hostFlag   string
	graphFlag  string
	tokenFlag  string
	debugFlag  bool

	rootCmd = &cobra.Command{
		Use:   "tigergo",
		Short: "A cli to manage graphs and graph algorithms on a TigerGraph server",
		Long: `Tigergo talks to a TigerGraph server over its REST++ and GSQL
HTTP surfaces: inspect schemas, move vertices and edges, and install
and run the in-database graph algorithm library.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initAppConfig()
		},
	}

	// --- Algorithms ---
	algosCmd = &cobra.Command{
		Use:     "algos",
		Short:   "Browse, install, and run the graph algorithm library",
		Aliases: []string{"algo"},
	}
	algosListCmd = &cobra.Command{
		Use:   "list [category]",
		Short: "List the available graph algorithms with documentation links",
		Run:   runAlgosList, // Defined in cmd_algos.go
	}
	algosInstallCmd = &cobra.Command{
		Use:   "install [algorithm]",
		Short: "Install an algorithm onto the configured graph",
		Args:  cobra.ExactArgs(1),
		Run:   runAlgosInstall, // Defined in cmd_algos.go
	}
	algosRunCmd = &cobra.Command{
		Use:   "run [algorithm]",
		Short: "Install (if needed) and run an algorithm, printing its results",
		Args:  cobra.ExactArgs(1),
		Run:   runAlgosRun, // Defined in cmd_algos.go
	}

	// --- Schema ---
	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Show the vertex and edge types of the configured graph",
		Run:   runSchemaShow, // Defined in cmd_schema.go
	}

	// --- GSQL ---
	gsqlCmd = &cobra.Command{
		Use:   "gsql [statement]",
		Short: "Execute a raw GSQL statement and print the server output",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGSQL, // Defined in cmd_gsql.go
	}
	queryCmd = &cobra.Command{
		Use:   "query [name]",
		Short: "Run an installed query with -p key=value parameters",
		Args:  cobra.ExactArgs(1),
		Run:   runQuery, // Defined in cmd_gsql.go
	}
	endpointsCmd = &cobra.Command{
		Use:   "endpoints",
		Short: "List the queries installed on the configured graph",
		Run:   runEndpoints, // Defined in cmd_gsql.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML connection config (default: built-in local defaults)")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "",
		"Server base URL, overrides the config file")
	rootCmd.PersistentFlags().StringVarP(&graphFlag, "graph", "g", "",
		"Graph name, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "",
		"REST++ bearer token, overrides the config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"Enable debug logging")

	algosCmd.AddCommand(algosListCmd)
	algosCmd.AddCommand(algosInstallCmd)
	algosCmd.AddCommand(algosRunCmd)

	rootCmd.AddCommand(algosCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(gsqlCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(endpointsCmd)
}

// initAppConfig resolves the connection configuration from the config
// file (when given) and the override flags, and sets up logging.
func initAppConfig() {
	level := logging.LevelInfo
	if debugFlag {
		level = logging.LevelDebug
	}
	appLogger = logging.New(logging.Config{Level: level, Service: "tigergo"})

	if configPath != "" {
		cfg, err := tigergraph.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		appConfig = cfg
	} else {
		appConfig = tigergraph.DefaultConfig()
	}
	if hostFlag != "" {
		appConfig.Host = hostFlag
	}
	if graphFlag != "" {
		appConfig.GraphName = graphFlag
	}
	if tokenFlag != "" {
		appConfig.Token = tokenFlag
	}
	appConfig.Logger = appLogger
}

// mustConnect opens the connection every subcommand works through.
func mustConnect() *tigergraph.Connection {
	conn, err := tigergraph.NewConnection(appConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return conn
}

// mustFeaturizer opens a connection and wraps it in a Featurizer.
func mustFeaturizer() *gds.Featurizer {
	return gds.NewFeaturizer(mustConnect(), gds.WithLogger(appLogger))
}
