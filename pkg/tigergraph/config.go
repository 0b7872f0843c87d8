// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tigergraph

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/tigergo/pkg/logging"
)

// validate is the shared validator instance for connection configs.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// -----------------------------------------------------------------------------
// Connection Configuration
// -----------------------------------------------------------------------------

// Config configures a Connection.
//
// A TigerGraph server exposes two HTTP surfaces: the REST++ API (data
// plane, default port 9000) and the GSQL server (admin plane, default
// port 14240). Both hang off the same host.
type Config struct {
	// Host is the server base URL without a port
	// (e.g. "http://127.0.0.1" or "https://mygraph.i.tgcloud.io").
	Host string `yaml:"host" validate:"required,url"`

	// GraphName is the name of the graph all operations are scoped to.
	// Default: "MyGraph"
	GraphName string `yaml:"graphname" validate:"required"`

	// Username for GSQL basic auth.
	// Default: "tigergraph"
	Username string `yaml:"username"`

	// Password for GSQL basic auth.
	// Default: "tigergraph"
	Password string `yaml:"password"`

	// RESTPPPort is the REST++ API port.
	// Default: "9000"
	RESTPPPort string `yaml:"restpp_port" validate:"omitempty,numeric"`

	// GSPort is the GSQL server port.
	// Default: "14240"
	GSPort string `yaml:"gs_port" validate:"omitempty,numeric"`

	// Token is an optional REST++ bearer token. When set it is sent
	// as an Authorization header on REST++ requests.
	Token string `yaml:"token"`

	// Timeout bounds every HTTP round trip.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// Logger for connection operations.
	// Default: logging.Default()
	Logger *logging.Logger `yaml:"-"`
}

// DefaultConfig returns the defaults matching a local TigerGraph
// developer install.
func DefaultConfig() Config {
	return Config{
		Host:       "http://127.0.0.1",
		GraphName:  "MyGraph",
		Username:   "tigergraph",
		Password:   "tigergraph",
		RESTPPPort: "9000",
		GSPort:     "14240",
		Timeout:    30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid connection config: %w", err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid connection config: timeout must be non-negative")
	}
	return nil
}

// applyDefaults fills in zero values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Host == "" {
		c.Host = defaults.Host
	}
	if c.GraphName == "" {
		c.GraphName = defaults.GraphName
	}
	if c.Username == "" {
		c.Username = defaults.Username
	}
	if c.Password == "" {
		c.Password = defaults.Password
	}
	if c.RESTPPPort == "" {
		c.RESTPPPort = defaults.RESTPPPort
	}
	if c.GSPort == "" {
		c.GSPort = defaults.GSPort
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
}

// LoadConfig reads a YAML connection config from path.
//
// Missing fields fall back to DefaultConfig values, so a minimal file
// only needs the values that differ from a local developer install:
//
//	host: https://mygraph.i.tgcloud.io
//	graphname: Social
//	username: tigergraph
//	password: secret
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
