// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gds manages the in-database graph algorithm library: a
// catalog of known algorithms, source resolution, installation via
// GSQL, parameter-default inference from GSQL headers, schema
// mutation for result attributes, and execution of installed
// algorithms.
package gds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AleutianAI/tigergo/pkg/logging"
	"github.com/AleutianAI/tigergo/pkg/tigergraph"
)

// Conn is the slice of the database connection the featurizer needs.
// *tigergraph.Connection satisfies it.
type Conn interface {
	GraphName() string
	GSQL(ctx context.Context, statement string) (string, error)
	GetInstalledQueries(ctx context.Context) (map[string]json.RawMessage, error)
	RunInstalledQuery(ctx context.Context, name string, params map[string]any, opts tigergraph.RunOptions) (json.RawMessage, error)
	GetVertexTypes(ctx context.Context, force bool) ([]string, error)
	GetEdgeTypes(ctx context.Context, force bool) ([]string, error)
	GetVertexType(ctx context.Context, name string, force bool) (*tigergraph.VertexType, error)
	GetEdgeType(ctx context.Context, name string, force bool) (*tigergraph.EdgeType, error)
}

// Featurizer installs and runs graph algorithms against one graph.
//
// A Featurizer is not safe for concurrent use: its caches assume a
// single caller, matching the session-scoped way it is meant to be
// held alongside a Connection.
type Featurizer struct {
	conn       Conn
	catalog    *Catalog
	httpClient *http.Client
	logger     *logging.Logger

	// query name -> inferred parameter defaults
	paramCache map[string]ParamResult
	// query name -> fetched GSQL source
	sourceCache map[string]string
}

// Option configures a Featurizer.
type Option func(*Featurizer)

// WithCatalog replaces the built-in algorithm catalog.
func WithCatalog(c *Catalog) Option {
	return func(f *Featurizer) { f.catalog = c }
}

// WithHTTPClient sets the client used to fetch algorithm sources.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Featurizer) { f.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Featurizer) { f.logger = l }
}

// NewFeaturizer creates a Featurizer over conn using the built-in
// catalog unless overridden.
func NewFeaturizer(conn Conn, opts ...Option) *Featurizer {
	f := &Featurizer{
		conn:        conn,
		catalog:     DefaultCatalog(),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logging.Default(),
		paramCache:  make(map[string]ParamResult),
		sourceCache: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Catalog returns the catalog the featurizer resolves names against.
func (f *Featurizer) Catalog() *Catalog {
	return f.catalog
}

// ListAlgorithms renders the catalog (or one top-level category of
// it) as an indented tree with documentation links.
func (f *Featurizer) ListAlgorithms(category string) (string, error) {
	return f.catalog.Render(category)
}

// ReferenceLocation returns the browsable documentation URL for an
// algorithm.
func (f *Featurizer) ReferenceLocation(name string) (string, error) {
	entry, ok := f.catalog.Entry(name)
	if !ok {
		return "", f.notFound(name)
	}
	return entry.ReferenceURL(), nil
}

// Resolve looks the algorithm up in the catalog and fetches its GSQL
// source. Sources are cached per name for the life of the Featurizer.
func (f *Featurizer) Resolve(ctx context.Context, name string) (string, Entry, error) {
	entry, ok := f.catalog.Entry(name)
	if !ok {
		return "", Entry{}, f.notFound(name)
	}
	if src, ok := f.sourceCache[name]; ok {
		return src, entry, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.SourceURL, nil)
	if err != nil {
		return "", Entry{}, fmt.Errorf("building source request for %s: %w", name, err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", Entry{}, fmt.Errorf("fetching source for %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", Entry{}, fmt.Errorf("fetching source for %s: unexpected status %s", name, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Entry{}, fmt.Errorf("reading source for %s: %w", name, err)
	}

	src := string(body)
	f.sourceCache[name] = src
	return src, entry, nil
}

func (f *Featurizer) notFound(name string) *NotFoundError {
	listing, _ := f.catalog.Render("")
	return &NotFoundError{Name: name, Listing: listing}
}
