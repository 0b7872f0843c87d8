// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tigergraph is a client for the TigerGraph database server.
//
// A Connection wraps the two HTTP surfaces of a TigerGraph server: the
// REST++ data API (vertex/edge CRUD, installed-query execution,
// built-in statistics) and the GSQL server (schema introspection and
// admin commands). All methods are synchronous, single round trips
// with no retry; transport failures surface as errors from the
// underlying HTTP client.
//
// Use NewConnection to create a connection:
//
//	conn, err := tigergraph.NewConnection(tigergraph.Config{
//	    Host:      "http://127.0.0.1",
//	    GraphName: "Social",
//	})
//
// # Thread Safety
//
// A Connection holds per-session caches (the graph schema) guarded by
// a mutex, so incidental concurrent use is safe, but the client issues
// no concurrent requests of its own.
package tigergraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/AleutianAI/tigergo/pkg/logging"
)

// Connection is a session with one TigerGraph server, scoped to one graph.
type Connection struct {
	cfg        Config
	restppURL  string
	gsURL      string
	httpClient *http.Client
	logger     *logging.Logger

	schemaCache *schemaCache
}

// NewConnection creates a Connection from cfg.
//
// Zero-valued fields are filled from DefaultConfig before validation.
// No network traffic is issued; the first request happens on the first
// method call.
func NewConnection(cfg Config) (*Connection, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Connection{
		cfg:       cfg,
		restppURL: fmt.Sprintf("%s:%s", cfg.Host, cfg.RESTPPPort),
		gsURL:     fmt.Sprintf("%s:%s", cfg.Host, cfg.GSPort),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:      cfg.Logger.With("host", cfg.Host, "graph", cfg.GraphName),
		schemaCache: &schemaCache{},
	}, nil
}

// GraphName returns the graph this connection is scoped to.
func (c *Connection) GraphName() string {
	return c.cfg.GraphName
}

// -----------------------------------------------------------------------------
// REST++ plumbing
// -----------------------------------------------------------------------------

// restEnvelope is the JSON envelope every REST++ response is wrapped in.
type restEnvelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Results json.RawMessage `json:"results"`
}

// restRequest performs one REST++ round trip and unwraps the envelope.
//
// body, when non-nil, is JSON-marshaled. headers are applied after the
// auth header, so callers can add GSQL-TIMEOUT and RESPONSE-LIMIT.
// The raw "results" member is returned; callers decode it into the
// shape the endpoint documents.
func (c *Connection) restRequest(ctx context.Context, method, rawURL string, body any, headers map[string]string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// REST++ accepts a bearer token; the GSQL server only speaks basic auth.
	if strings.HasPrefix(rawURL, c.gsURL) {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	} else if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("rest request", "method", method, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env restEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope (HTTP %d): %w", resp.StatusCode, err)
	}
	if env.Error {
		c.logger.Debug("rest error response", "message", env.Message, "code", env.Code)
		return nil, &RemoteError{Message: env.Message, Code: env.Code}
	}

	return env.Results, nil
}

// get performs a REST++ GET and decodes results into out.
func (c *Connection) get(ctx context.Context, rawURL string, out any) error {
	results, err := c.restRequest(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return err
	}
	return decodeResults(results, out)
}

// post performs a REST++ POST with a JSON body and decodes results into out.
func (c *Connection) post(ctx context.Context, rawURL string, body any, out any) error {
	results, err := c.restRequest(ctx, http.MethodPost, rawURL, body, nil)
	if err != nil {
		return err
	}
	return decodeResults(results, out)
}

// delete performs a REST++ DELETE and decodes results into out.
func (c *Connection) delete(ctx context.Context, rawURL string, out any) error {
	results, err := c.restRequest(ctx, http.MethodDelete, rawURL, nil, nil)
	if err != nil {
		return err
	}
	return decodeResults(results, out)
}

// decodeResults decodes the envelope's results member, tolerating an
// absent member when the caller does not want one.
func decodeResults(results json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	if err := json.Unmarshal(results, out); err != nil {
		return fmt.Errorf("decode results: %w", err)
	}
	return nil
}

// safePath escapes one path segment for use in a REST++ URL.
func safePath(segment string) string {
	return url.PathEscape(segment)
}
