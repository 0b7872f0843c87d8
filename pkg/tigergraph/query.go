// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tigergraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultQueryTimeout is the GSQL-TIMEOUT bound applied when
// RunOptions does not specify one. It matches the server's maximum.
const DefaultQueryTimeout = 2147480 * time.Millisecond

// RunOptions bounds the execution of an installed query.
type RunOptions struct {
	// Timeout is the server-enforced execution bound, sent as the
	// GSQL-TIMEOUT header in milliseconds.
	// Default: DefaultQueryTimeout
	Timeout time.Duration

	// SizeLimit is the maximum response size in bytes, sent as the
	// RESPONSE-LIMIT header. 0 means no limit header.
	SizeLimit int64
}

// GetInstalledQueries returns the dynamic endpoint listing of the
// graph. Keys have the form "GET /query/{graph}/{queryName}"; values
// are the endpoint metadata, opaque to this client.
func (c *Connection) GetInstalledQueries(ctx context.Context) (map[string]json.RawMessage, error) {
	rawURL := fmt.Sprintf("%s/endpoints/%s?dynamic=true", c.restppURL, safePath(c.cfg.GraphName))
	var endpoints map[string]json.RawMessage
	if err := c.get(ctx, rawURL, &endpoints); err != nil {
		return nil, fmt.Errorf("list installed queries: %w", err)
	}
	return endpoints, nil
}

// RunInstalledQuery executes a query previously installed on the
// graph. params is marshaled as the POST body; the result structure is
// whatever the query's PRINT statements produce, returned opaque.
func (c *Connection) RunInstalledQuery(ctx context.Context, queryName string, params map[string]any, opts RunOptions) (json.RawMessage, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultQueryTimeout
	}
	headers := map[string]string{
		"GSQL-TIMEOUT": strconv.FormatInt(opts.Timeout.Milliseconds(), 10),
	}
	if opts.SizeLimit > 0 {
		headers["RESPONSE-LIMIT"] = strconv.FormatInt(opts.SizeLimit, 10)
	}
	if params == nil {
		params = map[string]any{}
	}

	rawURL := fmt.Sprintf("%s/query/%s/%s", c.restppURL, safePath(c.cfg.GraphName), safePath(queryName))
	c.logger.Debug("running installed query", "query", queryName, "timeout_ms", opts.Timeout.Milliseconds())

	results, err := c.restRequest(ctx, http.MethodPost, rawURL, params, headers)
	if err != nil {
		return nil, fmt.Errorf("run query %q: %w", queryName, err)
	}
	return results, nil
}

// RunInterpretedQuery executes GSQL query source directly, without
// installing it first. The source must use the
// `INTERPRET QUERY () FOR GRAPH $graphname` header form; $graphname is
// substituted by the server. params are passed as URL arguments.
func (c *Connection) RunInterpretedQuery(ctx context.Context, source string, params url.Values) (json.RawMessage, error) {
	rawURL := c.gsURL + "/gsqlserver/interpreted_query"
	if encoded := params.Encode(); encoded != "" {
		rawURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("build interpreted query request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run interpreted query: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read interpreted query response: %w", err)
	}

	var env restEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode interpreted query response (HTTP %d): %w", resp.StatusCode, err)
	}
	if env.Error {
		return nil, &RemoteError{Message: env.Message, Code: env.Code}
	}
	return env.Results, nil
}
