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
	"net/url"
	"strconv"
)

// Vertex is one vertex instance as returned by the REST++ API.
type Vertex struct {
	VType      string         `json:"v_type"`
	VID        string         `json:"v_id"`
	Attributes map[string]any `json:"attributes"`
}

// AttrValue is one attribute value in an upsert payload. Op selects an
// accumulating operator ("add", "max", "min", ...); empty means plain
// assignment.
type AttrValue struct {
	Value any
	Op    string
}

// MarshalJSON encodes the REST++ upsert value shape
// {"value": v} or {"value": v, "op": op}.
func (a AttrValue) MarshalJSON() ([]byte, error) {
	if a.Op == "" {
		return json.Marshal(map[string]any{"value": a.Value})
	}
	return json.Marshal(map[string]any{"value": a.Value, "op": a.Op})
}

// Attrs maps attribute names to their upsert values.
type Attrs map[string]AttrValue

// NewAttrs wraps plain values into an upsert attribute map.
func NewAttrs(values map[string]any) Attrs {
	attrs := make(Attrs, len(values))
	for k, v := range values {
		attrs[k] = AttrValue{Value: v}
	}
	return attrs
}

// upsertCounts is the REST++ result shape of an upsert call.
type upsertCounts struct {
	AcceptedVertices int `json:"accepted_vertices"`
	AcceptedEdges    int `json:"accepted_edges"`
}

// UpsertVertex creates or updates one vertex.
//
// Returns the number of vertices accepted by the server (0 or 1).
func (c *Connection) UpsertVertex(ctx context.Context, vertexType, vertexID string, attributes Attrs) (int, error) {
	payload := map[string]any{
		"vertices": map[string]any{
			vertexType: map[string]any{
				vertexID: attributes,
			},
		},
	}
	return c.upsert(ctx, payload, false)
}

// UpsertVertices creates or updates a batch of vertices of one type.
//
// ids maps vertex IDs to their attributes. Returns the number of
// vertices accepted.
func (c *Connection) UpsertVertices(ctx context.Context, vertexType string, ids map[string]Attrs) (int, error) {
	byID := make(map[string]any, len(ids))
	for id, attrs := range ids {
		byID[id] = attrs
	}
	payload := map[string]any{
		"vertices": map[string]any{vertexType: byID},
	}
	return c.upsert(ctx, payload, false)
}

// upsert posts an upsert payload to the graph endpoint and returns the
// accepted count for the requested kind.
func (c *Connection) upsert(ctx context.Context, payload map[string]any, edges bool) (int, error) {
	rawURL := fmt.Sprintf("%s/graph/%s", c.restppURL, safePath(c.cfg.GraphName))
	var counts []upsertCounts
	if err := c.post(ctx, rawURL, payload, &counts); err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	if edges {
		return counts[0].AcceptedEdges, nil
	}
	return counts[0].AcceptedVertices, nil
}

// VertexQuery restricts and shapes a vertex retrieval.
type VertexQuery struct {
	// Select is a comma-separated list of attributes to return.
	Select string
	// Where is a comma-separated list of attribute conditions,
	// applied in conjunction.
	Where string
	// Sort is a comma-separated list of attributes to sort by.
	Sort string
	// Limit caps the number of returned vertices. 0 means no limit.
	Limit int
}

// values encodes the query as REST++ URL parameters.
func (q VertexQuery) values() url.Values {
	v := url.Values{}
	if q.Select != "" {
		v.Set("select", q.Select)
	}
	if q.Where != "" {
		v.Set("filter", q.Where)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// GetVertices retrieves vertices of the given type.
func (c *Connection) GetVertices(ctx context.Context, vertexType string, query VertexQuery) ([]Vertex, error) {
	rawURL := fmt.Sprintf("%s/graph/%s/vertices/%s", c.restppURL, safePath(c.cfg.GraphName), safePath(vertexType))
	if params := query.values().Encode(); params != "" {
		rawURL += "?" + params
	}
	var vertices []Vertex
	if err := c.get(ctx, rawURL, &vertices); err != nil {
		return nil, err
	}
	return vertices, nil
}

// GetVertexCount returns the number of vertices of the given type.
// Pass "*" to count every vertex type; the result maps type name to
// count in both cases.
func (c *Connection) GetVertexCount(ctx context.Context, vertexType string) (map[string]int64, error) {
	rawURL := fmt.Sprintf("%s/builtins/%s", c.restppURL, safePath(c.cfg.GraphName))
	body := map[string]string{"function": "stat_vertex_number", "type": vertexType}

	var results []struct {
		VType string `json:"v_type"`
		Count int64  `json:"count"`
	}
	if err := c.post(ctx, rawURL, body, &results); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.VType] = r.Count
	}
	return counts, nil
}

// DeleteVertices deletes vertices of the given type matching the query.
// Returns the number of deleted vertices.
func (c *Connection) DeleteVertices(ctx context.Context, vertexType string, query VertexQuery) (int64, error) {
	rawURL := fmt.Sprintf("%s/graph/%s/vertices/%s", c.restppURL, safePath(c.cfg.GraphName), safePath(vertexType))
	if params := query.values().Encode(); params != "" {
		rawURL += "?" + params
	}
	var result struct {
		DeletedVertices int64 `json:"deleted_vertices"`
	}
	if err := c.delete(ctx, rawURL, &result); err != nil {
		return 0, err
	}
	return result.DeletedVertices, nil
}

// DeleteVertex deletes one vertex by ID. Returns the number of deleted
// vertices (0 or 1).
func (c *Connection) DeleteVertex(ctx context.Context, vertexType, vertexID string) (int64, error) {
	rawURL := fmt.Sprintf("%s/graph/%s/vertices/%s/%s",
		c.restppURL, safePath(c.cfg.GraphName), safePath(vertexType), safePath(vertexID))
	var result struct {
		DeletedVertices int64 `json:"deleted_vertices"`
	}
	if err := c.delete(ctx, rawURL, &result); err != nil {
		return 0, err
	}
	return result.DeletedVertices, nil
}
