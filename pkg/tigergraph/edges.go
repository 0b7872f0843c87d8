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
	"strings"
)

// Edge is one edge instance as returned by the REST++ API.
type Edge struct {
	EType      string         `json:"e_type"`
	FromType   string         `json:"from_type"`
	FromID     string         `json:"from_id"`
	ToType     string         `json:"to_type"`
	ToID       string         `json:"to_id"`
	Directed   bool           `json:"directed"`
	Attributes map[string]any `json:"attributes"`
}

// EdgeKey identifies one edge endpoint pair in an upsert batch.
type EdgeKey struct {
	FromID string
	ToID   string
}

// UpsertEdge creates or updates one edge.
//
// The edge type must be defined between the given vertex types; the
// endpoint vertices are created implicitly when absent. Returns the
// number of edges accepted by the server (0 or 1).
func (c *Connection) UpsertEdge(ctx context.Context, sourceVertexType, sourceVertexID, edgeType, targetVertexType, targetVertexID string, attributes Attrs) (int, error) {
	if attributes == nil {
		attributes = Attrs{}
	}
	payload := map[string]any{
		"edges": map[string]any{
			sourceVertexType: map[string]any{
				sourceVertexID: map[string]any{
					edgeType: map[string]any{
						targetVertexType: map[string]any{
							targetVertexID: attributes,
						},
					},
				},
			},
		},
	}
	return c.upsert(ctx, payload, true)
}

// UpsertEdges creates or updates a batch of edges of one type between
// one pair of vertex types. Returns the number of edges accepted.
func (c *Connection) UpsertEdges(ctx context.Context, sourceVertexType, edgeType, targetVertexType string, edges map[EdgeKey]Attrs) (int, error) {
	bySource := map[string]any{}
	for key, attrs := range edges {
		if attrs == nil {
			attrs = Attrs{}
		}
		src, ok := bySource[key.FromID].(map[string]any)
		if !ok {
			src = map[string]any{}
			bySource[key.FromID] = src
		}
		et, ok := src[edgeType].(map[string]any)
		if !ok {
			et = map[string]any{}
			src[edgeType] = et
		}
		tgt, ok := et[targetVertexType].(map[string]any)
		if !ok {
			tgt = map[string]any{}
			et[targetVertexType] = tgt
		}
		tgt[key.ToID] = attrs
	}

	payload := map[string]any{
		"edges": map[string]any{sourceVertexType: bySource},
	}
	return c.upsert(ctx, payload, true)
}

// EdgeQuery restricts and shapes an edge retrieval. The zero value
// selects everything reachable from the source vertex.
type EdgeQuery struct {
	// EdgeType restricts results to one edge type.
	EdgeType string
	// TargetVertexType restricts results to edges ending at one
	// vertex type. Requires EdgeType.
	TargetVertexType string
	// TargetVertexID restricts results to edges ending at one vertex
	// instance. Requires TargetVertexType.
	TargetVertexID string
	// Select, Where, Sort and Limit behave as in VertexQuery.
	Select string
	Where  string
	Sort   string
	Limit  int
}

// edgesURL builds the REST++ edge path for the query.
func (c *Connection) edgesURL(sourceVertexType, sourceVertexID string, q EdgeQuery) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/graph/%s/edges/%s/%s",
		c.restppURL, safePath(c.cfg.GraphName), safePath(sourceVertexType), safePath(sourceVertexID))
	if q.EdgeType != "" {
		sb.WriteString("/" + safePath(q.EdgeType))
		if q.TargetVertexType != "" {
			sb.WriteString("/" + safePath(q.TargetVertexType))
			if q.TargetVertexID != "" {
				sb.WriteString("/" + safePath(q.TargetVertexID))
			}
		}
	}
	vq := VertexQuery{Select: q.Select, Where: q.Where, Sort: q.Sort, Limit: q.Limit}
	if params := vq.values().Encode(); params != "" {
		sb.WriteString("?" + params)
	}
	return sb.String()
}

// GetEdges retrieves the edges originating at one vertex instance,
// optionally restricted by the query.
func (c *Connection) GetEdges(ctx context.Context, sourceVertexType, sourceVertexID string, query EdgeQuery) ([]Edge, error) {
	if sourceVertexType == "" || sourceVertexID == "" {
		return nil, fmt.Errorf("both sourceVertexType and sourceVertexID must be provided")
	}
	var edges []Edge
	if err := c.get(ctx, c.edgesURL(sourceVertexType, sourceVertexID, query), &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// GetEdgesByType retrieves every edge of one type regardless of
// source vertex, via an interpreted query over the type's source
// vertices. Edge types with wildcard or multiple source vertex types
// cannot be enumerated this way; query them per source vertex.
func (c *Connection) GetEdgesByType(ctx context.Context, edgeType string) ([]Edge, error) {
	sourceTypes, err := c.GetEdgeSourceVertexTypes(ctx, edgeType)
	if err != nil {
		return nil, err
	}
	if len(sourceTypes) != 1 || sourceTypes[0] == "*" {
		return nil, fmt.Errorf("edge type %s has wildcard or multiple source vertex types; use GetEdges per source vertex", edgeType)
	}

	source := fmt.Sprintf(`INTERPRET QUERY () FOR GRAPH $graphname {
  SetAccum<EDGE> @@edges;
  start = {%s.*};
  res = SELECT s FROM start:s -(:e)- ANY:t
        WHERE e.type == "%s"
        ACCUM @@edges += e;
  PRINT @@edges AS edges;
}`, sourceTypes[0], edgeType)

	raw, err := c.RunInterpretedQuery(ctx, source, nil)
	if err != nil {
		return nil, fmt.Errorf("get edges of type %s: %w", edgeType, err)
	}

	var results []struct {
		Edges []Edge `json:"edges"`
	}
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decode edges of type %s: %w", edgeType, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].Edges, nil
}

// GetEdgeCount returns the number of edges per edge type, from the
// server's built-in statistics. Pass "*" to count every edge type;
// sourceVertexType/targetVertexType narrow the count to edges between
// two vertex types.
func (c *Connection) GetEdgeCount(ctx context.Context, edgeType, sourceVertexType, targetVertexType string) (map[string]int64, error) {
	if edgeType == "" {
		edgeType = "*"
	}
	body := map[string]string{"function": "stat_edge_number", "type": edgeType}
	if sourceVertexType != "" {
		body["from_type"] = sourceVertexType
	}
	if targetVertexType != "" {
		body["to_type"] = targetVertexType
	}

	rawURL := fmt.Sprintf("%s/builtins/%s", c.restppURL, safePath(c.cfg.GraphName))
	var results []struct {
		EType string `json:"e_type"`
		Count int64  `json:"count"`
	}
	if err := c.post(ctx, rawURL, body, &results); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.EType] = r.Count
	}
	return counts, nil
}

// GetEdgeCountFrom returns the number of edges originating at one
// vertex instance, per edge type. A where condition narrows the count;
// it requires both source arguments, mirroring the REST++ contract.
func (c *Connection) GetEdgeCountFrom(ctx context.Context, sourceVertexType, sourceVertexID string, query EdgeQuery) (map[string]int64, error) {
	if sourceVertexType == "" || sourceVertexID == "" {
		return nil, fmt.Errorf("both sourceVertexType and sourceVertexID must be provided")
	}

	q := query
	q.Select, q.Sort, q.Limit = "", "", 0
	rawURL := c.edgesURL(sourceVertexType, sourceVertexID, q)
	if strings.Contains(rawURL, "?") {
		rawURL += "&count_only=true"
	} else {
		rawURL += "?count_only=true"
	}

	var results []struct {
		EType string `json:"e_type"`
		Count int64  `json:"count"`
	}
	if err := c.get(ctx, rawURL, &results); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.EType] = r.Count
	}
	return counts, nil
}

// AttributeStats holds the built-in statistics of one edge type's
// attributes, keyed by attribute name. The per-attribute shape depends
// on the attribute type (numeric attributes get min/max/avg).
type AttributeStats map[string]map[string]any

// GetEdgeStats returns attribute statistics per edge type. Pass "*"
// for all edge types. When skipNA is true, edge types whose attributes
// carry no numeric statistics are omitted instead of reported as an
// error by the server.
func (c *Connection) GetEdgeStats(ctx context.Context, edgeTypes []string, skipNA bool) (map[string]AttributeStats, error) {
	stats := make(map[string]AttributeStats)

	for _, et := range edgeTypes {
		body := map[string]string{"function": "stat2_edge_attr", "type": et}
		rawURL := fmt.Sprintf("%s/builtins/%s", c.restppURL, safePath(c.cfg.GraphName))

		var results []struct {
			EType      string         `json:"e_type"`
			Attributes AttributeStats `json:"attributes"`
		}
		if err := c.post(ctx, rawURL, body, &results); err != nil {
			if skipNA {
				c.logger.Debug("skipping edge type without stats", "edge_type", et, "error", err.Error())
				continue
			}
			return nil, fmt.Errorf("stats for edge type %q: %w", et, err)
		}
		for _, r := range results {
			stats[r.EType] = r.Attributes
		}
	}

	return stats, nil
}

// DeleteEdges deletes the edges originating at one vertex instance,
// optionally restricted by the query. Returns deleted counts per edge
// type.
func (c *Connection) DeleteEdges(ctx context.Context, sourceVertexType, sourceVertexID string, query EdgeQuery) (map[string]int64, error) {
	if sourceVertexType == "" || sourceVertexID == "" {
		return nil, fmt.Errorf("both sourceVertexType and sourceVertexID must be provided")
	}

	var results []struct {
		EType        string `json:"e_type"`
		DeletedEdges int64  `json:"deleted_edges"`
	}
	if err := c.delete(ctx, c.edgesURL(sourceVertexType, sourceVertexID, query), &results); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.EType] = r.DeletedEdges
	}
	return counts, nil
}
