// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tigergraph

import (
	"context"
	"fmt"
	"sync"
)

// -----------------------------------------------------------------------------
// Schema types
// -----------------------------------------------------------------------------

// AttributeType describes the declared type of a schema attribute.
type AttributeType struct {
	Name string `json:"Name"`
}

// Attribute is one attribute of a vertex or edge type.
type Attribute struct {
	AttributeName string        `json:"AttributeName"`
	AttributeType AttributeType `json:"AttributeType"`
}

// VertexType is the schema metadata of one vertex type.
type VertexType struct {
	Name       string      `json:"Name"`
	Attributes []Attribute `json:"Attributes"`
}

// EdgePair is one (source, target) vertex type pair of an edge type
// defined between multiple vertex types (3.0+ notation).
type EdgePair struct {
	From string `json:"From"`
	To   string `json:"To"`
}

// EdgeType is the schema metadata of one edge type.
type EdgeType struct {
	Name               string         `json:"Name"`
	FromVertexTypeName string         `json:"FromVertexTypeName"`
	ToVertexTypeName   string         `json:"ToVertexTypeName"`
	IsDirected         bool           `json:"IsDirected"`
	Config             map[string]any `json:"Config"`
	EdgePairs          []EdgePair     `json:"EdgePairs"`
	Attributes         []Attribute    `json:"Attributes"`
}

// Schema is the full schema of a graph.
type Schema struct {
	VertexTypes []VertexType `json:"VertexTypes"`
	EdgeTypes   []EdgeType   `json:"EdgeTypes"`
}

// schemaCache holds the per-session schema copy.
type schemaCache struct {
	mu     sync.Mutex
	schema *Schema
}

// -----------------------------------------------------------------------------
// Introspection
// -----------------------------------------------------------------------------

// GetSchema returns the schema of the graph.
//
// The schema is fetched once per connection and cached; pass force to
// refresh the cached copy (e.g. after a schema change job).
func (c *Connection) GetSchema(ctx context.Context, force bool) (*Schema, error) {
	c.schemaCache.mu.Lock()
	defer c.schemaCache.mu.Unlock()

	if c.schemaCache.schema != nil && !force {
		return c.schemaCache.schema, nil
	}

	rawURL := fmt.Sprintf("%s/gsqlserver/gsql/schema?graph=%s", c.gsURL, safePath(c.cfg.GraphName))
	var schema Schema
	if err := c.get(ctx, rawURL, &schema); err != nil {
		return nil, fmt.Errorf("get schema: %w", err)
	}

	c.schemaCache.schema = &schema
	return &schema, nil
}

// GetVertexTypes returns the vertex type names of the graph.
func (c *Connection) GetVertexTypes(ctx context.Context, force bool) ([]string, error) {
	schema, err := c.GetSchema(ctx, force)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(schema.VertexTypes))
	for _, vt := range schema.VertexTypes {
		names = append(names, vt.Name)
	}
	return names, nil
}

// GetVertexType returns the metadata of one vertex type.
// Returns ErrVertexTypeNotFound when the type is not in the schema.
func (c *Connection) GetVertexType(ctx context.Context, vertexType string, force bool) (*VertexType, error) {
	schema, err := c.GetSchema(ctx, force)
	if err != nil {
		return nil, err
	}
	for i := range schema.VertexTypes {
		if schema.VertexTypes[i].Name == vertexType {
			return &schema.VertexTypes[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", vertexType, ErrVertexTypeNotFound)
}

// GetEdgeTypes returns the edge type names of the graph.
func (c *Connection) GetEdgeTypes(ctx context.Context, force bool) ([]string, error) {
	schema, err := c.GetSchema(ctx, force)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(schema.EdgeTypes))
	for _, et := range schema.EdgeTypes {
		names = append(names, et.Name)
	}
	return names, nil
}

// GetEdgeType returns the metadata of one edge type.
// Returns ErrEdgeTypeNotFound when the type is not in the schema.
func (c *Connection) GetEdgeType(ctx context.Context, edgeType string, force bool) (*EdgeType, error) {
	schema, err := c.GetSchema(ctx, force)
	if err != nil {
		return nil, err
	}
	for i := range schema.EdgeTypes {
		if schema.EdgeTypes[i].Name == edgeType {
			return &schema.EdgeTypes[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", edgeType, ErrEdgeTypeNotFound)
}

// GetEdgeSourceVertexTypes returns the source vertex type name(s) of
// an edge type.
//
// An edge defined FROM a single vertex type yields one name. An edge
// defined between multiple vertex types (3.0+ notation) yields the
// unique set of source types from its edge pairs. Pre-3.x wildcard
// edges yield ["*"].
func (c *Connection) GetEdgeSourceVertexTypes(ctx context.Context, edgeType string) ([]string, error) {
	et, err := c.GetEdgeType(ctx, edgeType, false)
	if err != nil {
		return nil, err
	}
	if et.FromVertexTypeName != "*" {
		return []string{et.FromVertexTypeName}, nil
	}
	if len(et.EdgePairs) > 0 {
		return uniquePairMembers(et.EdgePairs, func(p EdgePair) string { return p.From }), nil
	}
	return []string{"*"}, nil
}

// GetEdgeTargetVertexTypes returns the target vertex type name(s) of
// an edge type, with the same notation rules as
// GetEdgeSourceVertexTypes.
func (c *Connection) GetEdgeTargetVertexTypes(ctx context.Context, edgeType string) ([]string, error) {
	et, err := c.GetEdgeType(ctx, edgeType, false)
	if err != nil {
		return nil, err
	}
	if et.ToVertexTypeName != "*" {
		return []string{et.ToVertexTypeName}, nil
	}
	if len(et.EdgePairs) > 0 {
		return uniquePairMembers(et.EdgePairs, func(p EdgePair) string { return p.To }), nil
	}
	return []string{"*"}, nil
}

// IsDirected reports whether the edge type is directed.
func (c *Connection) IsDirected(ctx context.Context, edgeType string) (bool, error) {
	et, err := c.GetEdgeType(ctx, edgeType, false)
	if err != nil {
		return false, err
	}
	return et.IsDirected, nil
}

// GetReverseEdge returns the name of the reverse edge of a directed
// edge type. Returns ErrNotDirected for undirected edges and an empty
// string when no reverse edge was defined.
func (c *Connection) GetReverseEdge(ctx context.Context, edgeType string) (string, error) {
	et, err := c.GetEdgeType(ctx, edgeType, false)
	if err != nil {
		return "", err
	}
	if !et.IsDirected {
		return "", fmt.Errorf("%q: %w", edgeType, ErrNotDirected)
	}
	if rev, ok := et.Config["REVERSE_EDGE"]; ok {
		if name, ok := rev.(string); ok {
			return name, nil
		}
	}
	return "", nil
}

// uniquePairMembers extracts the unique values of one side of a set of
// edge pairs, preserving first-seen order.
func uniquePairMembers(pairs []EdgePair, side func(EdgePair) string) []string {
	seen := make(map[string]bool, len(pairs))
	var out []string
	for _, p := range pairs {
		v := side(p)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
