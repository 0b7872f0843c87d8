// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gds

import (
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Result types
// -----------------------------------------------------------------------------

// ResultType is the declared type of the value an algorithm writes
// into its result attribute. The strings are the exact GSQL attribute
// types used in schema-change statements.
type ResultType string

const (
	ResultFloat      ResultType = "Float"
	ResultInt        ResultType = "INT"
	ResultListDouble ResultType = "List<Double>"
)

// -----------------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------------

// Entry is one algorithm in the catalog.
type Entry struct {
	// Name is the routine name, globally unique across the catalog
	// (e.g. "tg_pagerank").
	Name string

	// CategoryPath is the ordered category labels leading to the
	// algorithm (e.g. Centrality, pagerank, global, unweighted).
	CategoryPath []string

	// SourceURL is the raw location of the GSQL source file.
	SourceURL string

	// ResultType is the declared type of the algorithm's result
	// attribute. Empty for algorithms that do not write results into
	// an attribute.
	ResultType ResultType
}

// ReferenceURL derives the human-browsable repository link for the
// entry from its raw source location.
func (e Entry) ReferenceURL() string {
	const marker = "/master/"
	i := strings.Index(e.SourceURL, marker)
	if i < 0 {
		return e.SourceURL
	}
	return browsableRepo + e.SourceURL[i+len(marker)-1:]
}

// catalogNode is the authored nested form of the catalog: a node is
// either a category (Children non-empty) or a leaf (URL non-empty).
type catalogNode struct {
	Label    string
	URL      string
	Children []catalogNode
}

// Catalog is the static table of known algorithms.
//
// The nested authored form is flattened once at construction into a
// name-keyed map, which makes the "leaf names are globally unique"
// precondition explicit and checkable instead of silently resolving
// duplicates by traversal order.
type Catalog struct {
	roots   []catalogNode
	entries map[string]Entry
}

// NewCatalog flattens a nested algorithm tree into a Catalog.
// It fails when two leaves share a name.
func NewCatalog(roots []catalogNode, resultTypes map[string]ResultType) (*Catalog, error) {
	c := &Catalog{
		roots:   roots,
		entries: make(map[string]Entry),
	}
	for _, root := range roots {
		if err := c.flatten(root, nil, resultTypes); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) flatten(n catalogNode, path []string, resultTypes map[string]ResultType) error {
	if n.URL != "" {
		name := leafName(n.URL)
		if prev, ok := c.entries[name]; ok {
			return fmt.Errorf("duplicate algorithm name %q (categories %s and %s)",
				name, strings.Join(prev.CategoryPath, "/"), strings.Join(append(path, n.Label), "/"))
		}
		c.entries[name] = Entry{
			Name:         name,
			CategoryPath: append(append([]string{}, path...), n.Label),
			SourceURL:    n.URL,
			ResultType:   resultTypes[name],
		}
		return nil
	}
	childPath := append(path, n.Label)
	for _, child := range n.Children {
		if err := c.flatten(child, childPath, resultTypes); err != nil {
			return err
		}
	}
	return nil
}

// leafName derives the routine name from a source URL: the final path
// segment minus its ".gsql" extension.
func leafName(url string) string {
	segment := url[strings.LastIndex(url, "/")+1:]
	return strings.TrimSuffix(segment, ".gsql")
}

// Entry looks up one algorithm by name.
func (c *Catalog) Entry(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns every algorithm name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of algorithms in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Render formats the catalog as an indented category tree, each leaf
// annotated with its browsable documentation link. When category is
// non-empty only that top-level category is rendered; an unknown
// category is an error.
func (c *Catalog) Render(category string) (string, error) {
	roots := c.roots
	if category != "" {
		found := false
		for _, root := range c.roots {
			if root.Label == category {
				roots = root.Children
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("no such algorithm category %q", category)
		}
	}

	var sb strings.Builder
	for _, root := range roots {
		renderNode(&sb, root, 0)
	}
	return sb.String(), nil
}

func renderNode(sb *strings.Builder, n catalogNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.URL != "" {
		ref := (Entry{SourceURL: n.URL}).ReferenceURL()
		fmt.Fprintf(sb, "%s%s: %s\n", indent, leafName(n.URL), ref)
		return
	}
	fmt.Fprintf(sb, "%s%s:\n", indent, n.Label)
	for _, child := range n.Children {
		renderNode(sb, child, depth+1)
	}
}
