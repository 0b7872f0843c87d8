// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gds

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/tigergo/pkg/tigergraph"
)

// QuerySuffixToken is the placeholder in algorithm sources (and their
// names) that lets one algorithm be installed multiple times under
// distinct names. Substituting it is part of name resolution, so the
// effective name is known before the installed-query check.
const QuerySuffixToken = "{QUERYSUFFIX}"

// applySubstitutions rewrites every placeholder token in s.
// Placeholder keys are given bare ("QUERYSUFFIX"), braces are added
// here.
func applySubstitutions(s string, subs map[string]string) string {
	for key, val := range subs {
		s = strings.ReplaceAll(s, "{"+key+"}", val)
	}
	return s
}

// effectiveName returns the name an algorithm runs under after
// placeholder substitution.
func effectiveName(name string, subs map[string]string) string {
	return applySubstitutions(name, subs)
}

// IsInstalled reports whether a query of the given name is installed
// on the connection's graph.
func (f *Featurizer) IsInstalled(ctx context.Context, name string) (bool, error) {
	endpoints, err := f.conn.GetInstalledQueries(ctx)
	if err != nil {
		return false, fmt.Errorf("listing installed queries: %w", err)
	}
	key := fmt.Sprintf("GET /query/%s/%s", f.conn.GraphName(), name)
	_, ok := endpoints[key]
	return ok, nil
}

// Install makes an algorithm available on the graph and returns the
// name it is installed under. Already-installed algorithms are left
// alone. Substitution placeholders are applied to both the algorithm
// name and its source before anything touches the database, so a
// suffixed variant is checked and installed under its final name.
func (f *Featurizer) Install(ctx context.Context, name string, substitutions map[string]string) (string, error) {
	// Stray whitespace would miss the installed-query key and then the
	// catalog lookup.
	name = strings.TrimSpace(name)
	resolved := effectiveName(name, substitutions)

	installed, err := f.IsInstalled(ctx, resolved)
	if err != nil {
		return "", err
	}
	if installed {
		f.logger.Debug("algorithm already installed", "algorithm", resolved)
		return resolved, nil
	}

	// Catalog keys never carry the suffix token, so lookup uses the
	// base name even when the install target is a suffixed variant.
	base := strings.ReplaceAll(name, QuerySuffixToken, "")
	source, _, err := f.Resolve(ctx, base)
	if err != nil {
		return "", err
	}
	source = applySubstitutions(source, substitutions)

	f.logger.Info("installing and optimizing algorithm, this takes a minute",
		"algorithm", resolved, "graph", f.conn.GraphName())

	statement := fmt.Sprintf("USE GRAPH %s\n%s\nINSTALL QUERY %s\n",
		f.conn.GraphName(), source, resolved)
	output, err := f.conn.GSQL(ctx, statement)
	if err != nil {
		return "", fmt.Errorf("installing %s: %w", resolved, err)
	}
	if err := tigergraph.CheckGSQLStatus(output); err != nil {
		return "", fmt.Errorf("installing %s: %w", resolved, err)
	}

	f.logger.Info("algorithm installed", "algorithm", resolved)
	return resolved, nil
}
