// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gds

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/AleutianAI/tigergo/pkg/tigergraph"
)

// resultAttrParam is the conventional name algorithms use for the
// parameter naming the attribute their results are written to.
const resultAttrParam = "result_attr"

// RunConfig configures one algorithm execution.
type RunConfig struct {
	// Params are the query parameters. When nil, defaults are
	// inferred from the algorithm's header; a header parameter
	// without a default then fails the run. An empty non-nil map runs
	// the algorithm with no parameters.
	Params map[string]any

	// ResultAttribute, when set, asks the algorithm to write its
	// per-element result into an attribute of this name, creating the
	// attribute on the target types first if needed. The algorithm
	// must accept a result_attr parameter.
	ResultAttribute string

	// SchemaKind selects vertex or edge attributes for
	// ResultAttribute. Defaults to KindVertex.
	SchemaKind SchemaKind

	// Targets restricts the schema change to these type names. Empty
	// means all types of the selected kind.
	Targets []string

	// Timeout bounds the query server side. Zero uses the server
	// maximum.
	Timeout time.Duration

	// SizeLimit caps the response size in bytes. Zero leaves the
	// server default.
	SizeLimit int64
}

// RunAlgorithm installs (if needed) and executes an algorithm,
// returning the raw query results.
func (f *Featurizer) RunAlgorithm(ctx context.Context, name string, cfg RunConfig) (json.RawMessage, error) {
	installedName, err := f.Install(ctx, name, nil)
	if err != nil {
		return nil, err
	}

	params := cfg.Params
	if params == nil {
		params, err = f.defaultParams(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	if cfg.ResultAttribute != "" {
		// Copy before injecting result_attr so neither the inferred
		// defaults cache nor a caller-supplied map is mutated.
		params = maps.Clone(params)
		if err := f.prepareResultAttribute(ctx, name, cfg, params); err != nil {
			return nil, err
		}
	}

	f.logger.Info("running algorithm", "algorithm", installedName, "params", len(params))
	return f.conn.RunInstalledQuery(ctx, installedName, params, tigergraph.RunOptions{
		Timeout:   cfg.Timeout,
		SizeLimit: cfg.SizeLimit,
	})
}

// defaultParams infers the parameter defaults for name and verifies
// they are complete. An unparseable header degrades to running with
// no parameters; a parameter with no default is a validation error
// pointing at the algorithm's documentation.
func (f *Featurizer) defaultParams(ctx context.Context, name string) (map[string]any, error) {
	inferred, err := f.InferDefaults(ctx, name)
	if err != nil {
		return nil, err
	}
	if inferred.ParseErr != nil {
		f.logger.Warn("could not infer parameter defaults, running without parameters",
			"algorithm", name, "error", inferred.ParseErr)
		return map[string]any{}, nil
	}
	if missing := inferred.Missing(); len(missing) > 0 {
		ref, _ := f.ReferenceLocation(name)
		return nil, &ValidationError{
			Algorithm: name,
			Reason:    fmt.Sprintf("parameters %s have no default and none were supplied", strings.Join(missing, ", ")),
			Reference: ref,
		}
	}
	return inferred.Params, nil
}

// prepareResultAttribute validates that the algorithm supports
// writing results to an attribute, ensures the attribute exists on
// the target types, and injects it into params.
func (f *Featurizer) prepareResultAttribute(ctx context.Context, name string, cfg RunConfig, params map[string]any) error {
	inferred, err := f.InferDefaults(ctx, name)
	if err != nil {
		return err
	}
	ref, _ := f.ReferenceLocation(name)
	if inferred.ParseErr != nil {
		return &ValidationError{
			Algorithm: name,
			Reason:    "cannot verify result attribute support: " + inferred.ParseErr.Error(),
			Reference: ref,
		}
	}
	if _, ok := inferred.Params[resultAttrParam]; !ok {
		return &ValidationError{
			Algorithm: name,
			Reason:    "algorithm does not accept a " + resultAttrParam + " parameter",
			Reference: ref,
		}
	}

	entry, _ := f.catalog.Entry(name)
	if entry.ResultType == "" {
		return &ValidationError{
			Algorithm: name,
			Reason:    "algorithm does not declare a result type",
			Reference: ref,
		}
	}

	kind := cfg.SchemaKind
	if kind == "" {
		kind = KindVertex
	}
	if _, err := f.EnsureAttribute(ctx, kind, entry.ResultType, cfg.ResultAttribute, cfg.Targets); err != nil {
		return err
	}
	params[resultAttrParam] = cfg.ResultAttribute
	return nil
}
