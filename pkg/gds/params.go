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
	"sort"
	"strconv"
	"strings"
)

// ParamResult is the outcome of inferring parameter defaults from an
// algorithm's GSQL header.
//
// Params maps each declared parameter name to its default value; a
// nil value means the parameter has no default and the caller must
// supply one. ParseErr is set when the header could not be parsed at
// all, which is distinct from a header that declares no parameters.
type ParamResult struct {
	Params   map[string]any
	ParseErr error
}

// Missing returns the names of parameters that have no default.
func (r ParamResult) Missing() []string {
	var missing []string
	for name, val := range r.Params {
		if val == nil {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// InferDefaults fetches an algorithm's source and extracts its
// declared parameters and default values from the CREATE QUERY
// header. Results are cached per algorithm for the life of the
// Featurizer.
//
// The returned error covers resolution failures only; a header that
// defeats the parser is reported in ParamResult.ParseErr so callers
// can tell "no parameters" from "parsing broke".
func (f *Featurizer) InferDefaults(ctx context.Context, name string) (ParamResult, error) {
	if cached, ok := f.paramCache[name]; ok {
		return cached, nil
	}

	source, _, err := f.Resolve(ctx, name)
	if err != nil {
		return ParamResult{}, err
	}

	result := parseParamDefaults(source)
	f.paramCache[name] = result
	return result, nil
}

// parseParamDefaults extracts parameter declarations from the text
// between the first '(' and the first ')' of the source. Splitting is
// on top-level commas only in spirit: commas inside composite type
// expressions are not understood, matching the flat headers the
// built-in library uses.
func parseParamDefaults(source string) ParamResult {
	open := strings.Index(source, "(")
	closing := strings.Index(source, ")")
	if open < 0 || closing < 0 || closing < open {
		return ParamResult{ParseErr: fmt.Errorf("no parameter list found in query header")}
	}

	header := source[open+1 : closing]
	params := make(map[string]any)
	if strings.TrimSpace(header) == "" {
		return ParamResult{Params: params}
	}

	for _, decl := range strings.Split(header, ",") {
		name, value, err := parseParamDecl(decl)
		if err != nil {
			return ParamResult{ParseErr: err}
		}
		params[name] = value
	}
	return ParamResult{Params: params}
}

// parseParamDecl parses one "TYPE name [= default]" declaration. The
// returned value is nil when the declaration carries no default.
func parseParamDecl(decl string) (string, any, error) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return "", nil, fmt.Errorf("empty parameter declaration")
	}

	left, literal, hasDefault := strings.Cut(decl, "=")
	fields := strings.Fields(left)
	if len(fields) < 2 {
		return "", nil, fmt.Errorf("malformed parameter declaration %q", decl)
	}
	typeTag, name := fields[0], fields[1]
	if !hasDefault {
		return name, nil, nil
	}

	value, err := coerceLiteral(typeTag, literal)
	if err != nil {
		return "", nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	return name, value, nil
}

// coerceLiteral converts a default-value literal according to the
// declared type tag. Unknown tags keep the literal as a string.
func coerceLiteral(typeTag, literal string) (any, error) {
	literal = strings.TrimSpace(literal)
	switch strings.ToLower(typeTag) {
	case "float", "double":
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s literal %q", strings.ToLower(typeTag), literal)
		}
		return v, nil
	case "int":
		v, err := strconv.Atoi(literal)
		if err != nil {
			return nil, fmt.Errorf("invalid int literal %q", literal)
		}
		return v, nil
	case "bool":
		v, err := strconv.ParseBool(strings.ToLower(literal))
		if err != nil {
			return nil, fmt.Errorf("invalid bool literal %q", literal)
		}
		return v, nil
	case "string":
		return strings.Trim(literal, `"'`), nil
	default:
		return literal, nil
	}
}
