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
	"github.com/AleutianAI/tigergo/pkg/validation"
	"github.com/google/uuid"
)

// SchemaKind selects which side of the schema a result attribute is
// added to.
type SchemaKind string

const (
	KindVertex SchemaKind = "VERTEX"
	KindEdge   SchemaKind = "EDGE"
)

// SchemaUnchanged is returned by EnsureAttribute when every target
// type already carries the attribute.
const SchemaUnchanged = "attribute already exists on all targets"

// EnsureAttribute adds attrName (of the given GSQL type) to each
// target vertex or edge type that does not already have it, via one
// global schema-change job. An empty target list means every type of
// that kind. The returned string is the final GSQL status line, or
// SchemaUnchanged when no type needed altering.
func (f *Featurizer) EnsureAttribute(ctx context.Context, kind SchemaKind, attrType ResultType, attrName string, targets []string) (string, error) {
	if kind != KindVertex && kind != KindEdge {
		return "", fmt.Errorf("schema kind must be %s or %s, got %q", KindVertex, KindEdge, kind)
	}
	if err := validation.ValidateIdentifier(attrName); err != nil {
		return "", fmt.Errorf("attribute name: %w", err)
	}
	if err := validation.ValidateIdentifiers(targets); err != nil {
		return "", err
	}

	if len(targets) == 0 {
		var err error
		targets, err = f.allTypes(ctx, kind)
		if err != nil {
			return "", err
		}
	}

	var statements []string
	for _, target := range targets {
		has, err := f.hasAttribute(ctx, kind, target, attrName)
		if err != nil {
			return "", err
		}
		if !has {
			statements = append(statements,
				fmt.Sprintf("ALTER %s %s ADD ATTRIBUTE (%s %s);", kind, target, attrName, attrType))
		}
	}
	if len(statements) == 0 {
		return SchemaUnchanged, nil
	}

	// The random suffix keeps concurrent sessions from colliding on
	// the global job name.
	jobName := fmt.Sprintf("add_%s_attr_%s", strings.ToLower(string(kind)), uuid.NewString()[:8])
	job := fmt.Sprintf("USE GRAPH %s\nCREATE GLOBAL SCHEMA_CHANGE JOB %s {\n  %s\n}\nRUN GLOBAL SCHEMA_CHANGE JOB %s",
		f.conn.GraphName(), jobName, strings.Join(statements, "\n  "), jobName)

	f.logger.Info("altering schema for result attribute",
		"attribute", attrName, "type", string(attrType), "targets", len(statements), "job", jobName)

	output, err := f.conn.GSQL(ctx, job)
	if err != nil {
		return "", fmt.Errorf("schema change job %s: %w", jobName, err)
	}
	if err := tigergraph.CheckGSQLStatus(output); err != nil {
		return "", fmt.Errorf("schema change job %s: %w", jobName, err)
	}
	return tigergraph.LastStatusLine(output), nil
}

func (f *Featurizer) allTypes(ctx context.Context, kind SchemaKind) ([]string, error) {
	if kind == KindVertex {
		return f.conn.GetVertexTypes(ctx, false)
	}
	return f.conn.GetEdgeTypes(ctx, false)
}

func (f *Featurizer) hasAttribute(ctx context.Context, kind SchemaKind, typeName, attrName string) (bool, error) {
	var attrs []tigergraph.Attribute
	if kind == KindVertex {
		meta, err := f.conn.GetVertexType(ctx, typeName, false)
		if err != nil {
			return false, fmt.Errorf("inspecting vertex type %s: %w", typeName, err)
		}
		attrs = meta.Attributes
	} else {
		meta, err := f.conn.GetEdgeType(ctx, typeName, false)
		if err != nil {
			return false, fmt.Errorf("inspecting edge type %s: %w", typeName, err)
		}
		attrs = meta.Attributes
	}
	for _, a := range attrs {
		if a.AttributeName == attrName {
			return true, nil
		}
	}
	return false, nil
}
