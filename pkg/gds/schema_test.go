// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gds

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAttributeAltersMissingTypes(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() {}",
	})
	conn := newFakeConn()
	conn.vertexTypes = []string{"Person", "Company"}
	conn.vertexAttrs["Person"] = []string{"pagerank"}
	conn.gsqlOut = "Global schema change succeeded."
	f := newTestFeaturizer(t, srv, conn)

	status, err := f.EnsureAttribute(context.Background(), KindVertex, ResultFloat, "pagerank", nil)
	require.NoError(t, err)
	assert.Equal(t, "Global schema change succeeded.", status)

	require.Len(t, conn.gsqlCalls, 1)
	job := conn.gsqlCalls[0]
	assert.Contains(t, job, "USE GRAPH tests\n")
	assert.Contains(t, job, "CREATE GLOBAL SCHEMA_CHANGE JOB add_vertex_attr_")
	assert.Contains(t, job, "RUN GLOBAL SCHEMA_CHANGE JOB add_vertex_attr_")
	assert.Contains(t, job, "ALTER VERTEX Company ADD ATTRIBUTE (pagerank Float);")
	assert.NotContains(t, job, "ALTER VERTEX Person")
}

func TestEnsureAttributeNothingToDo(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() {}",
	})
	conn := newFakeConn()
	conn.vertexTypes = []string{"Person"}
	conn.vertexAttrs["Person"] = []string{"score"}
	f := newTestFeaturizer(t, srv, conn)

	status, err := f.EnsureAttribute(context.Background(), KindVertex, ResultInt, "score", nil)
	require.NoError(t, err)
	assert.Equal(t, SchemaUnchanged, status)
	assert.Empty(t, conn.gsqlCalls)
}

func TestEnsureAttributeEdgeKindAndTargets(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() {}",
	})
	conn := newFakeConn()
	conn.edgeTypes = []string{"Knows", "WorksAt", "Linked"}
	f := newTestFeaturizer(t, srv, conn)

	_, err := f.EnsureAttribute(context.Background(), KindEdge, ResultInt, "weight", []string{"Knows"})
	require.NoError(t, err)

	require.Len(t, conn.gsqlCalls, 1)
	job := conn.gsqlCalls[0]
	assert.Contains(t, job, "add_edge_attr_")
	assert.Contains(t, job, "ALTER EDGE Knows ADD ATTRIBUTE (weight INT);")
	// Explicit targets bypass enumeration of the other edge types.
	assert.NotContains(t, job, "WorksAt")
	assert.NotContains(t, job, "Linked")
}

func TestEnsureAttributeJobNamesAreUnique(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() {}",
	})
	conn := newFakeConn()
	conn.vertexTypes = []string{"Person"}
	f := newTestFeaturizer(t, srv, conn)
	ctx := context.Background()

	_, err := f.EnsureAttribute(ctx, KindVertex, ResultFloat, "a", nil)
	require.NoError(t, err)
	_, err = f.EnsureAttribute(ctx, KindVertex, ResultFloat, "b", nil)
	require.NoError(t, err)

	require.Len(t, conn.gsqlCalls, 2)
	assert.NotEqual(t, jobName(t, conn.gsqlCalls[0]), jobName(t, conn.gsqlCalls[1]))
}

func TestEnsureAttributeRejectsUnsafeNames(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() {}",
	})
	conn := newFakeConn()
	f := newTestFeaturizer(t, srv, conn)
	ctx := context.Background()

	_, err := f.EnsureAttribute(ctx, KindVertex, ResultFloat, "x; DROP ALL", nil)
	require.Error(t, err)

	_, err = f.EnsureAttribute(ctx, KindVertex, ResultFloat, "ok", []string{"Person", "bad name"})
	require.Error(t, err)
	assert.Empty(t, conn.gsqlCalls)
}

func TestEnsureAttributeRejectsBadKind(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() {}",
	})
	f := newTestFeaturizer(t, srv, nil)

	_, err := f.EnsureAttribute(context.Background(), SchemaKind("GRAPH"), ResultFloat, "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema kind")
}

// jobName extracts the schema-change job name from a GSQL statement.
func jobName(t *testing.T, stmt string) string {
	t.Helper()
	const marker = "CREATE GLOBAL SCHEMA_CHANGE JOB "
	i := strings.Index(stmt, marker)
	require.GreaterOrEqual(t, i, 0)
	rest := stmt[i+len(marker):]
	return strings.Fields(rest)[0]
}
