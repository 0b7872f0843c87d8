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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAlgorithmWithExplicitParams(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo(INT k = 1) FOR GRAPH g {}",
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	f := newTestFeaturizer(t, srv, conn)

	out, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{
		Params:  map[string]any{"k": 7},
		Timeout: 90 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`[{"ok":true}]`), out)
	assert.Equal(t, "tg_demo", conn.runName)
	assert.Equal(t, map[string]any{"k": 7}, conn.runParams)
	assert.Equal(t, 90*time.Second, conn.runOpts.Timeout)
}

func TestRunAlgorithmInfersDefaults(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": `CREATE QUERY tg_demo(INT max_iter = 25, FLOAT damping = 0.85) FOR GRAPH g {}`,
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	f := newTestFeaturizer(t, srv, conn)

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"max_iter": 25, "damping": 0.85}, conn.runParams)
}

func TestRunAlgorithmMissingDefaultFails(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": `CREATE QUERY tg_demo(SET<STRING> v_type, INT k = 1) FOR GRAPH g {}`,
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	f := newTestFeaturizer(t, srv, conn)

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tg_demo", verr.Algorithm)
	assert.Contains(t, verr.Reason, "v_type")
	assert.Contains(t, verr.Reference, browsableRepo)
	assert.Empty(t, conn.runName)
}

func TestRunAlgorithmUnparseableHeaderRunsBare(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "no recognizable header here",
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	f := newTestFeaturizer(t, srv, conn)

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{})
	require.NoError(t, err)
	assert.Equal(t, "tg_demo", conn.runName)
	assert.Empty(t, conn.runParams)
}

func TestRunAlgorithmInstallsFirst(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo() FOR GRAPH g {}",
	})
	conn := newFakeConn()
	f := newTestFeaturizer(t, srv, conn)

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{Params: map[string]any{}})
	require.NoError(t, err)
	require.Len(t, conn.gsqlCalls, 1)
	assert.Contains(t, conn.gsqlCalls[0], "INSTALL QUERY tg_demo\n")
	assert.Equal(t, "tg_demo", conn.runName)
}

func TestRunAlgorithmResultAttribute(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": `CREATE QUERY tg_demo(STRING result_attr = "score", INT k = 2) FOR GRAPH g {}`,
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	conn.vertexTypes = []string{"Person"}
	f := newTestFeaturizerTypes(t, srv, conn, map[string]ResultType{"tg_demo": ResultFloat})

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{
		Params:          map[string]any{"k": 5},
		ResultAttribute: "my_score",
	})
	require.NoError(t, err)

	require.Len(t, conn.gsqlCalls, 1)
	assert.Contains(t, conn.gsqlCalls[0], "ALTER VERTEX Person ADD ATTRIBUTE (my_score Float);")
	assert.Equal(t, map[string]any{"k": 5, "result_attr": "my_score"}, conn.runParams)
}

func TestRunAlgorithmResultAttributeLeavesDefaultsIntact(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": `CREATE QUERY tg_demo(STRING result_attr = "score", INT k = 2) FOR GRAPH g {}`,
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	conn.vertexTypes = []string{"Person"}
	f := newTestFeaturizerTypes(t, srv, conn, map[string]ResultType{"tg_demo": ResultFloat})

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{
		ResultAttribute: "my_score",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 2, "result_attr": "my_score"}, conn.runParams)

	// A later run with no config must see the declared defaults again,
	// not the attribute injected by the previous run.
	_, err = f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 2, "result_attr": "score"}, conn.runParams)
}

func TestRunAlgorithmResultAttributeUnsupported(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": "CREATE QUERY tg_demo(INT k = 2) FOR GRAPH g {}",
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	f := newTestFeaturizerTypes(t, srv, conn, map[string]ResultType{"tg_demo": ResultFloat})

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{
		Params:          map[string]any{"k": 2},
		ResultAttribute: "score",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "result_attr")
}

func TestRunAlgorithmResultAttributeNoResultType(t *testing.T) {
	srv := newSourceServer(t, map[string]string{
		"/master/algorithms/Test/tg_demo.gsql": `CREATE QUERY tg_demo(STRING result_attr = "s") FOR GRAPH g {}`,
	})
	conn := newFakeConn()
	conn.markInstalled("tg_demo")
	f := newTestFeaturizer(t, srv, conn)

	_, err := f.RunAlgorithm(context.Background(), "tg_demo", RunConfig{
		Params:          map[string]any{},
		ResultAttribute: "score",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "result type")
}
