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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertEdge_PayloadShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"error": false, "results": [{"accepted_vertices": 0, "accepted_edges": 1}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	accepted, err := conn.UpsertEdge(context.Background(),
		"Person", "alice", "WorksAt", "Company", "acme",
		NewAttrs(map[string]any{"role": "engineer"}))
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	assert.Equal(t, "/graph/tests", gotPath)

	// The REST++ upsert payload nests
	// edges -> srcType -> srcId -> edgeType -> tgtType -> tgtId -> attrs.
	edges := gotBody["edges"].(map[string]any)
	attrs := edges["Person"].(map[string]any)["alice"].(map[string]any)["WorksAt"].(map[string]any)["Company"].(map[string]any)["acme"].(map[string]any)
	assert.Equal(t, map[string]any{"value": "engineer"}, attrs["role"])
}

func TestUpsertEdges_Batch(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"error": false, "results": [{"accepted_edges": 2}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	accepted, err := conn.UpsertEdges(context.Background(), "Person", "Knows", "Person", map[EdgeKey]Attrs{
		{FromID: "alice", ToID: "bob"}:   nil,
		{FromID: "alice", ToID: "carol"}: NewAttrs(map[string]any{"since": 2019}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)

	alice := gotBody["edges"].(map[string]any)["Person"].(map[string]any)["alice"].(map[string]any)["Knows"].(map[string]any)["Person"].(map[string]any)
	assert.Len(t, alice, 2)
}

func TestGetEdges_URLBuilding(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"error": false, "results": [
			{"e_type": "WorksAt", "from_type": "Person", "from_id": "alice",
			 "to_type": "Company", "to_id": "acme", "directed": true,
			 "attributes": {"role": "engineer"}}
		]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	edges, err := conn.GetEdges(context.Background(), "Person", "alice", EdgeQuery{
		EdgeType:         "WorksAt",
		TargetVertexType: "Company",
		Limit:            10,
	})
	require.NoError(t, err)

	require.Len(t, edges, 1)
	assert.Equal(t, "acme", edges[0].ToID)
	assert.Equal(t, "/graph/tests/edges/Person/alice/WorksAt/Company?limit=10", gotURL)
}

func TestGetEdges_RequiresSource(t *testing.T) {
	conn, err := NewConnection(Config{Host: "http://127.0.0.1", GraphName: "tests"})
	require.NoError(t, err)

	_, err = conn.GetEdges(context.Background(), "", "", EdgeQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sourceVertexType and sourceVertexID")
}

func TestGetEdgeCount_Builtins(t *testing.T) {
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"error": false, "results": [
			{"e_type": "WorksAt", "count": 12}, {"e_type": "Knows", "count": 40}
		]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	counts, err := conn.GetEdgeCount(context.Background(), "*", "", "")
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"WorksAt": 12, "Knows": 40}, counts)
	assert.Equal(t, "stat_edge_number", gotBody["function"])
	assert.Equal(t, "*", gotBody["type"])
}

func TestGetEdgeCountFrom_CountOnly(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"error": false, "results": [{"e_type": "Knows", "count": 3}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	counts, err := conn.GetEdgeCountFrom(context.Background(), "Person", "alice", EdgeQuery{
		EdgeType: "Knows",
		Where:    "since>2015",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"Knows": 3}, counts)
	assert.Contains(t, gotURL, "count_only=true")
	assert.Contains(t, gotURL, "filter=since%3E2015")
}

func TestDeleteEdges(t *testing.T) {
	var gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"error": false, "results": [{"e_type": "Knows", "deleted_edges": 2}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	counts, err := conn.DeleteEdges(context.Background(), "Person", "alice", EdgeQuery{EdgeType: "Knows"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, map[string]int64{"Knows": 2}, counts)
}

func TestGetEdgeStats_SkipNA(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]string
		require.NoError(t, json.Unmarshal(data, &body))
		if body["type"] == "WorksAt" {
			w.Write([]byte(`{"error": true, "message": "attribute is not numeric"}`))
			return
		}
		w.Write([]byte(`{"error": false, "results": [
			{"e_type": "Knows", "attributes": {"since": {"MIN": 1999, "MAX": 2024, "AVG": 2011.5}}}
		]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)

	// skipNA drops the erroring type and keeps the rest.
	stats, err := conn.GetEdgeStats(context.Background(), []string{"WorksAt", "Knows"}, true)
	require.NoError(t, err)
	require.Contains(t, stats, "Knows")
	assert.NotContains(t, stats, "WorksAt")
	assert.Equal(t, float64(1999), stats["Knows"]["since"]["MIN"])

	// Without skipNA the error is fatal.
	_, err = conn.GetEdgeStats(context.Background(), []string{"WorksAt"}, false)
	require.Error(t, err)
}

func TestGetEdgesByType_InterpretedQuery(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/gsqlserver/gsql/schema") {
			w.Write([]byte(testSchemaJSON))
			return
		}
		data, _ := io.ReadAll(r.Body)
		gotQuery = string(data)
		w.Write([]byte(`{"error": false, "results": [{"edges": [
			{"e_type": "WorksAt", "from_type": "Person", "from_id": "alice",
			 "to_type": "Company", "to_id": "acme", "directed": true, "attributes": {}}
		]}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	edges, err := conn.GetEdgesByType(context.Background(), "WorksAt")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "alice", edges[0].FromID)

	assert.Contains(t, gotQuery, "INTERPRET QUERY () FOR GRAPH $graphname")
	assert.Contains(t, gotQuery, "start = {Person.*}")
	assert.Contains(t, gotQuery, `e.type == "WorksAt"`)
}

func TestGetEdgesByType_RejectsWildcardSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testSchemaJSON))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	_, err := conn.GetEdgesByType(context.Background(), "Linked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Linked")
}
