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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertVertex_PayloadShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"error": false, "results": [{"accepted_vertices": 1, "accepted_edges": 0}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	accepted, err := conn.UpsertVertex(context.Background(), "Person", "alice",
		NewAttrs(map[string]any{"age": 34}))
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	assert.Equal(t, "/graph/tests", gotPath)

	// The REST++ upsert payload nests vertices -> type -> id -> attrs.
	vertices := gotBody["vertices"].(map[string]any)
	attrs := vertices["Person"].(map[string]any)["alice"].(map[string]any)
	assert.Equal(t, map[string]any{"value": float64(34)}, attrs["age"])
}

func TestUpsertVertices_Batch(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"error": false, "results": [{"accepted_vertices": 2}]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	accepted, err := conn.UpsertVertices(context.Background(), "Person", map[string]Attrs{
		"alice": NewAttrs(map[string]any{"age": 34}),
		"bob":   nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)

	people := gotBody["vertices"].(map[string]any)["Person"].(map[string]any)
	assert.Len(t, people, 2)
}

func TestAttrValueMarshal(t *testing.T) {
	plain, err := json.Marshal(AttrValue{Value: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 3}`, string(plain))

	accum, err := json.Marshal(AttrValue{Value: 3, Op: "add"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 3, "op": "add"}`, string(accum))
}

func TestGetVertices_URLBuilding(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"error": false, "results": [
			{"v_type": "Person", "v_id": "alice", "attributes": {"age": 34}}
		]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	vertices, err := conn.GetVertices(context.Background(), "Person", VertexQuery{
		Select: "age",
		Where:  "age>30",
		Sort:   "age",
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, vertices, 1)
	assert.Equal(t, "alice", vertices[0].VID)
	assert.Equal(t, "/graph/tests/vertices/Person?filter=age%3E30&limit=10&select=age&sort=age", gotURL)
}

func TestGetVertexCount_Builtins(t *testing.T) {
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"error": false, "results": [
			{"v_type": "Person", "count": 42},
			{"v_type": "Company", "count": 7}
		]}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	counts, err := conn.GetVertexCount(context.Background(), "*")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Person": 42, "Company": 7}, counts)
	assert.Equal(t, map[string]string{"function": "stat_vertex_number", "type": "*"}, gotBody)
}

func TestDeleteVertex(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"error": false, "results": {"deleted_vertices": 1}}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	deleted, err := conn.DeleteVertex(context.Background(), "Person", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/graph/tests/vertices/Person/alice", gotPath)
}

func TestDeleteVertices_WithFilter(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"error": false, "results": {"deleted_vertices": 3}}`))
	}))
	defer ts.Close()

	conn := newTestConnection(t, ts)
	deleted, err := conn.DeleteVertices(context.Background(), "Person", VertexQuery{Where: "age<18"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, "/graph/tests/vertices/Person?filter=age%3C18", gotURL)
}
