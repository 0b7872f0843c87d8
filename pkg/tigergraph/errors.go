// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tigergraph

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrVertexTypeNotFound is returned when a vertex type is absent
	// from the graph schema.
	ErrVertexTypeNotFound = errors.New("vertex type not found in schema")

	// ErrEdgeTypeNotFound is returned when an edge type is absent
	// from the graph schema.
	ErrEdgeTypeNotFound = errors.New("edge type not found in schema")

	// ErrNotDirected is returned when a reverse edge is requested
	// for an undirected edge type.
	ErrNotDirected = errors.New("edge type is not directed")
)

// RemoteError is a failure reported by the REST++ response envelope.
//
// Every REST++ response carries `{"error": bool, "message": string, ...}`;
// when error is true the message (and optional code) describe the failure.
type RemoteError struct {
	// Message is the server-provided error message.
	Message string

	// Code is the server-provided error code, when present
	// (e.g. "REST-30000"). May be empty.
	Code string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tigergraph: %s (%s)", e.Message, e.Code)
	}
	return "tigergraph: " + e.Message
}

// CommandError is a failure reported by a GSQL admin command.
//
// GSQL responses are multi-line text; the server signals failure by
// embedding a failure marker in the final status line. The line is
// carried verbatim, there is no structured code to extract.
type CommandError struct {
	// Status is the final line of the command response, verbatim.
	Status string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "gsql command failed: " + e.Status
}
