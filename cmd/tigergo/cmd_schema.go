// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tigergo/pkg/tigergraph"
	"github.com/AleutianAI/tigergo/pkg/ux"
)

// runSchemaShow prints the vertex and edge types of the configured
// graph with their attributes.
func runSchemaShow(cmd *cobra.Command, args []string) {
	conn := mustConnect()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	schema, err := conn.GetSchema(ctx, false)
	if err != nil {
		ux.Error(fmt.Sprintf("Could not read schema: %v", err))
		os.Exit(1)
	}

	ux.Title(fmt.Sprintf("Graph %q", appConfig.GraphName))

	fmt.Println(ux.CategoryLine(0, "Vertex types"))
	for _, vt := range schema.VertexTypes {
		fmt.Println(ux.CategoryLine(1, vt.Name))
		printAttributes(vt.Attributes)
	}

	fmt.Println(ux.CategoryLine(0, "Edge types"))
	for _, et := range schema.EdgeTypes {
		label := et.Name
		if et.IsDirected {
			label += fmt.Sprintf(" (%s -> %s)", et.FromVertexTypeName, et.ToVertexTypeName)
		} else {
			label += fmt.Sprintf(" (%s - %s)", et.FromVertexTypeName, et.ToVertexTypeName)
		}
		fmt.Println(ux.CategoryLine(1, label))
		printAttributes(et.Attributes)
	}
}

func printAttributes(attrs []tigergraph.Attribute) {
	if len(attrs) == 0 {
		return
	}
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, fmt.Sprintf("%s %s", a.AttributeName, a.AttributeType.Name))
	}
	ux.Muted("      " + strings.Join(names, ", "))
}
