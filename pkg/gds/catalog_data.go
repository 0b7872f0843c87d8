// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gds

const (
	// rawRepo is the base of the raw source locations for the built-in
	// algorithm library.
	rawRepo = "https://raw.githubusercontent.com/tigergraph/gsql-graph-algorithms/master"

	// browsableRepo is the base of the human-readable mirror of the
	// same repository, used in reference links.
	browsableRepo = "https://github.com/tigergraph/gsql-graph-algorithms/blob/master"
)

func leaf(label, path string) catalogNode {
	return catalogNode{Label: label, URL: rawRepo + path}
}

func category(label string, children ...catalogNode) catalogNode {
	return catalogNode{Label: label, Children: children}
}

// builtinAlgorithms is the authored catalog of the in-database graph
// algorithm library, grouped the way the upstream repository groups
// them.
var builtinAlgorithms = []catalogNode{
	category("Centrality",
		category("pagerank",
			category("global",
				leaf("weighted", "/algorithms/Centrality/pagerank/global/weighted/tg_pagerank_wt.gsql"),
				leaf("unweighted", "/algorithms/Centrality/pagerank/global/unweighted/tg_pagerank.gsql"),
			),
		),
		category("article_rank",
			leaf("article_rank", "/algorithms/Centrality/article_rank/tg_article_rank.gsql"),
		),
		category("betweenness",
			leaf("betweenness", "/algorithms/Centrality/betweenness/tg_betweenness_cent.gsql"),
		),
		category("closeness",
			category("approximate",
				leaf("approximate", "/algorithms/Centrality/closeness/approximate/tg_closeness_cent_approx.gsql"),
			),
			category("exact",
				leaf("exact", "/algorithms/Centrality/closeness/exact/tg_closeness_cent.gsql"),
			),
		),
		category("degree",
			leaf("degree", "/algorithms/Centrality/degree/tg_degree_cent.gsql"),
		),
		category("eigenvector",
			leaf("eigenvector", "/algorithms/Centrality/eigenvector/tg_eigenvector_cent.gsql"),
		),
		category("harmonic",
			leaf("harmonic", "/algorithms/Centrality/harmonic/tg_harmonic_cent.gsql"),
		),
	),
	category("Classification",
		category("maximal_independent_set",
			category("deterministic",
				leaf("deterministic", "/algorithms/Classification/maximal_independent_set/deterministic/tg_maximal_indep_set.gsql"),
			),
		),
	),
	category("Community",
		category("connected_components",
			category("strongly_connected_components",
				category("standard",
					leaf("standard", "/algorithms/Community/connected_components/strongly_connected_components/standard/tg_scc.gsql"),
				),
			),
		),
		category("k_core",
			leaf("k_core", "/algorithms/Community/k_core/tg_kcore.gsql"),
		),
		category("label_propagation",
			leaf("label_propagation", "/algorithms/Community/label_propagation/tg_label_prop.gsql"),
		),
		category("local_clustering_coefficient",
			leaf("local_clustering_coefficient", "/algorithms/Community/local_clustering_coefficient/tg_lcc.gsql"),
		),
		category("louvain",
			leaf("louvain", "/algorithms/Community/louvain/tg_louvain.gsql"),
		),
		category("triangle_counting",
			category("fast",
				leaf("fast", "/algorithms/Community/triangle_counting/fast/tg_tri_count_fast.gsql"),
			),
		),
	),
	category("Embeddings",
		category("FastRP",
			leaf("FastRP", "/algorithms/GraphML/Embeddings/FastRP/tg_fastRP.gsql"),
		),
	),
	category("Path",
		category("bfs",
			leaf("bfs", "/algorithms/Path/bfs/tg_bfs.gsql"),
		),
		category("cycle_detection",
			category("count",
				leaf("count", "/algorithms/Path/cycle_detection/count/tg_cycle_detection_count.gsql"),
			),
		),
		category("shortest_path",
			category("unweighted",
				leaf("unweighted", "/algorithms/Path/shortest_path/unweighted/tg_shortest_ss_no_wt.gsql"),
			),
		),
	),
	category("Topological Link Prediction",
		category("common_neighbors",
			leaf("common_neighbors", "/algorithms/Topological Link Prediction/common_neighbors/tg_common_neighbors.gsql"),
		),
		category("preferential_attachment",
			leaf("preferential_attachment", "/algorithms/Topological Link Prediction/preferential_attachment/tg_preferential_attachment.gsql"),
		),
		category("same_community",
			leaf("same_community", "/algorithms/Topological Link Prediction/same_community/tg_same_community.gsql"),
		),
		category("total_neighbors",
			leaf("total_neighbors", "/algorithms/Topological Link Prediction/total_neighbors/tg_total_neighbors.gsql"),
		),
	),
}

// builtinResultTypes declares, for each algorithm that writes results
// into a vertex or edge attribute, the GSQL type of that attribute.
// Algorithms absent here return results only in the query response.
var builtinResultTypes = map[string]ResultType{
	"tg_pagerank":              ResultFloat,
	"tg_pagerank_wt":           ResultFloat,
	"tg_article_rank":          ResultFloat,
	"tg_betweenness_cent":      ResultFloat,
	"tg_closeness_cent":        ResultFloat,
	"tg_closeness_cent_approx": ResultFloat,
	"tg_degree_cent":           ResultInt,
	"tg_eigenvector_cent":      ResultFloat,
	"tg_harmonic_cent":         ResultInt,
	"tg_scc":                   ResultInt,
	"tg_kcore":                 ResultInt,
	"tg_label_prop":            ResultInt,
	"tg_lcc":                   ResultFloat,
	"tg_louvain":               ResultInt,
	"tg_fastRP":                ResultListDouble,
	"tg_bfs":                   ResultInt,
	"tg_shortest_ss_no_wt":     ResultInt,
}

// DefaultCatalog returns the built-in algorithm catalog. The authored
// tree is validated at package init, so a duplicated leaf name is
// caught the first time any build runs rather than at lookup time.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var defaultCatalog = func() *Catalog {
	c, err := NewCatalog(builtinAlgorithms, builtinResultTypes)
	if err != nil {
		panic("gds: invalid built-in catalog: " + err.Error())
	}
	return c
}()
