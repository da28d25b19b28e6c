package index

// BuildNetwork assembles the node/edge graph for visualization consumers.
// Nodes come from the current File and Symbol facts; edges are the
// resolver's output filtered so both endpoints exist in the node set.
// Dangling edges are dropped silently: inconsistent store state degrades
// the graph, it never fails the request.
func BuildNetwork(files []FileFact, symbols []SymbolFact, edges []ResolvedEdge) *Network {
	nodes := make([]Node, 0, len(files)+len(symbols))
	known := make(map[string]bool, len(files)+len(symbols))

	for _, f := range files {
		nodes = append(nodes, Node{ID: f.Path, Kind: NodeKindFile, Label: f.Path})
		known[f.Path] = true
	}
	for _, s := range symbols {
		nodes = append(nodes, Node{ID: s.ID, Kind: string(s.Kind), Label: s.Name})
		known[s.ID] = true
	}

	kept := make([]ResolvedEdge, 0, len(edges))
	for _, e := range edges {
		if known[e.Source] && known[e.Target] {
			kept = append(kept, e)
		}
	}

	return &Network{Nodes: nodes, Edges: kept}
}
