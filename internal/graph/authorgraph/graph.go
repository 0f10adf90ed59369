// Package authorgraph implements the weighted, directed-at-rest
// coauthorship/reference graph over author ids. Edges are stored as a
// plain nested map from author id to weight (the builder caps each paper's
// contribution at 8 authors per side); a plain map keeps lookups and
// iteration simple.
package authorgraph

// Graph is the in-memory author graph: adjacency[from][to] = weight.
type Graph struct {
	adj map[int64]map[int64]int32
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[int64]map[int64]int32)}
}

// AddEdge adds weight to the existing weight of the (from, to) edge,
// creating both the node and the edge if absent.
func (g *Graph) AddEdge(weight int32, from, to int64) {
	m, ok := g.adj[from]
	if !ok {
		m = make(map[int64]int32)
		g.adj[from] = m
	}
	m[to] += weight
}

// EnsureNode records id with no outgoing edges if it is not already
// present, matching the reference loader's behavior for a zero-edge node
// (adj_list[id] with no further writes).
func (g *Graph) EnsureNode(id int64) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[int64]int32)
	}
}

// Neighbors returns the outgoing weighted edges for id, or nil if id is
// unknown.
func (g *Graph) Neighbors(id int64) map[int64]int32 {
	return g.adj[id]
}

// Has reports whether id appears in the graph.
func (g *Graph) Has(id int64) bool {
	_, ok := g.adj[id]
	return ok
}

// NumNodes reports the node count.
func (g *Graph) NumNodes() int { return len(g.adj) }

// NumEdges reports the number of directed edges.
func (g *Graph) NumEdges() int {
	n := 0
	for _, m := range g.adj {
		n += len(m)
	}
	return n
}

// DegreeHistogram buckets nodes by out-degree.
func (g *Graph) DegreeHistogram() map[int]int {
	hist := make(map[int]int)
	for _, m := range g.adj {
		hist[len(m)]++
	}
	return hist
}

// Nodes returns every node id in the graph, in unspecified order.
func (g *Graph) Nodes() []int64 {
	nodes := make([]int64, 0, len(g.adj))
	for id := range g.adj {
		nodes = append(nodes, id)
	}
	return nodes
}
