// Package papergraph implements the directed (symmetrized on load)
// paper-citation graph: a node per paper, an edge per citation. Adjacency
// sets are backed by roaring bitmaps, which is the right fit for
// dense-ish u32-keyed sets of this size.
package papergraph

import "github.com/RoaringBitmap/roaring"

// Graph is the in-memory paper-citation graph. Edges are added
// symmetrically: citing a paper links both directions, matching the
// reference loader's behavior of inserting both (id1, id2) and (id2, id1)
// on every edge, whether added directly or read back from a file.
type Graph struct {
	adj map[uint32]*roaring.Bitmap
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[uint32]*roaring.Bitmap)}
}

func (g *Graph) ensure(id uint32) *roaring.Bitmap {
	bm, ok := g.adj[id]
	if !ok {
		bm = roaring.New()
		g.adj[id] = bm
	}
	return bm
}

// AddEdge links id1 and id2 in both directions. Returns false (and adds
// nothing) if either id is the reserved zero id.
func (g *Graph) AddEdge(id1, id2 uint32) bool {
	if id1 == 0 || id2 == 0 {
		return false
	}
	g.ensure(id1).Add(id2)
	g.ensure(id2).Add(id1)
	return true
}

// Neighbors returns the adjacency set for id, or nil if id is unknown.
func (g *Graph) Neighbors(id uint32) *roaring.Bitmap {
	return g.adj[id]
}

// Has reports whether id appears in the graph.
func (g *Graph) Has(id uint32) bool {
	_, ok := g.adj[id]
	return ok
}

// NumNodes reports the node count.
func (g *Graph) NumNodes() int { return len(g.adj) }

// NumEdges reports the number of directed adjacency entries (each
// undirected edge counts twice, matching the symmetrized storage).
func (g *Graph) NumEdges() uint64 {
	var n uint64
	for _, bm := range g.adj {
		n += bm.GetCardinality()
	}
	return n
}

// DegreeHistogram buckets nodes by degree. Supplements the reference
// implementation's print_graph debug dump with a queryable summary
// instead of a console trace.
func (g *Graph) DegreeHistogram() map[int]int {
	hist := make(map[int]int)
	for _, bm := range g.adj {
		hist[int(bm.GetCardinality())]++
	}
	return hist
}
