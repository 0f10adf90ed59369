package authorgraph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dzhang/citegraph/internal/logging"
	"github.com/dzhang/citegraph/internal/xerrors"
)

// maxDFSDepth caps the explicit recursion stack Tarjan's search runs on.
// A branch that would exceed this depth is truncated — the component it
// was building may fragment into smaller pieces. This is an accepted
// trade-off for corpora with citation chains deep enough to threaten a
// call-stack overflow; callers should not assume SCCs are maximal.
const maxDFSDepth = 1024

const unvisited = -1

type tarjanState struct {
	disc, lowLink int
	onStack       bool
}

// tarjanFrame is one explicit-stack frame standing in for a recursive
// tarjansSearch(current_id, ...) call: childIdx tracks how far through
// current's neighbor iteration this frame has progressed, so resuming it
// after a deeper call returns continues where it left off.
type tarjanFrame struct {
	node      int64
	neighbors []int64
	childIdx  int
}

// tarjanRunner holds the shared mutable state one TarjanAll/TarjanFrom pass threads
// through every DFS it starts.
type tarjanRunner struct {
	g       *Graph
	state   map[int64]*tarjanState
	stack   []int64 // scc_stack
	onStack map[int64]bool
	nextID  int
	result  [][]int64
}

func newTarjanRunner(g *Graph) *tarjanRunner {
	r := &tarjanRunner{
		g:       g,
		state:   make(map[int64]*tarjanState, g.NumNodes()),
		onStack: make(map[int64]bool, g.NumNodes()),
	}
	for _, id := range g.Nodes() {
		r.state[id] = &tarjanState{disc: unvisited, lowLink: unvisited}
	}
	return r
}

// search runs one DFS from root using an explicit frame stack capped at
// maxDFSDepth, mirroring the recursive tarjansSearch from the reference
// implementation without risking a stack overflow on deep graphs.
func (r *tarjanRunner) search(root int64) {
	neighborIDs := func(id int64) []int64 {
		edges := r.g.Neighbors(id)
		ids := make([]int64, 0, len(edges))
		for to := range edges {
			ids = append(ids, to)
		}
		return ids
	}

	push := func(id int64) {
		st := r.state[id]
		st.disc = r.nextID
		st.lowLink = r.nextID
		r.nextID++
		st.onStack = true
		r.onStack[id] = true
		r.stack = append(r.stack, id)
	}

	frames := []*tarjanFrame{{node: root, neighbors: neighborIDs(root)}}
	push(root)
	capHit := false

	for len(frames) > 0 {
		top := frames[len(frames)-1]
		topState := r.state[top.node]

		if top.childIdx >= len(top.neighbors) {
			// Done with this node: pop the SCC if it is a root.
			if topState.disc == topState.lowLink {
				r.popComponent(top.node)
			}
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := r.state[frames[len(frames)-1].node]
				if topState.lowLink < parent.lowLink {
					parent.lowLink = topState.lowLink
				}
			}
			continue
		}

		adj := top.neighbors[top.childIdx]
		top.childIdx++
		adjState := r.state[adj]

		if adjState.disc == unvisited {
			if len(frames) >= maxDFSDepth {
				// Cut this branch: adj stays unvisited.
				capHit = true
				continue
			}
			frames = append(frames, &tarjanFrame{node: adj, neighbors: neighborIDs(adj)})
			push(adj)
		} else if adjState.onStack {
			if adjState.disc < topState.lowLink {
				topState.lowLink = adjState.disc
			}
		}
	}

	if capHit {
		err := fmt.Errorf("%w: depth %d at root %d", xerrors.ErrDepthCapReached, maxDFSDepth, root)
		logging.L().Warn("tarjan depth cap reached, component may be fragmented",
			zap.Int64("root", root), zap.Int("depth", maxDFSDepth), zap.Error(err))
	}
}

func (r *tarjanRunner) popComponent(root int64) {
	var component []int64
	for {
		n := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		r.onStack[n] = false
		r.state[n].onStack = false
		component = append(component, n)
		if n == root {
			break
		}
	}
	if len(component) > 1 {
		r.result = append(r.result, component)
	}
}

// TarjanAll returns every strongly connected component of size >= 2.
func (g *Graph) TarjanAll() [][]int64 {
	r := newTarjanRunner(g)
	for _, id := range g.Nodes() {
		if r.state[id].disc == unvisited {
			r.search(id)
		}
	}
	return r.result
}

// TarjanFrom runs a single DFS seeded at query and returns whatever
// components that one traversal discovers. An absent query returns nil.
func (g *Graph) TarjanFrom(query int64) [][]int64 {
	if !g.Has(query) {
		logging.L().Info("tarjan query node not found", zap.Int64("query", query))
		return nil
	}
	r := newTarjanRunner(g)
	r.search(query)
	return r.result
}
