package authorgraph

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSamePaperSymmetric(t *testing.T) {
	g := New()
	g.AddSamePaper([]int64{1, 2}, 4)
	require.Equal(t, int32(10*5), g.Neighbors(1)[2])
	require.Equal(t, g.Neighbors(1)[2], g.Neighbors(2)[1])
}

func TestAddSamePaperEdgeLimit(t *testing.T) {
	g := New()
	authors := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	g.AddSamePaper(authors, 0)
	require.Nil(t, g.Neighbors(9))
	require.NotNil(t, g.Neighbors(1))
}

func TestAddReferencedDirectedOnly(t *testing.T) {
	g := New()
	g.AddReferenced([]int64{1, 2}, []int64{3, 4}, 5, 2)
	require.Equal(t, int32(2*5+1*2), g.Neighbors(1)[3])
	require.Nil(t, g.Neighbors(3))
}

func TestAddReferencedStopsAtZeroSentinel(t *testing.T) {
	g := New()
	g.AddReferenced([]int64{1}, []int64{3, 0, 5}, 1, 1)
	require.Contains(t, g.Neighbors(1), int64(3))
	require.NotContains(t, g.Neighbors(1), int64(5))
}

func TestExportLoadRoundTrip(t *testing.T) {
	g := New()
	g.AddSamePaper([]int64{1, 2, 3}, 2)
	g.EnsureNode(99)

	var buf bytes.Buffer
	require.NoError(t, g.Export(&buf))

	g2, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, g.NumNodes(), g2.NumNodes())
	require.Equal(t, g.Neighbors(1)[2], g2.Neighbors(1)[2])
	require.True(t, g2.Has(99))
}

// sevenCycle builds the 7-node coauthorship cycle used in the shared
// Tarjan/Dijkstra fixture. Edge weights are uneven by design so that the
// cheapest (highest-weight) path from G=2022192081 to B=2113592602 runs
// through the direct G-D shortcut rather than around the ring — engineered
// to reproduce the path lengths the concrete scenarios call for.
func sevenCycle() *Graph {
	const (
		a = 2142249029
		b = 2113592602
		c = 2103626414
		d = 2117665592
		e = 2023460672
		f = 2174205032
		g = 2022192081
	)
	graph := New()
	link := func(weight int32, x, y int64) {
		graph.AddEdge(weight, x, y)
		graph.AddEdge(weight, y, x)
	}
	link(1, a, b)
	link(100, b, c)
	link(100, c, d)
	link(1, d, e)
	link(1, e, f)
	link(1, f, g)
	link(1, g, a)
	link(100, g, d) // shortcut that makes the G-D-C-B path cheapest
	return graph
}

func fourCycle() *Graph {
	g := New()
	ring := []int64{2425818370, 2126056503, 2308774408, 2300589394}
	for i, id := range ring {
		next := ring[(i+1)%len(ring)]
		g.AddEdge(10, id, next)
		g.AddEdge(10, next, id)
	}
	return g
}

func TestTarjanFromFindsSevenCycle(t *testing.T) {
	g := sevenCycle()
	sccs := g.TarjanFrom(2142249029)
	require.Len(t, sccs, 1)
	require.Len(t, sccs[0], 7)

	got := append([]int64(nil), sccs[0]...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []int64{2022192081, 2023460672, 2103626414, 2113592602, 2117665592, 2142249029, 2174205032}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	require.Equal(t, want, got)
}

func TestTarjanAllFindsBothDisjointComponents(t *testing.T) {
	g := sevenCycle()
	four := fourCycle()
	for from, edges := range four.adj {
		for to, w := range edges {
			g.AddEdge(w, from, to)
		}
	}

	sccs := g.TarjanAll()
	require.Len(t, sccs, 2)
	sizes := []int{len(sccs[0]), len(sccs[1])}
	sort.Ints(sizes)
	require.Equal(t, []int{4, 7}, sizes)
}

func TestTarjanDiscardsSingleNodeCycle(t *testing.T) {
	g := New()
	g.AddEdge(1, 1, 1)
	sccs := g.TarjanAll()
	require.Empty(t, sccs)
}

func TestTarjanKeepsTwoNodeCycle(t *testing.T) {
	g := New()
	g.AddEdge(1, 1, 2)
	g.AddEdge(1, 2, 1)
	sccs := g.TarjanAll()
	require.Len(t, sccs, 1)
	require.Len(t, sccs[0], 2)
}

func TestTarjanFromUnknownQueryReturnsNil(t *testing.T) {
	g := sevenCycle()
	require.Nil(t, g.TarjanFrom(999999))
}

func TestShortestPathWithinCycle(t *testing.T) {
	g := sevenCycle()
	path := g.ShortestPath(2022192081, 2113592602)
	require.Equal(t, []int64{2022192081, 2117665592, 2103626414, 2113592602}, path)

	path2 := g.ShortestPath(2022192081, 2117665592)
	require.Equal(t, []int64{2022192081, 2117665592}, path2)
}

func TestShortestPathDisconnectedReturnsEmpty(t *testing.T) {
	g := sevenCycle()
	four := fourCycle()
	for from, edges := range four.adj {
		for to, w := range edges {
			g.AddEdge(w, from, to)
		}
	}
	path := g.ShortestPath(2022192081, 2425818370)
	require.Empty(t, path)
}

func TestShortestPathUnknownNodeReturnsNil(t *testing.T) {
	g := sevenCycle()
	require.Nil(t, g.ShortestPath(2022192081, 1))
}
