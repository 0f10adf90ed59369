package authorgraph

import "container/heap"

// pqItem is one entry in the shortest-path priority queue: the node and
// the best cumulative distance found to reach it so far.
type pqItem struct {
	node int64
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ShortestPath finds the minimum-weight path from start to dest, where an
// edge of weight w costs 1/w (larger coauthorship/reference weight ⇒
// shorter effective distance). Returns nil if start or dest is unknown, or
// if dest is unreachable. The visited set is fixed at first pop, so once a
// node is finalized its distance never changes — standard Dijkstra, not
// the reference implementation's lazy relaxation-on-pop variant.
func (g *Graph) ShortestPath(start, dest int64) []int64 {
	if !g.Has(start) || !g.Has(dest) {
		return nil
	}
	if start == dest {
		return []int64{start}
	}

	dist := map[int64]float64{start: 0}
	prev := make(map[int64]int64)
	visited := make(map[int64]bool)

	pq := &priorityQueue{{node: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		if cur.node == dest {
			return reconstructPath(prev, start, dest)
		}

		for to, weight := range g.Neighbors(cur.node) {
			if visited[to] || weight == 0 {
				continue
			}
			alt := cur.dist + 1/float64(weight)
			if d, ok := dist[to]; !ok || alt < d {
				dist[to] = alt
				prev[to] = cur.node
				heap.Push(pq, pqItem{node: to, dist: alt})
			}
		}
	}
	return nil
}

func reconstructPath(prev map[int64]int64, start, dest int64) []int64 {
	var path []int64
	for cur := dest; cur != start; cur = prev[cur] {
		path = append(path, cur)
	}
	path = append(path, start)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
