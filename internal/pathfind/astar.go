package pathfind

import (
	"container/heap"
	"strconv"
	"strings"
)

// Heuristic estimates the remaining cost from node to the goal.
// A nil Heuristic is the zero function, which makes Search Dijkstra's algorithm.
type Heuristic func(node string) float64

// Path is a found route and its total cost.
type Path struct {
	Nodes []string `json:"nodes"`
	Cost  float64  `json:"cost"`
}

// String renders the path as "A -> B -> C".
func (p Path) String() string {
	return strings.Join(p.Nodes, " -> ")
}

// FormatCost renders a cost without trailing zeros.
func FormatCost(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// Search finds the cheapest path from start to goal.
//
// Entries are ordered by g+h with ties broken by node name. A node's best
// known cost is only replaced by a strictly smaller one, so zero-cost
// cycles terminate. The goal check happens on pop. When the queue drains
// without reaching goal, Search returns false.
func Search(g *Graph, start, goal string, h Heuristic) (Path, bool) {
	if g == nil {
		g = NewGraph()
	}
	if h == nil {
		h = func(string) float64 { return 0 }
	}

	best := map[string]float64{start: 0}
	prev := make(map[string]string)

	open := &queue{}
	heap.Push(open, &entry{node: start, cost: 0, priority: h(start)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*entry)
		if cur.cost > best[cur.node] {
			continue
		}

		if cur.node == goal {
			return Path{Nodes: reconstruct(prev, start, goal), Cost: cur.cost}, true
		}

		for _, a := range g.neighbors(cur.node) {
			tentative := cur.cost + a.cost
			if known, ok := best[a.to]; ok && tentative >= known {
				continue
			}
			best[a.to] = tentative
			prev[a.to] = cur.node
			heap.Push(open, &entry{node: a.to, cost: tentative, priority: tentative + h(a.to)})
		}
	}

	return Path{}, false
}

func reconstruct(prev map[string]string, start, goal string) []string {
	nodes := []string{goal}
	for n := goal; n != start; {
		n = prev[n]
		nodes = append(nodes, n)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}

type entry struct {
	node     string
	cost     float64
	priority float64
}

// queue is a min-heap of entries.
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].node < q[j].node
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}
