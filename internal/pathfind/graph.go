/*
Package pathfind implements A* shortest-path search over small undirected
weighted graphs built per request.

Graphs are never persisted or shared between requests; the edge audit log
in storage is write-only from this package's point of view.
*/
package pathfind

// Edge is an undirected weighted connection between two nodes.
type Edge struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Cost float64 `json:"cost"`
}

type arc struct {
	to   string
	cost float64
}

// Graph is an undirected weighted adjacency list.
type Graph struct {
	adj map[string][]arc
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string][]arc)}
}

// FromEdges builds a graph from edges.
func FromEdges(edges []Edge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

// AddEdge inserts e in both directions.
func (g *Graph) AddEdge(e Edge) {
	g.adj[e.From] = append(g.adj[e.From], arc{to: e.To, cost: e.Cost})
	g.adj[e.To] = append(g.adj[e.To], arc{to: e.From, cost: e.Cost})
}

func (g *Graph) neighbors(node string) []arc {
	return g.adj[node]
}
