// Package network builds undirected collaboration graphs from edge tables
// and geocoded institutions.
package network

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

// ErrNoNodes is returned when a graph would have no nodes.
var ErrNoNodes = errors.New("no nodes")

// Edge is a weighted, optionally labelled graph edge between two named nodes.
type Edge struct {
	Source string
	Target string
	Weight float64
	Label  string
}

// Graph is an undirected weighted graph whose nodes are names.
type Graph struct {
	g      *simple.WeightedUndirectedGraph
	ids    map[string]int64
	names  map[int64]string
	order  []string
	labels map[[2]int64]string

	// Positions holds coordinates for geocoded nodes.
	Positions map[string]collab.Coordinates
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		g:         simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids:       make(map[string]int64),
		names:     make(map[int64]string),
		labels:    make(map[[2]int64]string),
		Positions: make(map[string]collab.Coordinates),
	}
}

// AddNode adds name if absent and returns its id.
func (g *Graph) AddNode(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := int64(len(g.names))
	for g.g.Node(id) != nil {
		id++
	}
	g.g.AddNode(simple.Node(id))
	g.ids[name] = id
	g.names[id] = name
	g.order = append(g.order, name)
	return id
}

// AddEdge adds or replaces the edge between a and b. Self loops are ignored.
func (g *Graph) AddEdge(a, b string, weight float64, label string) {
	if a == b {
		slog.Debug("ignoring self loop", "node", a)
		g.AddNode(a)
		return
	}
	u, v := g.AddNode(a), g.AddNode(b)
	g.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: weight})
	if label != "" {
		g.labels[pairKey(u, v)] = label
	} else {
		delete(g.labels, pairKey(u, v))
	}
}

// RemoveNode deletes name and its edges.
func (g *Graph) RemoveNode(name string) {
	id, ok := g.ids[name]
	if !ok {
		return
	}
	to := g.g.From(id)
	for to.Next() {
		delete(g.labels, pairKey(id, to.Node().ID()))
	}
	g.g.RemoveNode(id)
	delete(g.ids, name)
	delete(g.names, id)
	delete(g.Positions, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.ids[name]
	return ok
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	u, ok1 := g.ids[a]
	v, ok2 := g.ids[b]
	return ok1 && ok2 && g.g.HasEdgeBetween(u, v)
}

// EdgeLabel returns the label of the edge between a and b.
func (g *Graph) EdgeLabel(a, b string) (string, bool) {
	u, ok1 := g.ids[a]
	v, ok2 := g.ids[b]
	if !ok1 || !ok2 || !g.g.HasEdgeBetween(u, v) {
		return "", false
	}
	l, ok := g.labels[pairKey(u, v)]
	return l, ok
}

// Nodes returns node names in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	it := g.g.Edges()
	for it.Next() {
		n++
	}
	return n
}

// Edges returns all edges ordered by the insertion order of their endpoints.
// Each edge's Source is the endpoint inserted first.
func (g *Graph) Edges() []Edge {
	rank := make(map[string]int, len(g.order))
	for i, n := range g.order {
		rank[n] = i
	}

	var edges []Edge
	it := g.g.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		u, v := e.From().ID(), e.To().ID()
		a, b := g.names[u], g.names[v]
		if rank[a] > rank[b] {
			a, b = b, a
		}
		edges = append(edges, Edge{Source: a, Target: b, Weight: e.Weight(), Label: g.labels[pairKey(u, v)]})
	}

	sort.Slice(edges, func(i, j int) bool {
		si, sj := rank[edges[i].Source], rank[edges[j].Source]
		if si != sj {
			return si < sj
		}
		return rank[edges[i].Target] < rank[edges[j].Target]
	})
	return edges
}

// TotalWeight sums all edge weights.
func (g *Graph) TotalWeight() float64 {
	var w float64
	for _, e := range g.Edges() {
		w += e.Weight
	}
	return w
}

// Degree returns the number of neighbours of name.
func (g *Graph) Degree(name string) int {
	id, ok := g.ids[name]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// HighDegree returns nodes with degree strictly greater than min, in insertion order.
func (g *Graph) HighDegree(min int) []string {
	var out []string
	for _, n := range g.order {
		if g.Degree(n) > min {
			out = append(out, n)
		}
	}
	return out
}

// RemoveIsolates deletes nodes without edges and returns their names.
func (g *Graph) RemoveIsolates() []string {
	var isolated []string
	for _, n := range g.order {
		if g.Degree(n) == 0 {
			isolated = append(isolated, n)
		}
	}
	for _, n := range isolated {
		g.RemoveNode(n)
	}
	return isolated
}

// Underlying exposes the gonum graph for layout and analysis.
func (g *Graph) Underlying() graph.Undirected {
	return g.g
}

// ID returns the gonum node id of name.
func (g *Graph) ID(name string) (int64, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Name returns the node name for a gonum id.
func (g *Graph) Name(id int64) string {
	return g.names[id]
}

func pairKey(u, v int64) [2]int64 {
	if u > v {
		u, v = v, u
	}
	return [2]int64{u, v}
}
