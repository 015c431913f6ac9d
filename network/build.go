package network

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

// FromEdges builds a graph from literal (source, target, label) triples.
// Edges carry unit weight; a repeated pair keeps the last label.
func FromEdges(edges []collab.Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e.Source, e.Target, 1, e.Label)
	}
	return g
}

// FromCollaborations builds an author graph weighted by collaboration count.
func FromCollaborations(cs []collab.Collaboration) *Graph {
	g := New()
	for _, c := range cs {
		g.AddEdge(c.Author1, c.Author2, c.Count, "")
	}
	return g
}

// Sample returns n rows chosen with a seeded generator, in their original
// order. All rows are returned when n is not smaller than len(cs).
func Sample(cs []collab.Collaboration, n int, seed int64) []collab.Collaboration {
	if n < 0 || n >= len(cs) {
		return cs
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(cs))[:n]
	sort.Ints(picked)

	out := make([]collab.Collaboration, 0, n)
	for _, i := range picked {
		out = append(out, cs[i])
	}
	return out
}

// Complete builds the complete graph over institutions with known
// coordinates, weighting each edge by great-circle distance in kilometres.
// Institutions are deduplicated by exact name; the first row wins.
func Complete(insts []collab.Institution) (*Graph, error) {
	g := New()
	for _, inst := range insts {
		if !inst.Coordinates.Known || g.HasNode(inst.Name) {
			continue
		}
		g.AddNode(inst.Name)
		g.Positions[inst.Name] = inst.Coordinates
	}
	if g.NodeCount() == 0 {
		return nil, fmt.Errorf("building collaboration graph: %w", ErrNoNodes)
	}

	nodes := g.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			g.AddEdge(a, b, Geodesic(g.Positions[a], g.Positions[b]), "")
		}
	}
	return g, nil
}

// SpanningTree returns the minimum spanning tree (forest, if g is
// disconnected) of g. When the result has fewer than N-1 edges, every node
// left without a tree edge is attached to its geodesically nearest
// connected node.
func SpanningTree(g *Graph) *Graph {
	dst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(dst, g.g)

	tree := New()
	for _, n := range g.order {
		tree.AddNode(n)
		if c, ok := g.Positions[n]; ok {
			tree.Positions[n] = c
		}
	}
	it := dst.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		a, b := g.names[e.From().ID()], g.names[e.To().ID()]
		label, _ := g.EdgeLabel(a, b)
		tree.AddEdge(a, b, e.Weight(), label)
	}

	if n := tree.NodeCount(); n > 1 && tree.EdgeCount() < n-1 {
		slog.Warn("spanning tree does not reach every node, attaching orphans", "nodes", n, "edges", tree.EdgeCount())
		repairOrphans(tree)
	}
	return tree
}

// repairOrphans attaches each node without edges to its nearest node that
// already has one. Nodes without coordinates cannot be placed and are left alone.
func repairOrphans(tree *Graph) {
	var connected, orphans []string
	for _, n := range tree.order {
		if tree.Degree(n) > 0 {
			connected = append(connected, n)
		} else {
			orphans = append(orphans, n)
		}
	}

	for _, o := range orphans {
		from, ok := tree.Positions[o]
		if !ok || tree.Degree(o) > 0 {
			continue
		}

		candidates := connected
		if len(candidates) == 0 {
			for _, n := range tree.order {
				if n != o {
					candidates = append(candidates, n)
				}
			}
		}

		best, bestDist := "", math.Inf(1)
		for _, c := range candidates {
			to, ok := tree.Positions[c]
			if !ok || c == o {
				continue
			}
			if d := Geodesic(from, to); d < bestDist {
				best, bestDist = c, d
			}
		}
		if best == "" {
			continue
		}

		tree.AddEdge(o, best, bestDist, "")
		slog.Debug("attached orphan", "node", o, "nearest", best, "km", bestDist)
		if len(connected) == 0 {
			connected = append(connected, best)
		}
		connected = append(connected, o)
	}
}

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0088

// Geodesic returns the great-circle distance between a and b in kilometres.
func Geodesic(a, b collab.Coordinates) float64 {
	p := s2.LatLngFromDegrees(a.Lat, a.Lon)
	q := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p.Distance(q).Radians() * EarthRadiusKm
}
