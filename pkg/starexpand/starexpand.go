// Package starexpand builds a gonum graph from a hypergraph by star
// expansion, so heuristics that want classical graph algorithms (BFS,
// label propagation) have something to walk. Grounded on the
// teacher's graph_adapter.go (ConvertLouvainGraph), generalized from
// clique expansion to star expansion: a clique expansion of a
// hyperedge with p pins needs O(p²) graph edges and loses the
// hyperedge's identity, which the connectivity bookkeeping needs.
package starexpand

import (
	"math"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/hypar-go/hypar/pkg/hypergraph"
)

// Expansion is a star-expanded view of a hypergraph: one gonum node
// per hypernode (ids 0..NumNodes-1, matching the hypergraph's own
// ids) plus one auxiliary gonum node per enabled hyperedge (id
// NumNodes+e), connected to each of its pins with an edge of weight
// w(e).
type Expansion struct {
	Graph    *simple.WeightedUndirectedGraph
	NumNodes int
}

// Build constructs the star expansion of the enabled portion of h.
func Build(h *hypergraph.Hypergraph) *Expansion {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	n := h.NumNodes()

	for v := 0; v < n; v++ {
		if h.NodeEnabled(v) {
			g.AddNode(simple.Node(int64(v)))
		}
	}

	var edges []int
	for _, e := range h.EnabledEdges(edges) {
		auxID := int64(n + e)
		g.AddNode(simple.Node(auxID))
		w := float64(h.EdgeWeight(e))
		for _, p := range h.Pins(e) {
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(auxID), T: simple.Node(int64(p)), W: w})
		}
	}

	return &Expansion{Graph: g, NumNodes: n}
}

// IsHypernode reports whether a gonum node id in the expansion
// corresponds to an original hypernode (as opposed to a hyperedge's
// auxiliary node).
func (x *Expansion) IsHypernode(id int64) bool { return id < int64(x.NumNodes) }

// HypernodeNeighbors returns the distinct enabled hypernodes reachable
// from v through one shared hyperedge, appended onto dst.
func (x *Expansion) HypernodeNeighbors(h *hypergraph.Hypergraph, v int, dst []int) []int {
	dst = dst[:0]
	seen := make(map[int]struct{})
	var buf []int
	for _, e := range h.IncidentEdges(v, buf) {
		for _, p := range h.Pins(e) {
			if p == v {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			dst = append(dst, p)
		}
	}
	return dst
}
