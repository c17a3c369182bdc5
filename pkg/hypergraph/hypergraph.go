package hypergraph

import (
	"fmt"

	"github.com/hypar-go/hypar/internal/assertx"
	"github.com/hypar-go/hypar/pkg/sparseset"
)

// New builds a Hypergraph from a pin-list-per-hyperedge representation.
// nodeWeights may be nil, in which case every hypernode gets weight 1
// (spec §3 default). pins[e] must contain at least one pin and no
// duplicate pins within a single hyperedge. IDs are 0-based; remapping
// from a 1-based external format is the caller's responsibility
// (component L).
func New(numNodes int, pins [][]int, edgeWeights []int64, nodeWeights []int64) (*Hypergraph, error) {
	if numNodes <= 0 {
		return nil, fmt.Errorf("hypergraph: numNodes must be positive, got %d", numNodes)
	}
	for e, p := range pins {
		if len(p) == 0 {
			return nil, fmt.Errorf("hypergraph: hyperedge %d has no pins", e)
		}
		seen := make(map[int]struct{}, len(p))
		for _, v := range p {
			if v < 0 || v >= numNodes {
				return nil, fmt.Errorf("hypergraph: hyperedge %d references out-of-range pin %d", e, v)
			}
			if _, dup := seen[v]; dup {
				return nil, fmt.Errorf("hypergraph: hyperedge %d lists pin %d more than once", e, v)
			}
			seen[v] = struct{}{}
		}
	}

	h := &Hypergraph{
		numNodes:        numNodes,
		numEdges:        len(pins),
		numEnabledNodes: numNodes,

		nodeWeight:    make([]int64, numNodes),
		nodePart:      make([]int, numNodes),
		nodeEnabled:   make([]bool, numNodes),
		nodeFixed:     make([]bool, numNodes),
		nodeFixedPart: make([]int, numNodes),
		nodeIncident:  make([][]int, numNodes),

		edgeWeight:  make([]int64, len(pins)),
		edgeEnabled: make([]bool, len(pins)),
		edgePins:    make([][]int, len(pins)),
		edgePinLive: make([]int, len(pins)),
		edgePinPos:  make([]map[int]int, len(pins)),
	}

	for v := 0; v < numNodes; v++ {
		w := int64(1)
		if nodeWeights != nil {
			w = nodeWeights[v]
		}
		h.nodeWeight[v] = w
		h.nodePart[v] = Unassigned
		h.nodeEnabled[v] = true
		h.nodeFixedPart[v] = Unassigned
		h.total += w
	}

	for e, p := range pins {
		w := int64(1)
		if edgeWeights != nil {
			w = edgeWeights[e]
		}
		h.edgeWeight[e] = w
		h.edgeEnabled[e] = true
		h.edgePins[e] = append([]int(nil), p...)
		h.edgePinLive[e] = len(p)
		h.edgePinPos[e] = make(map[int]int, len(p))
		for i, v := range p {
			h.edgePinPos[e][v] = i
			h.nodeIncident[v] = append(h.nodeIncident[v], e)
		}
	}

	return h, nil
}

// EnablePartitionTracking allocates and initializes pin-count-in-part
// and connectivity-set bookkeeping for k blocks. Must be called before
// the first SetPart. Calling it again with a different k rebuilds the
// bookkeeping from the current (possibly already-partitioned) state,
// which is what a V-cycle's re-coarsened hypergraph needs.
func (h *Hypergraph) EnablePartitionTracking(k int) {
	assertx.Assert(k >= 2, "EnablePartitionTracking requires k>=2, got %d", k)
	h.k = k
	h.pinCountInPart = make([][]int, h.numEdges)
	h.connectivitySet = make([]*sparseset.Set[int], h.numEdges)
	for e := 0; e < h.numEdges; e++ {
		h.pinCountInPart[e] = make([]int, k)
		h.connectivitySet[e] = sparseset.New[int](k)
		if !h.edgeEnabled[e] {
			continue
		}
		for _, v := range h.edgePins[e][:h.edgePinLive[e]] {
			p := h.nodePart[v]
			if p == Unassigned {
				continue
			}
			if h.pinCountInPart[e][p] == 0 {
				h.connectivitySet[e].Add(p)
			}
			h.pinCountInPart[e][p]++
		}
	}
}

// K returns the number of blocks partition tracking was enabled with,
// or 0 if EnablePartitionTracking has not been called yet.
func (h *Hypergraph) K() int { return h.k }

// NumNodes returns the original number of hypernodes (enabled or not).
func (h *Hypergraph) NumNodes() int { return h.numNodes }

// NumEdges returns the original number of hyperedges (enabled or not).
func (h *Hypergraph) NumEdges() int { return h.numEdges }

// NumEnabledNodes returns the current count of enabled hypernodes,
// maintained incrementally by Contract/Uncontract so callers don't
// need to rescan EnabledNodes to test a contraction-limit threshold.
func (h *Hypergraph) NumEnabledNodes() int { return h.numEnabledNodes }

// TotalWeight returns Σ w(v) over all hypernodes. This is invariant
// under contraction (spec §3 invariant 1), so it is computed once.
func (h *Hypergraph) TotalWeight() int64 { return h.total }

func (h *Hypergraph) NodeWeight(v int) int64 { return h.nodeWeight[v] }
func (h *Hypergraph) EdgeWeight(e int) int64 { return h.edgeWeight[e] }
func (h *Hypergraph) NodeEnabled(v int) bool { return h.nodeEnabled[v] }
func (h *Hypergraph) EdgeEnabled(e int) bool { return h.edgeEnabled[e] }
func (h *Hypergraph) Part(v int) int         { return h.nodePart[v] }
func (h *Hypergraph) IsFixed(v int) bool     { return h.nodeFixed[v] }
func (h *Hypergraph) FixedPart(v int) int    { return h.nodeFixedPart[v] }

// EdgeSize returns the number of live (enabled) pins of e.
func (h *Hypergraph) EdgeSize(e int) int { return h.edgePinLive[e] }

// SetFixed pins v to block p for the remainder of every partition this
// hypergraph participates in. Must be called before any contraction.
func (h *Hypergraph) SetFixed(v, p int) {
	assertx.Assert(h.nodeEnabled[v], "SetFixed on disabled node %d", v)
	assertx.Assert(p >= 0, "SetFixed requires p>=0, got %d", p)
	h.nodeFixed[v] = true
	h.nodeFixedPart[v] = p
}

// Pins returns the live pins of e as a stable read-only view; it is
// invalidated by the next mutating call that touches e.
func (h *Hypergraph) Pins(e int) []int { return h.edgePins[e][:h.edgePinLive[e]] }

// IncidentEdges appends the enabled hyperedges incident to v onto dst
// and returns the result, reusing dst's backing array when possible
// (the append-then-filter idiom keeps this allocation-free once dst
// has warmed up to v's degree).
func (h *Hypergraph) IncidentEdges(v int, dst []int) []int {
	dst = dst[:0]
	for _, e := range h.nodeIncident[v] {
		if h.edgeEnabled[e] {
			dst = append(dst, e)
		}
	}
	return dst
}

// Connectivity returns λ(e): the number of distinct enabled blocks
// among e's live pins. Requires EnablePartitionTracking.
func (h *Hypergraph) Connectivity(e int) int { return h.connectivitySet[e].Size() }

// ConnectivityBlocks returns the blocks with at least one pin of e, in
// the connectivity set's order (see sparseset.Set.Values). Requires
// EnablePartitionTracking.
func (h *Hypergraph) ConnectivityBlocks(e int) []int { return h.connectivitySet[e].Values() }

// PinCountInPart returns the number of e's live pins currently in
// block p. Requires EnablePartitionTracking.
func (h *Hypergraph) PinCountInPart(e, p int) int { return h.pinCountInPart[e][p] }

// EnabledNodes returns every enabled hypernode id, in id order.
func (h *Hypergraph) EnabledNodes(dst []int) []int {
	dst = dst[:0]
	for v := 0; v < h.numNodes; v++ {
		if h.nodeEnabled[v] {
			dst = append(dst, v)
		}
	}
	return dst
}

// EnabledEdges returns every enabled hyperedge id, in id order.
func (h *Hypergraph) EnabledEdges(dst []int) []int {
	dst = dst[:0]
	for e := 0; e < h.numEdges; e++ {
		if h.edgeEnabled[e] {
			dst = append(dst, e)
		}
	}
	return dst
}

// SetPart assigns v's initial block. v must currently be Unassigned.
func (h *Hypergraph) SetPart(v, p int) {
	assertx.Assert(h.nodeEnabled[v], "SetPart on disabled node %d", v)
	assertx.Assert(h.nodePart[v] == Unassigned, "SetPart on already-assigned node %d", v)
	assertx.Assert(p >= 0 && (h.k == 0 || p < h.k), "SetPart(%d,%d) out of range for k=%d", v, p, h.k)
	h.nodePart[v] = p
	if h.k == 0 {
		return
	}
	var buf [64]int
	for _, e := range h.IncidentEdges(v, buf[:0]) {
		if h.pinCountInPart[e][p] == 0 {
			h.connectivitySet[e].Add(p)
		}
		h.pinCountInPart[e][p]++
	}
}

// ChangePart moves v from block `from` to block `to`, maintaining
// pin-count-in-part and connectivity sets for every hyperedge incident
// to v (spec §3 invariants 2, 3). v must currently be in `from`.
func (h *Hypergraph) ChangePart(v, from, to int) {
	assertx.Assert(h.nodeEnabled[v], "ChangePart on disabled node %d", v)
	assertx.Assert(h.nodePart[v] == from, "ChangePart(%d,%d,%d): node is actually in %d", v, from, to, h.nodePart[v])
	assertx.Assert(from != to, "ChangePart(%d,%d,%d): from==to", v, from, to)
	var buf [64]int
	for _, e := range h.IncidentEdges(v, buf[:0]) {
		h.pinCountInPart[e][from]--
		if h.pinCountInPart[e][from] == 0 {
			h.connectivitySet[e].Remove(from)
		}
		if h.pinCountInPart[e][to] == 0 {
			h.connectivitySet[e].Add(to)
		}
		h.pinCountInPart[e][to]++
	}
	h.nodePart[v] = to
}
