package hypergraph

import "github.com/hypar-go/hypar/internal/assertx"

// Contract identifies v into u: w(u)+=w(v), v is disabled, and every
// hyperedge incident to v is updated so u stands in for v (spec §4.A).
// Parallel hyperedges created by the merge are folded together and any
// hyperedge left with one live pin is disabled. The returned Memento
// inverts the operation exactly via Uncontract.
//
// Preconditions (enforced by assertion, never returned as an error,
// per §4.A "Failure semantics"): u != v, both enabled, and — when
// partition tracking is active — u and v in the same block or v
// unassigned (a V-cycle only contracts within a block; contracting
// across blocks would make pin-count-in-part meaningless).
func (h *Hypergraph) Contract(u, v int) *Memento {
	assertx.Assert(u != v, "Contract: u==v (%d)", u)
	assertx.Assert(h.nodeEnabled[u] && h.nodeEnabled[v], "Contract(%d,%d): both endpoints must be enabled", u, v)
	if h.k > 0 {
		assertx.Assert(h.nodePart[v] == Unassigned || h.nodePart[u] == Unassigned || h.nodePart[u] == h.nodePart[v],
			"Contract(%d,%d): partition tracking active but endpoints are in different blocks (%d vs %d)",
			u, v, h.nodePart[u], h.nodePart[v])
	}

	m := &Memento{U: u, V: v, UWeightBefore: h.nodeWeight[u]}
	h.nodeWeight[u] += h.nodeWeight[v]
	h.nodeEnabled[v] = false
	h.numEnabledNodes--

	case1 := h.scratchA[:0]
	case2 := h.scratchB[:0]

	for _, e := range h.nodeIncident[v] {
		if !h.edgeEnabled[e] {
			continue
		}
		if _, hasU := h.edgePinPos[e][u]; hasU {
			idx, ok := h.edgePinPos[e][v]
			assertx.Assert(ok, "Contract(%d,%d): edge %d listed as incident to v but v missing from its live pins", u, v, e)
			h.swapDisablePin(e, idx)
			m.ops = append(m.ops, op{kind: opPinSwapDisable, edge: e, idx: idx})
			case1 = append(case1, e)
		} else {
			idx, ok := h.edgePinPos[e][v]
			assertx.Assert(ok, "Contract(%d,%d): edge %d listed as incident to v but v missing from its live pins", u, v, e)
			h.edgePins[e][idx] = u
			delete(h.edgePinPos[e], v)
			h.edgePinPos[e][u] = idx
			m.ops = append(m.ops, op{kind: opPinReplace, edge: e, idx: idx, oldValue: v})

			h.nodeIncident[u] = append(h.nodeIncident[u], e)
			m.ops = append(m.ops, op{kind: opAppendIncident, edge: e, node: u})

			case2 = append(case2, e)
		}
	}
	h.scratchA, h.scratchB = case1, case2

	h.foldParallel(u, case1, m)
	h.foldParallel(u, case2, m)

	for _, e := range case1 {
		if h.edgeEnabled[e] && h.edgePinLive[e] == 1 {
			h.edgeEnabled[e] = false
			m.ops = append(m.ops, op{kind: opSinglePinDisable, edge: e})
		}
	}

	return m
}

// foldParallel compares each edge in changed against the rest of u's
// enabled incident edges and merges exact pin-set duplicates into the
// lower-numbered edge, recording each fold for inversion.
func (h *Hypergraph) foldParallel(u int, changed []int, m *Memento) {
	for _, c := range changed {
		if !h.edgeEnabled[c] {
			continue
		}
		for _, d := range h.nodeIncident[u] {
			if d == c || !h.edgeEnabled[d] {
				continue
			}
			if h.edgePinLive[c] != h.edgePinLive[d] {
				continue
			}
			if !h.pinSetEqual(c, d) {
				continue
			}
			keep, remove := c, d
			if remove < keep {
				keep, remove = remove, keep
			}
			delta := h.edgeWeight[remove]
			h.edgeWeight[keep] += delta
			h.edgeEnabled[remove] = false
			m.ops = append(m.ops, op{kind: opParallelMerge, edge: keep, removedEdge: remove, weightDelta: delta})
			if remove == c {
				break
			}
		}
	}
}

// pinSetEqual reports whether e1 and e2 have identical live pin sets.
// Callers must have already checked they have equal live pin counts.
func (h *Hypergraph) pinSetEqual(e1, e2 int) bool {
	for _, v := range h.Pins(e1) {
		if _, ok := h.edgePinPos[e2][v]; !ok {
			return false
		}
	}
	return true
}

// swapDisablePin removes the live pin at idx from e via swap-to-tail
// and updates partition bookkeeping if active. Returns the removed
// node id.
func (h *Hypergraph) swapDisablePin(e, idx int) int {
	last := h.edgePinLive[e] - 1
	removed := h.edgePins[e][idx]
	h.edgePins[e][idx], h.edgePins[e][last] = h.edgePins[e][last], h.edgePins[e][idx]
	h.edgePinPos[e][h.edgePins[e][idx]] = idx
	delete(h.edgePinPos[e], removed)
	h.edgePinLive[e] = last

	if h.k > 0 {
		if p := h.nodePart[removed]; p != Unassigned {
			h.pinCountInPart[e][p]--
			if h.pinCountInPart[e][p] == 0 {
				h.connectivitySet[e].Remove(p)
			}
		}
	}
	return removed
}

// restoreSwapPin is the exact inverse of swapDisablePin(e, idx).
func (h *Hypergraph) restoreSwapPin(e, idx int) {
	last := h.edgePinLive[e]
	h.edgePins[e][idx], h.edgePins[e][last] = h.edgePins[e][last], h.edgePins[e][idx]
	h.edgePinPos[e][h.edgePins[e][idx]] = idx
	h.edgePinPos[e][h.edgePins[e][last]] = last
	h.edgePinLive[e] = last + 1

	if h.k > 0 {
		restored := h.edgePins[e][idx]
		if p := h.nodePart[restored]; p != Unassigned {
			if h.pinCountInPart[e][p] == 0 {
				h.connectivitySet[e].Add(p)
			}
			h.pinCountInPart[e][p]++
		}
	}
}

// Uncontract inverts the most recent Contract that produced m. v's
// block is initialized to u's current block; the refiner may move it
// via ChangePart. Callers must pop m from the hierarchy stack in LIFO
// order (spec §3 "Hierarchy stack ... LIFO on pop").
func (h *Hypergraph) Uncontract(m *Memento) {
	u, v := m.U, m.V

	// v's block must be settled before replaying ops: opPinSwapDisable
	// restores pins via restoreSwapPin, which reads h.nodePart[v] to
	// decide whether to bump pinCountInPart/connectivitySet for v. If v
	// were still Unassigned at that point every restore would silently
	// skip its bookkeeping.
	if h.nodePart[v] == Unassigned {
		h.nodePart[v] = h.nodePart[u]
	}

	// A disabled edge's pin counts are not maintained (ChangePart and
	// EnablePartitionTracking skip it), so it is recounted on re-enable.
	recount := func(e int) {
		if h.k == 0 {
			return
		}
		h.connectivitySet[e].Clear()
		clear(h.pinCountInPart[e])
		for _, w := range h.Pins(e) {
			if p := h.nodePart[w]; p != Unassigned {
				h.connectivitySet[e].Add(p)
				h.pinCountInPart[e][p]++
			}
		}
	}

	for i := len(m.ops) - 1; i >= 0; i-- {
		o := m.ops[i]
		switch o.kind {
		case opSinglePinDisable:
			h.edgeEnabled[o.edge] = true
			recount(o.edge)
		case opParallelMerge:
			h.edgeWeight[o.edge] -= o.weightDelta
			h.edgeEnabled[o.removedEdge] = true
			recount(o.removedEdge)
		case opAppendIncident:
			n := o.node
			h.nodeIncident[n] = h.nodeIncident[n][:len(h.nodeIncident[n])-1]
		case opPinReplace:
			e, idx := o.edge, o.idx
			current := h.edgePins[e][idx] // == u
			h.edgePins[e][idx] = o.oldValue
			delete(h.edgePinPos[e], current)
			h.edgePinPos[e][o.oldValue] = idx
		case opPinSwapDisable:
			h.restoreSwapPin(o.edge, o.idx)
		}
	}

	h.nodeEnabled[v] = true
	h.numEnabledNodes++
	h.nodeWeight[u] = m.UWeightBefore
}
