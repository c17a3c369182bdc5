package hypergraph

// opKind enumerates the primitive, exactly-invertible operations a
// Contract call may perform. Uncontract replays a Memento's ops in
// reverse to restore the exact prior layout (spec §3 "Contraction
// memento", §9 Design Notes on swap-to-tail ordering).
type opKind int

const (
	// opPinSwapDisable removed a pin from an edge's live prefix via
	// swap-to-tail; idx is the pin's position at the moment of removal.
	opPinSwapDisable opKind = iota
	// opPinReplace substituted u for v at a fixed pin-list position
	// (the edge already had this many live pins, no swap involved).
	opPinReplace
	// opAppendIncident appended an edge to a node's incident list.
	opAppendIncident
	// opSinglePinDisable disabled an edge because contraction left it
	// with exactly one live pin (spec §3 invariant 4).
	opSinglePinDisable
	// opParallelMerge folded removedEdge's weight into edge and
	// disabled removedEdge (spec §3 invariant 5).
	opParallelMerge
)

type op struct {
	kind        opKind
	edge        int
	idx         int
	oldValue    int   // opPinReplace: the pin value to restore
	node        int   // opAppendIncident: the node whose list was extended
	removedEdge int   // opParallelMerge: the edge that was disabled
	weightDelta int64 // opParallelMerge: weight folded into `edge`
}

// Memento represents a single contraction u<-v: enough state to
// invert it exactly via Hypergraph.Uncontract.
type Memento struct {
	U, V          int
	UWeightBefore int64
	ops           []op
}

// ReenabledEdges returns the hyperedges Uncontract will re-enable:
// those that were disabled during Contract because contraction left
// them with a single pin or folded them into a parallel duplicate.
// The driver (pkg/partitioner) uses this, together with U and V, to
// compute the set of border vertices it hands to the refiner after one
// uncontraction step (spec §4.F).
func (m *Memento) ReenabledEdges() []int {
	var edges []int
	for _, o := range m.ops {
		switch o.kind {
		case opSinglePinDisable:
			edges = append(edges, o.edge)
		case opParallelMerge:
			edges = append(edges, o.removedEdge)
		}
	}
	return edges
}
