// Package hypergraph implements the dynamic incidence structure the
// engine coarsens, partitions, and refines: hypernodes and hyperedges
// that are created once at load time and never destroyed, only
// disabled and (during uncoarsening) re-enabled.
package hypergraph

import "github.com/hypar-go/hypar/pkg/sparseset"

// Unassigned marks a hypernode that has not yet been given a block.
const Unassigned = -1

// Hypergraph is a mutable incidence structure over hypernodes
// 0..NumNodes-1 and hyperedges 0..NumEdges-1. All exported query
// methods are read-only and stable across non-mutating calls; the
// only legal mutations are Contract, Uncontract, SetPart and
// ChangePart.
type Hypergraph struct {
	numNodes        int
	numEdges        int
	numEnabledNodes int
	k               int // 0 until EnablePartitionTracking is called
	total           int64

	nodeWeight    []int64
	nodePart      []int
	nodeEnabled   []bool
	nodeFixed     []bool
	nodeFixedPart []int
	// nodeIncident[v] is append-only; entries may reference disabled
	// edges, filtered out by every read accessor.
	nodeIncident [][]int

	edgeWeight []int64
	edgeEnabled []bool
	// edgePins[e][:edgePinLive[e]] is the live prefix; edgePinPos[e]
	// maps a live pin's node id to its index within that prefix so
	// Contract can locate and swap-disable it in O(1).
	edgePins   [][]int
	edgePinLive []int
	edgePinPos []map[int]int

	// Partition-aware bookkeeping, nil/zero until EnablePartitionTracking.
	pinCountInPart  [][]int // [e][p]
	connectivitySet []*sparseset.Set[int]

	// reusable scratch buffers so Contract's parallel-edge detection
	// does not allocate on the steady-state path.
	scratchA []int
	scratchB []int
}
