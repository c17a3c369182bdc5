// Package metrics computes the objective and balance measures the
// refiner and driver score partitions by: cut, (λ−1) connectivity,
// imbalance, and per-block weight.
package metrics

import (
	"github.com/hypar-go/hypar/pkg/hypergraph"
)

// Cut returns Σ_{e: λ(e)>1} w(e) over enabled hyperedges. Requires
// EnablePartitionTracking to have been called on h.
func Cut(h *hypergraph.Hypergraph) int64 {
	var total int64
	var dst []int
	for _, e := range h.EnabledEdges(dst) {
		if h.Connectivity(e) > 1 {
			total += h.EdgeWeight(e)
		}
	}
	return total
}

// Connectivity returns Σ_e w(e)·(λ(e)−1), the default objective.
func Connectivity(h *hypergraph.Hypergraph) int64 {
	var total int64
	var dst []int
	for _, e := range h.EnabledEdges(dst) {
		if lambda := h.Connectivity(e); lambda > 1 {
			total += h.EdgeWeight(e) * int64(lambda-1)
		}
	}
	return total
}

// BlockWeight returns Σ_{v: part(v)=p} w(v).
func BlockWeight(h *hypergraph.Hypergraph, p int) int64 {
	var total int64
	var dst []int
	for _, v := range h.EnabledNodes(dst) {
		if h.Part(v) == p {
			total += h.NodeWeight(v)
		}
	}
	return total
}

// BlockWeights returns BlockWeight for every block 0..k-1 in one pass.
func BlockWeights(h *hypergraph.Hypergraph, k int) []int64 {
	weights := make([]int64, k)
	var dst []int
	for _, v := range h.EnabledNodes(dst) {
		if p := h.Part(v); p != hypergraph.Unassigned {
			weights[p] += h.NodeWeight(v)
		}
	}
	return weights
}

// PerfectBlockWeight returns ⌈w(V)/k⌉, the balanced-partition target.
func PerfectBlockWeight(total int64, k int) int64 {
	return (total + int64(k) - 1) / int64(k)
}

// LMax returns ⌈(1+ε)·⌈w(V)/k⌉⌉, the maximum weight any block may
// carry under an ε-balanced partition (spec invariant 6).
func LMax(total int64, k int, epsilon float64) int64 {
	perfect := PerfectBlockWeight(total, k)
	return int64(ceilFloat((1 + epsilon) * float64(perfect)))
}

// LMaxPerBlock returns a length-k capacity slice with LMax(total,k,epsilon)
// repeated in every slot, for callers that need a uniform per-block cap
// (direct k-way mode, V-cycles) but express it through the same
// per-block-capacity API recursive bisection uses for asymmetric caps.
func LMaxPerBlock(total int64, k int, epsilon float64) []int64 {
	lmax := LMax(total, k, epsilon)
	caps := make([]int64, k)
	for i := range caps {
		caps[i] = lmax
	}
	return caps
}

func ceilFloat(x float64) float64 {
	i := int64(x)
	if float64(i) < x {
		i++
	}
	return float64(i)
}

// Imbalance returns max_p w(V_p) / ⌈w(V)/k⌉ − 1.
func Imbalance(h *hypergraph.Hypergraph, k int) float64 {
	weights := BlockWeights(h, k)
	var maxW int64
	for _, w := range weights {
		if w > maxW {
			maxW = w
		}
	}
	perfect := PerfectBlockWeight(h.TotalWeight(), k)
	if perfect == 0 {
		return 0
	}
	return float64(maxW)/float64(perfect) - 1
}

// Snapshot is the optional GATHER_STATS-style instrumentation hook
// (spec §9 Design Notes): a point-in-time bundle of every metric this
// package knows how to compute, cheap enough to call once per phase
// but never on the hot per-move path.
type Snapshot struct {
	Cut          int64
	Connectivity int64
	Imbalance    float64
	BlockWeights []int64
}

// TakeSnapshot computes a Snapshot for h under a k-way partition.
// Callers gate this behind Config.CollectStats() so a run that does
// not want statistics pays nothing beyond the check itself.
func TakeSnapshot(h *hypergraph.Hypergraph, k int) Snapshot {
	return Snapshot{
		Cut:          Cut(h),
		Connectivity: Connectivity(h),
		Imbalance:    Imbalance(h, k),
		BlockWeights: BlockWeights(h, k),
	}
}

// Objective is a partition-quality function; Cut and Connectivity both
// satisfy it.
type Objective func(h *hypergraph.Hypergraph) int64

// ByName resolves the config-level objective name (spec §6
// `objective ∈ {cut, connectivity}`) to an Objective function.
func ByName(name string) (Objective, bool) {
	switch name {
	case "cut":
		return Cut, true
	case "connectivity", "":
		return Connectivity, true
	default:
		return nil, false
	}
}
