// Package initialpart produces a feasible k-way partition of the
// coarsest hypergraph by running several cheap heuristics multiple
// times and keeping the best feasible candidate (spec §4.E).
package initialpart

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/starexpand"
)

// ErrInfeasible is wrapped by ErrInitialPartitioningInfeasible-class
// failures: no heuristic run produced a balanced partition.
var ErrInfeasible = errors.New("hypar: no heuristic produced a feasible k-way partition")

// Params configures the initial partitioning phase (spec §6
// initial_partitioner.* options).
type Params struct {
	Runs      int
	Algorithm string // "random", "bfs", "greedy_hyperedge", "label_propagation"; "" = try all
}

var allAlgorithms = []string{"random", "bfs", "greedy_hyperedge", "label_propagation"}

// Run tries each configured heuristic Params.Runs times with
// independent RNG draws and assigns h's partition (via SetPart) to
// the best feasible candidate found, honoring any already-fixed
// vertices. h must not already have partition tracking enabled with
// assignments; it is enabled here if not already active. lmax is a
// per-block capacity of length k: direct k-way mode and V-cycles pass
// a uniform cap (metrics.LMaxPerBlock), while recursive bisection
// passes an asymmetric cap sized to each side's share of final blocks
// (spec §4.G supplement — sub-budget in recursive bisection).
func Run(h *hypergraph.Hypergraph, k int, lmax []int64, p Params, rng *rand.Rand, log zerolog.Logger) error {
	if h.K() == 0 {
		h.EnablePartitionTracking(k)
	}

	algorithms := allAlgorithms
	if p.Algorithm != "" {
		algorithms = []string{p.Algorithm}
	}

	var nodes []int
	nodes = h.EnabledNodes(nodes)

	var best []int
	bestObjective := int64(-1)
	bestFeasible := false

	x := starexpand.Build(h)

	for _, alg := range algorithms {
		for run := 0; run < p.Runs; run++ {
			trialRNG := rand.New(rand.NewSource(rng.Int63()))
			var candidate []int
			switch alg {
			case "random":
				candidate = randomHeuristic(h, k, nodes, trialRNG)
			case "greedy_hyperedge":
				candidate = greedyHyperedgeHeuristic(h, k, lmax, nodes)
			case "bfs":
				candidate = bfsHeuristic(h, k, lmax, nodes, x, trialRNG)
			case "label_propagation":
				candidate = labelPropagationHeuristic(h, k, lmax, nodes, trialRNG)
			default:
				continue
			}

			feasible, objective := evaluate(h, candidate, k, lmax)
			if !feasible {
				continue
			}
			if !bestFeasible || objective < bestObjective {
				best, bestFeasible, bestObjective = candidate, true, objective
			}
		}
	}

	log.Info().Bool("feasible", bestFeasible).Int64("objective", bestObjective).Msg("initial partitioning")
	if !bestFeasible {
		return fmt.Errorf("%w (k=%d, L_max=%v)", ErrInfeasible, k, lmax)
	}

	for _, v := range nodes {
		h.SetPart(v, best[v])
	}
	return nil
}

// evaluate computes (feasibility, objective) for a candidate labeling
// without mutating h, so multiple trials can be compared cheaply.
func evaluate(h *hypergraph.Hypergraph, parts []int, k int, lmax []int64) (bool, int64) {
	blockWeight := make([]int64, k)
	var nodes []int
	for _, v := range h.EnabledNodes(nodes) {
		blockWeight[parts[v]] += h.NodeWeight(v)
	}
	for p, w := range blockWeight {
		if w > lmax[p] {
			return false, 0
		}
	}

	var objective int64
	seen := make([]int, k)
	epoch := 0
	var edges []int
	for _, e := range h.EnabledEdges(edges) {
		epoch++
		lambda := 0
		for _, v := range h.Pins(e) {
			p := parts[v]
			if seen[p] != epoch {
				seen[p] = epoch
				lambda++
			}
		}
		if lambda > 1 {
			objective += h.EdgeWeight(e) * int64(lambda-1)
		}
	}
	return true, objective
}

func seedParts(h *hypergraph.Hypergraph, k int, nodes []int) []int {
	parts := make([]int, h.NumNodes())
	for i := range parts {
		parts[i] = hypergraph.Unassigned
	}
	for _, v := range nodes {
		if h.IsFixed(v) {
			parts[v] = h.FixedPart(v)
		}
	}
	return parts
}

func randomHeuristic(h *hypergraph.Hypergraph, k int, nodes []int, rng *rand.Rand) []int {
	parts := seedParts(h, k, nodes)
	for _, v := range nodes {
		if parts[v] == hypergraph.Unassigned {
			parts[v] = rng.Intn(k)
		}
	}
	return parts
}

// greedyHyperedgeHeuristic processes hyperedges in weight-descending
// order, assigning every unassigned pin of the edge to the lightest
// feasible block (spec §4.E supplement).
func greedyHyperedgeHeuristic(h *hypergraph.Hypergraph, k int, lmax []int64, nodes []int) []int {
	parts := seedParts(h, k, nodes)
	blockWeight := make([]int64, k)
	for _, v := range nodes {
		if parts[v] != hypergraph.Unassigned {
			blockWeight[parts[v]] += h.NodeWeight(v)
		}
	}

	var edges []int
	edges = h.EnabledEdges(edges)
	sort.Slice(edges, func(i, j int) bool { return h.EdgeWeight(edges[i]) > h.EdgeWeight(edges[j]) })

	lightest := func() int {
		best := 0
		for p := 1; p < k; p++ {
			if blockWeight[p] < blockWeight[best] {
				best = p
			}
		}
		return best
	}

	assign := func(v, p int) {
		if parts[v] != hypergraph.Unassigned {
			return
		}
		for i := 0; i < k; i++ {
			cand := (p + i) % k
			if blockWeight[cand]+h.NodeWeight(v) <= lmax[cand] {
				p = cand
				break
			}
		}
		parts[v] = p
		blockWeight[p] += h.NodeWeight(v)
	}

	for _, e := range edges {
		p := lightest()
		for _, v := range h.Pins(e) {
			assign(v, p)
		}
	}
	for _, v := range nodes {
		assign(v, lightest())
	}
	return parts
}

// bfsHeuristic grows blocks 0..k-2 by breadth-first search from k-1
// independently chosen seeds over the star-expanded graph, using
// gonum's traverse.BreadthFirst to walk the expansion (spec §4.N);
// every vertex left unassigned afterwards goes to block k-1.
func bfsHeuristic(h *hypergraph.Hypergraph, k int, lmax []int64, nodes []int, x *starexpand.Expansion, rng *rand.Rand) []int {
	parts := seedParts(h, k, nodes)
	blockWeight := make([]int64, k)
	for _, v := range nodes {
		if parts[v] != hypergraph.Unassigned {
			blockWeight[parts[v]] += h.NodeWeight(v)
		}
	}

	free := make([]int, 0, len(nodes))
	for _, v := range nodes {
		if parts[v] == hypergraph.Unassigned {
			free = append(free, v)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	seedIdx := 0
	for p := 0; p < k-1 && seedIdx < len(free); p++ {
		var seed int = -1
		for seedIdx < len(free) {
			if parts[free[seedIdx]] == hypergraph.Unassigned {
				seed = free[seedIdx]
				seedIdx++
				break
			}
			seedIdx++
		}
		if seed == -1 {
			break
		}
		growBFS(h, x, parts, blockWeight, p, seed, lmax[p], lmax[p])
	}
	// Everything still unassigned falls into the last block.
	last := k - 1
	for _, v := range nodes {
		if parts[v] == hypergraph.Unassigned {
			parts[v] = last
			blockWeight[last] += h.NodeWeight(v)
		}
	}
	return parts
}

func growBFS(h *hypergraph.Hypergraph, x *starexpand.Expansion, parts []int, blockWeight []int64, block, seed int, target, lmax int64) {
	var bf traverse.BreadthFirst
	bf.Walk(x.Graph, x.Graph.Node(int64(seed)), func(n graph.Node, depth int) bool {
		id := n.ID()
		if !x.IsHypernode(id) {
			return false
		}
		v := int(id)
		if h.IsFixed(v) {
			return blockWeight[block] >= target
		}
		if parts[v] != hypergraph.Unassigned {
			return blockWeight[block] >= target
		}
		if blockWeight[block]+h.NodeWeight(v) > lmax {
			return blockWeight[block] >= target
		}
		parts[v] = block
		blockWeight[block] += h.NodeWeight(v)
		return blockWeight[block] >= target
	})
}

// labelPropagationHeuristic seeds a random labeling then iteratively
// moves each free vertex to the capacity-feasible block most
// represented among its hyperedge neighbors, for a bounded number of
// sweeps (spec names label-propagation as a heuristic without fixing
// the sweep count or majority rule; both are chosen here for
// determinism given a seed).
func labelPropagationHeuristic(h *hypergraph.Hypergraph, k int, lmax []int64, nodes []int, rng *rand.Rand) []int {
	parts := randomHeuristic(h, k, nodes, rng)
	blockWeight := make([]int64, k)
	for _, v := range nodes {
		blockWeight[parts[v]] += h.NodeWeight(v)
	}

	order := append([]int(nil), nodes...)
	votes := make([]int64, k)
	var buf []int
	const sweeps = 10
	for s := 0; s < sweeps; s++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		moved := 0
		for _, v := range order {
			if h.IsFixed(v) {
				continue
			}
			for p := range votes {
				votes[p] = 0
			}
			for _, e := range h.IncidentEdges(v, buf) {
				w := h.EdgeWeight(e)
				for _, u := range h.Pins(e) {
					if u != v {
						votes[parts[u]] += w
					}
				}
			}
			best, bestVote := parts[v], votes[parts[v]]
			for p := 0; p < k; p++ {
				if p == parts[v] {
					continue
				}
				if votes[p] <= bestVote {
					continue
				}
				if blockWeight[p]+h.NodeWeight(v) > lmax[p] {
					continue
				}
				best, bestVote = p, votes[p]
			}
			if best != parts[v] {
				blockWeight[parts[v]] -= h.NodeWeight(v)
				blockWeight[best] += h.NodeWeight(v)
				parts[v] = best
				moved++
			}
		}
		if moved == 0 {
			break
		}
	}
	return parts
}
