// Package partitioner implements the top-level driver (spec §4.G):
// coarsen, initial-partition, uncoarsen-with-refinement, optionally
// repeated as V-cycles or nested as recursive bisection.
package partitioner

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/hypar-go/hypar/pkg/coarsening"
	"github.com/hypar-go/hypar/pkg/config"
	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/initialpart"
	"github.com/hypar-go/hypar/pkg/metrics"
	"github.com/hypar-go/hypar/pkg/refinement"
)

// Run executes the full driver pseudocode from spec §4.G against h,
// leaving h's partition assignments as the final result. h must not
// already have partition tracking enabled.
func Run(h *hypergraph.Hypergraph, cfg *config.Config, rng *rand.Rand, log zerolog.Logger) error {
	if cfg.Mode() == "recursive_bisection" && cfg.VCycles() > 0 {
		panic("partitioner: recursive_bisection combined with v_cycles>0 must be rejected by config validation")
	}

	if cfg.Mode() == "direct_kway" {
		lmax := metrics.LMaxPerBlock(h.TotalWeight(), cfg.K(), cfg.Epsilon())
		if err := direct(h, cfg, cfg.K(), lmax, rng, log); err != nil {
			return err
		}
	} else {
		if h.K() == 0 {
			h.EnablePartitionTracking(cfg.K())
		}
		globalLmax := metrics.LMax(h.TotalWeight(), cfg.K(), cfg.Epsilon())
		if err := bisect(h, cfg, cfg.K(), h.EnabledNodes(nil), 0, globalLmax, rng, log); err != nil {
			return err
		}
	}

	for i := 0; i < cfg.VCycles(); i++ {
		if err := vCycle(h, cfg, rng, log); err != nil {
			return fmt.Errorf("v-cycle %d: %w", i+1, err)
		}
	}

	if cfg.CollectStats() {
		snap := metrics.TakeSnapshot(h, cfg.K())
		log.Info().Int64("cut", snap.Cut).Int64("connectivity", snap.Connectivity).
			Float64("imbalance", snap.Imbalance).Ints64("block_weights", snap.BlockWeights).
			Msg("final statistics")
	}
	return nil
}

func coarseningParams(cfg *config.Config) coarsening.Params {
	return coarsening.Params{
		ContractionLimitMultiplier: cfg.ContractionLimitMultiplier(),
		MaxAllowedWeightMultiplier: cfg.MaxAllowedWeightMultiplier(),
		LargeEdgeThreshold:         cfg.LargeEdgeThreshold(),
	}
}

func initialPartParams(cfg *config.Config) initialpart.Params {
	return initialpart.Params{Runs: cfg.InitialPartitionerRuns(), Algorithm: cfg.InitialPartitionerAlgorithm()}
}

func refinerParams(cfg *config.Config) refinement.Params {
	return refinement.Params{MaxPasses: cfg.RefinerMaxPasses(), StagnationFraction: cfg.StagnationFraction()}
}

// direct runs the direct k-way path: coarsen to the contraction
// limit, initial-partition the coarsest hypergraph, then refine on
// the way back up (spec §4.D-§4.F). lmax is the per-block capacity
// (length k) that both phases must respect; callers pass a uniform
// cap for a top-level direct k-way run and an asymmetric cap for a
// recursive-bisection sub-call (see bisect).
func direct(h *hypergraph.Hypergraph, cfg *config.Config, k int, lmax []int64, rng *rand.Rand, log zerolog.Logger) error {
	stack := coarsening.Run(h, k, coarseningParams(cfg), rng, log)

	if err := initialpart.Run(h, k, lmax, initialPartParams(cfg), rng, log); err != nil {
		return err
	}

	uncoarsen(h, stack, k, lmax, refinerParams(cfg), log)
	return nil
}

// uncoarsen pops mementos off stack, restoring one contraction at a
// time and refining around the vertices the uncontraction touched
// (spec §4.F "the set of border vertices touched").
func uncoarsen(h *hypergraph.Hypergraph, stack *hypergraph.HierarchyStack, k int, lmax []int64, params refinement.Params, log zerolog.Logger) {
	for !stack.Empty() {
		m := stack.Pop()
		h.Uncontract(m)

		border := borderVertices(h, m)
		refinement.RefineKWay(h, k, lmax, border, params, log)
	}
}

// borderVertices computes the vertex set an uncontraction step
// touched: the contracted pair and the pins of any hyperedges that
// were re-enabled (spec §4.F).
func borderVertices(h *hypergraph.Hypergraph, m *hypergraph.Memento) []int {
	seen := map[int]bool{m.U: true, m.V: true}
	border := []int{m.U, m.V}
	for _, e := range m.ReenabledEdges() {
		for _, p := range h.Pins(e) {
			if !seen[p] {
				seen[p] = true
				border = append(border, p)
			}
		}
	}
	return border
}

// bisect implements recursive-bisection mode (spec §4.E "calls the
// full engine recursively with k=2, partitioning the vertex set, then
// recursing on each half with the appropriate sub-k and sub-budget").
// nodes is the (enabled) vertex subset currently being split; base is
// the block-ID offset of this subtree's leftmost block. globalLmax is
// the true per-block capacity of the top-level k-way problem: each
// side of a split is capped at (number of final blocks on that side)
// × globalLmax, never at a fraction of the side's own (smaller) total
// weight, so an uneven split can never let a leaf block exceed
// globalLmax after further bisection (spec §4.G supplement — sub-
// budget in recursive bisection).
func bisect(h *hypergraph.Hypergraph, cfg *config.Config, k int, nodes []int, base int, globalLmax int64, rng *rand.Rand, log zerolog.Logger) error {
	if len(nodes) == 0 {
		return nil
	}
	if k == 1 {
		for _, v := range nodes {
			h.SetPart(v, base)
		}
		return nil
	}

	sub, mapping := extractSubHypergraph(h, nodes)
	kLeft, kRight := k/2, k-k/2
	subLmax := []int64{int64(kLeft) * globalLmax, int64(kRight) * globalLmax}

	if err := direct(sub, cfg, 2, subLmax, rng, log); err != nil {
		return fmt.Errorf("bisect k=%d: %w", k, err)
	}

	var left, right []int
	for i, v := range mapping {
		if sub.Part(i) == 0 {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	if err := bisect(h, cfg, kLeft, left, base, globalLmax, rng, log); err != nil {
		return err
	}
	return bisect(h, cfg, kRight, right, base+kLeft, globalLmax, rng, log)
}

// extractSubHypergraph builds a standalone hypergraph over exactly
// nodes, keeping only hyperedges with at least 2 pins inside the
// subset (edges that leave the subset are simply not representable
// once outside vertices are dropped, matching the source's recursive
// bisection which operates on vertex-induced sub-problems).
func extractSubHypergraph(h *hypergraph.Hypergraph, nodes []int) (*hypergraph.Hypergraph, []int) {
	remap := make(map[int]int, len(nodes))
	mapping := make([]int, len(nodes))
	for i, v := range nodes {
		remap[v] = i
		mapping[i] = v
	}

	var pins [][]int
	var edgeWeights []int64
	var edges []int
	for _, e := range h.EnabledEdges(edges) {
		var sub []int
		for _, p := range h.Pins(e) {
			if j, ok := remap[p]; ok {
				sub = append(sub, j)
			}
		}
		if len(sub) >= 2 {
			pins = append(pins, sub)
			edgeWeights = append(edgeWeights, h.EdgeWeight(e))
		}
	}

	nodeWeights := make([]int64, len(nodes))
	for i, v := range nodes {
		nodeWeights[i] = h.NodeWeight(v)
	}

	sub, err := hypergraph.New(len(nodes), pins, edgeWeights, nodeWeights)
	if err != nil {
		panic(fmt.Sprintf("partitioner: extractSubHypergraph built an invalid hypergraph: %v", err))
	}
	for i, v := range nodes {
		if h.IsFixed(v) {
			sub.SetFixed(i, h.FixedPart(v))
		}
	}
	return sub, mapping
}

// vCycle recoarsens the partitioned hypergraph restricted to
// intra-block contraction pairs, warm-starts initial partitioning
// from the current partition, and refines on the way up (spec §4.G).
// It only applies in direct k-way mode.
func vCycle(h *hypergraph.Hypergraph, cfg *config.Config, rng *rand.Rand, log zerolog.Logger) error {
	k := h.K()
	objective, ok := metrics.ByName(cfg.Objective())
	if !ok {
		objective = metrics.Connectivity
	}
	before := objective(h)

	// coarsening.Run's Rater refuses to cross a block boundary once h
	// has partition tracking enabled, so this call already implements
	// the "contractions restricted to intra-block pairs" requirement.
	stack := coarsening.Run(h, k, coarseningParams(cfg), rng, log)

	// Warm start: nodes in the recoarsened hypergraph already carry
	// the current-run partition since intra-block contraction never
	// crosses a block boundary; nothing further to assign here.
	lmax := metrics.LMaxPerBlock(h.TotalWeight(), k, cfg.Epsilon())
	uncoarsen(h, stack, k, lmax, refinerParams(cfg), log)

	after := objective(h)
	log.Info().Int64("before", before).Int64("after", after).Msg("v-cycle")
	return nil
}
