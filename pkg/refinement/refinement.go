// Package refinement implements Fiduccia-Mattheyses local search:
// gain-driven moves with rollback to the best observed prefix (spec
// §4.F). The same implementation serves both k-way refinement (direct
// mode) and two-way refinement (bisection mode, k=2), since a vertex
// always has exactly k-1 candidate target blocks in the gain queue.
package refinement

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/hypar-go/hypar/pkg/gainqueue"
	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/metrics"
)

// Params configures the refiner (spec §6 refiner.* options).
type Params struct {
	MaxPasses          int
	StagnationFraction float64 // multiplies √|borderV| for the stagnation window
}

// DefaultParams matches spec §4.F's stated defaults.
func DefaultParams() Params {
	return Params{MaxPasses: 3, StagnationFraction: 1.0}
}

// gain computes Δcut for moving u from its current block to target,
// per spec §4.C: Σ_{e∋u,pin-count[e,a]=1} w(e) − Σ_{e∋u,pin-count[e,b]=0} w(e).
func gain(h *hypergraph.Hypergraph, u, target int, buf []int) int64 {
	from := h.Part(u)
	var g int64
	for _, e := range h.IncidentEdges(u, buf) {
		w := h.EdgeWeight(e)
		if h.PinCountInPart(e, from) == 1 {
			g += w
		}
		if h.PinCountInPart(e, target) == 0 {
			g -= w
		}
	}
	return g
}

// RefineKWay runs bounded FM local search seeded from border, moving
// vertices between h's k blocks to reduce the (λ−1) connectivity
// objective while respecting lmax, a per-block capacity of length k
// (direct k-way mode and V-cycles pass a uniform cap via
// metrics.LMaxPerBlock; recursive bisection passes an asymmetric cap
// sized to each side's share of final blocks, spec §4.G supplement).
// It returns the net objective reduction achieved (gains actually
// kept after rollback).
func RefineKWay(h *hypergraph.Hypergraph, k int, lmax []int64, border []int, params Params, log zerolog.Logger) int64 {
	if len(border) == 0 {
		return 0
	}
	blockWeight := metrics.BlockWeights(h, k)
	stagnationWindow := 1
	if w := int(params.StagnationFraction * math.Sqrt(float64(len(border)))); w > 1 {
		stagnationWindow = w
	}

	var totalGain int64
	var buf []int

	for pass := 0; pass < params.MaxPasses; pass++ {
		locked := make(map[int]bool, len(border))
		queue := gainqueue.New(len(border) * (k - 1))
		for _, v := range border {
			if !h.NodeEnabled(v) || h.IsFixed(v) {
				continue
			}
			for p := 0; p < k; p++ {
				if p == h.Part(v) {
					continue
				}
				queue.Insert(v, p, gain(h, v, p, buf))
			}
		}

		type moveRec struct {
			v, from, to int
			gain        int64
		}
		var moves []moveRec
		var cumulative, best int64
		bestLen := 0
		sinceImprovement := 0

		for {
			v, p, g, ok := queue.Pop()
			if !ok {
				break
			}
			if locked[v] {
				continue
			}
			from := h.Part(v)
			if from == p {
				continue
			}
			if blockWeight[p]+h.NodeWeight(v) > lmax[p] {
				continue // illegal move: discard, do not requeue
			}

			h.ChangePart(v, from, p)
			blockWeight[from] -= h.NodeWeight(v)
			blockWeight[p] += h.NodeWeight(v)
			moves = append(moves, moveRec{v: v, from: from, to: p, gain: g})
			cumulative += g

			locked[v] = true
			for q := 0; q < k; q++ {
				if q != p && queue.Contains(v, q) {
					queue.Remove(v, q)
				}
			}

			if cumulative > best {
				best = cumulative
				bestLen = len(moves)
				sinceImprovement = 0
			} else {
				sinceImprovement++
			}

			affected := h.IncidentEdges(v, nil)
			seen := make(map[int]bool)
			for _, e := range affected {
				for _, u := range h.Pins(e) {
					if u == v || locked[u] || seen[u] {
						continue
					}
					seen[u] = true
					for q := 0; q < k; q++ {
						if q == h.Part(u) {
							continue
						}
						old, present := queue.Gain(u, q)
						if !present {
							continue
						}
						newGain := gain(h, u, q, buf)
						queue.Update(u, q, newGain-old)
					}
				}
			}

			if sinceImprovement >= stagnationWindow || queue.Empty() {
				break
			}
		}

		// Roll back everything after the best observed prefix.
		for i := len(moves) - 1; i >= bestLen; i-- {
			m := moves[i]
			h.ChangePart(m.v, m.to, m.from)
			blockWeight[m.to] -= h.NodeWeight(m.v)
			blockWeight[m.from] += h.NodeWeight(m.v)
		}

		log.Debug().Int("pass", pass).Int64("pass_gain", best).Int("moves_kept", bestLen).Msg("FM pass")
		totalGain += best
		if best <= 0 {
			break
		}
	}

	return totalGain
}

// RefineTwoWay is RefineKWay specialized to k=2 (spec §4.F "Two-way
// FM ... same algorithm with only two queues and a single gain per
// vertex" — the k=2 case of the gain queue already has exactly one
// alternate block per vertex).
func RefineTwoWay(h *hypergraph.Hypergraph, lmax []int64, border []int, params Params, log zerolog.Logger) int64 {
	return RefineKWay(h, 2, lmax, border, params, log)
}
