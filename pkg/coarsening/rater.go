// Package coarsening implements the rating and contraction loop that
// builds the hierarchy of progressively smaller hypergraphs (spec §4.D).
package coarsening

import "github.com/hypar-go/hypar/pkg/hypergraph"

// Rater scores candidate contraction partners for a vertex using the
// heavy-edge heuristic: r(u,v) = Σ_{e∋u,v} w(e)/(|pins(e)|-1) · 1/(w(u)·w(v)).
// It reuses an internal score buffer sized to the hypergraph so repeated
// calls to Best do not allocate.
type Rater struct {
	h                  *hypergraph.Hypergraph
	cMax               int64
	largeEdgeThreshold int

	score       []float64
	touched     []int
	incidentBuf []int
}

// NewRater builds a Rater bound to h. cMax is the weight cap on a
// contracted pair (⌈w(V)/(s·k)⌉ in spec notation); edges with more
// than largeEdgeThreshold pins are ignored by the rater (spec §4.D
// step 3), though they are never removed from the hypergraph.
func NewRater(h *hypergraph.Hypergraph, cMax int64, largeEdgeThreshold int) *Rater {
	return &Rater{
		h:                  h,
		cMax:               cMax,
		largeEdgeThreshold: largeEdgeThreshold,
		score:              make([]float64, h.NumNodes()),
	}
}

// Best returns the highest-scoring legal contraction partner for u, or
// ok=false if none exists (no eligible neighbor, or every candidate
// violates the weight cap or the fixed-vertex same-block rule).
// Ties are broken by preferring the smaller vertex ID (spec §4.D
// supplement, for determinism given a fixed seed).
func (r *Rater) Best(u int) (v int, ok bool) {
	for _, p := range r.touched {
		r.score[p] = 0
	}
	r.touched = r.touched[:0]

	r.incidentBuf = r.h.IncidentEdges(u, r.incidentBuf)
	for _, e := range r.incidentBuf {
		size := r.h.EdgeSize(e)
		if size < 2 || size > r.largeEdgeThreshold {
			continue
		}
		contrib := float64(r.h.EdgeWeight(e)) / float64(size-1)
		for _, p := range r.h.Pins(e) {
			if p == u {
				continue
			}
			if r.score[p] == 0 {
				r.touched = append(r.touched, p)
			}
			r.score[p] += contrib
		}
	}

	best, bestScore := -1, 0.0
	uWeight := r.h.NodeWeight(u)
	uFixed := r.h.IsFixed(u)
	for _, p := range r.touched {
		if uWeight+r.h.NodeWeight(p) > r.cMax {
			continue
		}
		if uFixed != r.h.IsFixed(p) {
			continue
		}
		if uFixed && r.h.FixedPart(u) != r.h.FixedPart(p) {
			continue
		}
		if r.h.K() > 0 && r.h.Part(u) != r.h.Part(p) {
			continue // V-cycle re-coarsening never crosses a block boundary
		}
		s := r.score[p] / (float64(uWeight) * float64(r.h.NodeWeight(p)))
		if best == -1 || s > bestScore || (s == bestScore && p < best) {
			best, bestScore = p, s
		}
	}
	return best, best != -1
}
