package coarsening

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/hypar-go/hypar/pkg/hypergraph"
)

// Params configures the coarsening loop (spec §6 coarsener.* options).
type Params struct {
	ContractionLimitMultiplier int     // t: stop when |enabled V| <= t*k
	MaxAllowedWeightMultiplier float64 // s: c_max = ceil(w(V)/(s*k))
	LargeEdgeThreshold         int
}

// DefaultParams matches the defaults named in spec §4.D/§6.
func DefaultParams() Params {
	return Params{
		ContractionLimitMultiplier: 160,
		MaxAllowedWeightMultiplier: 3.25,
		LargeEdgeThreshold:         1000,
	}
}

// Run coarsens h in place, pushing one Memento per contraction, until
// either |enabled V| <= t*k or a full pass over the enabled vertices
// performs no contraction. It is deterministic given rng's seed (spec
// §4.D "The coarsener is deterministic given a seed").
func Run(h *hypergraph.Hypergraph, k int, p Params, rng *rand.Rand, log zerolog.Logger) *hypergraph.HierarchyStack {
	cMax := int64(math.Ceil(float64(h.TotalWeight()) / (p.MaxAllowedWeightMultiplier * float64(k))))
	if cMax < 1 {
		cMax = 1
	}
	limit := p.ContractionLimitMultiplier * k

	rater := NewRater(h, cMax, p.LargeEdgeThreshold)
	stack := hypergraph.NewHierarchyStack(h.NumNodes())

	order := make([]int, 0, h.NumNodes())
	for h.NumEnabledNodes() > limit {
		order = h.EnabledNodes(order)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		contractions := 0
		for _, u := range order {
			if h.NumEnabledNodes() <= limit {
				break
			}
			if !h.NodeEnabled(u) {
				continue
			}
			v, ok := rater.Best(u)
			if !ok {
				continue
			}
			stack.Push(h.Contract(u, v))
			contractions++
		}
		log.Debug().Int("enabled_nodes", h.NumEnabledNodes()).Int("contractions", contractions).Msg("coarsening pass")
		if contractions == 0 {
			break
		}
	}
	return stack
}
