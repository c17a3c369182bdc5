package coarsening

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hypar-go/hypar/pkg/hypergraph"
)

func TestRunStopsAtContractionLimit(t *testing.T) {
	// Chain of 16 vertices via 15 pair-hyperedges.
	pins := make([][]int, 0, 15)
	for i := 0; i < 15; i++ {
		pins = append(pins, []int{i, i + 1})
	}
	h, err := hypergraph.New(16, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	k := 2
	params := Params{ContractionLimitMultiplier: 4, MaxAllowedWeightMultiplier: 3.25, LargeEdgeThreshold: 1000}
	rng := rand.New(rand.NewSource(1))
	stack := Run(h, k, params, rng, zerolog.Nop())

	limit := params.ContractionLimitMultiplier * k
	if h.NumEnabledNodes() > limit {
		t.Fatalf("NumEnabledNodes() = %d, want <= %d", h.NumEnabledNodes(), limit)
	}
	if stack.Len() == 0 {
		t.Fatal("expected at least one contraction")
	}
	if h.TotalWeight() != 16 {
		t.Fatalf("TotalWeight() = %d, want 16 (invariant 1)", h.TotalWeight())
	}
}

func TestRunIsDeterministicGivenSeed(t *testing.T) {
	build := func() *hypergraph.Hypergraph {
		pins := make([][]int, 0, 15)
		for i := 0; i < 15; i++ {
			pins = append(pins, []int{i, i + 1})
		}
		h, err := hypergraph.New(16, pins, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		return h
	}
	params := Params{ContractionLimitMultiplier: 2, MaxAllowedWeightMultiplier: 3.25, LargeEdgeThreshold: 1000}

	h1 := build()
	Run(h1, 2, params, rand.New(rand.NewSource(42)), zerolog.Nop())
	h2 := build()
	Run(h2, 2, params, rand.New(rand.NewSource(42)), zerolog.Nop())

	for v := 0; v < h1.NumNodes(); v++ {
		if h1.NodeEnabled(v) != h2.NodeEnabled(v) {
			t.Fatalf("node %d enabled mismatch across identically-seeded runs", v)
		}
		if h1.NodeWeight(v) != h2.NodeWeight(v) {
			t.Fatalf("node %d weight mismatch across identically-seeded runs", v)
		}
	}
}

// TestUncontractAfterTrackingEnabledMidStack exercises the real
// driver's ordering (spec §4.G): coarsen with h.k==0, only then call
// EnablePartitionTracking and SetPart on the coarsest hypergraph, then
// pop the hierarchy stack. It checks invariant 3 (Σ_p pinCountInPart[e,p]
// == EdgeSize(e)) after every single Uncontract, not just at the end.
func TestUncontractAfterTrackingEnabledMidStack(t *testing.T) {
	pins := make([][]int, 0, 15)
	for i := 0; i < 15; i++ {
		pins = append(pins, []int{i, i + 1})
	}
	h, err := hypergraph.New(16, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	k := 2
	params := Params{ContractionLimitMultiplier: 2, MaxAllowedWeightMultiplier: 3.25, LargeEdgeThreshold: 1000}
	rng := rand.New(rand.NewSource(3))
	stack := Run(h, k, params, rng, zerolog.Nop())
	if stack.Len() == 0 {
		t.Fatal("expected at least one contraction")
	}

	h.EnablePartitionTracking(k)
	var nodes []int
	nodes = h.EnabledNodes(nodes)
	for i, v := range nodes {
		h.SetPart(v, i%k)
	}

	checkInvariant3 := func(step string) {
		t.Helper()
		var edges []int
		for _, e := range h.EnabledEdges(edges) {
			sum := 0
			for p := 0; p < k; p++ {
				sum += h.PinCountInPart(e, p)
			}
			if sum != h.EdgeSize(e) {
				t.Fatalf("%s: edge %d has Σ pinCountInPart = %d, want EdgeSize = %d", step, e, sum, h.EdgeSize(e))
			}
		}
	}

	checkInvariant3("before any Uncontract")
	for !stack.Empty() {
		m := stack.Pop()
		h.Uncontract(m)
		checkInvariant3("after Uncontract")
	}
}

func TestRespectsFixedVertexSameBlockRule(t *testing.T) {
	pins := [][]int{{0, 1}, {1, 2}}
	h, err := hypergraph.New(3, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h.SetFixed(0, 0)
	h.SetFixed(2, 1) // different fixed block than 0

	rater := NewRater(h, 100, 1000)
	if v, ok := rater.Best(1); ok {
		t.Fatalf("vertex 1 (free) should not match a fixed neighbor via the free/fixed split rule, got %d", v)
	}
}
