package partitioner

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hypar-go/hypar/pkg/config"
	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/initialpart"
	"github.com/hypar-go/hypar/pkg/metrics"
)

func chainHypergraph(t *testing.T, n int) *hypergraph.Hypergraph {
	t.Helper()
	pins := make([][]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		pins = append(pins, []int{i, i + 1})
	}
	h, err := hypergraph.New(n, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestRunTrivialScenario(t *testing.T) {
	pins := [][]int{{0, 1}, {2, 3}}
	h, err := hypergraph.New(4, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.NewConfig()
	cfg.Set("k", 2)
	cfg.Set("epsilon", 0.03)
	cfg.Set("seed", int64(1))

	rng := rand.New(rand.NewSource(1))
	if err := Run(h, cfg, rng, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := metrics.Cut(h); got != 0 {
		t.Fatalf("Cut = %d, want 0", got)
	}
	if metrics.Imbalance(h, 2) > 0.03+1e-9 {
		t.Fatalf("Imbalance = %v, exceeds epsilon", metrics.Imbalance(h, 2))
	}
}

func TestRunPathGraphDirectMode(t *testing.T) {
	h := chainHypergraph(t, 8)
	cfg := config.NewConfig()
	cfg.Set("k", 2)
	cfg.Set("epsilon", 0.05)
	cfg.Set("mode", "direct_kway")

	rng := rand.New(rand.NewSource(42))
	if err := Run(h, cfg, rng, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if metrics.Imbalance(h, 2) > 0.05+1e-9 {
		t.Fatalf("Imbalance = %v, exceeds epsilon", metrics.Imbalance(h, 2))
	}
	if got := metrics.Cut(h); got > 1 {
		t.Fatalf("Cut = %d, want <= 1 on a chain of 8 split in half", got)
	}
}

func TestRunHonorsFixedVertices(t *testing.T) {
	pins := [][]int{{0, 1, 2, 3, 4, 5, 6}}
	h, err := hypergraph.New(7, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h.SetFixed(0, 0)
	cfg := config.NewConfig()
	cfg.Set("k", 2)
	cfg.Set("epsilon", 0.5)

	rng := rand.New(rand.NewSource(7))
	if err := Run(h, cfg, rng, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.Part(0) != 0 {
		t.Fatalf("fixed vertex 0 landed in block %d, want 0", h.Part(0))
	}
}

func TestRunReturnsInfeasibleWhenImpossible(t *testing.T) {
	pins := [][]int{{0, 1}}
	h, err := hypergraph.New(2, pins, nil, []int64{10, 10})
	if err != nil {
		t.Fatal(err)
	}
	h.SetFixed(0, 0)
	h.SetFixed(1, 0)
	cfg := config.NewConfig()
	cfg.Set("k", 2)
	cfg.Set("epsilon", 0.0)

	rng := rand.New(rand.NewSource(1))
	err = Run(h, cfg, rng, zerolog.Nop())
	if !errors.Is(err, initialpart.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestVCycleDoesNotWorsenObjective(t *testing.T) {
	// scenario 5: v_cycles=2 must not worsen the final objective
	// relative to v_cycles=0 on the same seed.
	build := func() *hypergraph.Hypergraph { return chainHypergraph(t, 16) }

	cfgNoCycle := config.NewConfig()
	cfgNoCycle.Set("k", 4)
	cfgNoCycle.Set("epsilon", 0.1)
	h0 := build()
	if err := Run(h0, cfgNoCycle, rand.New(rand.NewSource(5)), zerolog.Nop()); err != nil {
		t.Fatalf("Run (v_cycles=0): %v", err)
	}
	before := metrics.Connectivity(h0)

	cfgCycle := config.NewConfig()
	cfgCycle.Set("k", 4)
	cfgCycle.Set("epsilon", 0.1)
	cfgCycle.Set("v_cycles", 2)
	h1 := build()
	if err := Run(h1, cfgCycle, rand.New(rand.NewSource(5)), zerolog.Nop()); err != nil {
		t.Fatalf("Run (v_cycles=2): %v", err)
	}
	after := metrics.Connectivity(h1)

	if after > before {
		t.Fatalf("v-cycles worsened connectivity: before=%d after=%d", before, after)
	}
}

func TestRecursiveBisectionProducesFeasiblePartition(t *testing.T) {
	// scenario 6: k=4 on the path-of-16 graph, recursive-bisection mode.
	h := chainHypergraph(t, 16)
	cfg := config.NewConfig()
	cfg.Set("k", 4)
	cfg.Set("epsilon", 0.1)
	cfg.Set("mode", "recursive_bisection")

	rng := rand.New(rand.NewSource(3))
	if err := Run(h, cfg, rng, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if metrics.Imbalance(h, 4) > 0.1+1e-9 {
		t.Fatalf("Imbalance = %v, exceeds epsilon", metrics.Imbalance(h, 4))
	}
	for v := 0; v < h.NumNodes(); v++ {
		if h.Part(v) < 0 || h.Part(v) >= 4 {
			t.Fatalf("vertex %d has out-of-range part %d", v, h.Part(v))
		}
	}
}
