package initialpart

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/metrics"
)

func TestRunTrivialScenario(t *testing.T) {
	// scenario 1: {0,1,2,3}, edges (0,1) (2,3), k=2, epsilon=0.03.
	pins := [][]int{{0, 1}, {2, 3}}
	h, err := hypergraph.New(4, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	params := Params{Runs: 5}
	lmax := metrics.LMaxPerBlock(h.TotalWeight(), 2, 0.03)
	if err := Run(h, 2, lmax, params, rng, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := metrics.Cut(h); got != 0 {
		t.Fatalf("Cut = %d, want 0", got)
	}
	if metrics.Imbalance(h, 2) > 0.03+1e-9 {
		t.Fatalf("Imbalance = %v, exceeds epsilon", metrics.Imbalance(h, 2))
	}
}

func TestRunHonorsFixedVertices(t *testing.T) {
	// scenario 3: star with fixed center.
	pins := [][]int{{0, 1, 2, 3, 4, 5, 6}}
	h, err := hypergraph.New(7, pins, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h.SetFixed(0, 0)
	rng := rand.New(rand.NewSource(7))
	params := Params{Runs: 10}
	lmax := metrics.LMaxPerBlock(h.TotalWeight(), 2, 0.5)
	if err := Run(h, 2, lmax, params, rng, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.Part(0) != 0 {
		t.Fatalf("fixed vertex 0 landed in block %d, want 0", h.Part(0))
	}
}

func TestRunReturnsInfeasibleWhenImpossible(t *testing.T) {
	// scenario 4: two fixed vertices of weight 10 both fixed to block 0,
	// total weight 20, k=2, epsilon=0.
	pins := [][]int{{0, 1}}
	h, err := hypergraph.New(2, pins, nil, []int64{10, 10})
	if err != nil {
		t.Fatal(err)
	}
	h.SetFixed(0, 0)
	h.SetFixed(1, 0)
	rng := rand.New(rand.NewSource(1))
	params := Params{Runs: 3}
	lmax := metrics.LMaxPerBlock(h.TotalWeight(), 2, 0.0)
	err = Run(h, 2, lmax, params, rng, zerolog.Nop())
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}
