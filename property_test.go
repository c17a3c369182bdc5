package hypar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypar-go/hypar/pkg/config"
	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/metrics"
)

// chainGraph builds an n-vertex path hypergraph: n-1 pair-hyperedges
// (0,1), (1,2), ... each of weight 1, all vertex weights 1.
func chainGraph(t *testing.T, n int) *hypergraph.Hypergraph {
	t.Helper()
	pins := make([][]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		pins = append(pins, []int{i, i + 1})
	}
	h, err := hypergraph.New(n, pins, nil, nil)
	require.NoError(t, err)
	return h
}

// TestPropertyResultIsWithinBalance is invariant 1 of spec §8: every
// enabled vertex lands in [0,k) and the imbalance never exceeds ε
// (within floating tolerance of L_max rounding).
func TestPropertyResultIsWithinBalance(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		seed := seed
		t.Run("", func(t *testing.T) {
			h := chainGraph(t, 24)
			cfg := config.NewConfig()
			cfg.Set("k", 3)
			cfg.Set("epsilon", 0.1)
			cfg.Set("seed", seed)
			cfg.Set("quiet_mode", true)

			_, err := Partition(h, cfg)
			require.NoError(t, err)

			imbalance := metrics.Imbalance(h, cfg.K())
			require.LessOrEqual(t, imbalance, cfg.Epsilon()+1e-9)

			var dst []int
			for _, v := range h.EnabledNodes(dst) {
				require.GreaterOrEqual(t, h.Part(v), 0)
				require.Less(t, h.Part(v), cfg.K())
			}
		})
	}
}

// TestPropertyDeterministicForFixedSeed is invariant 4 of spec §8:
// the same (hypergraph, config, seed) produces a bit-identical
// partition on repeated runs.
func TestPropertyDeterministicForFixedSeed(t *testing.T) {
	build := func() (*hypergraph.Hypergraph, *config.Config) {
		h := chainGraph(t, 16)
		cfg := config.NewConfig()
		cfg.Set("k", 4)
		cfg.Set("epsilon", 0.05)
		cfg.Set("seed", int64(42))
		cfg.Set("quiet_mode", true)
		return h, cfg
	}

	h1, cfg1 := build()
	_, err := Partition(h1, cfg1)
	require.NoError(t, err)

	h2, cfg2 := build()
	_, err = Partition(h2, cfg2)
	require.NoError(t, err)

	var dst []int
	nodes := h1.EnabledNodes(dst)
	for _, v := range nodes {
		require.Equal(t, h1.Part(v), h2.Part(v), "vertex %d diverged between runs with the same seed", v)
	}
}

// TestPropertyFixedVerticesAreHonored is invariant 2 of spec §8.
func TestPropertyFixedVerticesAreHonored(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := chainGraph(t, 20)
	for v := 0; v < 4; v++ {
		h.SetFixed(v, rng.Intn(2))
	}
	cfg := config.NewConfig()
	cfg.Set("k", 2)
	cfg.Set("epsilon", 0.2)
	cfg.Set("seed", int64(7))
	cfg.Set("quiet_mode", true)

	_, err := Partition(h, cfg)
	require.NoError(t, err)

	for v := 0; v < 4; v++ {
		require.Equal(t, h.FixedPart(v), h.Part(v), "fixed vertex %d not honored", v)
	}
}
