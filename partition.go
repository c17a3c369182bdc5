package hypar

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/hypar-go/hypar/pkg/config"
	"github.com/hypar-go/hypar/pkg/hypergraph"
	"github.com/hypar-go/hypar/pkg/initialpart"
	"github.com/hypar-go/hypar/pkg/metrics"
	"github.com/hypar-go/hypar/pkg/partitioner"
)

// Partition runs the full multilevel engine against h, which must
// already carry any fixed-vertex assignments the caller wants honored
// (cmd/hypar applies these via hypergraph.SetFixed before calling in,
// keeping this package free of any hmetis import per spec §4.L). Each
// call is tagged with a fresh run ID for log correlation (spec §4.O).
func Partition(h *hypergraph.Hypergraph, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := cfg.Logger().With().Str("run_id", runID).Logger()
	rng := rand.New(rand.NewSource(cfg.Seed()))

	log.Info().Int("k", cfg.K()).Str("mode", cfg.Mode()).Msg("partition run starting")

	if err := partitioner.Run(h, cfg, rng, log); err != nil {
		if errors.Is(err, initialpart.ErrInfeasible) {
			return nil, fmt.Errorf("%w: %w", ErrInitialPartitioningInfeasible, err)
		}
		return nil, err
	}

	if err := selfCheckFixedVertices(h); err != nil {
		return nil, err
	}

	objective, ok := metrics.ByName(cfg.Objective())
	if !ok {
		objective = metrics.Connectivity
	}

	result := &Result{
		RunID:        runID,
		K:            cfg.K(),
		Objective:    objective(h),
		Cut:          metrics.Cut(h),
		Connectivity: metrics.Connectivity(h),
		Imbalance:    metrics.Imbalance(h, cfg.K()),
	}
	log.Info().Int64("objective", result.Objective).Float64("imbalance", result.Imbalance).Msg("partition run complete")
	return result, nil
}

// selfCheckFixedVertices verifies every fixed vertex landed in its
// assigned block. Per spec §6's exit-code contract this is a
// self-check that must never fail for a correctly implemented engine.
func selfCheckFixedVertices(h *hypergraph.Hypergraph) error {
	var nodes []int
	for _, v := range h.EnabledNodes(nodes) {
		if h.IsFixed(v) && h.Part(v) != h.FixedPart(v) {
			return fmt.Errorf("%w: vertex %d fixed to block %d but landed in %d", ErrSelfCheckFailed, v, h.FixedPart(v), h.Part(v))
		}
	}
	return nil
}
