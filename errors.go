package hypar

import "errors"

// ErrInitialPartitioningInfeasible is returned when no initial
// partitioning heuristic run produced a balanced, fixed-vertex-honoring
// k-way partition of the coarsest hypergraph (spec §7 "infeasibility").
var ErrInitialPartitioningInfeasible = errors.New("hypar: initial partitioning infeasible")

// ErrSelfCheckFailed is returned by Partition (and should never occur
// for a correctly implemented engine, spec §6 exit-code contract) when
// the post-run fixed-vertex self-check finds a fixed vertex whose
// final block does not match its assignment.
var ErrSelfCheckFailed = errors.New("hypar: fixed-vertex self-check failed")
