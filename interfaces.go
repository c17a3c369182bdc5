// Package hypar implements a k-way hypergraph partitioning engine
// built around a multilevel coarsen / initial-partition /
// uncoarsen-and-refine loop.
package hypar

import "github.com/hypar-go/hypar/pkg/hypergraph"

// HypergraphSource loads the hypergraph to partition. The core engine
// only consumes this interface; concrete implementations (file
// parsers, in-memory builders) are external collaborators (spec §1,
// §6). Package hmetis provides the hMetis text-format implementation.
type HypergraphSource interface {
	Load() (*hypergraph.Hypergraph, error)
}

// FixedVertexSource loads a fixed-vertex assignment: a slice of length
// numVertices where -1 means free and any other value in [0,k) pins
// that vertex to a block before partitioning begins.
type FixedVertexSource interface {
	Load(numVertices int) ([]int, error)
}

// PartitionSink receives the final partition: one block ID per
// vertex, in vertex-ID order.
type PartitionSink interface {
	Write(parts []int) error
}
