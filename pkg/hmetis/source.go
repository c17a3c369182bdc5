package hmetis

import (
	"fmt"
	"os"

	"github.com/hypar-go/hypar/pkg/hypergraph"
)

// FileSource implements hypar.HypergraphSource by reading an hMetis
// hypergraph file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load() (*hypergraph.Hypergraph, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrInput, s.Path, err)
	}
	defer f.Close()
	return ReadHypergraph(f)
}

// FixedVertexFileSource implements hypar.FixedVertexSource by reading
// a fixed-vertex file from disk.
type FixedVertexFileSource struct {
	Path string
	K    int
}

func (s FixedVertexFileSource) Load(numVertices int) ([]int, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrInput, s.Path, err)
	}
	defer f.Close()
	return ReadFixedVertices(f, numVertices, s.K)
}

// FileSink implements hypar.PartitionSink by writing the partition to
// a file on disk.
type FileSink struct {
	Path string
}

func (s FileSink) Write(parts []int) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("hypar: creating %s: %w", s.Path, err)
	}
	defer f.Close()
	return WritePartition(f, parts)
}
