// Package hmetis implements the external hMetis text-format
// collaborator named only via interfaces in spec §6: reading a
// hypergraph and an optional fixed-vertex file, and writing a
// partition. It never runs inside the core engine's hot path — only
// cmd/hypar wires it in, preserving the "external collaborator"
// boundary from spec §1.
package hmetis

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hypar-go/hypar/pkg/hypergraph"
)

// ErrInput is the sentinel wrapped by every malformed-file error
// (spec §7 "input errors").
var ErrInput = fmt.Errorf("hypar: malformed input")

const (
	fmtHasEdgeWeights   = 1
	fmtHasVertexWeights = 10
)

// ReadHypergraph parses the hMetis hypergraph format (spec §6): a
// header line `|E| |V| [fmt]`, |E| hyperedge lines, and, if fmt
// requests vertex weights, |V| trailing weight lines. Pin IDs are
// 1-based in the file and remapped to 0-based internally.
func ReadHypergraph(r io.Reader) (*hypergraph.Hypergraph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	header, err := nextNonBlankLine(scanner)
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInput, err)
	}
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: header must have at least 2 fields, got %q", ErrInput, header)
	}
	numEdges, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header |E| not an integer: %v", ErrInput, err)
	}
	numNodes, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: header |V| not an integer: %v", ErrInput, err)
	}
	fmtCode := 0
	if len(fields) >= 3 {
		fmtCode, err = strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: header fmt not an integer: %v", ErrInput, err)
		}
	}
	hasEdgeWeights := fmtCode == fmtHasEdgeWeights || fmtCode == 11
	hasVertexWeights := fmtCode == fmtHasVertexWeights || fmtCode == 11

	pins := make([][]int, 0, numEdges)
	edgeWeights := make([]int64, 0, numEdges)
	for i := 0; i < numEdges; i++ {
		line, err := nextNonBlankLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("%w: reading hyperedge %d: %v", ErrInput, i, err)
		}
		parts := strings.Fields(line)
		start := 0
		weight := int64(1)
		if hasEdgeWeights {
			if len(parts) == 0 {
				return nil, fmt.Errorf("%w: hyperedge %d missing weight field", ErrInput, i)
			}
			weight, err = strconv.ParseInt(parts[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: hyperedge %d weight not an integer: %v", ErrInput, i, err)
			}
			start = 1
		}
		if len(parts)-start == 0 {
			return nil, fmt.Errorf("%w: hyperedge %d has no pins", ErrInput, i)
		}
		edgePins := make([]int, 0, len(parts)-start)
		for _, p := range parts[start:] {
			id, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("%w: hyperedge %d has non-integer pin %q: %v", ErrInput, i, p, err)
			}
			if id < 1 || id > numNodes {
				return nil, fmt.Errorf("%w: hyperedge %d references out-of-range 1-based pin %d", ErrInput, i, id)
			}
			edgePins = append(edgePins, id-1)
		}
		pins = append(pins, edgePins)
		edgeWeights = append(edgeWeights, weight)
	}

	var nodeWeights []int64
	if hasVertexWeights {
		nodeWeights = make([]int64, numNodes)
		for i := 0; i < numNodes; i++ {
			line, err := nextNonBlankLine(scanner)
			if err != nil {
				return nil, fmt.Errorf("%w: reading vertex weight %d: %v", ErrInput, i, err)
			}
			w, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: vertex weight %d not an integer: %v", ErrInput, i, err)
			}
			nodeWeights[i] = w
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	h, err := hypergraph.New(numNodes, pins, edgeWeights, nodeWeights)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	return h, nil
}

// ReadFixedVertices parses the fixed-vertex file (spec §6): one line
// per vertex, either a block ID in [0,k) or -1 for free.
func ReadFixedVertices(r io.Reader, numVertices, k int) ([]int, error) {
	scanner := bufio.NewScanner(r)
	fixed := make([]int, numVertices)
	for i := 0; i < numVertices; i++ {
		line, err := nextNonBlankLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("%w: reading fixed-vertex line %d: %v", ErrInput, i, err)
		}
		p, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("%w: fixed-vertex line %d not an integer: %v", ErrInput, i, err)
		}
		if p != -1 && (p < 0 || p >= k) {
			return nil, fmt.Errorf("%w: fixed-vertex line %d has out-of-range block %d", ErrInput, i, p)
		}
		fixed[i] = p
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	return fixed, nil
}

// WritePartition writes the partition output file (spec §6): one
// 0-based block ID per line, one line per vertex.
func WritePartition(w io.Writer, parts []int) error {
	bw := bufio.NewWriter(w)
	for _, p := range parts {
		if _, err := fmt.Fprintln(bw, p); err != nil {
			return fmt.Errorf("hypar: writing partition: %w", err)
		}
	}
	return bw.Flush()
}

func nextNonBlankLine(scanner *bufio.Scanner) (string, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
