// Command hypar is the CLI front-end for the partitioning engine: it
// reads an hMetis hypergraph file (and optional fixed-vertex file),
// runs the engine, prints a summary banner, and writes the partition
// file. Argument handling is manual flag parsing, no CLI framework,
// matching the teacher's own minimal main.go style.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hypar-go/hypar"
	"github.com/hypar-go/hypar/pkg/config"
	"github.com/hypar-go/hypar/pkg/hmetis"
	"github.com/hypar-go/hypar/pkg/hypergraph"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		hgraphPath  = flag.String("hgraph", "", "path to the hMetis hypergraph file (required)")
		fixedPath   = flag.String("fixed", "", "path to a fixed-vertex file (optional)")
		outPath     = flag.String("out", "", "path to write the partition file (required)")
		configPath  = flag.String("config", "", "path to a YAML/JSON/TOML config file (optional)")
		k           = flag.Int("k", 0, "number of blocks (overrides config default)")
		epsilon     = flag.Float64("epsilon", -1, "balance tolerance (overrides config default)")
		seed        = flag.Int64("seed", 0, "RNG seed (0 = use config default)")
		mode        = flag.String("mode", "", "direct_kway or recursive_bisection (overrides config default)")
		objective   = flag.String("objective", "", "cut or connectivity (overrides config default)")
		vCycles     = flag.Int("v_cycles", -1, "number of V-cycles (overrides config default)")
		quiet       = flag.Bool("quiet", false, "suppress the summary banner")
	)
	flag.Parse()

	if *hgraphPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: hypar -hgraph FILE -out FILE [-fixed FILE] [-config FILE] [-k N] [-epsilon E] ...")
		return 2
	}

	cfg := config.NewConfig()
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "hypar: %v\n", err)
			return 2
		}
	}
	if *k > 0 {
		cfg.Set("k", *k)
	}
	if *epsilon >= 0 {
		cfg.Set("epsilon", *epsilon)
	}
	if *seed != 0 {
		cfg.Set("seed", *seed)
	}
	if *mode != "" {
		cfg.Set("mode", *mode)
	}
	if *objective != "" {
		cfg.Set("objective", *objective)
	}
	if *vCycles >= 0 {
		cfg.Set("v_cycles", *vCycles)
	}
	if *quiet {
		cfg.Set("quiet_mode", true)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "hypar: %v\n", err)
		return 2
	}

	source := hmetis.FileSource{Path: *hgraphPath}
	h, err := source.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hypar: %v\n", err)
		return 2
	}

	if *fixedPath != "" {
		fixedSource := hmetis.FixedVertexFileSource{Path: *fixedPath, K: cfg.K()}
		fixed, err := fixedSource.Load(h.NumNodes())
		if err != nil {
			fmt.Fprintf(os.Stderr, "hypar: %v\n", err)
			return 2
		}
		for v, p := range fixed {
			if p != -1 {
				h.SetFixed(v, p)
			}
		}
	}

	result, err := runPartition(h, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hypar: %v\n", err)
		return 1
	}

	if !cfg.QuietMode() {
		fmt.Printf("hypar: run=%s k=%d objective=%d cut=%d connectivity=%d imbalance=%.4f\n",
			result.RunID, result.K, result.Objective, result.Cut, result.Connectivity, result.Imbalance)
	}

	sink := hmetis.FileSink{Path: *outPath}
	var parts []int
	for v := 0; v < h.NumNodes(); v++ {
		parts = append(parts, h.Part(v))
	}
	if err := sink.Write(parts); err != nil {
		fmt.Fprintf(os.Stderr, "hypar: %v\n", err)
		return 1
	}
	return 0
}

// runPartition wraps hypar.Partition, converting a panic from
// assertx (an internal invariant violation — a bug, never expected in
// a correctly implemented engine) into a diagnostic and nonzero exit
// rather than letting it crash the process silently (spec §7).
func runPartition(h *hypergraph.Hypergraph, cfg *config.Config) (result *hypar.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal invariant violation: %v", r)
		}
	}()
	return hypar.Partition(h, cfg)
}
