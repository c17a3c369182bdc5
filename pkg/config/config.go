// Package config manages engine configuration using Viper, mirroring
// the teacher's louvain/scar config packages: a thin typed wrapper
// with defaults, file overrides, and a logger builder.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages engine configuration using Viper.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration populated with the defaults
// from spec §6.
func NewConfig() *Config {
	v := viper.New()

	v.SetDefault("k", 2)
	v.SetDefault("epsilon", 0.03)
	v.SetDefault("seed", time.Now().UnixNano())
	v.SetDefault("objective", "connectivity")
	v.SetDefault("mode", "direct_kway")
	v.SetDefault("v_cycles", 0)

	v.SetDefault("coarsener.contraction_limit_multiplier", 160)
	v.SetDefault("coarsener.max_allowed_weight_multiplier", 3.25)
	v.SetDefault("coarsener.rating", "heavy_edge")
	v.SetDefault("coarsener.large_edge_threshold", 1000)

	v.SetDefault("initial_partitioner.runs", 20)
	v.SetDefault("initial_partitioner.algorithm", "greedy_hyperedge")

	v.SetDefault("refiner.algorithm", "kway_fm")
	v.SetDefault("refiner.max_passes", 3)
	v.SetDefault("refiner.stagnation_fraction", 1.0)

	v.SetDefault("quiet_mode", false)
	v.SetDefault("enable_min_hash_sparsifier", false)
	v.SetDefault("collect_stats", false)

	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile overrides defaults from a config file (any format
// Viper supports by extension: yaml, json, toml, ...).
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("hypar: reading config file %q: %w", path, err)
	}
	return nil
}

// Set allows dynamic configuration changes, e.g. from CLI flags.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

func (c *Config) K() int             { return c.v.GetInt("k") }
func (c *Config) Epsilon() float64   { return c.v.GetFloat64("epsilon") }
func (c *Config) Seed() int64        { return c.v.GetInt64("seed") }
func (c *Config) Objective() string  { return c.v.GetString("objective") }
func (c *Config) Mode() string       { return c.v.GetString("mode") }
func (c *Config) VCycles() int       { return c.v.GetInt("v_cycles") }
func (c *Config) QuietMode() bool    { return c.v.GetBool("quiet_mode") }
func (c *Config) CollectStats() bool { return c.v.GetBool("collect_stats") }

func (c *Config) ContractionLimitMultiplier() int      { return c.v.GetInt("coarsener.contraction_limit_multiplier") }
func (c *Config) MaxAllowedWeightMultiplier() float64  { return c.v.GetFloat64("coarsener.max_allowed_weight_multiplier") }
func (c *Config) Rating() string                       { return c.v.GetString("coarsener.rating") }
func (c *Config) LargeEdgeThreshold() int              { return c.v.GetInt("coarsener.large_edge_threshold") }

func (c *Config) InitialPartitionerRuns() int      { return c.v.GetInt("initial_partitioner.runs") }
func (c *Config) InitialPartitionerAlgorithm() string { return c.v.GetString("initial_partitioner.algorithm") }

func (c *Config) RefinerAlgorithm() string       { return c.v.GetString("refiner.algorithm") }
func (c *Config) RefinerMaxPasses() int          { return c.v.GetInt("refiner.max_passes") }
func (c *Config) StagnationFraction() float64    { return c.v.GetFloat64("refiner.stagnation_fraction") }

func (c *Config) EnableMinHashSparsifier() bool { return c.v.GetBool("enable_min_hash_sparsifier") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Validate performs the "configuration error" checks named in spec
// §7: k, epsilon, mode/v_cycles legality, and recognized enums. Every
// failure is wrapped in ErrConfig.
func (c *Config) Validate() error {
	if c.K() < 2 {
		return fmt.Errorf("%w: k must be >= 2, got %d", ErrConfig, c.K())
	}
	if c.Epsilon() <= 0 {
		return fmt.Errorf("%w: epsilon must be > 0, got %v", ErrConfig, c.Epsilon())
	}
	switch c.Mode() {
	case "direct_kway", "recursive_bisection":
	default:
		return fmt.Errorf("%w: unrecognized mode %q", ErrConfig, c.Mode())
	}
	if c.Mode() == "recursive_bisection" && c.VCycles() > 0 {
		return fmt.Errorf("%w: v_cycles>0 is incompatible with recursive_bisection mode", ErrConfig)
	}
	if c.VCycles() < 0 {
		return fmt.Errorf("%w: v_cycles must be >= 0, got %d", ErrConfig, c.VCycles())
	}
	switch c.Objective() {
	case "cut", "connectivity":
	default:
		return fmt.Errorf("%w: unrecognized objective %q", ErrConfig, c.Objective())
	}
	switch c.RefinerAlgorithm() {
	case "kway_fm", "twoway_fm":
	default:
		return fmt.Errorf("%w: unrecognized refiner.algorithm %q", ErrConfig, c.RefinerAlgorithm())
	}
	switch c.InitialPartitionerAlgorithm() {
	case "random", "bfs", "greedy_hyperedge", "label_propagation":
	default:
		return fmt.Errorf("%w: unrecognized initial_partitioner.algorithm %q", ErrConfig, c.InitialPartitionerAlgorithm())
	}
	if c.ContractionLimitMultiplier() <= 0 {
		return fmt.Errorf("%w: coarsener.contraction_limit_multiplier must be > 0", ErrConfig)
	}
	if c.MaxAllowedWeightMultiplier() <= 0 {
		return fmt.Errorf("%w: coarsener.max_allowed_weight_multiplier must be > 0", ErrConfig)
	}
	if c.InitialPartitionerRuns() < 1 {
		return fmt.Errorf("%w: initial_partitioner.runs must be >= 1", ErrConfig)
	}
	if c.RefinerMaxPasses() < 1 {
		return fmt.Errorf("%w: refiner.max_passes must be >= 1", ErrConfig)
	}
	return nil
}

// Logger builds the zerolog.Logger a run threads through every phase.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "hypar").Logger()
}
