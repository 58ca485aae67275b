// Package solver wires Dataset, NeighborBuilder, and ClusterEngine into the
// end-to-end pipeline: load, build, finalize, classify, identify.
package solver

import (
	"runtime"

	gdbscan "github.com/hupe1980/gdbscan"
	"github.com/hupe1980/gdbscan/graph"
)

// Config holds every tunable of a single run. Build one with NewConfig and
// the With* functional options rather than constructing it directly, so
// future fields get sensible zero-value-free defaults.
type Config struct {
	// Epsilon is the neighborhood radius; must be > 0.
	Epsilon float64
	// MinPts is the minimum degree for Core classification; must be >= 1.
	MinPts int
	// NumWorkers is the goroutine pool size for both graph construction
	// and cluster BFS; must be >= 1.
	NumWorkers int
	// Encoding selects the staging adjacency representation.
	Encoding graph.Encoding
	// SIMD enables the 8-lane batch distance kernel.
	SIMD bool

	Logger  *gdbscan.Logger
	Metrics gdbscan.MetricsCollector
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithEpsilon sets the neighborhood radius.
func WithEpsilon(eps float64) Option {
	return func(c *Config) { c.Epsilon = eps }
}

// WithMinPts sets the Core-classification degree threshold.
func WithMinPts(minPts int) Option {
	return func(c *Config) { c.MinPts = minPts }
}

// WithWorkers sets the goroutine pool size.
func WithWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithEncoding selects the staging adjacency representation.
func WithEncoding(enc graph.Encoding) Option {
	return func(c *Config) { c.Encoding = enc }
}

// WithSIMD toggles the batch distance kernel.
func WithSIMD(enabled bool) Option {
	return func(c *Config) { c.SIMD = enabled }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *gdbscan.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics overrides the default no-op metrics collector.
func WithMetrics(m gdbscan.MetricsCollector) Option {
	return func(c *Config) { c.Metrics = m }
}

// NewConfig builds a Config with defaults (NumWorkers = GOMAXPROCS, Dense
// encoding, SIMD enabled, no-op logger and metrics) and applies opts over
// them.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		MinPts:     1,
		NumWorkers: runtime.GOMAXPROCS(0),
		Encoding:   graph.Dense,
		SIMD:       true,
		Logger:     gdbscan.NoopLogger(),
		Metrics:    gdbscan.NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks every field that the pipeline cannot safely run without,
// fatal on the first violation found. ConfigError carries the offending
// field and value for diagnosis.
func (c *Config) Validate() error {
	if c.Epsilon <= 0 {
		return gdbscan.NewConfigError("epsilon", c.Epsilon)
	}
	if c.MinPts < 1 {
		return gdbscan.NewConfigError("min_pts", c.MinPts)
	}
	if c.NumWorkers < 1 {
		return gdbscan.NewConfigError("num_workers", c.NumWorkers)
	}
	return nil
}
