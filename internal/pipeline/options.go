// Package pipeline holds the functional-option configuration shared by
// gocoro.Rewrite and cmd/gocoro: where the attribute defaults live, and
// which optional observability/cache/advisor backends a rewrite wires in.
//
// Adapted from the teacher's graph/options.go (Option func(*engineConfig)
// error, WithX constructors): the same shape, narrowed to a compile-time
// rewrite's actual knobs instead of a running engine's concurrency/timeout
// controls.
package pipeline

import (
	"fmt"

	"github.com/aalbacetef/gocoro/internal/advisor"
	"github.com/aalbacetef/gocoro/internal/cache"
	"github.com/aalbacetef/gocoro/internal/pipeline/emit"
	"github.com/aalbacetef/gocoro/internal/pipeline/metrics"
)

// Config collects every rewrite-time setting. Build one via NewConfig with
// Option values; the zero Config is never used directly because Emitter
// would be nil (NewConfig fills it with emit.NullEmitter).
type Config struct {
	// StatePath and RetVal, when non-empty, override whatever a
	// `//gocoro:generate` directive comment specifies (or supply both
	// when there is no directive comment at all — e.g. a programmatic
	// caller driving gocoro.Rewrite directly rather than through
	// cmd/gocoro). Raw Go expression text, parsed the same way attrparse
	// parses a directive's option values.
	StatePath string
	RetVal    string

	// Emitter receives one Event per pipeline stage per rewrite. Defaults
	// to emit.NullEmitter (zero overhead, no-op).
	Emitter emit.Emitter

	// Metrics, if set, records per-rewrite counters/histograms.
	Metrics *metrics.Metrics

	// Cache, if set, memoizes a rewrite keyed by source hash so unchanged
	// functions in a large go:generate sweep skip the full pipeline.
	Cache cache.Store

	// Advisor, if set, backs cmd/gocoro's -explain flag.
	Advisor advisor.Advisor

	// MaxBodyDepth bounds how deeply nested if/loop bodies cflow.BuildWithLimit
	// will recurse into before failing with UnsupportedConstruct, guarding
	// against pathologically nested generator bodies. Zero means
	// unbounded.
	MaxBodyDepth int
}

// Option configures a Config. Options are applied in order, so a later
// option overrides an earlier one that touches the same field.
type Option func(*Config) error

// NewConfig builds a Config with every default filled in, then applies
// opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{Emitter: emit.NewNullEmitter()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	return cfg, nil
}

// WithStatePath overrides the persisted-state expression, taking priority
// over any `state=` option in a directive comment.
func WithStatePath(expr string) Option {
	return func(c *Config) error {
		c.StatePath = expr
		return nil
	}
}

// WithRetVal overrides the default-return expression, taking priority over
// any `ret_val=` option in a directive comment.
func WithRetVal(expr string) Option {
	return func(c *Config) error {
		c.RetVal = expr
		return nil
	}
}

// WithEmitter plugs in an observability backend for pipeline events.
func WithEmitter(e emit.Emitter) Option {
	return func(c *Config) error {
		if e == nil {
			return fmt.Errorf("WithEmitter: nil emitter")
		}
		c.Emitter = e
		return nil
	}
}

// WithMetrics wires a metrics sink for batch codegen runs.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) error {
		c.Metrics = m
		return nil
	}
}

// WithCache wires a build cache keyed by source hash.
func WithCache(store cache.Store) Option {
	return func(c *Config) error {
		c.Cache = store
		return nil
	}
}

// WithAdvisor wires a diagnostics backend for -explain.
func WithAdvisor(a advisor.Advisor) Option {
	return func(c *Config) error {
		c.Advisor = a
		return nil
	}
}

// WithMaxBodyDepth bounds recursive lowering depth. n must be positive.
func WithMaxBodyDepth(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("WithMaxBodyDepth: n must be positive, got %d", n)
		}
		c.MaxBodyDepth = n
		return nil
	}
}
