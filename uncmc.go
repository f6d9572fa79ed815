// Package uncmc propagates asymmetric statistical uncertainties through
// arithmetic by Monte-Carlo sampling.
//
// A quantity is modeled as a two-piece normal distribution: a mean with a
// possibly different standard deviation below (sigmaLow) and above
// (sigmaUp) it, optionally truncated to bounds. Instead of analytic error
// propagation formulas, every operation samples its operands, combines the
// draws elementwise, and summarizes the combined sample into a new
// quantity via the shortest interval covering 68.27% of the draws.
//
// # Core Features
//
//   - Two-piece normal sampler with optional truncation bounds
//   - Shortest-coverage-interval evaluation with histogram or KDE mode
//   - Closed-form shortcuts for exact operands and self-correlated
//     expressions (a-a is exactly zero, a/a exactly one)
//   - Retained sample arrays propagating joint draws through expression
//     trees
//   - Binary snapshots of retaining quantities with checksummed,
//     compressed payloads (None, Zstd, S2, LZ4)
//   - Display rounding following the Particle Data Group recommendation
//
// # Basic Usage
//
//	import "github.com/arloliu/uncmc"
//
//	a, _ := uncmc.New(1.0, 0.1, 0.1)
//	b, _ := uncmc.New(2.0, 0.3, 0.5)
//
//	sum, _ := a.Add(b)
//	fmt.Println(sum) // e.g. 3 - 0.32 + 0.52
//
//	ratio, _ := a.Div(a) // same quantity: exactly 1
//
// Persisting a quantity together with its sample array:
//
//	q, _ := uncmc.New(1.0, 0.1, 0.1, uncmc.WithRetainedSamples())
//	data, _ := uncmc.EncodeSnapshot(q)
//	q2, _ := uncmc.DecodeSnapshot(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the unc,
// dist, display and snapshot packages, simplifying the most common use
// cases. For fine-grained control, use those packages directly.
package uncmc

import (
	"github.com/arloliu/uncmc/dist"
	"github.com/arloliu/uncmc/snapshot"
	"github.com/arloliu/uncmc/unc"
)

// Quantity is an immutable uncertain number with asymmetric uncertainties.
type Quantity = unc.Quantity

// Option configures Quantity construction.
type Option = unc.Option

// Warning is a non-fatal diagnostic emitted by quantity operations.
type Warning = unc.Warning

// New creates a Quantity with the given mean and asymmetric uncertainties.
// See unc.New for the available options.
func New(mean, sigmaLow, sigmaUp float64, opts ...Option) (*Quantity, error) {
	return unc.New(mean, sigmaLow, sigmaUp, opts...)
}

// Exact returns a Quantity with zero uncertainty on both sides.
func Exact(value float64) *Quantity {
	return unc.Exact(value)
}

// WithBounds truncates the support of the distribution to [lower, upper].
func WithBounds(lower, upper float64) Option {
	return unc.WithBounds(lower, upper)
}

// WithRetainedSamples keeps the materialized sample array on the Quantity.
func WithRetainedSamples() Option {
	return unc.WithRetainedSamples()
}

// WithSampleCount sets the number of Monte-Carlo draws. Must be > 1.
func WithSampleCount(n int) Option {
	return unc.WithSampleCount(n)
}

// WithSeed pins the sampling seed, making the Quantity deterministic and
// correlated with any other Quantity sharing the seed.
func WithSeed(seed uint64) Option {
	return unc.WithSeed(seed)
}

// WithWarningHandler registers a sink for non-fatal diagnostics.
func WithWarningHandler(fn func(Warning)) Option {
	return unc.WithWarningHandler(fn)
}

// Exp returns e raised to the power q.
func Exp(q *Quantity) (*Quantity, error) {
	return unc.Exp(q)
}

// Log returns the natural logarithm of q.
func Log(q *Quantity) (*Quantity, error) {
	return unc.Log(q)
}

// Sqrt returns the square root of q.
func Sqrt(q *Quantity) (*Quantity, error) {
	return unc.Sqrt(q)
}

// Apply propagates q through an arbitrary elementwise function.
func Apply(q *Quantity, f func(float64) float64) (*Quantity, error) {
	return unc.Apply(q, f)
}

// Sample draws n values from a two-piece normal distribution with the given
// mean and asymmetric standard deviations. See dist.SampleAsymmetric for
// bounded and mean-conserving variants.
func Sample(mean, sigmaLow, sigmaUp float64, seed uint64, n int) ([]float64, error) {
	cfg := dist.NewConfig(mean, sigmaLow, sigmaUp)
	cfg.Seed = seed

	return dist.SampleAsymmetric(cfg, n)
}

// Evaluate reduces a sample array to its most probable value and shortest
// coverage interval.
func Evaluate(samples []float64, opts ...dist.EvalOption) (dist.Result, error) {
	return dist.Evaluate(samples, opts...)
}

// EncodeSnapshot serializes a quantity, including any retained samples,
// into its binary snapshot form.
func EncodeSnapshot(q *Quantity, opts ...snapshot.EncodeOption) ([]byte, error) {
	return snapshot.Encode(q, opts...)
}

// DecodeSnapshot restores a quantity from its binary snapshot form.
func DecodeSnapshot(data []byte, opts ...Option) (*Quantity, error) {
	return snapshot.Decode(data, opts...)
}
