// Package unc implements uncertain numbers with asymmetric, optionally
// truncated uncertainties, propagated through arithmetic by Monte-Carlo
// sampling.
//
// A Quantity models a value following a two-piece normal distribution with
// standard deviations sigmaLow below and sigmaUp above the mean. Arithmetic
// between Quantities samples both operands, combines the draws elementwise
// and summarizes the result as a new Quantity. Reusing the same Quantity in
// an expression is detected through its seed and handled jointly, so a-a is
// exactly zero and a/a exactly one.
//
// Quantities are immutable. The Set* methods are builders returning new
// values; the originals are never modified.
package unc

import (
	"fmt"
	"slices"

	"github.com/arloliu/uncmc/display"
	"github.com/arloliu/uncmc/dist"
	"github.com/arloliu/uncmc/errs"
	"github.com/arloliu/uncmc/internal/ident"
	"github.com/arloliu/uncmc/internal/options"
)

// DefaultSampleCount is the number of Monte-Carlo draws per operand unless
// overridden with WithSampleCount.
const DefaultSampleCount = 1_000_000

// Quantity is an immutable uncertain number: a mean with asymmetric
// uncertainties sigmaLow and sigmaUp, optional truncation bounds, and an
// optionally retained Monte-Carlo sample of its distribution.
type Quantity struct {
	mean     float64
	sigmaLow float64
	sigmaUp  float64
	bounds   [2]float64

	// seed doubles as the correlation identity: two operands holding the
	// same seed are treated as the same logical quantity.
	seed uint64

	sampleCount int
	retain      bool
	samples     []float64

	warnFn func(Warning)
}

type config struct {
	bounds      [2]float64
	retain      bool
	sampleCount int
	countSet    bool
	samples     []float64
	seed        uint64
	seedSet     bool
	warnFn      func(Warning)
}

// Option configures Quantity construction.
type Option = options.Option[*config]

// WithBounds truncates the support of the distribution to [lower, upper].
// The bounds must be strictly increasing; infinities are allowed.
func WithBounds(lower, upper float64) Option {
	return options.New(func(cfg *config) error {
		if !(lower < upper) {
			return fmt.Errorf("%w: lower %g must be less than upper %g", errs.ErrInvalidBounds, lower, upper)
		}
		cfg.bounds = [2]float64{lower, upper}

		return nil
	})
}

// WithRetainedSamples keeps the materialized sample array on the Quantity,
// so chained operations propagate joint sample paths instead of resampling.
func WithRetainedSamples() Option {
	return options.NoError(func(cfg *config) {
		cfg.retain = true
	})
}

// WithSampleCount sets the number of Monte-Carlo draws. Must be > 1.
func WithSampleCount(n int) Option {
	return options.New(func(cfg *config) error {
		if n <= 1 {
			return fmt.Errorf("%w: got %d", errs.ErrInvalidSampleCount, n)
		}
		cfg.sampleCount = n
		cfg.countSet = true

		return nil
	})
}

// WithSamples constructs the Quantity from an existing sample array instead
// of the given parameters; mean and sigmas are re-derived by evaluating the
// samples. The slice is not retained unless WithRetainedSamples is also set.
func WithSamples(samples []float64) Option {
	return options.New(func(cfg *config) error {
		if len(samples) < 2 {
			return fmt.Errorf("%w: got %d", errs.ErrInsufficientSamples, len(samples))
		}
		cfg.samples = samples

		return nil
	})
}

// WithSeed pins the sampling seed. Quantities sharing a seed are treated as
// the same logical quantity by the operators; by default every Quantity
// receives a fresh seed from a process-wide counter.
func WithSeed(seed uint64) Option {
	return options.NoError(func(cfg *config) {
		cfg.seed = seed
		cfg.seedSet = true
	})
}

// WithWarningHandler registers a sink for non-fatal diagnostics. Results of
// operations inherit the handler of their left operand.
func WithWarningHandler(fn func(Warning)) Option {
	return options.NoError(func(cfg *config) {
		cfg.warnFn = fn
	})
}

// New creates a Quantity with the given mean and asymmetric uncertainties.
//
// Parameters:
//   - mean: Central (most probable) value
//   - sigmaLow: Downward uncertainty, >= 0
//   - sigmaUp: Upward uncertainty, >= 0
//   - opts: Optional bounds, retention, sample count, seed, warning handler
//
// Returns:
//   - *Quantity: The constructed value
//   - error: ErrNegativeSigma, ErrInvalidBounds, ErrInvalidSampleCount, or a
//     sampling error when retention materializes draws eagerly
//
// Example:
//
//	q, err := unc.New(1.0, 0.1, 0.2, unc.WithBounds(0, math.Inf(1)))
func New(mean, sigmaLow, sigmaUp float64, opts ...Option) (*Quantity, error) {
	cfg := config{
		bounds:      dist.Unbounded(),
		sampleCount: DefaultSampleCount,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if sigmaLow < 0 || sigmaUp < 0 {
		return nil, fmt.Errorf("%w: sigmaLow %g, sigmaUp %g", errs.ErrNegativeSigma, sigmaLow, sigmaUp)
	}

	q := &Quantity{
		mean:        mean,
		sigmaLow:    sigmaLow,
		sigmaUp:     sigmaUp,
		bounds:      cfg.bounds,
		sampleCount: cfg.sampleCount,
		retain:      cfg.retain,
		warnFn:      cfg.warnFn,
	}
	if cfg.seedSet {
		q.seed = cfg.seed
	} else {
		q.seed = ident.Next()
	}

	if cfg.samples != nil {
		if cfg.countSet && cfg.sampleCount != len(cfg.samples) {
			q.warn(WarnSampleCountConflict,
				"sample count %d conflicts with %d supplied samples, using the samples",
				cfg.sampleCount, len(cfg.samples))
		}
		q.sampleCount = len(cfg.samples)

		res, err := dist.Evaluate(cfg.samples)
		if err != nil {
			return nil, err
		}
		q.mean = res.MostProbable
		q.sigmaLow = res.SigmaLow
		q.sigmaUp = res.SigmaUp

		if q.retain {
			q.samples = slices.Clone(cfg.samples)
		} else {
			q.warn(WarnUntrackedSamples,
				"%d supplied samples reduced to summary statistics without retention", len(cfg.samples))
		}

		return q, nil
	}

	if err := q.validate(); err != nil {
		return nil, err
	}

	if q.retain && !q.IsExact() {
		samples, err := dist.SampleAsymmetric(q.samplerConfig(), q.sampleCount)
		if err != nil {
			return nil, err
		}
		q.samples = samples
	}

	return q, nil
}

// NewDefault returns the exact quantity 1 with no uncertainty.
func NewDefault() *Quantity {
	q, _ := New(1, 0, 0)

	return q
}

// Exact returns a Quantity with zero uncertainty on both sides.
func Exact(value float64) *Quantity {
	q, _ := New(value, 0, 0)

	return q
}

func (q *Quantity) validate() error {
	cfg := q.samplerConfig()

	return cfg.Validate()
}

func (q *Quantity) samplerConfig() dist.Config {
	return dist.Config{
		Mean:     q.mean,
		SigmaLow: q.sigmaLow,
		SigmaUp:  q.sigmaUp,
		Bounds:   q.bounds,
		Seed:     q.seed,
	}
}

func (q *Quantity) warn(kind WarningKind, format string, args ...any) {
	if q.warnFn == nil {
		return
	}
	q.warnFn(Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Mean returns the most probable value.
func (q *Quantity) Mean() float64 { return q.mean }

// SigmaLow returns the downward uncertainty.
func (q *Quantity) SigmaLow() float64 { return q.sigmaLow }

// SigmaUp returns the upward uncertainty.
func (q *Quantity) SigmaUp() float64 { return q.sigmaUp }

// IsExact reports whether both uncertainties are zero.
func (q *Quantity) IsExact() bool { return q.sigmaLow == 0 && q.sigmaUp == 0 }

// Bounds returns the truncation bounds [lower, upper].
func (q *Quantity) Bounds() [2]float64 { return q.bounds }

// Seed returns the correlation identity of the quantity.
func (q *Quantity) Seed() uint64 { return q.seed }

// SampleCount returns the number of Monte-Carlo draws used in operations.
func (q *Quantity) SampleCount() int { return q.sampleCount }

// Retains reports whether the quantity keeps its sample array.
func (q *Quantity) Retains() bool { return q.retain }

// Samples returns the retained sample array, or nil when the quantity does
// not retain samples. The returned slice is a read-only view; callers must
// not modify it.
func (q *Quantity) Samples() []float64 { return q.samples }

// String renders the quantity as "mean - sigmaLow + sigmaUp" with the
// display rounding applied.
func (q *Quantity) String() string {
	r := display.Round(q.mean, q.sigmaLow, q.sigmaUp)

	return fmt.Sprintf("%g - %g + %g", r[0], r[1], r[2])
}

// GoString renders the full state of the quantity for diagnostics.
func (q *Quantity) GoString() string {
	r := display.Round(q.mean, q.sigmaLow, q.sigmaUp)

	return fmt.Sprintf("unc.Quantity{Mean: %g, SigmaLow: %g, SigmaUp: %g, Bounds: [%g, %g]}",
		r[0], r[1], r[2], q.bounds[0], q.bounds[1])
}

// clone copies the quantity without its sample array.
func (q *Quantity) clone() *Quantity {
	c := *q
	c.samples = nil

	return &c
}

// SetMean returns a copy of the quantity with a new mean. The copy keeps the
// original's seed, so the two remain the same logical quantity to the
// operators; a retaining copy redraws its sample array around the new mean.
func (q *Quantity) SetMean(mean float64) (*Quantity, error) {
	c := q.clone()
	c.mean = mean

	return c.refreshSamples()
}

// SetSigmaLow returns a copy with a new downward uncertainty.
func (q *Quantity) SetSigmaLow(sigmaLow float64) (*Quantity, error) {
	if sigmaLow < 0 {
		return nil, fmt.Errorf("%w: sigmaLow %g", errs.ErrNegativeSigma, sigmaLow)
	}

	c := q.clone()
	c.sigmaLow = sigmaLow

	return c.refreshSamples()
}

// SetSigmaUp returns a copy with a new upward uncertainty.
func (q *Quantity) SetSigmaUp(sigmaUp float64) (*Quantity, error) {
	if sigmaUp < 0 {
		return nil, fmt.Errorf("%w: sigmaUp %g", errs.ErrNegativeSigma, sigmaUp)
	}

	c := q.clone()
	c.sigmaUp = sigmaUp

	return c.refreshSamples()
}

// SetSampleCount returns a copy using n Monte-Carlo draws. A retaining copy
// truncates its sample array when n is smaller; when n is larger it
// resamples, warning because the fresh draws replace the retained set.
func (q *Quantity) SetSampleCount(n int) (*Quantity, error) {
	if n <= 1 {
		return nil, fmt.Errorf("%w: got %d", errs.ErrInvalidSampleCount, n)
	}

	c := q.clone()
	c.sampleCount = n

	if !q.retain || q.IsExact() {
		return c, nil
	}

	if len(q.samples) >= n {
		c.samples = slices.Clone(q.samples[:n])

		return c, nil
	}

	q.warn(WarnResampleQuality,
		"requested sample count %d exceeds %d retained samples, resampling", n, len(q.samples))

	samples, err := dist.SampleAsymmetric(c.samplerConfig(), n)
	if err != nil {
		return nil, err
	}
	c.samples = samples

	return c, nil
}

// SetBounds returns a copy truncated to [lower, upper], with mean and sigmas
// re-derived against the new support.
//
// New bounds disjoint from the old ones are rejected with
// ErrBoundsInstability: the distribution was never populated there, so
// resampling against them is numerically meaningless. Bounds extending
// beyond the old support resample a region the old draws never covered and
// emit WarnBoundsOverlap.
func (q *Quantity) SetBounds(lower, upper float64) (*Quantity, error) {
	if !(lower < upper) {
		return nil, fmt.Errorf("%w: lower %g must be less than upper %g", errs.ErrInvalidBounds, lower, upper)
	}
	if lower >= q.bounds[1] || upper <= q.bounds[0] {
		return nil, fmt.Errorf("%w: new bounds [%g, %g] are disjoint from [%g, %g]",
			errs.ErrBoundsInstability, lower, upper, q.bounds[0], q.bounds[1])
	}
	if lower < q.bounds[0] || upper > q.bounds[1] {
		q.warn(WarnBoundsOverlap,
			"new bounds [%g, %g] extend beyond [%g, %g], resampled tails are unpopulated",
			lower, upper, q.bounds[0], q.bounds[1])
	}

	c := q.clone()
	c.bounds = [2]float64{lower, upper}

	if q.retain && !q.IsExact() {
		if err := q.checkRetainedQuality(lower, upper); err != nil {
			return nil, err
		}
	}

	return c.rematerialize()
}

// SetLowerBound returns a copy with a new lower truncation bound.
func (q *Quantity) SetLowerBound(lower float64) (*Quantity, error) {
	return q.SetBounds(lower, q.bounds[1])
}

// SetUpperBound returns a copy with a new upper truncation bound.
func (q *Quantity) SetUpperBound(upper float64) (*Quantity, error) {
	return q.SetBounds(q.bounds[0], upper)
}

// checkRetainedQuality counts the retained samples surviving inside the new
// bounds. Fewer than 2 cannot describe a distribution at all; fewer than
// 1000 or 1% only unreliably.
func (q *Quantity) checkRetainedQuality(lower, upper float64) error {
	inside := 0
	for _, x := range q.samples {
		if x >= lower && x <= upper {
			inside++
		}
	}

	if inside < 2 {
		return fmt.Errorf("%w: only %d retained samples inside new bounds [%g, %g]",
			errs.ErrInsufficientSamples, inside, lower, upper)
	}
	if inside < 1000 || float64(inside) < 0.01*float64(len(q.samples)) {
		q.warn(WarnResampleQuality,
			"only %d of %d retained samples inside new bounds [%g, %g]",
			inside, len(q.samples), lower, upper)
	}

	return nil
}

// refreshSamples validates the quantity and, when it retains, redraws the
// sample array from its current parameters. Summary statistics are left as
// set by the caller.
func (q *Quantity) refreshSamples() (*Quantity, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if !q.retain || q.IsExact() {
		q.samples = nil

		return q, nil
	}

	samples, err := dist.SampleAsymmetric(q.samplerConfig(), q.sampleCount)
	if err != nil {
		return nil, err
	}
	q.samples = samples

	return q, nil
}

// rematerialize redraws the distribution against the quantity's current
// parameters and re-derives mean and sigmas from the draws. Used by bounds
// changes, where truncation reshapes the distribution itself. A mean
// outside the bounds collapses to the truncated near-side normal.
func (q *Quantity) rematerialize() (*Quantity, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if q.IsExact() {
		q.samples = nil

		return q, nil
	}

	samples, err := dist.SampleAsymmetric(q.samplerConfig(), q.sampleCount)
	if err != nil {
		return nil, err
	}

	res, err := dist.Evaluate(samples, dist.WithWarnHandler(func(msg string) {
		q.warn(WarnOptimizerFailure, "%s", msg)
	}))
	if err != nil {
		return nil, err
	}

	q.mean = res.MostProbable
	q.sigmaLow = res.SigmaLow
	q.sigmaUp = res.SigmaUp
	if q.retain {
		q.samples = samples
	}

	return q, nil
}
