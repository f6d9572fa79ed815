package dist

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aclements/go-moremath/stats"

	"github.com/arloliu/uncmc/errs"
)

// pcgStreamSalt decorrelates the second PCG seed word from the first so a
// seed of zero still produces a well-mixed stream.
const pcgStreamSalt = 0x9e3779b97f4a7c15

// Config describes one two-piece normal distribution to sample from.
//
// Fields:
//   - Mean: Most probable value, the splice point of the two halves
//   - SigmaLow: Standard deviation of the half below Mean (>= 0)
//   - SigmaUp: Standard deviation of the half at or above Mean (>= 0)
//   - Bounds: Truncation interval [lower, upper], lower < upper; use
//     Unbounded() for no truncation
//   - Seed: Deterministic seed; equal configs with equal seeds produce equal
//     draws
//   - ConserveMean: Weight the halves by SigmaUp/(SigmaLow+SigmaUp) so the
//     sample mean converges to Mean; incompatible with finite Bounds
type Config struct {
	Mean         float64
	SigmaLow     float64
	SigmaUp      float64
	Bounds       [2]float64
	Seed         uint64
	ConserveMean bool
}

// NewConfig returns a Config for an untruncated two-piece normal
// distribution with the given parameters.
func NewConfig(mean, sigmaLow, sigmaUp float64) Config {
	return Config{
		Mean:     mean,
		SigmaLow: sigmaLow,
		SigmaUp:  sigmaUp,
		Bounds:   Unbounded(),
	}
}

// Unbounded returns the bounds pair [-Inf, +Inf] representing an
// untruncated support.
func Unbounded() [2]float64 {
	return [2]float64{math.Inf(-1), math.Inf(1)}
}

// Bounded reports whether the config truncates the distribution on at least
// one side.
func (c Config) Bounded() bool {
	return !math.IsInf(c.Bounds[0], -1) || !math.IsInf(c.Bounds[1], 1)
}

// Validate checks the config invariants.
//
// Returns:
//   - error: ErrNegativeSigma, ErrInvalidBounds, or ErrMeanConservingBounds
func (c Config) Validate() error {
	if c.SigmaLow < 0 {
		return fmt.Errorf("%w: sigma_low = %g", errs.ErrNegativeSigma, c.SigmaLow)
	}
	if c.SigmaUp < 0 {
		return fmt.Errorf("%w: sigma_up = %g", errs.ErrNegativeSigma, c.SigmaUp)
	}
	if !(c.Bounds[0] < c.Bounds[1]) {
		return fmt.Errorf("%w: [%g, %g]", errs.ErrInvalidBounds, c.Bounds[0], c.Bounds[1])
	}
	if c.ConserveMean && c.Bounded() {
		return errs.ErrMeanConservingBounds
	}

	return nil
}

// SampleAsymmetric draws n values from the two-piece normal distribution
// described by cfg.
//
// The result is always a slice of length n, including n == 1. Supplying the
// same config twice yields identical slices.
//
// Parameters:
//   - cfg: Distribution parameters, bounds, and seed
//   - n: Number of draws, must be >= 1
//
// Returns:
//   - []float64: n draws from the (truncated) two-piece normal
//   - error: Config validation errors, or ErrBoundsInstability when the
//     distribution has no probability mass inside the bounds
func SampleAsymmetric(cfg Config, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: requested %d draws", errs.ErrInvalidSampleCount, n)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, n)

	// Point mass: nothing to draw.
	if cfg.SigmaLow == 0 && cfg.SigmaUp == 0 {
		if cfg.Bounded() && (cfg.Mean < cfg.Bounds[0] || cfg.Mean > cfg.Bounds[1]) {
			return nil, fmt.Errorf("%w: exact value %g outside [%g, %g]",
				errs.ErrBoundsInstability, cfg.Mean, cfg.Bounds[0], cfg.Bounds[1])
		}
		for i := range out {
			out[i] = cfg.Mean
		}

		return out, nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^pcgStreamSalt))

	if !cfg.Bounded() {
		sampleUnbounded(cfg, rng, out)
		return out, nil
	}

	lo, hi := cfg.Bounds[0], cfg.Bounds[1]

	// Mean outside the bounds on one side: the whole distribution collapses
	// to a singly-truncated normal with the near side's sigma.
	if cfg.Mean <= lo {
		return out, sampleTruncated(cfg.Mean, cfg.SigmaUp, lo, hi, rng, out)
	}
	if cfg.Mean >= hi {
		return out, sampleTruncated(cfg.Mean, cfg.SigmaLow, lo, hi, rng, out)
	}

	return out, sampleTwoPiece(cfg, rng, out)
}

// sampleUnbounded draws from the untruncated two-piece normal: pick a half,
// then add or subtract a half-normal deviate scaled by that half's sigma.
func sampleUnbounded(cfg Config, rng *rand.Rand, out []float64) {
	lim := 0.5
	if cfg.ConserveMean {
		lim = cfg.SigmaUp / (cfg.SigmaLow + cfg.SigmaUp)
	}

	for i := range out {
		u := rng.Float64()
		z := math.Abs(rng.NormFloat64())
		if u < lim {
			out[i] = cfg.Mean - z*cfg.SigmaLow
		} else {
			out[i] = cfg.Mean + z*cfg.SigmaUp
		}
	}
}

// sampleTruncated inverse-CDF samples a single normal N(mean, sigma)
// restricted to [lo, hi].
func sampleTruncated(mean, sigma, lo, hi float64, rng *rand.Rand, out []float64) error {
	if sigma == 0 {
		return fmt.Errorf("%w: exact value %g outside [%g, %g]",
			errs.ErrBoundsInstability, mean, lo, hi)
	}

	d := stats.NormalDist{Mu: mean, Sigma: sigma}
	yMin := d.CDF(lo)
	yMax := d.CDF(hi)
	if !(yMax > yMin) {
		return fmt.Errorf("%w: no probability mass inside [%g, %g]",
			errs.ErrBoundsInstability, lo, hi)
	}

	span := yMax - yMin
	for i := range out {
		out[i] = d.InvCDF(yMin + rng.Float64()*span)
	}

	return nil
}

// sampleTwoPiece handles the bounded case with the mean inside the bounds:
// each half is weighted by the probability mass it contributes inside the
// bounds, then inverse-CDF sampled within its truncated range, splicing at
// the mean.
func sampleTwoPiece(cfg Config, rng *rand.Rand, out []float64) error {
	lo, hi := cfg.Bounds[0], cfg.Bounds[1]

	dLow := stats.NormalDist{Mu: cfg.Mean, Sigma: cfg.SigmaLow}
	dUp := stats.NormalDist{Mu: cfg.Mean, Sigma: cfg.SigmaUp}

	// A zero-sigma half carries its full half mass as a point at the mean,
	// which lies inside the bounds here.
	weightLow := 0.5
	yMinLow := 0.0
	if cfg.SigmaLow > 0 {
		yMinLow = dLow.CDF(lo)
		weightLow = 0.5 - yMinLow
	}

	weightUp := 0.5
	yMaxUp := 1.0
	if cfg.SigmaUp > 0 {
		yMaxUp = dUp.CDF(hi)
		weightUp = yMaxUp - 0.5
	}

	total := weightLow + weightUp
	if !(total > 0) {
		return fmt.Errorf("%w: no probability mass inside [%g, %g]",
			errs.ErrBoundsInstability, lo, hi)
	}
	lim := weightLow / total

	for i := range out {
		if rng.Float64() < lim {
			if cfg.SigmaLow == 0 {
				out[i] = cfg.Mean
			} else {
				out[i] = dLow.InvCDF(yMinLow + rng.Float64()*(0.5-yMinLow))
			}
		} else {
			if cfg.SigmaUp == 0 {
				out[i] = cfg.Mean
			} else {
				out[i] = dUp.InvCDF(0.5 + rng.Float64()*(yMaxUp-0.5))
			}
		}
	}

	return nil
}
