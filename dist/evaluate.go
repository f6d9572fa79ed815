package dist

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/uncmc/errs"
	"github.com/arloliu/uncmc/internal/options"
	"github.com/arloliu/uncmc/internal/pool"
)

// DefaultCoverage is the probability mass of the one-sigma-equivalent
// interval, in percent.
const DefaultCoverage = 68.27

// Result is the summary of an empirical sample as produced by Evaluate.
type Result struct {
	// MostProbable is the mode estimate of the sampled distribution.
	MostProbable float64
	// SigmaLow is the distance from MostProbable down to the lower edge of
	// the shortest coverage interval. Always >= 0.
	SigmaLow float64
	// SigmaUp is the distance from MostProbable up to the upper edge of the
	// shortest coverage interval. Always >= 0.
	SigmaUp float64
	// Interval is the shortest coverage interval [lower, upper].
	Interval [2]float64
}

// EvalConfig holds evaluation parameters; construct it through EvalOption
// values passed to Evaluate.
type EvalConfig struct {
	coverage    float64
	useKDE      bool
	forceInside bool
	warnFn      func(string)
}

// EvalOption is a functional option for Evaluate.
type EvalOption = options.Option[*EvalConfig]

// WithCoverage overrides the coverage fraction, in percent, of the shortest
// coverage interval. The value must lie strictly between 0 and 100.
func WithCoverage(percent float64) EvalOption {
	return options.New(func(cfg *EvalConfig) error {
		if !(percent > 0 && percent < 100) {
			return fmt.Errorf("coverage must be in (0, 100), got %g", percent)
		}
		cfg.coverage = percent

		return nil
	})
}

// WithKDEMode selects kernel-density mode estimation instead of the default
// histogram. If the density maximization fails, Evaluate falls back to the
// histogram estimate and reports a warning through the warn handler.
func WithKDEMode() EvalOption {
	return options.NoError(func(cfg *EvalConfig) {
		cfg.useKDE = true
	})
}

// WithoutForceInside disables clamping of the mode estimate into the
// shortest coverage interval. A mode outside the interval then surfaces as
// ErrModeOutsideInterval instead of being clamped.
func WithoutForceInside() EvalOption {
	return options.NoError(func(cfg *EvalConfig) {
		cfg.forceInside = false
	})
}

// WithWarnHandler registers a sink for non-fatal evaluation warnings.
func WithWarnHandler(fn func(string)) EvalOption {
	return options.NoError(func(cfg *EvalConfig) {
		cfg.warnFn = fn
	})
}

// CDF sorts a sample into its empirical cumulative distribution function.
//
// Parameters:
//   - samples: Unordered draws from a distribution
//
// Returns:
//   - sorted: The order statistics x_(0) <= ... <= x_(n-1)
//   - probs: The cumulative probabilities 0, 1/(n-1), ..., 1 matching sorted
func CDF(samples []float64) (sorted, probs []float64) {
	sorted = slices.Clone(samples)
	slices.Sort(sorted)

	n := len(sorted)
	probs = make([]float64, n)
	if n > 1 {
		step := 1.0 / float64(n-1)
		for i := range probs {
			probs[i] = float64(i) * step
		}
	}

	return sorted, probs
}

// ShortestCoverage finds the narrowest interval containing the given
// probability mass of a sorted sample.
//
// The window size is k = floor(percent/100 * n); the function slides the
// window over the order statistics and returns [x_(i), x_(i+k)] for the i
// minimizing the width. O(n) after sorting.
//
// Parameters:
//   - sorted: Sample in ascending order, len >= 2
//   - percent: Coverage fraction in percent, in (0, 100)
//
// Returns:
//   - [2]float64: The shortest interval [lower, upper]
//   - error: ErrInsufficientSamples for fewer than 2 samples
func ShortestCoverage(sorted []float64, percent float64) ([2]float64, error) {
	start, k, err := shortestWindow(sorted, percent)
	if err != nil {
		return [2]float64{}, err
	}

	return [2]float64{sorted[start], sorted[start+k]}, nil
}

// Tuning of the edge uncertainty estimate: the acceptable variation of the
// covered mass when an edge moves, and the relative uncertainty reported
// when the window width carries no slope information.
const (
	scTolerance    = 0.01
	scFlatFraction = 0.10
)

// ShortestCoverageUncertainty finds the shortest coverage interval together
// with an estimate of how precisely the finite sample pins down its edges.
//
// The estimate follows from the discrete slope of the window widths around
// the optimal start: a steep slope means the covered mass reacts strongly
// when an edge moves, so the edges are well determined. Where the widths
// are locally flat, a tenth of the interval width is reported instead.
//
// Parameters:
//   - sorted: Sample in ascending order, len >= 2
//   - percent: Coverage fraction in percent, in (0, 100)
//
// Returns:
//   - [2]float64: The shortest interval [lower, upper]
//   - float64: The uncertainty of either interval edge
//   - error: ErrInsufficientSamples for fewer than 2 samples
func ShortestCoverageUncertainty(sorted []float64, percent float64) ([2]float64, float64, error) {
	s, k, err := shortestWindow(sorted, percent)
	if err != nil {
		return [2]float64{}, 0, err
	}
	n := len(sorted)
	interval := [2]float64{sorted[s], sorted[s+k]}

	// Width of the k-sample window ending at index i, taken cyclically
	// below i = k.
	width := func(i int) float64 {
		j := i - k
		if j < 0 {
			j += n
		}

		return math.Abs(sorted[i] - sorted[j])
	}

	var deriv float64
	switch {
	case s == 0:
		deriv = math.Abs((width(0) - width(1)) / (sorted[1] - sorted[0]))
	case s == n-k-1:
		deriv = math.Abs((width(s) - width(s-1)) / (sorted[s] - sorted[s-1]))
	default:
		derivLow := math.Abs(width(s)-width(s-1)) / (sorted[s] - sorted[s-1])
		derivUp := math.Abs(width(s+1)-width(s)) / (sorted[s+1] - sorted[s])
		deriv = math.Abs(0.5 * (derivLow + derivUp))
	}

	if deriv == 0 || math.IsNaN(deriv) {
		return interval, scFlatFraction * (interval[1] - interval[0]), nil
	}

	return interval, scTolerance / deriv, nil
}

// shortestWindow locates the start of the narrowest k-sample window and
// returns it together with k.
func shortestWindow(sorted []float64, percent float64) (int, int, error) {
	n := len(sorted)
	if n < 2 {
		return 0, 0, fmt.Errorf("%w: got %d", errs.ErrInsufficientSamples, n)
	}

	k := int(percent * 0.01 * float64(n))
	if k < 1 {
		k = 1
	}
	if k >= n {
		k = n - 1
	}

	bestIdx := 0
	bestWidth := math.Inf(1)
	for i := 0; i+k < n; i++ {
		width := sorted[i+k] - sorted[i]
		if width < bestWidth {
			bestWidth = width
			bestIdx = i
		}
	}

	return bestIdx, k, nil
}

// Evaluate reduces a sample array to its most probable value and shortest
// coverage interval.
//
// Parameters:
//   - samples: Draws from the distribution under evaluation, len >= 2
//   - opts: Evaluation options (coverage, mode estimator, policies)
//
// Returns:
//   - Result: Mode and one-sided distances to the interval edges
//   - error: ErrInsufficientSamples, option validation errors, or
//     ErrModeOutsideInterval when clamping is disabled
//
// Example:
//
//	res, err := dist.Evaluate(samples, dist.WithKDEMode())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%g -%g +%g\n", res.MostProbable, res.SigmaLow, res.SigmaUp)
func Evaluate(samples []float64, opts ...EvalOption) (Result, error) {
	cfg := EvalConfig{
		coverage:    DefaultCoverage,
		forceInside: true,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return Result{}, err
	}

	if len(samples) < 2 {
		return Result{}, fmt.Errorf("%w: got %d", errs.ErrInsufficientSamples, len(samples))
	}

	sorted, release := pool.GetFloat64Slice(len(samples))
	defer release()
	copy(sorted, samples)
	slices.Sort(sorted)

	interval, err := ShortestCoverage(sorted, cfg.coverage)
	if err != nil {
		return Result{}, err
	}

	// The samples inside the interval form a contiguous run of the order
	// statistics; locate it once instead of re-filtering.
	first, _ := slices.BinarySearch(sorted, interval[0])
	last, found := slices.BinarySearch(sorted, interval[1])
	if found {
		for last < len(sorted) && sorted[last] == interval[1] {
			last++
		}
	}
	inside := sorted[first:last]

	mode := histogramMode(inside, interval)
	if cfg.useKDE {
		km, kdeErr := kdeMode(inside, interval)
		if kdeErr != nil {
			if cfg.warnFn != nil {
				cfg.warnFn(fmt.Sprintf("density maximization failed (%v), using histogram mode", kdeErr))
			}
		} else {
			mode = km
		}
	}

	if mode < interval[0] || mode > interval[1] {
		if !cfg.forceInside {
			return Result{}, fmt.Errorf("%w: mode %g, interval [%g, %g]",
				errs.ErrModeOutsideInterval, mode, interval[0], interval[1])
		}
		mode = math.Min(math.Max(mode, interval[0]), interval[1])
	}

	return Result{
		MostProbable: mode,
		SigmaLow:     mode - interval[0],
		SigmaUp:      interval[1] - mode,
		Interval:     interval,
	}, nil
}

// histogramMode estimates the density mode as the center of the tallest bin
// of a square-root-rule histogram over the in-interval samples.
func histogramMode(inside []float64, interval [2]float64) float64 {
	width := interval[1] - interval[0]
	if len(inside) == 0 || width <= 0 {
		return interval[0]
	}

	bins := int(math.Ceil(math.Sqrt(float64(len(inside)))))
	if bins < 1 {
		bins = 1
	}

	counts := make([]int, bins)
	binWidth := width / float64(bins)
	for _, x := range inside {
		idx := int((x - interval[0]) / binWidth)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}

	return interval[0] + (float64(best)+0.5)*binWidth
}
