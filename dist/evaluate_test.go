package dist

import (
	"math"
	"testing"

	"github.com/aclements/go-moremath/stats"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/uncmc/errs"
)

func TestCDF(t *testing.T) {
	sorted, probs := CDF([]float64{3, 1, 2})
	require.Equal(t, []float64{1, 2, 3}, sorted)
	require.Equal(t, []float64{0, 0.5, 1}, probs)
}

func TestShortestCoverage(t *testing.T) {
	t.Run("known window", func(t *testing.T) {
		interval, err := ShortestCoverage([]float64{0, 1, 2, 3, 10}, 50)
		require.NoError(t, err)
		require.Equal(t, [2]float64{0, 2}, interval)
	})

	t.Run("too few samples", func(t *testing.T) {
		_, err := ShortestCoverage([]float64{1}, 68.27)
		require.ErrorIs(t, err, errs.ErrInsufficientSamples)
	})
}

func TestShortestCoverageUncertainty(t *testing.T) {
	t.Run("flat widths fall back to a width fraction", func(t *testing.T) {
		// Evenly spaced order statistics: every 5-sample window is 5 wide,
		// so the slope carries no information and the fallback applies.
		sorted := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

		interval, edge, err := ShortestCoverageUncertainty(sorted, 50)
		require.NoError(t, err)
		require.Equal(t, [2]float64{0, 5}, interval)
		require.InDelta(t, 0.5, edge, 1e-12)
	})

	t.Run("normal inverse CDF grid", func(t *testing.T) {
		const n = 20001
		norm := stats.NormalDist{Mu: 0, Sigma: 1}
		sorted := make([]float64, n)
		for i := range sorted {
			sorted[i] = norm.InvCDF(float64(i+1) / float64(n+1))
		}

		interval, edge, err := ShortestCoverageUncertainty(sorted, 68.27)
		require.NoError(t, err)
		require.InDelta(t, -1.0, interval[0], 0.01)
		require.InDelta(t, 1.0, interval[1], 0.01)

		// The edges lie within their estimated uncertainty of the exact
		// one-sigma points.
		require.Positive(t, edge)
		require.Less(t, edge, 0.2)
		require.LessOrEqual(t, interval[0]-edge, -1.0)
		require.GreaterOrEqual(t, interval[0]+edge, -1.0)
		require.LessOrEqual(t, interval[1]-edge, 1.0)
		require.GreaterOrEqual(t, interval[1]+edge, 1.0)
	})

	t.Run("interval pinned to the lower edge", func(t *testing.T) {
		// Exponential quantiles: the shortest interval starts at the very
		// first order statistic, exercising the boundary slope.
		const n = 20001
		sorted := make([]float64, n)
		for i := range sorted {
			sorted[i] = -math.Log(1 - float64(i+1)/float64(n+1))
		}

		interval, edge, err := ShortestCoverageUncertainty(sorted, 68.27)
		require.NoError(t, err)
		require.Positive(t, edge)
		require.LessOrEqual(t, interval[0]-edge, 0.0)
		require.GreaterOrEqual(t, interval[0]+edge, 0.0)
	})

	t.Run("too few samples", func(t *testing.T) {
		_, _, err := ShortestCoverageUncertainty([]float64{1}, 68.27)
		require.ErrorIs(t, err, errs.ErrInsufficientSamples)
	})
}

func TestEvaluateValidation(t *testing.T) {
	t.Run("too few samples", func(t *testing.T) {
		_, err := Evaluate([]float64{1})
		require.ErrorIs(t, err, errs.ErrInsufficientSamples)
	})

	t.Run("coverage out of range", func(t *testing.T) {
		_, err := Evaluate([]float64{1, 2, 3}, WithCoverage(100))
		require.Error(t, err)

		_, err = Evaluate([]float64{1, 2, 3}, WithCoverage(0))
		require.Error(t, err)
	})
}

func TestEvaluateSymmetricNormal(t *testing.T) {
	cfg := NewConfig(0, 1, 1)
	cfg.Seed = 21

	samples, err := SampleAsymmetric(cfg, 1_000_000)
	require.NoError(t, err)

	res, err := Evaluate(samples)
	require.NoError(t, err)

	// The 68.27% shortest coverage interval of a standard normal is
	// [-1, 1] with the mode at zero. The interval width is a stable
	// statistic; the histogram mode wanders over the flat top.
	require.InDelta(t, 0.0, res.MostProbable, 0.35)
	require.InDelta(t, 2.0, res.SigmaLow+res.SigmaUp, 0.05)
	require.InDelta(t, -1.0, res.Interval[0], 0.06)
	require.InDelta(t, 1.0, res.Interval[1], 0.06)

	require.GreaterOrEqual(t, res.SigmaLow, 0.0)
	require.GreaterOrEqual(t, res.SigmaUp, 0.0)
}

func TestEvaluateAsymmetric(t *testing.T) {
	cfg := NewConfig(5, 0.5, 2)
	cfg.Seed = 23

	samples, err := SampleAsymmetric(cfg, 1_000_000)
	require.NoError(t, err)

	res, err := Evaluate(samples)
	require.NoError(t, err)

	// The interval must reflect the asymmetry of the distribution.
	require.Greater(t, res.SigmaUp, res.SigmaLow)
	require.InDelta(t, 5.0, res.MostProbable, 0.5)
}

func TestEvaluateKDEMode(t *testing.T) {
	cfg := NewConfig(0, 1, 1)
	cfg.Seed = 29

	samples, err := SampleAsymmetric(cfg, 100_000)
	require.NoError(t, err)

	res, err := Evaluate(samples, WithKDEMode())
	require.NoError(t, err)
	require.InDelta(t, 0.0, res.MostProbable, 0.25)
	require.GreaterOrEqual(t, res.MostProbable, res.Interval[0])
	require.LessOrEqual(t, res.MostProbable, res.Interval[1])
}

func TestEvaluateCoverageOverride(t *testing.T) {
	cfg := NewConfig(0, 1, 1)
	cfg.Seed = 31

	samples, err := SampleAsymmetric(cfg, 500_000)
	require.NoError(t, err)

	res, err := Evaluate(samples, WithCoverage(95.45))
	require.NoError(t, err)

	// The 95.45% interval of a standard normal is [-2, 2].
	require.InDelta(t, -2.0, res.Interval[0], 0.06)
	require.InDelta(t, 2.0, res.Interval[1], 0.06)
}

func TestEvaluateModeInsideInterval(t *testing.T) {
	// A strongly skewed sample keeps the clamp policy honest.
	cfg := NewConfig(0, 0, 3)
	cfg.Seed = 37

	samples, err := SampleAsymmetric(cfg, 200_000)
	require.NoError(t, err)

	res, err := Evaluate(samples)
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.MostProbable, res.Interval[0])
	require.LessOrEqual(t, res.MostProbable, res.Interval[1])
}

func TestChiSquare(t *testing.T) {
	t.Run("perfect fit", func(t *testing.T) {
		v, err := ChiSquare([]float64{1, 2, 3}, []float64{0.1, 0.1, 0.1}, []float64{1, 2, 3}, 1)
		require.NoError(t, err)
		require.Equal(t, 0.0, v)
	})

	t.Run("known value", func(t *testing.T) {
		v, err := ChiSquare([]float64{2, 4}, []float64{1, 2}, []float64{1, 2}, 2)
		require.NoError(t, err)
		require.InDelta(t, 1.0, v, 1e-12)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := ChiSquare([]float64{1, 2}, []float64{1}, []float64{1, 2}, 1)
		require.ErrorIs(t, err, errs.ErrInvalidOperand)
	})

	t.Run("invalid dof", func(t *testing.T) {
		_, err := ChiSquare([]float64{1}, []float64{1}, []float64{1}, 0)
		require.ErrorIs(t, err, errs.ErrInvalidOperand)
	})
}
