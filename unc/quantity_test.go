package unc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/uncmc/errs"
)

func TestNewValidation(t *testing.T) {
	t.Run("negative sigma low", func(t *testing.T) {
		_, err := New(1, -0.1, 0.1)
		require.ErrorIs(t, err, errs.ErrNegativeSigma)
	})

	t.Run("negative sigma up", func(t *testing.T) {
		_, err := New(1, 0.1, -0.1)
		require.ErrorIs(t, err, errs.ErrNegativeSigma)
	})

	t.Run("non-increasing bounds", func(t *testing.T) {
		_, err := New(1, 0.1, 0.1, WithBounds(2, 2))
		require.ErrorIs(t, err, errs.ErrInvalidBounds)
	})

	t.Run("sample count too small", func(t *testing.T) {
		_, err := New(1, 0.1, 0.1, WithSampleCount(1))
		require.ErrorIs(t, err, errs.ErrInvalidSampleCount)
	})
}

func TestIsExact(t *testing.T) {
	tests := []struct {
		sigmaLow, sigmaUp float64
		exact             bool
	}{
		{0, 0, true},
		{0.1, 0, false},
		{0, 0.1, false},
		{0.1, 0.2, false},
	}

	for _, tt := range tests {
		q, err := New(1, tt.sigmaLow, tt.sigmaUp)
		require.NoError(t, err)
		require.Equal(t, tt.exact, q.IsExact())
	}
}

func TestExactAndDefault(t *testing.T) {
	q := Exact(3.5)
	require.Equal(t, 3.5, q.Mean())
	require.True(t, q.IsExact())

	d := NewDefault()
	require.Equal(t, 1.0, d.Mean())
	require.True(t, d.IsExact())
}

func TestIdentityCounter(t *testing.T) {
	a, err := New(1, 0.1, 0.1)
	require.NoError(t, err)
	b, err := New(1, 0.1, 0.1)
	require.NoError(t, err)
	require.NotEqual(t, a.Seed(), b.Seed())

	pinned, err := New(1, 0.1, 0.1, WithSeed(42))
	require.NoError(t, err)
	require.EqualValues(t, 42, pinned.Seed())
}

func TestRetainedSamples(t *testing.T) {
	q, err := New(1, 0.1, 0.1,
		WithRetainedSamples(),
		WithSampleCount(10_000),
		WithSeed(1))
	require.NoError(t, err)
	require.True(t, q.Retains())
	require.Len(t, q.Samples(), 10_000)

	plain, err := New(1, 0.1, 0.1, WithSampleCount(10_000))
	require.NoError(t, err)
	require.False(t, plain.Retains())
	require.Nil(t, plain.Samples())
}

func TestWithSamples(t *testing.T) {
	samples := make([]float64, 10_000)
	for i := range samples {
		samples[i] = float64(i%200) / 100.0
	}

	t.Run("derives statistics and retains", func(t *testing.T) {
		q, err := New(0, 0, 0, WithSamples(samples), WithRetainedSamples())
		require.NoError(t, err)
		require.Len(t, q.Samples(), len(samples))
		require.Equal(t, len(samples), q.SampleCount())
		// Mean and sigmas come from the samples, not the arguments.
		require.False(t, q.IsExact())
	})

	t.Run("warns without retention", func(t *testing.T) {
		var warned []Warning
		q, err := New(0, 0, 0,
			WithSamples(samples),
			WithWarningHandler(func(w Warning) { warned = append(warned, w) }))
		require.NoError(t, err)
		require.Nil(t, q.Samples())
		require.Len(t, warned, 1)
		require.Equal(t, WarnUntrackedSamples, warned[0].Kind)
	})

	t.Run("warns on conflicting sample count", func(t *testing.T) {
		var warned []Warning
		q, err := New(0, 0, 0,
			WithSamples(samples),
			WithSampleCount(500),
			WithRetainedSamples(),
			WithWarningHandler(func(w Warning) { warned = append(warned, w) }))
		require.NoError(t, err)
		require.Equal(t, len(samples), q.SampleCount())
		require.Len(t, warned, 1)
		require.Equal(t, WarnSampleCountConflict, warned[0].Kind)
	})

	t.Run("rejects too few samples", func(t *testing.T) {
		_, err := New(0, 0, 0, WithSamples([]float64{1}))
		require.ErrorIs(t, err, errs.ErrInsufficientSamples)
	})
}

func TestString(t *testing.T) {
	q, err := New(0.827, 0.119, 0.119)
	require.NoError(t, err)
	require.Equal(t, "0.83 - 0.12 + 0.12", q.String())

	e := Exact(2)
	require.Equal(t, "2 - 0 + 0", e.String())
}

func TestSetMeanKeepsIdentity(t *testing.T) {
	a, err := New(1, 0.1, 0.1, WithSeed(7))
	require.NoError(t, err)

	b, err := a.SetMean(5)
	require.NoError(t, err)
	require.Equal(t, 5.0, b.Mean())
	require.Equal(t, 0.1, b.SigmaLow())
	require.Equal(t, a.Seed(), b.Seed())
	// The original is untouched.
	require.Equal(t, 1.0, a.Mean())
}

func TestSetSigma(t *testing.T) {
	a, err := New(1, 0.1, 0.1)
	require.NoError(t, err)

	b, err := a.SetSigmaLow(0.3)
	require.NoError(t, err)
	require.Equal(t, 0.3, b.SigmaLow())
	require.Equal(t, 0.1, a.SigmaLow())

	c, err := b.SetSigmaUp(0)
	require.NoError(t, err)
	require.Equal(t, 0.0, c.SigmaUp())
	require.False(t, c.IsExact())

	_, err = a.SetSigmaLow(-1)
	require.ErrorIs(t, err, errs.ErrNegativeSigma)
	_, err = a.SetSigmaUp(-1)
	require.ErrorIs(t, err, errs.ErrNegativeSigma)
}

func TestSetSigmaReachesExact(t *testing.T) {
	a, err := New(1, 0.1, 0)
	require.NoError(t, err)

	b, err := a.SetSigmaLow(0)
	require.NoError(t, err)
	require.True(t, b.IsExact())
}

func TestSetSampleCount(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		a, err := New(1, 0.1, 0.1)
		require.NoError(t, err)
		_, err = a.SetSampleCount(1)
		require.ErrorIs(t, err, errs.ErrInvalidSampleCount)
	})

	t.Run("truncates retained samples", func(t *testing.T) {
		a, err := New(1, 0.1, 0.1,
			WithRetainedSamples(),
			WithSampleCount(10_000),
			WithSeed(3))
		require.NoError(t, err)

		b, err := a.SetSampleCount(1000)
		require.NoError(t, err)
		require.Len(t, b.Samples(), 1000)
		require.Equal(t, a.Samples()[:1000], b.Samples())
		// The original keeps its full array.
		require.Len(t, a.Samples(), 10_000)
	})

	t.Run("resamples and warns when growing", func(t *testing.T) {
		var warned []Warning
		a, err := New(1, 0.1, 0.1,
			WithRetainedSamples(),
			WithSampleCount(5000),
			WithSeed(3),
			WithWarningHandler(func(w Warning) { warned = append(warned, w) }))
		require.NoError(t, err)

		b, err := a.SetSampleCount(20_000)
		require.NoError(t, err)
		require.Len(t, b.Samples(), 20_000)
		require.Len(t, warned, 1)
		require.Equal(t, WarnResampleQuality, warned[0].Kind)
	})
}

func TestSetBounds(t *testing.T) {
	t.Run("invalid bounds", func(t *testing.T) {
		a, err := New(0, 1, 1)
		require.NoError(t, err)
		_, err = a.SetBounds(2, 1)
		require.ErrorIs(t, err, errs.ErrInvalidBounds)
	})

	t.Run("disjoint bounds rejected", func(t *testing.T) {
		a, err := New(0, 1, 1, WithBounds(-1, 1), WithSampleCount(10_000))
		require.NoError(t, err)
		_, err = a.SetBounds(2, 3)
		require.ErrorIs(t, err, errs.ErrBoundsInstability)
	})

	t.Run("partial overlap warns", func(t *testing.T) {
		var warned []Warning
		a, err := New(0, 1, 1,
			WithBounds(-1, 1),
			WithSampleCount(10_000),
			WithWarningHandler(func(w Warning) { warned = append(warned, w) }))
		require.NoError(t, err)

		b, err := a.SetBounds(0, 2)
		require.NoError(t, err)
		require.Equal(t, [2]float64{0, 2}, b.Bounds())
		require.NotEmpty(t, warned)
		require.Equal(t, WarnBoundsOverlap, warned[0].Kind)
	})

	t.Run("quality warning for thin overlap", func(t *testing.T) {
		var warned []Warning
		a, err := New(0, 1, 1,
			WithRetainedSamples(),
			WithSampleCount(50_000),
			WithSeed(5),
			WithWarningHandler(func(w Warning) { warned = append(warned, w) }))
		require.NoError(t, err)

		// [3.5, 10] keeps well under 1% of a unit normal's draws.
		_, err = a.SetBounds(3.5, 10)
		require.NoError(t, err)

		found := false
		for _, w := range warned {
			if w.Kind == WarnResampleQuality {
				found = true
			}
		}
		require.True(t, found)
	})

	t.Run("one-sided setters", func(t *testing.T) {
		a, err := New(0, 1, 1, WithSampleCount(10_000), WithSeed(9))
		require.NoError(t, err)

		b, err := a.SetLowerBound(-2)
		require.NoError(t, err)
		require.Equal(t, -2.0, b.Bounds()[0])
		require.True(t, math.IsInf(b.Bounds()[1], 1))

		c, err := b.SetUpperBound(2)
		require.NoError(t, err)
		require.Equal(t, [2]float64{-2, 2}, c.Bounds())
	})
}
