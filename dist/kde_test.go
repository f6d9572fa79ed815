package dist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKDEModeClusteredSample(t *testing.T) {
	// Sorted points piling up around 1.0; the density maximum must land
	// there, not at the interval midpoint.
	inside := []float64{0.2, 0.5, 0.7, 0.85, 0.9, 0.95, 1.0, 1.0, 1.05, 1.1, 1.15, 1.3}

	mode, err := kdeMode(inside, [2]float64{0.2, 1.3})
	require.NoError(t, err)
	require.InDelta(t, 1.0, mode, 0.15)
}

func TestKDEModeDegenerate(t *testing.T) {
	t.Run("single point", func(t *testing.T) {
		_, err := kdeMode([]float64{1}, [2]float64{0, 2})
		require.ErrorIs(t, err, errDegenerateDensity)
	})

	t.Run("zero bandwidth", func(t *testing.T) {
		_, err := kdeMode([]float64{2, 2, 2, 2}, [2]float64{1, 3})
		require.ErrorIs(t, err, errDegenerateDensity)
	})

	t.Run("zero width interval", func(t *testing.T) {
		_, err := kdeMode([]float64{1, 2, 3}, [2]float64{2, 2})
		require.ErrorIs(t, err, errDegenerateDensity)
	})
}

func TestSilvermanBandwidth(t *testing.T) {
	// Unit-spaced points: s = stddev{1..5} = sqrt(2.5), bw = 1.06*s*5^(-1/5).
	bw := silvermanBandwidth([]float64{1, 2, 3, 4, 5})
	require.InDelta(t, 1.2149, bw, 1e-3)
}
