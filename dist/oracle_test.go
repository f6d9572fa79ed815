package dist

import (
	"math"
	"testing"

	"github.com/aclements/go-moremath/stats"
	"github.com/stretchr/testify/require"
)

// gaussianRatioPDF is Hinkley's closed-form density of the ratio X/Y of two
// independent normals. It is used only as an oracle to cross-check the
// Monte-Carlo pipeline against an analytic result.
func gaussianRatioPDF(z, muX, sigmaX, muY, sigmaY float64) float64 {
	std := stats.NormalDist{Mu: 0, Sigma: 1}

	a := math.Sqrt(z*z/(sigmaX*sigmaX) + 1/(sigmaY*sigmaY))
	b := muX*z/(sigmaX*sigmaX) + muY/(sigmaY*sigmaY)
	c := muX*muX/(sigmaX*sigmaX) + muY*muY/(sigmaY*sigmaY)
	d := math.Exp((b*b - c*a*a) / (2 * a * a))

	return b*d/(a*a*a*math.Sqrt(2*math.Pi)*sigmaX*sigmaY)*(2*std.CDF(b/a)-1) +
		math.Exp(-c/2)/(a*a*math.Pi*sigmaX*sigmaY)
}

func integrate(f func(float64) float64, lo, hi float64, steps int) float64 {
	h := (hi - lo) / float64(steps)
	sum := (f(lo) + f(hi)) / 2
	for i := 1; i < steps; i++ {
		sum += f(lo + float64(i)*h)
	}

	return sum * h
}

func TestGaussianRatioPDFOracle(t *testing.T) {
	pdf := func(z float64) float64 { return gaussianRatioPDF(z, 0, 1, 0, 1) }

	t.Run("reduces to standard cauchy", func(t *testing.T) {
		for _, z := range []float64{-3, -1, 0, 0.5, 2} {
			require.InDelta(t, 1/(math.Pi*(1+z*z)), pdf(z), 1e-12)
		}
	})

	t.Run("normalized", func(t *testing.T) {
		// The Cauchy tails outside [-200, 200] carry 2/(200*pi) of mass.
		mass := integrate(pdf, -200, 200, 400_000)
		require.InDelta(t, 1.0, mass, 0.005)
	})

	t.Run("coverage of the analytic interval", func(t *testing.T) {
		mass := integrate(pdf, -1.8374, 1.8374, 40_000)
		require.InDelta(t, 0.6827, mass, 0.001)
	})
}

func TestRatioAgainstOracle(t *testing.T) {
	const n = 1_000_000

	numCfg := NewConfig(0, 1, 1)
	numCfg.Seed = 101
	x, err := SampleAsymmetric(numCfg, n)
	require.NoError(t, err)

	denCfg := NewConfig(0, 1, 1)
	denCfg.Seed = 102
	y, err := SampleAsymmetric(denCfg, n)
	require.NoError(t, err)

	ratio := make([]float64, n)
	for i := range ratio {
		ratio[i] = x[i] / y[i]
	}

	res, err := Evaluate(ratio)
	require.NoError(t, err)

	// The shortest 68.27% interval of the standard Cauchy is symmetric
	// around zero with half-width tan(0.34135*pi) = 1.8374.
	require.InDelta(t, -1.8374, res.Interval[0], 0.1)
	require.InDelta(t, 1.8374, res.Interval[1], 0.1)
}
