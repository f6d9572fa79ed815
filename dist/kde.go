package dist

import (
	"errors"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// kdeMaxPoints bounds the number of kernel centers; larger samples are
// strided down so the density evaluation stays O(kdeMaxPoints) per probe.
const kdeMaxPoints = 4096

var errDegenerateDensity = errors.New("degenerate sample density")

// kdeMode estimates the density mode of the in-interval samples by
// maximizing a Gaussian kernel density estimate with Silverman bandwidth.
// A coarse grid scan seeds a golden-section refinement around the best
// grid point.
func kdeMode(inside []float64, interval [2]float64) (float64, error) {
	if len(inside) < 2 {
		return 0, errDegenerateDensity
	}

	centers := inside
	if len(centers) > kdeMaxPoints {
		stride := (len(centers) + kdeMaxPoints - 1) / kdeMaxPoints
		sub := make([]float64, 0, kdeMaxPoints)
		for i := 0; i < len(centers); i += stride {
			sub = append(sub, centers[i])
		}
		centers = sub
	}

	bw := silvermanBandwidth(centers)
	if bw <= 0 || math.IsNaN(bw) {
		return 0, errDegenerateDensity
	}

	kernel := stats.NormalDist{Mu: 0, Sigma: bw}
	density := func(x float64) float64 {
		sum := 0.0
		for _, c := range centers {
			sum += kernel.PDF(x - c)
		}

		return sum
	}

	const gridPoints = 128
	lo, hi := interval[0], interval[1]
	step := (hi - lo) / float64(gridPoints)
	if step <= 0 {
		return 0, errDegenerateDensity
	}

	bestX, bestY := lo, math.Inf(-1)
	for i := 0; i <= gridPoints; i++ {
		x := lo + float64(i)*step
		if y := density(x); y > bestY {
			bestX, bestY = x, y
		}
	}

	a := math.Max(lo, bestX-step)
	b := math.Min(hi, bestX+step)

	return goldenSectionMax(density, a, b), nil
}

// silvermanBandwidth returns the Silverman rule-of-thumb bandwidth
// 1.06 * s * n^(-1/5) with s the sample standard deviation.
func silvermanBandwidth(samples []float64) float64 {
	s := stats.Sample{Xs: samples}.StdDev()

	return 1.06 * s * math.Pow(float64(len(samples)), -0.2)
}

// goldenSectionMax maximizes f over [a, b] assuming f is unimodal there.
func goldenSectionMax(f func(float64) float64, a, b float64) float64 {
	const (
		invPhi = 0.6180339887498949
		tol    = 1e-9
	)

	c := b - (b-a)*invPhi
	d := a + (b-a)*invPhi
	fc, fd := f(c), f(d)

	for i := 0; i < 100 && b-a > tol*(math.Abs(a)+math.Abs(b)+1); i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - (b-a)*invPhi
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + (b-a)*invPhi
			fd = f(d)
		}
	}

	return (a + b) / 2
}
