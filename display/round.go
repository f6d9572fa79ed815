// Package display renders uncertain values with a sensible number of
// digits, following the rounding recommendation of the Particle Data Group.
package display

import (
	"math"
	"slices"
)

// Round rounds a mean value and its asymmetric uncertainties for display.
//
// The smallest non-zero value among mean, sigmaLow and sigmaUp determines
// the displayed precision: if its first three significant digits fall in
// 355..949 a single significant digit is kept, otherwise two. A mean whose
// magnitude is below a tenth of the smaller uncertainty is displayed as
// zero. Exact values (both sigmas zero) pass through unrounded.
//
// Parameters:
//   - mean: Central value
//   - sigmaLow: Downward uncertainty, >= 0
//   - sigmaUp: Upward uncertainty, >= 0
//
// Returns:
//   - [3]float64: Rounded {mean, sigmaLow, sigmaUp}
func Round(mean, sigmaLow, sigmaUp float64) [3]float64 {
	if sigmaLow == 0 && sigmaUp == 0 {
		return [3]float64{mean, 0, 0}
	}

	arr := [3]float64{mean, sigmaLow, sigmaUp}

	minSigma := math.Min(sigmaLow, sigmaUp)
	if minSigma > 0 && math.Abs(mean)/minSigma < 0.1 {
		arr[0] = 0
	}

	sorted := []float64{math.Abs(arr[0]), arr[1], arr[2]}
	slices.Sort(sorted)

	smallest := 0.0
	for _, v := range sorted {
		if v > 0 {
			smallest = v
			break
		}
	}
	if smallest == 0 || math.IsInf(smallest, 0) || math.IsNaN(smallest) {
		return arr
	}

	firstDigit := math.Floor(math.Log10(smallest))
	firstThree := math.Round(smallest * math.Pow(10, -firstDigit+2))

	digits := 1.0
	if firstThree >= 355 && firstThree <= 949 {
		digits = 0
	}

	scale := math.Pow(10, -firstDigit+digits)
	for i, v := range arr {
		arr[i] = math.Round(v*scale) / scale
	}

	return arr
}
