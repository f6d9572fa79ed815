package unc

import "math"

// Exp returns e raised to the power q, following the sample-transform-
// evaluate pattern of the operators.
func Exp(q *Quantity) (*Quantity, error) {
	return Apply(q, math.Exp)
}

// Log returns the natural logarithm of q. Draws outside the domain of the
// logarithm are dropped as non-finite, with a quality warning when their
// share is noticeable.
func Log(q *Quantity) (*Quantity, error) {
	return Apply(q, math.Log)
}

// Sqrt returns the square root of q.
func Sqrt(q *Quantity) (*Quantity, error) {
	return Apply(q, math.Sqrt)
}

// Apply propagates q through an arbitrary elementwise function f: it draws
// the distribution of q, transforms each draw and evaluates the transformed
// sample. An exact q short-circuits to f(mean) with zero uncertainty.
//
// f must be deterministic; it is called once per draw.
func Apply(q *Quantity, f func(float64) float64) (*Quantity, error) {
	if q.IsExact() {
		return q.exactResult(f(q.mean)), nil
	}

	return q.combineSelf(q.retain, f)
}
