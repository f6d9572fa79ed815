package unc

import (
	"fmt"
	"math"

	"github.com/arloliu/uncmc/dist"
	"github.com/arloliu/uncmc/errs"
)

// Operator dispatch, in order of preference:
//
//  1. Both operands exact: plain float arithmetic, exact result.
//  2. Same seed and same parameters (the same logical quantity used twice):
//     analytic shortcut where one exists (a+a, a-a, a/a), otherwise joint
//     sampling over a single shared draw array. A shared seed alone is not
//     enough: setters keep the seed while changing parameters, and such
//     re-parameterized pairs combine through their identical draw streams
//     in the general case instead.
//  3. One operand exact: closed-form shift/scale for + - x /, sampling of
//     the non-exact operand for the rest.
//  4. General case: sample both operands with their own seeds and bounds,
//     combine elementwise, evaluate.
//
// A result retains its samples whenever either operand requested retention.
// Results never alias operand sample arrays and always carry a fresh seed.

// Add returns q + other.
func (q *Quantity) Add(other *Quantity) (*Quantity, error) {
	if q.IsExact() && other.IsExact() {
		return q.exactResult(q.mean + other.mean).retaining(q.retain || other.retain), nil
	}
	if q.selfCorrelated(other) {
		return q.scaledBy(2).retaining(other.retain), nil
	}
	if other.IsExact() {
		return q.shiftedBy(other.mean).retaining(other.retain), nil
	}
	if q.IsExact() {
		return other.withWarnFn(q.warnFn).shiftedBy(q.mean).retaining(q.retain), nil
	}

	return q.combineIndependent(other, func(x, y float64) float64 { return x + y })
}

// Sub returns q - other.
func (q *Quantity) Sub(other *Quantity) (*Quantity, error) {
	if q.IsExact() && other.IsExact() {
		return q.exactResult(q.mean - other.mean).retaining(q.retain || other.retain), nil
	}
	if q.selfCorrelated(other) {
		return q.exactResult(0).retaining(q.retain || other.retain), nil
	}
	if other.IsExact() {
		return q.shiftedBy(-other.mean).retaining(other.retain), nil
	}
	if q.IsExact() {
		return other.withWarnFn(q.warnFn).negated().shiftedBy(q.mean).retaining(q.retain), nil
	}

	return q.combineIndependent(other, func(x, y float64) float64 { return x - y })
}

// Mul returns q * other.
func (q *Quantity) Mul(other *Quantity) (*Quantity, error) {
	if q.IsExact() && other.IsExact() {
		return q.exactResult(q.mean * other.mean).retaining(q.retain || other.retain), nil
	}
	if q.selfCorrelated(other) {
		return q.combineSelf(q.retain || other.retain, func(x float64) float64 { return x * x })
	}
	if other.IsExact() {
		return q.scaledBy(other.mean).retaining(other.retain), nil
	}
	if q.IsExact() {
		return other.withWarnFn(q.warnFn).scaledBy(q.mean).retaining(q.retain), nil
	}

	return q.combineIndependent(other, func(x, y float64) float64 { return x * y })
}

// Div returns q / other. Division by an exact zero fails with
// ErrInvalidOperand.
func (q *Quantity) Div(other *Quantity) (*Quantity, error) {
	if other.IsExact() && other.mean == 0 {
		return nil, fmt.Errorf("%w: division by exact zero", errs.ErrInvalidOperand)
	}
	if q.IsExact() && other.IsExact() {
		return q.exactResult(q.mean / other.mean).retaining(q.retain || other.retain), nil
	}
	if q.selfCorrelated(other) {
		return q.exactResult(1).retaining(q.retain || other.retain), nil
	}
	if other.IsExact() {
		return q.scaledBy(1 / other.mean).retaining(other.retain), nil
	}

	return q.combineIndependent(other, func(x, y float64) float64 { return x / y })
}

// Pow returns q raised to the power other. There is no closed form for an
// uncertain base or exponent, so all non-exact cases sample.
func (q *Quantity) Pow(other *Quantity) (*Quantity, error) {
	if q.IsExact() && other.IsExact() {
		return q.exactResult(math.Pow(q.mean, other.mean)).retaining(q.retain || other.retain), nil
	}
	if q.selfCorrelated(other) {
		return q.combineSelf(q.retain || other.retain, func(x float64) float64 { return math.Pow(x, x) })
	}
	if other.IsExact() {
		k := other.mean

		return q.combineSelf(q.retain || other.retain, func(x float64) float64 { return math.Pow(x, k) })
	}
	if q.IsExact() {
		if q.mean <= 0 {
			return nil, fmt.Errorf("%w: base of an uncertain exponent must be positive, got %g",
				errs.ErrInvalidOperand, q.mean)
		}
		base := q.mean

		return other.withWarnFn(q.warnFn).combineSelf(q.retain || other.retain, func(y float64) float64 {
			return math.Pow(base, y)
		})
	}

	return q.combineIndependent(other, math.Pow)
}

// Neg returns -q: the mean and bounds flip sign and the uncertainties swap
// sides.
func (q *Quantity) Neg() *Quantity {
	return q.negated()
}

// AddScalar returns q + k.
func (q *Quantity) AddScalar(k float64) *Quantity {
	if q.IsExact() {
		return q.exactResult(q.mean + k)
	}

	return q.shiftedBy(k)
}

// SubScalar returns q - k.
func (q *Quantity) SubScalar(k float64) *Quantity {
	return q.AddScalar(-k)
}

// ScalarSub returns k - q.
func (q *Quantity) ScalarSub(k float64) *Quantity {
	if q.IsExact() {
		return q.exactResult(k - q.mean)
	}

	return q.negated().shiftedBy(k)
}

// MulScalar returns q * k. Multiplication by a negative scalar mirrors the
// distribution, so the uncertainties swap sides.
func (q *Quantity) MulScalar(k float64) *Quantity {
	if q.IsExact() || k == 0 {
		return q.exactResult(q.mean * k)
	}

	return q.scaledBy(k)
}

// DivScalar returns q / k.
func (q *Quantity) DivScalar(k float64) (*Quantity, error) {
	if k == 0 {
		return nil, fmt.Errorf("%w: division by zero", errs.ErrInvalidOperand)
	}

	return q.MulScalar(1 / k), nil
}

// ScalarDiv returns k / q via sampling of the reciprocal distribution.
func (q *Quantity) ScalarDiv(k float64) (*Quantity, error) {
	if q.IsExact() {
		if q.mean == 0 {
			return nil, fmt.Errorf("%w: division by exact zero", errs.ErrInvalidOperand)
		}

		return q.exactResult(k / q.mean), nil
	}

	return q.combineSelf(q.retain, func(x float64) float64 { return k / x })
}

// PowScalar returns q raised to the exact power k, sampling the base.
func (q *Quantity) PowScalar(k float64) (*Quantity, error) {
	if q.IsExact() {
		return q.exactResult(math.Pow(q.mean, k)), nil
	}

	return q.combineSelf(q.retain, func(x float64) float64 { return math.Pow(x, k) })
}

// ScalarPow returns k raised to the uncertain power q. The base must be
// positive.
func (q *Quantity) ScalarPow(k float64) (*Quantity, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: base of an uncertain exponent must be positive, got %g",
			errs.ErrInvalidOperand, k)
	}
	if q.IsExact() {
		return q.exactResult(math.Pow(k, q.mean)), nil
	}

	return q.combineSelf(q.retain, func(y float64) float64 { return math.Pow(k, y) })
}

// selfCorrelated reports whether other is the same logical quantity as q:
// the shared seed marks the identity, and the parameters must match because
// setters keep the seed while re-parameterizing.
func (q *Quantity) selfCorrelated(other *Quantity) bool {
	return q.seed == other.seed &&
		q.mean == other.mean &&
		q.sigmaLow == other.sigmaLow &&
		q.sigmaUp == other.sigmaUp &&
		q.bounds == other.bounds
}

// retaining widens the retention flag of a freshly built result; a result
// retains whenever either operand requested retention.
func (q *Quantity) retaining(extra bool) *Quantity {
	if extra {
		q.retain = true
	}

	return q
}

// exactResult builds an exact quantity inheriting the receiver's handler
// and sample count.
func (q *Quantity) exactResult(mean float64) *Quantity {
	return q.derived(mean, 0, 0)
}

// derived builds a fresh unbounded result quantity with a new identity.
func (q *Quantity) derived(mean, sigmaLow, sigmaUp float64) *Quantity {
	r, _ := New(mean, sigmaLow, sigmaUp,
		WithSampleCount(q.sampleCount),
		WithWarningHandler(q.warnFn))

	return r
}

// withWarnFn re-homes the warning handler for results whose left operand is
// exact; operations still report through the left operand's handler.
func (q *Quantity) withWarnFn(fn func(Warning)) *Quantity {
	if fn == nil || q.warnFn != nil {
		return q
	}
	c := *q
	c.warnFn = fn

	return &c
}

// shiftedBy returns q + k with unchanged uncertainties; retained samples
// shift elementwise so chained operations stay on the joint path.
func (q *Quantity) shiftedBy(k float64) *Quantity {
	r := q.derived(q.mean+k, q.sigmaLow, q.sigmaUp)
	r.retain = q.retain
	if q.samples != nil {
		r.samples = mapSamples(q.samples, func(x float64) float64 { return x + k })
	}

	return r
}

// scaledBy returns q * k. A negative k mirrors the distribution, swapping
// sigmaLow and sigmaUp.
func (q *Quantity) scaledBy(k float64) *Quantity {
	sl, su := q.sigmaLow*math.Abs(k), q.sigmaUp*math.Abs(k)
	if k < 0 {
		sl, su = su, sl
	}

	r := q.derived(q.mean*k, sl, su)
	r.retain = q.retain
	if q.samples != nil {
		r.samples = mapSamples(q.samples, func(x float64) float64 { return x * k })
	}

	return r
}

// negated returns -q, including mirrored bounds.
func (q *Quantity) negated() *Quantity {
	r := q.derived(-q.mean, q.sigmaUp, q.sigmaLow)
	r.bounds = [2]float64{-q.bounds[1], -q.bounds[0]}
	r.retain = q.retain
	if q.samples != nil {
		r.samples = mapSamples(q.samples, func(x float64) float64 { return -x })
	}

	return r
}

// combineSelf transforms a single draw of q elementwise and evaluates the
// result. Used for self-correlated products and powers and for unary
// sampled functions.
func (q *Quantity) combineSelf(retain bool, f func(float64) float64) (*Quantity, error) {
	draws, err := q.materialize(q.effectiveLen())
	if err != nil {
		return nil, err
	}

	return q.resultFromSamples(mapSamples(draws, f), retain)
}

// combineIndependent samples both operands with their own seeds and bounds,
// combines the draws elementwise and evaluates the result.
func (q *Quantity) combineIndependent(other *Quantity, f func(x, y float64) float64) (*Quantity, error) {
	n := min(q.effectiveLen(), other.effectiveLen())
	if q.samples != nil && other.samples != nil && len(q.samples) != len(other.samples) {
		q.warn(WarnSampleSizeMismatch,
			"retained sample arrays of length %d and %d truncated to %d",
			len(q.samples), len(other.samples), n)
	}

	left, err := q.materialize(n)
	if err != nil {
		return nil, err
	}

	right, err := other.materialize(n)
	if err != nil {
		return nil, err
	}

	combined := make([]float64, n)
	for i := range combined {
		combined[i] = f(left[i], right[i])
	}

	return q.resultFromSamples(combined, q.retain || other.retain)
}

// effectiveLen is the number of draws an operand contributes: the retained
// array length when present, the configured sample count otherwise.
func (q *Quantity) effectiveLen() int {
	if q.samples != nil {
		return len(q.samples)
	}

	return q.sampleCount
}

// materialize returns n draws of q, reusing the retained array when it is
// long enough. The returned slice may alias the retained array and must not
// be modified.
func (q *Quantity) materialize(n int) ([]float64, error) {
	if q.samples != nil && len(q.samples) >= n {
		return q.samples[:n], nil
	}

	return dist.SampleAsymmetric(q.samplerConfig(), n)
}

// resultFromSamples evaluates a combined sample array into a result
// Quantity. Non-finite draws (for example from fractional powers of
// negative bases) are dropped first; losing a noticeable share of them is
// reported as a quality warning.
func (q *Quantity) resultFromSamples(combined []float64, retain bool) (*Quantity, error) {
	finite := combined[:0]
	for _, x := range combined {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if dropped := len(combined) - len(finite); dropped > 0 && float64(dropped) > 0.001*float64(len(combined)) {
		q.warn(WarnResampleQuality,
			"%d of %d combined samples were non-finite and dropped", dropped, len(combined))
	}
	if len(finite) < 2 {
		return nil, fmt.Errorf("%w: only %d finite combined samples", errs.ErrInsufficientSamples, len(finite))
	}

	res, err := dist.Evaluate(finite, dist.WithWarnHandler(func(msg string) {
		q.warn(WarnOptimizerFailure, "%s", msg)
	}))
	if err != nil {
		return nil, err
	}

	r := q.derived(res.MostProbable, res.SigmaLow, res.SigmaUp)
	r.sampleCount = len(finite)
	r.retain = retain
	if retain {
		r.samples = finite
	}

	return r, nil
}

func mapSamples(in []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = f(x)
	}

	return out
}
