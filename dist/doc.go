// Package dist implements the Monte-Carlo machinery behind uncertainty
// propagation: sampling from a two-piece (possibly truncated) normal
// distribution and recovering summary statistics from an empirical sample.
//
// # Sampling
//
// SampleAsymmetric draws from the density
//
//	pdf(x) = N(mean, sigmaLow)  for x < mean
//	pdf(x) = N(mean, sigmaUp)   for x >= mean
//
// restricted to the configured bounds and renormalized. Draws are assigned
// to the lower or upper half by the relative probability mass each half
// contributes inside the bounds, then inverse-CDF sampled within the half's
// truncated range. Sampling is deterministic per seed: the generator is a
// local PCG instance constructed from the config, never shared process
// state.
//
// # Evaluation
//
// Evaluate reduces a sample array to a most-probable value and the shortest
// interval covering a target probability mass (68.27% by default, the
// one-sigma equivalent):
//
//	res, err := dist.Evaluate(samples)
//	// res.MostProbable, res.SigmaLow, res.SigmaUp
//
// The shortest coverage interval is found by sliding a fixed-count window
// over the order statistics, O(n) after sorting. The mode is estimated from
// the samples inside that interval, either by a square-root-rule histogram
// or, with WithKDEMode, by maximizing a Gaussian kernel density estimate
// within the interval.
package dist
