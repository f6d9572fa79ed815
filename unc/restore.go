package unc

import (
	"fmt"

	"github.com/arloliu/uncmc/errs"
	"github.com/arloliu/uncmc/internal/ident"
	"github.com/arloliu/uncmc/internal/options"
)

// Restore rebuilds a Quantity from previously persisted state, taking mean
// and sigmas verbatim instead of re-deriving them from the samples. It is
// the decoding counterpart of the snapshot package; regular construction
// should use New.
//
// A non-empty samples slice is retained and owned by the returned Quantity.
func Restore(mean, sigmaLow, sigmaUp float64, bounds [2]float64, samples []float64, opts ...Option) (*Quantity, error) {
	if sigmaLow < 0 || sigmaUp < 0 {
		return nil, fmt.Errorf("%w: sigmaLow %g, sigmaUp %g", errs.ErrNegativeSigma, sigmaLow, sigmaUp)
	}
	if !(bounds[0] < bounds[1]) {
		return nil, fmt.Errorf("%w: lower %g must be less than upper %g", errs.ErrInvalidBounds, bounds[0], bounds[1])
	}

	cfg := config{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	q := &Quantity{
		mean:        mean,
		sigmaLow:    sigmaLow,
		sigmaUp:     sigmaUp,
		bounds:      bounds,
		sampleCount: DefaultSampleCount,
		warnFn:      cfg.warnFn,
	}
	if cfg.seedSet {
		q.seed = cfg.seed
	} else {
		q.seed = ident.Next()
	}

	if len(samples) > 0 {
		q.retain = true
		q.samples = samples
		q.sampleCount = len(samples)
	}

	return q, nil
}
