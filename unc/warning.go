package unc

// WarningKind classifies the non-fatal diagnostics a Quantity operation can
// emit.
type WarningKind uint8

const (
	// WarnResampleQuality reports that too few retained samples survived a
	// bounds or sample-count change to reconstruct the distribution reliably.
	WarnResampleQuality WarningKind = iota + 1
	// WarnSampleSizeMismatch reports that two retained sample arrays of
	// differing length were truncated to the shorter one during combination.
	WarnSampleSizeMismatch
	// WarnOptimizerFailure reports that density maximization failed and the
	// histogram mode estimate was used instead.
	WarnOptimizerFailure
	// WarnBoundsOverlap reports that new bounds only partially overlap the
	// old ones, so the resampled tail is thinly populated.
	WarnBoundsOverlap
	// WarnUntrackedSamples reports that samples were supplied at construction
	// without retention, so only their summary statistics survive.
	WarnUntrackedSamples
	// WarnSampleCountConflict reports that an explicit sample count
	// contradicted the length of supplied samples; the length wins.
	WarnSampleCountConflict
)

// String returns the name of the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnResampleQuality:
		return "resample-quality"
	case WarnSampleSizeMismatch:
		return "sample-size-mismatch"
	case WarnOptimizerFailure:
		return "optimizer-failure"
	case WarnBoundsOverlap:
		return "bounds-overlap"
	case WarnUntrackedSamples:
		return "untracked-samples"
	case WarnSampleCountConflict:
		return "sample-count-conflict"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal diagnostic delivered to the handler registered via
// WithWarningHandler. Warnings never interrupt control flow.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}
