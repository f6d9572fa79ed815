// Package errs defines the sentinel errors shared by all uncmc packages.
//
// Callers can match them with errors.Is even when the producing package has
// wrapped them with additional context via fmt.Errorf("%w: ...").
package errs

import "errors"

// Argument validation errors.
var (
	// ErrNegativeSigma indicates a sigma value below zero at construction or
	// in a setter. Both one-sided uncertainties must be >= 0.
	ErrNegativeSigma = errors.New("sigma must be >= 0")

	// ErrInvalidBounds indicates malformed truncation bounds: the lower bound
	// must be strictly smaller than the upper bound.
	ErrInvalidBounds = errors.New("bounds must be strictly increasing")

	// ErrInvalidSampleCount indicates a sample count that is not an integer
	// larger than 1. At least two samples are needed to build an empirical CDF.
	ErrInvalidSampleCount = errors.New("sample count must be > 1")

	// ErrMeanConservingBounds indicates that mean conservation was requested
	// together with explicit truncation bounds. Truncation shifts the mean by
	// construction, so the combination is contradictory.
	ErrMeanConservingBounds = errors.New("mean conservation contradicts truncation bounds")
)

// Operation errors.
var (
	// ErrInvalidOperand indicates an arithmetic operation with an operand that
	// cannot participate, such as a zero scalar divisor or a non-positive base
	// for a scalar power.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrBoundsInstability indicates that new truncation bounds are disjoint
	// from the old ones. Resampling a tail that was never populated is
	// numerically unreliable, so this is a hard error.
	ErrBoundsInstability = errors.New("new bounds are outside the old bounds")

	// ErrInsufficientSamples indicates that fewer than two samples are
	// available, so no empirical CDF can be constructed.
	ErrInsufficientSamples = errors.New("need at least 2 samples")

	// ErrModeOutsideInterval indicates that the mode estimate fell outside the
	// shortest coverage interval while the force-inside policy was disabled.
	ErrModeOutsideInterval = errors.New("mode estimate outside shortest coverage interval")
)

// Snapshot format errors.
var (
	// ErrInvalidHeaderSize indicates snapshot data shorter than the fixed
	// header.
	ErrInvalidHeaderSize = errors.New("invalid snapshot header size")

	// ErrInvalidMagicNumber indicates data that does not start with the
	// snapshot magic number.
	ErrInvalidMagicNumber = errors.New("invalid snapshot magic number")

	// ErrChecksumMismatch indicates that the payload checksum does not match
	// the header, i.e. the sample payload is corrupted.
	ErrChecksumMismatch = errors.New("snapshot payload checksum mismatch")

	// ErrInvalidPayload indicates a payload whose decompressed size is not a
	// whole number of float64 samples or disagrees with the header count.
	ErrInvalidPayload = errors.New("invalid snapshot payload")
)
