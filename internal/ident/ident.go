// Package ident allocates process-wide identity numbers for quantities.
//
// Every quantity constructed without an explicit seed receives the next
// value from a monotonically increasing counter. The identity doubles as the
// quantity's sampling seed, so two quantities share draws exactly when they
// share an identity. The counter is the only shared mutable state in the
// library and is advanced atomically.
package ident

import "sync/atomic"

var counter atomic.Uint64

// Next returns a fresh identity, unique within the process.
func Next() uint64 {
	return counter.Add(1)
}
