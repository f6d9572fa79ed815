// Package pool provides pooled scratch slices for sampling hot paths.
//
// Operator dispatch materializes up to two sample arrays per operation, a
// million float64 values each at the default sample count. Pooling the
// intermediate buffers keeps repeated operations from churning the allocator.
package pool

import "sync"

var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice retrieves a float64 slice of the given length from the
// pool, allocating only when the pooled capacity is insufficient.
//
// The caller must invoke the returned cleanup function (typically with defer)
// once the slice is no longer referenced. Slices handed to callers outside
// the package must be copied first; the buffer is reused after cleanup.
//
// Parameters:
//   - size: The desired length of the slice
//
// Returns:
//   - []float64: A slice with length equal to size
//   - func(): Cleanup function returning the buffer to the pool
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { float64SlicePool.Put(ptr) }
}
