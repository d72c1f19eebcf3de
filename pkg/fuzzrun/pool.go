package fuzzrun

import "sync"

// Scratch buffer pools, reduced from the wire-format project's six
// size classes to the two this domain actually produces: the decision
// bitfield (bounded by decision_bits_per_iteration × a small iteration
// count) and the fuzz-input payload (dominated by pointer/array growth
// under mutation, so it gets the larger class).
var (
	smallPool = sync.Pool{New: func() any { return make([]byte, 0, 256) }}
	largePool = sync.Pool{New: func() any { return make([]byte, 0, 8192) }}
)

const smallLargeBoundary = 256

// GetScratch returns a zero-length scratch buffer with at least sizeHint
// bytes of capacity, drawn from whichever size class fits.
func GetScratch(sizeHint int) []byte {
	if sizeHint <= smallLargeBoundary {
		buf := smallPool.Get().([]byte)
		if cap(buf) < sizeHint {
			return make([]byte, 0, sizeHint)
		}
		return buf[:0]
	}
	buf := largePool.Get().([]byte)
	if cap(buf) < sizeHint {
		return make([]byte, 0, sizeHint)
	}
	return buf[:0]
}

// PutScratch returns buf to the appropriate pool for reuse. Buffers whose
// capacity has grown past 1 MiB are dropped rather than pooled, so one abnormally large iteration doesn't pin an
// oversized buffer in the pool forever.
func PutScratch(buf []byte) {
	c := cap(buf)
	switch {
	case c <= smallLargeBoundary:
		smallPool.Put(buf[:0]) //nolint:staticcheck // intentional: pool small-class buffer
	case c <= 1<<20:
		largePool.Put(buf[:0])
	}
}
