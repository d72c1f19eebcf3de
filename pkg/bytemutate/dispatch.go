package bytemutate

import "math/rand/v2"

// Mutate applies one primitive edit to buf in place, chosen uniformly among
// the mutators valid at buf's length: an Add or InterestingSet whose width
// exceeds len(buf) (e.g. an 8-byte Add on a 3-byte buffer) is not offered.
// It is a no-op on an empty buffer.
func Mutate(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	candidates := []func([]byte, *rand.Rand){
		BitFlip, ByteFlip, ByteInc, ByteDec, ByteNeg, ByteRandom,
	}
	for _, w := range [...]int{1, 2, 4, 8} {
		if len(buf) >= w {
			candidates = append(candidates, func(b []byte, r *rand.Rand) { Add(b, r, w) })
		}
	}
	for _, w := range [...]int{1, 2, 4} {
		if len(buf) >= w {
			candidates = append(candidates, func(b []byte, r *rand.Rand) { InterestingSet(b, r, w) })
		}
	}
	candidates = append(candidates, BytesSet, BytesRandomSet, BytesCopy, BytesSwap)
	candidates[r.IntN(len(candidates))](buf, r)
}
