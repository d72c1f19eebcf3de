package bytemutate

import "math/rand/v2"

// BitFlip XORs one random bit of one random byte in buf.
func BitFlip(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	i := r.IntN(len(buf))
	bit := byte(1) << r.IntN(8)
	buf[i] ^= bit
}

// ByteFlip XORs one random byte in buf with 0xFF.
func ByteFlip(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	buf[r.IntN(len(buf))] ^= 0xFF
}

// ByteInc increments one random byte in buf by 1, wrapping.
func ByteInc(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	buf[r.IntN(len(buf))]++
}

// ByteDec decrements one random byte in buf by 1, wrapping.
func ByteDec(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	buf[r.IntN(len(buf))]--
}

// ByteNeg sets one random byte in buf to its two's-complement negation.
func ByteNeg(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	i := r.IntN(len(buf))
	buf[i] = ^buf[i] + 1
}

// ByteRandom XORs one random byte in buf with a uniform value in [1, 255].
func ByteRandom(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	i := r.IntN(len(buf))
	buf[i] ^= byte(1 + r.IntN(255))
}

// Add reads a little-endian width-byte window at a random offset, adds or
// subtracts a uniform [1, ArithMax] value (optionally around a byte-swap),
// and writes the result back little-endian.
//
// D1 (SPEC_FULL §9): the source implementation writes the result in
// whatever the host's native byte order is, which is an artifact of reading
// with from_le_bytes and writing with to_ne_bytes. This port targets
// little-endian hosts exclusively, so writing little-endian unconditionally
// reproduces the source's actual behavior rather than deviating from it.
// width must be one of 1, 2, 4, 8.
func Add(buf []byte, r *rand.Rand, width int) {
	if len(buf) < width {
		return
	}
	i := r.IntN(len(buf) - width + 1)
	window := buf[i : i+width]

	value := readLE(window)
	num := uint64(1 + r.IntN(ArithMax))

	var newVal uint64
	switch r.IntN(4) {
	case 0:
		newVal = maskWidth(value+num, width)
	case 1:
		newVal = maskWidth(value-num, width)
	case 2:
		newVal = maskWidth(swapBytes(maskWidth(value, width), width)+num, width)
		newVal = swapBytes(newVal, width)
	default:
		newVal = maskWidth(swapBytes(maskWidth(value, width), width)-num, width)
		newVal = swapBytes(newVal, width)
	}
	writeLE(window, newVal, width)
}

// InterestingSet overwrites a random width-byte window with a value drawn
// from the canonical AFL interesting-value table for that width.
// width must be one of 1, 2, 4.
func InterestingSet(buf []byte, r *rand.Rand, width int) {
	if len(buf) < width {
		return
	}
	i := r.IntN(len(buf) - width + 1)
	window := buf[i : i+width]

	var value uint64
	switch width {
	case 1:
		value = maskWidth(uint64(int64(Interesting8[r.IntN(len(Interesting8))])), width)
	case 2:
		value = maskWidth(uint64(int64(Interesting16[r.IntN(len(Interesting16))])), width)
	case 4:
		value = maskWidth(uint64(int64(Interesting32[r.IntN(len(Interesting32))])), width)
	default:
		return
	}
	writeLE(window, value, width)
}

// RandomRange draws a sub-range [start, end) of buf such that every index is
// roughly as likely to appear in the range as any other, biasing slightly
// toward the edges. maxLen caps the range length.
func RandomRange(buf []byte, maxLen int, r *rand.Rand) (start, end int) {
	length := 1 + r.IntN(min(len(buf), maxLen))
	end = 1 + r.IntN(len(buf)+length-1)
	start = end - length
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	return start, end
}

// BytesSet overwrites a random contiguous sub-range of buf with a value
// already present elsewhere in buf.
func BytesSet(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	value := buf[r.IntN(len(buf))]
	start, end := RandomRange(buf, 16, r)
	for i := start; i < end; i++ {
		buf[i] = value
	}
}

// BytesRandomSet overwrites a random contiguous sub-range of buf with a
// single uniformly chosen byte value.
func BytesRandomSet(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	value := byte(r.IntN(256))
	start, end := RandomRange(buf, 16, r)
	for i := start; i < end; i++ {
		buf[i] = value
	}
}

// BytesCopy overwrites a random sub-range of buf with the contents of
// another equal-length sub-range of buf.
func BytesCopy(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	start, end := RandomRange(buf, 16, r)
	src := append([]byte(nil), buf[start:end]...)
	destStart := r.IntN(len(buf) - len(src) + 1)
	copy(buf[destStart:destStart+len(src)], src)
}

// BytesSwap exchanges a random sub-range of buf element-wise with an
// equal-length window starting at a random offset.
func BytesSwap(buf []byte, r *rand.Rand) {
	if len(buf) == 0 {
		return
	}
	start, end := RandomRange(buf, 16, r)
	length := end - start
	destStart := r.IntN(len(buf) - length + 1)
	for i := 0; i < length; i++ {
		buf[start+i], buf[destStart+i] = buf[destStart+i], buf[start+i]
	}
}

func readLE(window []byte) uint64 {
	var v uint64
	for i, b := range window {
		v |= uint64(b) << (8 * i)
	}
	return v
}

func writeLE(window []byte, v uint64, width int) {
	for i := 0; i < width; i++ {
		window[i] = byte(v >> (8 * i))
	}
}

func maskWidth(v uint64, width int) uint64 {
	if width >= 8 {
		return v
	}
	return v & ((uint64(1) << (8 * width)) - 1)
}

func swapBytes(v uint64, width int) uint64 {
	var out uint64
	for i := 0; i < width; i++ {
		b := byte(v >> (8 * i))
		out |= uint64(b) << (8 * (width - 1 - i))
	}
	return out
}
