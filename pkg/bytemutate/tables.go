// Package bytemutate implements the primitive randomized byte-region edits
// that every typed scalar mutation ultimately bottoms out in.
package bytemutate

// ArithMax is the largest magnitude an arithmetic mutator will add or
// subtract in a single application.
const ArithMax = 35

// Interesting8 lists the canonical AFL 8-bit interesting values.
var Interesting8 = [9]int8{-128, -1, 0, 1, 16, 32, 64, 100, 127}

// Interesting16 lists the canonical AFL 16-bit interesting values: the
// 8-bit set plus boundary values that only matter at 16 bits.
var Interesting16 = [19]int16{
	-128, -1, 0, 1, 16, 32, 64, 100, 127,
	-32768, -129, 128, 255, 256, 512, 1000, 1024, 4096, 32767,
}

// Interesting32 lists the canonical AFL 32-bit interesting values: the
// 16-bit set plus boundary values that only matter at 32 bits.
var Interesting32 = [27]int32{
	-128, -1, 0, 1, 16, 32, 64, 100, 127,
	-32768, -129, 128, 255, 256, 512, 1000, 1024, 4096, 32767,
	-2147483648, -100663046, -32769, 32768, 65535, 65536, 100663045, 2147483647,
}
