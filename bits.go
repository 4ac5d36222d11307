// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scanchain

// Encode returns the n least significant bits of v, most significant bit
// first.
//
func Encode(v uint64, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n && i < 64; i++ {
		bits[n-1-i] = v&(1<<uint(i)) != 0
	}
	return bits
}

// Decode returns the integer value of bits, most significant bit first. This
// is the order in which ShiftOut returns the bits of a register.
//
func Decode(bits []bool) uint64 {
	var v uint64
	for i, b := range Reverse(bits) {
		if b {
			v += 1 << uint(i)
		}
	}
	return v
}

// Reverse returns a reversed copy of bits.
//
func Reverse(bits []bool) []bool {
	r := make([]bool, len(bits))
	for i, b := range bits {
		r[len(bits)-1-i] = b
	}
	return r
}
