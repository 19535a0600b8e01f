// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitfield holds the low-level bit-packing primitives used to
// build DCF77 telegrams: two-digit BCD conversion, even parity and
// shift-and-mask accessors over a LSB-first bit stream.
package bitfield // import "github.com/go-lpc/dcf77/internal/bitfield"

import "math/bits"

// EncodeBCD packs v as two BCD nibbles.
// Values above 99 wrap around (v is taken modulo 100).
func EncodeBCD(v uint32) uint32 {
	v %= 100
	return (v/10)<<4 | v%10
}

// DecodeBCD unpacks the two BCD nibbles of v.
// Nibbles are not validated: a malformed input yields values above 99.
func DecodeBCD(v uint32) uint32 {
	hi := (v >> 4) & 0xf
	lo := v & 0xf
	return 10*hi + lo
}

// ValidBCD reports whether every nibble of v holds a decimal digit.
func ValidBCD(v uint32) bool {
	for ; v != 0; v >>= 4 {
		if v&0xf > 9 {
			return false
		}
	}
	return true
}

// EvenParity returns the parity bit that makes the number of ones in v,
// counted over the full 32-bit width, even.
func EvenParity(v uint32) uint32 {
	return uint32(bits.OnesCount32(v) % 2)
}

// Get extracts width bits starting at bit off of the stream p.
// Bit i of the stream is bit i%8 of byte i/8.
func Get(p []byte, off, width uint) uint32 {
	var v uint32
	for i := uint(0); i < width; i++ {
		pos := off + i
		if p[pos/8]&(1<<(pos%8)) != 0 {
			v |= 1 << i
		}
	}
	return v
}

// Set stores the low width bits of v starting at bit off of the stream p.
func Set(p []byte, off, width uint, v uint32) {
	for i := uint(0); i < width; i++ {
		pos := off + i
		mask := byte(1 << (pos % 8))
		switch {
		case v&(1<<i) != 0:
			p[pos/8] |= mask
		default:
			p[pos/8] &^= mask
		}
	}
}
