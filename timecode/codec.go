// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"time"

	"github.com/go-lpc/dcf77/internal/bitfield"
)

// New returns an empty telegram: all bits cleared except the
// start-of-encoded-time marker.
func New() Block {
	var blk Block
	blk.Set(S, 1)
	return blk
}

// Encode converts the calendar time c into a telegram.
//
// norm is used to look one hour ahead and announce an upcoming DST
// change (A1). A nil norm normalizes in the local time zone.
// An unknown DST state is encoded as standard time.
func Encode(c Calendar, norm Normalizer) Block {
	blk := New()

	wday := uint32(c.Weekday)
	if c.Weekday == time.Sunday {
		wday = 7
	}

	if dstChangeApproaching(c, normalizer(norm)) {
		blk.Set(A1, 1)
	}

	switch c.DST {
	case DSTOn:
		blk.Set(Z1, 1)
		blk.Set(Z2, 0)
	default:
		blk.Set(Z1, 0)
		blk.Set(Z2, 1)
	}

	blk.Set(Minute, bitfield.EncodeBCD(uint32(c.Minute)))
	blk.Set(Hour, bitfield.EncodeBCD(uint32(c.Hour)))
	blk.Set(DayOfMonth, bitfield.EncodeBCD(uint32(c.Day)))
	blk.Set(DayOfWeek, bitfield.EncodeBCD(wday))
	blk.Set(Month, bitfield.EncodeBCD(uint32(c.Month)))
	blk.Set(Year, bitfield.EncodeBCD(uint32(c.Year)))

	blk.Set(P1, bitfield.EvenParity(blk.Get(Minute)))
	blk.Set(P2, bitfield.EvenParity(blk.Get(Hour)))
	blk.Set(P3, dateParity(blk))

	return blk
}

// dateParity returns the P3 parity bit, computed over the date fields.
func dateParity(blk Block) uint32 {
	var c uint32
	c += bitfield.EvenParity(blk.Get(DayOfMonth))
	c += bitfield.EvenParity(blk.Get(DayOfWeek))
	c += bitfield.EvenParity(blk.Get(Month))
	c += bitfield.EvenParity(blk.Get(Year))
	return c % 2
}

func dstChangeApproaching(c Calendar, norm Normalizer) bool {
	next := c
	next.Hour++
	next = norm.Normalize(next)
	return (c.DST == DSTOn) != (next.DST == DSTOn)
}

// Decode converts a telegram into a calendar time.
//
// Decode does not validate the telegram: parity bits and markers are
// ignored and malformed BCD digits are decoded as is.
// Use Validate to check a telegram.
func Decode(blk Block) Calendar {
	wday := time.Weekday(blk.Get(DayOfWeek))
	if wday == 7 {
		wday = time.Sunday
	}

	dst := DSTOff
	if blk.Get(Z1) == 1 {
		dst = DSTOn
	}

	return Calendar{
		Year:    2000 + int(bitfield.DecodeBCD(blk.Get(Year))),
		Month:   time.Month(bitfield.DecodeBCD(blk.Get(Month))),
		Day:     int(bitfield.DecodeBCD(blk.Get(DayOfMonth))),
		Hour:    int(bitfield.DecodeBCD(blk.Get(Hour))),
		Minute:  int(bitfield.DecodeBCD(blk.Get(Minute))),
		Second:  0,
		Weekday: wday,
		DST:     dst,
	}
}
