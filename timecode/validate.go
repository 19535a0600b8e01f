// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"github.com/go-lpc/dcf77/internal/bitfield"
	"golang.org/x/xerrors"
)

var (
	ErrMarker = xerrors.New("timecode: invalid marker bit")
	ErrZone   = xerrors.New("timecode: inconsistent time zone bits")
	ErrParity = xerrors.New("timecode: invalid parity bit")
	ErrBCD    = xerrors.New("timecode: invalid BCD value")
)

// Validate checks the structure of a telegram: marker bits, time zone
// bits, parity bits and BCD ranges.
// Validate returns the first inconsistency found, wrapping one of
// ErrMarker, ErrZone, ErrParity or ErrBCD.
func Validate(blk Block) error {
	switch {
	case blk.Get(M) != 0:
		return xerrors.Errorf("timecode: M=%d: %w", blk.Get(M), ErrMarker)
	case blk.Get(S) != 1:
		return xerrors.Errorf("timecode: S=%d: %w", blk.Get(S), ErrMarker)
	case blk.Get(MM) != 0:
		return xerrors.Errorf("timecode: minute mark=%d: %w", blk.Get(MM), ErrMarker)
	}

	if z1, z2 := blk.Get(Z1), blk.Get(Z2); z1 == z2 {
		return xerrors.Errorf("timecode: Z1=%d, Z2=%d: %w", z1, z2, ErrZone)
	}

	for _, p := range []struct {
		bit  Field
		want uint32
	}{
		{P1, bitfield.EvenParity(blk.Get(Minute))},
		{P2, bitfield.EvenParity(blk.Get(Hour))},
		{P3, dateParity(blk)},
	} {
		if got := blk.Get(p.bit); got != p.want {
			return xerrors.Errorf("timecode: %v=%d, want=%d: %w",
				p.bit, got, p.want, ErrParity,
			)
		}
	}

	for _, r := range []struct {
		f        Field
		min, max uint32
	}{
		{Minute, 0, 59},
		{Hour, 0, 23},
		{DayOfMonth, 1, 31},
		{DayOfWeek, 1, 7},
		{Month, 1, 12},
		{Year, 0, 99},
	} {
		raw := blk.Get(r.f)
		if !bitfield.ValidBCD(raw) {
			return xerrors.Errorf("timecode: %v=0x%x: %w", r.f, raw, ErrBCD)
		}
		v := bitfield.DecodeBCD(raw)
		if v < r.min || r.max < v {
			return xerrors.Errorf("timecode: %v=%d out of range [%d, %d]: %w",
				r.f, v, r.min, r.max, ErrBCD,
			)
		}
	}

	return nil
}
