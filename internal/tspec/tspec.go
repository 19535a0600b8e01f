// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tspec parses the time specifications accepted by the dcf77 commands.
//
// A time specification is either empty (the current time), a partial
// [[[[yy]mm]dd]HH]MM timestamp right-aligned against the current time, or a
// 16-character hex telegram.
package tspec // import "github.com/go-lpc/dcf77/internal/tspec"

import (
	"strconv"
	"time"

	"github.com/go-lpc/dcf77/timecode"
	"golang.org/x/xerrors"
)

const layout = "0601021504" // yymmddHHMM

var (
	ErrLength = xerrors.New("tspec: invalid timespec length")
	ErrDigit  = xerrors.New("tspec: invalid timespec digit")
)

// Parse parses spec relative to now.
//
// Partial timestamps yield a calendar with an unknown DST state: callers
// are expected to normalize it before encoding.
func Parse(spec string, now time.Time) (timecode.Calendar, error) {
	switch len(spec) {
	case 0:
		return timecode.FromTime(now.Truncate(time.Minute)), nil
	case 2, 4, 6, 8, 10:
		return parseStamp(spec, now)
	case timecode.TextLen:
		blk, err := timecode.ParseBlock(spec)
		if err != nil {
			return timecode.Calendar{}, xerrors.Errorf("tspec: could not parse block %q: %w", spec, err)
		}
		return timecode.Decode(blk), nil
	default:
		return timecode.Calendar{}, xerrors.Errorf("tspec: could not parse %q: %w", spec, ErrLength)
	}
}

func parseStamp(spec string, now time.Time) (timecode.Calendar, error) {
	for i := 0; i < len(spec); i++ {
		if spec[i] < '0' || '9' < spec[i] {
			return timecode.Calendar{}, xerrors.Errorf(
				"tspec: could not parse %q (pos=%d): %w", spec, i, ErrDigit,
			)
		}
	}

	stamp := now.Format(layout)
	stamp = stamp[:len(stamp)-len(spec)] + spec

	var vs [5]int
	for i := range vs {
		v, err := strconv.Atoi(stamp[2*i : 2*i+2])
		if err != nil {
			return timecode.Calendar{}, xerrors.Errorf("tspec: could not parse %q: %w", stamp, err)
		}
		vs[i] = v
	}

	return timecode.Calendar{
		Year:   2000 + vs[0],
		Month:  time.Month(vs[1]),
		Day:    vs[2],
		Hour:   vs[3],
		Minute: vs[4],
		DST:    timecode.DSTUnknown,
	}, nil
}
