// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package station emits DCF77 telegrams minute after minute, as a time
// signal transmitter would.
package station // import "github.com/go-lpc/dcf77/station"

import (
	"github.com/go-lpc/dcf77/timecode"
)

// Station generates the telegrams of consecutive minutes.
type Station struct {
	norm timecode.Normalizer
	cur  timecode.Calendar
}

// New returns a station whose first telegram encodes start.
// start is normalized with norm (nil means local time).
func New(start timecode.Calendar, norm timecode.Normalizer) *Station {
	if norm == nil {
		norm = timecode.Location{}
	}
	return &Station{
		norm: norm,
		cur:  start.AddMinutes(0, norm),
	}
}

// Current returns the calendar time of the next telegram.
func (st *Station) Current() timecode.Calendar {
	return st.cur
}

// Skip advances the station by n minutes. n may be negative.
func (st *Station) Skip(n int) {
	st.cur = st.cur.AddMinutes(n, st.norm)
}

// Next returns the telegram of the current minute and advances the
// station by one minute.
func (st *Station) Next() (timecode.Calendar, timecode.Block) {
	cal := st.cur
	blk := timecode.Encode(cal, st.norm)
	st.Skip(1)
	return cal, blk
}
