// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"fmt"
	"time"
)

// DST describes the daylight saving time state of a calendar time.
type DST int8

const (
	DSTUnknown DST = iota // not resolved yet
	DSTOff                // standard time (CET)
	DSTOn                 // summer time (CEST)
)

func (dst DST) String() string {
	switch dst {
	case DSTUnknown:
		return "unknown"
	case DSTOff:
		return "off"
	case DSTOn:
		return "on"
	}
	return fmt.Sprintf("DST(%d)", int8(dst))
}

var (
	CET  = time.FixedZone("CET", 1*60*60)  // central european time
	CEST = time.FixedZone("CEST", 2*60*60) // central european summer time
)

// Calendar is a broken-down calendar time, as carried by a telegram.
// Fields may hold out-of-range values until the calendar is normalized.
type Calendar struct {
	Year    int // full year, e.g. 2017
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
	DST     DST
}

// FromTime returns the calendar time of t, in the location of t.
func FromTime(t time.Time) Calendar {
	dst := DSTOff
	if t.IsDST() {
		dst = DSTOn
	}
	return Calendar{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: t.Weekday(),
		DST:     dst,
	}
}

// In returns the instant described by the calendar in the provided location.
// Out-of-range fields are normalized by time.Date.
func (c Calendar) In(loc *time.Location) time.Time {
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second, 0, loc)
}

// Zone returns the DCF77 time zone implied by the DST flag of the calendar.
// Calendars with an unknown DST state are placed in UTC.
func (c Calendar) Zone() *time.Location {
	switch c.DST {
	case DSTOn:
		return CEST
	case DSTOff:
		return CET
	}
	return time.UTC
}

// Time returns the instant described by the calendar in its DCF77 time zone.
func (c Calendar) Time() time.Time {
	return c.In(c.Zone())
}

// AddMinutes returns the calendar advanced by n minutes, normalized by norm.
// With a Location normalizer and a known DST state, n is a number of elapsed
// minutes, even across DST changes.
func (c Calendar) AddMinutes(n int, norm Normalizer) Calendar {
	c.Minute += n
	return normalizer(norm).Normalize(c)
}

func (c Calendar) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d (%s, dst=%v)",
		c.Year, int(c.Month), c.Day, c.Hour, c.Minute, c.Second,
		c.Weekday, c.DST,
	)
}

// Normalizer canonicalizes calendar times.
//
// Normalize carries out-of-range fields (minute=60, hour=-1, ...) into the
// larger units and recomputes the weekday and DST state of the resulting
// instant.
type Normalizer interface {
	Normalize(c Calendar) Calendar
}

// Location normalizes calendar times using the rules of a time.Location.
// A nil Loc means time.Local.
//
// When the DST state of a calendar time is known, it selects the UTC offset
// of its wall clock: 02:30 with DST on is the first 02:30 of a fall-back
// night, and 03:00 with DST on, one minute after 02:59 CEST, is 02:00 CET.
type Location struct {
	Loc *time.Location
}

// Normalize implements Normalizer.
func (loc Location) Normalize(c Calendar) Calendar {
	tz := loc.Loc
	if tz == nil {
		tz = time.Local
	}

	t := c.In(tz)
	if dst := c.DST == DSTOn; c.DST != DSTUnknown && t.IsDST() != dst {
		if off, ok := adjacentOffset(t, dst); ok {
			t = c.In(time.UTC).Add(-time.Duration(off) * time.Second).In(tz)
		}
	}
	return FromTime(t)
}

// adjacentOffset returns the UTC offset of the zone period preceding or
// following the one of t, if its DST state is dst.
func adjacentOffset(t time.Time, dst bool) (int, bool) {
	beg, end := t.ZoneBounds()
	if !beg.IsZero() {
		prev := beg.Add(-time.Nanosecond)
		if prev.IsDST() == dst {
			_, off := prev.Zone()
			return off, true
		}
	}
	if !end.IsZero() && end.IsDST() == dst {
		_, off := end.Zone()
		return off, true
	}
	return 0, false
}

func normalizer(norm Normalizer) Normalizer {
	if norm == nil {
		return Location{}
	}
	return norm
}

var _ Normalizer = (*Location)(nil)
