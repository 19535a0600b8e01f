// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package station

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-lpc/dcf77/timecode"
)

var berlin = func() timecode.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return timecode.Location{Loc: loc}
}()

func TestStation(t *testing.T) {
	beg := timecode.FromTime(time.Date(2017, 3, 26, 0, 58, 0, 0, time.UTC).In(berlin.Loc))
	st := New(beg, berlin)

	if got, want := st.Current(), beg; got != want {
		t.Fatalf("invalid start:\ngot= %v\nwant=%v", got, want)
	}

	for i, want := range []struct {
		hour, min int
		dst       timecode.DST
		blk       string
	}{
		{1, 58, timecode.DSTOff, "0000153B687E5C00"},
		{1, 59, timecode.DSTOff, "0000352B687E5C00"},
		{3, 0, timecode.DSTOn, "00001260607E5C00"},
	} {
		cal, blk := st.Next()
		if cal.Hour != want.hour || cal.Minute != want.min || cal.DST != want.dst {
			t.Fatalf("invalid calendar %d: got=%v", i, cal)
		}
		if got := blk.String(); got != want.blk {
			t.Fatalf("invalid block %d: got=%q, want=%q", i, got, want.blk)
		}
		if got := timecode.Decode(blk); got != cal {
			t.Fatalf("invalid round-trip %d:\ngot= %v\nwant=%v", i, got, cal)
		}
	}

	st.Skip(-1)
	if cur := st.Current(); cur.Hour != 3 || cur.Minute != 0 {
		t.Fatalf("invalid calendar after skip: %v", cur)
	}

	st.Skip(24 * 60)
	cur := st.Current()
	if cur.Day != 27 || cur.Hour != 3 || cur.Minute != 0 || cur.DST != timecode.DSTOn {
		t.Fatalf("invalid calendar after skip: %v", cur)
	}
}

func TestStationNormalizesStart(t *testing.T) {
	st := New(timecode.Calendar{
		Year: 2017, Month: time.December, Day: 31, Hour: 23, Minute: 60,
	}, timecode.Location{Loc: time.UTC})

	want := timecode.Calendar{
		Year: 2018, Month: time.January, Day: 1,
		Weekday: time.Monday, DST: timecode.DSTOff,
	}
	if got := st.Current(); got != want {
		t.Fatalf("invalid start:\ngot= %v\nwant=%v", got, want)
	}
}

func TestStationFallBack(t *testing.T) {
	var (
		utc = time.Date(2017, 10, 28, 23, 58, 0, 0, time.UTC)
		st  = New(timecode.FromTime(utc.In(berlin.Loc)), berlin)
		a1  = 0
		n   = 4 * 60

		blks = map[string]string{
			"01:59 CEST": "0000322B981E5E04",
			"02:00 CEST": "00001340981E5E04",
			"02:59 CEST": "0000334B981E5E04",
			"02:00 CET":  "00001440981E5E04",
		}
	)

	for i := 0; i < n; i++ {
		cal, blk := st.Next()
		if got, want := cal.Time(), utc.Add(time.Duration(i)*time.Minute); !got.Equal(want) {
			t.Fatalf("invalid instant %d: got=%v, want=%v", i, got.UTC(), want)
		}
		if blk.Get(timecode.A1) == 1 {
			a1++
		}
		key := cal.Time().Format("15:04 MST")
		if want, ok := blks[key]; ok {
			if got := blk.String(); got != want {
				t.Fatalf("invalid block at %s: got=%q, want=%q", key, got, want)
			}
			delete(blks, key)
		}
	}

	if got, want := a1, 60; got != want {
		t.Fatalf("invalid number of DST announcements: got=%d, want=%d", got, want)
	}
	if len(blks) != 0 {
		t.Fatalf("missing telegrams: %v", blks)
	}
}
