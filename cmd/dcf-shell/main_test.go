// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-lpc/dcf77/timecode"
)

func TestShell(t *testing.T) {
	now := func() time.Time {
		return time.Date(2017, 7, 8, 7, 10, 42, 0, time.UTC)
	}

	for _, tc := range []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "next-now",
			lines: []string{":tz Europe/Berlin", ":next 2"},
			want:  "0000123281F85C00\n0000322281F85C00\n",
		},
		{
			name:  "create",
			lines: []string{":tz Europe/Berlin", "1707080909", ":n"},
			want:  "0000322181F85C00\n0000123281F85C00\n",
		},
		{
			name:  "inspect-next",
			lines: []string{":tz Europe/Berlin", "0000123281F85C00", ":next"},
			want: "0000123281F85C00 -> 2017-07-08 09:10:00 (Saturday, dst=on)\n" +
				dump(t, "0000123281F85C00") +
				"0000322281F85C00\n",
		},
		{
			name:  "inspect-invalid",
			lines: []string{"0000000000000000"},
			want: "0000000000000000 -> 2000-00-00 00:00:00 (Sunday, dst=off)\n" +
				"# timecode: S=0: timecode: invalid marker bit\n" +
				dump(t, "0000000000000000"),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := new(strings.Builder)
			sh := newShell(out, now)
			for _, line := range tc.lines {
				err := sh.exec(line)
				if err != nil {
					t.Fatalf("could not execute %q: %+v", line, err)
				}
			}

			if got, want := out.String(), tc.want; got != want {
				t.Fatalf("invalid output:\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestShellErrors(t *testing.T) {
	sh := newShell(new(strings.Builder), time.Now)
	for _, tc := range []struct {
		line string
		err  error
	}{
		{line: ":quit", err: errQuit},
		{line: ":q", err: errQuit},
		{line: ":tz"},
		{line: ":tz Middle/Earth"},
		{line: ":next x"},
		{line: ":boo"},
		{line: "12 34"},
		{line: "123"},
		{line: "000000000000000z"},
	} {
		t.Run(tc.line, func(t *testing.T) {
			err := sh.exec(tc.line)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
			}
		})
	}

	for _, line := range []string{"", "   ", ":help"} {
		err := sh.exec(line)
		if err != nil {
			t.Fatalf("could not execute %q: %+v", line, err)
		}
	}
}

func dump(t *testing.T, txt string) string {
	t.Helper()
	blk, err := timecode.ParseBlock(txt)
	if err != nil {
		t.Fatalf("could not parse block: %+v", err)
	}
	o := new(strings.Builder)
	err = timecode.Dump(o, blk)
	if err != nil {
		t.Fatalf("could not dump block: %+v", err)
	}
	return o.String()
}
