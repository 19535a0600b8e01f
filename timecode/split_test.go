// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"golang.org/x/xerrors"
)

func TestSplitZero(t *testing.T) {
	views := Split(Block{})
	if got, want := len(views), 18; got != want {
		t.Fatalf("invalid number of views: got=%d, want=%d", got, want)
	}

	sum := 0
	for i, v := range views {
		if got, want := v.Field, Field(i); got != want {
			t.Fatalf("invalid field order: got=%v, want=%v", got, want)
		}
		if got, want := len(v.Bin), v.Field.Width(); got != want {
			t.Fatalf("field %v: invalid binary string length: got=%d, want=%d", v.Field, got, want)
		}
		if got, want := v.Bin, strings.Repeat("0", v.Field.Width()); got != want {
			t.Fatalf("field %v: invalid binary string: got=%q, want=%q", v.Field, got, want)
		}
		if got, want := v.Hex, "0"; got != want {
			t.Fatalf("field %v: invalid hex string: got=%q, want=%q", v.Field, got, want)
		}
		sum += len(v.Bin)
	}

	if got, want := sum, Bits; got != want {
		t.Fatalf("invalid total width: got=%d, want=%d", got, want)
	}
}

func TestSplit(t *testing.T) {
	blk, err := ParseBlock("0000123281F85C00")
	if err != nil {
		t.Fatalf("could not parse block: %+v", err)
	}

	want := []struct {
		bin, hex string
	}{
		{"0", "0"},
		{"00000000000000", "0"},
		{"0", "0"},
		{"0", "0"},
		{"1", "1"},
		{"0", "0"},
		{"0", "0"},
		{"1", "1"},
		{"0000100", "10"},
		{"1", "1"},
		{"100100", "9"},
		{"0", "0"},
		{"000100", "8"},
		{"011", "6"},
		{"11100", "7"},
		{"11101000", "17"},
		{"0", "0"},
		{"0", "0"},
	}

	views := Split(blk)
	if got, want := len(views), len(want); got != want {
		t.Fatalf("invalid number of views: got=%d, want=%d", got, want)
	}
	for i, v := range views {
		if v.Bin != want[i].bin || v.Hex != want[i].hex {
			t.Fatalf("field %v: got=(%q, %q), want=(%q, %q)",
				v.Field, v.Bin, v.Hex, want[i].bin, want[i].hex,
			)
		}
		if v.Name != v.Field.Name() || v.Desc != v.Field.Desc() {
			t.Fatalf("field %v: invalid name/desc: %q, %q", v.Field, v.Name, v.Desc)
		}
	}

	if again := Split(blk); !reflect.DeepEqual(again, views) {
		t.Fatalf("split is not deterministic")
	}
}

func TestSplitConcurrent(t *testing.T) {
	blks := []Block{{}, New(), {0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}}
	refs := make([][]FieldView, len(blks))
	for i, blk := range blks {
		refs[i] = Split(blk)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j := i % len(blks)
			if got := Split(blks[j]); !reflect.DeepEqual(got, refs[j]) {
				t.Errorf("invalid views for block %v", blks[j])
			}
		}(i)
	}
	wg.Wait()
}

func TestDump(t *testing.T) {
	blk, err := ParseBlock("0000123281F85C00")
	if err != nil {
		t.Fatalf("could not parse block: %+v", err)
	}

	out := new(strings.Builder)
	err = Dump(out, blk)
	if err != nil {
		t.Fatalf("could not dump block: %+v", err)
	}

	want := `             0 :    0 : M       : Start of minute
00000000000000 :    0 : weather : Weather info
             0 :    0 : R       : Abnormal transmitter operation
             0 :    0 : A1      : Summer time announcement
             1 :    1 : Z1      : CEST in effect
             0 :    0 : Z2      : CET in effect
             0 :    0 : A2      : Leap second announcement
             1 :    1 : S       : Start of encoded time
       0000100 :   10 : min     : Minutes 00-59
             1 :    1 : P1      : Even parity over minute bits
        100100 :    9 : hour    : Hours 00-23
             0 :    0 : P2      : Even parity over hour bits
        000100 :    8 : dom     : Day of month
           011 :    6 : dow     : Day of week (Mon=1, Sun=7)
         11100 :    7 : month   : Month number 01-12
      11101000 :   17 : year    : Year within century 00-99
             0 :    0 : P3      : Parity over date bits
             0 :    0 : -       : Minute Mark (no AM)
`
	if got := out.String(); got != want {
		t.Fatalf("invalid dump:\ngot:\n%s\nwant:\n%s\n", got, want)
	}
}

func TestValidate(t *testing.T) {
	ref := Encode(Calendar{
		Year: 2017, Month: 7, Day: 8, Hour: 9, Minute: 10,
		Weekday: 6, DST: DSTOn,
	}, fixedDST(DSTOn))

	for _, tc := range []struct {
		name string
		blk  func() Block
		want error
	}{
		{
			name: "valid",
			blk:  func() Block { return ref },
		},
		{
			name: "zero",
			blk:  func() Block { return Block{} },
			want: ErrMarker,
		},
		{
			name: "M",
			blk:  func() Block { b := ref; b.Set(M, 1); return b },
			want: ErrMarker,
		},
		{
			name: "minute-mark",
			blk:  func() Block { b := ref; b.Set(MM, 1); return b },
			want: ErrMarker,
		},
		{
			name: "zones",
			blk:  func() Block { b := ref; b.Set(Z2, 1); return b },
			want: ErrZone,
		},
		{
			name: "P1",
			blk:  func() Block { b := ref; b.Set(P1, 1^b.Get(P1)); return b },
			want: ErrParity,
		},
		{
			name: "P2",
			blk:  func() Block { b := ref; b.Set(P2, 1^b.Get(P2)); return b },
			want: ErrParity,
		},
		{
			name: "P3",
			blk:  func() Block { b := ref; b.Set(P3, 1^b.Get(P3)); return b },
			want: ErrParity,
		},
		{
			name: "bcd-digit",
			blk: func() Block {
				b := ref
				b.Set(Minute, 0x1a) // parity of 0x1a is 1, as for 0x10.
				return b
			},
			want: ErrBCD,
		},
		{
			name: "bcd-range",
			blk: func() Block {
				b := ref
				b.Set(Hour, 0x30) // parity of 0x30 is 0, as for 0x09.
				return b
			},
			want: ErrBCD,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.blk())
			switch {
			case err == nil && tc.want == nil:
				// ok
			case err != nil && tc.want != nil:
				if !xerrors.Is(err, tc.want) {
					t.Fatalf("invalid error:\ngot= %+v\nwant=%+v", err, tc.want)
				}
			default:
				t.Fatalf("invalid error:\ngot= %+v\nwant=%+v", err, tc.want)
			}
		})
	}
}
