// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"fmt"

	"github.com/go-lpc/dcf77/internal/bitfield"
)

// Field identifies one field of a DCF77 telegram.
type Field int

const (
	M          Field = iota // start of minute, always 0
	Civil                   // civil warning / weather information
	R                       // abnormal transmitter operation
	A1                      // DST change announcement
	Z1                      // CEST in effect
	Z2                      // CET in effect
	A2                      // leap second announcement
	S                       // start of encoded time, always 1
	Minute                  // BCD minutes
	P1                      // even parity over minute bits
	Hour                    // BCD hours
	P2                      // even parity over hour bits
	DayOfMonth              // BCD day of month
	DayOfWeek               // Monday=1, Sunday=7
	Month                   // BCD month number
	Year                    // BCD year within century
	P3                      // even parity over date bits
	MM                      // minute mark, no modulation

	nFields
)

var layout = [nFields]struct {
	name   string
	desc   string
	offset uint
	width  uint
}{
	M:          {"M", "Start of minute", 0, 1},
	Civil:      {"weather", "Weather info", 1, 14},
	R:          {"R", "Abnormal transmitter operation", 15, 1},
	A1:         {"A1", "Summer time announcement", 16, 1},
	Z1:         {"Z1", "CEST in effect", 17, 1},
	Z2:         {"Z2", "CET in effect", 18, 1},
	A2:         {"A2", "Leap second announcement", 19, 1},
	S:          {"S", "Start of encoded time", 20, 1},
	Minute:     {"min", "Minutes 00-59", 21, 7},
	P1:         {"P1", "Even parity over minute bits", 28, 1},
	Hour:       {"hour", "Hours 00-23", 29, 6},
	P2:         {"P2", "Even parity over hour bits", 35, 1},
	DayOfMonth: {"dom", "Day of month", 36, 6},
	DayOfWeek:  {"dow", "Day of week (Mon=1, Sun=7)", 42, 3},
	Month:      {"month", "Month number 01-12", 45, 5},
	Year:       {"year", "Year within century 00-99", 50, 8},
	P3:         {"P3", "Parity over date bits", 58, 1},
	MM:         {"-", "Minute Mark (no AM)", 59, 1},
}

// Fields returns all the telegram fields, in transmission order.
func Fields() []Field {
	fs := make([]Field, nFields)
	for i := range fs {
		fs[i] = Field(i)
	}
	return fs
}

func (f Field) valid() bool { return 0 <= f && f < nFields }

// Name returns the short name of the field.
func (f Field) Name() string {
	if !f.valid() {
		return ""
	}
	return layout[f].name
}

// Desc returns a human readable description of the field.
func (f Field) Desc() string {
	if !f.valid() {
		return ""
	}
	return layout[f].desc
}

// Offset returns the position of the first bit of the field in the telegram,
// or -1 for an invalid field.
func (f Field) Offset() int {
	if !f.valid() {
		return -1
	}
	return int(layout[f].offset)
}

// Width returns the number of bits of the field, or 0 for an invalid field.
func (f Field) Width() int {
	if !f.valid() {
		return 0
	}
	return int(layout[f].width)
}

func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return layout[f].name
}

// Get returns the raw value of field f.
// Get returns 0 for an invalid field.
func (blk Block) Get(f Field) uint32 {
	if !f.valid() {
		return 0
	}
	return bitfield.Get(blk[:], layout[f].offset, layout[f].width)
}

// Set stores v into field f. v is truncated to the width of the field.
// Set is a no-op for an invalid field.
func (blk *Block) Set(f Field, v uint32) {
	if !f.valid() {
		return
	}
	bitfield.Set(blk[:], layout[f].offset, layout[f].width, v)
}
