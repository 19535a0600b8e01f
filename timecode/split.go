// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"fmt"
	"io"
	"strings"
)

// FieldView is a diagnostic view of one field of a telegram.
type FieldView struct {
	Field Field
	Value uint32

	Bin  string // field bits, least significant bit first
	Hex  string // field value, lowercase hexadecimal
	Name string
	Desc string
}

// Split decomposes a telegram into its fields, in transmission order.
// Each call returns freshly allocated views.
func Split(blk Block) []FieldView {
	views := make([]FieldView, nFields)
	for i := range views {
		var (
			f   = Field(i)
			v   = blk.Get(f)
			bin strings.Builder
		)
		bin.Grow(f.Width())
		for j := 0; j < f.Width(); j++ {
			switch v & (1 << j) {
			case 0:
				bin.WriteByte('0')
			default:
				bin.WriteByte('1')
			}
		}
		views[i] = FieldView{
			Field: f,
			Value: v,
			Bin:   bin.String(),
			Hex:   fmt.Sprintf("%x", v),
			Name:  f.Name(),
			Desc:  f.Desc(),
		}
	}
	return views
}

// Dump writes the field views of a telegram to w, one field per line.
func Dump(w io.Writer, blk Block) error {
	for _, v := range Split(blk) {
		_, err := fmt.Fprintf(w, "%14s : %4s : %-7s : %s\n", v.Bin, v.Hex, v.Name, v.Desc)
		if err != nil {
			return fmt.Errorf("timecode: could not dump field %v: %w", v.Field, err)
		}
	}
	return nil
}
