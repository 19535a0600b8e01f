// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timecode encodes and decodes DCF77 time telegrams.
//
// A telegram is stored as an 8-byte Block, whose low 60 bits carry the
// DCF77 fields. Blocks are exchanged as 16-character hexadecimal text,
// most-significant byte first.
package timecode // import "github.com/go-lpc/dcf77/timecode"

import (
	"golang.org/x/xerrors"
)

const (
	BlockSize = 8  // size in bytes of a telegram block
	TextLen   = 16 // length of the hex-text form of a block
	Bits      = 60 // number of meaningful bits in a telegram
)

var (
	ErrInvalidLength = xerrors.New("timecode: invalid text length")
	ErrInvalidDigit  = xerrors.New("timecode: invalid hex digit")
	ErrShortBuffer   = xerrors.New("timecode: insufficient space for output")
	ErrNilArgument   = xerrors.New("timecode: nil argument")
)

// Block is the raw binary content of one DCF77 telegram.
type Block [BlockSize]byte

const hexdigits = "0123456789ABCDEF"

// ParseBlock decodes the 16 hexadecimal characters of text into a Block.
// Digits are case-insensitive.
func ParseBlock(text string) (Block, error) {
	var blk Block
	if len(text) != TextLen {
		return blk, xerrors.Errorf("timecode: could not parse block %q (len=%d): %w",
			text, len(text), ErrInvalidLength,
		)
	}

	for i := range blk {
		hi, ok1 := unhex(text[2*i])
		lo, ok2 := unhex(text[2*i+1])
		if !ok1 || !ok2 {
			return blk, xerrors.Errorf("timecode: could not parse byte %d of block %q: %w",
				i, text, ErrInvalidDigit,
			)
		}
		blk[i] = hi<<4 | lo
	}

	return blk, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// String returns the 16 uppercase hexadecimal characters of the block.
func (blk Block) String() string {
	return string(blk.AppendText(make([]byte, 0, TextLen)))
}

// AppendText appends the hex-text form of the block to dst.
func (blk Block) AppendText(dst []byte) []byte {
	for _, v := range blk {
		dst = append(dst, hexdigits[v>>4], hexdigits[v&0xf])
	}
	return dst
}

// PutText writes the hex-text form of the block into dst.
// PutText returns ErrShortBuffer if dst can not hold TextLen bytes.
func (blk Block) PutText(dst []byte) (int, error) {
	if len(dst) < TextLen {
		return 0, xerrors.Errorf("timecode: could not format block (cap=%d, want=%d): %w",
			len(dst), TextLen, ErrShortBuffer,
		)
	}
	for i, v := range blk {
		dst[2*i] = hexdigits[v>>4]
		dst[2*i+1] = hexdigits[v&0xf]
	}
	return TextLen, nil
}

// MarshalText implements encoding.TextMarshaler.
func (blk Block) MarshalText() ([]byte, error) {
	return blk.AppendText(make([]byte, 0, TextLen)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (blk *Block) UnmarshalText(text []byte) error {
	if blk == nil {
		return xerrors.Errorf("timecode: could not unmarshal block: %w", ErrNilArgument)
	}
	v, err := ParseBlock(string(text))
	if err != nil {
		return err
	}
	*blk = v
	return nil
}
