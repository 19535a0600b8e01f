// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timecode

import (
	"bufio"
	"io"

	"golang.org/x/xerrors"
)

// Encoder writes telegrams to an output stream, as hex-text lines.
type Encoder struct {
	w    io.Writer
	buf  []byte
	err  error
	norm Normalizer
}

// NewEncoder returns a new Encoder that writes to w.
// Calendar times are normalized with norm when looking ahead for DST changes.
func NewEncoder(w io.Writer, norm Normalizer) *Encoder {
	return &Encoder{
		w:    w,
		buf:  make([]byte, TextLen+1),
		norm: norm,
	}
}

// Encode converts c into a telegram and writes it to the stream.
func (enc *Encoder) Encode(c *Calendar) error {
	if c == nil {
		return xerrors.Errorf("timecode: could not encode calendar: %w", ErrNilArgument)
	}
	return enc.EncodeBlock(Encode(*c, enc.norm))
}

// EncodeBlock writes the hex-text form of blk to the stream.
// Once a write failed, subsequent calls return the same error.
func (enc *Encoder) EncodeBlock(blk Block) error {
	if enc.err != nil {
		return enc.err
	}

	_, _ = blk.PutText(enc.buf) // can not fail.
	enc.buf[TextLen] = '\n'

	_, err := enc.w.Write(enc.buf)
	if err != nil {
		enc.err = xerrors.Errorf("timecode: could not write block %v: %w", blk, err)
	}
	return enc.err
}

// Decoder reads hex-text telegrams from an input stream.
// Telegrams are separated by white space.
type Decoder struct {
	sc  *bufio.Scanner
	n   int // number of tokens read so far
	err error
}

// NewDecoder creates a decoder that reads telegrams from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Decoder{sc: sc}
}

// Decode reads the next telegram from the stream into blk.
// Decode returns io.EOF when no more telegrams are available.
func (dec *Decoder) Decode(blk *Block) error {
	if blk == nil {
		return xerrors.Errorf("timecode: could not decode block: %w", ErrNilArgument)
	}
	if dec.err != nil {
		return dec.err
	}

	if !dec.sc.Scan() {
		dec.err = io.EOF
		if err := dec.sc.Err(); err != nil {
			dec.err = xerrors.Errorf("timecode: could not read block %d: %w", dec.n, err)
		}
		return dec.err
	}

	i := dec.n
	dec.n++

	v, err := ParseBlock(dec.sc.Text())
	if err != nil {
		return xerrors.Errorf("timecode: could not decode block %d: %w", i, err)
	}
	*blk = v
	return nil
}
