// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dcfcode creates and dumps DCF77 telegrams.
//
// Usage:
//
//	$> dcfcode -c [-t <timespec>] [-s <offset>] [-n <repeat>]
//	$> dcfcode -d [-f <time_format>] <block1> [<blockN>]
//	$> dcfcode -D <block1> [<blockN>]
//
// where:
//
//	-t { [[[[yy]mm]dd]HH]MM | <block> }
//	-s { [+]<minutes> | -<minutes> }
//	-f <according to strftime(3)>
//
// Example:
//
//	$> dcfcode -c -t 1707080910 -n 2
//	0000123281F85C00
//	0000322281F85C00
//
//	$> dcfcode -d 0000123281F85C00
//	0000123281F85C00 -> Sat Jul  8 09:10:00 2017 (CEST)
package main // import "github.com/go-lpc/dcf77/cmd/dcfcode"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-lpc/dcf77/internal/tspec"
	"github.com/go-lpc/dcf77/station"
	"github.com/go-lpc/dcf77/timecode"
	"github.com/lestrrat-go/strftime"
)

const (
	exitUsage   = 64 // EX_USAGE
	exitDataErr = 65 // EX_DATAERR
)

var errUsage = errors.New("incorrect usage")

func main() {
	log.SetPrefix("dcfcode: ")
	log.SetFlags(0)

	var (
		doCreate = flag.Bool("c", false, "create blocks")
		doDump   = flag.Bool("d", false, "dump blocks as time")
		doSplit  = flag.Bool("D", false, "split blocks in fields")
		doCheck  = flag.Bool("V", false, "validate blocks before dumping them")

		format = flag.String("f", "%c (%Z)", "time format of dumped blocks, according to strftime(3)")
		repeat = flag.Int("n", 1, "number of blocks to create")
		offset = flag.Int("s", 0, "start offset, in minutes")
		spec   = flag.String("t", "", "time specification: [[[[yy]mm]dd]HH]MM or a block")
		tz     = flag.String("tz", "", "time zone location (default: local)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `*** dcfcode: Incorrect usage ***

    Mode of operation is selected by:
  %% dcfcode { -c | -d | -D } ...

    To create a block, use:
  %% dcfcode -c [-t <timespec>] [-s <offset>] [-n <repeat>]
    To dump a block, run:
  %% dcfcode -d [-f <time_format>] <block1> [<blockN>]
    To split a block in bits, use:
  %% dcfcode -D <block1> [<blockN>]
    where:
    -t { [[[[yy]mm]dd]HH]MM | <block> }
    -s { [+]<minutes> | -<minutes> }
    -f <according to strftime(3)>

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	loc := time.Local
	if *tz != "" {
		v, err := time.LoadLocation(*tz)
		if err != nil {
			log.Printf("could not load time zone %q: %+v", *tz, err)
			os.Exit(exitUsage)
		}
		loc = v
	}

	var err error
	switch mode(*doCreate, *doDump, *doSplit) {
	case 'c':
		err = processCreate(os.Stdout, *spec, *offset, *repeat, time.Now().In(loc), loc)
	case 'd':
		err = processDump(os.Stdout, *format, *doCheck, flag.Args())
	case 'D':
		err = processSplit(os.Stdout, *doCheck, flag.Args())
	default:
		err = errUsage
	}

	switch {
	case err == nil:
		return
	case errors.Is(err, errUsage):
		flag.Usage()
		os.Exit(exitUsage)
	default:
		log.Printf("%+v", err)
		os.Exit(exitDataErr)
	}
}

func mode(create, dump, split bool) byte {
	n := 0
	o := byte(0)
	for _, m := range []struct {
		ok bool
		c  byte
	}{
		{create, 'c'},
		{dump, 'd'},
		{split, 'D'},
	} {
		if m.ok {
			n++
			o = m.c
		}
	}
	if n != 1 {
		return 0
	}
	return o
}

func processCreate(w io.Writer, spec string, offset, repeat int, now time.Time, loc *time.Location) error {
	cal, err := tspec.Parse(spec, now)
	if err != nil {
		return fmt.Errorf("could not parse timespec %q: %w", spec, err)
	}

	var (
		norm = timecode.Location{Loc: loc}
		st   = station.New(cal, norm)
		enc  = timecode.NewEncoder(w, norm)
	)
	st.Skip(offset)

	for i := 0; i < repeat; i++ {
		_, blk := st.Next()
		err = enc.EncodeBlock(blk)
		if err != nil {
			return fmt.Errorf("could not write block %d: %w", i, err)
		}
	}

	return nil
}

func processDump(w io.Writer, format string, check bool, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	p, err := strftime.New(format)
	if err != nil {
		return fmt.Errorf("could not compile time format %q: %w", format, err)
	}

	for _, arg := range args {
		blk, err := parse(arg, check)
		if err != nil {
			return err
		}

		cal := timecode.Decode(blk)
		_, err = fmt.Fprintf(w, "%s -> %s\n", arg, p.FormatString(cal.Time()))
		if err != nil {
			return fmt.Errorf("could not dump block %q: %w", arg, err)
		}
	}

	return nil
}

func processSplit(w io.Writer, check bool, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	for _, arg := range args {
		blk, err := parse(arg, check)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "# %s\n", arg)
		if err != nil {
			return fmt.Errorf("could not dump block %q: %w", arg, err)
		}

		err = timecode.Dump(w, blk)
		if err != nil {
			return fmt.Errorf("could not dump block %q: %w", arg, err)
		}
	}

	return nil
}

func parse(arg string, check bool) (timecode.Block, error) {
	blk, err := timecode.ParseBlock(arg)
	if err != nil {
		return blk, fmt.Errorf("could not parse block %q: %w", arg, err)
	}

	if check {
		err = timecode.Validate(blk)
		if err != nil {
			return blk, fmt.Errorf("invalid block %q: %w", arg, err)
		}
	}

	return blk, nil
}
