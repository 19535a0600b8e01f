// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dcf-shell is an interactive shell to create and inspect
// DCF77 telegrams.
//
// Example:
//
//	$> dcf-shell -tz Europe/Berlin
//	dcf> 1707080910
//	0000123281F85C00
//	dcf> :next 2
//	0000322281F85C00
//	0000522281F85C00
//	dcf> 0000123281F85C00
//	0000123281F85C00 -> 2017-07-08 09:10:00 (Saturday, dst=on)
//	             0 :    0 : M       : Start of minute
//	[...]
package main // import "github.com/go-lpc/dcf77/cmd/dcf-shell"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-lpc/dcf77/internal/tspec"
	"github.com/go-lpc/dcf77/station"
	"github.com/go-lpc/dcf77/timecode"
	"github.com/peterh/liner"
)

var errQuit = errors.New("quit")

func main() {
	log.SetPrefix("dcf-shell: ")
	log.SetFlags(0)

	var (
		tz   = flag.String("tz", "", "time zone location (default: local)")
		hist = flag.String("history", filepath.Join(os.TempDir(), ".dcf-shell.history"), "path to the history file")
	)

	flag.Parse()

	sh := newShell(os.Stdout, time.Now)
	if *tz != "" {
		err := sh.exec(":tz " + *tz)
		if err != nil {
			log.Fatalf("could not set time zone: %+v", err)
		}
	}

	err := run(sh, *hist)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(sh *shell, hist string) error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)

	if f, err := os.Open(hist); err == nil {
		_, _ = term.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.Create(hist)
		if err != nil {
			log.Printf("could not save history: %+v", err)
			return
		}
		defer f.Close()
		_, _ = term.WriteHistory(f)
	}()

	for {
		line, err := term.Prompt("dcf> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(sh.w)
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		err = sh.exec(line)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		default:
			log.Printf("%+v", err)
		}
	}
}

type shell struct {
	w    io.Writer
	now  func() time.Time
	loc  *time.Location
	norm timecode.Normalizer
	st   *station.Station
}

func newShell(w io.Writer, now func() time.Time) *shell {
	sh := &shell{w: w, now: now}
	sh.setLocation(time.Local)
	return sh
}

func (sh *shell) setLocation(loc *time.Location) {
	sh.loc = loc
	sh.norm = timecode.Location{Loc: loc}
	if sh.st != nil {
		sh.st = station.New(sh.st.Current(), sh.norm)
	}
}

func (sh *shell) exec(line string) error {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return nil
	}

	switch cmd := toks[0]; cmd {
	case ":q", ":quit":
		return errQuit

	case ":h", ":help":
		_, err := fmt.Fprint(sh.w, help)
		return err

	case ":tz":
		if len(toks) != 2 {
			return fmt.Errorf("usage: :tz <location>")
		}
		loc, err := time.LoadLocation(toks[1])
		if err != nil {
			return fmt.Errorf("could not load time zone %q: %w", toks[1], err)
		}
		sh.setLocation(loc)
		return nil

	case ":next", ":n":
		n := 1
		if len(toks) > 1 {
			v, err := strconv.Atoi(toks[1])
			if err != nil {
				return fmt.Errorf("could not parse number of blocks %q: %w", toks[1], err)
			}
			n = v
		}
		return sh.next(n)

	default:
		if strings.HasPrefix(cmd, ":") {
			return fmt.Errorf("unknown command %q", cmd)
		}
		if len(toks) != 1 {
			return fmt.Errorf("invalid input %q", line)
		}
		if len(cmd) == timecode.TextLen {
			return sh.inspect(cmd)
		}
		return sh.create(cmd)
	}
}

func (sh *shell) create(spec string) error {
	cal, err := tspec.Parse(spec, sh.now().In(sh.loc))
	if err != nil {
		return fmt.Errorf("could not parse timespec %q: %w", spec, err)
	}
	sh.st = station.New(cal, sh.norm)
	return sh.next(1)
}

func (sh *shell) next(n int) error {
	if sh.st == nil {
		cal, err := tspec.Parse("", sh.now().In(sh.loc))
		if err != nil {
			return err
		}
		sh.st = station.New(cal, sh.norm)
	}

	enc := timecode.NewEncoder(sh.w, sh.norm)
	for i := 0; i < n; i++ {
		_, blk := sh.st.Next()
		err := enc.EncodeBlock(blk)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sh *shell) inspect(txt string) error {
	blk, err := timecode.ParseBlock(txt)
	if err != nil {
		return fmt.Errorf("could not parse block %q: %w", txt, err)
	}

	cal := timecode.Decode(blk)
	_, err = fmt.Fprintf(sh.w, "%s -> %v\n", blk, cal)
	if err != nil {
		return err
	}

	if err := timecode.Validate(blk); err != nil {
		_, err = fmt.Fprintf(sh.w, "# %v\n", err)
		if err != nil {
			return err
		}
	}

	err = timecode.Dump(sh.w, blk)
	if err != nil {
		return err
	}

	sh.st = station.New(cal, sh.norm)
	sh.st.Skip(1)
	return nil
}

const help = `commands:
  [[[[yy]mm]dd]HH]MM   create the block of the provided time
  <block>              decode and split a 16-digit hex block
  :next [N]            create the N next blocks (default: 1)
  :tz <location>       set the time zone location
  :help                print this help message
  :quit                quit the shell
`
