// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dcf-sql inspects the telegrams archived by dcf-srv.
//
// Example:
//
//	$> dcf-sql
//	dcf-sql: last: 2017-07-08 07:10:00 +0000 UTC 0000123281F85C00 (2017-07-08 09:10:00 (Saturday, dst=on))
//
//	$> dcf-sql -beg 2017-07-08T09:00:00+02:00 -end 2017-07-08T10:00:00+02:00
package main // import "github.com/go-lpc/dcf77/cmd/dcf-sql"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-lpc/dcf77/timecode"
	"github.com/go-lpc/dcf77/tlgdb"
)

func main() {
	log.SetPrefix("dcf-sql: ")
	log.SetFlags(0)

	var (
		dbname = flag.String("db", "dcf77", "name of the telegram archive database")
		beg    = flag.String("beg", "", "start of the time range to inspect (RFC 3339)")
		end    = flag.String("end", "", "end of the time range to inspect (RFC 3339, default: now)")
		check  = flag.Bool("V", false, "validate archived telegrams")
	)

	flag.Parse()

	db, err := tlgdb.Open(*dbname)
	if err != nil {
		log.Fatalf("could not open telegram archive: %+v", err)
	}
	defer db.Close()

	err = doQuery(os.Stdout, db, *beg, *end, *check, time.Now())
	if err != nil {
		log.Fatalf("could not do query: %+v", err)
	}
}

func doQuery(w io.Writer, db *tlgdb.DB, beg, end string, check bool, now time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if beg == "" {
		rec, err := db.Last(ctx)
		if err != nil {
			return fmt.Errorf("could not get last telegram: %w", err)
		}
		log.Printf("last: %v %v (%v)", rec.Stamp, rec.Block, rec.Calendar())
		return nil
	}

	t0, err := time.Parse(time.RFC3339, beg)
	if err != nil {
		return fmt.Errorf("could not parse start of range %q: %w", beg, err)
	}

	t1 := now
	if end != "" {
		t1, err = time.Parse(time.RFC3339, end)
		if err != nil {
			return fmt.Errorf("could not parse end of range %q: %w", end, err)
		}
	}

	recs, err := db.Range(ctx, t0, t1)
	if err != nil {
		return fmt.Errorf("could not get telegrams in [%v, %v): %w", t0, t1, err)
	}
	log.Printf("telegrams: %d", len(recs))

	bad := 0
	for i, rec := range recs {
		status := ""
		if check {
			if err := timecode.Validate(rec.Block); err != nil {
				bad++
				status = fmt.Sprintf(" # %v", err)
			}
		}
		fmt.Fprintf(w, "row[%d]: %s %v -> %v%s\n",
			i, rec.Stamp.UTC().Format(time.RFC3339), rec.Block, rec.Calendar(), status,
		)
	}

	if bad != 0 {
		return fmt.Errorf("found %d invalid telegrams", bad)
	}

	return nil
}
