// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tlgdb archives DCF77 telegrams into a MySQL database.
package tlgdb // import "github.com/go-lpc/dcf77/tlgdb"

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-lpc/dcf77/timecode"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/xerrors"
)

var (
	usr  = getenv("TLGDB_USER", "username")
	pwd  = getenv("TLGDB_PASS", "s3cr3t")
	host = getenv("TLGDB_HOST", "localhost")

	drvName = "mysql"
)

// ErrNoRecord is returned when the archive holds no telegram.
var ErrNoRecord = xerrors.New("tlgdb: no record")

// Record is an archived telegram.
type Record struct {
	Stamp time.Time      // instant of the telegram
	Block timecode.Block // telegram
}

// Calendar returns the calendar time carried by the telegram.
func (rec Record) Calendar() timecode.Calendar {
	return timecode.Decode(rec.Block)
}

// DB exposes convenience methods to store and retrieve telegrams
// from the archive database.
type DB struct {
	db   *sql.DB
	name string // name of the archive database
}

// Open opens a connection to the archive database dbname.
func Open(dbname string) (*DB, error) {
	return OpenDriver(drvName, dbname)
}

// OpenDriver opens a connection to the archive database dbname,
// using the named database/sql driver.
// The data source name is built as for a MySQL driver.
func OpenDriver(drv, dbname string) (*DB, error) {
	db, err := sql.Open(drv, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("tlgdb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: dbname}, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func dsn(db string) string {
	cfg := mysql.NewConfig()
	cfg.User = usr
	cfg.Passwd = pwd
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = db
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("tlgdb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Name returns the name of the archive database.
func (db *DB) Name() string {
	return db.name
}

// Init creates the telegrams table, if needed.
func (db *DB) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS telegrams (
	stamp DATETIME NOT NULL,
	block CHAR(16) NOT NULL,
	PRIMARY KEY (stamp)
)`)
	if err != nil {
		return fmt.Errorf("tlgdb: could not create telegrams table: %w", err)
	}
	return nil
}

// Insert archives the telegram blk emitted at stamp.
func (db *DB) Insert(ctx context.Context, stamp time.Time, blk timecode.Block) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		"INSERT INTO telegrams (stamp, block) VALUES (?, ?)",
		stamp.UTC(), blk.String(),
	)
	if err != nil {
		return fmt.Errorf("tlgdb: could not insert telegram %v: %w", blk, err)
	}
	return nil
}

// Last returns the most recent archived telegram.
func (db *DB) Last(ctx context.Context) (Record, error) {
	recs, err := db.query(
		ctx, "last telegram",
		"SELECT stamp, block FROM telegrams ORDER BY stamp DESC LIMIT 1",
	)
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrNoRecord
	}
	return recs[0], nil
}

// Range returns the telegrams archived within [beg, end), in
// chronological order.
func (db *DB) Range(ctx context.Context, beg, end time.Time) ([]Record, error) {
	return db.query(
		ctx, "telegrams range",
		"SELECT stamp, block FROM telegrams WHERE stamp >= ? AND stamp < ? ORDER BY stamp",
		beg.UTC(), end.UTC(),
	)
}

func (db *DB) query(ctx context.Context, name, query string, args ...interface{}) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var recs []Record
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tlgdb: could not query %s: %w", name, err)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		var (
			rec Record
			txt string
		)
		err = rows.Scan(&rec.Stamp, &txt)
		if err != nil {
			return nil, fmt.Errorf("tlgdb: could not scan %s row %d: %w", name, i, err)
		}
		rec.Block, err = timecode.ParseBlock(txt)
		if err != nil {
			return nil, fmt.Errorf("tlgdb: could not parse %s row %d: %w", name, i, err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tlgdb: could not scan db for %s: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tlgdb: context error while retrieving %s: %w", name, err)
	}

	return recs, nil
}
