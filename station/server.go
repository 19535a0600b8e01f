// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package station

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/dcf77/timecode"
	"golang.org/x/sync/errgroup"
)

// Archiver stores emitted telegrams.
type Archiver interface {
	Insert(ctx context.Context, stamp time.Time, blk timecode.Block) error
}

// Option configures a Server.
type Option func(*Server)

// WithArchive stores every emitted telegram into db.
func WithArchive(db Archiver) Option {
	return func(srv *Server) {
		srv.arch = db
	}
}

// WithAlerter notifies alert when a telegram first announces a DST change.
func WithAlerter(alert Alerter) Option {
	return func(srv *Server) {
		srv.alert = alert
	}
}

// WithClock sets the function used to get the start time of the station.
func WithClock(now func() time.Time) Option {
	return func(srv *Server) {
		srv.now = now
	}
}

// Server is a TDAQ process emitting one telegram per period
// on its /dcf77 output port.
type Server struct {
	cfg   Config
	loc   *time.Location
	now   func() time.Time
	arch  Archiver
	alert Alerter

	mu   sync.Mutex
	st   *Station
	n    int  // number of emitted telegrams
	a1   bool // whether the last telegram announced a DST change
	data chan []byte
}

// NewServer creates a new station server from the provided configuration.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	srv := &Server{
		now:  time.Now,
		data: make(chan []byte, 1024),
	}
	err := srv.setConfig(cfg)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.reset()
	return srv, nil
}

func (srv *Server) setConfig(cfg Config) error {
	err := cfg.validate()
	if err != nil {
		return fmt.Errorf("station: invalid config: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return fmt.Errorf("station: could not load location %q: %w", cfg.Location, err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.cfg = cfg
	srv.loc = loc
	return nil
}

func (srv *Server) reset() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	var (
		norm = timecode.Location{Loc: srv.loc}
		beg  = srv.now().In(srv.loc).Truncate(time.Minute)
		cal  = timecode.FromTime(beg)
	)

	srv.st = New(cal.AddMinutes(srv.cfg.Offset, norm), norm)
	srv.n = 0
	srv.a1 = false

	// drop telegrams queued before the reset.
	for {
		select {
		case <-srv.data:
		default:
			return
		}
	}
}

// Current returns the calendar time of the next telegram to be emitted.
func (srv *Server) Current() timecode.Calendar {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.st.Current()
}

// N returns the number of telegrams emitted since the last reset.
func (srv *Server) N() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.n
}

func (srv *Server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	if len(req.Body) == 0 {
		return nil
	}

	dec := tdaq.NewDecoder(bytes.NewReader(req.Body))
	fname := dec.ReadStr()
	if fname == "" {
		return nil
	}

	cfg, err := LoadConfig(fname)
	if err != nil {
		ctx.Msg.Errorf("could not load config %q: %+v", fname, err)
		return fmt.Errorf("could not load config %q: %w", fname, err)
	}

	err = srv.setConfig(cfg)
	if err != nil {
		ctx.Msg.Errorf("could not apply config %q: %+v", fname, err)
		return fmt.Errorf("could not apply config %q: %w", fname, err)
	}
	ctx.Msg.Infof("config: location=%q, offset=%d, period=%v",
		cfg.Location, cfg.Offset, cfg.Period,
	)
	return nil
}

func (srv *Server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	srv.reset()
	ctx.Msg.Infof("station starts at %v", srv.Current())
	return nil
}

func (srv *Server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	srv.reset()
	return nil
}

func (srv *Server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command... -> next=%v", srv.Current())
	return nil
}

func (srv *Server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	n := srv.N()
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (srv *Server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return nil
}

// Telegrams is the output handler of the /dcf77 port.
// Each frame holds one hex-text telegram, new-line terminated.
func (srv *Server) Telegrams(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case raw := <-srv.data:
		dst.Body = raw
	}
	return nil
}

type telegram struct {
	cal timecode.Calendar
	blk timecode.Block
}

// Run emits one telegram per configured period until ctx is done.
func (srv *Server) Run(ctx tdaq.Context) error {
	srv.mu.Lock()
	period := srv.cfg.Period
	srv.mu.Unlock()

	var (
		grp, gctx = errgroup.WithContext(ctx.Ctx)
		tlgs      = make(chan telegram)
	)

	grp.Go(func() error {
		defer close(tlgs)
		tck := time.NewTicker(period)
		defer tck.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-tck.C:
				srv.mu.Lock()
				cal, blk := srv.st.Next()
				srv.mu.Unlock()
				select {
				case tlgs <- telegram{cal, blk}:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	grp.Go(func() error {
		for tlg := range tlgs {
			srv.sink(ctx, gctx, tlg)
		}
		return nil
	})

	err := grp.Wait()
	if err != nil {
		return fmt.Errorf("station: could not run station: %w", err)
	}
	return nil
}

func (srv *Server) sink(ctx tdaq.Context, gctx context.Context, tlg telegram) {
	if srv.arch != nil {
		err := srv.arch.Insert(gctx, tlg.cal.Time(), tlg.blk)
		if err != nil {
			ctx.Msg.Errorf("could not archive telegram %v: %+v", tlg.blk, err)
		}
	}

	a1 := tlg.blk.Get(timecode.A1) == 1

	srv.mu.Lock()
	srv.n++
	first := a1 && !srv.a1
	srv.a1 = a1
	srv.mu.Unlock()

	if first {
		ctx.Msg.Infof("DST change announced at %v", tlg.cal)
		if srv.alert != nil {
			err := srv.alert.Alert(tlg.cal, tlg.blk)
			if err != nil {
				ctx.Msg.Errorf("could not send alert: %+v", err)
			}
		}
	}

	raw := make([]byte, timecode.TextLen+1)
	_, _ = tlg.blk.PutText(raw)
	raw[timecode.TextLen] = '\n'

	select {
	case srv.data <- raw:
	default:
		ctx.Msg.Debugf("dropping telegram %v: output queue full", tlg.blk)
	}
}
