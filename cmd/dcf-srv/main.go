// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dcf-srv starts a TDAQ server emitting DCF77 telegrams.
//
// Telegrams are published, as hex-text lines, on the /dcf77 output port.
package main // import "github.com/go-lpc/dcf77/cmd/dcf-srv"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/dcf77/station"
	"github.com/go-lpc/dcf77/tlgdb"
	"github.com/sbinet/pmon"
)

var (
	cfgFlag  = flag.String("cfg", "", "path to a TOML station configuration file")
	monFlag  = flag.Bool("pmon", false, "enable pmon monitoring")
	freqFlag = flag.Duration("freq", 1*time.Second, "pmon frequency")
)

func main() {
	cmd := flags.New()

	log.SetPrefix("dcf-srv: ")
	log.SetFlags(0)

	cfg, err := loadConfig(*cfgFlag)
	if err != nil {
		log.Fatalf("could not load configuration: %+v", err)
	}

	if *monFlag {
		kill, err := monitor(*freqFlag)
		if err != nil {
			log.Fatalf("could not start monitoring: %+v", err)
		}
		defer kill()
	}

	var opts []station.Option
	if cfg.Archive != "" {
		db, err := tlgdb.Open(cfg.Archive)
		if err != nil {
			log.Fatalf("could not open telegram archive: %+v", err)
		}
		defer db.Close()

		err = db.Init(context.Background())
		if err != nil {
			log.Fatalf("could not initialize telegram archive: %+v", err)
		}
		opts = append(opts, station.WithArchive(db))
	}

	switch {
	case cfg.Mail.Enabled():
		opts = append(opts, station.WithAlerter(station.NewMailer(cfg.Mail)))
	default:
		log.Printf("missing mail credentials: DST alerts disabled")
	}

	dev, err := station.NewServer(cfg, opts...)
	if err != nil {
		log.Fatalf("could not create station: %+v", err)
	}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/dcf77", dev.Telegrams)

	srv.RunHandle(dev.Run)

	err = srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

func loadConfig(fname string) (station.Config, error) {
	if fname == "" {
		return station.DefaultConfig(), nil
	}
	return station.LoadConfig(fname)
}

func monitor(freq time.Duration) (func(), error) {
	pid := os.Getpid()
	p, err := pmon.Monitor(pid)
	if err != nil {
		return nil, fmt.Errorf("could not monitor dcf-srv (pid=%d): %w", pid, err)
	}

	f, err := os.Create(fmt.Sprintf("dcf-srv-%d-pmon.log", pid))
	if err != nil {
		return nil, fmt.Errorf("could not create pmon log file: %w", err)
	}
	p.W = f
	p.Freq = freq

	go func() {
		err := p.Run()
		if err != nil {
			log.Printf("could not run pmon: %+v", err)
		}
	}()

	return func() {
		err := p.Kill()
		if err != nil {
			log.Printf("could not stop monitoring: %+v", err)
		}
		_ = f.Close()
	}, nil
}
