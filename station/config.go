// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package station

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config describes how a station server runs.
type Config struct {
	Location string        `toml:"location"` // IANA time zone of the transmitter
	Offset   int           `toml:"offset"`   // start offset, in minutes
	Period   time.Duration `toml:"period"`   // interval between two telegrams
	Archive  string        `toml:"archive"`  // name of the telegram archive DB, if any

	Mail MailConfig `toml:"mail"`
}

// MailConfig holds the credentials used to send mail alerts.
// Empty fields are filled from the MAIL_USERNAME, MAIL_PASSWORD,
// MAIL_SERVER, MAIL_PORT and MAIL_TGTS environment variables.
type MailConfig struct {
	Server   string   `toml:"server"`
	Port     int      `toml:"port"`
	User     string   `toml:"user"`
	Password string   `toml:"password"`
	Targets  []string `toml:"targets"`
}

// Enabled reports whether the credentials allow to send mail alerts.
func (cfg MailConfig) Enabled() bool {
	return cfg.User != "" && cfg.Password != "" &&
		cfg.Server != "" && cfg.Port != 0 &&
		len(cfg.Targets) != 0
}

// DefaultConfig returns the configuration of a station located in
// Mainflingen, emitting one telegram per minute.
func DefaultConfig() Config {
	return Config{
		Location: "Europe/Berlin",
		Period:   time.Minute,
	}
}

// LoadConfig reads a TOML station configuration from fname.
// Missing keys keep their DefaultConfig value.
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(fname, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("station: could not decode config file %q: %w", fname, err)
	}

	cfg.Mail = cfg.Mail.withEnv()

	err = cfg.validate()
	if err != nil {
		return cfg, fmt.Errorf("station: invalid config file %q: %w", fname, err)
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	_, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return fmt.Errorf("could not load location %q: %w", cfg.Location, err)
	}
	if cfg.Period <= 0 {
		return fmt.Errorf("invalid period %v", cfg.Period)
	}
	return nil
}

func (cfg MailConfig) withEnv() MailConfig {
	if cfg.User == "" {
		cfg.User = os.Getenv("MAIL_USERNAME")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("MAIL_PASSWORD")
	}
	if cfg.Server == "" {
		cfg.Server = os.Getenv("MAIL_SERVER")
	}
	if cfg.Port == 0 {
		cfg.Port, _ = strconv.Atoi(os.Getenv("MAIL_PORT"))
	}
	if len(cfg.Targets) == 0 {
		if v := os.Getenv("MAIL_TGTS"); v != "" {
			cfg.Targets = strings.Split(v, ",")
		}
	}
	return cfg
}
