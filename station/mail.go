// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package station

import (
	"crypto/tls"
	"fmt"

	"github.com/go-lpc/dcf77/timecode"
	mail "gopkg.in/gomail.v2"
)

// Alerter is notified when a telegram announces a DST change.
type Alerter interface {
	Alert(cal timecode.Calendar, blk timecode.Block) error
}

// Mailer sends alerts by mail.
type Mailer struct {
	cfg  MailConfig
	send func(msg *mail.Message) error
}

// NewMailer returns a Mailer sending alerts with the provided credentials.
func NewMailer(cfg MailConfig) *Mailer {
	dial := mail.NewDialer(cfg.Server, cfg.Port, cfg.User, cfg.Password)
	dial.TLSConfig = &tls.Config{
		ServerName: cfg.Server,
	}
	return &Mailer{
		cfg: cfg,
		send: func(msg *mail.Message) error {
			return dial.DialAndSend(msg)
		},
	}
}

// Alert implements Alerter.
func (m *Mailer) Alert(cal timecode.Calendar, blk timecode.Block) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("station: could not send mail alert: missing credentials")
	}

	err := m.send(m.message(cal, blk))
	if err != nil {
		return fmt.Errorf("station: could not send mail alert: %w", err)
	}
	return nil
}

func (m *Mailer) message(cal timecode.Calendar, blk timecode.Block) *mail.Message {
	next := "summer time (CEST)"
	if cal.DST == timecode.DSTOn {
		next = "standard time (CET)"
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("Bcc", m.cfg.Targets...)
	msg.SetHeader("Subject", fmt.Sprintf("[dcf-srv] DST change announced at %s", cal.Time().Format("2006-01-02 15:04 MST")))
	msg.SetBody("text/plain", fmt.Sprintf("time:  %v\nblock: %v\nnext:  %s\n",
		cal, blk, next,
	))
	return msg
}

var _ Alerter = (*Mailer)(nil)
