// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package station

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-lpc/dcf77/timecode"
	mail "gopkg.in/gomail.v2"
)

func TestMailer(t *testing.T) {
	cfg := MailConfig{
		Server:   "smtp.example.org",
		Port:     587,
		User:     "dcf@example.org",
		Password: "s3cr3t",
		Targets:  []string{"a@example.org", "b@example.org"},
	}

	var msgs []*mail.Message
	m := NewMailer(cfg)
	m.send = func(msg *mail.Message) error {
		msgs = append(msgs, msg)
		return nil
	}

	cal := timecode.FromTime(time.Date(2017, 3, 26, 0, 58, 0, 0, time.UTC).In(berlin.Loc))
	blk := timecode.Encode(cal, berlin)

	err := m.Alert(cal, blk)
	if err != nil {
		t.Fatalf("could not send alert: %+v", err)
	}

	if got, want := len(msgs), 1; got != want {
		t.Fatalf("invalid number of messages: got=%d, want=%d", got, want)
	}

	msg := msgs[0]
	if got, want := msg.GetHeader("From"), []string{cfg.User}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid From: got=%q, want=%q", got, want)
	}
	if got, want := msg.GetHeader("Bcc"), cfg.Targets; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid Bcc: got=%q, want=%q", got, want)
	}
	subj := msg.GetHeader("Subject")
	if len(subj) != 1 || !strings.Contains(subj[0], "2017-03-26 01:58 CET") {
		t.Fatalf("invalid subject: %q", subj)
	}

	body := new(strings.Builder)
	_, err = msg.WriteTo(body)
	if err != nil {
		t.Fatalf("could not write message: %+v", err)
	}
	if !strings.Contains(body.String(), blk.String()) {
		t.Fatalf("message does not contain block %v:\n%s", blk, body.String())
	}
}

func TestMailerErrors(t *testing.T) {
	cal := timecode.FromTime(time.Date(2017, 3, 26, 0, 58, 0, 0, time.UTC).In(berlin.Loc))
	blk := timecode.Encode(cal, berlin)

	m := NewMailer(MailConfig{User: "dcf@example.org"})
	m.send = func(*mail.Message) error {
		t.Fatalf("message should not be sent")
		return nil
	}
	err := m.Alert(cal, blk)
	if err == nil {
		t.Fatalf("expected an error for missing credentials")
	}

	m = NewMailer(MailConfig{
		Server: "smtp.example.org", Port: 587,
		User: "dcf@example.org", Password: "pwd",
		Targets: []string{"a@example.org"},
	})
	m.send = func(*mail.Message) error {
		return fmt.Errorf("smtp down")
	}
	err = m.Alert(cal, blk)
	if err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("invalid error: %+v", err)
	}
}
