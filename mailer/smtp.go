package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"
	"time"
)

// SMTPConfig carries the outbound mail account.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	From     string
}

// SMTP sends mail over authenticated SMTP. The zero value is unusable;
// construct with NewSMTP.
type SMTP struct {
	cfg SMTPConfig
}

// NewSMTP creates an SMTP mailer. No connection is made until Send.
func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

// Send delivers one HTML message. The blocking smtp call runs in its own
// goroutine so ctx cancellation returns promptly; an abandoned send finishes
// or fails on its own in the background.
func (s *SMTP) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return errors.New("mailer: smtp not configured")
	}
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	var buf bytes.Buffer
	buf.WriteString("From: " + s.cfg.FromName + " <" + from + ">\r\n")
	buf.WriteString("To: " + to + "\r\n")
	buf.WriteString("Subject: " + subject + "\r\n")
	buf.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	buf.WriteString(htmlBody)

	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	done := make(chan error, 1)
	go func() { done <- smtp.SendMail(addr, auth, from, []string{to}, buf.Bytes()) }()
	select {
	case <-ctx.Done():
		return fmt.Errorf("mailer: send canceled: %w", ctx.Err())
	case err := <-done:
		return err
	}
}

// Nop is a mailer that records nothing and always succeeds. For tests and
// deployments where delivery happens out of band.
type Nop struct{}

// Send implements the collaborator contract as a no-op.
func (Nop) Send(context.Context, string, string, string) error { return nil }
