// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail delivers digests over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"mime"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// backoffBase controls the base duration for exponential backoff between
// send attempts. Tests override this to avoid real sleeps.
var backoffBase = 2 * time.Second

const (
	defaultPort       = 465
	defaultMaxRetries = 3
)

// Sender delivers one plain-text message to the configured recipients.
type Sender struct {
	Cfg types.MailConfig

	// deliver performs one SMTP delivery attempt. Swapped in tests.
	deliver func(cfg types.MailConfig, msg []byte) error
}

// NewSender validates the configuration and returns a Sender.
func NewSender(cfg types.MailConfig) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail: host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("mail: sender address is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("mail: password is required")
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("mail: at least one recipient is required")
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Sender{Cfg: cfg, deliver: deliverSMTP}, nil
}

// Send builds an RFC 5322 message and delivers it, retrying failures with
// exponential backoff up to the configured budget.
func (s *Sender) Send(ctx context.Context, subject, body string) error {
	msg := buildMessage(s.Cfg, subject, body)

	var lastErr error
	for attempt := 0; attempt <= s.Cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := s.deliver(s.Cfg, msg)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("sending mail after %d retries: %w", s.Cfg.MaxRetries, lastErr)
}

// buildMessage assembles an RFC 5322 message with a UTF-8 subject and
// plain-text body.
func buildMessage(cfg types.MailConfig, subject, body string) []byte {
	from := (&netmail.Address{Name: cfg.FromName, Address: cfg.From}).String()

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(cfg.To, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}

// deliverSMTP performs one delivery. Port 465 providers expect implicit
// TLS from the first byte; everything else goes through smtp.SendMail's
// STARTTLS path.
func deliverSMTP(cfg types.MailConfig, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if cfg.Port != 465 {
		return smtp.SendMail(addr, auth, cfg.From, cfg.To, msg)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range cfg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}
	return c.Quit()
}
