package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"studio-booking/config"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
)

// Sender delivers one HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPSender sends mail through an SMTP relay, with PLAIN auth when a
// username is configured.
type SMTPSender struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	host := strings.TrimSpace(cfg.Host)
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = strings.TrimSpace(cfg.Username)
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}

	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", host, strings.TrimSpace(cfg.Port)),
		host: host,
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := BuildMessage(s.from, to, subject, html)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}

// BuildMessage renders a minimal RFC 5322 HTML message.
func BuildMessage(from, to, subject, html string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		sanitizeHeader(subject),
		html,
	)
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// RetryingSender retries transient delivery failures with exponential backoff.
type RetryingSender struct {
	next     Sender
	maxTries uint
	initial  time.Duration
	log      *logrus.Logger
}

func NewRetryingSender(next Sender, maxTries uint, initial time.Duration, log *logrus.Logger) *RetryingSender {
	if maxTries == 0 {
		maxTries = 3
	}
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	return &RetryingSender{next: next, maxTries: maxTries, initial: initial, log: log}
}

func (s *RetryingSender) Send(ctx context.Context, to, subject, html string) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initial

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := s.next.Send(ctx, to, subject, html); err != nil {
			s.log.Warnf("Failed to send email to %s (attempt %d): %+v", to, attempt, err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(s.maxTries))
	return err
}

// LogSender only logs messages. Used when SMTP is not configured.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"bytes":   len(html),
	}).Info("SMTP not configured, email not delivered")
	return nil
}

// NewSender picks the SMTP sender when a host is configured.
func NewSender(cfg config.SMTPConfig, log *logrus.Logger) Sender {
	if strings.TrimSpace(cfg.Host) == "" {
		return NewLogSender(log)
	}
	return NewRetryingSender(NewSMTPSender(cfg), 3, 500*time.Millisecond, log)
}
