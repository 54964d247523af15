// Package email sends survey invitations over SMTP.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"onboarding/internal/platform/config"
)

const dialTimeout = 10 * time.Second

var ErrNoRecipient = errors.New("email recipient is empty")

// Mailer delivers plain-text mail.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error { return nil }

// SMTP delivers each message on its own connection, upgrading with STARTTLS
// when StartTLS is set and authenticating when User is set.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	StartTLS bool
	now      func() time.Time
}

// New returns the SMTP mailer described by cfg, or a no-op mailer when mail
// is disabled or no host is configured.
func New(cfg config.Config) Mailer {
	if !cfg.EmailEnabled || strings.TrimSpace(cfg.SMTPHost) == "" {
		return noopMailer{}
	}
	return &SMTP{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		StartTLS: cfg.SMTPUseTLS,
		now:      time.Now,
	}
}

func (m *SMTP) Send(ctx context.Context, from, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(m.Host, strconv.Itoa(m.Port)))
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer client.Close()

	if err := m.handshake(client); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(m.message(from, to, subject, body)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return client.Quit()
}

func (m *SMTP) handshake(client *smtp.Client) error {
	if m.StartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.User == "" {
		return nil
	}
	if err := client.Auth(smtp.PlainAuth("", m.User, m.Password, m.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	return nil
}

// message renders an RFC 5322 plain-text message with CRLF line endings.
func (m *SMTP) message(from, to, subject, body string) []byte {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	var b strings.Builder
	header := func(name, value string) {
		b.WriteString(name + ": " + value + "\r\n")
	}
	header("From", from)
	header("To", to)
	header("Subject", subject)
	header("Date", now().UTC().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+m.Host+">")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}
