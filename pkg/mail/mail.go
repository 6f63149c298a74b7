// Package mail sends transactional email over SMTP.
//
//	err := mail.To("ana@example.com").
//	    Subject("Your booking is confirmed").
//	    HTML(body).
//	    Send(ctx)
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/logger"
)

// Message is one outgoing email.
type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

var (
	mu  sync.RWMutex
	std Mailer
)

// Default returns the configured mailer: SMTP when MAIL_HOST is set,
// otherwise a mailer that only logs.
func Default() Mailer {
	mu.RLock()
	m := std
	mu.RUnlock()
	if m != nil {
		return m
	}
	if host := config.Get("MAIL_HOST", ""); host != "" {
		return NewSMTP(SMTPConfig{
			Host:     host,
			Port:     config.Get("MAIL_PORT", "587"),
			Username: config.Get("MAIL_USERNAME", ""),
			Password: config.Get("MAIL_PASSWORD", ""),
			From:     config.Get("MAIL_FROM", "studio@example.com"),
			FromName: config.Get("MAIL_FROM_NAME", config.AppName()),
		})
	}
	return LogMailer{}
}

// Use replaces the default mailer; pass nil to restore config-driven selection.
func Use(m Mailer) {
	mu.Lock()
	std = m
	mu.Unlock()
}

// ─── Builder ──────────────────────────────────────────────────────────────────

// Builder assembles a Message fluently.
type Builder struct{ msg Message }

func To(addresses ...string) *Builder {
	return &Builder{msg: Message{To: addresses, HTML: true}}
}

func (b *Builder) Subject(s string) *Builder {
	b.msg.Subject = s
	return b
}

func (b *Builder) HTML(body string) *Builder {
	b.msg.Body, b.msg.HTML = body, true
	return b
}

func (b *Builder) Text(body string) *Builder {
	b.msg.Body, b.msg.HTML = body, false
	return b
}

// Message returns the assembled message.
func (b *Builder) Message() Message { return b.msg }

// Send delivers through Default().
func (b *Builder) Send(ctx context.Context) error { return Default().Send(ctx, b.msg) }

// ─── SMTP ─────────────────────────────────────────────────────────────────────

type SMTPConfig struct {
	Host, Port         string
	Username, Password string
	From, FromName     string
}

// SMTP uses implicit TLS on port 465 and STARTTLS elsewhere.
type SMTP struct{ cfg SMTPConfig }

func NewSMTP(cfg SMTPConfig) *SMTP { return &SMTP{cfg: cfg} }

func (s *SMTP) Send(ctx context.Context, m Message) error {
	if len(m.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	raw := Build(s.cfg.FromName, s.cfg.From, m, time.Now())

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var conn net.Conn
	var err error
	if s.cfg.Port == "465" {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl) //nolint:errcheck
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && s.cfg.Port != "465" {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}
	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	for _, to := range m.To {
		if err := c.Rcpt(to); err != nil {
			return fmt.Errorf("mail: RCPT %s: %w", to, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close data: %w", err)
	}
	return c.Quit()
}

// Build renders m as an RFC 5322 message.
func Build(fromName, from string, m Message, now time.Time) []byte {
	ct := "text/plain"
	if m.HTML {
		ct = "text/html"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", strings.NewReplacer("\r", "", "\n", "").Replace(m.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", ct)
	b.WriteString(m.Body)
	return []byte(b.String())
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, m Message) error {
	logger.WithCtx(ctx).Info("mail: not sent (MAIL_HOST unset)", "to", m.To, "subject", m.Subject)
	return nil
}

// Recorder keeps sent messages in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
}

func (r *Recorder) Send(_ context.Context, m Message) error {
	r.mu.Lock()
	r.sent = append(r.sent, m)
	r.mu.Unlock()
	return nil
}

// Sent returns a copy of every recorded message.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}
