package contact

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
)

var (
	// ErrSubmissionPending is returned while an earlier submission from the
	// same form is still in flight.
	ErrSubmissionPending = errors.New("contact: submission already in progress")
	ErrInvalid           = errors.New("contact: invalid form input")
	ErrNotConfigured     = errors.New("contact: SMTP credentials not configured")
)

// Submitter delivers a contact message. Implementations block until the
// message is accepted or rejected.
type Submitter interface {
	Submit(ctx context.Context, p Payload) error
}

// DefaultSimulatedDelay stands in for a network round trip.
const DefaultSimulatedDelay = 2 * time.Second

// Simulated accepts every message after a fixed delay.
type Simulated struct {
	Delay time.Duration
	Clock clock.Clock
}

func (s Simulated) Submit(ctx context.Context, _ Payload) error {
	c := s.Clock
	if c == nil {
		c = clock.Real()
	}
	done := make(chan struct{})
	t := c.AfterFunc(s.Delay, func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	}
}

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port string `env:"SMTP_PORT" envDefault:"587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	To   string `env:"TO_EMAIL"`
}

// Mailer sends contact messages by email.
type Mailer struct {
	Config SMTPConfig
	// Send defaults to smtp.SendMail.
	Send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m Mailer) Submit(ctx context.Context, p Payload) error {
	cfg := m.Config
	if cfg.User == "" || cfg.Pass == "" || cfg.To == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	send := m.Send
	if send == nil {
		send = smtp.SendMail
	}

	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	err := send(cfg.Host+":"+cfg.Port, auth, cfg.User, []string{cfg.To}, composeMessage(cfg, p))
	if err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

func composeMessage(cfg SMTPConfig, p Payload) []byte {
	p.Name = headerSafe.Replace(p.Name)
	p.Email = headerSafe.Replace(p.Email)
	subject := fmt.Sprintf("Portfolio Contact: %s", p.Name)
	company := ""
	if p.Company != "" {
		company = "Company: " + p.Company + "\n"
	}
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
%sMessage:
%s

---
Sent from your portfolio contact form
`, p.Name, p.Email, company, p.Message)

	return []byte("To: " + cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + p.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
