// Package smtpmail sends email through an SMTP relay.
package smtpmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/damedesign/portfolio/internal/ports"
	"github.com/wneessen/go-mail"
)

// Config holds relay settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	// Secure selects implicit TLS (usually port 465); otherwise STARTTLS is used when offered.
	Secure     bool
	From       string
	FromName   string
	Timeout    time.Duration
	RetryLimit int
	Logger     *slog.Logger
}

// Mailer implements ports.Mailer.
type Mailer struct {
	cfg    Config
	logger *slog.Logger
	dial   func(ctx context.Context, msg *mail.Msg) error
}

// New validates cfg and returns a Mailer.
func New(cfg Config) (*Mailer, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("smtp sender address is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.RetryLimit = max(cfg.RetryLimit, 0)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mailer{cfg: cfg, logger: logger.With("component", "smtp_mailer")}
	m.dial = m.dialAndSend
	return m, nil
}

// Send renders msg and delivers it, retrying with linear backoff.
func (m *Mailer) Send(ctx context.Context, msg ports.Email) error {
	built, err := m.buildMessage(msg)
	if err != nil {
		return err
	}

	attempts := m.cfg.RetryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = m.dial(ctx, built)
		if err == nil {
			return nil
		}
		lastErr = err
		m.logger.WarnContext(ctx, "smtp send failed", "attempt", attempt+1, "error", err)
		if attempt < attempts-1 {
			timer := time.NewTimer(time.Duration(attempt+1) * 500 * time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return fmt.Errorf("send email: %w", lastErr)
}

func (m *Mailer) buildMessage(in ports.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	var err error
	if m.cfg.FromName != "" {
		err = msg.FromFormat(m.cfg.FromName, m.cfg.From)
	} else {
		err = msg.From(m.cfg.From)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(in.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if in.ReplyTo != "" {
		if err := msg.ReplyTo(in.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	msg.Subject(in.Subject)

	switch {
	case in.HTMLBody != "" && in.TextBody != "":
		msg.SetBodyString(mail.TypeTextPlain, in.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, in.HTMLBody)
	case in.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, in.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, in.TextBody)
	}
	return msg, nil
}

func (m *Mailer) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return opts
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
