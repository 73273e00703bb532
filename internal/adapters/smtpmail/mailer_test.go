package smtpmail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/damedesign/portfolio/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func newTestMailer(t *testing.T, retries int) *Mailer {
	t.Helper()
	m, err := New(Config{
		Host:       "smtp.example.com",
		From:       "relay@damedesign.pl",
		FromName:   "Formularz DameDesign",
		RetryLimit: retries,
	})
	require.NoError(t, err)
	return m
}

func sampleEmail() ports.Email {
	return ports.Email{
		To:       "owner@damedesign.pl",
		ReplyTo:  "client@example.com",
		Subject:  "[F] Logo | client@example.com",
		HTMLBody: "<p>Potrzebuję logo.</p>",
		TextBody: "Potrzebuję logo.",
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{From: "relay@damedesign.pl"})
	require.Error(t, err)
	_, err = New(Config{Host: "smtp.example.com"})
	require.Error(t, err)

	m, err := New(Config{Host: " smtp.example.com ", From: "relay@damedesign.pl"})
	require.NoError(t, err)
	assert.Equal(t, 587, m.cfg.Port)
	assert.Equal(t, "smtp.example.com", m.cfg.Host)
}

func TestBuildMessage_Headers(t *testing.T) {
	m := newTestMailer(t, 0)

	msg, err := m.buildMessage(sampleEmail())
	require.NoError(t, err)

	assert.Equal(t, []string{"[F] Logo | client@example.com"}, msg.GetGenHeader(mail.HeaderSubject))
	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Formularz DameDesign")
	assert.Contains(t, raw, "<owner@damedesign.pl>")
	assert.Contains(t, raw, "Reply-To:")
	assert.Contains(t, raw, "client@example.com")
	assert.Contains(t, raw, "text/html")
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	m := newTestMailer(t, 0)
	email := sampleEmail()
	email.To = "not an address"

	_, err := m.buildMessage(email)
	require.Error(t, err)
}

func TestSend_RetriesUntilSuccess(t *testing.T) {
	m := newTestMailer(t, 2)
	calls := 0
	m.dial = func(context.Context, *mail.Msg) error {
		calls++
		if calls < 2 {
			return errors.New("421 try later")
		}
		return nil
	}

	require.NoError(t, m.Send(context.Background(), sampleEmail()))
	assert.Equal(t, 2, calls)
}

func TestSend_ReturnsLastError(t *testing.T) {
	m := newTestMailer(t, 0)
	m.dial = func(context.Context, *mail.Msg) error { return errors.New("535 auth failed") }

	err := m.Send(context.Background(), sampleEmail())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 auth failed")
}
