package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MailConfig configures the SMTP relay used for contact form notifications.
type MailConfig struct {
	Host      string        `env:"HOST"`
	Port      int           `env:"PORT"        envDefault:"587"`
	User      string        `env:"USER"`
	Password  string        `env:"PASS"`
	Secure    bool          `env:"SECURE"      envDefault:"false"`
	From      string        `env:"FROM"`
	Recipient string        `env:"RECIPIENT"`
	Timeout   time.Duration `env:"TIMEOUT"     envDefault:"10s"`
	Retries   int           `env:"RETRY_LIMIT" envDefault:"2"`
}

// Sanitize normalises mail settings. From defaults to the SMTP user.
func (m *MailConfig) Sanitize() {
	m.Host = strings.TrimSpace(m.Host)
	m.User = strings.TrimSpace(m.User)
	m.From = strings.TrimSpace(m.From)
	m.Recipient = strings.TrimSpace(m.Recipient)
	if m.From == "" {
		m.From = m.User
	}
	if m.Port <= 0 {
		m.Port = 587
	}
	if m.Timeout <= 0 {
		m.Timeout = 10 * time.Second
	}
	if m.Retries < 0 {
		m.Retries = 0
	}
}

// IsConfigured reports whether the relay has enough settings to send.
func (m *MailConfig) IsConfigured() bool {
	return m.Host != "" && m.Recipient != "" && m.From != ""
}

// StorageDriver selects where uploaded files are kept.
type StorageDriver string

const (
	// StorageDriverLocal writes uploads to a directory served under /uploads/.
	StorageDriverLocal StorageDriver = "local"
	// StorageDriverS3 writes uploads to an S3-compatible bucket.
	StorageDriverS3 StorageDriver = "s3"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageDriver.
func (d *StorageDriver) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "local", "s3":
		*d = StorageDriver(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageDriver: %q (valid options: local, s3)", v)
	}
}

// StorageConfig configures upload storage.
type StorageConfig struct {
	Driver StorageDriver `env:"STORAGE_DRIVER" envDefault:"local"`

	// LocalDir is used by the local driver.
	LocalDir string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`

	S3 S3Config `envPrefix:"S3_"`
}

// S3Config configures the S3 driver.
type S3Config struct {
	Bucket          string `env:"BUCKET"`
	Region          string `env:"REGION"            envDefault:"eu-central-1"`
	Endpoint        string `env:"ENDPOINT"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Prefix          string `env:"PREFIX"            envDefault:"uploads/"`
	// PublicBaseURL is prepended to object keys to build public URLs.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	UsePathStyle  bool   `env:"USE_PATH_STYLE"    envDefault:"false"`
}

// Sanitize normalises storage settings.
func (s *StorageConfig) Sanitize() {
	s.LocalDir = strings.TrimSpace(s.LocalDir)
	if s.LocalDir == "" {
		s.LocalDir = "./data/uploads"
	}
	s.S3.Bucket = strings.TrimSpace(s.S3.Bucket)
	s.S3.PublicBaseURL = strings.TrimRight(strings.TrimSpace(s.S3.PublicBaseURL), "/")
	if s.S3.Prefix != "" && !strings.HasSuffix(s.S3.Prefix, "/") {
		s.S3.Prefix += "/"
	}
}

// Validate checks driver-specific requirements.
func (s *StorageConfig) Validate() error {
	if s.Driver != StorageDriverS3 {
		return nil
	}
	if s.S3.Bucket == "" || s.S3.AccessKeyID == "" || s.S3.SecretAccessKey == "" {
		return errors.New("STORAGE_DRIVER=s3 requires S3_BUCKET, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
	}
	return nil
}

// WebhookConfig configures the optional per-submission webhook.
type WebhookConfig struct {
	URL string `env:"URL"`
	// BodyExpr is a JMESPath expression applied to the submission document.
	BodyExpr string        `env:"BODY_EXPR"`
	Timeout  time.Duration `env:"TIMEOUT"   envDefault:"5s"`
	Retries  int           `env:"RETRY_LIMIT" envDefault:"2"`
}

// Sanitize normalises webhook settings.
func (w *WebhookConfig) Sanitize() {
	w.URL = strings.TrimSpace(w.URL)
	w.BodyExpr = strings.TrimSpace(w.BodyExpr)
	if w.Timeout <= 0 {
		w.Timeout = 5 * time.Second
	}
	if w.Retries < 0 {
		w.Retries = 0
	}
}

// IsEnabled reports whether a webhook URL is configured.
func (w *WebhookConfig) IsEnabled() bool {
	return w.URL != ""
}
