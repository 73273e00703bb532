package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/damedesign/portfolio/config"
	"github.com/damedesign/portfolio/internal/adapters/localstore"
	"github.com/damedesign/portfolio/internal/adapters/s3store"
	"github.com/damedesign/portfolio/internal/adapters/smtpmail"
	"github.com/damedesign/portfolio/internal/adapters/webhook"
	"github.com/damedesign/portfolio/internal/ports"
)

// ErrMailRelayNotConfigured is returned by the fallback mailer used when SMTP
// settings are incomplete. Submissions are still stored.
var ErrMailRelayNotConfigured = errors.New("mail relay is not configured")

// ObjectStore is the configured upload store. Dir is set for the local driver
// so the router can serve files from disk.
type ObjectStore struct {
	Store ports.ObjectStore
	Dir   string
}

// BuildObjectStore creates the upload store selected by STORAGE_DRIVER.
func BuildObjectStore(cfg config.StorageConfig, maxSize int64, logger *slog.Logger) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		store, err := s3store.New(s3store.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Prefix:          cfg.S3.Prefix,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			UsePathStyle:    cfg.S3.UsePathStyle,
			MaxSize:         maxSize,
		})
		if err != nil {
			return ObjectStore{}, fmt.Errorf("create s3 store: %w", err)
		}
		if logger != nil {
			logger.Info("upload storage ready", "driver", "s3", "bucket", cfg.S3.Bucket)
		}
		return ObjectStore{Store: store}, nil
	default:
		store, err := localstore.New(cfg.LocalDir, localstore.DefaultBaseURL, maxSize)
		if err != nil {
			return ObjectStore{}, fmt.Errorf("create local store: %w", err)
		}
		if logger != nil {
			logger.Info("upload storage ready", "driver", "local", "dir", store.Dir())
		}
		return ObjectStore{Store: store, Dir: store.Dir()}, nil
	}
}

//nolint:ireturn // the fallback mailer is chosen at runtime.
func buildMailer(cfg config.MailConfig, siteName string, logger *slog.Logger) ports.Mailer {
	if !cfg.IsConfigured() {
		logger.Warn("SMTP not configured; contact emails will not be sent",
			"host_empty", cfg.Host == "",
			"recipient_empty", cfg.Recipient == "",
		)
		return unconfiguredMailer{}
	}
	mailer, err := smtpmail.New(smtpmail.Config{
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		Password:   cfg.Password,
		Secure:     cfg.Secure,
		From:       cfg.From,
		FromName:   siteName,
		Timeout:    cfg.Timeout,
		RetryLimit: cfg.Retries,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create SMTP mailer; contact emails will not be sent", "error", err)
		return unconfiguredMailer{}
	}
	return mailer
}

//nolint:ireturn // nil disables the webhook.
func buildWebhook(cfg config.WebhookConfig, siteName string, logger *slog.Logger) ports.ContactWebhook {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := webhook.NewClient(webhook.Config{
		URL:        cfg.URL,
		BodyExpr:   cfg.BodyExpr,
		Timeout:    cfg.Timeout,
		RetryLimit: cfg.Retries,
		SiteName:   siteName,
	})
	if err != nil {
		logger.Error("contact webhook disabled", "error", err)
		return nil
	}
	return client
}

type unconfiguredMailer struct{}

func (unconfiguredMailer) Send(context.Context, ports.Email) error {
	return ErrMailRelayNotConfigured
}
