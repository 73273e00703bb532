package ports

import (
	"context"
	"errors"
	"io"

	"github.com/damedesign/portfolio/internal/domain/model"
)

// Email is a rendered message ready for the relay.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers email through the configured relay.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// ErrObjectTooLarge is returned when an upload exceeds the store's size limit.
var ErrObjectTooLarge = errors.New("object exceeds the upload size limit")

// PutObjectInput describes an upload.
type PutObjectInput struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStore stores uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, in PutObjectInput) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// ContactWebhook forwards a persisted submission to an external endpoint.
type ContactWebhook interface {
	Deliver(ctx context.Context, sub model.ContactSubmission) error
}
