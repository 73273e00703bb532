package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/damedesign/portfolio/internal/domain/model"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
)

// ErrEmailNotSent marks a submission that was stored but whose email failed.
var ErrEmailNotSent = errors.New("contact email not sent")

// Contact submission stages reported to metrics.
const (
	stageValidate = "validate"
	stageUpload   = "upload"
	stagePersist  = "persist"
	stageEmail    = "email"
	stageWebhook  = "webhook"
)

// ContactDelivery describes where submissions are forwarded.
type ContactDelivery struct {
	Mailer    ports.Mailer
	Recipient string
	Webhook   ports.ContactWebhook
}

// ContactServiceConfig holds optional collaborators.
type ContactServiceConfig struct {
	Uploads *UploadService
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// ContactServiceOptions groups dependencies for ContactService.
type ContactServiceOptions struct {
	Repo     ports.ContactRepository
	Delivery ContactDelivery
	Config   ContactServiceConfig
}

// ContactService accepts contact form submissions.
type ContactService struct {
	repo     ports.ContactRepository
	delivery ContactDelivery
	uploads  *UploadService
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewContactService constructs a ContactService.
func NewContactService(opts ContactServiceOptions) *ContactService {
	if opts.Repo == nil {
		panic("ContactRepository is required")
	}
	if opts.Delivery.Mailer == nil {
		panic("Mailer is required")
	}
	return &ContactService{
		repo:     opts.Repo,
		delivery: opts.Delivery,
		uploads:  opts.Config.Uploads,
		logger:   componentLogger(opts.Config.Logger, "contact_service"),
		metrics:  opts.Config.Metrics,
	}
}

// Submit validates req, uploads files, stores the submission, then emails the owner.
// When only the email fails the stored submission is returned together with an
// error wrapping ErrEmailNotSent; the row is kept.
func (s *ContactService) Submit(
	ctx context.Context,
	req model.ContactRequest,
	files []UploadedFile,
) (*model.ContactSubmission, error) {
	if err := s.validate(&req, len(files)); err != nil {
		s.metrics.ContactSubmission(stageValidate, err)
		return nil, err
	}

	for _, f := range files {
		stored, err := s.upload(ctx, f)
		if err != nil {
			s.metrics.ContactSubmission(stageUpload, err)
			return nil, err
		}
		req.Attachments = append(req.Attachments, model.Attachment{Name: stored.Filename, URL: stored.URL})
	}

	sub, err := s.repo.Create(ctx, &req)
	if err != nil {
		s.metrics.ContactSubmission(stagePersist, err)
		return nil, fmt.Errorf("store contact submission: %w", err)
	}

	if err := s.sendEmail(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "contact email failed; submission kept", "id", sub.ID, "error", err)
		s.metrics.ContactSubmission(stageEmail, err)
		return sub, err
	}
	s.metrics.ContactSubmission(stageEmail, nil)

	s.forward(ctx, *sub)
	return sub, nil
}

// Relay emails a submission without storing it.
func (s *ContactService) Relay(ctx context.Context, req model.ContactRequest) error {
	if err := s.validate(&req, 0); err != nil {
		s.metrics.ContactSubmission(stageValidate, err)
		return err
	}
	err := s.sendEmail(ctx, req)
	s.metrics.ContactSubmission(stageEmail, err)
	return err
}

func (s *ContactService) validate(req *model.ContactRequest, files int) error {
	if err := req.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}
	if len(req.Attachments)+files > model.MaxContactAttachments {
		return apperrors.ValidationField("attachment",
			fmt.Sprintf("Możesz dołączyć maksymalnie %d plików.", model.MaxContactAttachments))
	}
	return nil
}

func (s *ContactService) upload(ctx context.Context, f UploadedFile) (StoredFile, error) {
	if s.uploads == nil {
		return StoredFile{}, apperrors.Unavailable("Przesyłanie plików jest wyłączone.")
	}
	return s.uploads.Put(ctx, FolderAttachments, f)
}

func (s *ContactService) sendEmail(ctx context.Context, req model.ContactRequest) error {
	msg, err := BuildContactEmail(s.delivery.Recipient, req)
	if err != nil {
		return err
	}
	if err := s.delivery.Mailer.Send(ctx, msg); err != nil {
		return apperrors.Wrap(
			fmt.Errorf("%w: %w", ErrEmailNotSent, err),
			apperrors.ErrCodeUnavailable,
			"Nie udało się wysłać wiadomości. Spróbuj ponownie później.",
		)
	}
	return nil
}

// forward delivers to the optional webhook. Failures are logged only.
func (s *ContactService) forward(ctx context.Context, sub model.ContactSubmission) {
	if s.delivery.Webhook == nil {
		return
	}
	err := s.delivery.Webhook.Deliver(ctx, sub)
	s.metrics.ContactSubmission(stageWebhook, err)
	if err != nil {
		s.logger.WarnContext(ctx, "contact webhook failed", "id", sub.ID, "error", err)
	}
}
