package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/ports"
)

// Upload folders, one per use.
const (
	FolderProjects     = "projects"
	FolderTestimonials = "testimonials"
	FolderAbout        = "about"
	FolderLogos        = "logos"
	FolderAttachments  = "attachments"
)

// UploadedFile is one file received from a form.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredFile is the result of a successful upload.
type StoredFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Key      string `json:"-"`
}

// UploadService names uploads and hands them to the object store.
type UploadService struct {
	store  ports.ObjectStore
	newID  func() string
	logger *slog.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(store ports.ObjectStore, logger *slog.Logger) *UploadService {
	if store == nil {
		panic("ObjectStore is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		store:  store,
		newID:  func() string { return uuid.NewString() },
		logger: logger.With("component", "upload_service"),
	}
}

// Put stores f under folder with a random name that keeps the original extension.
func (s *UploadService) Put(ctx context.Context, folder string, f UploadedFile) (StoredFile, error) {
	if f.Body == nil {
		return StoredFile{}, apperrors.Validation("Nie wybrano pliku.")
	}
	key := s.key(folder, f.Filename)
	url, err := s.store.Put(ctx, ports.PutObjectInput{
		Key:         key,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "upload failed", "key", key, "error", err)
		return StoredFile{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable,
			fmt.Sprintf("Nie udało się przesłać pliku %s.", f.Filename))
	}
	return StoredFile{URL: url, Filename: f.Filename, Key: key}, nil
}

// Remove deletes a stored object. Missing objects are not an error.
func (s *UploadService) Remove(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete upload %s: %w", key, err)
	}
	return nil
}

func (s *UploadService) key(folder, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 10 || strings.ContainsAny(ext, " /?#%") {
		ext = ""
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "misc"
	}
	return folder + "/" + s.newID() + ext
}
