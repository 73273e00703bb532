package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
)

// FAQServiceOptions groups dependencies for FAQService.
type FAQServiceOptions struct {
	Repo   ports.FAQRepository
	Cache  CacheConfig
	Logger *slog.Logger
}

// FAQService manages FAQ items.
type FAQService struct {
	repo  ports.FAQRepository
	cache *contentCache
}

// NewFAQService constructs a FAQService.
func NewFAQService(opts FAQServiceOptions) *FAQService {
	if opts.Repo == nil {
		panic("FAQRepository is required")
	}
	logger := componentLogger(opts.Logger, "faq_service")
	return &FAQService{repo: opts.Repo, cache: newContentCache(opts.Cache, logger)}
}

// List returns all FAQ items, oldest first.
func (s *FAQService) List(ctx context.Context) ([]model.FAQItem, error) {
	items, err := cached(ctx, s.cache, ports.CacheKeyFAQ, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list faq: %w", err)
	}
	return items, nil
}

// GetByID loads one item for editing.
func (s *FAQService) GetByID(ctx context.Context, id int64) (*model.FAQItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new item.
func (s *FAQService) Create(ctx context.Context, req *model.FAQRequest) (*model.FAQItem, error) {
	item, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, "create")
	return item, nil
}

// Update replaces an item.
func (s *FAQService) Update(ctx context.Context, id int64, req *model.FAQRequest) (*model.FAQItem, error) {
	item, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, "update")
	return item, nil
}

// Delete removes exactly one item.
func (s *FAQService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, "delete")
	return nil
}

func (s *FAQService) mutated(ctx context.Context, op string) {
	s.cache.invalidate(ctx, ports.CacheKeyFAQ)
	s.cache.metrics.ContentMutation("faq", op)
}

// TestimonialServiceOptions groups dependencies for TestimonialService.
type TestimonialServiceOptions struct {
	Repo   ports.TestimonialRepository
	Cache  CacheConfig
	Logger *slog.Logger
}

// TestimonialService manages testimonials.
type TestimonialService struct {
	repo  ports.TestimonialRepository
	cache *contentCache
}

// NewTestimonialService constructs a TestimonialService.
func NewTestimonialService(opts TestimonialServiceOptions) *TestimonialService {
	if opts.Repo == nil {
		panic("TestimonialRepository is required")
	}
	logger := componentLogger(opts.Logger, "testimonial_service")
	return &TestimonialService{repo: opts.Repo, cache: newContentCache(opts.Cache, logger)}
}

// List returns all testimonials, newest first.
func (s *TestimonialService) List(ctx context.Context) ([]model.Testimonial, error) {
	items, err := cached(ctx, s.cache, ports.CacheKeyTestimonials, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return items, nil
}

// GetByID loads one testimonial for editing.
func (s *TestimonialService) GetByID(ctx context.Context, id int64) (*model.Testimonial, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new testimonial.
func (s *TestimonialService) Create(ctx context.Context, req *model.TestimonialRequest) (*model.Testimonial, error) {
	t, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, "create")
	return t, nil
}

// Update replaces a testimonial.
func (s *TestimonialService) Update(ctx context.Context, id int64, req *model.TestimonialRequest) (*model.Testimonial, error) {
	t, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, "update")
	return t, nil
}

// Delete removes exactly one testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, "delete")
	return nil
}

func (s *TestimonialService) mutated(ctx context.Context, op string) {
	s.cache.invalidate(ctx, ports.CacheKeyTestimonials)
	s.cache.metrics.ContentMutation("testimonials", op)
}

// AboutServiceOptions groups dependencies for AboutService.
type AboutServiceOptions struct {
	Repo   ports.AboutRepository
	Cache  CacheConfig
	Logger *slog.Logger
}

// AboutService reads and edits the about section.
type AboutService struct {
	repo  ports.AboutRepository
	cache *contentCache
}

// NewAboutService constructs an AboutService.
func NewAboutService(opts AboutServiceOptions) *AboutService {
	if opts.Repo == nil {
		panic("AboutRepository is required")
	}
	logger := componentLogger(opts.Logger, "about_service")
	return &AboutService{repo: opts.Repo, cache: newContentCache(opts.Cache, logger)}
}

// Get returns the about section, or nil when it has never been written.
func (s *AboutService) Get(ctx context.Context) (*model.About, error) {
	about, err := cached(ctx, s.cache, ports.CacheKeyAbout, func(ctx context.Context) (*model.About, error) {
		a, err := s.repo.Get(ctx)
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil
		}
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("get about: %w", err)
	}
	return about, nil
}

// Save writes the about section.
func (s *AboutService) Save(ctx context.Context, req *model.AboutRequest) (*model.About, error) {
	a, err := s.repo.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, ports.CacheKeyAbout)
	s.cache.metrics.ContentMutation("about", "update")
	return a, nil
}

// LogoServiceOptions groups dependencies for LogoService.
type LogoServiceOptions struct {
	Repo    ports.LogoRepository
	Uploads *UploadService
	Cache   CacheConfig
}

// LogoService manages carousel logos.
type LogoService struct {
	repo    ports.LogoRepository
	uploads *UploadService
	cache   *contentCache
}

// NewLogoService constructs a LogoService.
func NewLogoService(opts LogoServiceOptions, logger *slog.Logger) *LogoService {
	if opts.Repo == nil {
		panic("LogoRepository is required")
	}
	logger = componentLogger(logger, "logo_service")
	return &LogoService{repo: opts.Repo, uploads: opts.Uploads, cache: newContentCache(opts.Cache, logger)}
}

// List returns all logos.
func (s *LogoService) List(ctx context.Context) ([]model.Logo, error) {
	logos, err := cached(ctx, s.cache, ports.CacheKeyLogos, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list logos: %w", err)
	}
	return logos, nil
}

// Carousel returns the logo list doubled for looping.
func (s *LogoService) Carousel(ctx context.Context) ([]model.Logo, error) {
	logos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.CarouselLoop(logos), nil
}

// Upload stores the file and creates a logo named after it.
func (s *LogoService) Upload(ctx context.Context, f UploadedFile) (*model.Logo, error) {
	if s.uploads == nil {
		return nil, errors.New("uploads are not configured")
	}
	stored, err := s.uploads.Put(ctx, FolderLogos, f)
	if err != nil {
		return nil, err
	}
	req := model.NewLogoRequest(f.Filename, stored.URL)
	logo, err := s.repo.Create(ctx, &req)
	if err != nil {
		if rmErr := s.uploads.Remove(ctx, stored.Key); rmErr != nil {
			s.cache.logger.WarnContext(ctx, "orphaned logo upload", "key", stored.Key, "error", rmErr)
		}
		return nil, err
	}
	s.mutated(ctx, "create")
	return logo, nil
}

// Delete removes exactly one logo.
func (s *LogoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, "delete")
	return nil
}

func (s *LogoService) mutated(ctx context.Context, op string) {
	s.cache.invalidate(ctx, ports.CacheKeyLogos)
	s.cache.metrics.ContentMutation("logos", op)
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}
