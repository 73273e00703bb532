package ports

import (
	"context"
	"errors"
	"time"

	"github.com/damedesign/portfolio/internal/domain/model"
)

// ErrNotFound is wrapped by every repository not-found error.
var ErrNotFound = errors.New("not found")

// ProjectRepository persists portfolio projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	ListLatest(ctx context.Context, limit int) ([]model.Project, error)
	ListRefs(ctx context.Context) ([]model.ProjectRef, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, req *model.ProjectRequest) (*model.Project, error)
	Update(ctx context.Context, id int64, req *model.ProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// FAQRepository persists FAQ items.
type FAQRepository interface {
	List(ctx context.Context) ([]model.FAQItem, error)
	GetByID(ctx context.Context, id int64) (*model.FAQItem, error)
	Create(ctx context.Context, req *model.FAQRequest) (*model.FAQItem, error)
	Update(ctx context.Context, id int64, req *model.FAQRequest) (*model.FAQItem, error)
	Delete(ctx context.Context, id int64) error
}

// TestimonialRepository persists testimonials.
type TestimonialRepository interface {
	List(ctx context.Context) ([]model.Testimonial, error)
	GetByID(ctx context.Context, id int64) (*model.Testimonial, error)
	Create(ctx context.Context, req *model.TestimonialRequest) (*model.Testimonial, error)
	Update(ctx context.Context, id int64, req *model.TestimonialRequest) (*model.Testimonial, error)
	Delete(ctx context.Context, id int64) error
}

// LogoRepository persists carousel logos.
type LogoRepository interface {
	List(ctx context.Context) ([]model.Logo, error)
	Create(ctx context.Context, req *model.LogoRequest) (*model.Logo, error)
	Delete(ctx context.Context, id int64) error
}

// AboutRepository reads and writes the about section.
type AboutRepository interface {
	Get(ctx context.Context) (*model.About, error)
	Upsert(ctx context.Context, req *model.AboutRequest) (*model.About, error)
}

// SiteSettingsReader reads the persisted maintenance flag.
type SiteSettingsReader interface {
	IsMaintenanceMode(ctx context.Context) (bool, error)
}

// SiteSettingsStore reads and writes site settings.
type SiteSettingsStore interface {
	SiteSettingsReader
	SetMaintenance(ctx context.Context, on bool, actor string) (*model.SiteSettings, error)
}

// ContactRepository persists contact submissions and exposes their change feed.
type ContactRepository interface {
	Create(ctx context.Context, req *model.ContactRequest) (*model.ContactSubmission, error)
	List(ctx context.Context, limit int) ([]model.ContactSubmission, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	WaitForNotification(ctx context.Context) (model.ContactEvent, error)
}

// AdminUserRepository persists password-auth administrators.
type AdminUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	Create(ctx context.Context, email, name, passwordHash string) (*model.AdminUser, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	TouchLogin(ctx context.Context, id string) error
}

// Content cache keys. Mutations delete the key they affect before responding.
const (
	CacheKeyProjects     = "content:projects"
	CacheKeyFAQ          = "content:faq"
	CacheKeyTestimonials = "content:testimonials"
	CacheKeyLogos        = "content:logos"
	CacheKeyAbout        = "content:about"
)

// ContentCache caches public content as JSON.
type ContentCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
