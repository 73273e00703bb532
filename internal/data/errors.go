package data

import (
	"errors"
	"fmt"

	"github.com/damedesign/portfolio/internal/ports"
)

// ErrNotFound is wrapped by every per-table not-found sentinel so callers can test the
// category with errors.Is. It is the same value as ports.ErrNotFound.
var ErrNotFound = ports.ErrNotFound

// Shared sentinel errors for data-layer repositories.
var (
	ErrProjectNotFound     = fmt.Errorf("project %w", ErrNotFound)
	ErrFAQNotFound         = fmt.Errorf("faq item %w", ErrNotFound)
	ErrTestimonialNotFound = fmt.Errorf("testimonial %w", ErrNotFound)
	ErrLogoNotFound        = fmt.Errorf("logo %w", ErrNotFound)
	ErrAboutNotFound       = fmt.Errorf("about section %w", ErrNotFound)
	ErrContactNotFound     = fmt.Errorf("contact submission %w", ErrNotFound)
	ErrAdminUserNotFound   = fmt.Errorf("admin user %w", ErrNotFound)

	// ErrSiteSettingsMissing is returned when the singleton settings row is absent.
	ErrSiteSettingsMissing = errors.New("site settings row missing")
)
