package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
)

// ErrSiteModeUnavailable is returned by TryExternal when no store is configured.
var ErrSiteModeUnavailable = errors.New("site settings store is not configured")

// SiteModeResolverOptions groups dependencies for SiteModeResolver.
type SiteModeResolverOptions struct {
	Store ports.SiteSettingsReader
	// Fallback is the static MAINTENANCE_MODE toggle.
	Fallback bool
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// SiteModeResolver reads the maintenance flag in two tiers: the persisted
// setting, else the static toggle. It is read once per top-level render.
type SiteModeResolver struct {
	store    ports.SiteSettingsReader
	fallback bool
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewSiteModeResolver constructs a SiteModeResolver.
func NewSiteModeResolver(opts SiteModeResolverOptions) *SiteModeResolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteModeResolver{
		store:    opts.Store,
		fallback: opts.Fallback,
		logger:   logger.With("component", "site_mode"),
		metrics:  opts.Metrics,
	}
}

// TryExternal reads the persisted flag.
func (r *SiteModeResolver) TryExternal(ctx context.Context) (bool, error) {
	if r.store == nil {
		return false, ErrSiteModeUnavailable
	}
	return r.store.IsMaintenanceMode(ctx)
}

// StaticFallback returns the environment toggle.
func (r *SiteModeResolver) StaticFallback() bool { return r.fallback }

// IsMaintenanceMode returns TryExternal, or StaticFallback when it fails.
// Failures are logged for operators and never reach visitors.
func (r *SiteModeResolver) IsMaintenanceMode(ctx context.Context) bool {
	on, err := r.TryExternal(ctx)
	if err == nil {
		return on
	}
	r.metrics.SiteModeFallback()
	r.logger.WarnContext(ctx, "site settings unavailable, using static maintenance toggle",
		"error", err, "fallback", r.fallback)
	return r.fallback
}
