package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/damedesign/portfolio/internal/domain/model"
)

// SiteSettingsRepo reads and writes the singleton site_settings row.
type SiteSettingsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSiteSettingsRepo creates a new SiteSettingsRepo.
func NewSiteSettingsRepo(db *sql.DB) *SiteSettingsRepo {
	return &SiteSettingsRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Get returns the settings row where singleton_check = true.
func (r *SiteSettingsRepo) Get(ctx context.Context) (*model.SiteSettings, error) {
	s, err := queryOne[model.SiteSettings](ctx, r.DB, ErrSiteSettingsMissing, `
		SELECT is_maintenance_mode, updated_at, updated_by
		FROM site_settings WHERE singleton_check = TRUE`)
	if err != nil && !errors.Is(err, ErrSiteSettingsMissing) {
		return nil, fmt.Errorf("failed to read site settings: %w", err)
	}
	return s, err
}

// IsMaintenanceMode reads the persisted maintenance flag.
func (r *SiteSettingsRepo) IsMaintenanceMode(ctx context.Context) (bool, error) {
	s, err := r.Get(ctx)
	if err != nil {
		return false, err
	}
	return s.IsMaintenanceMode, nil
}

// SetMaintenance writes the maintenance flag, creating the row if it was never seeded.
func (r *SiteSettingsRepo) SetMaintenance(ctx context.Context, on bool, actor string) (*model.SiteSettings, error) {
	var updatedBy *string
	if a := strings.TrimSpace(actor); a != "" {
		updatedBy = &a
	}
	s, err := queryOne[model.SiteSettings](ctx, r.DB, ErrSiteSettingsMissing, `
		INSERT INTO site_settings (singleton_check, is_maintenance_mode, updated_at, updated_by)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (singleton_check) DO UPDATE SET
			is_maintenance_mode = EXCLUDED.is_maintenance_mode,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		RETURNING is_maintenance_mode, updated_at, updated_by`,
		on, r.timeProvider.Now().UTC(), updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to update site settings: %w", err)
	}
	return s, nil
}
