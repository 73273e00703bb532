package data

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/domain/model"
)

// LogoRepo provides database operations for carousel logos.
type LogoRepo struct {
	DB *sql.DB
}

// NewLogoRepo creates a new LogoRepo.
func NewLogoRepo(db *sql.DB) *LogoRepo { return &LogoRepo{DB: db} }

// List returns logos in upload order.
func (r *LogoRepo) List(ctx context.Context) ([]model.Logo, error) {
	out, err := queryRows[model.Logo](ctx, r.DB,
		`SELECT id, created_at, name, logo_url, alt_text FROM logos ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list logos: %w", err)
	}
	return out, nil
}

// Create inserts a logo.
func (r *LogoRepo) Create(ctx context.Context, req *model.LogoRequest) (*model.Logo, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	l, err := queryOne[model.Logo](ctx, r.DB, ErrLogoNotFound, `
		INSERT INTO logos (name, logo_url, alt_text) VALUES ($1, $2, $3)
		RETURNING id, created_at, name, logo_url, alt_text`, req.Name, req.LogoURL, req.AltText)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return l, nil
}

// Delete removes a logo by ID.
func (r *LogoRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, ErrLogoNotFound, `DELETE FROM logos WHERE id = $1`, id)
}
