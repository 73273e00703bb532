package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/domain/model"
)

// AboutRepo reads and writes the singleton about_section row.
type AboutRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAboutRepo creates a new AboutRepo.
func NewAboutRepo(db *sql.DB) *AboutRepo {
	return &AboutRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Get returns the about section, or ErrAboutNotFound before it is first saved.
func (r *AboutRepo) Get(ctx context.Context) (*model.About, error) {
	a, err := queryOne[model.About](ctx, r.DB, ErrAboutNotFound, `
		SELECT heading, description, image_url, updated_at
		FROM about_section WHERE singleton_check = TRUE`)
	if err != nil && !errors.Is(err, ErrAboutNotFound) {
		return nil, fmt.Errorf("failed to get about section: %w", err)
	}
	return a, err
}

// Upsert writes the about section.
func (r *AboutRepo) Upsert(ctx context.Context, req *model.AboutRequest) (*model.About, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	a, err := queryOne[model.About](ctx, r.DB, ErrAboutNotFound, `
		INSERT INTO about_section (singleton_check, heading, description, image_url, updated_at)
		VALUES (TRUE, $1, $2, $3, $4)
		ON CONFLICT (singleton_check) DO UPDATE SET
			heading = EXCLUDED.heading,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at
		RETURNING heading, description, image_url, updated_at`,
		req.Heading, req.Description, req.ImageURL, r.timeProvider.Now().UTC())
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return a, nil
}
