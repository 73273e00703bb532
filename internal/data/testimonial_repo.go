package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/domain/model"
)

const testimonialColumns = `id, created_at, name, text, avatar_url`

// TestimonialRepo provides database operations for client testimonials.
type TestimonialRepo struct {
	DB *sql.DB
}

// NewTestimonialRepo creates a new TestimonialRepo.
func NewTestimonialRepo(db *sql.DB) *TestimonialRepo { return &TestimonialRepo{DB: db} }

// List returns testimonials newest first.
func (r *TestimonialRepo) List(ctx context.Context) ([]model.Testimonial, error) {
	out, err := queryRows[model.Testimonial](ctx, r.DB,
		`SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return out, nil
}

// GetByID retrieves one testimonial.
func (r *TestimonialRepo) GetByID(ctx context.Context, id int64) (*model.Testimonial, error) {
	t, err := queryOne[model.Testimonial](ctx, r.DB, ErrTestimonialNotFound,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id)
	if err != nil && !errors.Is(err, ErrTestimonialNotFound) {
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}
	return t, err
}

// Create inserts a testimonial.
func (r *TestimonialRepo) Create(ctx context.Context, req *model.TestimonialRequest) (*model.Testimonial, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	t, err := queryOne[model.Testimonial](ctx, r.DB, ErrTestimonialNotFound, `
		INSERT INTO testimonials (name, text, avatar_url) VALUES ($1, $2, $3)
		RETURNING `+testimonialColumns, req.Name, req.Text, req.AvatarURL)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return t, nil
}

// Update replaces the fields of a testimonial.
func (r *TestimonialRepo) Update(
	ctx context.Context,
	id int64,
	req *model.TestimonialRequest,
) (*model.Testimonial, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	t, err := queryOne[model.Testimonial](ctx, r.DB, ErrTestimonialNotFound, `
		UPDATE testimonials SET name = $2, text = $3, avatar_url = $4 WHERE id = $1
		RETURNING `+testimonialColumns, id, req.Name, req.Text, req.AvatarURL)
	if err != nil && !errors.Is(err, ErrTestimonialNotFound) {
		return nil, apperrors.MapDBError(err)
	}
	return t, err
}

// Delete removes a testimonial by ID.
func (r *TestimonialRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, ErrTestimonialNotFound, `DELETE FROM testimonials WHERE id = $1`, id)
}
