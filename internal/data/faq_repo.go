package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/domain/model"
)

// FAQRepo provides database operations for FAQ items.
type FAQRepo struct {
	DB *sql.DB
}

// NewFAQRepo creates a new FAQRepo.
func NewFAQRepo(db *sql.DB) *FAQRepo { return &FAQRepo{DB: db} }

// List returns FAQ items in the order they were added.
func (r *FAQRepo) List(ctx context.Context) ([]model.FAQItem, error) {
	out, err := queryRows[model.FAQItem](ctx, r.DB,
		`SELECT id, created_at, question, answer FROM faq_items ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list faq items: %w", err)
	}
	return out, nil
}

// GetByID retrieves one FAQ item.
func (r *FAQRepo) GetByID(ctx context.Context, id int64) (*model.FAQItem, error) {
	item, err := queryOne[model.FAQItem](ctx, r.DB, ErrFAQNotFound,
		`SELECT id, created_at, question, answer FROM faq_items WHERE id = $1`, id)
	if err != nil && !errors.Is(err, ErrFAQNotFound) {
		return nil, fmt.Errorf("failed to get faq item: %w", err)
	}
	return item, err
}

// Create inserts an FAQ item.
func (r *FAQRepo) Create(ctx context.Context, req *model.FAQRequest) (*model.FAQItem, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	item, err := queryOne[model.FAQItem](ctx, r.DB, ErrFAQNotFound, `
		INSERT INTO faq_items (question, answer) VALUES ($1, $2)
		RETURNING id, created_at, question, answer`, req.Question, req.Answer)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return item, nil
}

// Update replaces the question and answer of an FAQ item.
func (r *FAQRepo) Update(ctx context.Context, id int64, req *model.FAQRequest) (*model.FAQItem, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	item, err := queryOne[model.FAQItem](ctx, r.DB, ErrFAQNotFound, `
		UPDATE faq_items SET question = $2, answer = $3 WHERE id = $1
		RETURNING id, created_at, question, answer`, id, req.Question, req.Answer)
	if err != nil && !errors.Is(err, ErrFAQNotFound) {
		return nil, apperrors.MapDBError(err)
	}
	return item, err
}

// Delete removes an FAQ item by ID.
func (r *FAQRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, ErrFAQNotFound, `DELETE FROM faq_items WHERE id = $1`, id)
}
