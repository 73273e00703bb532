package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/data/pgxutil"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, created_at, title, slug, tags, category, year, introduction,
	thumbnail_url, main_image_url, content`

// ProjectRepo provides database operations for portfolio projects.
type ProjectRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProjectRepo creates a new ProjectRepo with real time provider.
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProjectRepoWithTimeProvider creates a ProjectRepo with a custom time provider (useful for tests).
func NewProjectRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProjectRepo {
	return &ProjectRepo{DB: db, timeProvider: tp}
}

// List returns every project, newest first.
func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	out, err := queryRows[model.Project](ctx, r.DB,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return out, nil
}

// ListLatest returns at most limit projects, newest first.
func (r *ProjectRepo) ListLatest(ctx context.Context, limit int) ([]model.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	out, err := queryRows[model.Project](ctx, r.DB,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest projects: %w", err)
	}
	return out, nil
}

// ListRefs returns the navigation projection of every project, newest first.
func (r *ProjectRepo) ListRefs(ctx context.Context) ([]model.ProjectRef, error) {
	out, err := queryRows[model.ProjectRef](ctx, r.DB,
		`SELECT id, title, slug, created_at FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list project refs: %w", err)
	}
	return out, nil
}

// GetBySlug retrieves a project by its slug.
func (r *ProjectRepo) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	p, err := queryOne[model.Project](ctx, r.DB, ErrProjectNotFound,
		`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return nil, fmt.Errorf("failed to get project by slug: %w", err)
	}
	return p, err
}

// GetByID retrieves a project by ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := queryOne[model.Project](ctx, r.DB, ErrProjectNotFound,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, err
}

// Create inserts a new project; the slug is derived from the title.
func (r *ProjectRepo) Create(ctx context.Context, req *model.ProjectRequest) (*model.Project, error) {
	if req == nil {
		return nil, errors.New("project request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	p, err := queryOne[model.Project](ctx, r.DB, ErrProjectNotFound, `
		INSERT INTO projects (
			title, slug, tags, category, year, introduction, thumbnail_url, main_image_url, content, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns,
		req.Title, req.Slug(), nonNilStrings(req.Tags), req.Category, req.Year, req.Introduction,
		req.ThumbnailURL, req.MainImageURL, req.Content, r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return p, nil
}

// Update replaces the editable fields of a project and re-derives its slug.
func (r *ProjectRepo) Update(ctx context.Context, id int64, req *model.ProjectRequest) (*model.Project, error) {
	if req == nil {
		return nil, errors.New("project request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	p, err := queryOne[model.Project](ctx, r.DB, ErrProjectNotFound, `
		UPDATE projects SET
			title = $2, slug = $3, tags = $4, category = $5, year = $6,
			introduction = $7, thumbnail_url = $8, main_image_url = $9, content = $10
		WHERE id = $1
		RETURNING `+projectColumns,
		id, req.Title, req.Slug(), nonNilStrings(req.Tags), req.Category, req.Year, req.Introduction,
		req.ThumbnailURL, req.MainImageURL, req.Content,
	)
	if errors.Is(err, ErrProjectNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return p, nil
}

// Delete removes a project by ID and returns its title.
func (r *ProjectRepo) Delete(ctx context.Context, id int64) (string, error) {
	var title string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `DELETE FROM projects WHERE id = $1 RETURNING title`, id).Scan(&title)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete project: %w", err)
	}
	return title, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
