package service

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
)

// ProjectServiceOptions groups dependencies for ProjectService.
type ProjectServiceOptions struct {
	Repo   ports.ProjectRepository
	Cache  CacheConfig
	Logger *slog.Logger
}

// ProjectService serves the portfolio and its admin CRUD.
type ProjectService struct {
	repo     ports.ProjectRepository
	cache    *contentCache
	markdown *MarkdownRenderer
	logger   *slog.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(opts ProjectServiceOptions) *ProjectService {
	if opts.Repo == nil {
		panic("ProjectRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "project_service")
	return &ProjectService{
		repo:     opts.Repo,
		cache:    newContentCache(opts.Cache, logger),
		markdown: NewMarkdownRenderer(),
		logger:   logger,
	}
}

// ProjectDetail is what the project page renders.
type ProjectDetail struct {
	Project     model.Project
	ContentHTML template.HTML
	Neighbors   model.ProjectNeighbors
}

// All returns every project, newest first.
func (s *ProjectService) All(ctx context.Context) ([]model.Project, error) {
	projects, err := cached(ctx, s.cache, ports.CacheKeyProjects, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// List returns projects filtered and ordered by opts.
func (s *ProjectService) List(ctx context.Context, opts model.ProjectListOptions) ([]model.Project, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return model.ApplyProjectListOptions(all, opts), nil
}

// Latest returns up to limit newest projects.
func (s *ProjectService) Latest(ctx context.Context, limit int) ([]model.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	if !s.cache.enabled() {
		projects, err := s.repo.ListLatest(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list latest projects: %w", err)
		}
		return projects, nil
	}
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Refs returns lightweight references for navigation and the sitemap.
func (s *ProjectService) Refs(ctx context.Context) ([]model.ProjectRef, error) {
	refs, err := s.repo.ListRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list project refs: %w", err)
	}
	return refs, nil
}

// Detail loads a project by slug with rendered content and its neighbours.
func (s *ProjectService) Detail(ctx context.Context, slug string) (*ProjectDetail, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	content, err := s.markdown.Render(p.Content)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{Project: *p, ContentHTML: content}
	refs, err := s.Refs(ctx)
	if err != nil {
		// Navigation is optional; the page still renders.
		s.logger.WarnContext(ctx, "project neighbours unavailable", "slug", slug, "error", err)
		return detail, nil
	}
	detail.Neighbors = model.NeighborsOf(refs, p.ID)
	return detail, nil
}

// GetBySlug loads a project for editing.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create stores a new project.
func (s *ProjectService) Create(ctx context.Context, req *model.ProjectRequest) (*model.Project, error) {
	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, "create")
	s.logger.InfoContext(ctx, "project created", "id", p.ID, "slug", p.Slug)
	return p, nil
}

// Update replaces the editable fields of a project.
func (s *ProjectService) Update(ctx context.Context, id int64, req *model.ProjectRequest) (*model.Project, error) {
	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, "update")
	return p, nil
}

// Delete removes exactly one project and returns its title.
func (s *ProjectService) Delete(ctx context.Context, id int64) (string, error) {
	title, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	s.mutated(ctx, "delete")
	s.logger.InfoContext(ctx, "project deleted", "id", id)
	return title, nil
}

func (s *ProjectService) mutated(ctx context.Context, op string) {
	s.cache.invalidate(ctx, ports.CacheKeyProjects)
	s.cache.metrics.ContentMutation("projects", op)
}
