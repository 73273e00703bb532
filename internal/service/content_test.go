package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/mocks"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleProjects() []model.Project {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.Project{
		{ID: 3, Title: "Kawiarnia Ziarno", Slug: "kawiarnia-ziarno", Tags: []string{"Branding"}, Year: "2025", CreatedAt: base},
		{ID: 2, Title: "Studio Jogi", Slug: "studio-jogi", Tags: []string{"Web", "Branding"}, Year: "2024", CreatedAt: base.Add(-24 * time.Hour)},
		{ID: 1, Title: "Piekarnia", Slug: "piekarnia", Tags: []string{"Print"}, Year: "2023", CreatedAt: base.Add(-48 * time.Hour)},
	}
}

func TestProjectService_AllReadsThroughCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	cache := mocks.NewMockContentCache(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo, Cache: CacheConfig{Cache: cache, TTL: time.Minute}})

	projects := sampleProjects()
	gomock.InOrder(
		cache.EXPECT().GetJSON(gomock.Any(), ports.CacheKeyProjects, gomock.Any()).Return(false, nil),
		repo.EXPECT().List(gomock.Any()).Return(projects, nil),
		cache.EXPECT().SetJSON(gomock.Any(), ports.CacheKeyProjects, projects, time.Minute).Return(nil),
	)

	got, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, projects, got)

	cache.EXPECT().GetJSON(gomock.Any(), ports.CacheKeyProjects, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dst any) (bool, error) {
			*dst.(*[]model.Project) = projects[:1]
			return true, nil
		})

	got, err = svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestProjectService_CacheErrorFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	cache := mocks.NewMockContentCache(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo, Cache: CacheConfig{Cache: cache}})

	cache.EXPECT().GetJSON(gomock.Any(), ports.CacheKeyProjects, gomock.Any()).Return(false, errors.New("redis down"))
	repo.EXPECT().List(gomock.Any()).Return(sampleProjects(), nil)
	cache.EXPECT().SetJSON(gomock.Any(), ports.CacheKeyProjects, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	got, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestProjectService_ListFiltersAndSorts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo})

	repo.EXPECT().List(gomock.Any()).Return(sampleProjects(), nil)

	got, err := svc.List(context.Background(), model.ProjectListOptions{
		Sort: model.ProjectSortTags,
		Tags: []string{"branding"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "kawiarnia-ziarno", got[0].Slug)
	assert.Equal(t, "studio-jogi", got[1].Slug)
}

func TestProjectService_ListYearAscending(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo})

	repo.EXPECT().List(gomock.Any()).Return(sampleProjects(), nil)

	got, err := svc.List(context.Background(), model.ProjectListOptions{Sort: model.ProjectSortYearAsc})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "piekarnia", got[0].Slug)
}

func TestProjectService_LatestWithoutCacheUsesRepoLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo})

	repo.EXPECT().ListLatest(gomock.Any(), 5).Return(sampleProjects(), nil)

	got, err := svc.Latest(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestProjectService_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo})

	p := sampleProjects()[1]
	p.Content = "## Proces\n\nNajpierw **szkic**.<script>alert(1)</script>"
	repo.EXPECT().GetBySlug(gomock.Any(), "studio-jogi").Return(&p, nil)
	repo.EXPECT().ListRefs(gomock.Any()).Return([]model.ProjectRef{
		{ID: 3, Slug: "kawiarnia-ziarno"},
		{ID: 2, Slug: "studio-jogi"},
		{ID: 1, Slug: "piekarnia"},
	}, nil)

	detail, err := svc.Detail(context.Background(), "studio-jogi")
	require.NoError(t, err)
	assert.Contains(t, string(detail.ContentHTML), "<h2>Proces</h2>")
	assert.Contains(t, string(detail.ContentHTML), "<strong>szkic</strong>")
	assert.NotContains(t, string(detail.ContentHTML), "<script>")
	require.NotNil(t, detail.Neighbors.Prev)
	require.NotNil(t, detail.Neighbors.Next)
	assert.Equal(t, "kawiarnia-ziarno", detail.Neighbors.Prev.Slug)
	assert.Equal(t, "piekarnia", detail.Neighbors.Next.Slug)
}

func TestProjectService_DetailNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo})

	repo.EXPECT().GetBySlug(gomock.Any(), "brak").Return(nil, data.ErrProjectNotFound)

	_, err := svc.Detail(context.Background(), "brak")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestProjectService_MutationsInvalidateBeforeReturning(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	cache := mocks.NewMockContentCache(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo, Cache: CacheConfig{Cache: cache}})

	req := &model.ProjectRequest{Title: "Nowy"}
	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), req).Return(&model.Project{ID: 9, Slug: "nowy"}, nil),
		cache.EXPECT().Invalidate(gomock.Any(), ports.CacheKeyProjects).Return(nil),
		repo.EXPECT().Delete(gomock.Any(), int64(9)).Return("Nowy", nil),
		cache.EXPECT().Invalidate(gomock.Any(), ports.CacheKeyProjects).Return(errors.New("redis down")),
	)

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	title, err := svc.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Nowy", title)
}

func TestProjectService_FailedMutationKeepsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProjectRepository(ctrl)
	cache := mocks.NewMockContentCache(ctrl)
	svc := NewProjectService(ProjectServiceOptions{Repo: repo, Cache: CacheConfig{Cache: cache}})

	repo.EXPECT().Delete(gomock.Any(), int64(4)).Return("", data.ErrProjectNotFound)

	_, err := svc.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, data.ErrProjectNotFound)
}

func TestFAQService_DeleteInvalidatesOnlyFAQ(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockFAQRepository(ctrl)
	cache := mocks.NewMockContentCache(ctrl)
	svc := NewFAQService(FAQServiceOptions{Repo: repo, Cache: CacheConfig{Cache: cache}})

	repo.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)
	cache.EXPECT().Invalidate(gomock.Any(), ports.CacheKeyFAQ).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 2))
}

func TestTestimonialService_UpdateInvalidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTestimonialRepository(ctrl)
	cache := mocks.NewMockContentCache(ctrl)
	svc := NewTestimonialService(TestimonialServiceOptions{Repo: repo, Cache: CacheConfig{Cache: cache}})

	req := &model.TestimonialRequest{Name: "Anna", Text: "Polecam!"}
	repo.EXPECT().Update(gomock.Any(), int64(5), req).Return(&model.Testimonial{ID: 5, Name: "Anna"}, nil)
	cache.EXPECT().Invalidate(gomock.Any(), ports.CacheKeyTestimonials).Return(nil)

	got, err := svc.Update(context.Background(), 5, req)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
}

func TestAboutService_MissingSectionIsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAboutRepository(ctrl)
	svc := NewAboutService(AboutServiceOptions{Repo: repo})

	repo.EXPECT().Get(gomock.Any()).Return(nil, data.ErrAboutNotFound)

	about, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, about)

	repo.EXPECT().Get(gomock.Any()).Return(nil, errors.New("timeout"))
	_, err = svc.Get(context.Background())
	assert.Error(t, err)
}

func TestLogoService_UploadNamesLogoAfterFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLogoRepository(ctrl)
	store := mocks.NewMockObjectStore(ctrl)
	cache := mocks.NewMockContentCache(ctrl)

	uploads := NewUploadService(store, nil)
	uploads.newID = func() string { return "abc" }
	svc := NewLogoService(LogoServiceOptions{Repo: repo, Uploads: uploads, Cache: CacheConfig{Cache: cache}}, nil)

	store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in ports.PutObjectInput) (string, error) {
		assert.Equal(t, "logos/abc.svg", in.Key)
		return "/uploads/logos/abc.svg", nil
	})
	repo.EXPECT().Create(gomock.Any(), &model.LogoRequest{
		Name:    "acme",
		LogoURL: "/uploads/logos/abc.svg",
		AltText: "Logo klienta: acme",
	}).Return(&model.Logo{ID: 1, Name: "acme"}, nil)
	cache.EXPECT().Invalidate(gomock.Any(), ports.CacheKeyLogos).Return(nil)

	logo, err := svc.Upload(context.Background(), UploadedFile{
		Filename: "acme.svg", ContentType: "image/svg+xml", Size: 4, Body: strings.NewReader("<svg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", logo.Name)
}

func TestLogoService_UploadRemovesOrphanOnCreateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLogoRepository(ctrl)
	store := mocks.NewMockObjectStore(ctrl)

	uploads := NewUploadService(store, nil)
	uploads.newID = func() string { return "abc" }
	svc := NewLogoService(LogoServiceOptions{Repo: repo, Uploads: uploads}, nil)

	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return("/uploads/logos/abc.png", nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	store.EXPECT().Delete(gomock.Any(), "logos/abc.png").Return(nil)

	_, err := svc.Upload(context.Background(), UploadedFile{Filename: "x.png", Body: strings.NewReader("png")})
	assert.Error(t, err)
}

func TestHomeService_LoadsAllSections(t *testing.T) {
	ctrl := gomock.NewController(t)
	projects := mocks.NewMockProjectRepository(ctrl)
	faq := mocks.NewMockFAQRepository(ctrl)
	testimonials := mocks.NewMockTestimonialRepository(ctrl)
	logos := mocks.NewMockLogoRepository(ctrl)
	about := mocks.NewMockAboutRepository(ctrl)

	projects.EXPECT().ListLatest(gomock.Any(), 2).Return(sampleProjects()[:2], nil)
	faq.EXPECT().List(gomock.Any()).Return([]model.FAQItem{{ID: 1}}, nil)
	testimonials.EXPECT().List(gomock.Any()).Return([]model.Testimonial{{ID: 1}}, nil)
	logos.EXPECT().List(gomock.Any()).Return([]model.Logo{{ID: 1}, {ID: 2}}, nil)
	about.EXPECT().Get(gomock.Any()).Return(&model.About{Heading: "Cześć"}, nil)

	home := &HomeService{
		Projects:       NewProjectService(ProjectServiceOptions{Repo: projects}),
		FAQ:            NewFAQService(FAQServiceOptions{Repo: faq}),
		Testimonials:   NewTestimonialService(TestimonialServiceOptions{Repo: testimonials}),
		Logos:          NewLogoService(LogoServiceOptions{Repo: logos}, nil),
		About:          NewAboutService(AboutServiceOptions{Repo: about}),
		LatestProjects: 2,
	}

	page, err := home.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Projects, 2)
	assert.Len(t, page.Logos, 4)
	assert.Equal(t, "Cześć", page.About.Heading)
}
