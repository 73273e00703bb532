package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/damedesign/portfolio/internal/domain/model"
)

// HomePage holds every section of the landing page.
type HomePage struct {
	Projects     []model.Project
	FAQ          []model.FAQItem
	Testimonials []model.Testimonial
	Logos        []model.Logo
	About        *model.About
}

// HomeService loads the landing page sections concurrently.
type HomeService struct {
	Projects       *ProjectService
	FAQ            *FAQService
	Testimonials   *TestimonialService
	Logos          *LogoService
	About          *AboutService
	LatestProjects int
}

// Load fetches all sections; the first failure cancels the rest.
func (s *HomeService) Load(ctx context.Context) (*HomePage, error) {
	var page HomePage
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		page.Projects, err = s.Projects.Latest(gctx, s.LatestProjects)
		return err
	})
	g.Go(func() error {
		var err error
		page.FAQ, err = s.FAQ.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		page.Testimonials, err = s.Testimonials.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		page.Logos, err = s.Logos.Carousel(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		page.About, err = s.About.Get(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}
