// Package devseed fills an empty development database with sample portfolio content.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/damedesign/portfolio/internal/adapters/passwordauth"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
)

// Repos bundles the repositories the seeder writes to.
type Repos struct {
	Projects     ports.ProjectRepository
	FAQ          ports.FAQRepository
	Testimonials ports.TestimonialRepository
	About        ports.AboutRepository
	AdminUsers   ports.AdminUserRepository
}

// Admin is the development administrator created when AdminUsers is set.
type Admin struct {
	Email    string
	Name     string
	Password string
}

// Options configures a seeding run.
type Options struct {
	Admin  Admin
	Logger *slog.Logger
}

// Run seeds every collection that is still empty. Collections that already hold
// rows are left alone, so running it twice is harmless.
func Run(ctx context.Context, repos Repos, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "devseed")

	failures := 0
	failures += seedProjects(ctx, repos.Projects, logger)
	failures += seedFAQ(ctx, repos.FAQ, logger)
	failures += seedTestimonials(ctx, repos.Testimonials, logger)
	if err := seedAbout(ctx, repos.About, logger); err != nil {
		logger.ErrorContext(ctx, "failed to seed about section", "error", err)
		failures++
	}
	if repos.AdminUsers != nil && opts.Admin.Email != "" {
		if err := seedAdmin(ctx, repos.AdminUsers, opts.Admin, logger); err != nil {
			logger.ErrorContext(ctx, "failed to seed admin user", "email", opts.Admin.Email, "error", err)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultProjects() []*model.ProjectRequest {
	return []*model.ProjectRequest{
		{
			Title:        "Identyfikacja wizualna kawiarni Ziarno",
			Tags:         []string{"branding", "logo"},
			Category:     "Branding",
			Year:         "2024",
			Introduction: "Logo, paleta kolorów i opakowania dla lokalnej palarni kawy.",
			Content:      "## Wyzwanie\n\nKlient potrzebował marki, która będzie ciepła i rzemieślnicza.\n\n## Efekt\n\n- logo i sygnet\n- etykiety na opakowania\n- szablony social media",
		},
		{
			Title:        "Strona internetowa studia jogi",
			Tags:         []string{"web", "ui"},
			Category:     "Web design",
			Year:         "2023",
			Introduction: "Projekt strony z grafikiem zajęć i zapisami online.",
			Content:      "Prosty układ, duże zdjęcia i czytelny grafik zajęć.",
		},
		{
			Title:        "Seria plakatów festiwalowych",
			Tags:         []string{"print", "ilustracja"},
			Category:     "Print",
			Year:         "2022",
			Introduction: "Trzy plakaty na letni festiwal muzyczny.",
			Content:      "Ilustracje wykonane ręcznie, a następnie zdigitalizowane.",
		},
	}
}

func seedProjects(ctx context.Context, repo ports.ProjectRepository, logger *slog.Logger) int {
	if repo == nil {
		return 0
	}
	existing, err := repo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list projects", "error", err)
		return 1
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "projects already present", "count", len(existing))
		return 0
	}
	failures := 0
	for _, req := range defaultProjects() {
		created, err := repo.Create(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create project", "title", req.Title, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created project", "slug", created.Slug)
	}
	return failures
}

func seedFAQ(ctx context.Context, repo ports.FAQRepository, logger *slog.Logger) int {
	if repo == nil {
		return 0
	}
	existing, err := repo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list faq items", "error", err)
		return 1
	}
	if len(existing) > 0 {
		return 0
	}
	items := []*model.FAQRequest{
		{Question: "Ile trwa zaprojektowanie logo?", Answer: "Zwykle od dwóch do trzech tygodni, w zależności od liczby poprawek."},
		{Question: "Czy przekazujesz pliki źródłowe?", Answer: "Tak, po zakończeniu projektu otrzymujesz komplet plików wektorowych."},
		{Question: "Jak wygląda wycena?", Answer: "Napisz przez formularz kontaktowy, a odpowiem z wyceną w ciągu 48 godzin."},
	}
	failures := 0
	for _, req := range items {
		if _, err := repo.Create(ctx, req); err != nil {
			logger.ErrorContext(ctx, "failed to create faq item", "question", req.Question, "error", err)
			failures++
		}
	}
	return failures
}

func seedTestimonials(ctx context.Context, repo ports.TestimonialRepository, logger *slog.Logger) int {
	if repo == nil {
		return 0
	}
	existing, err := repo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list testimonials", "error", err)
		return 1
	}
	if len(existing) > 0 {
		return 0
	}
	items := []*model.TestimonialRequest{
		{Name: "Anna, Ziarno", Text: "Świetny kontakt i projekt, który od razu pokochali nasi klienci."},
		{Name: "Marek, Studio Oddech", Text: "Strona jest przejrzysta, a zapisy online działają bez zarzutu."},
	}
	failures := 0
	for _, req := range items {
		if _, err := repo.Create(ctx, req); err != nil {
			logger.ErrorContext(ctx, "failed to create testimonial", "name", req.Name, "error", err)
			failures++
		}
	}
	return failures
}

func seedAbout(ctx context.Context, repo ports.AboutRepository, logger *slog.Logger) error {
	if repo == nil {
		return nil
	}
	if _, err := repo.Get(ctx); err == nil {
		return nil
	} else if !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	_, err := repo.Upsert(ctx, &model.AboutRequest{
		Heading:     "Cześć, jestem Dame!",
		Description: "Projektuję identyfikacje wizualne i strony internetowe dla małych marek.\nLubię proste formy i mocne kolory.",
	})
	if err == nil {
		logger.InfoContext(ctx, "created about section")
	}
	return err
}

func seedAdmin(ctx context.Context, repo ports.AdminUserRepository, admin Admin, logger *slog.Logger) error {
	if _, err := repo.GetByEmail(ctx, admin.Email); err == nil {
		logger.InfoContext(ctx, "admin user already exists", "email", admin.Email)
		return nil
	} else if !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	hash, err := passwordauth.Hash(admin.Password)
	if err != nil {
		return err
	}
	if _, err := repo.Create(ctx, admin.Email, admin.Name, hash); err != nil {
		return err
	}
	logger.InfoContext(ctx, "created admin user", "email", admin.Email)
	return nil
}
