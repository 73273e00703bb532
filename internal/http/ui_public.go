package httpx

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/service"
)

// SitemapBuilder produces sitemap.xml.
type SitemapBuilder interface {
	Build(ctx context.Context) (*service.Sitemap, error)
}

// ServiceOffer is one card of the home page services strip.
type ServiceOffer struct {
	Title       string
	Description string
}

//nolint:gochecknoglobals // static copy
var serviceOffers = []ServiceOffer{
	{Title: "Logo / Branding", Description: "Tworzę spójne identyfikacje wizualne, które wyróżniają markę."},
	{Title: "Projekty Digital / DTP", Description: "Materiały do sieci i druku: social media, banery, katalogi."},
	{Title: "Ilustracje", Description: "Autorskie ilustracje dopasowane do charakteru projektu."},
}

const consentMaxAge = 365 * 24 * 3600

// Home renders the landing page.
// GET /.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: homeMeta(), Fetch: h.loadHome})
}

func homeMeta() PageMeta {
	return PageMeta{
		Title:       "Projekty graficzne",
		Description: "DameDesign: logo, branding, projekty digital i ilustracje dopasowane do Twoich potrzeb.",
		CurrentPage: PageHome,
	}
}

// loadHome fills the landing page sections.
func (h *UIHandlers) loadHome(ctx context.Context, data map[string]any) error {
	data["Services"] = serviceOffers
	data["MaxAttachments"] = model.MaxContactAttachments
	page, err := h.HomeContent.Load(ctx)
	if err != nil {
		return err
	}
	data["Projects"] = page.Projects
	data["FAQ"] = page.FAQ
	data["Testimonials"] = page.Testimonials
	data["Logos"] = page.Logos
	data["CarouselLogos"] = model.CarouselLoop(page.Logos)
	data["About"] = page.About
	data["IsAuthenticated"] = HasPrincipal(ctx)
	return nil
}

// portfolioQuery reads the listing options from the query string. Tags may be
// repeated or comma separated.
func portfolioQuery(r *http.Request) model.ProjectListOptions {
	q := r.URL.Query()
	var tags []string
	for _, v := range q["tag"] {
		tags = append(tags, model.ParseTags(v)...)
	}
	return model.ProjectListOptions{
		Sort: model.ParseProjectSort(q.Get("sort")),
		Tags: model.NormalizeTags(tags),
	}
}

// Portfolio renders the project grid with sorting and tag filtering. Filter
// controls target #project-grid and receive only the grid.
// GET /portfolio.
func (h *UIHandlers) Portfolio(w http.ResponseWriter, r *http.Request) {
	opts := portfolioQuery(r)
	spec := PageSpec{
		Meta: PageMeta{
			Title:       "Portfolio",
			Description: "Wybrane projekty graficzne: branding, digital i ilustracje.",
			CurrentPage: PagePortfolio,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			all, err := h.Projects.All(ctx)
			if err != nil {
				return err
			}
			data["Projects"] = model.ApplyProjectListOptions(all, opts)
			data["AllTags"] = model.AllTags(all)
			data["Sort"] = string(opts.Sort)
			data["SelectedTags"] = opts.Tags
			data["SortOptions"] = sortOptions
			data["IsAuthenticated"] = HasPrincipal(ctx)
			return nil
		},
	}

	if WantsPartial(r) && r.Header.Get("Hx-Target") == "project-grid" {
		data := map[string]any{"CSRFToken": GetCSRFToken(r)}
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.toastError(w, r, err)
			return
		}
		if err := h.T.RenderNamed(w, "portfolio-grid", data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "portfolio grid render")
		}
		return
	}
	h.Page(w, r, spec)
}

// SortOption is one entry of the portfolio sort dropdown.
type SortOption struct {
	Value string
	Label string
}

//nolint:gochecknoglobals // static copy
var sortOptions = []SortOption{
	{Value: string(model.ProjectSortNewest), Label: "Najnowsze"},
	{Value: string(model.ProjectSortOldest), Label: "Najstarsze"},
	{Value: string(model.ProjectSortYearDesc), Label: "Rok: malejąco"},
	{Value: string(model.ProjectSortYearAsc), Label: "Rok: rosnąco"},
	{Value: string(model.ProjectSortTags), Label: "Tagi"},
}

// ProjectDetail renders a single project.
// GET /portfolio/{slug}.
func (h *UIHandlers) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{CurrentPage: PageProject},
		Fetch: func(ctx context.Context, data map[string]any) error {
			detail, err := h.Projects.Detail(ctx, slug)
			if err != nil {
				return err
			}
			data["Detail"] = detail
			layout := h.layoutOf(data)
			layout.Title = detail.Project.Title + " | " + h.Site.Name
			layout.Description = detail.Project.Introduction
			return nil
		},
	})
}

// Privacy renders the privacy policy.
// GET /polityka-prywatnosci.
func (h *UIHandlers) Privacy(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "Polityka Prywatności", CurrentPage: PagePrivacy}})
}

// Consent stores the visitor's cookie choice. Accepting reloads the page so
// analytics can start.
// POST /consent.
func (h *UIHandlers) Consent(w http.ResponseWriter, r *http.Request) {
	choice := ConsentDeclined
	if strings.EqualFold(r.PostFormValue("choice"), ConsentAccepted) {
		choice = ConsentAccepted
	}
	setCookie(w, r, h.CookieDomain, cookieSpec{Name: ConsentCookieName, Value: choice, MaxAge: consentMaxAge})

	if IsHTMX(r) {
		if choice == ConsentAccepted && h.Site.AnalyticsID != "" {
			HTMX(w).Refresh()
			return
		}
		// The banner swaps itself out with the empty body.
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, refererPath(r), http.StatusSeeOther)
}

// Sitemap serves sitemap.xml.
// GET /sitemap.xml.
func (h *UIHandlers) Sitemap(w http.ResponseWriter, r *http.Request) {
	sm, err := h.SitemapSource.Build(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sitemap build failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	out, err := xml.MarshalIndent(sm, "", "  ")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

// Robots serves robots.txt.
// GET /robots.txt.
func (h *UIHandlers) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\nDisallow: /login\nDisallow: /admin/\n")
	if h.Site.BaseURL != "" {
		fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", h.Site.BaseURL)
	}
	_, _ = w.Write([]byte(b.String()))
}
