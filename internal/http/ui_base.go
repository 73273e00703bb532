package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/damedesign/portfolio/internal/domain/contactfeed"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/http/ui/viewmodel"
	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/service"
)

// ProjectsService is the slice of project operations the UI needs.
type ProjectsService interface {
	All(ctx context.Context) ([]model.Project, error)
	Detail(ctx context.Context, slug string) (*service.ProjectDetail, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	Create(ctx context.Context, req *model.ProjectRequest) (*model.Project, error)
	Update(ctx context.Context, id int64, req *model.ProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// FAQsService manages FAQ entries.
type FAQsService interface {
	GetByID(ctx context.Context, id int64) (*model.FAQItem, error)
	Create(ctx context.Context, req *model.FAQRequest) (*model.FAQItem, error)
	Update(ctx context.Context, id int64, req *model.FAQRequest) (*model.FAQItem, error)
	Delete(ctx context.Context, id int64) error
}

// TestimonialsService manages testimonials.
type TestimonialsService interface {
	GetByID(ctx context.Context, id int64) (*model.Testimonial, error)
	Create(ctx context.Context, req *model.TestimonialRequest) (*model.Testimonial, error)
	Update(ctx context.Context, id int64, req *model.TestimonialRequest) (*model.Testimonial, error)
	Delete(ctx context.Context, id int64) error
}

// AboutContentService reads and saves the about section.
type AboutContentService interface {
	Get(ctx context.Context) (*model.About, error)
	Save(ctx context.Context, req *model.AboutRequest) (*model.About, error)
}

// LogosService uploads and removes client logos.
type LogosService interface {
	Upload(ctx context.Context, f service.UploadedFile) (*model.Logo, error)
	Delete(ctx context.Context, id int64) error
}

// HomeLoader loads every section of the landing page.
type HomeLoader interface {
	Load(ctx context.Context) (*service.HomePage, error)
}

// ContactSubmitter stores and relays contact form submissions.
type ContactSubmitter interface {
	Submit(ctx context.Context, req model.ContactRequest, files []service.UploadedFile) (*model.ContactSubmission, error)
	Relay(ctx context.Context, req model.ContactRequest) error
}

// InboxService reads and manages the admin inbox.
type InboxService interface {
	Load(ctx context.Context) (*service.Inbox, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// MaintenanceToggler persists the maintenance flag.
type MaintenanceToggler interface {
	Set(ctx context.Context, on bool, actor string) (notification.Message, error)
	Status(ctx context.Context) (bool, error)
}

// Uploader stores a single uploaded file.
type Uploader interface {
	Put(ctx context.Context, folder string, f service.UploadedFile) (service.StoredFile, error)
}

// SiteInfo is the static site metadata the chrome needs.
type SiteInfo struct {
	Name        string
	BaseURL     string
	AnalyticsID string
}

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Site         SiteInfo
	HomeContent  HomeLoader
	Projects     ProjectsService
	FAQ          FAQsService
	Testimonials TestimonialsService
	About        AboutContentService
	Logos        LogosService
	Contact      ContactSubmitter
	Inbox        InboxService
	Maintenance  MaintenanceToggler
	Uploads      Uploader
	// Feed pushes inbox changes; nil disables the live inbox.
	Feed contactfeed.Feed
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// SitemapSource builds sitemap.xml.
	SitemapSource SitemapBuilder
	// Auth is used by the login page; nil disables the password form.
	Auth PasswordLoginService
	// MaxUploadBytes bounds multipart bodies.
	MaxUploadBytes int64
	CookieDomain   string
	IsDev          bool // Development mode flag for enhanced error reporting
	Logger         *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h != nil && h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	Description string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func (h *UIHandlers) buildLayout(r *http.Request, meta PageMeta) *viewmodel.Layout {
	title := meta.Title
	switch {
	case title == "":
		title = h.Site.Name
	case h.Site.Name != "" && !strings.Contains(title, h.Site.Name):
		title = title + " | " + h.Site.Name
	}

	layout := &viewmodel.Layout{
		Title:       title,
		Description: meta.Description,
		CurrentPage: meta.CurrentPage,
		Path:        r.URL.Path,
		SiteName:    h.Site.Name,
		CSRFToken:   GetCSRFToken(r),
	}
	if h.Site.BaseURL != "" {
		layout.CanonicalURL = h.Site.BaseURL + r.URL.Path
	}

	if session := GetSessionFromContext(r.Context()); session.HasPrincipal() {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{Name: session.DisplayName(), Email: session.Email}
	}

	layout.Chrome = composeChrome(r, chromeInput{
		AnalyticsID:     h.Site.AnalyticsID,
		MaintenanceMode: GetGateFromContext(r.Context()).MaintenanceMode,
		Notifications:   Notifications(r.Context()),
	})
	return layout
}

// layoutOf returns the layout stored in page data.
func (h *UIHandlers) layoutOf(data map[string]any) *viewmodel.Layout {
	if l, ok := data["Layout"].(*viewmodel.Layout); ok && l != nil {
		return l
	}
	l := &viewmodel.Layout{SiteName: h.Site.Name}
	data["Layout"] = l
	return l
}

// basePageData constructs the common page data map with the layout.
func (h *UIHandlers) basePageData(r *http.Request, meta PageMeta) map[string]any {
	return map[string]any{
		"Layout":      h.buildLayout(r, meta),
		"CurrentPage": meta.CurrentPage,
		"CSRFToken":   GetCSRFToken(r),
		"Now":         h.now(),
	}
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// Fetch errors surface as a not-found page or an error toast.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := h.basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if apperrors.IsNotFound(err) {
				h.NotFound(w, r)
				return
			}
			h.logger().ErrorContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage, "path", r.URL.Path, "error", err)
			markPageError(data, err)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a page with htmx partial support.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout, _ := data["Layout"].(*viewmodel.Layout)
	if layout != nil {
		// Include a <title> element so htmx updates document.title on partial swaps
		if _, err := w.Write([]byte(`<title>` + html.EscapeString(layout.Title) + `</title>`)); err != nil {
			h.logger().Error("failed to write partial document title", "error", err)
			return
		}
	}
	if err := h.T.RenderPartial(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

func markPageError(data map[string]any, err error) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = apperrors.UserMessage(err)
}

// notify replies to a mutation with msg. htmx requests receive a toast and,
// when redirectTo is set, an HX-Redirect carrying the notification params;
// plain form posts are redirected with the notification params.
func notify(w http.ResponseWriter, r *http.Request, msg notification.Message, redirectTo string) {
	if IsHTMX(r) {
		if redirectTo != "" {
			HTMX(w).Redirect(notification.RedirectURL(redirectTo, msg))
			return
		}
		HTMX(w).Toast(msg)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if redirectTo == "" {
		redirectTo = refererPath(r)
	}
	http.Redirect(w, r, notification.RedirectURL(redirectTo, msg), http.StatusSeeOther)
}

// toastError reports a failed mutation without touching the page. Store
// failures are shown verbatim.
func (h *UIHandlers) toastError(w http.ResponseWriter, r *http.Request, err error) {
	msg := notification.Error(apperrors.UserMessage(err))
	h.logger().WarnContext(r.Context(), "request failed",
		"path", r.URL.Path, "method", r.Method, "code", apperrors.GetCode(err), "error", err)
	if IsHTMX(r) {
		w.Header().Set("Hx-Reswap", "none")
		HTMX(w).Toast(msg)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, notification.RedirectURL(refererPath(r), msg), http.StatusSeeOther)
}

// refererPath returns the same-origin path the request came from, or "/".
func refererPath(r *http.Request) string {
	if p := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); p != "" {
		return notification.StripQuery(mustParsePath(p)).String()
	}
	if p := safeRedirectFromURL(r.Header.Get("Referer")); p != "" {
		return notification.StripQuery(mustParsePath(p)).String()
	}
	return "/"
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<pre class="template-error">` +
			html.EscapeString(context+": "+err.Error()) + `</pre>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "Wystąpił błąd serwera.", http.StatusInternalServerError)
}
