package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portfolio "github.com/damedesign/portfolio"
	"github.com/damedesign/portfolio/internal/domain/contactfeed"
	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/damedesign/portfolio/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Site         SiteInfo
	Home         HomeLoader
	Projects     ProjectsService
	FAQ          FAQsService
	Testimonials TestimonialsService
	About        AboutContentService
	Logos        LogosService
	Contact      ContactSubmitter
	Inbox        InboxService
	Maintenance  MaintenanceToggler
	Uploads      Uploader
	Sitemap      SitemapBuilder
	// Feed is optional; nil disables the live inbox.
	Feed contactfeed.Feed

	Auth       *service.AuthService
	AuthEvents ports.AuthEventBus
	Sessions   SessionResolverInterface
	SiteMode   SiteModeChecker

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// MetricsPath defaults to /metrics.
	MetricsPath string
	// HealthChecks run on /readyz.
	HealthChecks map[string]HealthCheck

	// UploadsDir is served under /uploads/ when files are kept on disk.
	UploadsDir   string
	CookieDomain string
	BodyLimits   BodyLimits
	// Compression is skipped when nil.
	Compression *CompressionConfig

	// TemplateFS and StaticFS override the embedded or on-disk sources.
	TemplateFS fs.FS
	StaticFS   fs.FS

	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter wires every route and the browser middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.SiteMode == nil {
		return nil, errors.New("router: SiteMode is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveFrontend(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Resolver:   NewAssetResolver(staticFS, services.IsDev, logger),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("router: parse templates: %w", err)
	}

	ui := newUIHandlers(services, tr, logger)
	mux := http.NewServeMux()

	health := &HealthHandlers{Checks: services.HealthChecks}
	mux.HandleFunc("GET /healthz", health.Live)
	mux.HandleFunc("HEAD /healthz", health.Live)
	mux.HandleFunc("GET /readyz", health.Ready)
	if services.Gatherer != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(services.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	if sounds, err := fs.Sub(staticFS, "sounds"); err == nil {
		mux.Handle("GET /sounds/", staticWithCacheHeaders(http.StripPrefix("/sounds/", http.FileServer(http.FS(sounds)))))
	}
	if services.UploadsDir != "" {
		mux.Handle("GET /uploads/", uploadsHandler(services.UploadsDir))
	}

	registerPublicRoutes(mux, ui)
	registerAuthRoutes(mux, services, ui, logger)
	registerAdminRoutes(mux, ui)

	var handler http.Handler = mux
	handler = Metrics(services.Metrics)(handler)
	handler = &notFoundHandler{mux: mux, next: handler, uiHandlers: ui}
	handler = SiteGate(GateOptions{
		SiteMode: services.SiteMode,
		Pages:    ui,
		Exempt:   []string{services.MetricsPath},
		Logger:   logger,
	})(handler)
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Exempt: IsJSONAPIRequest})(handler)
	handler = DrainNotification(services.CookieDomain)(handler)
	handler = SessionLoader(services.Sessions)(handler)
	handler = BrowserDetection()(handler)
	handler = BodyLimit(services.BodyLimits)(handler)
	if services.Compression != nil {
		handler = Compression(*services.Compression)(handler)
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

// resolveFrontend picks the template and static sources. Dev mode reads from
// disk so edits show up without a rebuild.
func resolveFrontend(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(portfolio.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("router: embedded templates: %w", err)
			}
			templateFS = sub
		}
	}
	if staticFS == nil {
		if services.IsDev {
			staticFS = os.DirFS("frontend/static")
		} else {
			sub, err := fs.Sub(portfolio.StaticFS, "frontend/static")
			if err != nil {
				return nil, nil, fmt.Errorf("router: embedded static assets: %w", err)
			}
			staticFS = sub
		}
	}
	return templateFS, staticFS, nil
}

func newUIHandlers(services RouterServices, tr *TemplateRenderer, logger *slog.Logger) *UIHandlers {
	ui := &UIHandlers{
		T:              tr,
		Site:           services.Site,
		HomeContent:    services.Home,
		Projects:       services.Projects,
		FAQ:            services.FAQ,
		Testimonials:   services.Testimonials,
		About:          services.About,
		Logos:          services.Logos,
		Contact:        services.Contact,
		Inbox:          services.Inbox,
		Maintenance:    services.Maintenance,
		Uploads:        services.Uploads,
		SitemapSource:  services.Sitemap,
		Feed:           services.Feed,
		Metrics:        services.Metrics,
		MaxUploadBytes: services.BodyLimits.Multipart,
		CookieDomain:   services.CookieDomain,
		IsDev:          services.IsDev,
		Logger:         logger.With("component", "ui"),
	}
	if services.Auth != nil {
		ui.Auth = services.Auth
	}
	return ui
}

func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /portfolio", h.Portfolio)
	mux.HandleFunc("GET /portfolio/{slug}", h.ProjectDetail)
	mux.HandleFunc("GET /polityka-prywatnosci", h.Privacy)
	mux.HandleFunc("POST /consent", h.Consent)
	mux.HandleFunc("POST /contact", h.ContactSubmit)
	mux.HandleFunc("POST /api/send-email", h.SendEmail)
	mux.HandleFunc("GET /sitemap.xml", h.Sitemap)
	mux.HandleFunc("GET /robots.txt", h.Robots)
}

func registerAuthRoutes(mux *http.ServeMux, services RouterServices, ui *UIHandlers, logger *slog.Logger) {
	mux.HandleFunc("GET /login", ui.LoginPage)
	mux.HandleFunc("POST /login", ui.LoginSubmit)
	mux.HandleFunc("POST /logout", ui.Logout)
	if services.Auth == nil {
		return
	}
	h := &AuthHandlers{
		Svc:          services.Auth,
		Events:       services.AuthEvents,
		CookieDomain: services.CookieDomain,
		Logger:       logger.With("component", "auth_http"),
	}
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /auth/events", h.StreamEvents)
}

func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers) {
	admin := RequireAdmin()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, admin(fn))
	}

	handle("GET /portfolio/new", h.ProjectNew)
	handle("GET /portfolio/{slug}/edit", h.ProjectEdit)
	handle("POST /admin/projects", h.ProjectCreate)
	handle("POST /admin/projects/{id}", h.ProjectUpdate)
	handle("POST /admin/projects/{id}/delete", h.ProjectDelete)

	handle("GET /admin/faq/new", h.FAQNew)
	handle("GET /admin/faq/edit/{id}", h.FAQEdit)
	handle("POST /admin/faq", h.FAQCreate)
	handle("POST /admin/faq/{id}", h.FAQUpdate)
	handle("POST /admin/faq/{id}/delete", h.FAQDelete)

	handle("GET /admin/testimonials/new", h.TestimonialNew)
	handle("GET /admin/testimonials/edit/{id}", h.TestimonialEdit)
	handle("POST /admin/testimonials", h.TestimonialCreate)
	handle("POST /admin/testimonials/{id}", h.TestimonialUpdate)
	handle("POST /admin/testimonials/{id}/delete", h.TestimonialDelete)

	handle("GET /admin/edit-about", h.AboutEdit)
	handle("POST /admin/edit-about", h.AboutSave)

	handle("POST /admin/logos", h.LogoUpload)
	handle("POST /admin/logos/{id}/delete", h.LogoDelete)
	handle("POST /admin/uploads", h.Upload)

	handle("GET /admin/inbox", h.InboxPage)
	handle("GET /admin/inbox/feed", h.InboxFeed)
	handle("POST /admin/inbox/{id}/read", h.InboxMarkRead)
	handle("POST /admin/inbox/{id}/delete", h.InboxDelete)

	handle("POST /admin/maintenance", h.ToggleMaintenance)
}

// uploadsHandler serves files kept by the local store. Directory listings are
// not exposed.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/uploads/" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

// hashedFilePattern matches fingerprinted asset names and ?v= cache busters.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) || r.URL.Query().Get("v") != "" {
			// Versioned assets can be cached for a long time (1 year)
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler renders the site's 404 page for requests no route matches.
// Matched routes, including streaming ones, are served untouched.
type notFoundHandler struct {
	mux        *http.ServeMux
	next       http.Handler
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern == "" {
		h.uiHandlers.NotFound(w, r)
		return
	}
	h.next.ServeHTTP(w, r)
}
