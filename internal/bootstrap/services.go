package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/damedesign/portfolio/config"
	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/domain/contactfeed"
	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/damedesign/portfolio/internal/service"
)

// InboxLimit caps how many submissions the admin inbox shows.
const InboxLimit = 100

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Projects     *service.ProjectService
	FAQ          *service.FAQService
	Testimonials *service.TestimonialService
	About        *service.AboutService
	Logos        *service.LogoService
	Home         *service.HomeService
	Sitemap      *service.SitemapService
	Contact      *service.ContactService
	Inbox        *service.InboxService
	Maintenance  *service.MaintenanceService
	SiteMode     *service.SiteModeResolver
	Uploads      *service.UploadService
	Auth         *service.AuthService
	AuthEvents   *service.AuthEventBus
	Sessions     *service.SessionResolver
	Feed         *contactfeed.Notifier

	// UploadsDir is set when uploads are kept on local disk.
	UploadsDir    string
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Config   config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports; no business rules here.
type serviceRepositories struct {
	Projects     *data.ProjectRepo
	FAQ          *data.FAQRepo
	Testimonials *data.TestimonialRepo
	About        *data.AboutRepo
	Logos        *data.LogoRepo
	Contact      *data.ContactRepo
	SiteSettings *data.SiteSettingsRepo
	Cache        ports.ContentCache
}

// buildObservability creates the Prometheus registry shared by the router and services.
func buildObservability(cfg config.ObservabilityConfig) ObservabilityContainer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return ObservabilityContainer{
		Registry: reg,
		Metrics:  metrics.New(reg),
		Config:   cfg.Metrics,
	}
}

func buildRepositories(db *sql.DB, rdb redis.UniversalClient, cacheEnabled bool) *serviceRepositories {
	repos := &serviceRepositories{
		Projects:     data.NewProjectRepo(db),
		FAQ:          data.NewFAQRepo(db),
		Testimonials: data.NewTestimonialRepo(db),
		About:        data.NewAboutRepo(db),
		Logos:        data.NewLogoRepo(db),
		Contact:      data.NewContactRepo(db),
		SiteSettings: data.NewSiteSettingsRepo(db),
	}
	if cacheEnabled && rdb != nil {
		repos.Cache = data.NewRedisCacheRepo(rdb)
	}
	return repos
}

// BuildServices wires repositories, adapters and services from configuration.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	obs := buildObservability(cfg.Observability)
	repos := buildRepositories(deps.DB, deps.RedisClient, cfg.Cache.Enabled)
	cache := service.CacheConfig{Cache: repos.Cache, TTL: cfg.Cache.TTL, Metrics: obs.Metrics}

	store, err := BuildObjectStore(cfg.Storage, cfg.HTTP.MaxUploadBytes, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	uploads := service.NewUploadService(store.Store, logger)

	projects := service.NewProjectService(service.ProjectServiceOptions{Repo: repos.Projects, Cache: cache, Logger: logger})
	faq := service.NewFAQService(service.FAQServiceOptions{Repo: repos.FAQ, Cache: cache, Logger: logger})
	testimonials := service.NewTestimonialService(service.TestimonialServiceOptions{
		Repo: repos.Testimonials, Cache: cache, Logger: logger,
	})
	about := service.NewAboutService(service.AboutServiceOptions{Repo: repos.About, Cache: cache, Logger: logger})
	logos := service.NewLogoService(service.LogoServiceOptions{Repo: repos.Logos, Uploads: uploads, Cache: cache}, logger)

	contact := service.NewContactService(service.ContactServiceOptions{
		Repo: repos.Contact,
		Delivery: service.ContactDelivery{
			Mailer:    buildMailer(cfg.Mail, cfg.Site.Name, logger),
			Recipient: cfg.Mail.Recipient,
			Webhook:   buildWebhook(cfg.Webhook, cfg.Site.Name, logger),
		},
		Config: service.ContactServiceConfig{Uploads: uploads, Logger: logger, Metrics: obs.Metrics},
	})

	feed, err := contactfeed.NewNotifier(contactfeed.NotifierOptions{
		Waiter: repos.Contact,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create contact feed: %w", err)
	}

	events := service.NewAuthEventBus()
	auth := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Events:      events,
		Metrics:     obs.Metrics,
		Logger:      logger,
	})
	var sessions *service.SessionResolver
	if auth != nil {
		sessions = service.NewSessionResolver(auth, logger)
	}

	return ServiceContainer{
		Projects:     projects,
		FAQ:          faq,
		Testimonials: testimonials,
		About:        about,
		Logos:        logos,
		Home: &service.HomeService{
			Projects:       projects,
			FAQ:            faq,
			Testimonials:   testimonials,
			Logos:          logos,
			About:          about,
			LatestProjects: cfg.Site.LatestProjects,
		},
		Sitemap:     &service.SitemapService{Projects: projects, BaseURL: cfg.Site.BaseURL},
		Contact:     contact,
		Inbox:       service.NewInboxService(repos.Contact, InboxLimit),
		Maintenance: service.NewMaintenanceService(repos.SiteSettings, logger),
		SiteMode: service.NewSiteModeResolver(service.SiteModeResolverOptions{
			Store:    repos.SiteSettings,
			Fallback: cfg.Site.MaintenanceFallback,
			Logger:   logger,
			Metrics:  obs.Metrics,
		}),
		Uploads:       uploads,
		Auth:          auth,
		AuthEvents:    events,
		Sessions:      sessions,
		Feed:          feed,
		UploadsDir:    store.Dir,
		Observability: obs,
	}, nil
}
