package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/damedesign/portfolio/config"
	httpx "github.com/damedesign/portfolio/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildRouterServices maps the service container onto the router's dependencies.
func BuildRouterServices(cfg *HTTPServerConfig) httpx.RouterServices {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	svcs := cfg.Services

	rs := httpx.RouterServices{
		Site: httpx.SiteInfo{
			Name:        appCfg.Site.Name,
			BaseURL:     appCfg.Site.BaseURL,
			AnalyticsID: appCfg.Site.AnalyticsMeasurementID,
		},
		Home:         svcs.Home,
		Projects:     svcs.Projects,
		FAQ:          svcs.FAQ,
		Testimonials: svcs.Testimonials,
		About:        svcs.About,
		Logos:        svcs.Logos,
		Contact:      svcs.Contact,
		Inbox:        svcs.Inbox,
		Maintenance:  svcs.Maintenance,
		Uploads:      svcs.Uploads,
		Sitemap:      svcs.Sitemap,
		Auth:         svcs.Auth,
		SiteMode:     svcs.SiteMode,
		Metrics:      svcs.Observability.Metrics,
		HealthChecks: map[string]httpx.HealthCheck{},
		UploadsDir:   svcs.UploadsDir,
		CookieDomain: appCfg.HTTP.CookieDomain,
		BodyLimits:   httpx.BodyLimits{Default: 1 << 20, Multipart: appCfg.HTTP.MaxUploadBytes},
		IsDev:        appCfg.IsDev,
		Logger:       cfg.Logger,
	}
	// Typed nils must not leak into the interface fields.
	if svcs.Feed != nil {
		rs.Feed = svcs.Feed
	}
	if svcs.AuthEvents != nil {
		rs.AuthEvents = svcs.AuthEvents
	}
	if svcs.Sessions != nil {
		rs.Sessions = svcs.Sessions
	}
	if appCfg.Observability.Metrics.Enabled && svcs.Observability.Registry != nil {
		rs.Gatherer = svcs.Observability.Registry
		rs.MetricsPath = appCfg.Observability.Metrics.Path
	}
	if cfg.DB != nil {
		rs.HealthChecks["postgres"] = PingDB(cfg.DB)
	}
	if cfg.RedisClient != nil {
		rs.HealthChecks["redis"] = PingRedis(cfg.RedisClient)
	}
	if appCfg.HTTP.CompressionEnabled {
		rs.Compression = &httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel, Logger: cfg.Logger}
	}
	return rs
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	router, err := httpx.NewRouter(BuildRouterServices(cfg))
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	addr := ""
	if cfg.Config != nil {
		addr = cfg.Config.HTTP.Addr
	}
	return startServer(cfg.Logger, router, addr), nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	// Feed listeners are stopped before the server drains.
	Feed interface{ StopAll() }
	// Timeout defaults to 10s.
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	if cfg.Feed != nil {
		cfg.Feed.StopAll()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
