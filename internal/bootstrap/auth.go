package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/damedesign/portfolio/config"
	"github.com/damedesign/portfolio/internal/adapters/authroles"
	"github.com/damedesign/portfolio/internal/adapters/devauth"
	"github.com/damedesign/portfolio/internal/adapters/oidc"
	"github.com/damedesign/portfolio/internal/adapters/passwordauth"
	redisadapter "github.com/damedesign/portfolio/internal/adapters/redis"
	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/damedesign/portfolio/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Events      ports.AuthEventBus
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil when sessions cannot be stored or the selected mode is not usable,
// which leaves the admin area unreachable.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	opts := service.AuthServiceOptions{
		Sessions: redisadapter.NewSessionStore(cfg.RedisClient),
		Events:   cfg.Events,
		Config: service.AuthServiceConfig{
			SessionTTL: cfg.Auth.SessionTTL,
			Logger:     logger,
			Metrics:    cfg.Metrics,
		},
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Email:           cfg.Auth.DevAuth.Email,
			Name:            cfg.Auth.DevAuth.Name,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			return nil
		}
		opts.Provider = prov
		opts.Roles = authroles.EmailAllowlist{AllowAll: true}

	case config.AuthModeOIDC:
		prov, ok := buildOIDCProvider(cfg.Auth.OIDC, logger)
		if !ok {
			return nil
		}
		opts.Provider = prov
		opts.Roles = authroles.EmailAllowlist{Emails: cfg.Auth.AdminEmails}

	case config.AuthModePassword:
		if cfg.DB == nil {
			logger.Warn("password auth disabled: database not configured")
			return nil
		}
		opts.Passwords = passwordauth.NewAuthenticator(data.NewAdminUserRepo(cfg.DB), logger)
		opts.Roles = authroles.EmailAllowlist{AllowAll: true}

	default:
		logger.Warn("unknown auth mode, auth disabled", "mode", cfg.Auth.Mode)
		return nil
	}

	return service.NewAuthService(opts)
}

func buildOIDCProvider(c config.OIDCConfig, logger *slog.Logger) (*oidc.Provider, bool) {
	// Only enable when fully configured
	if c.DiscoveryURL == "" || c.ClientID == "" || c.ClientSecret == "" {
		logger.Warn("AUTH_MODE=oidc selected but required config missing; auth disabled",
			"discovery_url_empty", c.DiscoveryURL == "",
			"client_id_empty", c.ClientID == "",
			"client_secret_empty", c.ClientSecret == "",
		)
		return nil, false
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scope:        c.Scope,
		DiscoveryURL: c.DiscoveryURL,
		LogoutURL:    c.LogoutURL,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		return nil, false
	}
	return prov, true
}
