package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/damedesign/portfolio/config"
)

func TestBuildAuthServiceReturnsNilWithoutRedis(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "dev auth mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				DevAuth: config.DevAuthConfig{
					UserID: "dev",
					Email:  "dev@example.com",
				},
			},
		},
		{
			name: "oidc mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeOIDC,
				OIDC: config.OIDCConfig{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					DiscoveryURL: "https://issuer.example.com",
					RedirectURL:  "https://damedesign.pl/auth/callback",
					Scope:        "openid",
				},
			},
		},
		{
			name: "password mode",
			auth: config.AuthConfig{Mode: config.AuthModePassword},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				Auth:        tt.auth,
				RedisClient: nil,
				Logger:      logger,
			}

			if svc := BuildAuthService(cfg); svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
		})
	}
}

func TestBuildAuthServiceModes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// The client is never dialled while building the service.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	tests := []struct {
		name    string
		auth    config.AuthConfig
		wantNil bool
	}{
		{
			name: "mock mode builds",
			auth: config.AuthConfig{
				Mode:    config.AuthModeMock,
				DevAuth: config.DevAuthConfig{UserID: "dev", Email: "dev@example.com"},
			},
		},
		{
			name:    "mock mode without identity",
			auth:    config.AuthConfig{Mode: config.AuthModeMock},
			wantNil: true,
		},
		{
			name:    "oidc without client secret",
			auth:    config.AuthConfig{Mode: config.AuthModeOIDC, OIDC: config.OIDCConfig{ClientID: "id", DiscoveryURL: "https://issuer"}},
			wantNil: true,
		},
		{
			name:    "password mode needs a database",
			auth:    config.AuthConfig{Mode: config.AuthModePassword},
			wantNil: true,
		},
		{
			name:    "unknown mode",
			auth:    config.AuthConfig{Mode: "ldap"},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := BuildAuthService(AuthConfig{Auth: tt.auth, RedisClient: client, Logger: logger})
			if tt.wantNil && svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
			if !tt.wantNil && svc == nil {
				t.Fatal("BuildAuthService() = nil, want service")
			}
		})
	}
}
