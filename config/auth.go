package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword authenticates admins against bcrypt hashes in admin_users.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC uses an external OpenID Connect provider.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc, mock)", v)
	}
}

// OIDCConfig contains OpenID Connect configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-admin"`
	Email  string `env:"EMAIL"   envDefault:"admin@damedesign.local"`
	Name   string `env:"NAME"    envDefault:"Dev Admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminEmails lists identities granted the admin role under OIDC.
	// Password-mode admins get their role from the admin_users table.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:";"`

	// SessionTTL bounds how long an admin session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Validate checks that the selected mode has what it needs.
func (a *AuthConfig) Validate() error {
	if a.Mode == AuthModeOIDC {
		if strings.TrimSpace(a.OIDC.DiscoveryURL) == "" || strings.TrimSpace(a.OIDC.ClientID) == "" {
			return errors.New("AUTH_MODE=oidc requires OIDC_DISCOVERY_URL and OIDC_CLIENT_ID")
		}
	}
	if a.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}
