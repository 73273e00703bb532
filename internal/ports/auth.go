// Package ports defines the interfaces services depend on. Implementations live in
// internal/adapters and internal/data; orchestration lives in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
)

// ErrInvalidCredentials is returned by PasswordAuthenticator for any unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionNotFound is returned by SessionStore when a session is absent or expired.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes a redirect-based login against an IdP.
type AuthProvider interface {
	// Begin returns the provider auth URL, an opaque state and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	// Exchange verifies state and nonce and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// PasswordAuthenticator checks an email/password pair.
type PasswordAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (domainauth.Identity, error)
}

// SessionStore persists and retrieves admin sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper decides which role an authenticated identity receives.
type RoleMapper interface {
	Map(id domainauth.Identity) domainauth.Role
}

// AuthEvent announces that a session was created or ended.
type AuthEvent struct {
	SessionID string
	Session   *domainauth.Session // nil on sign-out
}

// AuthEventBus fans session changes out to open admin tabs.
type AuthEventBus interface {
	Publish(ev AuthEvent)
	Subscribe(sessionID string) (<-chan AuthEvent, func())
}
