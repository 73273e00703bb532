package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/google/uuid"
)

// ErrNotAdmin is returned when an authenticated identity is not allowed into the admin area.
var ErrNotAdmin = errors.New("identity is not an administrator")

// ErrLoginMethodDisabled is returned when a login flow is used that the configured mode does not offer.
var ErrLoginMethodDisabled = errors.New("login method is not enabled")

var errSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	// Provider drives the redirect flow; nil disables it.
	Provider ports.AuthProvider
	// Passwords checks email/password logins; nil disables them.
	Passwords ports.PasswordAuthenticator
	Sessions  ports.SessionStore
	Roles     ports.RoleMapper
	Events    ports.AuthEventBus
	Config    AuthServiceConfig
}

// AuthServiceConfig carries tunables.
type AuthServiceConfig struct {
	SessionTTL time.Duration
	Clock      func() time.Time
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// AuthService orchestrates authentication flows by coordinating providers, role mapping,
// session persistence and auth-change events.
type AuthService struct {
	provider  ports.AuthProvider
	passwords ports.PasswordAuthenticator
	sessions  ports.SessionStore
	roles     ports.RoleMapper
	events    ports.AuthEventBus
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Roles == nil {
		panic("RoleMapper is required")
	}
	cfg := opts.Config
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AuthService{
		provider:  opts.Provider,
		passwords: opts.Passwords,
		sessions:  opts.Sessions,
		roles:     opts.Roles,
		events:    opts.Events,
		ttl:       cfg.SessionTTL,
		now:       cfg.Clock,
		logger:    cfg.Logger.With("component", "auth_service"),
		metrics:   cfg.Metrics,
	}
}

// SupportsRedirect reports whether a redirect-based provider is configured.
func (s *AuthService) SupportsRedirect() bool { return s.provider != nil }

// SupportsPassword reports whether email/password login is configured.
func (s *AuthService) SupportsPassword() bool { return s.passwords != nil }

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrLoginMethodDisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the code for an identity, maps the role and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if s.provider == nil {
		return nil, ErrLoginMethodDisabled
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		s.metrics.LoginAttempt("oidc", err)
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session, err := s.startSession(ctx, identity)
	s.metrics.LoginAttempt("oidc", err)
	if err != nil {
		return nil, err
	}
	return &CompleteLoginResult{Session: session}, nil
}

// PasswordLogin checks credentials and persists a session.
// Unknown emails and wrong passwords both yield ports.ErrInvalidCredentials.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (*CompleteLoginResult, error) {
	if s.passwords == nil {
		return nil, ErrLoginMethodDisabled
	}

	identity, err := s.passwords.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.LoginAttempt("password", err)
		if errors.Is(err, ports.ErrInvalidCredentials) {
			s.logger.InfoContext(ctx, "rejected password login")
			return nil, err
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	session, err := s.startSession(ctx, identity)
	s.metrics.LoginAttempt("password", err)
	if err != nil {
		return nil, err
	}
	return &CompleteLoginResult{Session: session}, nil
}

func (s *AuthService) startSession(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	role := s.roles.Map(identity)
	if role != domainauth.RoleAdmin {
		s.logger.WarnContext(ctx, "login by non-admin identity", "email", identity.Email)
		return domainauth.Session{}, ErrNotAdmin
	}

	expires := s.now().Add(s.ttl)
	if !identity.ExpiresAt.IsZero() && identity.ExpiresAt.Before(expires) {
		expires = identity.ExpiresAt
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: expires,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.publish(session.ID, &session)
	s.logger.InfoContext(ctx, "admin signed in", "user_id", session.UserID)
	return session, nil
}

// GetSession retrieves a live session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, ports.ErrSessionNotFound, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errors.Join(errSessionExpired, ports.ErrSessionNotFound)
	}

	return &session, nil
}

// Logout removes a session and notifies other tabs.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.publish(sessionID, nil)
	return nil
}

func (s *AuthService) publish(sessionID string, session *domainauth.Session) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.AuthEvent{SessionID: sessionID, Session: session})
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
