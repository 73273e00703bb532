package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/ports"
)

// Resolution is the outcome of a session lookup.
type Resolution struct {
	// Session is the authenticated session, nil for anonymous visitors.
	Session *domainauth.Session
	// Resolved is false when the store could not answer; Session then holds
	// the last known value.
	Resolved bool
}

// SessionResolver determines who is visiting. Lookup failures never surface
// as errors: the last known value is kept and the result is marked unresolved.
type SessionResolver struct {
	auth   *AuthService
	logger *slog.Logger
}

// NewSessionResolver creates a SessionResolver on top of the auth service.
func NewSessionResolver(auth *AuthService, logger *slog.Logger) *SessionResolver {
	if auth == nil {
		panic("AuthService is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionResolver{auth: auth, logger: logger.With("component", "session_resolver")}
}

// Resolve looks up sessionID. lastKnown is returned when the store fails.
func (r *SessionResolver) Resolve(ctx context.Context, sessionID string, lastKnown *domainauth.Session) Resolution {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Resolution{Resolved: true}
	}

	sess, err := r.auth.GetSession(ctx, sessionID)
	switch {
	case err == nil:
		if !sess.HasPrincipal() {
			return Resolution{Resolved: true}
		}
		return Resolution{Session: sess, Resolved: true}
	case errors.Is(err, ports.ErrSessionNotFound):
		return Resolution{Resolved: true}
	default:
		r.logger.DebugContext(ctx, "session lookup failed, keeping last known value", "error", err)
		return Resolution{Session: lastKnown, Resolved: false}
	}
}
