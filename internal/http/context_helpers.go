package httpx

import (
	"context"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/domain/sitegate"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

type gateKey struct{}

type notificationsKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session resolved for this request, nil for anonymous visitors.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && s != nil {
		return s
	}
	return nil
}

// HasPrincipal reports whether the request carries an authenticated admin.
func HasPrincipal(ctx context.Context) bool {
	return GetSessionFromContext(ctx).HasPrincipal()
}

// GateResult is the gate outcome for the current request.
type GateResult struct {
	State           sitegate.State
	MaintenanceMode bool
}

func setGateInContext(ctx context.Context, g GateResult) context.Context {
	return context.WithValue(ctx, gateKey{}, g)
}

// GetGateFromContext returns the gate outcome, defaulting to Normal when the
// gate middleware did not run.
func GetGateFromContext(ctx context.Context) GateResult {
	if g, ok := ctx.Value(gateKey{}).(GateResult); ok {
		return g
	}
	return GateResult{State: sitegate.StateNormal}
}

func setNotificationsInContext(ctx context.Context, ch *notification.Channel) context.Context {
	return context.WithValue(ctx, notificationsKey{}, ch)
}

// Notifications returns the per-render notification channel. A fresh channel
// is returned when none was attached.
func Notifications(ctx context.Context) *notification.Channel {
	if ch, ok := ctx.Value(notificationsKey{}).(*notification.Channel); ok && ch != nil {
		return ch
	}
	return notification.NewChannel(nil)
}

type sessionResolvedKey struct{}

func setSessionResolvedInContext(ctx context.Context, resolved bool) context.Context {
	return context.WithValue(ctx, sessionResolvedKey{}, resolved)
}

// SessionResolved reports whether the session lookup for this request
// succeeded. Requests that skipped the lookup count as resolved.
func SessionResolved(ctx context.Context) bool {
	if v, ok := ctx.Value(sessionResolvedKey{}).(bool); ok {
		return v
	}
	return true
}
