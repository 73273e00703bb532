package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// Identity represents the authenticated principal returned by a provider.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (admin_users.id or OIDC sub)
	Name      string
	Email     string
	ExpiresAt time.Time // absolute expiry from the provider, zero when unbounded
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// HasPrincipal reports whether s carries an authenticated admin.
// A nil session is anonymous.
func (s *Session) HasPrincipal() bool {
	return s != nil && s.UserID != "" && s.Role == RoleAdmin
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// DisplayName prefers the name and falls back to the email.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}
