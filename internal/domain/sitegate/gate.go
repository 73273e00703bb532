// Package sitegate decides, per visitor, whether a page renders the
// maintenance placeholder, a neutral loading placeholder, or the normal chrome.
package sitegate

import (
	"path"
	"strings"

	"github.com/damedesign/portfolio/internal/domain/auth"
)

// LoginRoute always bypasses maintenance gating.
const LoginRoute = "/login"

// State is the rendered page variant.
type State string

const (
	// StateLoading renders a neutral placeholder until the session resolves.
	StateLoading State = "loading"
	// StateMaintenance renders the maintenance placeholder without chrome.
	StateMaintenance State = "maintenance"
	// StateNormal renders the full site chrome.
	StateNormal State = "normal"
)

// Input is the snapshot the gate is evaluated against.
type Input struct {
	MaintenanceMode bool
	// Session is the server-provided session, nil for anonymous visitors.
	Session *auth.Session
	// SessionResolved is false while the fresh session lookup is outstanding.
	SessionResolved bool
	Route           string
}

// IsLoginRoute reports whether p names the login route. Trailing slashes and
// dot segments are ignored.
func IsLoginRoute(p string) bool {
	if p == "" {
		return false
	}
	cleaned := path.Clean("/" + strings.TrimSpace(p))
	return cleaned == LoginRoute
}

// Decide applies the maintenance invariant: the placeholder is shown iff the
// site is in maintenance, the session has no principal and the route is not
// the login route.
func Decide(in Input) State {
	if in.MaintenanceMode && !in.Session.HasPrincipal() && !IsLoginRoute(in.Route) {
		return StateMaintenance
	}
	return StateNormal
}

// Initial returns the first state for a page load. Loading is only used when
// the answer actually depends on a session that has not resolved yet.
func Initial(in Input) State {
	if !in.SessionResolved && in.MaintenanceMode && in.Session == nil && !IsLoginRoute(in.Route) {
		return StateLoading
	}
	return Decide(in)
}
