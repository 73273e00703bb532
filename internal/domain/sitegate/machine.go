package sitegate

import "github.com/damedesign/portfolio/internal/domain/auth"

// EventKind enumerates what can make the gate re-evaluate.
type EventKind string

const (
	// EventSessionResolved carries the result of the fresh session lookup.
	EventSessionResolved EventKind = "session_resolved"
	// EventSessionChanged carries a sign-in, sign-out or token refresh.
	EventSessionChanged EventKind = "session_changed"
	// EventRouteChanged carries a navigation.
	EventRouteChanged EventKind = "route_changed"
	// EventSiteModeChanged carries a fresh site-mode snapshot.
	EventSiteModeChanged EventKind = "site_mode_changed"
)

// Event is one input to the gate.
type Event struct {
	Kind            EventKind
	Session         *auth.Session
	Route           string
	MaintenanceMode bool
	// LookupFailed marks a session lookup that errored; the last known
	// session is kept.
	LookupFailed bool
}

// Gate is a live decision over a changing snapshot. It has no terminal state:
// every event re-runs Decide against the updated snapshot.
type Gate struct {
	in    Input
	state State
}

// New seeds a gate from the page-load snapshot.
func New(in Input) *Gate {
	return &Gate{in: in, state: Initial(in)}
}

// State returns the current variant.
func (g *Gate) State() State { return g.state }

// Snapshot returns the inputs the current state was derived from.
func (g *Gate) Snapshot() Input { return g.in }

// Session returns the session the gate currently trusts.
func (g *Gate) Session() *auth.Session { return g.in.Session }

// Apply folds ev into the snapshot and returns the new state.
func (g *Gate) Apply(ev Event) State {
	switch ev.Kind {
	case EventSessionResolved:
		g.in.SessionResolved = true
		if !ev.LookupFailed {
			g.in.Session = ev.Session
		}
	case EventSessionChanged:
		g.in.SessionResolved = true
		g.in.Session = ev.Session
	case EventRouteChanged:
		g.in.Route = ev.Route
	case EventSiteModeChanged:
		g.in.MaintenanceMode = ev.MaintenanceMode
	default:
		return g.state
	}

	if g.state == StateLoading && !g.in.SessionResolved {
		g.state = Initial(g.in)
		return g.state
	}
	g.state = Decide(g.in)
	return g.state
}
