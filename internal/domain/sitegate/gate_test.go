package sitegate_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/domain/sitegate"
)

func adminSession() *auth.Session {
	return &auth.Session{ID: "s1", UserID: "u1", Email: "owner@damedesign.pl", Role: auth.RoleAdmin}
}

func TestDecide_ExhaustiveInvariant(t *testing.T) {
	sessions := map[string]*auth.Session{
		"anonymous": nil,
		"guest":     {ID: "g", UserID: "g", Role: auth.RoleGuest},
		"admin":     adminSession(),
	}
	routes := []string{"/", "/portfolio", "/login", "/login/", "/portfolio/new", "/polityka-prywatnosci"}

	for _, maintenance := range []bool{false, true} {
		for name, sess := range sessions {
			for _, route := range routes {
				t.Run(fmt.Sprintf("%v/%s/%s", maintenance, name, route), func(t *testing.T) {
					got := sitegate.Decide(sitegate.Input{
						MaintenanceMode: maintenance,
						Session:         sess,
						SessionResolved: true,
						Route:           route,
					})
					want := sitegate.StateNormal
					if maintenance && !sess.HasPrincipal() && !sitegate.IsLoginRoute(route) {
						want = sitegate.StateMaintenance
					}
					assert.Equal(t, want, got)
				})
			}
		}
	}
}

func TestDecide_Scenarios(t *testing.T) {
	t.Run("anonymous visitor on home during maintenance", func(t *testing.T) {
		got := sitegate.Decide(sitegate.Input{MaintenanceMode: true, SessionResolved: true, Route: "/"})
		assert.Equal(t, sitegate.StateMaintenance, got)
	})

	t.Run("anonymous visitor on login during maintenance", func(t *testing.T) {
		got := sitegate.Decide(sitegate.Input{MaintenanceMode: true, SessionResolved: true, Route: "/login"})
		assert.Equal(t, sitegate.StateNormal, got)
	})

	t.Run("admin on portfolio during maintenance", func(t *testing.T) {
		got := sitegate.Decide(sitegate.Input{
			MaintenanceMode: true,
			Session:         adminSession(),
			SessionResolved: true,
			Route:           "/portfolio",
		})
		assert.Equal(t, sitegate.StateNormal, got)
	})
}

func TestInitial_LoadingOnlyWhenAnswerDependsOnSession(t *testing.T) {
	cases := []struct {
		name string
		in   sitegate.Input
		want sitegate.State
	}{
		{"unresolved, maintenance, no server session", sitegate.Input{MaintenanceMode: true, Route: "/"}, sitegate.StateLoading},
		{"unresolved, maintenance off", sitegate.Input{Route: "/"}, sitegate.StateNormal},
		{"unresolved, server session present", sitegate.Input{MaintenanceMode: true, Session: adminSession(), Route: "/"}, sitegate.StateNormal},
		{"unresolved, login route", sitegate.Input{MaintenanceMode: true, Route: "/login"}, sitegate.StateNormal},
		{"resolved anonymous", sitegate.Input{MaintenanceMode: true, SessionResolved: true, Route: "/"}, sitegate.StateMaintenance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sitegate.Initial(tc.in))
		})
	}
}

func TestGate_Transitions(t *testing.T) {
	t.Run("loading to maintenance when lookup resolves anonymous", func(t *testing.T) {
		g := sitegate.New(sitegate.Input{MaintenanceMode: true, Route: "/"})
		require.Equal(t, sitegate.StateLoading, g.State())

		assert.Equal(t, sitegate.StateMaintenance, g.Apply(sitegate.Event{Kind: sitegate.EventSessionResolved}))
	})

	t.Run("loading to normal when lookup finds admin", func(t *testing.T) {
		g := sitegate.New(sitegate.Input{MaintenanceMode: true, Route: "/"})
		got := g.Apply(sitegate.Event{Kind: sitegate.EventSessionResolved, Session: adminSession()})
		assert.Equal(t, sitegate.StateNormal, got)
	})

	t.Run("failed lookup keeps the server provided session", func(t *testing.T) {
		g := sitegate.New(sitegate.Input{MaintenanceMode: true, Session: adminSession(), Route: "/portfolio"})
		require.Equal(t, sitegate.StateNormal, g.State())

		got := g.Apply(sitegate.Event{Kind: sitegate.EventSessionResolved, LookupFailed: true})
		assert.Equal(t, sitegate.StateNormal, got)
		assert.True(t, g.Session().HasPrincipal())
	})

	t.Run("maintenance to normal on sign in", func(t *testing.T) {
		g := sitegate.New(sitegate.Input{MaintenanceMode: true, SessionResolved: true, Route: "/"})
		require.Equal(t, sitegate.StateMaintenance, g.State())

		assert.Equal(t, sitegate.StateNormal, g.Apply(sitegate.Event{Kind: sitegate.EventSessionChanged, Session: adminSession()}))
	})

	t.Run("never terminal", func(t *testing.T) {
		g := sitegate.New(sitegate.Input{MaintenanceMode: true, SessionResolved: true, Route: "/login"})
		require.Equal(t, sitegate.StateNormal, g.State())

		assert.Equal(t, sitegate.StateMaintenance, g.Apply(sitegate.Event{Kind: sitegate.EventRouteChanged, Route: "/"}))
		assert.Equal(t, sitegate.StateNormal, g.Apply(sitegate.Event{Kind: sitegate.EventSiteModeChanged, MaintenanceMode: false}))
		assert.Equal(t, sitegate.StateMaintenance, g.Apply(sitegate.Event{Kind: sitegate.EventSiteModeChanged, MaintenanceMode: true}))
		assert.Equal(t, sitegate.StateNormal, g.Apply(sitegate.Event{Kind: sitegate.EventSessionChanged, Session: adminSession()}))
		assert.Equal(t, sitegate.StateMaintenance, g.Apply(sitegate.Event{Kind: sitegate.EventSessionChanged}))
	})

	t.Run("route change while loading stays loading", func(t *testing.T) {
		g := sitegate.New(sitegate.Input{MaintenanceMode: true, Route: "/"})
		assert.Equal(t, sitegate.StateLoading, g.Apply(sitegate.Event{Kind: sitegate.EventRouteChanged, Route: "/portfolio"}))
		assert.Equal(t, sitegate.StateNormal, g.Apply(sitegate.Event{Kind: sitegate.EventRouteChanged, Route: "/login"}))
	})
}

func TestIsLoginRoute(t *testing.T) {
	assert.True(t, sitegate.IsLoginRoute("/login"))
	assert.True(t, sitegate.IsLoginRoute("/login/"))
	assert.True(t, sitegate.IsLoginRoute("login"))
	assert.False(t, sitegate.IsLoginRoute("/login/extra"))
	assert.False(t, sitegate.IsLoginRoute("/loginx"))
	assert.False(t, sitegate.IsLoginRoute(""))
}
