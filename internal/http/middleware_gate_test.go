package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/domain/sitegate"
	"github.com/damedesign/portfolio/internal/service"
)

type gateRun struct {
	w       *httptest.ResponseRecorder
	reached bool
	gate    GateResult
}

func runGate(t *testing.T, mode bool, res service.Resolution, r *http.Request) gateRun {
	t.Helper()
	h := newStubUIHandlers(t)
	var out gateRun
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out.reached = true
		out.gate = GetGateFromContext(r.Context())
		h.Page(w, r, PageSpec{Meta: PageMeta{Title: "Start", CurrentPage: PageHome}})
	})
	handler := SessionLoader(&stubResolver{res: res})(
		SiteGate(GateOptions{SiteMode: staticSiteMode(mode), Pages: h})(next))
	out.w = httptest.NewRecorder()
	handler.ServeHTTP(out.w, r)
	return out
}

func TestSiteGate_MaintenanceHidesChromeForAnonymous(t *testing.T) {
	run := runGate(t, true, service.Resolution{Resolved: true}, browserGet("/portfolio"))

	assert.False(t, run.reached)
	assert.Equal(t, http.StatusServiceUnavailable, run.w.Code)
	assert.Equal(t, retryAfterSeconds, run.w.Header().Get("Retry-After"))
	body := run.w.Body.String()
	assert.Contains(t, body, "Strona w budowie")
	assert.Contains(t, body, `href="/login"`)
	assert.NotContains(t, body, "[header]", "no chrome around the maintenance page")
}

func TestSiteGate_LoginRouteBypassesMaintenance(t *testing.T) {
	run := runGate(t, true, service.Resolution{Resolved: true}, browserGet("/login"))

	assert.True(t, run.reached)
	assert.Equal(t, sitegate.StateNormal, run.gate.State)
	assert.True(t, run.gate.MaintenanceMode)
}

func TestSiteGate_AdminSeesSiteDuringMaintenance(t *testing.T) {
	run := runGate(t, true, service.Resolution{Session: adminSession(), Resolved: true}, browserGet("/"))

	assert.True(t, run.reached)
	assert.Equal(t, http.StatusOK, run.w.Code)
	assert.Contains(t, run.w.Body.String(), "[notification-center]")
}

func TestSiteGate_NormalModePassesThrough(t *testing.T) {
	run := runGate(t, false, service.Resolution{Resolved: false}, browserGet("/"))

	assert.True(t, run.reached, "an unresolved session only matters during maintenance")
	assert.Equal(t, sitegate.StateNormal, run.gate.State)
}

func TestSiteGate_UnresolvedSessionServesPlaceholder(t *testing.T) {
	run := runGate(t, true, service.Resolution{Resolved: false}, browserGet("/portfolio?sort=oldest"))

	assert.False(t, run.reached)
	assert.Equal(t, http.StatusOK, run.w.Code)
	assert.Equal(t, "no-store", run.w.Header().Get("Cache-Control"))
	body := run.w.Body.String()
	assert.Contains(t, body, `hx-get="/portfolio?sort=oldest"`)
	assert.Contains(t, body, GateRetryHeader)
	assert.NotContains(t, body, "Strona w budowie", "neither maintenance page nor site before the lookup settles")
}

func TestSiteGate_FailedRetryCollapsesToAnonymous(t *testing.T) {
	r := browserGet("/")
	r.Header.Set("Hx-Request", "true")
	r.Header.Set(GateRetryHeader, "1")
	run := runGate(t, true, service.Resolution{Resolved: false}, r)

	assert.False(t, run.reached)
	assert.Equal(t, http.StatusOK, run.w.Code, "htmx swaps only 2xx responses")
	assert.Contains(t, run.w.Body.String(), "Strona w budowie")
}

func TestSiteGate_SuccessfulRetryRendersFullDocument(t *testing.T) {
	r := browserGet("/")
	r.Header.Set("Hx-Request", "true")
	r.Header.Set(GateRetryHeader, "1")
	run := runGate(t, true, service.Resolution{Session: adminSession(), Resolved: true}, r)

	assert.True(t, run.reached)
	assert.Contains(t, run.w.Body.String(), "<html>")
}

func TestSiteGate_HTMXNavigationIntoMaintenanceRefreshes(t *testing.T) {
	r := browserGet("/portfolio")
	r.Header.Set("Hx-Request", "true")
	run := runGate(t, true, service.Resolution{Resolved: true}, r)

	assert.Equal(t, "true", run.w.Header().Get("Hx-Refresh"))
}

func TestSiteGate_SkipsNonPageRequests(t *testing.T) {
	tests := []struct {
		name  string
		build func() *http.Request
	}{
		{"api", func() *http.Request { return httptest.NewRequest(http.MethodPost, "/api/send-email", nil) }},
		{"post", func() *http.Request { return httptest.NewRequest(http.MethodPost, "/contact", nil) }},
		{"asset", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil) }},
		{"oidc callback", func() *http.Request { return browserGet("/auth/callback?code=x") }},
		{"health", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/healthz", nil) }},
		{"upload", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/uploads/logos/a.png", nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := runGate(t, true, service.Resolution{Resolved: true}, tt.build())
			assert.True(t, run.reached)
		})
	}
}

func TestSiteGate_NonBrowserCallersGetPlainUnavailable(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/portfolio/logo", nil)
	r.Header.Set("Accept", "application/json")
	run := runGate(t, true, service.Resolution{Resolved: true}, r)

	assert.False(t, run.reached)
	assert.Equal(t, http.StatusServiceUnavailable, run.w.Code)
	assert.Equal(t, retryAfterSeconds, run.w.Header().Get("Retry-After"))
	assert.NotContains(t, run.w.Body.String(), "Strona w budowie")
}

func TestSiteGate_NonBrowserAdminPassesThrough(t *testing.T) {
	r := httptest.NewRequest(http.MethodHead, "/portfolio", nil)
	r.Header.Set("Accept", "text/plain")
	run := runGate(t, true, service.Resolution{Session: adminSession(), Resolved: true}, r)

	assert.True(t, run.reached)
}

func TestSiteGate_ExemptPaths(t *testing.T) {
	h := newStubUIHandlers(t)
	reached := false
	handler := SiteGate(GateOptions{SiteMode: staticSiteMode(true), Pages: h, Exempt: []string{"/internal/metrics"}})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true }))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	assert.True(t, reached)
}

func TestDrainNotification_MovesQueryIntoFlash(t *testing.T) {
	h := newStubUIHandlers(t)
	handler := DrainNotification("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Page(w, r, PageSpec{Meta: PageMeta{CurrentPage: PageHome}})
	}))

	target := notification.RedirectURL("/portfolio?sort=oldest", notification.Success("Zapisano projekt."))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, browserGet(target))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portfolio?sort=oldest", w.Header().Get("Location"))
	flash := findCookie(t, w, NotificationCookieName)
	require.NotNil(t, flash)

	next := browserGet("/portfolio?sort=oldest")
	next.AddCookie(&http.Cookie{Name: NotificationCookieName, Value: flash.Value})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, next)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<toast data-kind="success">Zapisano projekt.</toast>`)
	cleared := findCookie(t, w, NotificationCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestDrainNotification_IncompleteQueryIsStripped(t *testing.T) {
	handler := DrainNotification("")(http.NotFoundHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, browserGet("/?notification_message=hej"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Nil(t, findCookie(t, w, NotificationCookieName))
}

func TestDrainNotification_PartialRequestsKeepFlash(t *testing.T) {
	var seen bool
	handler := DrainNotification("")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, seen = Notifications(r.Context()).Current()
	}))

	r := browserGet("/portfolio")
	r.Header.Set("Hx-Request", "true")
	r.AddCookie(&http.Cookie{Name: NotificationCookieName, Value: encodeFlash(notification.Info("Hej"))})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.False(t, seen)
	assert.Nil(t, findCookie(t, w, NotificationCookieName), "flash waits for the next full render")
}

func TestDecodeFlash_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{"!!!", "bm90LWpzb24", encodeFlash(notification.Message{Text: "  "})} {
		_, ok := decodeFlash(raw)
		assert.False(t, ok, raw)
	}
	msg, ok := decodeFlash(encodeFlash(notification.Message{Text: "x", Kind: "bogus"}))
	require.True(t, ok)
	assert.Equal(t, notification.KindInfo, msg.Kind)
	assert.False(t, strings.Contains(encodeFlash(notification.Info("a b")), "="), "raw url encoding has no padding")
}
