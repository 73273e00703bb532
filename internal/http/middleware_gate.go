package httpx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/domain/sitegate"
)

// SiteModeChecker answers whether the site is in maintenance. Implementations
// never fail; they fall back to a static value.
type SiteModeChecker interface {
	IsMaintenanceMode(ctx context.Context) bool
}

// GateOptions configures SiteGate.
type GateOptions struct {
	SiteMode SiteModeChecker
	Pages    *UIHandlers
	// Exempt lists extra exact paths that are never gated, such as a custom metrics path.
	Exempt []string
	Logger *slog.Logger
}

// retryAfterSeconds is advertised with maintenance responses.
const retryAfterSeconds = "3600"

// SiteGate evaluates the layout gate for every GET and HEAD outside assets,
// health, metrics, /api/ and /auth/, whatever the Accept header says.
// Maintenance renders the maintenance page without chrome; Loading renders a
// neutral placeholder that re-requests the page with GateRetryHeader. Callers
// that are not browsers get a plain 503 instead of either document.
func SiteGate(opts GateOptions) func(http.Handler) http.Handler {
	if opts.SiteMode == nil {
		panic("SiteGate: SiteMode is required")
	}
	if opts.Pages == nil {
		panic("SiteGate: Pages is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "site_gate")
	exempt := make(map[string]bool, len(opts.Exempt))
	for _, p := range opts.Exempt {
		exempt[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isGatedRequest(r) || exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			gate := evaluateGate(r, opts.SiteMode.IsMaintenanceMode(ctx))
			state := gate.State()
			ctx = setGateInContext(ctx, GateResult{State: state, MaintenanceMode: gate.Snapshot().MaintenanceMode})
			// The gate may have collapsed a failed retry to anonymous.
			if !gate.Session().HasPrincipal() {
				ctx = context.WithValue(ctx, sessionKey{}, nil)
			}
			r = r.WithContext(ctx)

			if state != sitegate.StateNormal && !IsBrowserRequest(r) {
				logger.DebugContext(ctx, "gated non-browser request", "path", r.URL.Path, "state", state)
				writeUnavailable(w)
				return
			}

			switch state {
			case sitegate.StateMaintenance:
				logger.DebugContext(ctx, "maintenance page served", "path", r.URL.Path)
				opts.Pages.renderMaintenance(w, r)
			case sitegate.StateLoading:
				logger.InfoContext(ctx, "session unresolved, serving gate placeholder", "path", r.URL.Path)
				opts.Pages.renderGateLoading(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// evaluateGate builds the gate for this request. A retry from the placeholder
// replays the session lookup as a SessionResolved event; a failed retry leaves
// the visitor anonymous.
func evaluateGate(r *http.Request, maintenance bool) *sitegate.Gate {
	ctx := r.Context()
	session := GetSessionFromContext(ctx)
	resolved := SessionResolved(ctx)

	if isGateRetry(r) {
		gate := sitegate.New(sitegate.Input{
			MaintenanceMode: maintenance,
			SessionResolved: false,
			Route:           r.URL.Path,
		})
		gate.Apply(sitegate.Event{
			Kind:         sitegate.EventSessionResolved,
			Session:      session,
			LookupFailed: !resolved,
		})
		return gate
	}

	return sitegate.New(sitegate.Input{
		MaintenanceMode: maintenance,
		Session:         session,
		SessionResolved: resolved,
		Route:           r.URL.Path,
	})
}

func isGateRetry(r *http.Request) bool {
	return r.Header.Get(GateRetryHeader) != ""
}

// isGatedRequest reports whether r is a page render subject to the gate.
func isGatedRequest(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return false
	}
	p := r.URL.Path
	return !strings.HasPrefix(p, "/auth/") && !strings.HasPrefix(p, "/api/") && !isAssetPath(p)
}

// writeUnavailable answers gated callers that cannot render the maintenance page.
func writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Retry-After", retryAfterSeconds)
	http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
}

// renderMaintenance writes the maintenance document. Full loads get 503 with
// Retry-After; htmx navigations are told to reload so the whole document is replaced.
func (h *UIHandlers) renderMaintenance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if IsHTMX(r) && !isGateRetry(r) {
		HTMX(w).Refresh()
		return
	}

	data := map[string]any{
		"Title":    "Strona w budowie | " + h.Site.Name,
		"SiteName": h.Site.Name,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if IsHTMX(r) {
		w.WriteHeader(http.StatusOK)
	} else {
		w.Header().Set("Retry-After", retryAfterSeconds)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := h.T.RenderNamed(w, PageMaintenance, data); err != nil {
		h.logger().Error("failed to render maintenance page", "error", err)
	}
}

// renderGateLoading writes the neutral placeholder shown while the session is unresolved.
func (h *UIHandlers) renderGateLoading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if IsHTMX(r) && !isGateRetry(r) {
		HTMX(w).Refresh()
		return
	}
	data := map[string]any{
		"Title":       h.Site.Name,
		"RetryURL":    r.URL.RequestURI(),
		"RetryHeader": GateRetryHeader,
	}
	if err := h.T.RenderNamed(w, PageGateLoading, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "gate placeholder render")
	}
}

// flashCookieMaxAge bounds how long a drained notification waits for the next render.
const flashCookieMaxAge = 60

// DrainNotification moves notification query parameters into a short-lived
// cookie and redirects to the same URL without them. The next render seeds
// its notification channel from that cookie and clears it.
func DrainNotification(cookieDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && !IsHTMX(r) && IsBrowserRequest(r) && notification.HasQuery(r.URL) {
				if msg, ok := notification.FromQuery(r.URL.Query()); ok {
					setCookie(w, r, cookieDomain, cookieSpec{
						Name:     NotificationCookieName,
						Value:    encodeFlash(msg),
						MaxAge:   flashCookieMaxAge,
						HTTPOnly: true,
					})
				}
				http.Redirect(w, r, notification.StripQuery(r.URL).RequestURI(), http.StatusSeeOther)
				return
			}

			ch := notification.NewChannel(nil)
			if raw := cookieValue(r, NotificationCookieName); raw != "" && isPageRender(r) {
				if msg, ok := decodeFlash(raw); ok {
					ch.Add(msg.Text, msg.Kind)
				}
				setCookie(w, r, cookieDomain, cookieSpec{Name: NotificationCookieName, MaxAge: -1, HTTPOnly: true})
			}
			next.ServeHTTP(w, r.WithContext(setNotificationsInContext(r.Context(), ch)))
		})
	}
}

// isPageRender reports a full-document GET the chrome will be rendered for.
func isPageRender(r *http.Request) bool {
	return r.Method == http.MethodGet && IsBrowserRequest(r) && !WantsPartial(r)
}

func encodeFlash(msg notification.Message) string {
	b, err := json.Marshal(msg)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeFlash(raw string) (notification.Message, bool) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return notification.Message{}, false
	}
	var msg notification.Message
	if err := json.Unmarshal(b, &msg); err != nil || strings.TrimSpace(msg.Text) == "" {
		return notification.Message{}, false
	}
	return notification.Message{Text: msg.Text, Kind: notification.ParseKind(string(msg.Kind))}, true
}
