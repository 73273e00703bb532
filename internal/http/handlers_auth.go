package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/damedesign/portfolio/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 600
)

const (
	loginFailedMessage      = "Nieprawidłowy email lub hasło. Spróbuj ponownie."
	loginUnavailableMessage = "Logowanie jest chwilowo niedostępne. Spróbuj ponownie później."
	logoutMessage           = "Wylogowano pomyślnie."
)

// AuthServiceInterface defines the redirect-flow operations the auth endpoints need.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// PasswordLoginService backs the login page form.
type PasswordLoginService interface {
	SupportsPassword() bool
	SupportsRedirect() bool
	PasswordLogin(ctx context.Context, email, password string) (*service.CompleteLoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers serves the identity-provider redirect flow and session status.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Events       ports.AuthEventBus
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the redirect flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		h.failLogin(w, r, err)
		return
	}

	for _, c := range []cookieSpec{
		{Name: oauthStateCookie, Value: result.State},
		{Name: oauthNonceCookie, Value: result.Nonce},
		{Name: postLoginCookie, Value: redirectURI},
	} {
		c.MaxAge = oauthCookieLifetime
		c.HTTPOnly = true
		setCookie(w, r, h.CookieDomain, c)
	}

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the redirect flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_callback",
			Err:     errors.New("code and state are required"),
		})
		return
	}
	if cookieValue(r, oauthStateCookie) != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonce := cookieValue(r, oauthNonceCookie)
	if nonce == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state, Nonce: nonce})
	if err != nil {
		h.logger().WarnContext(r.Context(), "complete login failed", "error", err)
		h.failLogin(w, r, err)
		return
	}

	setSessionCookie(w, r, h.CookieDomain, result.Session)
	clearCookie(w, r, h.CookieDomain, oauthStateCookie)
	clearCookie(w, r, h.CookieDomain, oauthNonceCookie)

	target := safeRedirectPath(cookieValue(r, postLoginCookie))
	clearCookie(w, r, h.CookieDomain, postLoginCookie)
	if target == "/" {
		target = "/login"
	}
	http.Redirect(w, r, notification.RedirectURL(target, loginSuccessMessage(result.Session)), http.StatusFound)
}

// failLogin sends the browser back to the login page with an error toast.
func (h *AuthHandlers) failLogin(w http.ResponseWriter, r *http.Request, err error) {
	msg := notification.Error(loginUnavailableMessage)
	if errors.Is(err, service.ErrNotAdmin) {
		msg = notification.Error("To konto nie ma uprawnień administratora.")
	}
	http.Redirect(w, r, notification.RedirectURL("/login", msg), http.StatusFound)
}

// Status reports the current authentication state.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sid := cookieValue(r, SessionCookieName)
	if sid == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sid)
	if err != nil || !session.HasPrincipal() {
		if err == nil || errors.Is(err, ports.ErrSessionNotFound) {
			clearCookie(w, r, h.CookieDomain, SessionCookieName)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.DisplayName(),
			"email": session.Email,
			"role":  session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// sseKeepAlive is how often an idle auth event stream sends a comment line.
const sseKeepAlive = 25 * time.Second

// StreamEvents streams sign-in and sign-out of the caller's session as server-sent
// events so other open tabs can reload.
// GET /auth/events.
func (h *AuthHandlers) StreamEvents(w http.ResponseWriter, r *http.Request) {
	sid := cookieValue(r, SessionCookieName)
	if h.Events == nil || sid == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rc := http.NewResponseController(w)

	events, unsubscribe := h.Events.Subscribe(sid)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger().DebugContext(r.Context(), "auth events: flush unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			kind := "signed-in"
			if ev.Session == nil {
				kind = "signed-out"
			}
			if _, err := fmt.Fprintf(w, "event: auth\ndata: %s\n\n", kind); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func loginSuccessMessage(s domainauth.Session) notification.Message {
	return notification.Success("Zalogowano pomyślnie jako: " + s.Email)
}

// LoginPage renders the admin panel entry: the login form for visitors and
// the session summary for a signed-in admin.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: loginMeta(),
		Fetch: func(_ context.Context, data map[string]any) error {
			for k, v := range h.loginFormData(r, "") {
				data[k] = v
			}
			return nil
		},
	})
}

func loginMeta() PageMeta {
	return PageMeta{
		Title:       "Panel Administratora",
		Description: "Zaloguj się, aby zarządzać treścią.",
		CurrentPage: PageLogin,
	}
}

func (h *UIHandlers) loginFormData(r *http.Request, email string) map[string]any {
	redirect := r.URL.Query().Get("redirect_uri")
	if r.Method == http.MethodPost {
		redirect = r.PostFormValue("redirect_uri")
	}
	return map[string]any{
		"Email":           email,
		"RedirectURI":     optionalRedirect(redirect),
		"PasswordEnabled": h.Auth != nil && h.Auth.SupportsPassword(),
		"SSOEnabled":      h.Auth != nil && h.Auth.SupportsRedirect(),
		"MaintenanceMode": GetGateFromContext(r.Context()).MaintenanceMode,
	}
}

// optionalRedirect keeps a same-origin redirect or returns "".
func optionalRedirect(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	if p := safeRedirectPath(candidate); p != "/" || candidate == "/" {
		return p
	}
	return ""
}

// LoginSubmit checks the posted credentials and starts a session.
// POST /login.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.toastError(w, r, apperrors.Validation("Nieprawidłowe dane formularza."))
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	formErr := func(err error) {
		h.renderFormError(w, r, FormErrorOpts{
			Err:      err,
			Meta:     loginMeta(),
			Fragment: "login-form",
			Data:     h.loginFormData(r, email),
		})
	}

	if h.Auth == nil || !h.Auth.SupportsPassword() {
		formErr(apperrors.Unavailable(loginUnavailableMessage))
		return
	}
	if email == "" || password == "" {
		formErr(apperrors.ValidationField("email", "Podaj email i hasło."))
		return
	}

	result, err := h.Auth.PasswordLogin(r.Context(), email, password)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrInvalidCredentials), errors.Is(err, service.ErrNotAdmin):
		formErr(apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, loginFailedMessage))
		return
	default:
		h.logger().ErrorContext(r.Context(), "password login failed", "error", err)
		formErr(apperrors.Wrap(err, apperrors.ErrCodeUnavailable, loginUnavailableMessage))
		return
	}

	setSessionCookie(w, r, h.CookieDomain, result.Session)
	target := optionalRedirect(r.PostFormValue("redirect_uri"))
	if target == "" {
		target = "/login"
	}
	notify(w, r, loginSuccessMessage(result.Session), target)
}

// Logout ends the admin session and returns to the login page.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := cookieValue(r, SessionCookieName); sid != "" && h.Auth != nil {
		if err := h.Auth.Logout(r.Context(), sid); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	clearCookie(w, r, h.CookieDomain, SessionCookieName)
	notify(w, r, notification.Info(logoutMessage), "/login")
}

// setSessionCookie writes the session cookie for the session's remaining lifetime.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain string, s domainauth.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	if s.ExpiresAt.IsZero() {
		maxAge = 0
	}
	setCookie(w, r, domain, cookieSpec{Name: SessionCookieName, Value: s.ID, MaxAge: maxAge, HTTPOnly: true})
}

// clearCookie expires name with the same attributes it was set with.
func clearCookie(w http.ResponseWriter, r *http.Request, domain, name string) {
	setCookie(w, r, domain, cookieSpec{Name: name, MaxAge: -1, HTTPOnly: true})
}
