package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/damedesign/portfolio/internal/domain/notification"
)

const (
	// CSRFCookieName holds the double-submit token.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is sent by htmx on every request (see hx-headers in the layout).
	CSRFHeaderName = "X-Csrf-Token"
	// CSRFFormField is the hidden input name used by plain form posts.
	CSRFFormField = "csrf_token"

	csrfTokenBytes = 32
	csrfCookieAge  = 12 * 3600
)

const csrfFailedMessage = "Sesja formularza wygasła. Odśwież stronę i spróbuj ponownie."

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieDomain string
	// Exempt reports requests that skip validation, e.g. JSON APIs that a
	// cross-origin form cannot forge.
	Exempt func(r *http.Request) bool
}

// CSRFProtection implements the double-submit cookie pattern. The token lives
// in a cookie readable by the page and must be echoed through CSRFHeaderName
// or CSRFFormField on state-changing requests.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieValue(r, CSRFCookieName)
			if token == "" {
				var err error
				token, err = generateCSRFToken()
				if err != nil {
					http.Error(w, "Wystąpił błąd serwera.", http.StatusInternalServerError)
					return
				}
				setCSRFCookie(w, r, cfg.CookieDomain, token)
			}

			r = r.WithContext(setCSRFTokenInContext(r.Context(), token))

			if requiresCSRFValidation(r.Method) && (cfg.Exempt == nil || !cfg.Exempt(r)) {
				if !validateCSRFToken(r, token) {
					rejectCSRF(w, r)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsJSONAPIRequest exempts JSON bodies under /api/. Browsers cannot send them
// cross-origin without a CORS preflight.
func IsJSONAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func rejectCSRF(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		w.Header().Set("Hx-Reswap", "none")
		HTMX(w).Toast(notification.Error(csrfFailedMessage))
	}
	http.Error(w, csrfFailedMessage, http.StatusForbidden)
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// generateCSRFToken fails closed when the random source is unavailable.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func setCSRFCookie(w http.ResponseWriter, r *http.Request, domain, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Domain:   domain,
		HttpOnly: false, // read by htmx config
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   csrfCookieAge,
	})
}

// isForwardedHTTPS checks X-Forwarded-Proto, which may be a comma-separated list.
func isForwardedHTTPS(r *http.Request) bool {
	xfProto := r.Header.Get("X-Forwarded-Proto")
	if xfProto == "" {
		return false
	}
	for _, proto := range strings.Split(xfProto, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// validateCSRFToken compares the submitted token in constant time. The header
// wins over the form field.
func validateCSRFToken(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}
	if headerToken := r.Header.Get(CSRFHeaderName); headerToken != "" {
		return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
	}

	contentType := r.Header.Get("Content-Type")
	var formToken string
	switch {
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return false
		}
		formToken = r.PostFormValue(CSRFFormField)
	case strings.HasPrefix(contentType, "multipart/form-data"):
		// BodyLimit already bounds the multipart body.
		formToken = r.FormValue(CSRFFormField)
	}
	if formToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(formToken), []byte(cookieToken)) == 1
}

type csrfTokenKey struct{}

func setCSRFTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey{}, token)
}

// GetCSRFToken returns the token for templates and htmx headers.
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}
