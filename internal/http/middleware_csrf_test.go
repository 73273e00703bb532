package httpx

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRFToken = "test-token-123"

func csrfOKHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	resp := w.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_GetIssuesToken(t *testing.T) {
	w := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(csrfOKHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	c := findCookie(t, w, CSRFCookieName)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.False(t, c.HttpOnly, "htmx reads the token")
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestCSRFProtection_ExistingCookieNotReissued(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	var seen string
	h := CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetCSRFToken(r)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Nil(t, findCookie(t, w, CSRFCookieName))
	assert.Equal(t, testCSRFToken, seen)
}

func TestCSRFProtection_PostValidation(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name: "missing token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/contact", nil)
			},
			status: http.StatusForbidden,
		},
		{
			name: "header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/contact", nil)
				r.Header.Set(CSRFHeaderName, testCSRFToken)
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "mismatched header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/contact", nil)
				r.Header.Set(CSRFHeaderName, "other")
				return r
			},
			status: http.StatusForbidden,
		},
		{
			name: "form token",
			build: func() *http.Request {
				form := url.Values{CSRFFormField: {testCSRFToken}, "email": {"a@b.pl"}}
				r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "multipart token",
			build: func() *http.Request {
				var body bytes.Buffer
				mw := multipart.NewWriter(&body)
				_ = mw.WriteField(CSRFFormField, testCSRFToken)
				_ = mw.Close()
				r := httptest.NewRequest(http.MethodPost, "/admin/logos", &body)
				r.Header.Set("Content-Type", mw.FormDataContentType())
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "token in unparsed body type",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"csrf_token":"`+testCSRFToken+`"}`))
				r.Header.Set("Content-Type", "text/plain")
				return r
			},
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.build()
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
			w := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{})(csrfOKHandler()).ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCSRFProtection_HTMXRejectionShowsToast(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/admin/faq/1/delete", nil)
	r.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(csrfOKHandler()).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "showToast")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), `"type":"error"`)
}

func TestCSRFProtection_ExemptJSONAPI(t *testing.T) {
	h := CSRFProtection(CSRFConfig{Exempt: IsJSONAPIRequest})(csrfOKHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	form := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader("email=x"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, form)
	assert.Equal(t, http.StatusForbidden, w.Code, "form posts to the API are not exempt")
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(m, func(t *testing.T) {
			w := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{})(csrfOKHandler()).ServeHTTP(w, httptest.NewRequest(m, "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestCSRFProtection_SecureCookieBehindProxy(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "http, https")
	w := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{CookieDomain: "damedesign.pl"})(csrfOKHandler()).ServeHTTP(w, r)

	c := findCookie(t, w, CSRFCookieName)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.Equal(t, "damedesign.pl", c.Domain)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
