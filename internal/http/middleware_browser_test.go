package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"

func TestBrowserDetection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{name: "landing page", path: "/", accept: chromeAccept, want: true},
		{name: "portfolio without accept", path: "/portfolio", want: true},
		{name: "wildcard accept", path: "/portfolio/logo", accept: "*/*", want: true},
		{name: "htmx swap", path: "/portfolio", accept: "application/json", htmx: true, want: true},
		{name: "contact post", method: http.MethodPost, path: "/contact", accept: chromeAccept, want: true},
		{name: "json client", path: "/portfolio", accept: "application/json"},
		{name: "image client", path: "/portfolio/logo", accept: "image/webp"},
		{name: "relay api", method: http.MethodPost, path: "/api/send-email", accept: chromeAccept},
		{name: "htmx on api", path: "/api/projects", htmx: true},
		{name: "sitemap", path: "/sitemap.xml", accept: chromeAccept},
		{name: "robots", path: "/robots.txt", accept: "*/*"},
		{name: "stylesheet", path: "/static/css/site.css", accept: "text/css,*/*;q=0.1"},
		{name: "uploaded thumbnail", path: "/uploads/projects/kawiarnia.webp", accept: chromeAccept},
		{name: "notification sound", path: "/sounds/notify.mp3", accept: "*/*"},
		{name: "health check", path: "/healthz"},
	}

	var got bool
	h := BrowserDetection()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = IsBrowserRequest(r)
	}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			r := httptest.NewRequest(method, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				r.Header.Set("Hx-Request", "true")
			}

			got = !tt.want
			h.ServeHTTP(httptest.NewRecorder(), r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, isBrowserRequest(r), "detection without the middleware")
		})
	}
}

func TestIsBrowserRequest_ContextOverrides(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/portfolio", nil)
	r.Header.Set("Accept", "application/json")

	assert.False(t, IsBrowserRequest(r))
	assert.True(t, IsBrowserRequest(r.WithContext(context.WithValue(r.Context(), browserRequestKey{}, true))))

	r.Header.Set("Accept", "text/html")
	assert.False(t, IsBrowserRequest(r.WithContext(context.WithValue(r.Context(), browserRequestKey{}, false))))

	// A value of the wrong type falls back to header detection.
	assert.True(t, IsBrowserRequest(r.WithContext(context.WithValue(r.Context(), browserRequestKey{}, "yes"))))
}
