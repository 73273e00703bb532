package httpx

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test fixture
var (
	portfolioPage = "<!doctype html><main>" + strings.Repeat(`<article class="project">Identyfikacja Kawiarni</article>`, 200) + "</main>"
	sitemapXML    = `<?xml version="1.0" encoding="UTF-8"?><urlset>` +
		strings.Repeat("<url><loc>https://damedesign.pl/portfolio/logo</loc></url>", 100) + "</urlset>"
)

// serveCompressed runs one request through Compression around a handler
// that writes body with the given status and content type.
func serveCompressed(
	t *testing.T,
	cfg CompressionConfig,
	r *http.Request,
	status int,
	contentType, body string,
) *httptest.ResponseRecorder {
	t.Helper()
	h := Compression(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func gunzip(t *testing.T, b []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer zr.Close()
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func gzipGet(path, acceptEncoding string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptEncoding != "" {
		r.Header.Set("Accept-Encoding", acceptEncoding)
	}
	return r
}

func TestCompression_Responses(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		contentType    string
		body           string
		level          int
		wantGzip       bool
	}{
		{name: "portfolio page", path: "/portfolio", acceptEncoding: "gzip, deflate, br",
			contentType: "text/html; charset=utf-8", body: portfolioPage, wantGzip: true},
		{name: "sitemap", path: "/sitemap.xml", acceptEncoding: "gzip",
			contentType: "application/xml; charset=utf-8", body: sitemapXML, wantGzip: true},
		{name: "fastest level", path: "/portfolio", acceptEncoding: "gzip",
			contentType: "text/html", body: portfolioPage, level: gzip.BestSpeed, wantGzip: true},
		{name: "out of range level falls back", path: "/portfolio", acceptEncoding: "gzip",
			contentType: "text/html", body: portfolioPage, level: 42, wantGzip: true},
		{name: "client without gzip", path: "/portfolio", acceptEncoding: "deflate",
			contentType: "text/html", body: portfolioPage},
		{name: "no accept-encoding", path: "/portfolio",
			contentType: "text/html", body: portfolioPage},
		{name: "gzip refused with q=0", path: "/portfolio", acceptEncoding: "br, gzip;q=0",
			contentType: "text/html", body: portfolioPage},
		{name: "gzip with positive q", path: "/portfolio", acceptEncoding: "gzip;q=0.5",
			contentType: "text/html", body: portfolioPage, wantGzip: true},
		{name: "uploaded image", path: "/uploads/projects/kawiarnia.png", acceptEncoding: "gzip",
			contentType: "image/png", body: strings.Repeat("\x89PNG", 500)},
		{name: "event stream", path: "/auth/events", acceptEncoding: "gzip",
			contentType: "text/event-stream", body: "event: signed-out\ndata: {}\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveCompressed(t, CompressionConfig{Level: tt.level},
				gzipGet(tt.path, tt.acceptEncoding), http.StatusOK, tt.contentType, tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			if !tt.wantGzip {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, w.Body.String())
				return
			}
			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")
			assert.Less(t, w.Body.Len(), len(tt.body))
			assert.Equal(t, tt.body, gunzip(t, w.Body.Bytes()))
		})
	}
}

func TestCompression_StatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		wantGzip bool
	}{
		{status: http.StatusOK, body: portfolioPage, wantGzip: true},
		{status: http.StatusNotFound, body: portfolioPage, wantGzip: true},
		{status: http.StatusServiceUnavailable, body: portfolioPage, wantGzip: true},
		{status: http.StatusNoContent},
		{status: http.StatusNotModified},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := serveCompressed(t, CompressionConfig{}, gzipGet("/portfolio", "gzip"),
				tt.status, "text/html", tt.body)

			assert.Equal(t, tt.status, w.Code)
			if tt.wantGzip {
				assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, gunzip(t, w.Body.Bytes()))
			} else {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
			}
		})
	}
}

func TestCompression_PassThrough(t *testing.T) {
	t.Run("head", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodHead, "/portfolio", nil)
		r.Header.Set("Accept-Encoding", "gzip")
		w := serveCompressed(t, CompressionConfig{}, r, http.StatusOK, "text/html", "")
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Empty(t, w.Header().Get("Vary"))
	})

	t.Run("websocket upgrade", func(t *testing.T) {
		r := gzipGet("/admin/ws", "gzip")
		r.Header.Set("Upgrade", "websocket")
		w := serveCompressed(t, CompressionConfig{}, r, http.StatusOK, "text/plain", "hello")
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "hello", w.Body.String())
	})

	t.Run("already encoded", func(t *testing.T) {
		h := Compression(CompressionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript")
			w.Header().Set("Content-Encoding", "br")
			_, _ = io.WriteString(w, "brotli-bytes")
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, gzipGet("/static/js/app.js", "gzip, br"))
		assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
		assert.Equal(t, "brotli-bytes", w.Body.String())
	})
}

func TestCompression_SniffsContentType(t *testing.T) {
	h := Compression(CompressionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, portfolioPage)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, gzipGet("/", "gzip"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, portfolioPage, gunzip(t, w.Body.Bytes()))
}

func TestCompression_DropsContentLength(t *testing.T) {
	h := Compression(CompressionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.Header().Set("Content-Length", "9000")
		_, _ = io.WriteString(w, strings.Repeat(".hero{color:#c0392b}", 300))
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, gzipGet("/static/css/site.css", "gzip"))

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Empty(t, w.Header().Get("Content-Length"))
}

func TestAcceptsGzip(t *testing.T) {
	tests := map[string]bool{
		"":                   false,
		"gzip":               true,
		"GZIP":               true,
		"deflate, gzip":      true,
		"gzip;q=0":           false,
		"gzip; q=0.000":      false,
		"gzip;q=0.1":         true,
		"br;q=1.0, identity": false,
	}
	for header, want := range tests {
		t.Run(header, func(t *testing.T) {
			assert.Equal(t, want, acceptsGzip(header))
		})
	}
}
