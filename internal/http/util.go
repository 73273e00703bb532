package httpx

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/service"
)

// isSecureRequest reports whether the request arrived over HTTPS, directly or via a proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// cookieSpec groups cookie attributes (≤3 params rule).
type cookieSpec struct {
	Name     string
	Value    string
	MaxAge   int
	HTTPOnly bool
}

// setCookie writes a root-scoped Lax cookie. A negative MaxAge deletes it.
func setCookie(w http.ResponseWriter, r *http.Request, domain string, c cookieSpec) {
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     "/",
		Domain:   domain,
		HttpOnly: c.HTTPOnly,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   c.MaxAge,
	}
	if c.MaxAge < 0 {
		ck.Expires = time.Unix(0, 0).UTC()
	}
	http.SetCookie(w, ck)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// mustParsePath parses a path already vetted by safeRedirectPath.
func mustParsePath(p string) *url.URL {
	u, err := url.Parse(p)
	if err != nil {
		return &url.URL{Path: "/"}
	}
	return u
}

// parseMultipart parses a multipart body bounded by maxBytes. Plain
// urlencoded bodies are accepted too.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Nieprawidłowe dane formularza.")
		}
		return nil
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Przesłane pliki są zbyt duże.")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Nieprawidłowe dane formularza.")
	}
	return nil
}

// formFiles returns the files posted under field. Empty file inputs are skipped.
func formFiles(r *http.Request, field string) ([]service.UploadedFile, func(), error) {
	if r.MultipartForm == nil {
		return nil, func() {}, nil
	}
	headers := r.MultipartForm.File[field]
	files := make([]service.UploadedFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, fh := range headers {
		if fh == nil || fh.Size == 0 || fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		files = append(files, service.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, nil
}

// formFile returns the single file posted under field, if any.
func formFile(r *http.Request, field string) (*service.UploadedFile, func(), error) {
	files, closeAll, err := formFiles(r, field)
	if err != nil || len(files) == 0 {
		return nil, closeAll, err
	}
	return &files[0], closeAll, nil
}
