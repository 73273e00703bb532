package httpx

import (
	"context"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/service"
)

// stubTemplates are just enough to exercise the render paths without the
// real frontend.
//
//nolint:gochecknoglobals // test fixture
var stubTemplates = map[string]string{
	"layout.tmpl": `{{define "layout"}}<html><title>{{.Layout.Title}}</title>` +
		`{{range .Layout.Chrome.Slots}}[{{.}}]{{end}}` +
		`{{with .Layout.Chrome.Notification}}<toast data-kind="{{.Kind}}">{{.Text}}</toast>{{end}}` +
		`{{template "content" .}}</html>{{end}}` +
		`{{define "content"}}{{renderSection .CurrentPage .}}{{end}}`,
	"error.tmpl":            `{{define "error-layout"}}error {{.Code}}: {{.Message}}{{end}}`,
	"maintenance.tmpl":      `{{define "maintenance"}}<h1>Strona w budowie</h1><a href="/login">Panel Administratora</a>{{end}}`,
	"gate-loading.tmpl":     `{{define "gate-loading"}}<body hx-get="{{.RetryURL}}" data-retry="{{.RetryHeader}}">loading</body>{{end}}`,
	"pages/home.tmpl":       `{{define "home-content"}}home {{template "contact-form" .}}{{end}}`,
	"pages/login.tmpl":      `{{define "login-content"}}login{{if .Error}} {{.ErrorMessage}}{{end}}{{end}}`,
	"pages/portfolio.tmpl":  `{{define "portfolio-content"}}{{range .Projects}}<p>{{.Title}}</p>{{end}}{{end}}`,
	"pages/project.tmpl":    `{{define "project-content"}}{{.Detail.Project.Title}}{{end}}`,
	"pages/not-found.tmpl":  `{{define "not-found-content"}}nie znaleziono{{end}}`,
	"pages/forms.tmpl": `{{define "faq-form-content"}}{{template "faq-form" .}}{{end}}` +
		`{{define "faq-form"}}faq-form{{with .Form}} q={{.Question}}{{end}} action={{.Action}}` +
		`{{range $k, $v := .Errors}} {{$k}}={{$v}}{{end}}{{end}}` +
		`{{define "project-form-content"}}{{template "project-form" .}}{{end}}` +
		`{{define "project-form"}}project-form {{.Mode}}{{with .Form}} title={{.Title}} tags={{.TagsInput}}` +
		` thumb={{.ThumbnailURL}}{{end}} action={{.Action}}{{end}}` +
		`{{define "about-form-content"}}{{template "about-form" .}}{{end}}` +
		`{{define "about-form"}}about-form{{with .Form}} heading={{.Heading}}{{end}}{{end}}` +
		`{{define "testimonial-form-content"}}testimonial-form{{with .Form}} name={{.Name}}{{end}}{{end}}` +
		`{{define "inbox-content"}}inbox unread={{.Unread}}{{range .Submissions}} <li>{{.Subject}}</li>{{end}}{{end}}`,
	"partials/chrome.tmpl":  `{{define "chrome-header"}}header{{end}}`,
	"partials/contact.tmpl": `{{define "contact-form"}}contact-form{{if .Sent}} sent{{end}}` +
		`{{with .Form}} email={{.Email}}{{end}}{{range $k, $v := .Errors}} {{$k}}={{$v}}{{end}}{{end}}`,
	"partials/grid.tmpl": `{{define "portfolio-grid"}}grid{{range .Projects}} {{.Title}}{{end}}{{end}}`,
}

func newStubRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, body := range stubTemplates {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)
	return tr
}

func newStubUIHandlers(t *testing.T) *UIHandlers {
	t.Helper()
	return &UIHandlers{T: newStubRenderer(t), Site: SiteInfo{Name: "DameDesign"}}
}

// staticSiteMode reports a fixed maintenance flag.
type staticSiteMode bool

func (m staticSiteMode) IsMaintenanceMode(context.Context) bool { return bool(m) }

// stubResolver returns a fixed resolution.
type stubResolver struct {
	res   service.Resolution
	calls int
}

func (s *stubResolver) Resolve(context.Context, string, *domainauth.Session) service.Resolution {
	s.calls++
	return s.res
}

func browserGet(path string) *http.Request {
	r := chromeRequest(path)
	r.Header.Set("Accept", "text/html")
	return r
}
