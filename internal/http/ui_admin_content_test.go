package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/service"
)

func TestProjectNew_RendersEmptyForm(t *testing.T) {
	h := newStubUIHandlers(t)
	w := httptest.NewRecorder()
	h.ProjectNew(w, browserGet("/portfolio/new"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "project-form create")
	assert.Contains(t, w.Body.String(), "action=/admin/projects")
}

func TestProjectEdit_PrefillsFromSlug(t *testing.T) {
	h := newStubUIHandlers(t)
	h.Projects = &fakeProjects{items: []model.Project{
		{ID: 4, Title: "Logo Kawiarni", Slug: "logo-kawiarni", Tags: []string{"Logo", "Branding"}},
	}}
	r := browserGet("/portfolio/logo-kawiarni/edit")
	r.SetPathValue("slug", "logo-kawiarni")
	w := httptest.NewRecorder()

	h.ProjectEdit(w, r)

	body := w.Body.String()
	assert.Contains(t, body, "project-form edit")
	assert.Contains(t, body, "title=Logo Kawiarni")
	assert.Contains(t, body, "tags=Logo, Branding")
	assert.Contains(t, body, "action=/admin/projects/4")
}

func TestProjectEdit_UnknownSlug(t *testing.T) {
	h := newStubUIHandlers(t)
	h.Projects = &fakeProjects{}
	r := browserGet("/portfolio/nope/edit")
	r.SetPathValue("slug", "nope")
	w := httptest.NewRecorder()

	h.ProjectEdit(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectCreate_UploadsImages(t *testing.T) {
	h := newStubUIHandlers(t)
	projects := &fakeProjects{}
	uploads := &fakeUploader{}
	h.Projects, h.Uploads = projects, uploads

	r := multipartRequest(t, "/admin/projects", map[string]string{
		"title":         "Ilustracje Dla Dzieci",
		"tags":          "Ilustracje, Książka",
		"category":      "Ilustracja",
		"year":          "2024",
		"introduction":  "Seria ilustracji.",
		"thumbnail_url": "/uploads/projects/old.png",
	}, formFileSpec{Field: "main_image", Filename: "main.png", Body: "png"})
	w := httptest.NewRecorder()

	h.ProjectCreate(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	path, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "/portfolio", path)
	assert.Equal(t, "Projekt został pomyślnie dodany!", msg.Text)

	require.Len(t, projects.created, 1)
	got := projects.created[0]
	assert.Equal(t, []string{"Ilustracje", "Książka"}, got.Tags)
	assert.Equal(t, "/uploads/projects/old.png", got.ThumbnailURL)
	assert.Equal(t, "/uploads/projects/main.png", got.MainImageURL)
	assert.Equal(t, []string{service.FolderProjects}, uploads.folders)
}

func TestProjectCreate_UploadFailureKeepsForm(t *testing.T) {
	h := newStubUIHandlers(t)
	projects := &fakeProjects{}
	h.Projects, h.Uploads = projects, &fakeUploader{err: errors.New("bucket unavailable")}

	r := multipartRequest(t, "/admin/projects", map[string]string{"title": "Plakat"},
		formFileSpec{Field: "thumbnail", Filename: "t.png", Body: "png"})
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()

	h.ProjectCreate(w, r)

	assert.Contains(t, w.Body.String(), "title=Plakat")
	assert.Contains(t, w.Body.String(), "bucket unavailable")
	assert.Empty(t, projects.created)
}

func TestProjectUpdate_RedirectsToPortfolio(t *testing.T) {
	h := newStubUIHandlers(t)
	projects := &fakeProjects{}
	h.Projects = projects
	r := formPost("/admin/projects/3", url.Values{"title": {"Nowy tytuł"}, "tags": {"Logo"}})
	r.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	h.ProjectUpdate(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	_, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "Projekt został pomyślnie zaktualizowany!", msg.Text)
	assert.Equal(t, "Nowy tytuł", projects.updated[3].Title)
}

func TestProjectDelete(t *testing.T) {
	h := newStubUIHandlers(t)
	projects := &fakeProjects{items: []model.Project{{ID: 9, Title: "Plakat"}}}
	h.Projects = projects

	r := formPost("/admin/projects/9/delete", nil)
	r.SetPathValue("id", "9")
	w := httptest.NewRecorder()
	h.ProjectDelete(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	path, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "/portfolio", path)
	assert.Equal(t, `Projekt "Plakat" został usunięty.`, msg.Text)
	assert.Equal(t, []int64{9}, projects.deleted)
}

func TestProjectDelete_MissingProjectToastsError(t *testing.T) {
	h := newStubUIHandlers(t)
	h.Projects = &fakeProjects{}
	r := formPost("/admin/projects/9/delete", nil)
	r.SetPathValue("id", "9")
	r.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()

	h.ProjectDelete(w, r)

	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "project not found")
}

func TestFAQEdit_Prefills(t *testing.T) {
	h := newStubUIHandlers(t)
	h.FAQ = &fakeFAQ{items: map[int64]model.FAQItem{2: {ID: 2, Question: "Jak długo?", Answer: "Tydzień."}}}
	r := browserGet("/admin/faq/edit/2")
	r.SetPathValue("id", "2")
	w := httptest.NewRecorder()

	h.FAQEdit(w, r)

	assert.Contains(t, w.Body.String(), "q=Jak długo?")
	assert.Contains(t, w.Body.String(), "action=/admin/faq/2")
}

func TestFAQCreateAndDelete(t *testing.T) {
	h := newStubUIHandlers(t)
	faq := &fakeFAQ{}
	h.FAQ = faq

	w := httptest.NewRecorder()
	h.FAQCreate(w, formPost("/admin/faq", url.Values{"question": {"Q"}, "answer": {"A"}}))
	_, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "Nowe pytanie zostało pomyślnie dodane!", msg.Text)

	r := formPost("/admin/faq/1/delete", nil)
	r.SetPathValue("id", "1")
	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-Target", "faq-1")
	w = httptest.NewRecorder()
	h.FAQDelete(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "Pytanie zostało usunięte.")
	assert.Equal(t, []int64{1}, faq.deleted)
}

func TestTestimonialCreate_StoresAvatar(t *testing.T) {
	h := newStubUIHandlers(t)
	ts := &fakeTestimonials{}
	uploads := &fakeUploader{}
	h.Testimonials, h.Uploads = ts, uploads

	r := multipartRequest(t, "/admin/testimonials", map[string]string{"name": "Anna", "text": "Super!"},
		formFileSpec{Field: "avatar", Filename: "anna.jpg", Body: "jpg"})
	w := httptest.NewRecorder()
	h.TestimonialCreate(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	_, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "Nowa opinia została pomyślnie dodana!", msg.Text)
	require.Len(t, ts.created, 1)
	assert.Equal(t, "/uploads/testimonials/anna.jpg", ts.created[0].AvatarURL)
}

func TestTestimonialEdit_UnknownID(t *testing.T) {
	h := newStubUIHandlers(t)
	h.Testimonials = &fakeTestimonials{}
	r := browserGet("/admin/testimonials/edit/5")
	r.SetPathValue("id", "5")
	w := httptest.NewRecorder()

	h.TestimonialEdit(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAboutSave(t *testing.T) {
	h := newStubUIHandlers(t)
	about := &fakeAbout{current: model.About{Heading: "Cześć", Description: "Opis", ImageURL: "/a.png"}}
	h.About = about

	w := httptest.NewRecorder()
	h.AboutEdit(w, browserGet("/admin/edit-about"))
	assert.Contains(t, w.Body.String(), "heading=Cześć")

	w = httptest.NewRecorder()
	h.AboutSave(w, formPost("/admin/edit-about", url.Values{
		"heading": {"Hej"}, "description": {"Nowy opis"}, "image_url": {"/a.png"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	path, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "/", path)
	assert.Equal(t, "Sekcja 'O mnie' została zaktualizowana!", msg.Text)
	assert.Equal(t, "Hej", about.current.Heading)
	assert.Equal(t, "/a.png", about.current.ImageURL)
}

func TestAboutSave_ValidationError(t *testing.T) {
	h := newStubUIHandlers(t)
	h.About = &fakeAbout{}
	w := httptest.NewRecorder()

	h.AboutSave(w, formPost("/admin/edit-about", url.Values{"heading": {"Hej"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "heading=Hej")
}

func TestLogoUpload(t *testing.T) {
	h := newStubUIHandlers(t)
	logos := &fakeLogos{}
	h.Logos = logos

	w := httptest.NewRecorder()
	h.LogoUpload(w, multipartRequest(t, "/admin/logos", nil,
		formFileSpec{Field: "logo", Filename: "acme.svg", Body: "<svg/>"}))

	require.Equal(t, http.StatusSeeOther, w.Code)
	_, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "Logo zostało dodane.", msg.Text)
	assert.Equal(t, []string{"acme.svg"}, logos.uploaded)
}

func TestLogoUpload_MissingFile(t *testing.T) {
	h := newStubUIHandlers(t)
	logos := &fakeLogos{}
	h.Logos = logos
	r := multipartRequest(t, "/admin/logos", map[string]string{"x": "y"})
	r.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()

	h.LogoUpload(w, r)

	assert.Contains(t, w.Header().Get("Hx-Trigger"), "Wybierz plik z logo.")
	assert.Empty(t, logos.uploaded)
}

func TestUpload_ReturnsJSON(t *testing.T) {
	h := newStubUIHandlers(t)
	uploads := &fakeUploader{}
	h.Uploads = uploads

	w := httptest.NewRecorder()
	h.Upload(w, multipartRequest(t, "/admin/uploads", map[string]string{"folder": "about"},
		formFileSpec{Field: "file", Filename: "me.png", Body: "png"}))

	require.Equal(t, http.StatusCreated, w.Code)
	var got service.StoredFile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "/uploads/about/me.png", got.URL)
	assert.Equal(t, []string{"png"}, uploads.bodies)
}

func TestUpload_UnknownFolderFallsBack(t *testing.T) {
	h := newStubUIHandlers(t)
	uploads := &fakeUploader{}
	h.Uploads = uploads

	w := httptest.NewRecorder()
	h.Upload(w, multipartRequest(t, "/admin/uploads", map[string]string{"folder": "../etc"},
		formFileSpec{Field: "file", Filename: "x.png", Body: "png"}))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{service.FolderProjects}, uploads.folders)
}

func TestUpload_Errors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		newStubUIHandlers(t).Upload(w, multipartRequest(t, "/admin/uploads", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("no file", func(t *testing.T) {
		h := newStubUIHandlers(t)
		h.Uploads = &fakeUploader{}
		w := httptest.NewRecorder()
		h.Upload(w, multipartRequest(t, "/admin/uploads", map[string]string{"folder": "logos"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestToggleMaintenance(t *testing.T) {
	h := newStubUIHandlers(t)
	m := &fakeMaintenance{}
	h.Maintenance = m

	r := formPost("/admin/maintenance", url.Values{"enabled": {"true"}})
	r = r.WithContext(SetSessionInContext(r.Context(), &domainauth.Session{
		ID: "s1", Email: "dame@example.com", Role: domainauth.RoleAdmin,
	}))
	w := httptest.NewRecorder()
	h.ToggleMaintenance(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	path, msg := redirectNotification(t, w.Header().Get("Location"))
	assert.Equal(t, "/login", path)
	assert.Equal(t, notification.KindSuccess, msg.Kind)
	assert.Equal(t, `Tryb "Work In Progress" został WŁĄCZONY.`, msg.Text)
	assert.True(t, m.on)
	assert.Equal(t, []string{"dame@example.com"}, m.actors)

	w = httptest.NewRecorder()
	h.ToggleMaintenance(w, formPost("/admin/maintenance", url.Values{"enabled": {"false"}}))
	assert.False(t, m.on)
}
