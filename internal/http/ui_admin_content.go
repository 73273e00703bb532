package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/service"
)

func projectFormMeta(mode FormMode) PageMeta {
	title := "Dodaj projekt"
	if mode == FormModeEdit {
		title = "Edytuj projekt"
	}
	return PageMeta{Title: title, CurrentPage: PageProjectForm}
}

// ProjectNew renders an empty project form.
// GET /portfolio/new.
func (h *UIHandlers) ProjectNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, projectFormMeta(FormModeCreate),
		formData(&model.ProjectRequest{}, FormModeCreate, "/admin/projects", 0))
}

// ProjectEdit renders the form prefilled with an existing project.
// GET /portfolio/{slug}/edit.
func (h *UIHandlers) ProjectEdit(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	h.Page(w, r, PageSpec{
		Meta: projectFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			p, err := h.Projects.GetBySlug(ctx, slug)
			if err != nil {
				return err
			}
			for k, v := range formData(model.RequestFromProject(p), FormModeEdit, projectAction(p.ID), p.ID) {
				data[k] = v
			}
			data["Slug"] = p.Slug
			return nil
		},
	})
}

func projectAction(id int64) string {
	return "/admin/projects/" + strconv.FormatInt(id, 10)
}

// parseProjectForm reads the project fields. New thumbnail or main image
// files replace the URLs carried in the hidden inputs.
func (h *UIHandlers) parseProjectForm(r *http.Request) (*model.ProjectRequest, error) {
	req := &model.ProjectRequest{
		Title:        r.FormValue("title"),
		Tags:         model.ParseTags(r.FormValue("tags")),
		Category:     r.FormValue("category"),
		Year:         r.FormValue("year"),
		Introduction: r.FormValue("introduction"),
		ThumbnailURL: r.FormValue("thumbnail_url"),
		MainImageURL: r.FormValue("main_image_url"),
		Content:      r.FormValue("content"),
	}
	var err error
	if req.ThumbnailURL, err = h.storeUpload(r, "thumbnail", service.FolderProjects, req.ThumbnailURL); err != nil {
		return req, err
	}
	if req.MainImageURL, err = h.storeUpload(r, "main_image", service.FolderProjects, req.MainImageURL); err != nil {
		return req, err
	}
	return req, nil
}

func (h *UIHandlers) projectForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	action := "/admin/projects"
	if mode == FormModeEdit {
		action = "/admin/projects/" + r.PathValue("id")
	}
	HandleForm(h, FormHandlerOpts[model.ProjectRequest, model.Project]{
		W: w, R: r,
		Mode:     mode,
		Parser:   h.parseProjectForm,
		Service:  h.Projects,
		Meta:     projectFormMeta(mode),
		Fragment: "project-form",
		Action:   action,
		Success: func(*model.Project) (notification.Message, string) {
			if mode == FormModeEdit {
				return notification.Success("Projekt został pomyślnie zaktualizowany!"), "/portfolio"
			}
			return notification.Success("Projekt został pomyślnie dodany!"), "/portfolio"
		},
	})
}

// ProjectCreate handles the new project form.
// POST /admin/projects.
func (h *UIHandlers) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	h.projectForm(w, r, FormModeCreate)
}

// ProjectUpdate handles the edit project form.
// POST /admin/projects/{id}.
func (h *UIHandlers) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	h.projectForm(w, r, FormModeEdit)
}

// ProjectDelete removes a project.
// POST /admin/projects/{id}/delete.
func (h *UIHandlers) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	title, err := h.Projects.Delete(r.Context(), id)
	if err != nil {
		h.toastError(w, r, err)
		return
	}
	respondDeleted(w, r, notification.Success(fmt.Sprintf("Projekt %q został usunięty.", title)), "/portfolio")
}

func faqFormMeta(mode FormMode) PageMeta {
	title := "Dodaj pytanie"
	if mode == FormModeEdit {
		title = "Edytuj pytanie"
	}
	return PageMeta{Title: title, CurrentPage: PageFAQForm}
}

// FAQNew renders an empty FAQ form.
// GET /admin/faq/new.
func (h *UIHandlers) FAQNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, faqFormMeta(FormModeCreate), formData(&model.FAQRequest{}, FormModeCreate, "/admin/faq", 0))
}

// FAQEdit renders the form for an existing question.
// GET /admin/faq/edit/{id}.
func (h *UIHandlers) FAQEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.Page(w, r, PageSpec{
		Meta: faqFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			item, err := h.FAQ.GetByID(ctx, id)
			if err != nil {
				return err
			}
			req := &model.FAQRequest{Question: item.Question, Answer: item.Answer}
			for k, v := range formData(req, FormModeEdit, "/admin/faq/"+strconv.FormatInt(id, 10), id) {
				data[k] = v
			}
			return nil
		},
	})
}

func parseFAQForm(r *http.Request) (*model.FAQRequest, error) {
	return &model.FAQRequest{Question: r.FormValue("question"), Answer: r.FormValue("answer")}, nil
}

func (h *UIHandlers) faqForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	action := "/admin/faq"
	if mode == FormModeEdit {
		action = "/admin/faq/" + r.PathValue("id")
	}
	HandleForm(h, FormHandlerOpts[model.FAQRequest, model.FAQItem]{
		W: w, R: r,
		Mode:     mode,
		Parser:   parseFAQForm,
		Service:  h.FAQ,
		Meta:     faqFormMeta(mode),
		Fragment: "faq-form",
		Action:   action,
		Success: func(*model.FAQItem) (notification.Message, string) {
			if mode == FormModeEdit {
				return notification.Success("Pytanie zostało pomyślnie zaktualizowane!"), "/"
			}
			return notification.Success("Nowe pytanie zostało pomyślnie dodane!"), "/"
		},
	})
}

// FAQCreate handles the new question form.
// POST /admin/faq.
func (h *UIHandlers) FAQCreate(w http.ResponseWriter, r *http.Request) { h.faqForm(w, r, FormModeCreate) }

// FAQUpdate handles the edit question form.
// POST /admin/faq/{id}.
func (h *UIHandlers) FAQUpdate(w http.ResponseWriter, r *http.Request) { h.faqForm(w, r, FormModeEdit) }

// FAQDelete removes a question.
// POST /admin/faq/{id}/delete.
func (h *UIHandlers) FAQDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.FAQ.Delete(r.Context(), id); err != nil {
		h.toastError(w, r, err)
		return
	}
	respondDeleted(w, r, notification.Success("Pytanie zostało usunięte."), "/")
}

func testimonialFormMeta(mode FormMode) PageMeta {
	title := "Dodaj opinię"
	if mode == FormModeEdit {
		title = "Edytuj opinię"
	}
	return PageMeta{Title: title, CurrentPage: PageTestimonial}
}

// TestimonialNew renders an empty testimonial form.
// GET /admin/testimonials/new.
func (h *UIHandlers) TestimonialNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, testimonialFormMeta(FormModeCreate),
		formData(&model.TestimonialRequest{}, FormModeCreate, "/admin/testimonials", 0))
}

// TestimonialEdit renders the form for an existing testimonial.
// GET /admin/testimonials/edit/{id}.
func (h *UIHandlers) TestimonialEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.Page(w, r, PageSpec{
		Meta: testimonialFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			t, err := h.Testimonials.GetByID(ctx, id)
			if err != nil {
				return err
			}
			req := &model.TestimonialRequest{Name: t.Name, Text: t.Text, AvatarURL: t.AvatarURL}
			for k, v := range formData(req, FormModeEdit, "/admin/testimonials/"+strconv.FormatInt(id, 10), id) {
				data[k] = v
			}
			return nil
		},
	})
}

func (h *UIHandlers) parseTestimonialForm(r *http.Request) (*model.TestimonialRequest, error) {
	req := &model.TestimonialRequest{
		Name:      r.FormValue("name"),
		Text:      r.FormValue("text"),
		AvatarURL: r.FormValue("avatar_url"),
	}
	var err error
	req.AvatarURL, err = h.storeUpload(r, "avatar", service.FolderTestimonials, req.AvatarURL)
	return req, err
}

func (h *UIHandlers) testimonialForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	action := "/admin/testimonials"
	if mode == FormModeEdit {
		action = "/admin/testimonials/" + r.PathValue("id")
	}
	HandleForm(h, FormHandlerOpts[model.TestimonialRequest, model.Testimonial]{
		W: w, R: r,
		Mode:     mode,
		Parser:   h.parseTestimonialForm,
		Service:  h.Testimonials,
		Meta:     testimonialFormMeta(mode),
		Fragment: "testimonial-form",
		Action:   action,
		Success: func(*model.Testimonial) (notification.Message, string) {
			if mode == FormModeEdit {
				return notification.Success("Opinia została pomyślnie zaktualizowana!"), "/"
			}
			return notification.Success("Nowa opinia została pomyślnie dodana!"), "/"
		},
	})
}

// TestimonialCreate handles the new testimonial form.
// POST /admin/testimonials.
func (h *UIHandlers) TestimonialCreate(w http.ResponseWriter, r *http.Request) {
	h.testimonialForm(w, r, FormModeCreate)
}

// TestimonialUpdate handles the edit testimonial form.
// POST /admin/testimonials/{id}.
func (h *UIHandlers) TestimonialUpdate(w http.ResponseWriter, r *http.Request) {
	h.testimonialForm(w, r, FormModeEdit)
}

// TestimonialDelete removes a testimonial.
// POST /admin/testimonials/{id}/delete.
func (h *UIHandlers) TestimonialDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Testimonials.Delete(r.Context(), id); err != nil {
		h.toastError(w, r, err)
		return
	}
	respondDeleted(w, r, notification.Success("Opinia została usunięta."), "/")
}

// aboutForm adapts the singleton about section to FormService; both
// operations upsert.
type aboutForm struct{ svc AboutContentService }

func (a aboutForm) Create(ctx context.Context, req *model.AboutRequest) (*model.About, error) {
	return a.svc.Save(ctx, req)
}

func (a aboutForm) Update(ctx context.Context, _ int64, req *model.AboutRequest) (*model.About, error) {
	return a.svc.Save(ctx, req)
}

func aboutMeta() PageMeta {
	return PageMeta{Title: "Edytuj sekcję O mnie", CurrentPage: PageAboutForm}
}

// AboutEdit renders the about section form.
// GET /admin/edit-about.
func (h *UIHandlers) AboutEdit(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: aboutMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			about, err := h.About.Get(ctx)
			if err != nil {
				return err
			}
			req := &model.AboutRequest{Heading: about.Heading, Description: about.Description, ImageURL: about.ImageURL}
			for k, v := range formData(req, FormModeEdit, "/admin/edit-about", 0) {
				data[k] = v
			}
			return nil
		},
	})
}

func (h *UIHandlers) parseAboutForm(r *http.Request) (*model.AboutRequest, error) {
	req := &model.AboutRequest{
		Heading:     r.FormValue("heading"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("image_url"),
	}
	var err error
	req.ImageURL, err = h.storeUpload(r, "image", service.FolderAbout, req.ImageURL)
	return req, err
}

// AboutSave stores the about section.
// POST /admin/edit-about.
func (h *UIHandlers) AboutSave(w http.ResponseWriter, r *http.Request) {
	HandleForm(h, FormHandlerOpts[model.AboutRequest, model.About]{
		W: w, R: r,
		Mode:     FormModeCreate,
		Parser:   h.parseAboutForm,
		Service:  aboutForm{svc: h.About},
		Meta:     aboutMeta(),
		Fragment: "about-form",
		Action:   "/admin/edit-about",
		Success: func(*model.About) (notification.Message, string) {
			return notification.Success("Sekcja 'O mnie' została zaktualizowana!"), "/"
		},
	})
}

// LogoUpload adds a client logo from the posted "logo" file.
// POST /admin/logos.
func (h *UIHandlers) LogoUpload(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		h.toastError(w, r, err)
		return
	}
	f, closeFiles, err := formFile(r, "logo")
	defer closeFiles()
	if err != nil {
		h.toastError(w, r, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Nie udało się odczytać pliku."))
		return
	}
	if f == nil {
		h.toastError(w, r, apperrors.ValidationField("logo", "Wybierz plik z logo."))
		return
	}
	if _, err := h.Logos.Upload(r.Context(), *f); err != nil {
		h.toastError(w, r, err)
		return
	}
	notify(w, r, notification.Success("Logo zostało dodane."), "/")
}

// LogoDelete removes a client logo.
// POST /admin/logos/{id}/delete.
func (h *UIHandlers) LogoDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Logos.Delete(r.Context(), id); err != nil {
		h.toastError(w, r, err)
		return
	}
	respondDeleted(w, r, notification.Success("Logo zostało usunięte."), "/")
}

//nolint:gochecknoglobals // static lookup
var uploadFolders = map[string]string{
	service.FolderProjects:     service.FolderProjects,
	service.FolderTestimonials: service.FolderTestimonials,
	service.FolderAbout:        service.FolderAbout,
	service.FolderLogos:        service.FolderLogos,
}

// Upload stores one "file" and answers with its public URL. The editor uses
// it for inline images.
// POST /admin/uploads.
func (h *UIHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Uploads == nil {
		WriteAppError(w, apperrors.Unavailable("Przesyłanie plików jest wyłączone."))
		return
	}
	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		WriteAppError(w, err)
		return
	}
	f, closeFiles, err := formFile(r, "file")
	defer closeFiles()
	if err != nil {
		WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Nie udało się odczytać pliku."))
		return
	}
	if f == nil {
		WriteAppError(w, apperrors.ValidationField("file", "Brak pliku."))
		return
	}
	folder, ok := uploadFolders[r.FormValue("folder")]
	if !ok {
		folder = service.FolderProjects
	}
	stored, err := h.Uploads.Put(r.Context(), folder, *f)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "upload failed", "folder", folder, "error", err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, stored)
}

// ToggleMaintenance flips the maintenance flag and returns to the login page,
// where the admin controls live.
// POST /admin/maintenance.
func (h *UIHandlers) ToggleMaintenance(w http.ResponseWriter, r *http.Request) {
	on, err := strconv.ParseBool(r.PostFormValue("enabled"))
	if err != nil {
		on = r.PostFormValue("enabled") == "on"
	}
	actor := ""
	if s := GetSessionFromContext(r.Context()); s != nil {
		actor = s.Email
	}
	msg, err := h.Maintenance.Set(r.Context(), on, actor)
	if err != nil {
		h.toastError(w, r, err)
		return
	}
	notify(w, r, msg, "/login")
}
