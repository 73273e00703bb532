package httpx

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/service"
)

type fakeProjects struct {
	items     []model.Project
	created   []model.ProjectRequest
	updated   map[int64]model.ProjectRequest
	deleted   []int64
	createErr error
}

func (f *fakeProjects) All(context.Context) ([]model.Project, error) { return f.items, nil }

func (f *fakeProjects) Detail(_ context.Context, slug string) (*service.ProjectDetail, error) {
	p, err := f.GetBySlug(context.Background(), slug)
	if err != nil {
		return nil, err
	}
	return &service.ProjectDetail{Project: *p}, nil
}

func (f *fakeProjects) GetBySlug(_ context.Context, slug string) (*model.Project, error) {
	for i := range f.items {
		if f.items[i].Slug == slug {
			return &f.items[i], nil
		}
	}
	return nil, apperrors.NotFound("project not found")
}

func (f *fakeProjects) Create(_ context.Context, req *model.ProjectRequest) (*model.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	f.created = append(f.created, *req)
	return &model.Project{ID: int64(len(f.created)), Title: req.Title, Slug: req.Slug()}, nil
}

func (f *fakeProjects) Update(_ context.Context, id int64, req *model.ProjectRequest) (*model.Project, error) {
	if f.updated == nil {
		f.updated = map[int64]model.ProjectRequest{}
	}
	f.updated[id] = *req
	return &model.Project{ID: id, Title: req.Title, Slug: req.Slug()}, nil
}

func (f *fakeProjects) Delete(_ context.Context, id int64) (string, error) {
	for _, p := range f.items {
		if p.ID == id {
			f.deleted = append(f.deleted, id)
			return p.Title, nil
		}
	}
	return "", apperrors.NotFound("project not found")
}

type fakeFAQ struct {
	items   map[int64]model.FAQItem
	created []model.FAQRequest
	updated map[int64]model.FAQRequest
	deleted []int64
}

func (f *fakeFAQ) GetByID(_ context.Context, id int64) (*model.FAQItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("faq not found")
	}
	return &item, nil
}

func (f *fakeFAQ) Create(_ context.Context, req *model.FAQRequest) (*model.FAQItem, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	f.created = append(f.created, *req)
	return &model.FAQItem{ID: int64(len(f.created)), Question: req.Question, Answer: req.Answer}, nil
}

func (f *fakeFAQ) Update(_ context.Context, id int64, req *model.FAQRequest) (*model.FAQItem, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if f.updated == nil {
		f.updated = map[int64]model.FAQRequest{}
	}
	f.updated[id] = *req
	return &model.FAQItem{ID: id, Question: req.Question, Answer: req.Answer}, nil
}

func (f *fakeFAQ) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTestimonials struct {
	items   map[int64]model.Testimonial
	created []model.TestimonialRequest
	deleted []int64
}

func (f *fakeTestimonials) GetByID(_ context.Context, id int64) (*model.Testimonial, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("testimonial not found")
	}
	return &t, nil
}

func (f *fakeTestimonials) Create(_ context.Context, req *model.TestimonialRequest) (*model.Testimonial, error) {
	f.created = append(f.created, *req)
	return &model.Testimonial{ID: int64(len(f.created)), Name: req.Name}, nil
}

func (f *fakeTestimonials) Update(_ context.Context, id int64, req *model.TestimonialRequest) (*model.Testimonial, error) {
	return &model.Testimonial{ID: id, Name: req.Name}, nil
}

func (f *fakeTestimonials) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAbout struct {
	current model.About
	saved   []model.AboutRequest
}

func (f *fakeAbout) Get(context.Context) (*model.About, error) { return &f.current, nil }

func (f *fakeAbout) Save(_ context.Context, req *model.AboutRequest) (*model.About, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	f.saved = append(f.saved, *req)
	f.current = model.About{Heading: req.Heading, Description: req.Description, ImageURL: req.ImageURL}
	return &f.current, nil
}

type fakeLogos struct {
	uploaded []string
	deleted  []int64
}

func (f *fakeLogos) Upload(_ context.Context, file service.UploadedFile) (*model.Logo, error) {
	f.uploaded = append(f.uploaded, file.Filename)
	req := model.NewLogoRequest(file.Filename, "/uploads/logos/"+file.Filename)
	return &model.Logo{ID: int64(len(f.uploaded)), Name: req.Name, LogoURL: req.LogoURL}, nil
}

func (f *fakeLogos) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeUploader records uploads and returns deterministic URLs.
type fakeUploader struct {
	mu      sync.Mutex
	folders []string
	bodies  []string
	err     error
}

func (f *fakeUploader) Put(_ context.Context, folder string, file service.UploadedFile) (service.StoredFile, error) {
	if f.err != nil {
		return service.StoredFile{}, f.err
	}
	body, _ := io.ReadAll(file.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders = append(f.folders, folder)
	f.bodies = append(f.bodies, string(body))
	return service.StoredFile{
		URL:      "/uploads/" + folder + "/" + file.Filename,
		Filename: file.Filename,
		Key:      folder + "/" + file.Filename,
	}, nil
}

type fakeMaintenance struct {
	on     bool
	actors []string
}

func (f *fakeMaintenance) Set(_ context.Context, on bool, actor string) (notification.Message, error) {
	f.on = on
	f.actors = append(f.actors, actor)
	return service.MaintenanceMessage(on), nil
}

func (f *fakeMaintenance) Status(context.Context) (bool, error) { return f.on, nil }

type fakeContact struct {
	submitted []model.ContactRequest
	files     []string
	relayed   []model.ContactRequest
	submitErr error
	relayErr  error
}

func (f *fakeContact) Submit(
	_ context.Context,
	req model.ContactRequest,
	files []service.UploadedFile,
) (*model.ContactSubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	f.submitted = append(f.submitted, req)
	for _, file := range files {
		f.files = append(f.files, file.Filename)
	}
	sub := &model.ContactSubmission{ID: int64(len(f.submitted)), Email: req.Email, Subject: req.Subject}
	if f.submitErr != nil {
		return sub, f.submitErr
	}
	return sub, nil
}

func (f *fakeContact) Relay(_ context.Context, req model.ContactRequest) error {
	if err := req.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}
	f.relayed = append(f.relayed, req)
	return f.relayErr
}

type fakeInbox struct {
	subs    []model.ContactSubmission
	read    []int64
	deleted []int64
	err     error
}

func (f *fakeInbox) Load(context.Context) (*service.Inbox, error) {
	if f.err != nil {
		return nil, f.err
	}
	unread := 0
	for _, s := range f.subs {
		if !s.IsRead {
			unread++
		}
	}
	return &service.Inbox{Submissions: f.subs, Unread: unread}, nil
}

func (f *fakeInbox) MarkRead(_ context.Context, id int64) error {
	f.read = append(f.read, id)
	return f.err
}

func (f *fakeInbox) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeHome struct{ page service.HomePage }

func (f *fakeHome) Load(context.Context) (*service.HomePage, error) { return &f.page, nil }

// formFileSpec is one file part of a multipart test body.
type formFileSpec struct {
	Field    string
	Filename string
	Body     string
}

// multipartRequest builds a POST with the given fields and files.
func multipartRequest(t *testing.T, target string, fields map[string]string, files ...formFileSpec) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.Body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}
