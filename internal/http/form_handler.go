package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
)

// FormService is the create/update pair every content form is backed by.
type FormService[Req, Out any] interface {
	Create(ctx context.Context, req *Req) (*Out, error)
	Update(ctx context.Context, id int64, req *Req) (*Out, error)
}

// FormParser builds the request from a parsed form. It always returns a
// request so the submitted values can be shown again when err is non-nil.
type FormParser[Req any] func(r *http.Request) (*Req, error)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[Req, Out any] struct {
	W       http.ResponseWriter
	R       *http.Request
	Mode    FormMode
	Parser  FormParser[Req]
	Service FormService[Req, Out]
	// Meta describes the form page for full re-renders.
	Meta PageMeta
	// Fragment is re-rendered for htmx submissions.
	Fragment string
	// Action is the URL the form posts to.
	Action string
	// Success returns the notification and the redirect target.
	Success func(out *Out) (notification.Message, string)
}

// HandleForm processes a create or edit submission: parse, store, then
// redirect with a notification. Failures re-render the form with the
// submitted values.
func HandleForm[Req, Out any](h *UIHandlers, opts FormHandlerOpts[Req, Out]) {
	w, r := opts.W, opts.R
	if opts.Parser == nil || opts.Service == nil || opts.Success == nil {
		http.Error(w, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	var id int64
	if opts.Mode == FormModeEdit {
		var ok bool
		if id, ok = pathID(r); !ok {
			h.NotFound(w, r)
			return
		}
	}

	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		h.renderFormError(w, r, opts.errorOpts(err, nil, id))
		return
	}

	req, err := opts.Parser(r)
	if err != nil {
		h.renderFormError(w, r, opts.errorOpts(err, req, id))
		return
	}

	var out *Out
	if opts.Mode == FormModeEdit {
		out, err = opts.Service.Update(r.Context(), id, req)
	} else {
		out, err = opts.Service.Create(r.Context(), req)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			http.Error(w, "request canceled", http.StatusRequestTimeout)
			return
		}
		h.renderFormError(w, r, opts.errorOpts(err, req, id))
		return
	}

	msg, target := opts.Success(out)
	notify(w, r, msg, target)
}

func (opts FormHandlerOpts[Req, Out]) errorOpts(err error, req *Req, id int64) FormErrorOpts {
	if req == nil {
		req = new(Req)
	}
	return FormErrorOpts{
		Err:      err,
		Meta:     opts.Meta,
		Fragment: opts.Fragment,
		Data:     formData(req, opts.Mode, opts.Action, id),
	}
}

// formData is the shared shape every form template reads.
func formData(form any, mode FormMode, action string, id int64) map[string]any {
	return map[string]any{
		"Form":   form,
		"Mode":   mode,
		"IsEdit": mode == FormModeEdit,
		"Action": action,
		"ID":     id,
	}
}

// storeUpload saves the file posted under field and returns its URL. Without
// a file the fallback URL is kept.
func (h *UIHandlers) storeUpload(r *http.Request, field, folder, fallback string) (string, error) {
	f, closeFiles, err := formFile(r, field)
	defer closeFiles()
	if err != nil {
		return fallback, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Nie udało się odczytać pliku.")
	}
	if f == nil {
		return fallback, nil
	}
	if h.Uploads == nil {
		return fallback, apperrors.Unavailable("Przesyłanie plików jest wyłączone.")
	}
	stored, err := h.Uploads.Put(r.Context(), folder, *f)
	if err != nil {
		return fallback, err
	}
	return stored.URL, nil
}

// renderForm renders a form page for the initial GET.
func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, meta PageMeta, data map[string]any) {
	h.Page(w, r, PageSpec{
		Meta: meta,
		Fetch: func(_ context.Context, page map[string]any) error {
			for k, v := range data {
				page[k] = v
			}
			return nil
		},
	})
}

// respondDeleted confirms a delete. An htmx request that targets a row gets
// an empty 200 so the row is swapped out; everything else is redirected.
func respondDeleted(w http.ResponseWriter, r *http.Request, msg notification.Message, redirectTo string) {
	if IsHTMX(r) && r.Header.Get("Hx-Target") != "" {
		HTMX(w).Toast(msg)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return
	}
	notify(w, r, msg, redirectTo)
}
