package httpx

import (
	"errors"
	"net/http"

	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
)

// FormErrorOpts contains everything needed to re-render a form after a failed submit.
type FormErrorOpts struct {
	// Err is the failure; its Field (if any) is highlighted in the form.
	Err error
	// Meta describes the full page used for non-htmx submissions.
	Meta PageMeta
	// Fragment is the template re-rendered for htmx submissions.
	Fragment string
	// Data carries the submitted values and anything else the form needs.
	Data map[string]any
}

// renderFormError re-renders the submitted form with its values and an error
// notification. htmx submissions get the fragment plus a toast; full posts get
// the page with the notification in the chrome.
func (h *UIHandlers) renderFormError(w http.ResponseWriter, r *http.Request, opts FormErrorOpts) {
	msg := notification.Error(apperrors.UserMessage(opts.Err))
	fieldErrors := map[string]string{}
	if field := apperrors.GetField(opts.Err); field != "" {
		fieldErrors[field] = msg.Text
	}

	h.logger().InfoContext(r.Context(), "form submission rejected",
		"path", r.URL.Path, "code", apperrors.GetCode(opts.Err), "error", opts.Err)

	if WantsPartial(r) && opts.Fragment != "" {
		data := map[string]any{"CSRFToken": GetCSRFToken(r)}
		for k, v := range opts.Data {
			data[k] = v
		}
		data["Errors"] = fieldErrors
		HTMX(w).Toast(msg)
		if err := h.T.RenderNamed(w, opts.Fragment, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "form fragment render")
		}
		return
	}

	ch := Notifications(r.Context())
	ch.Add(msg.Text, msg.Kind)
	r = r.WithContext(setNotificationsInContext(r.Context(), ch))
	data := h.basePageData(r, opts.Meta)
	for k, v := range opts.Data {
		data[k] = v
	}
	data["Errors"] = fieldErrors
	data["Error"] = true
	data["ErrorMessage"] = msg.Text
	if apperrors.IsValidation(opts.Err) {
		writeHTMLStatus(w, http.StatusUnprocessableEntity)
	}
	h.renderPage(w, r, data)
}

// NotFound renders the 404 page for browsers and a JSON error for API callers.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) || h == nil || h.T == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}

	data := h.basePageData(r, PageMeta{Title: "Nie znaleziono strony", CurrentPage: PageNotFound})
	data["Code"] = http.StatusNotFound
	writeHTMLStatus(w, http.StatusNotFound)
	h.renderPage(w, r, data)
}

// serverError renders the generic error page after logging err.
func (h *UIHandlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "error", err)
	if !IsBrowserRequest(r) {
		WriteAppError(w, err)
		return
	}
	if IsHTMX(r) {
		h.toastError(w, r, err)
		return
	}
	data := map[string]any{
		"Title":   "Wystąpił błąd",
		"Code":    http.StatusInternalServerError,
		"Message": apperrors.UserMessage(err),
	}
	writeHTMLStatus(w, http.StatusInternalServerError)
	if renderErr := h.T.RenderError(w, r, data); renderErr != nil {
		h.logger().Error("failed to render error page", "error", renderErr)
	}
}

// writeHTMLStatus sets the HTML content type before committing status.
func writeHTMLStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
}
