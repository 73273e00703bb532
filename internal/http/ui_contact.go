package httpx

import (
	"errors"
	"net/http"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/domain/notification"
	apperrors "github.com/damedesign/portfolio/internal/errors"
	"github.com/damedesign/portfolio/internal/service"
)

const (
	contactAnchor       = "/#kontakt"
	contactSentMessage  = "Wiadomość wysłana!"
	contactEmailOK      = "Email sent successfully"
	contactEmailFailed  = "Failed to send email"
	contactAttachmentIn = "attachment"
)

func contactRequestFromForm(r *http.Request) model.ContactRequest {
	return model.ContactRequest{
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}
}

func contactFormData(req model.ContactRequest, sent bool) map[string]any {
	return map[string]any{
		"Form":           req,
		"Sent":           sent,
		"MaxAttachments": model.MaxContactAttachments,
	}
}

// ContactSubmit stores a contact message with its attachments and emails the
// owner. htmx submissions get the form fragment back: blank with the success
// popup, or with the submitted values and an error toast. A submission whose
// email failed is kept for the inbox and still reported as a failure.
// POST /contact.
func (h *UIHandlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		h.contactFailed(w, r, model.ContactRequest{}, err)
		return
	}
	req := contactRequestFromForm(r)

	files, closeFiles, err := formFiles(r, contactAttachmentIn)
	defer closeFiles()
	if err != nil {
		h.contactFailed(w, r, req, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Nie udało się odczytać załącznika."))
		return
	}

	sub, err := h.Contact.Submit(r.Context(), req, files)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotSent) && sub != nil {
			h.logger().WarnContext(r.Context(), "contact stored without email", "id", sub.ID)
		}
		h.contactFailed(w, r, req, err)
		return
	}

	if !IsHTMX(r) {
		notify(w, r, notification.Success(contactSentMessage), contactAnchor)
		return
	}
	if err := h.T.RenderNamed(w, "contact-form", contactFormData(model.ContactRequest{}, true)); err != nil {
		h.logAndRenderTemplateError(w, r, err, "contact form render")
	}
}

func (h *UIHandlers) contactFailed(w http.ResponseWriter, r *http.Request, req model.ContactRequest, err error) {
	data := contactFormData(req, false)
	if !IsHTMX(r) {
		// A plain post lands back on the full landing page with the typed values.
		if loadErr := h.loadHome(r.Context(), data); loadErr != nil {
			h.logger().WarnContext(r.Context(), "landing page content unavailable", "error", loadErr)
		}
	}
	h.renderFormError(w, r, FormErrorOpts{
		Err:      err,
		Meta:     homeMeta(),
		Fragment: "contact-form",
		Data:     data,
	})
}

type sendEmailResponse struct {
	Message string `json:"message"`
}

// SendEmail relays a JSON contact message without storing it.
// POST /api/send-email.
func (h *UIHandlers) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.Contact.Relay(r.Context(), req); err != nil {
		if apperrors.IsValidation(err) {
			WriteJSON(w, http.StatusBadRequest, sendEmailResponse{Message: apperrors.UserMessage(err)})
			return
		}
		h.logger().ErrorContext(r.Context(), "send email failed", "error", err)
		WriteJSON(w, http.StatusInternalServerError, sendEmailResponse{Message: contactEmailFailed})
		return
	}
	WriteJSON(w, http.StatusOK, sendEmailResponse{Message: contactEmailOK})
}
