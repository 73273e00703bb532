//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"net/mail"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

const (
	maxContactSubjectLen = 200
	maxContactMessageLen = 10000
	// MaxContactAttachments caps files per submission.
	MaxContactAttachments = 5
)

// Attachment is an uploaded file referenced from a submission.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ContactSubmission is a persisted contact form message.
type ContactSubmission struct {
	ID             int64     `json:"id"              db:"id"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
	Email          string    `json:"email"           db:"email"`
	Subject        string    `json:"subject"         db:"subject"`
	Message        string    `json:"message"         db:"message"`
	AttachmentURLs []string  `json:"attachment_urls" db:"attachment_urls"`
	IsRead         bool      `json:"is_read"         db:"is_read"`
}

// Attachments derives display names from the stored URLs.
func (s ContactSubmission) Attachments() []Attachment {
	out := make([]Attachment, 0, len(s.AttachmentURLs))
	for _, u := range s.AttachmentURLs {
		out = append(out, Attachment{Name: AttachmentName(u), URL: u})
	}
	return out
}

// AttachmentName returns the last path segment of u.
func AttachmentName(u string) string {
	trimmed := u
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := path.Base(trimmed)
	if name == "." || name == "/" {
		return u
	}
	return name
}

// ContactRequest is what a visitor submits.
type ContactRequest struct {
	Email       string       `json:"email"`
	Subject     string       `json:"subject"`
	Message     string       `json:"message"`
	Attachments []Attachment `json:"attachments"`
}

// Validate validates ContactRequest.
func (r *ContactRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if r.Subject == "" {
		return errors.New("subject is required")
	}
	if utf8.RuneCountInString(r.Subject) > maxContactSubjectLen {
		return errors.New("subject cannot exceed 200 characters")
	}
	if r.Message == "" {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(r.Message) > maxContactMessageLen {
		return errors.New("message cannot exceed 10000 characters")
	}
	if len(r.Attachments) > MaxContactAttachments {
		return fmt.Errorf("at most %d attachments are allowed", MaxContactAttachments)
	}
	return nil
}

// AttachmentURLs lists the attachment URLs in order.
func (r *ContactRequest) AttachmentURLs() []string {
	out := make([]string, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		if u := strings.TrimSpace(a.URL); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// ValidateEmail checks address syntax and that the domain is registrable.
func ValidateEmail(address string) error {
	if address == "" {
		return errors.New("email is required")
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return errors.New("email is not a valid address")
	}
	at := strings.LastIndex(address, "@")
	domain := strings.ToLower(address[at+1:])
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return fmt.Errorf("email domain %q is not a registrable domain", domain)
	}
	return nil
}

// ContactEventOp names the change carried by a ContactEvent.
type ContactEventOp string

const (
	ContactEventInsert ContactEventOp = "insert"
	ContactEventUpdate ContactEventOp = "update"
	ContactEventDelete ContactEventOp = "delete"
)

// ContactEvent is the payload published on the contact_submissions change feed.
type ContactEvent struct {
	Op ContactEventOp `json:"type"`
	ID int64          `json:"id"`
}
