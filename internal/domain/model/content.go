//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxFAQQuestionLen = 500
	maxPersonNameLen  = 255
	maxHeadingLen     = 255
)

// FAQItem is one question on the home page.
type FAQItem struct {
	ID        int64     `json:"id"         db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Question  string    `json:"question"   db:"question"`
	Answer    string    `json:"answer"     db:"answer"`
}

// FAQRequest carries the editable FAQ fields.
type FAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Validate validates FAQRequest.
func (r *FAQRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
	if r.Question == "" {
		return errors.New("question is required")
	}
	if utf8.RuneCountInString(r.Question) > maxFAQQuestionLen {
		return errors.New("question cannot exceed 500 characters")
	}
	if r.Answer == "" {
		return errors.New("answer is required")
	}
	return nil
}

// Testimonial is a client quote.
type Testimonial struct {
	ID        int64     `json:"id"         db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Name      string    `json:"name"       db:"name"`
	Text      string    `json:"text"       db:"text"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
}

// TestimonialRequest carries the editable testimonial fields.
type TestimonialRequest struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	AvatarURL string `json:"avatar_url"`
}

// Validate validates TestimonialRequest.
func (r *TestimonialRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Text = strings.TrimSpace(r.Text)
	r.AvatarURL = strings.TrimSpace(r.AvatarURL)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxPersonNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

// About is the singleton "O mnie" section.
type About struct {
	Heading     string    `json:"heading"     db:"heading"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"image_url"   db:"image_url"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// AboutRequest carries the editable about fields.
type AboutRequest struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Validate validates AboutRequest.
func (r *AboutRequest) Validate() error {
	r.Heading = strings.TrimSpace(r.Heading)
	r.Description = strings.TrimSpace(r.Description)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	if r.Heading == "" {
		return errors.New("heading is required")
	}
	if utf8.RuneCountInString(r.Heading) > maxHeadingLen {
		return errors.New("heading cannot exceed 255 characters")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	return nil
}

// Logo is a client logo shown in the carousel.
type Logo struct {
	ID        int64     `json:"id"         db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Name      string    `json:"name"       db:"name"`
	LogoURL   string    `json:"logo_url"   db:"logo_url"`
	AltText   string    `json:"alt_text"   db:"alt_text"`
}

// DefaultLogoName is used when an upload has no usable filename.
const DefaultLogoName = "Nowe Logo"

// NewLogoRequest derives a logo from an uploaded file.
func NewLogoRequest(originalFilename, url string) LogoRequest {
	name := strings.TrimSpace(originalFilename)
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	if name == "" {
		name = DefaultLogoName
	}
	return LogoRequest{Name: name, LogoURL: url, AltText: "Logo klienta: " + name}
}

// LogoRequest carries the fields of a new logo.
type LogoRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	AltText string `json:"alt_text"`
}

// Validate validates LogoRequest.
func (r *LogoRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.LogoURL = strings.TrimSpace(r.LogoURL)
	if r.Name == "" {
		r.Name = DefaultLogoName
	}
	if r.LogoURL == "" {
		return errors.New("logo_url is required")
	}
	if strings.TrimSpace(r.AltText) == "" {
		r.AltText = "Logo klienta: " + r.Name
	}
	return nil
}

// CarouselLoop repeats logos so a CSS marquee can loop seamlessly.
func CarouselLoop(logos []Logo) []Logo {
	if len(logos) == 0 {
		return nil
	}
	out := make([]Logo, 0, len(logos)*2)
	out = append(out, logos...)
	return append(out, logos...)
}
