package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
)

var contactEmailTmpl = template.Must(template.New("contact").Parse(`<h2>Nowa wiadomość z formularza kontaktowego</h2>
<p><strong>Od:</strong> {{.Email}}</p>
<p><strong>Temat:</strong> {{.Subject}}</p>
<hr>
<p><strong>Wiadomość:</strong></p>
<p style="white-space: pre-wrap;">{{.Message}}</p>
{{- if .Attachments}}
<hr>
<p><strong>Załączniki:</strong></p>
<ul>
{{- range .Attachments}}
<li><a href="{{.URL}}">{{.Name}}</a></li>
{{- end}}
</ul>
{{- end}}
`))

// ContactEmailSubject formats the subject the owner's inbox filters on.
func ContactEmailSubject(subject, email string) string {
	return fmt.Sprintf("[F] %s | %s", subject, email)
}

// BuildContactEmail renders the notification sent to the site owner.
func BuildContactEmail(to string, req model.ContactRequest) (ports.Email, error) {
	var html bytes.Buffer
	if err := contactEmailTmpl.Execute(&html, req); err != nil {
		return ports.Email{}, fmt.Errorf("render contact email: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Od: %s\nTemat: %s\n\n%s\n", req.Email, req.Subject, req.Message)
	if len(req.Attachments) > 0 {
		text.WriteString("\nZałączniki:\n")
		for _, a := range req.Attachments {
			fmt.Fprintf(&text, "- %s: %s\n", a.Name, a.URL)
		}
	}

	return ports.Email{
		To:       to,
		ReplyTo:  req.Email,
		Subject:  ContactEmailSubject(req.Subject, req.Email),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
