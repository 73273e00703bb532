package httpx

// CurrentPage constants identify pages in templates and navigation.
const (
	PageHome        = "home"
	PagePortfolio   = "portfolio"
	PageProject     = "project"
	PageProjectForm = "project-form"
	PageAboutForm   = "about-form"
	PageFAQForm     = "faq-form"
	PageTestimonial = "testimonial-form"
	PageInbox       = "inbox"
	PageLogin       = "login"
	PagePrivacy     = "privacy"
	PageNotFound    = "not-found"
	PageMaintenance = "maintenance"
	PageGateLoading = "gate-loading"
	PageServerError = "server-error"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// Cookie names.
const (
	SessionCookieName      = "session_id"
	ConsentCookieName      = "cookie_consent"
	HasVisitedCookieName   = "has_visited"
	NotificationCookieName = "notification"
)

// Consent cookie values.
const (
	ConsentAccepted = "accepted"
	ConsentDeclined = "declined"
)

// GateRetryHeader marks the placeholder's follow-up request.
const GateRetryHeader = "X-Gate-Retry"

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:        "home-content",
	PagePortfolio:   "portfolio-content",
	PageProject:     "project-content",
	PageProjectForm: "project-form-content",
	PageAboutForm:   "about-form-content",
	PageFAQForm:     "faq-form-content",
	PageTestimonial: "testimonial-form-content",
	PageInbox:       "inbox-content",
	PageLogin:       "login-content",
	PagePrivacy:     "privacy-content",
	PageNotFound:    "not-found-content",
	PageServerError: "server-error-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the not-found content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
