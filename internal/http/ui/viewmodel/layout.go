package viewmodel

// User is the signed-in administrator as exposed to templates.
type User struct {
	Name  string
	Email string
}

// NavLink is one header/footer navigation entry.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Slot names a chrome region. Slots render in the order Chrome.Slots lists them.
type Slot string

const (
	SlotAnalytics          Slot = "analytics"
	SlotProgressBar        Slot = "progress-bar"
	SlotPreloader          Slot = "preloader"
	SlotHeader             Slot = "header"
	SlotContent            Slot = "content"
	SlotFooter             Slot = "footer"
	SlotNotificationCenter Slot = "notification-center"
	SlotMaintenanceToggle  Slot = "maintenance-toggle"
	SlotCookieBanner       Slot = "cookie-banner"
	SlotNotification       Slot = "notification"
	SlotPortalRoot         Slot = "portal-root"
)

// Notification is the toast shown on first paint.
type Notification struct {
	Text string
	Kind string
	// VisibleMS is how long the toast stays before the client hides it.
	VisibleMS int64
}

// Chrome is everything composed around the page content.
type Chrome struct {
	Slots []Slot

	AnalyticsID string
	Nav         []NavLink
	// MaintenanceMode is the flag shown by the maintenance toggle.
	MaintenanceMode bool
	Notification    *Notification
}

// Has reports whether slot is part of the composed chrome.
func (c Chrome) Has(slot Slot) bool {
	for _, s := range c.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Layout captures shared page metadata.
type Layout struct {
	Title       string
	Description string
	CurrentPage string
	Path        string
	// CanonicalURL is absolute when a site base URL is configured.
	CanonicalURL    string
	SiteName        string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Chrome          Chrome
}

// LayoutData satisfies LayoutProvider.
func (l *Layout) LayoutData() *Layout { return l }

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
