package httpx

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/domain/sitegate"
	"github.com/damedesign/portfolio/internal/http/ui/viewmodel"
)

// chromeInput is the per-request state the composer reads besides the request itself.
type chromeInput struct {
	AnalyticsID     string
	MaintenanceMode bool
	Notifications   *notification.Channel
}

//nolint:gochecknoglobals // static navigation
var navLinks = []viewmodel.NavLink{
	{Label: "O mnie", Href: "/#o-mnie"},
	{Label: "Portfolio", Href: "/portfolio"},
	{Label: "Kontakt", Href: "/#kontakt"},
}

// composeChrome lists the chrome slots for a Normal render, in document order:
// analytics, progress bar, preloader, header, content, footer, admin widgets,
// cookie banner, notification, portal root.
func composeChrome(r *http.Request, in chromeInput) viewmodel.Chrome {
	bot := isBot(r)
	consent := cookieValue(r, ConsentCookieName)
	principal := HasPrincipal(r.Context())

	chrome := viewmodel.Chrome{
		Slots:           make([]viewmodel.Slot, 0, 11),
		Nav:             activeNav(r.URL.Path),
		MaintenanceMode: in.MaintenanceMode,
	}

	if in.AnalyticsID != "" && consent == ConsentAccepted && !bot {
		chrome.AnalyticsID = in.AnalyticsID
		chrome.Slots = append(chrome.Slots, viewmodel.SlotAnalytics)
	}
	chrome.Slots = append(chrome.Slots, viewmodel.SlotProgressBar)
	if cookieValue(r, HasVisitedCookieName) == "" && !bot && !IsHTMX(r) {
		chrome.Slots = append(chrome.Slots, viewmodel.SlotPreloader)
	}
	chrome.Slots = append(chrome.Slots, viewmodel.SlotHeader, viewmodel.SlotContent, viewmodel.SlotFooter)
	if principal {
		chrome.Slots = append(chrome.Slots, viewmodel.SlotNotificationCenter)
		if sitegate.IsLoginRoute(r.URL.Path) {
			chrome.Slots = append(chrome.Slots, viewmodel.SlotMaintenanceToggle)
		}
	}
	if consent == "" && !bot {
		chrome.Slots = append(chrome.Slots, viewmodel.SlotCookieBanner)
	}
	chrome.Slots = append(chrome.Slots, viewmodel.SlotNotification)
	chrome.Slots = append(chrome.Slots, viewmodel.SlotPortalRoot)

	if in.Notifications != nil {
		if msg, ok := in.Notifications.Current(); ok {
			chrome.Notification = &viewmodel.Notification{
				Text:      msg.Text,
				Kind:      string(msg.Kind),
				VisibleMS: in.Notifications.Remaining().Milliseconds(),
			}
		}
	}
	return chrome
}

func activeNav(path string) []viewmodel.NavLink {
	out := make([]viewmodel.NavLink, len(navLinks))
	copy(out, navLinks)
	for i := range out {
		href := out[i].Href
		if strings.HasPrefix(href, "/#") {
			continue
		}
		out[i].Active = path == href || strings.HasPrefix(path, href+"/")
	}
	return out
}

// isBot reports whether the user agent is a crawler. Crawlers get neither
// the preloader nor analytics nor the consent banner.
func isBot(r *http.Request) bool {
	ua := strings.TrimSpace(r.UserAgent())
	if ua == "" {
		return false
	}
	return useragent.New(ua).Bot()
}
