package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/damedesign/portfolio/internal/domain/auth"
	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/http/ui/viewmodel"
)

const (
	browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	botUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func chromeRequest(path string, cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set("User-Agent", browserUA)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func adminSession() *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-1",
		UserID:    "u-1",
		Email:     "admin@damedesign.pl",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestComposeChrome_FirstVisitAnonymous(t *testing.T) {
	chrome := composeChrome(chromeRequest("/"), chromeInput{AnalyticsID: "G-TEST"})

	assert.Equal(t, []viewmodel.Slot{
		viewmodel.SlotProgressBar,
		viewmodel.SlotPreloader,
		viewmodel.SlotHeader,
		viewmodel.SlotContent,
		viewmodel.SlotFooter,
		viewmodel.SlotCookieBanner,
		viewmodel.SlotNotification,
		viewmodel.SlotPortalRoot,
	}, chrome.Slots)
	assert.Empty(t, chrome.AnalyticsID, "analytics waits for consent")
}

func TestComposeChrome_ReturningVisitorWithConsent(t *testing.T) {
	r := chromeRequest("/portfolio",
		&http.Cookie{Name: ConsentCookieName, Value: ConsentAccepted},
		&http.Cookie{Name: HasVisitedCookieName, Value: "true"},
	)
	chrome := composeChrome(r, chromeInput{AnalyticsID: "G-TEST"})

	assert.Equal(t, []viewmodel.Slot{
		viewmodel.SlotAnalytics,
		viewmodel.SlotProgressBar,
		viewmodel.SlotHeader,
		viewmodel.SlotContent,
		viewmodel.SlotFooter,
		viewmodel.SlotNotification,
		viewmodel.SlotPortalRoot,
	}, chrome.Slots)
	assert.Equal(t, "G-TEST", chrome.AnalyticsID)

	require.Len(t, chrome.Nav, 3)
	assert.True(t, chrome.Nav[1].Active)
	assert.False(t, chrome.Nav[0].Active)
}

func TestComposeChrome_DeclinedConsentHidesBannerAndAnalytics(t *testing.T) {
	r := chromeRequest("/", &http.Cookie{Name: ConsentCookieName, Value: ConsentDeclined})
	chrome := composeChrome(r, chromeInput{AnalyticsID: "G-TEST"})

	assert.False(t, chrome.Has(viewmodel.SlotAnalytics))
	assert.False(t, chrome.Has(viewmodel.SlotCookieBanner))
}

func TestComposeChrome_AdminWidgets(t *testing.T) {
	home := chromeRequest("/")
	home = home.WithContext(SetSessionInContext(home.Context(), adminSession()))
	chrome := composeChrome(home, chromeInput{})
	assert.True(t, chrome.Has(viewmodel.SlotNotificationCenter))
	assert.False(t, chrome.Has(viewmodel.SlotMaintenanceToggle), "toggle only on the login route")

	login := chromeRequest("/login")
	login = login.WithContext(SetSessionInContext(login.Context(), adminSession()))
	chrome = composeChrome(login, chromeInput{MaintenanceMode: true})
	assert.True(t, chrome.Has(viewmodel.SlotMaintenanceToggle))
	assert.True(t, chrome.MaintenanceMode)

	idxCenter, idxToggle, idxBanner := -1, -1, -1
	for i, s := range chrome.Slots {
		switch s {
		case viewmodel.SlotNotificationCenter:
			idxCenter = i
		case viewmodel.SlotMaintenanceToggle:
			idxToggle = i
		case viewmodel.SlotCookieBanner:
			idxBanner = i
		}
	}
	assert.Less(t, idxCenter, idxToggle)
	assert.Less(t, idxToggle, idxBanner)
}

func TestComposeChrome_AnonymousOnLoginHasNoAdminWidgets(t *testing.T) {
	chrome := composeChrome(chromeRequest("/login"), chromeInput{})
	assert.False(t, chrome.Has(viewmodel.SlotNotificationCenter))
	assert.False(t, chrome.Has(viewmodel.SlotMaintenanceToggle))
}

func TestComposeChrome_BotsSkipPreloaderAndBanner(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", botUA)
	r.AddCookie(&http.Cookie{Name: ConsentCookieName, Value: ConsentAccepted})
	chrome := composeChrome(r, chromeInput{AnalyticsID: "G-TEST"})

	assert.False(t, chrome.Has(viewmodel.SlotPreloader))
	assert.False(t, chrome.Has(viewmodel.SlotAnalytics))
	assert.True(t, chrome.Has(viewmodel.SlotHeader))
}

func TestComposeChrome_HTMXSkipsPreloader(t *testing.T) {
	r := chromeRequest("/portfolio")
	r.Header.Set("Hx-Request", "true")
	assert.False(t, composeChrome(r, chromeInput{}).Has(viewmodel.SlotPreloader))
}

func TestComposeChrome_Notification(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ch := notification.NewChannel(clock)
	ch.Add("Zapisano.", notification.KindSuccess)
	now = now.Add(time.Second)

	chrome := composeChrome(chromeRequest("/"), chromeInput{Notifications: ch})
	require.NotNil(t, chrome.Notification)
	assert.Equal(t, "Zapisano.", chrome.Notification.Text)
	assert.Equal(t, "success", chrome.Notification.Kind)
	assert.Equal(t, int64(3000), chrome.Notification.VisibleMS)

	now = now.Add(5 * time.Second)
	assert.Nil(t, composeChrome(chromeRequest("/"), chromeInput{Notifications: ch}).Notification)
}
