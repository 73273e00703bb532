package config

import "strings"

// SiteConfig holds settings for the public site.
type SiteConfig struct {
	// Name is shown in titles and the footer.
	Name string `env:"SITE_NAME" envDefault:"DameDesign"`

	// BaseURL is the canonical origin used for the sitemap and OG tags.
	BaseURL string `env:"SITE_BASE_URL" envDefault:"https://damedesign.pl"`

	// MaintenanceFallback is used when site_settings cannot be read.
	MaintenanceFallback bool `env:"MAINTENANCE_MODE" envDefault:"false"`

	// AnalyticsMeasurementID enables the consent-gated analytics loader when set.
	AnalyticsMeasurementID string `env:"GA_MEASUREMENT_ID"`

	// LatestProjects is the number of projects shown on the home page.
	LatestProjects int `env:"SITE_LATEST_PROJECTS" envDefault:"5"`
}

// Sanitize normalises site settings.
func (s *SiteConfig) Sanitize() {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = "DameDesign"
	}
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	s.AnalyticsMeasurementID = strings.TrimSpace(s.AnalyticsMeasurementID)
	if s.LatestProjects < 1 {
		s.LatestProjects = 5
	}
}

// AnalyticsEnabled reports whether an analytics id is configured.
func (s *SiteConfig) AnalyticsEnabled() bool {
	return s.AnalyticsMeasurementID != ""
}
