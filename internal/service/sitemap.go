package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"
)

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap is the <urlset> document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapService builds sitemap.xml from the project list.
type SitemapService struct {
	Projects *ProjectService
	BaseURL  string
	Now      func() time.Time
}

// Build lists the home page, the portfolio index and every project.
func (s *SitemapService) Build(ctx context.Context) (*Sitemap, error) {
	refs, err := s.Projects.Refs(ctx)
	if err != nil {
		return nil, fmt.Errorf("build sitemap: %w", err)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC().Format(time.DateOnly)

	sm := &Sitemap{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	sm.URLs = append(sm.URLs,
		SitemapURL{Loc: s.BaseURL, LastMod: today, ChangeFreq: "yearly", Priority: "1.0"},
		SitemapURL{Loc: s.BaseURL + "/portfolio", LastMod: today, ChangeFreq: "monthly", Priority: "0.8"},
	)
	for _, ref := range refs {
		sm.URLs = append(sm.URLs, SitemapURL{
			Loc:        s.BaseURL + "/portfolio/" + url.PathEscape(ref.Slug),
			LastMod:    ref.CreatedAt.UTC().Format(time.DateOnly),
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}
	return sm, nil
}
