//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxProjectTitleLen = 255
	// TagSeparator joins tags for display.
	TagSeparator = " • "
)

// Project is one portfolio entry.
type Project struct {
	ID           int64     `json:"id"             db:"id"`
	CreatedAt    time.Time `json:"created_at"     db:"created_at"`
	Title        string    `json:"title"          db:"title"`
	Slug         string    `json:"slug"           db:"slug"`
	Tags         []string  `json:"tags"           db:"tags"`
	Category     string    `json:"category"       db:"category"`
	Year         string    `json:"year"           db:"year"`
	Introduction string    `json:"introduction"   db:"introduction"`
	ThumbnailURL string    `json:"thumbnail_url"  db:"thumbnail_url"`
	MainImageURL string    `json:"main_image_url" db:"main_image_url"`
	Content      string    `json:"content"        db:"content"`
}

// TagsLabel renders the tags the way listings show them.
func (p Project) TagsLabel() string {
	return strings.Join(p.Tags, TagSeparator)
}

// TagsInput renders the tags for the edit form.
func (p Project) TagsInput() string {
	return strings.Join(p.Tags, ", ")
}

// YearNumber parses Year, returning 0 when it is not numeric.
func (p Project) YearNumber() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Year))
	if err != nil {
		return 0
	}
	return n
}

// HasAllTags reports whether every tag in want is present on p.
func (p Project) HasAllTags(want []string) bool {
	for _, w := range want {
		found := false
		for _, t := range p.Tags {
			if strings.EqualFold(t, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ProjectRef is the subset used for prev/next navigation and the sitemap.
type ProjectRef struct {
	ID        int64     `json:"id"         db:"id"`
	Title     string    `json:"title"      db:"title"`
	Slug      string    `json:"slug"       db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProjectNeighbors holds the adjacent projects in newest-first order.
type ProjectNeighbors struct {
	Prev *ProjectRef
	Next *ProjectRef
}

// ProjectRequest carries the editable fields of a project.
type ProjectRequest struct {
	Title        string   `json:"title"`
	Tags         []string `json:"tags"`
	Category     string   `json:"category"`
	Year         string   `json:"year"`
	Introduction string   `json:"introduction"`
	ThumbnailURL string   `json:"thumbnail_url"`
	MainImageURL string   `json:"main_image_url"`
	Content      string   `json:"content"`
}

// Normalize trims fields and cleans tags.
func (r *ProjectRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Year = strings.TrimSpace(r.Year)
	r.Introduction = strings.TrimSpace(r.Introduction)
	r.ThumbnailURL = strings.TrimSpace(r.ThumbnailURL)
	r.MainImageURL = strings.TrimSpace(r.MainImageURL)
	r.Tags = NormalizeTags(r.Tags)
}

// Validate validates ProjectRequest.
func (r *ProjectRequest) Validate() error {
	r.Normalize()
	if r.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(r.Title) > maxProjectTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if Slugify(r.Title) == "" {
		return errors.New("title must contain at least one letter or digit")
	}
	if len(r.Tags) == 0 {
		return errors.New("at least one tag is required")
	}
	if r.Category == "" {
		return errors.New("category is required")
	}
	if r.Year == "" {
		return errors.New("year is required")
	}
	if r.Introduction == "" {
		return errors.New("introduction is required")
	}
	return nil
}

// Slug returns the slug derived from the title.
func (r *ProjectRequest) Slug() string { return Slugify(r.Title) }

// TagsInput renders the tags for the edit form.
func (r *ProjectRequest) TagsInput() string { return strings.Join(r.Tags, ", ") }

// RequestFromProject copies the editable fields of p.
func RequestFromProject(p *Project) *ProjectRequest {
	return &ProjectRequest{
		Title:        p.Title,
		Tags:         append([]string(nil), p.Tags...),
		Category:     p.Category,
		Year:         p.Year,
		Introduction: p.Introduction,
		ThumbnailURL: p.ThumbnailURL,
		MainImageURL: p.MainImageURL,
		Content:      p.Content,
	}
}

var (
	slugSpaces  = regexp.MustCompile(` +`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)
	polishFold  = strings.NewReplacer(
		"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
		"ó", "o", "ś", "s", "ź", "z", "ż", "z",
	)
)

// Slugify lowercases title, folds Polish diacritics, replaces spaces with
// dashes and drops every other non-word character.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = polishFold.Replace(s)
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugInvalid.ReplaceAllString(s, "")
}

// ParseTags splits a comma separated input into tags.
func ParseTags(input string) []string {
	return NormalizeTags(strings.Split(input, ","))
}

// NormalizeTags trims, drops empties and de-duplicates case-insensitively,
// keeping the first spelling.
func NormalizeTags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		for _, part := range strings.Split(t, strings.TrimSpace(TagSeparator)) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// ProjectSort selects the listing order.
type ProjectSort string

const (
	ProjectSortNewest   ProjectSort = "newest"
	ProjectSortOldest   ProjectSort = "oldest"
	ProjectSortYearDesc ProjectSort = "year_desc"
	ProjectSortYearAsc  ProjectSort = "year_asc"
	// ProjectSortTags filters by tags and orders newest first.
	ProjectSortTags ProjectSort = "tags"
)

// ParseProjectSort normalizes v, defaulting to newest.
func ParseProjectSort(v string) ProjectSort {
	switch s := ProjectSort(strings.ToLower(strings.TrimSpace(v))); s {
	case ProjectSortNewest, ProjectSortOldest, ProjectSortYearDesc, ProjectSortYearAsc, ProjectSortTags:
		return s
	default:
		return ProjectSortNewest
	}
}

// ProjectListOptions controls the portfolio listing.
type ProjectListOptions struct {
	Sort ProjectSort
	// Tags is only applied when Sort is ProjectSortTags.
	Tags []string
}

// ApplyProjectListOptions filters and orders projects without mutating the input.
func ApplyProjectListOptions(in []Project, opts ProjectListOptions) []Project {
	out := make([]Project, 0, len(in))
	filter := opts.Sort == ProjectSortTags && len(opts.Tags) > 0
	for _, p := range in {
		if filter && !p.HasAllTags(opts.Tags) {
			continue
		}
		out = append(out, p)
	}

	switch opts.Sort {
	case ProjectSortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case ProjectSortYearDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].YearNumber() > out[j].YearNumber() })
	case ProjectSortYearAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].YearNumber() < out[j].YearNumber() })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// AllTags returns the distinct tags across projects in first-seen order.
func AllTags(projects []Project) []string {
	var all []string
	for _, p := range projects {
		all = append(all, p.Tags...)
	}
	return NormalizeTags(all)
}

// NeighborsOf locates slug in refs (newest first) and returns the adjacent
// entries. Prev is the newer project, Next the older one.
func NeighborsOf(refs []ProjectRef, id int64) ProjectNeighbors {
	var n ProjectNeighbors
	for i := range refs {
		if refs[i].ID != id {
			continue
		}
		if i > 0 {
			prev := refs[i-1]
			n.Prev = &prev
		}
		if i < len(refs)-1 {
			next := refs[i+1]
			n.Next = &next
		}
		break
	}
	return n
}
