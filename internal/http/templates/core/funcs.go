package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/damedesign/portfolio/internal/http/ui/viewmodel"
	"github.com/damedesign/portfolio/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": createFriendlyTimeFunc(),
		"relativeTime": func(t time.Time) string { return uiutil.RelativeTime(t, now()) },
		"year":         func() int { return now().Year() },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"truncateText": TruncateText,
		"nl2br":        NL2BR,
		"safeURL":      func(s string) template.URL { return template.URL(s) }, // #nosec G203 - only used for admin-managed URLs
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	exec := func(name string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		// #nosec G203 - The HTML here is rendered by our own trusted templates (html/template),
		// and is embedded back into the same template set. User-provided values were already
		// auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		return exec(deps.ContentTemplateFor(page), data)
	}

	// renderSlot executes the chrome-<slot> template.
	funcs["renderSlot"] = func(slot viewmodel.Slot, data any) (template.HTML, error) {
		return exec("chrome-"+string(slot), data)
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func createFriendlyTimeFunc() func(any) string {
	return func(ts any) string {
		switch v := ts.(type) {
		case time.Time:
			return uiutil.FormatDateTime(v)
		case *time.Time:
			if v != nil {
				return uiutil.FormatDateTime(*v)
			}
		}
		return ""
	}
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
// The maxLen parameter can be any numeric type for template flexibility.
func TruncateText(s string, maxLen any) string {
	n, ok := toIntSafe(maxLen)
	if !ok {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, n)
}

// NL2BR escapes s and turns line breaks into <br>.
func NL2BR(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	// #nosec G203 - input is escaped above
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func toIntSafe(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}
