// Package uiutil holds display formatting shared by templates.
package uiutil

import (
	"fmt"
	"strings"
	"time"
)

var monthsGenitive = [...]string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
	"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

// FormatDateTime renders t as "2 stycznia 2025, 14:05" in the local zone.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	lt := t.Local()
	return fmt.Sprintf("%d %s %d, %02d:%02d", lt.Day(), monthsGenitive[lt.Month()-1], lt.Year(), lt.Hour(), lt.Minute())
}

// FormatDate renders t as "2 stycznia 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	lt := t.Local()
	return fmt.Sprintf("%d %s %d", lt.Day(), monthsGenitive[lt.Month()-1], lt.Year())
}

// RelativeTime describes how long ago t happened, relative to now.
// Future times read as "przed chwilą".
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "przed chwilą"
	case diff < time.Hour:
		return fmt.Sprintf("%d min temu", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d godz. temu", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "wczoraj"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d dni temu", int(diff.Hours()/24))
	default:
		return FormatDate(t)
	}
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
