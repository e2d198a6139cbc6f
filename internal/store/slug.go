package store

import (
	"regexp"
	"strings"
)

var (
	nonSlugPattern  = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashPattern = regexp.MustCompile(`(^-|-$)`)
	markupPattern   = regexp.MustCompile(`<[^>]*>`)
)

// Slugify turns a title into a URL slug: lowercase, runs of anything outside
// [a-z0-9] collapse to a single dash, edge dashes dropped.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugPattern.ReplaceAllString(slug, "-")
	return edgeDashPattern.ReplaceAllString(slug, "")
}

// Excerpt derives a plain-text preview from post content, capped at
// maxLength characters plus an ellipsis when truncated.
func Excerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = 150
	}
	plain := markupPattern.ReplaceAllString(content, "")
	plain = strings.TrimSpace(plain)
	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}
