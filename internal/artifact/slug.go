package artifact

import (
	"regexp"
	"strings"
)

// maxSlugLength bounds the slug so derived filenames stay manageable.
// Distinct tasks that agree on their first 50 slug characters collide.
const maxSlugLength = 50

var (
	slugInvalidChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
)

// Slug derives a filesystem-safe slug from the task text: special
// characters are removed, the result is lowercased, runs of whitespace
// become single underscores, and the slug is truncated to 50 characters.
func Slug(task string) string {
	clean := strings.ToLower(slugInvalidChars.ReplaceAllString(task, ""))
	slug := slugWhitespace.ReplaceAllString(strings.TrimSpace(clean), "_")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return slug
}
