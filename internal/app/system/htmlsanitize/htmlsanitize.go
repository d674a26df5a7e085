// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are built once; bluemonday policies are safe for concurrent use.
var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans rich-text input (article content, excerpts). Safe
// user-generated markup (paragraphs, emphasis, links) is preserved; script
// tags, event-handler attributes, and javascript: URLs are stripped.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// SanitizeText strips all markup from single-line fields (titles, category
// and tag names). The result is plain text with surrounding whitespace
// trimmed.
func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
