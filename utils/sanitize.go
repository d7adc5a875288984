package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user supplied text and trims surrounding whitespace.
// The result is plain text: entities the policy escapes are decoded again, so
// "Tom & Jerry" is stored as typed and left for clients to escape on render.
func Sanitize(input string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(input)))
}
