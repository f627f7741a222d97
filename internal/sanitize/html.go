package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML. Used for comments and short labels.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy keeps basic formatting. Used for bios and descriptions edited in the admin area.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML tags and surrounding whitespace. The result is plain
// text: entities escaped by the policy are decoded again.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// HTML removes scripts, event handlers and styles but keeps safe formatting.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}
