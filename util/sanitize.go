package util

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// bodies may carry the usual user-generated markup
	bodyPolicy = bluemonday.UGCPolicy()
	// titles are plain text
	titlePolicy = bluemonday.StrictPolicy()
)

// SanitizeBody strips dangerous HTML from a thread or post body and returns
// the unescaped result.
func SanitizeBody(val string) string {
	return html.UnescapeString(bodyPolicy.Sanitize(val))
}

// SanitizeTitle strips all HTML from a thread title.
func SanitizeTitle(val string) string {
	return html.UnescapeString(titlePolicy.Sanitize(val))
}
