// Package sanitize strips markup from user-provided text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTag  = regexp.MustCompile(`<[^>]*>`)
	entities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", `"`, "&#39;", "'")
)

// Text removes HTML tags, including ones hidden behind entities, and trims
// surrounding whitespace.
func Text(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	s = entities.Replace(s)
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}
