// Package htmlsanitize strips markup from user-supplied text before it
// is stored. Team names and descriptions are rendered back into other
// students' dashboards, so everything goes through the strict policy.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strict removes all HTML, leaving plain text.
func Strict(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
