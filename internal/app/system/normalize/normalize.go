// internal/app/system/normalize/normalize.go

// Package normalize cleans user-supplied input before validation and
// storage. All free-text room fields pass through here so that what we
// persist is trimmed and free of markup.
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips all HTML. Room names, descriptions and locations are
// plain text; anything that looks like markup is user error or worse.
var strict = bluemonday.StrictPolicy()

// Name strips markup, trims surrounding whitespace and collapses
// internal runs of whitespace to single spaces. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(strict.Sanitize(s)), " ")
}

// QueryParam trims a query or form parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Text sanitizes a free-text field: HTML is stripped and surrounding
// whitespace removed. Used for descriptions and location text.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Currency uppercases and trims a currency code.
func Currency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
