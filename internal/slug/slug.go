// Package slug derives URL-safe identifiers from titles and names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything that isn't a lowercase letter, digit,
	// whitespace or hyphen. Non-ASCII is dropped, not transliterated.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun matches any run of whitespace, including tabs and newlines.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// hyphenRun collapses consecutive hyphens into one.
	hyphenRun = regexp.MustCompile(`-{2,}`)
)

// Make converts s into a deterministic slug: lowercase, strict ASCII,
// hyphen-separated. Example: "Goodbye World" -> "goodbye-world".
// Uniqueness is the store's concern, not this function's; identical
// inputs always produce identical slugs.
func Make(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = invalidChars.ReplaceAllString(out, "")
	out = whitespaceRun.ReplaceAllString(out, "-")
	out = hyphenRun.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
