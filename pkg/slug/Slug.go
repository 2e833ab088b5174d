package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

/*
From turns an album title into a URL-safe slug: accents are stripped, the
result is lowercased, and every run of other characters becomes one hyphen.
"Café Wedding 2024!" becomes "cafe-wedding-2024".
*/
func From(title string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, title)

	if err != nil {
		result = title
	}

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
